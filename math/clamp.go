// SPDX-License-Identifier: GPL-2.0-or-later

package math

import (
	gmath "math"
)

type Number interface {
	int64 | int32 | int16 | float64 | float32 | int
}

func Clamp[K Number](min, val, max K) K {
	if min > val {
		return min
	} else if max < val {
		return max
	}
	return val
}

// Short saturates v into the int16 range used by on-disk bounding boxes.
func Short(v float64) int16 {
	return int16(Clamp(gmath.MinInt16, v, gmath.MaxInt16))
}
