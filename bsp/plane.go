// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"math"

	"github.com/chewxy/math32"

	"goqbsp/math/vec"
)

// PlaneTypeForNormal returns PlaneX/Y/Z for axial normals, otherwise the
// PlaneAny* type of the dominant axis.
func PlaneTypeForNormal(n vec.Vec3) int32 {
	switch {
	case n.X == 1 || n.X == -1:
		return PlaneX
	case n.Y == 1 || n.Y == -1:
		return PlaneY
	case n.Z == 1 || n.Z == -1:
		return PlaneZ
	}
	ax, ay, az := math.Abs(n.X), math.Abs(n.Y), math.Abs(n.Z)
	if ax >= ay && ax >= az {
		return PlaneAnyX
	}
	if ay >= ax && ay >= az {
		return PlaneAnyY
	}
	return PlaneAnyZ
}

// planeType32 is PlaneTypeForNormal on a decoded float32 normal.
func planeType32(n [3]float32) int32 {
	for i := 0; i < 3; i++ {
		if n[i] == 1 || n[i] == -1 {
			return int32(i)
		}
	}
	ax, ay, az := math32.Abs(n[0]), math32.Abs(n[1]), math32.Abs(n[2])
	if ax >= ay && ax >= az {
		return PlaneAnyX
	}
	if ay >= ax && ay >= az {
		return PlaneAnyY
	}
	return PlaneAnyZ
}

// unitNormal32 reports whether a decoded normal survived float32 narrowing
// as a unit vector.
func unitNormal32(n [3]float32) bool {
	l := math32.Sqrt(n[0]*n[0] + n[1]*n[1] + n[2]*n[2])
	return math32.Abs(l-1) < 0.001
}

// Distance returns the signed distance of p to the plane.
func (p *Plane) Distance(pt vec.Vec3) float64 {
	return vec.Dot(pt, p.Normal) - p.Dist
}
