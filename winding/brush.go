// SPDX-License-Identifier: GPL-2.0-or-later

package winding

// ForBrush builds the face polygon of every side of the convex brush bounded
// by planes. The result is indexed like planes; a side that is clipped away
// entirely is nil.
func ForBrush(planes []Plane) []*Winding {
	ws := make([]*Winding, len(planes))
	for i, p := range planes {
		w := BaseForPlane(p.Normal, p.Dist)
		for j, o := range planes {
			if i == j {
				continue
			}
			// the brush lies behind each of its planes
			w = Clip(w, o.Normal, o.Dist, OnEpsilon, false)
			if w == nil {
				break
			}
		}
		ws[i] = w
	}
	return ws
}
