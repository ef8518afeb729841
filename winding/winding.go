// SPDX-License-Identifier: GPL-2.0-or-later

// Package winding implements convex polygons lying on a plane and the
// plane clipping needed to carve brush faces.
package winding

import (
	"math"

	"goqbsp/math/vec"
)

const (
	// MaxWorldCoord is the half-size of a base winding.
	MaxWorldCoord = 1 << 20
	// OnEpsilon is the default plane-side tolerance.
	OnEpsilon = 0.1
)

type Side int

const (
	SideFront Side = iota
	SideBack
	SideOn
	SideCross
)

// Plane is a plane by value: dot(p, Normal) == Dist.
type Plane struct {
	Normal vec.Vec3
	Dist   float64
}

// Winding is an ordered closed convex polygon.
type Winding struct {
	Points []vec.Vec3
}

func New(points ...vec.Vec3) *Winding {
	return &Winding{Points: points}
}

func (w *Winding) Copy() *Winding {
	p := make([]vec.Vec3, len(w.Points))
	copy(p, w.Points)
	return &Winding{Points: p}
}

// Reverse returns a copy with the point order flipped.
func (w *Winding) Reverse() *Winding {
	n := len(w.Points)
	p := make([]vec.Vec3, n)
	for i := range w.Points {
		p[i] = w.Points[n-1-i]
	}
	return &Winding{Points: p}
}

func (w *Winding) Bounds() (mins, maxs vec.Vec3) {
	mins = vec.Vec3{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)}
	maxs = vec.Vec3{X: math.Inf(-1), Y: math.Inf(-1), Z: math.Inf(-1)}
	for _, p := range w.Points {
		mins = vec.Min(mins, p)
		maxs = vec.Max(maxs, p)
	}
	return mins, maxs
}

// Center is the average of all points.
func (w *Winding) Center() vec.Vec3 {
	var c vec.Vec3
	if len(w.Points) == 0 {
		return c
	}
	for _, p := range w.Points {
		c = vec.Add(c, p)
	}
	return c.Scale(1 / float64(len(w.Points)))
}

// BaseForPlane returns a huge square on the plane, the starting point before
// clipping against the brush's other planes.
func BaseForPlane(normal vec.Vec3, dist float64) *Winding {
	// find the major axis
	x := -1
	m := -float64(MaxWorldCoord)
	for i := 0; i < 3; i++ {
		v := math.Abs(normal.Idx(i))
		if v > m {
			x = i
			m = v
		}
	}

	var vup vec.Vec3
	switch x {
	case 0, 1:
		vup.Z = 1
	case 2:
		vup.X = 1
	}
	v := vec.Dot(vup, normal)
	vup = vec.Sub(vup, normal.Scale(v)).Normalize()

	org := normal.Scale(dist)
	vright := vec.Cross(vup, normal)

	vup = vup.Scale(MaxWorldCoord)
	vright = vright.Scale(MaxWorldCoord)

	return New(
		vec.Add(vec.Sub(org, vright), vup),
		vec.Add(vec.Add(org, vright), vup),
		vec.Sub(vec.Add(org, vright), vup),
		vec.Sub(vec.Sub(org, vright), vup),
	)
}

func classify(w *Winding, normal vec.Vec3, dist, eps float64) ([]float64, []Side, [3]int) {
	n := len(w.Points)
	dists := make([]float64, n+1)
	sides := make([]Side, n+1)
	var counts [3]int
	for i, p := range w.Points {
		d := vec.Dot(p, normal) - dist
		dists[i] = d
		switch {
		case d > eps:
			sides[i] = SideFront
		case d < -eps:
			sides[i] = SideBack
		default:
			sides[i] = SideOn
		}
		counts[sides[i]]++
	}
	dists[n] = dists[0]
	sides[n] = sides[0]
	return dists, sides, counts
}

// OnPlaneSide classifies the whole winding against a plane.
func OnPlaneSide(w *Winding, normal vec.Vec3, dist, eps float64) Side {
	_, _, counts := classify(w, normal, dist, eps)
	switch {
	case counts[SideFront] > 0 && counts[SideBack] > 0:
		return SideCross
	case counts[SideFront] > 0:
		return SideFront
	case counts[SideBack] > 0:
		return SideBack
	}
	return SideOn
}

// Split cuts w by the plane. A winding lying on the plane is returned on both
// sides. Pieces with fewer than three points are dropped.
func Split(w *Winding, normal vec.Vec3, dist, eps float64) (front, back *Winding) {
	dists, sides, counts := classify(w, normal, dist, eps)
	if counts[SideFront] == 0 && counts[SideBack] == 0 {
		return w.Copy(), w.Copy()
	}
	if counts[SideFront] == 0 {
		return nil, w.Copy()
	}
	if counts[SideBack] == 0 {
		return w.Copy(), nil
	}

	n := len(w.Points)
	f := make([]vec.Vec3, 0, n+4)
	b := make([]vec.Vec3, 0, n+4)
	for i, p1 := range w.Points {
		switch sides[i] {
		case SideOn:
			f = append(f, p1)
			b = append(b, p1)
			continue
		case SideFront:
			f = append(f, p1)
		case SideBack:
			b = append(b, p1)
		}
		if sides[i+1] == SideOn || sides[i+1] == sides[i] {
			continue
		}
		p2 := w.Points[(i+1)%n]
		mid := vec.Lerp(p1, p2, dists[i]/(dists[i]-dists[i+1]))
		f = append(f, mid)
		b = append(b, mid)
	}
	if len(f) >= 3 {
		front = &Winding{Points: f}
	}
	if len(b) >= 3 {
		back = &Winding{Points: b}
	}
	return front, back
}

// Clip keeps the part of w on one side of the plane, or nil if nothing is
// left.
func Clip(w *Winding, normal vec.Vec3, dist, eps float64, keepFront bool) *Winding {
	front, back := Split(w, normal, dist, eps)
	if keepFront {
		return front
	}
	return back
}
