// SPDX-License-Identifier: GPL-2.0-or-later

package winding

import (
	"testing"

	"goqbsp/math/vec"
)

func boxPlanes(mins, maxs vec.Vec3) []Plane {
	return []Plane{
		{vec.Vec3{X: 1}, maxs.X},
		{vec.Vec3{X: -1}, -mins.X},
		{vec.Vec3{Y: 1}, maxs.Y},
		{vec.Vec3{Y: -1}, -mins.Y},
		{vec.Vec3{Z: 1}, maxs.Z},
		{vec.Vec3{Z: -1}, -mins.Z},
	}
}

func TestBaseForPlaneLiesOnPlane(t *testing.T) {
	n := vec.Vec3{X: 1, Y: 1, Z: 0}.Normalize()
	w := BaseForPlane(n, 16)
	if len(w.Points) != 4 {
		t.Fatalf("BaseForPlane has %d points, want 4", len(w.Points))
	}
	for _, p := range w.Points {
		if d := vec.Dot(p, n) - 16; d > 1e-6 || d < -1e-6 {
			t.Errorf("point %v is %v away from the plane", p, d)
		}
	}
}

func TestSplit(t *testing.T) {
	w := New(
		vec.Vec3{X: -1, Y: -1},
		vec.Vec3{X: 1, Y: -1},
		vec.Vec3{X: 1, Y: 1},
		vec.Vec3{X: -1, Y: 1},
	)
	f, b := Split(w, vec.Vec3{X: 1}, 0, OnEpsilon)
	if f == nil || b == nil {
		t.Fatalf("Split() = %v, %v; want two pieces", f, b)
	}
	fmins, _ := f.Bounds()
	_, bmaxs := b.Bounds()
	if fmins.X != 0 {
		t.Errorf("front mins.X = %v, want 0", fmins.X)
	}
	if bmaxs.X != 0 {
		t.Errorf("back maxs.X = %v, want 0", bmaxs.X)
	}

	f, b = Split(w, vec.Vec3{X: 1}, 5, OnEpsilon)
	if f != nil || b == nil {
		t.Errorf("Split() behind plane = %v, %v", f, b)
	}

	f, b = Split(w, vec.Vec3{Z: 1}, 0, OnEpsilon)
	if f == nil || b == nil {
		t.Errorf("Split() of an on-plane winding = %v, %v; want both", f, b)
	}
}

func TestOnPlaneSide(t *testing.T) {
	w := New(vec.Vec3{}, vec.Vec3{X: 1}, vec.Vec3{Y: 1})
	tests := []struct {
		n    vec.Vec3
		d    float64
		want Side
	}{
		{vec.Vec3{X: 1}, -1, SideFront},
		{vec.Vec3{X: 1}, 2, SideBack},
		{vec.Vec3{X: 1}, 0.5, SideCross},
		{vec.Vec3{Z: 1}, 0, SideOn},
		{vec.Vec3{X: 1}, 0.95, SideBack},
	}
	for _, tc := range tests {
		if got := OnPlaneSide(w, tc.n, tc.d, OnEpsilon); got != tc.want {
			t.Errorf("OnPlaneSide(%v,%v) = %v, want %v", tc.n, tc.d, got, tc.want)
		}
	}
}

func TestClipAway(t *testing.T) {
	w := New(vec.Vec3{}, vec.Vec3{X: 1}, vec.Vec3{Y: 1})
	if got := Clip(w, vec.Vec3{X: 1}, 5, OnEpsilon, true); got != nil {
		t.Errorf("Clip() kept %v", got)
	}
	if got := Clip(w, vec.Vec3{X: 1}, 5, OnEpsilon, false); got == nil {
		t.Errorf("Clip() dropped the winding")
	}
}

func TestForBrushBox(t *testing.T) {
	mins := vec.Vec3{X: 0, Y: 0, Z: 0}
	maxs := vec.Vec3{X: 1, Y: 2, Z: 3}
	planes := boxPlanes(mins, maxs)
	ws := ForBrush(planes)
	if len(ws) != len(planes) {
		t.Fatalf("ForBrush returned %d windings, want %d", len(ws), len(planes))
	}
	for i, w := range ws {
		if w == nil {
			t.Fatalf("side %d has no winding", i)
		}
		if len(w.Points) != 4 {
			t.Errorf("side %d has %d points, want 4", i, len(w.Points))
		}
		for _, p := range w.Points {
			if d := vec.Dot(p, planes[i].Normal) - planes[i].Dist; d > 1e-6 || d < -1e-6 {
				t.Errorf("side %d point %v is off its plane by %v", i, p, d)
			}
			if !vec.Near(vec.Max(vec.Min(p, maxs), mins), p, 1e-6) {
				t.Errorf("side %d point %v is outside the box", i, p)
			}
		}
	}
}

func TestReverse(t *testing.T) {
	w := New(vec.Vec3{X: 1}, vec.Vec3{X: 2}, vec.Vec3{X: 3})
	r := w.Reverse()
	if r.Points[0].X != 3 || r.Points[2].X != 1 {
		t.Errorf("Reverse() = %v", r.Points)
	}
	if c := w.Center(); c.X != 2 {
		t.Errorf("Center() = %v, want x=2", c)
	}
}
