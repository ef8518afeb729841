// SPDX-License-Identifier: GPL-2.0-or-later

package compiler

import (
	"math"

	"goqbsp/bsp"
	"goqbsp/math/vec"
)

// PlaneEpsilon is the tolerance on normal components and distance under which
// two planes are the same plane.
const PlaneEpsilon = 1e-4

// PlaneSet deduplicates oriented planes. Planes are bucketed by the floor of
// their distance so a lookup only scans three buckets.
type PlaneSet struct {
	planes  []bsp.Plane
	buckets map[int][]int
}

func NewPlaneSet() *PlaneSet {
	return &PlaneSet{buckets: make(map[int][]int)}
}

// FindOrAdd returns the index of the plane (normal, dist), registering it if
// no plane within PlaneEpsilon exists yet. Stored planes are never modified.
func (s *PlaneSet) FindOrAdd(normal vec.Vec3, dist float64) int {
	b := int(math.Floor(dist))
	for k := b - 1; k <= b+1; k++ {
		for _, i := range s.buckets[k] {
			p := &s.planes[i]
			if math.Abs(p.Dist-dist) < PlaneEpsilon && vec.Near(p.Normal, normal, PlaneEpsilon) {
				return i
			}
		}
	}
	i := len(s.planes)
	s.planes = append(s.planes, bsp.Plane{
		Normal: normal,
		Dist:   dist,
		Type:   bsp.PlaneTypeForNormal(normal),
	})
	s.buckets[b] = append(s.buckets[b], i)
	return i
}

func (s *PlaneSet) Plane(i int) bsp.Plane {
	return s.planes[i]
}

func (s *PlaneSet) Len() int {
	return len(s.planes)
}

// Planes returns the registered planes in registration order.
func (s *PlaneSet) Planes() []bsp.Plane {
	return s.planes
}
