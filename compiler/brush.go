// SPDX-License-Identifier: GPL-2.0-or-later

package compiler

import (
	"goqbsp/bsp"
	"goqbsp/math/vec"
	"goqbsp/winding"
)

type SideDef struct {
	Plane   winding.Plane
	Texture TextureParams
}

// BrushDef is a convex solid, the intersection of the back half spaces of
// its sides.
type BrushDef struct {
	Sides []SideDef
	// Contents 0 means ContentsSolid.
	Contents bsp.Contents
}

func (b *BrushDef) contents() bsp.Contents {
	if b.Contents == bsp.ContentsEmpty {
		return bsp.ContentsSolid
	}
	return b.Contents
}

func (b *BrushDef) planes() []winding.Plane {
	ps := make([]winding.Plane, len(b.Sides))
	for i, s := range b.Sides {
		ps[i] = s.Plane
	}
	return ps
}

// Box returns an axial box brush with sides ordered top, bottom, north,
// south, east, west.
func Box(mins, maxs vec.Vec3, tex TextureParams) BrushDef {
	side := func(n vec.Vec3, d float64) SideDef {
		return SideDef{Plane: winding.Plane{Normal: n, Dist: d}, Texture: tex}
	}
	return BrushDef{Sides: []SideDef{
		side(vec.Vec3{Z: 1}, maxs.Z),
		side(vec.Vec3{Z: -1}, -mins.Z),
		side(vec.Vec3{Y: 1}, maxs.Y),
		side(vec.Vec3{Y: -1}, -mins.Y),
		side(vec.Vec3{X: 1}, maxs.X),
		side(vec.Vec3{X: -1}, -mins.X),
	}}
}

// HollowBox returns the six walls of a room filling mins..maxs, ordered
// top, bottom, north, south, east, west. Walls do not overlap: top and bottom
// span the whole box, north and south sit between them, east and west fill
// the rest.
func HollowBox(mins, maxs vec.Vec3, thickness float64, tex TextureParams) []BrushDef {
	t := thickness
	v := func(x, y, z float64) vec.Vec3 { return vec.Vec3{X: x, Y: y, Z: z} }
	return []BrushDef{
		Box(v(mins.X, mins.Y, maxs.Z-t), maxs, tex),
		Box(mins, v(maxs.X, maxs.Y, mins.Z+t), tex),
		Box(v(mins.X, maxs.Y-t, mins.Z+t), v(maxs.X, maxs.Y, maxs.Z-t), tex),
		Box(v(mins.X, mins.Y, mins.Z+t), v(maxs.X, mins.Y+t, maxs.Z-t), tex),
		Box(v(maxs.X-t, mins.Y+t, mins.Z+t), v(maxs.X, maxs.Y-t, maxs.Z-t), tex),
		Box(v(mins.X, mins.Y+t, mins.Z+t), v(mins.X+t, maxs.Y-t, maxs.Z-t), tex),
	}
}

// WindingFunc computes the polygon of every side of a convex brush, indexed
// like planes. A nil entry is a side without area.
type WindingFunc func(planes []winding.Plane) []*winding.Winding

type processedBrush struct {
	index    int
	def      *BrushDef
	windings []*winding.Winding
	planes   []int
	texInfos []int
}

// preprocess resolves the windings of brush i and registers its sides. The
// brush and brush side records are appended to the collision arrays.
func (c *compiler) preprocess(i int, def *BrushDef) processedBrush {
	pb := processedBrush{
		index:    i,
		def:      def,
		windings: make([]*winding.Winding, len(def.Sides)),
		planes:   make([]int, len(def.Sides)),
		texInfos: make([]int, len(def.Sides)),
	}
	copy(pb.windings, c.windings(def.planes()))

	first := len(c.brushSides)
	for s, side := range def.Sides {
		pb.planes[s] = c.planes.FindOrAdd(side.Plane.Normal, side.Plane.Dist)
		pb.texInfos[s] = c.texInfos.FindOrAdd(side.Texture)
		c.brushSides = append(c.brushSides, bsp.BrushSide{
			PlaneNum: pb.planes[s],
			TexInfo:  pb.texInfos[s],
		})
	}
	c.brushes = append(c.brushes, bsp.Brush{
		FirstSide: first,
		NumSides:  len(c.brushSides) - first,
		Contents:  def.contents(),
	})
	return pb
}
