// SPDX-License-Identifier: GPL-2.0-or-later

package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goqbsp/bsp"
	"goqbsp/math/vec"
	"goqbsp/winding"
)

func TestPlaneSetFindOrAdd(t *testing.T) {
	s := NewPlaneSet()
	up := vec.Vec3{Z: 1}

	a := s.FindOrAdd(up, 64)
	b := s.FindOrAdd(up, 64)
	assert.Equal(t, a, b)
	assert.Equal(t, 1, s.Len())

	c := s.FindOrAdd(vec.Vec3{X: 0.00001, Z: 1}, 64.00005)
	assert.Equal(t, a, c)
	assert.Equal(t, 1, s.Len())

	d := s.FindOrAdd(up, 65)
	assert.NotEqual(t, a, d)
	e := s.FindOrAdd(up.Negate(), -64)
	assert.NotEqual(t, a, e)
	assert.Equal(t, 3, s.Len())

	assert.Equal(t, bsp.PlaneZ, s.Plane(a).Type)
	assert.Equal(t, 64.0, s.Plane(a).Dist)
}

func TestPlaneSetAcrossBuckets(t *testing.T) {
	s := NewPlaneSet()
	n := vec.Vec3{X: 0.6, Y: 0.8}
	a := s.FindOrAdd(n, 0.99999)
	b := s.FindOrAdd(n, 1.00001)
	assert.Equal(t, a, b)
	assert.Equal(t, bsp.PlaneAnyY, s.Plane(a).Type)
}

func TestTexInfoSet(t *testing.T) {
	s := NewTexInfoSet()
	p := TextureParams{Name: "e1u1/floor1_1", OffsetX: 8, OffsetY: 4, ScaleX: 2, ScaleY: 0.5}

	a := s.FindOrAdd(p)
	assert.Equal(t, a, s.FindOrAdd(p))
	assert.Equal(t, 1, s.Len())

	ti := s.TexInfos()[a]
	assert.Equal(t, vec.Vec3{X: 0.5}, ti.S)
	assert.Equal(t, vec.Vec3{Y: -2}, ti.T)
	assert.Equal(t, 8.0, ti.SOffset)
	assert.Equal(t, 4.0, ti.TOffset)
	assert.Equal(t, int32(-1), ti.NextTexInfo)
	assert.Equal(t, "e1u1/floor1_1", ti.Texture)

	p.Rotation = 90
	assert.NotEqual(t, a, s.FindOrAdd(p))

	sky := s.FindOrAdd(TextureParams{Name: "sky"})
	assert.Equal(t, 2, sky)
	z := s.TexInfos()[sky]
	assert.Equal(t, vec.Vec3{X: 1}, z.S)
	assert.Equal(t, vec.Vec3{Y: -1}, z.T)
}

func TestWeldAcrossCells(t *testing.T) {
	w := NewWelder()
	a := w.AddVertex(vec.Vec3{X: 0.999})
	b := w.AddVertex(vec.Vec3{X: 1.001})
	assert.Equal(t, a, b)

	c := w.AddVertex(vec.Vec3{X: -0.005, Y: 0.005, Z: 2.995})
	d := w.AddVertex(vec.Vec3{X: 0.004, Y: -0.004, Z: 3.004})
	assert.Equal(t, c, d)

	e := w.AddVertex(vec.Vec3{X: 1.02})
	assert.NotEqual(t, a, e)
	assert.Len(t, w.Vertices, 3)
	assert.Equal(t, vec.Vec3{X: 0.999}, w.Vertices[a])
}

func TestAddEdge(t *testing.T) {
	w := NewWelder()
	fwd := w.AddEdge(3, 7)
	rev := w.AddEdge(7, 3)
	assert.Greater(t, fwd, 0)
	assert.Equal(t, -fwd, rev)
	assert.Len(t, w.Edges, 2)
	assert.Equal(t, fwd, w.AddEdge(3, 7))

	// the sentinel is never matched
	assert.NotEqual(t, 0, w.AddEdge(0, 0))
}

func TestAddFace(t *testing.T) {
	w := NewWelder()
	sq := winding.New(
		vec.Vec3{X: 0, Y: 0},
		vec.Vec3{X: 0, Y: 16},
		vec.Vec3{X: 16, Y: 16},
		vec.Vec3{X: 16, Y: 0},
	)
	f := w.AddFace(sq, 2, 0, 1)
	r := w.AddFace(sq.Reverse(), 3, 1, 1)
	assert.Equal(t, 0, f)
	assert.Equal(t, 1, r)
	assert.Len(t, w.Vertices, 4)
	assert.Len(t, w.Edges, 5)
	assert.Equal(t, []int32{1, 2, 3, 4, -3, -2, -1, -4}, w.SurfEdges)

	face := w.Faces[f]
	assert.Equal(t, 2, face.PlaneNum)
	assert.Equal(t, 4, face.NumEdges)
	assert.Equal(t, int32(-1), face.LightOfs)
	assert.Equal(t, [4]byte{bsp.NoStyle, bsp.NoStyle, bsp.NoStyle, bsp.NoStyle}, face.Styles)

	d := &bsp.Data{Edges: w.Edges, SurfEdges: w.SurfEdges, Faces: w.Faces}
	assert.Equal(t, []int{0, 1, 2, 3}, d.FaceVertices(f))
	assert.Equal(t, []int{3, 2, 1, 0}, d.FaceVertices(r))
}

func TestPreprocess(t *testing.T) {
	brushes := []BrushDef{
		Box(vec.Vec3{}, vec.Vec3{X: 16, Y: 16, Z: 16}, TextureParams{Name: "a"}),
		Box(vec.Vec3{X: 16}, vec.Vec3{X: 32, Y: 16, Z: 16}, TextureParams{Name: "a"}),
	}
	brushes[1].Contents = bsp.ContentsWater
	c := newTestCompiler(brushes)

	require.Len(t, c.brushes, 2)
	assert.Equal(t, bsp.Brush{FirstSide: 0, NumSides: 6, Contents: bsp.ContentsSolid}, c.brushes[0])
	assert.Equal(t, bsp.Brush{FirstSide: 6, NumSides: 6, Contents: bsp.ContentsWater}, c.brushes[1])
	assert.Len(t, c.brushSides, 12)
	// coplanar top, bottom, north and south sides share their planes
	for s := 0; s < 4; s++ {
		assert.Equal(t, c.brushList[0].planes[s], c.brushList[1].planes[s])
	}
	assert.NotEqual(t, c.brushList[0].planes[4], c.brushList[1].planes[5])
	assert.Equal(t, 8, c.planes.Len())
	assert.Equal(t, 1, c.texInfos.Len())
	for _, w := range c.brushList[0].windings {
		assert.NotNil(t, w)
	}
}
