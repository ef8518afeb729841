// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"goqbsp/math/vec"
)

// Contents are bit flags describing the physical nature of a leaf or brush.
type Contents int32

const ContentsEmpty Contents = 0

const (
	ContentsSolid Contents = 1 << iota
	ContentsWindow
	ContentsAux
	ContentsLava
	ContentsSlime
	ContentsWater
	ContentsMist
)

const (
	ContentsAreaPortal  Contents = 0x8000
	ContentsPlayerClip  Contents = 0x10000
	ContentsMonsterClip Contents = 0x20000
	ContentsOrigin      Contents = 0x1000000
	ContentsDetail      Contents = 0x8000000
	ContentsTranslucent Contents = 0x10000000
	ContentsLadder      Contents = 0x20000000
)

// Plane types: 0-2 are axial planes, 3-5 are non axial planes snapped to the
// nearest axis.
const (
	PlaneX int32 = iota
	PlaneY
	PlaneZ
	PlaneAnyX
	PlaneAnyY
	PlaneAnyZ
)

// NoStyle marks an unused light style slot of a face.
const NoStyle = 0xff

type Plane struct {
	Normal vec.Vec3
	Dist   float64
	Type   int32
}

// Node is a flattened split node. A child reference r >= 0 is an index into
// Data.Nodes, r < 0 is the leaf -(r+1).
type Node struct {
	PlaneNum  int
	Children  [2]int
	Mins      [3]int16
	Maxs      [3]int16
	FirstFace int
	NumFaces  int
}

// Leaf is a flattened leaf. Its face and brush lists live in
// Data.LeafFaces and Data.LeafBrushes at the same index.
type Leaf struct {
	Contents Contents
	Cluster  int // -1 for no visibility data
	Area     int
	Mins     [3]int16
	Maxs     [3]int16
}

// Edge holds two vertex indices. Edge 0 is never used.
type Edge [2]int

type Face struct {
	PlaneNum  int
	Side      int
	FirstEdge int // index into Data.SurfEdges
	NumEdges  int
	TexInfo   int
	Styles    [4]byte
	LightOfs  int32 // -1 for no lightmap
}

type TexInfo struct {
	S           vec.Vec3
	SOffset     float64
	T           vec.Vec3
	TOffset     float64
	Flags       int32
	Value       int32
	Texture     string
	NextTexInfo int32
}

type Model struct {
	Mins      vec.Vec3
	Maxs      vec.Vec3
	Origin    vec.Vec3
	HeadNode  int
	FirstFace int
	NumFaces  int
}

type Brush struct {
	FirstSide int
	NumSides  int
	Contents  Contents
}

type BrushSide struct {
	PlaneNum int
	TexInfo  int
}

type Area struct {
	NumAreaPortals  int
	FirstAreaPortal int
}

type AreaPortal struct {
	PortalNum int
	OtherArea int
}

// Data is a compiled map, the structure consumed by the renderer and the
// collision code.
type Data struct {
	Entities    string
	Planes      []Plane
	Vertices    []vec.Vec3
	Visibility  []byte // raw visibility lump
	Nodes       []Node
	TexInfos    []TexInfo
	Faces       []Face
	Lighting    []byte
	Leaves      []Leaf
	LeafFaces   [][]int
	LeafBrushes [][]int
	Edges       []Edge
	SurfEdges   []int32
	Models      []Model
	Brushes     []Brush
	BrushSides  []BrushSide
	Areas       []Area
	AreaPortals []AreaPortal
}

// LeafRef encodes a leaf index as a child reference.
func LeafRef(leaf int) int {
	return -(leaf + 1)
}

// RefLeaf decodes a negative child reference into a leaf index.
func RefLeaf(ref int) int {
	return -(ref + 1)
}

// FaceVertices walks the surf-edges of face f and returns its vertex indices
// in winding order.
func (d *Data) FaceVertices(f int) []int {
	face := d.Faces[f]
	vs := make([]int, 0, face.NumEdges)
	for _, se := range d.SurfEdges[face.FirstEdge : face.FirstEdge+face.NumEdges] {
		if se >= 0 {
			vs = append(vs, d.Edges[se][0])
		} else {
			vs = append(vs, d.Edges[-se][1])
		}
	}
	return vs
}
