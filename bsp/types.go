// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

// On-disk records of the IBSP version 38 format, all little endian.

const (
	Version     = 38
	headerLumps = 19
)

var magic = [4]byte{'I', 'B', 'S', 'P'}

const (
	lumpEntities = iota
	lumpPlanes
	lumpVertexes
	lumpVisibility
	lumpNodes
	lumpTexInfo
	lumpFaces
	lumpLighting
	lumpLeafs
	lumpLeafFaces
	lumpLeafBrushes
	lumpEdges
	lumpSurfEdges
	lumpModels
	lumpBrushes
	lumpBrushSides
	lumpPop
	lumpAreas
	lumpAreaPortals
)

// called lump_t in c
type directory struct {
	Offset int32
	Size   int32
}

type header struct {
	Magic   [4]byte
	Version int32
	Lumps   [headerLumps]directory
}

type dplane struct {
	Normal [3]float32
	Dist   float32
	Type   int32
}

type dvertex [3]float32

type dnode struct {
	PlaneNum  int32
	Children  [2]int32 // negative numbers are -(leafs+1), not nodes
	Mins      [3]int16
	Maxs      [3]int16
	FirstFace uint16
	NumFaces  uint16 // counting both sides
}

type dtexinfo struct {
	Vecs        [2][4]float32 // [s/t][xyz offset]
	Flags       int32
	Value       int32
	Texture     [32]byte
	NextTexInfo int32 // for animations, -1 = end of chain
}

type dface struct {
	PlaneNum  uint16
	Side      int16
	FirstEdge int32 // we must support > 64k edges
	NumEdges  int16
	TexInfo   int16
	Styles    [4]byte
	LightOfs  int32 // start of [numstyles*surfsize] samples
}

type dleaf struct {
	Contents       int32
	Cluster        int16
	Area           int16
	Mins           [3]int16
	Maxs           [3]int16
	FirstLeafFace  uint16
	NumLeafFaces   uint16
	FirstLeafBrush uint16
	NumLeafBrushes uint16
}

// the first edge of the list is never used
type dedge [2]uint16

type dmodel struct {
	Mins      [3]float32
	Maxs      [3]float32
	Origin    [3]float32
	HeadNode  int32
	FirstFace int32
	NumFaces  int32
}

type dbrush struct {
	FirstSide int32
	NumSides  int32
	Contents  int32
}

type dbrushside struct {
	PlaneNum uint16
	TexInfo  int16
}

type darea struct {
	NumAreaPortals  int32
	FirstAreaPortal int32
}

type dareaportal struct {
	PortalNum int32
	OtherArea int32
}
