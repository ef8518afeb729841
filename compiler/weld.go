// SPDX-License-Identifier: GPL-2.0-or-later

package compiler

import (
	"math"

	"goqbsp/bsp"
	"goqbsp/math/vec"
	"goqbsp/winding"
)

// WeldEpsilon is the per axis distance under which two points share a
// vertex. It must stay below the cell size of 1.
const WeldEpsilon = 0.01

type cell struct {
	x, y, z int
}

func cellOf(p vec.Vec3) cell {
	return cell{int(math.Floor(p.X)), int(math.Floor(p.Y)), int(math.Floor(p.Z))}
}

// Welder emits render faces and owns the vertex, edge and surf-edge tables
// they are made of.
type Welder struct {
	Vertices  []vec.Vec3
	Edges     []bsp.Edge
	SurfEdges []int32
	Faces     []bsp.Face

	cells map[cell][]int
}

func NewWelder() *Welder {
	return &Welder{
		// edge 0 is a sentinel, a negated 0 would be ambiguous
		Edges: []bsp.Edge{{0, 0}},
		cells: make(map[cell][]int),
	}
}

// AddVertex returns the index of a vertex within WeldEpsilon of p on every
// axis, appending p if there is none. Neighboring cells are searched too
// since close points can straddle a cell border.
func (w *Welder) AddVertex(p vec.Vec3) int {
	c := cellOf(p)
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			for dz := -1; dz <= 1; dz++ {
				for _, i := range w.cells[cell{c.x + dx, c.y + dy, c.z + dz}] {
					if vec.Near(w.Vertices[i], p, WeldEpsilon) {
						return i
					}
				}
			}
		}
	}
	i := len(w.Vertices)
	w.Vertices = append(w.Vertices, p)
	w.cells[c] = append(w.cells[c], i)
	return i
}

// AddEdge returns i if edge i is (v1, v2), -i if edge i is (v2, v1), or the
// index of a newly appended edge (v1, v2).
func (w *Welder) AddEdge(v1, v2 int) int {
	for i := 1; i < len(w.Edges); i++ {
		e := w.Edges[i]
		if e[0] == v1 && e[1] == v2 {
			return i
		}
		if e[0] == v2 && e[1] == v1 {
			return -i
		}
	}
	w.Edges = append(w.Edges, bsp.Edge{v1, v2})
	return len(w.Edges) - 1
}

// AddFace appends the boundary of wind as surf-edges and the face record
// referencing them. It returns the face index.
func (w *Welder) AddFace(wind *winding.Winding, planeNum, side, texInfo int) int {
	first := len(w.SurfEdges)
	n := len(wind.Points)
	for i, p := range wind.Points {
		v1 := w.AddVertex(p)
		v2 := w.AddVertex(wind.Points[(i+1)%n])
		w.SurfEdges = append(w.SurfEdges, int32(w.AddEdge(v1, v2)))
	}
	w.Faces = append(w.Faces, bsp.Face{
		PlaneNum:  planeNum,
		Side:      side,
		FirstEdge: first,
		NumEdges:  len(w.SurfEdges) - first,
		TexInfo:   texInfo,
		Styles:    [4]byte{bsp.NoStyle, bsp.NoStyle, bsp.NoStyle, bsp.NoStyle},
		LightOfs:  -1,
	})
	return len(w.Faces) - 1
}
