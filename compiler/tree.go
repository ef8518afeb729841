// SPDX-License-Identifier: GPL-2.0-or-later

package compiler

import (
	"math"
	"slices"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"goqbsp/bsp"
	"goqbsp/math/vec"
	"goqbsp/winding"
)

// ClassifyEpsilon is the distance a winding point must be off a plane to
// count as being on one of its sides.
const ClassifyEpsilon = 0.1

// universeSize is the half size of the volume tracked for node bounds.
const universeSize = 32768

var ErrOverlap = errors.New("overlapping brushes cannot be separated")

type compileFace struct {
	w        *winding.Winding
	planeNum int
	side     int
	texInfo  int
}

// buildNode is an entry of the construction arena. Children are arena
// indices.
type buildNode struct {
	leaf     bool
	planeNum int
	children [2]int
	faces    []compileFace

	contents bsp.Contents
	brush    int // originating brush of a solid leaf, -1 otherwise

	mins, maxs vec.Vec3
}

type relation int

const (
	relFront relation = iota
	relBack
	relSpan
)

func universe() []*winding.Winding {
	var planes []winding.Plane
	for i := 0; i < 3; i++ {
		var n vec.Vec3
		switch i {
		case 0:
			n.X = 1
		case 1:
			n.Y = 1
		case 2:
			n.Z = 1
		}
		planes = append(planes,
			winding.Plane{Normal: n, Dist: universeSize},
			winding.Plane{Normal: n.Negate(), Dist: universeSize})
	}
	var vol []*winding.Winding
	for _, w := range winding.ForBrush(planes) {
		if w != nil {
			vol = append(vol, w)
		}
	}
	return vol
}

func volumeBounds(vol []*winding.Winding) (mins, maxs vec.Vec3) {
	if len(vol) == 0 {
		return mins, maxs
	}
	mins = vec.Vec3{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)}
	maxs = vec.Vec3{X: math.Inf(-1), Y: math.Inf(-1), Z: math.Inf(-1)}
	for _, w := range vol {
		wmins, wmaxs := w.Bounds()
		mins = vec.Min(mins, wmins)
		maxs = vec.Max(maxs, wmaxs)
	}
	return mins, maxs
}

func splitVolume(vol []*winding.Winding, p bsp.Plane) (front, back []*winding.Winding) {
	for _, w := range vol {
		f, b := winding.Split(w, p.Normal, p.Dist, winding.OnEpsilon)
		if f != nil {
			front = append(front, f)
		}
		if b != nil {
			back = append(back, b)
		}
	}
	return front, back
}

func (c *compiler) newLeaf(contents bsp.Contents, brush int, vol []*winding.Winding) int {
	n := buildNode{leaf: true, planeNum: -1, contents: contents, brush: brush}
	n.mins, n.maxs = volumeBounds(vol)
	c.arena = append(c.arena, n)
	return len(c.arena) - 1
}

func (c *compiler) newNode(planeNum int, vol []*winding.Winding) int {
	n := buildNode{planeNum: planeNum, brush: -1}
	n.mins, n.maxs = volumeBounds(vol)
	c.arena = append(c.arena, n)
	return len(c.arena) - 1
}

// buildTree partitions the brushes by the first separating plane found and
// carves the remaining single brush into a convex chain.
func (c *compiler) buildTree(brushes []int, vol []*winding.Winding) (int, error) {
	if len(brushes) == 0 {
		return c.newLeaf(bsp.ContentsEmpty, -1, vol), nil
	}

	if planeNum, ok := c.findSeparator(brushes); ok {
		var front, back []int
		for _, b := range brushes {
			switch c.classifyBrush(b, planeNum) {
			case relFront:
				front = append(front, b)
			case relBack:
				back = append(back, b)
			default:
				// not reached with a zero span separator
				front = append(front, b)
				back = append(back, b)
			}
		}
		fvol, bvol := splitVolume(vol, c.planes.Plane(planeNum))
		n := c.newNode(planeNum, vol)
		f, err := c.buildTree(front, fvol)
		if err != nil {
			return 0, err
		}
		b, err := c.buildTree(back, bvol)
		if err != nil {
			return 0, err
		}
		c.arena[n].children = [2]int{f, b}
		return n, nil
	}

	kept := brushes[0]
	if len(brushes) > 1 {
		if c.strict {
			return 0, errors.Wrapf(ErrOverlap, "brushes %v", brushes)
		}
		kept = c.firstWithGeometry(brushes)
		var dropped []int
		for _, b := range brushes {
			if b != kept {
				dropped = append(dropped, b)
			}
		}
		c.log.Warn("dropping overlapping brushes",
			zap.Int("kept", kept),
			zap.Ints("dropped", dropped))
		c.dropped = append(c.dropped, dropped...)
	}
	return c.buildBrushNode(kept, vol), nil
}

// firstWithGeometry returns the first brush having at least one winding,
// or brushes[0] if none has.
func (c *compiler) firstWithGeometry(brushes []int) int {
	for _, b := range brushes {
		if slices.ContainsFunc(c.brushList[b].windings, func(w *winding.Winding) bool {
			return w != nil
		}) {
			return b
		}
	}
	return brushes[0]
}

// findSeparator returns the first side plane of the brushes which has
// brushes on both sides and none spanning it.
func (c *compiler) findSeparator(brushes []int) (int, bool) {
	for _, b := range brushes {
		for _, planeNum := range c.brushList[b].planes {
			var front, back, span int
			for _, o := range brushes {
				switch c.classifyBrush(o, planeNum) {
				case relFront:
					front++
				case relBack:
					back++
				default:
					span++
				}
			}
			if span == 0 && front > 0 && back > 0 {
				return planeNum, true
			}
		}
	}
	return -1, false
}

// classifyBrush tests every winding point of brush b against the plane. A
// brush touching the plane from neither side counts as back.
func (c *compiler) classifyBrush(b, planeNum int) relation {
	p := c.planes.Plane(planeNum)
	front, back := false, false
	for _, w := range c.brushList[b].windings {
		if w == nil {
			continue
		}
		for _, pt := range w.Points {
			d := p.Distance(pt)
			if d > ClassifyEpsilon {
				front = true
			}
			if d < -ClassifyEpsilon {
				back = true
			}
		}
	}
	switch {
	case front && back:
		return relSpan
	case front:
		return relFront
	}
	return relBack
}

// buildBrushNode carves a single brush. A brush without any winding is
// an empty leaf.
func (c *compiler) buildBrushNode(b int, vol []*winding.Winding) int {
	pb := &c.brushList[b]
	var planes []int
	var faces []compileFace
	for s, w := range pb.windings {
		if w == nil {
			continue
		}
		planeNum := pb.planes[s]
		if !slices.Contains(planes, planeNum) {
			planes = append(planes, planeNum)
		}
		faces = append(faces, compileFace{
			w:        w,
			planeNum: planeNum,
			side:     0,
			texInfo:  pb.texInfos[s],
		})
	}
	if len(planes) == 0 {
		return c.newLeaf(bsp.ContentsEmpty, -1, vol)
	}
	return c.buildConvexChain(planes, faces, 0, b, vol)
}

// buildConvexChain emits one node per plane: the front child is outside the
// brush, the back child continues with the next plane and finally ends in
// the solid leaf.
func (c *compiler) buildConvexChain(planes []int, faces []compileFace, i, b int, vol []*winding.Winding) int {
	if i >= len(planes) {
		return c.newLeaf(c.brushList[b].def.contents(), b, vol)
	}
	planeNum := planes[i]
	n := c.newNode(planeNum, vol)
	for _, f := range faces {
		if f.planeNum == planeNum {
			c.arena[n].faces = append(c.arena[n].faces, f)
		}
	}
	fvol, bvol := splitVolume(vol, c.planes.Plane(planeNum))
	front := c.newLeaf(bsp.ContentsEmpty, -1, fvol)
	back := c.buildConvexChain(planes, faces, i+1, b, bvol)
	c.arena[n].children = [2]int{front, back}
	return n
}
