// SPDX-License-Identifier: GPL-2.0-or-later

// Package compiler turns convex brushes into a BSP tree and the flat arrays
// of a compiled map.
package compiler

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"goqbsp/bsp"
	"goqbsp/winding"
)

type Options struct {
	// Logger receives diagnostics. Defaults to a no-op logger.
	Logger *zap.Logger
	// Strict turns non-separable overlapping brushes into ErrOverlap
	// instead of keeping only the first of them.
	Strict bool
	// Windings defaults to winding.ForBrush.
	Windings WindingFunc
}

type Stats struct {
	Planes   int
	Nodes    int
	Leaves   int
	Faces    int
	Brushes  int
	Vertices int
	Edges    int
}

type Result struct {
	// ID identifies this compile in logs and reports.
	ID      uuid.UUID
	Data    *bsp.Data
	Stats   Stats
	Dropped []int // brushes lost to overlaps, in encounter order
}

// compiler owns all state of a single compile.
type compiler struct {
	log      *zap.Logger
	strict   bool
	windings WindingFunc

	planes   *PlaneSet
	texInfos *TexInfoSet
	welder   *Welder

	brushList  []processedBrush
	brushes    []bsp.Brush
	brushSides []bsp.BrushSide

	arena []buildNode

	nodes       []bsp.Node
	leaves      []bsp.Leaf
	leafFaces   [][]int
	leafBrushes [][]int

	dropped []int
}

func newCompiler(opts Options, log *zap.Logger) *compiler {
	c := &compiler{
		log:      log,
		strict:   opts.Strict,
		windings: opts.Windings,
		planes:   NewPlaneSet(),
		texInfos: NewTexInfoSet(),
		welder:   NewWelder(),
	}
	if c.windings == nil {
		c.windings = winding.ForBrush
	}
	return c
}

// Compile builds the world model from brushes. The entities are stored as
// the entity string. Every call uses fresh state so concurrent calls are
// safe.
func Compile(brushes []BrushDef, entities []*bsp.Entity, opts Options) (*Result, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, errors.Wrap(err, "creating compile id")
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	c := newCompiler(opts, log.With(zap.Stringer("compile", id)))

	c.log.Debug("compiling", zap.Int("brushes", len(brushes)))
	indices := make([]int, len(brushes))
	for i := range brushes {
		c.brushList = append(c.brushList, c.preprocess(i, &brushes[i]))
		indices[i] = i
	}

	vol := universe()
	root, err := c.buildTree(indices, vol)
	if err != nil {
		return nil, err
	}
	head := c.serialize(root)

	maxCluster := -1
	for _, l := range c.leaves {
		maxCluster = max(maxCluster, l.Cluster)
	}

	d := &bsp.Data{
		Entities:    bsp.EntityString(entities),
		Planes:      c.planes.Planes(),
		Vertices:    c.welder.Vertices,
		Visibility:  bsp.TrivialVis(maxCluster + 1),
		Nodes:       c.nodes,
		TexInfos:    c.texInfos.TexInfos(),
		Faces:       c.welder.Faces,
		Leaves:      c.leaves,
		LeafFaces:   c.leafFaces,
		LeafBrushes: c.leafBrushes,
		Edges:       c.welder.Edges,
		SurfEdges:   c.welder.SurfEdges,
		Models: []bsp.Model{{
			Mins:      c.arena[root].mins,
			Maxs:      c.arena[root].maxs,
			HeadNode:  head,
			FirstFace: 0,
			NumFaces:  len(c.welder.Faces),
		}},
		Brushes:    c.brushes,
		BrushSides: c.brushSides,
	}
	r := &Result{
		ID:   id,
		Data: d,
		Stats: Stats{
			Planes:   len(d.Planes),
			Nodes:    len(d.Nodes),
			Leaves:   len(d.Leaves),
			Faces:    len(d.Faces),
			Brushes:  len(d.Brushes),
			Vertices: len(d.Vertices),
			Edges:    len(d.Edges),
		},
		Dropped: c.dropped,
	}
	c.log.Info("compiled",
		zap.Int("planes", r.Stats.Planes),
		zap.Int("nodes", r.Stats.Nodes),
		zap.Int("leaves", r.Stats.Leaves),
		zap.Int("faces", r.Stats.Faces),
		zap.Int("dropped", len(r.Dropped)))
	return r, nil
}
