// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/pkg/errors"

	"goqbsp/math/vec"
)

var (
	ErrBadMagic   = errors.New("not an IBSP file")
	ErrBadVersion = errors.New("unsupported IBSP version")
)

func vFrom32(a [3]float32) vec.Vec3 {
	return vec.Vec3{X: float64(a[0]), Y: float64(a[1]), Z: float64(a[2])}
}

// readLump decodes a lump holding an array of fixed size records of type T.
func readLump[T any](r io.ReaderAt, d directory, name string) ([]T, error) {
	var rec T
	size := binary.Size(rec)
	if d.Size%int32(size) != 0 {
		return nil, errors.Errorf("%s lump has funny size %d", name, d.Size)
	}
	out := make([]T, int(d.Size)/size)
	if len(out) == 0 {
		return out, nil
	}
	sr := io.NewSectionReader(r, int64(d.Offset), int64(d.Size))
	if err := binary.Read(sr, binary.LittleEndian, out); err != nil {
		return nil, errors.Wrapf(err, "reading %s lump", name)
	}
	return out, nil
}

func readRaw(r io.ReaderAt, d directory, name string) ([]byte, error) {
	b := make([]byte, d.Size)
	if _, err := r.ReadAt(b, int64(d.Offset)); err != nil && !(err == io.EOF && len(b) == 0) {
		return nil, errors.Wrapf(err, "reading %s lump", name)
	}
	return b, nil
}

// Load decodes an IBSP version 38 file.
func Load(r io.ReaderAt) (*Data, error) {
	var h header
	if err := binary.Read(io.NewSectionReader(r, 0, int64(binary.Size(h))), binary.LittleEndian, &h); err != nil {
		return nil, errors.Wrap(err, "reading header")
	}
	if h.Magic != magic {
		return nil, errors.Wrapf(ErrBadMagic, "magic %q", h.Magic[:])
	}
	if h.Version != Version {
		return nil, errors.Wrapf(ErrBadVersion, "version %d", h.Version)
	}

	d := &Data{}
	ents, err := readRaw(r, h.Lumps[lumpEntities], "entities")
	if err != nil {
		return nil, err
	}
	d.Entities = string(bytes.TrimRight(ents, "\x00"))

	planes, err := readLump[dplane](r, h.Lumps[lumpPlanes], "planes")
	if err != nil {
		return nil, err
	}
	d.Planes = make([]Plane, len(planes))
	for i, p := range planes {
		if !unitNormal32(p.Normal) {
			return nil, errors.Errorf("plane %d has a non unit normal %v", i, p.Normal)
		}
		if t := planeType32(p.Normal); t != p.Type {
			return nil, errors.Errorf("plane %d has type %d, want %d", i, p.Type, t)
		}
		d.Planes[i] = Plane{Normal: vFrom32(p.Normal), Dist: float64(p.Dist), Type: p.Type}
	}

	verts, err := readLump[dvertex](r, h.Lumps[lumpVertexes], "vertexes")
	if err != nil {
		return nil, err
	}
	d.Vertices = make([]vec.Vec3, len(verts))
	for i, v := range verts {
		d.Vertices[i] = vFrom32(v)
	}

	if d.Visibility, err = readRaw(r, h.Lumps[lumpVisibility], "visibility"); err != nil {
		return nil, err
	}

	nodes, err := readLump[dnode](r, h.Lumps[lumpNodes], "nodes")
	if err != nil {
		return nil, err
	}
	d.Nodes = make([]Node, len(nodes))
	for i, n := range nodes {
		d.Nodes[i] = Node{
			PlaneNum:  int(n.PlaneNum),
			Children:  [2]int{int(n.Children[0]), int(n.Children[1])},
			Mins:      n.Mins,
			Maxs:      n.Maxs,
			FirstFace: int(n.FirstFace),
			NumFaces:  int(n.NumFaces),
		}
	}

	texinfos, err := readLump[dtexinfo](r, h.Lumps[lumpTexInfo], "texinfo")
	if err != nil {
		return nil, err
	}
	d.TexInfos = make([]TexInfo, len(texinfos))
	for i, t := range texinfos {
		name := t.Texture[:]
		if n := bytes.IndexByte(name, 0); n >= 0 {
			name = name[:n]
		}
		d.TexInfos[i] = TexInfo{
			S:           vec.Vec3{X: float64(t.Vecs[0][0]), Y: float64(t.Vecs[0][1]), Z: float64(t.Vecs[0][2])},
			SOffset:     float64(t.Vecs[0][3]),
			T:           vec.Vec3{X: float64(t.Vecs[1][0]), Y: float64(t.Vecs[1][1]), Z: float64(t.Vecs[1][2])},
			TOffset:     float64(t.Vecs[1][3]),
			Flags:       t.Flags,
			Value:       t.Value,
			Texture:     string(name),
			NextTexInfo: t.NextTexInfo,
		}
	}

	faces, err := readLump[dface](r, h.Lumps[lumpFaces], "faces")
	if err != nil {
		return nil, err
	}
	d.Faces = make([]Face, len(faces))
	for i, f := range faces {
		d.Faces[i] = Face{
			PlaneNum:  int(f.PlaneNum),
			Side:      int(f.Side),
			FirstEdge: int(f.FirstEdge),
			NumEdges:  int(f.NumEdges),
			TexInfo:   int(f.TexInfo),
			Styles:    f.Styles,
			LightOfs:  f.LightOfs,
		}
	}

	if d.Lighting, err = readRaw(r, h.Lumps[lumpLighting], "lighting"); err != nil {
		return nil, err
	}

	leafs, err := readLump[dleaf](r, h.Lumps[lumpLeafs], "leafs")
	if err != nil {
		return nil, err
	}
	leafFaces, err := readLump[uint16](r, h.Lumps[lumpLeafFaces], "leaf faces")
	if err != nil {
		return nil, err
	}
	leafBrushes, err := readLump[uint16](r, h.Lumps[lumpLeafBrushes], "leaf brushes")
	if err != nil {
		return nil, err
	}
	d.Leaves = make([]Leaf, len(leafs))
	d.LeafFaces = make([][]int, len(leafs))
	d.LeafBrushes = make([][]int, len(leafs))
	for i, l := range leafs {
		d.Leaves[i] = Leaf{
			Contents: Contents(l.Contents),
			Cluster:  int(l.Cluster),
			Area:     int(l.Area),
			Mins:     l.Mins,
			Maxs:     l.Maxs,
		}
		ff, nf := int(l.FirstLeafFace), int(l.NumLeafFaces)
		if ff+nf > len(leafFaces) {
			return nil, errors.Errorf("leaf %d face range %d+%d out of bounds", i, ff, nf)
		}
		d.LeafFaces[i] = make([]int, nf)
		for j := range d.LeafFaces[i] {
			d.LeafFaces[i][j] = int(leafFaces[ff+j])
		}
		fb, nb := int(l.FirstLeafBrush), int(l.NumLeafBrushes)
		if fb+nb > len(leafBrushes) {
			return nil, errors.Errorf("leaf %d brush range %d+%d out of bounds", i, fb, nb)
		}
		d.LeafBrushes[i] = make([]int, nb)
		for j := range d.LeafBrushes[i] {
			d.LeafBrushes[i][j] = int(leafBrushes[fb+j])
		}
	}

	edges, err := readLump[dedge](r, h.Lumps[lumpEdges], "edges")
	if err != nil {
		return nil, err
	}
	d.Edges = make([]Edge, len(edges))
	for i, e := range edges {
		d.Edges[i] = Edge{int(e[0]), int(e[1])}
	}

	if d.SurfEdges, err = readLump[int32](r, h.Lumps[lumpSurfEdges], "surfedges"); err != nil {
		return nil, err
	}

	models, err := readLump[dmodel](r, h.Lumps[lumpModels], "models")
	if err != nil {
		return nil, err
	}
	d.Models = make([]Model, len(models))
	for i, m := range models {
		d.Models[i] = Model{
			Mins:      vFrom32(m.Mins),
			Maxs:      vFrom32(m.Maxs),
			Origin:    vFrom32(m.Origin),
			HeadNode:  int(m.HeadNode),
			FirstFace: int(m.FirstFace),
			NumFaces:  int(m.NumFaces),
		}
	}

	brushes, err := readLump[dbrush](r, h.Lumps[lumpBrushes], "brushes")
	if err != nil {
		return nil, err
	}
	d.Brushes = make([]Brush, len(brushes))
	for i, b := range brushes {
		d.Brushes[i] = Brush{int(b.FirstSide), int(b.NumSides), Contents(b.Contents)}
	}

	sides, err := readLump[dbrushside](r, h.Lumps[lumpBrushSides], "brush sides")
	if err != nil {
		return nil, err
	}
	d.BrushSides = make([]BrushSide, len(sides))
	for i, s := range sides {
		d.BrushSides[i] = BrushSide{int(s.PlaneNum), int(s.TexInfo)}
	}

	areas, err := readLump[darea](r, h.Lumps[lumpAreas], "areas")
	if err != nil {
		return nil, err
	}
	d.Areas = make([]Area, len(areas))
	for i, a := range areas {
		d.Areas[i] = Area{int(a.NumAreaPortals), int(a.FirstAreaPortal)}
	}
	portals, err := readLump[dareaportal](r, h.Lumps[lumpAreaPortals], "area portals")
	if err != nil {
		return nil, err
	}
	d.AreaPortals = make([]AreaPortal, len(portals))
	for i, p := range portals {
		d.AreaPortals[i] = AreaPortal{int(p.PortalNum), int(p.OtherArea)}
	}
	return d, nil
}
