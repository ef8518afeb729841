// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"

	"github.com/pkg/errors"

	qmath "goqbsp/math"
	"goqbsp/math/vec"
)

func short3(v vec.Vec3) [3]int16 {
	return [3]int16{qmath.Short(v.X), qmath.Short(v.Y), qmath.Short(v.Z)}
}

// QuantizeBounds converts float bounds to the int16 boxes stored in nodes
// and leafs, rounding outwards.
func QuantizeBounds(mins, maxs vec.Vec3) ([3]int16, [3]int16) {
	return short3(mins.Floor()), short3(maxs.Ceil())
}

func checkU16(what string, v int) error {
	if v < 0 || v > math.MaxUint16 {
		return errors.Errorf("%s %d does not fit the IBSP format", what, v)
	}
	return nil
}

func checkI16(what string, v int) error {
	if v < math.MinInt16 || v > math.MaxInt16 {
		return errors.Errorf("%s %d does not fit the IBSP format", what, v)
	}
	return nil
}

func encode(data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write encodes d as an IBSP version 38 file.
func Write(w io.Writer, d *Data) error {
	lumps, err := encodeLumps(d)
	if err != nil {
		return err
	}

	h := header{Magic: magic, Version: Version}
	cursor := int32(binary.Size(h))
	for i, l := range lumps {
		cursor += (4 - cursor%4) % 4
		h.Lumps[i] = directory{Offset: cursor, Size: int32(len(l))}
		cursor += int32(len(l))
	}

	if err := binary.Write(w, binary.LittleEndian, &h); err != nil {
		return errors.Wrap(err, "writing header")
	}
	pos := int32(binary.Size(h))
	var pad [4]byte
	for i, l := range lumps {
		if n := h.Lumps[i].Offset - pos; n > 0 {
			if _, err := w.Write(pad[:n]); err != nil {
				return errors.Wrapf(err, "padding lump %d", i)
			}
		}
		if _, err := w.Write(l); err != nil {
			return errors.Wrapf(err, "writing lump %d", i)
		}
		pos = h.Lumps[i].Offset + h.Lumps[i].Size
	}
	return nil
}

func encodeLumps(d *Data) ([headerLumps][]byte, error) {
	var lumps [headerLumps][]byte
	var err error

	// the entity string is NUL terminated on disk
	lumps[lumpEntities] = append([]byte(d.Entities), 0)

	planes := make([]dplane, len(d.Planes))
	for i, p := range d.Planes {
		planes[i] = dplane{Normal: p.Normal.Float32(), Dist: float32(p.Dist), Type: p.Type}
	}
	if lumps[lumpPlanes], err = encode(planes); err != nil {
		return lumps, errors.Wrap(err, "planes")
	}

	verts := make([]dvertex, len(d.Vertices))
	for i, v := range d.Vertices {
		verts[i] = v.Float32()
	}
	if lumps[lumpVertexes], err = encode(verts); err != nil {
		return lumps, errors.Wrap(err, "vertexes")
	}

	lumps[lumpVisibility] = d.Visibility

	nodes := make([]dnode, len(d.Nodes))
	for i, n := range d.Nodes {
		if err := checkU16("node face", n.FirstFace+n.NumFaces); err != nil {
			return lumps, err
		}
		nodes[i] = dnode{
			PlaneNum:  int32(n.PlaneNum),
			Children:  [2]int32{int32(n.Children[0]), int32(n.Children[1])},
			Mins:      n.Mins,
			Maxs:      n.Maxs,
			FirstFace: uint16(n.FirstFace),
			NumFaces:  uint16(n.NumFaces),
		}
	}
	if lumps[lumpNodes], err = encode(nodes); err != nil {
		return lumps, errors.Wrap(err, "nodes")
	}

	texinfos := make([]dtexinfo, len(d.TexInfos))
	for i, ti := range d.TexInfos {
		if len(ti.Texture) >= len(dtexinfo{}.Texture) {
			return lumps, errors.Errorf("texture name %q is too long", ti.Texture)
		}
		t := dtexinfo{
			Vecs: [2][4]float32{
				{float32(ti.S.X), float32(ti.S.Y), float32(ti.S.Z), float32(ti.SOffset)},
				{float32(ti.T.X), float32(ti.T.Y), float32(ti.T.Z), float32(ti.TOffset)},
			},
			Flags:       ti.Flags,
			Value:       ti.Value,
			NextTexInfo: ti.NextTexInfo,
		}
		copy(t.Texture[:], ti.Texture)
		texinfos[i] = t
	}
	if lumps[lumpTexInfo], err = encode(texinfos); err != nil {
		return lumps, errors.Wrap(err, "texinfo")
	}

	faces := make([]dface, len(d.Faces))
	for i, f := range d.Faces {
		if err := checkU16("face plane", f.PlaneNum); err != nil {
			return lumps, err
		}
		if err := checkI16("face edge count", f.NumEdges); err != nil {
			return lumps, err
		}
		if err := checkI16("face texinfo", f.TexInfo); err != nil {
			return lumps, err
		}
		faces[i] = dface{
			PlaneNum:  uint16(f.PlaneNum),
			Side:      int16(f.Side),
			FirstEdge: int32(f.FirstEdge),
			NumEdges:  int16(f.NumEdges),
			TexInfo:   int16(f.TexInfo),
			Styles:    f.Styles,
			LightOfs:  f.LightOfs,
		}
	}
	if lumps[lumpFaces], err = encode(faces); err != nil {
		return lumps, errors.Wrap(err, "faces")
	}

	lumps[lumpLighting] = d.Lighting

	leafs := make([]dleaf, len(d.Leaves))
	var leafFaces, leafBrushes []uint16
	for i, l := range d.Leaves {
		if err := checkI16("leaf cluster", l.Cluster); err != nil {
			return lumps, err
		}
		dl := dleaf{
			Contents:       int32(l.Contents),
			Cluster:        int16(l.Cluster),
			Area:           int16(l.Area),
			Mins:           l.Mins,
			Maxs:           l.Maxs,
			FirstLeafFace:  uint16(len(leafFaces)),
			FirstLeafBrush: uint16(len(leafBrushes)),
		}
		if i < len(d.LeafFaces) {
			for _, f := range d.LeafFaces[i] {
				if err := checkU16("leaf face", f); err != nil {
					return lumps, err
				}
				leafFaces = append(leafFaces, uint16(f))
			}
			dl.NumLeafFaces = uint16(len(d.LeafFaces[i]))
		}
		if i < len(d.LeafBrushes) {
			for _, b := range d.LeafBrushes[i] {
				if err := checkU16("leaf brush", b); err != nil {
					return lumps, err
				}
				leafBrushes = append(leafBrushes, uint16(b))
			}
			dl.NumLeafBrushes = uint16(len(d.LeafBrushes[i]))
		}
		if err := checkU16("leaf face list", len(leafFaces)); err != nil {
			return lumps, err
		}
		if err := checkU16("leaf brush list", len(leafBrushes)); err != nil {
			return lumps, err
		}
		leafs[i] = dl
	}
	if lumps[lumpLeafs], err = encode(leafs); err != nil {
		return lumps, errors.Wrap(err, "leafs")
	}
	if lumps[lumpLeafFaces], err = encode(leafFaces); err != nil {
		return lumps, errors.Wrap(err, "leaf faces")
	}
	if lumps[lumpLeafBrushes], err = encode(leafBrushes); err != nil {
		return lumps, errors.Wrap(err, "leaf brushes")
	}

	edges := make([]dedge, len(d.Edges))
	for i, e := range d.Edges {
		if err := checkU16("edge vertex", max(e[0], e[1])); err != nil {
			return lumps, err
		}
		edges[i] = dedge{uint16(e[0]), uint16(e[1])}
	}
	if lumps[lumpEdges], err = encode(edges); err != nil {
		return lumps, errors.Wrap(err, "edges")
	}
	if lumps[lumpSurfEdges], err = encode(d.SurfEdges); err != nil {
		return lumps, errors.Wrap(err, "surfedges")
	}

	models := make([]dmodel, len(d.Models))
	for i, m := range d.Models {
		models[i] = dmodel{
			Mins:      m.Mins.Float32(),
			Maxs:      m.Maxs.Float32(),
			Origin:    m.Origin.Float32(),
			HeadNode:  int32(m.HeadNode),
			FirstFace: int32(m.FirstFace),
			NumFaces:  int32(m.NumFaces),
		}
	}
	if lumps[lumpModels], err = encode(models); err != nil {
		return lumps, errors.Wrap(err, "models")
	}

	brushes := make([]dbrush, len(d.Brushes))
	for i, b := range d.Brushes {
		brushes[i] = dbrush{int32(b.FirstSide), int32(b.NumSides), int32(b.Contents)}
	}
	if lumps[lumpBrushes], err = encode(brushes); err != nil {
		return lumps, errors.Wrap(err, "brushes")
	}

	sides := make([]dbrushside, len(d.BrushSides))
	for i, s := range d.BrushSides {
		if err := checkU16("brush side plane", s.PlaneNum); err != nil {
			return lumps, err
		}
		if err := checkI16("brush side texinfo", s.TexInfo); err != nil {
			return lumps, err
		}
		sides[i] = dbrushside{uint16(s.PlaneNum), int16(s.TexInfo)}
	}
	if lumps[lumpBrushSides], err = encode(sides); err != nil {
		return lumps, errors.Wrap(err, "brush sides")
	}

	areas := make([]darea, len(d.Areas))
	for i, a := range d.Areas {
		areas[i] = darea{int32(a.NumAreaPortals), int32(a.FirstAreaPortal)}
	}
	if lumps[lumpAreas], err = encode(areas); err != nil {
		return lumps, errors.Wrap(err, "areas")
	}
	portals := make([]dareaportal, len(d.AreaPortals))
	for i, p := range d.AreaPortals {
		portals[i] = dareaportal{int32(p.PortalNum), int32(p.OtherArea)}
	}
	if lumps[lumpAreaPortals], err = encode(portals); err != nil {
		return lumps, errors.Wrap(err, "area portals")
	}
	return lumps, nil
}
