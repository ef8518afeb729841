// SPDX-License-Identifier: GPL-2.0-or-later
package bsp

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"goqbsp/math/vec"
)

// PointInLeaf walks the tree of model 0 and returns the index of the leaf
// containing p. Points on a plane go to the back side.
func (d *Data) PointInLeaf(p vec.Vec3) (int, error) {
	if d == nil || len(d.Models) == 0 {
		return 0, errors.Errorf("PointInLeaf: bad model")
	}
	ref := d.Models[0].HeadNode
	for ref >= 0 {
		if ref >= len(d.Nodes) {
			return 0, errors.Errorf("PointInLeaf: bad node number %d", ref)
		}
		n := &d.Nodes[ref]
		if n.PlaneNum < 0 || n.PlaneNum >= len(d.Planes) {
			return 0, errors.Errorf("PointInLeaf: bad plane number %d", n.PlaneNum)
		}
		if d.Planes[n.PlaneNum].Distance(p) > 0 {
			ref = n.Children[0]
		} else {
			ref = n.Children[1]
		}
	}
	leaf := RefLeaf(ref)
	if leaf >= len(d.Leaves) {
		return 0, errors.Errorf("PointInLeaf: bad leaf number %d", leaf)
	}
	return leaf, nil
}

// PointContents returns the contents of the leaf containing p.
func (d *Data) PointContents(p vec.Vec3) (Contents, error) {
	l, err := d.PointInLeaf(p)
	if err != nil {
		return 0, err
	}
	return d.Leaves[l].Contents, nil
}

// NumClusters reads the cluster count from the visibility lump.
func (d *Data) NumClusters() int {
	if len(d.Visibility) < 4 {
		return 0
	}
	return int(int32(binary.LittleEndian.Uint32(d.Visibility)))
}

const (
	VisPVS = 0
	VisPHS = 1
)

// ClusterVis returns the decompressed potentially visible (VisPVS) or
// hearable (VisPHS) set of a cluster. Without visibility data everything is
// visible.
func (d *Data) ClusterVis(cluster, kind int) []byte {
	n := d.NumClusters()
	row := (n + 7) / 8
	if cluster < 0 || cluster >= n {
		return nil
	}
	ofs := 4 + cluster*8 + kind*4
	if ofs+4 > len(d.Visibility) {
		return nil
	}
	start := int(binary.LittleEndian.Uint32(d.Visibility[ofs:]))
	if start > len(d.Visibility) {
		return nil
	}
	return decompressVis(d.Visibility[start:], row)
}

func decompressVis(in []byte, row int) []byte {
	out := make([]byte, row)
	if len(in) == 0 {
		// no vis info, so make all visible
		for i := range out {
			out[i] = 0xff
		}
		return out
	}

	// 'in' is compressed and looks like
	// 70550311
	// and gets uncompressed to
	// 700000500011	(7 5x0 5 3x0 1 1)

	j := 0
	for i := 0; i < len(in) && j < row; i++ {
		if in[i] != 0 {
			out[j] = in[i]
			j++
			continue
		}
		i++
		if i >= len(in) {
			break
		}
		for c := in[i]; c > 0 && j < row; c-- {
			out[j] = 0
			j++
		}
	}
	return out
}

// TrivialVis builds a visibility lump in which every cluster can see and hear
// every other cluster.
func TrivialVis(numClusters int) []byte {
	if numClusters <= 0 {
		return nil
	}
	row := (numClusters + 7) / 8
	headerSize := 4 + numClusters*8
	out := make([]byte, headerSize+row)
	binary.LittleEndian.PutUint32(out, uint32(numClusters))
	for c := 0; c < numClusters; c++ {
		binary.LittleEndian.PutUint32(out[4+c*8:], uint32(headerSize))
		binary.LittleEndian.PutUint32(out[8+c*8:], uint32(headerSize))
	}
	bits := out[headerSize:]
	for c := 0; c < numClusters; c++ {
		bits[c>>3] |= 1 << (c & 7)
	}
	return out
}
