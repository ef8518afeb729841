// SPDX-License-Identifier: GPL-2.0-or-later

package compiler

import (
	"goqbsp/bsp"
)

// serialize flattens the arena subtree rooted at n and returns its child
// reference. Children are written front then back, then the node's faces,
// then the node itself.
func (c *compiler) serialize(n int) int {
	node := &c.arena[n]
	if node.leaf {
		idx := len(c.leaves)
		cluster := -1
		if node.contents == bsp.ContentsEmpty {
			cluster = idx
		}
		mins, maxs := bsp.QuantizeBounds(node.mins, node.maxs)
		c.leaves = append(c.leaves, bsp.Leaf{
			Contents: node.contents,
			Cluster:  cluster,
			Area:     0,
			Mins:     mins,
			Maxs:     maxs,
		})
		brushes := []int{}
		if node.brush >= 0 {
			brushes = append(brushes, node.brush)
		}
		c.leafFaces = append(c.leafFaces, []int{})
		c.leafBrushes = append(c.leafBrushes, brushes)
		return bsp.LeafRef(idx)
	}

	front := c.serialize(node.children[0])
	back := c.serialize(node.children[1])

	first := len(c.welder.Faces)
	for _, f := range node.faces {
		fi := c.welder.AddFace(f.w, f.planeNum, f.side, f.texInfo)
		c.addFaceToSubtree(front, fi)
	}

	mins, maxs := bsp.QuantizeBounds(node.mins, node.maxs)
	c.nodes = append(c.nodes, bsp.Node{
		PlaneNum:  node.planeNum,
		Children:  [2]int{front, back},
		Mins:      mins,
		Maxs:      maxs,
		FirstFace: first,
		NumFaces:  len(c.welder.Faces) - first,
	})
	return len(c.nodes) - 1
}

// addFaceToSubtree lists face f in every leaf below ref.
func (c *compiler) addFaceToSubtree(ref, f int) {
	if ref < 0 {
		l := bsp.RefLeaf(ref)
		c.leafFaces[l] = append(c.leafFaces[l], f)
		return
	}
	n := &c.nodes[ref]
	c.addFaceToSubtree(n.Children[0], f)
	c.addFaceToSubtree(n.Children[1], f)
}
