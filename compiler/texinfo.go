// SPDX-License-Identifier: GPL-2.0-or-later

package compiler

import (
	"goqbsp/bsp"
	"goqbsp/math/vec"
)

// TextureParams are the texture settings of one brush side as written in a
// map file. They are compared exactly.
type TextureParams struct {
	Name     string
	OffsetX  float64
	OffsetY  float64
	Rotation float64
	ScaleX   float64
	ScaleY   float64
	Flags    int32
	Value    int32
}

type TexInfoSet struct {
	infos  []bsp.TexInfo
	lookup map[TextureParams]int
}

func NewTexInfoSet() *TexInfoSet {
	return &TexInfoSet{lookup: make(map[TextureParams]int)}
}

// FindOrAdd returns the texinfo index for t. New entries get an axis aligned
// projection: S = (1/scaleX, 0, 0), T = (0, -1/scaleY, 0), a zero scale
// counting as 1.
func (s *TexInfoSet) FindOrAdd(t TextureParams) int {
	if i, ok := s.lookup[t]; ok {
		return i
	}
	sx, sy := t.ScaleX, t.ScaleY
	if sx == 0 {
		sx = 1
	}
	if sy == 0 {
		sy = 1
	}
	i := len(s.infos)
	s.infos = append(s.infos, bsp.TexInfo{
		S:           vec.Vec3{X: 1 / sx},
		SOffset:     t.OffsetX,
		T:           vec.Vec3{Y: -1 / sy},
		TOffset:     t.OffsetY,
		Flags:       t.Flags,
		Value:       t.Value,
		Texture:     t.Name,
		NextTexInfo: -1,
	})
	s.lookup[t] = i
	return i
}

func (s *TexInfoSet) Len() int {
	return len(s.infos)
}

func (s *TexInfoSet) TexInfos() []bsp.TexInfo {
	return s.infos
}
