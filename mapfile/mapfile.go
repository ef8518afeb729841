// SPDX-License-Identifier: GPL-2.0-or-later

// Package mapfile reads Quake 2 .map source files.
package mapfile

import (
	"io"
	"strconv"

	"github.com/pkg/errors"

	"goqbsp/bsp"
	"goqbsp/compiler"
	"goqbsp/math/vec"
	"goqbsp/winding"
)

// Entity is one entity block of a map with the brushes it owns.
type Entity struct {
	*bsp.Entity
	Brushes []compiler.BrushDef
	Line    int // line of the opening brace
}

type Map struct {
	Entities []*Entity
}

// World reports whether the brushes of e are part of the world model.
func (e *Entity) World() bool {
	n, _ := e.Name()
	return n == "worldspawn" || n == "func_group"
}

// WorldBrushes returns the brushes of worldspawn and func_group entities in
// file order, and the other entities that own brushes.
func (m *Map) WorldBrushes() (brushes []compiler.BrushDef, skipped []*Entity) {
	for _, e := range m.Entities {
		if e.World() {
			brushes = append(brushes, e.Brushes...)
		} else if len(e.Brushes) > 0 {
			skipped = append(skipped, e)
		}
	}
	return brushes, skipped
}

// BSPEntities returns the entity properties to store in the compiled map.
// func_group entities only exist in the editor and are left out.
func (m *Map) BSPEntities() []*bsp.Entity {
	var es []*bsp.Entity
	for _, e := range m.Entities {
		if n, _ := e.Name(); n == "func_group" {
			continue
		}
		es = append(es, e.Entity)
	}
	return es
}

// Parse reads a complete map.
func Parse(r io.Reader) (*Map, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "reading map")
	}
	return ParseString(string(b))
}

func ParseString(s string) (*Map, error) {
	p := &parser{l: lex(s)}
	m := &Map{}
	for {
		it := p.next()
		switch {
		case it.typ == itemEOF:
			return m, nil
		case it.typ == itemChar && it.val == "{":
			e, err := p.entity(it.line)
			if err != nil {
				return nil, err
			}
			m.Entities = append(m.Entities, e)
		default:
			return nil, p.unexpected(it, "{")
		}
	}
}

type parser struct {
	l      *lexer
	peeked *item
}

func (p *parser) next() item {
	if p.peeked != nil {
		it := *p.peeked
		p.peeked = nil
		return it
	}
	return p.l.nextItem()
}

func (p *parser) peek() item {
	if p.peeked == nil {
		it := p.l.nextItem()
		p.peeked = &it
	}
	return *p.peeked
}

func (p *parser) unexpected(it item, want string) error {
	if it.typ == itemError {
		return errors.Errorf("line %d: %s", it.line, it.val)
	}
	return errors.Errorf("line %d: got %v, want %s", it.line, it, want)
}

func (p *parser) expect(c string) error {
	if it := p.next(); it.typ != itemChar || it.val != c {
		return p.unexpected(it, strconv.Quote(c))
	}
	return nil
}

func (p *parser) float() (float64, error) {
	it := p.next()
	if it.typ != itemWord {
		return 0, p.unexpected(it, "a number")
	}
	f, err := strconv.ParseFloat(it.val, 64)
	if err != nil {
		return 0, errors.Errorf("line %d: bad number %q", it.line, it.val)
	}
	return f, nil
}

func (p *parser) int32() (int32, error) {
	it := p.next()
	if it.typ != itemWord {
		return 0, p.unexpected(it, "an integer")
	}
	i, err := strconv.ParseInt(it.val, 10, 32)
	if err != nil {
		return 0, errors.Errorf("line %d: bad integer %q", it.line, it.val)
	}
	return int32(i), nil
}

func (p *parser) entity(line int) (*Entity, error) {
	e := &Entity{Entity: bsp.NewEntity(), Line: line}
	for {
		it := p.next()
		switch {
		case it.typ == itemChar && it.val == "}":
			return e, nil
		case it.typ == itemChar && it.val == "{":
			b, err := p.brush()
			if err != nil {
				return nil, errors.Wrapf(err, "entity at line %d, brush %d", line, len(e.Brushes))
			}
			e.Brushes = append(e.Brushes, b)
		case it.typ == itemString:
			v := p.next()
			if v.typ != itemString {
				return nil, p.unexpected(v, "a quoted value")
			}
			e.Set(it.val, v.val)
		default:
			return nil, p.unexpected(it, "a key, a brush or \"}\"")
		}
	}
}

func (p *parser) brush() (compiler.BrushDef, error) {
	var b compiler.BrushDef
	for {
		it := p.peek()
		if it.typ == itemChar && it.val == "}" {
			p.next()
			return b, nil
		}
		s, contents, err := p.side()
		if err != nil {
			return b, err
		}
		b.Sides = append(b.Sides, s)
		b.Contents |= contents
	}
}

func (p *parser) point() (vec.Vec3, error) {
	var v [3]float64
	if err := p.expect("("); err != nil {
		return vec.Vec3{}, err
	}
	for i := range v {
		f, err := p.float()
		if err != nil {
			return vec.Vec3{}, err
		}
		v[i] = f
	}
	if err := p.expect(")"); err != nil {
		return vec.Vec3{}, err
	}
	return vec.VFromA(v), nil
}

// side reads
//
//	( x y z ) ( x y z ) ( x y z ) texture xoff yoff rot xscale yscale [contents flags value]
func (p *parser) side() (compiler.SideDef, bsp.Contents, error) {
	var s compiler.SideDef
	line := p.peek().line
	var pts [3]vec.Vec3
	for i := range pts {
		v, err := p.point()
		if err != nil {
			return s, 0, err
		}
		pts[i] = v
	}
	plane, ok := PlaneFromPoints(pts[0], pts[1], pts[2])
	if !ok {
		return s, 0, errors.Errorf("line %d: side points are collinear", line)
	}
	s.Plane = plane

	it := p.next()
	if it.typ != itemWord && it.typ != itemString {
		return s, 0, p.unexpected(it, "a texture name")
	}
	s.Texture.Name = it.val
	for _, f := range []*float64{
		&s.Texture.OffsetX, &s.Texture.OffsetY, &s.Texture.Rotation,
		&s.Texture.ScaleX, &s.Texture.ScaleY,
	} {
		v, err := p.float()
		if err != nil {
			return s, 0, err
		}
		*f = v
	}

	if p.peek().typ != itemWord {
		return s, 0, nil
	}
	var extra [3]int32
	for i := range extra {
		v, err := p.int32()
		if err != nil {
			return s, 0, err
		}
		extra[i] = v
	}
	s.Texture.Flags = extra[1]
	s.Texture.Value = extra[2]
	return s, bsp.Contents(extra[0]), nil
}

// PlaneFromPoints returns the plane through three points given in clockwise
// order seen from the front.
func PlaneFromPoints(p0, p1, p2 vec.Vec3) (winding.Plane, bool) {
	n := vec.Cross(vec.Sub(p0, p1), vec.Sub(p2, p1))
	if n.Length() == 0 {
		return winding.Plane{}, false
	}
	n = n.Normalize()
	return winding.Plane{Normal: n, Dist: vec.Dot(p0, n)}, true
}
