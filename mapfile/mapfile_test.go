// SPDX-License-Identifier: GPL-2.0-or-later

package mapfile

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goqbsp/bsp"
	"goqbsp/compiler"
	"goqbsp/math/vec"
)

const cubeBrush = `{
( 64 0 64 ) ( 0 0 64 ) ( 0 64 64 ) e1u1/floor1_1 0 0 0 1 1
( 0 64 0 ) ( 0 0 0 ) ( 64 0 0 ) e1u1/floor1_1 0 0 0 1 1
( 64 64 0 ) ( 64 0 0 ) ( 64 0 64 ) e1u1/wall1_1 16 8 0 2 2
( 0 0 64 ) ( 0 0 0 ) ( 0 64 0 ) e1u1/wall1_1 16 8 0 2 2
( 0 64 64 ) ( 0 64 0 ) ( 64 64 0 ) e1u1/wall1_1 0 0 0 1 1 0 0 0
( 64 0 0 ) ( 0 0 0 ) ( 0 0 64 ) e1u1/wall1_1 0 0 0 1 1 1 4 10
}
`

const testMap = `// Game: Quake 2
{
"classname" "worldspawn"
"message" "test map"
` + cubeBrush + `}
{
"classname" "info_player_start"
"origin" "32 32 96"
}
{
"classname" "func_group"
{
( 164 0 64 ) ( 100 0 64 ) ( 100 64 64 ) *water1 0 0 0 1 1 32 0 0
( 100 64 0 ) ( 100 0 0 ) ( 164 0 0 ) *water1 0 0 0 1 1 32 0 0
( 164 64 0 ) ( 164 0 0 ) ( 164 0 64 ) *water1 0 0 0 1 1 32 0 0
( 100 0 64 ) ( 100 0 0 ) ( 100 64 0 ) *water1 0 0 0 1 1 32 0 0
( 100 64 64 ) ( 100 64 0 ) ( 164 64 0 ) *water1 0 0 0 1 1 32 0 0
( 164 0 0 ) ( 100 0 0 ) ( 100 0 64 ) *water1 0 0 0 1 1 32 0 0
}
}
{
"classname" "func_door"
"angle" "-1"
` + cubeBrush + `}
`

func TestParse(t *testing.T) {
	m, err := Parse(strings.NewReader(testMap))
	require.NoError(t, err)
	require.Len(t, m.Entities, 4)

	w := m.Entities[0]
	assert.Equal(t, 2, w.Line)
	assert.True(t, w.World())
	v, _ := w.Property("message")
	assert.Equal(t, "test map", v)
	require.Len(t, w.Brushes, 1)

	b := w.Brushes[0]
	require.Len(t, b.Sides, 6)
	want := []struct {
		n vec.Vec3
		d float64
	}{
		{vec.Vec3{Z: 1}, 64},
		{vec.Vec3{Z: -1}, 0},
		{vec.Vec3{X: 1}, 64},
		{vec.Vec3{X: -1}, 0},
		{vec.Vec3{Y: 1}, 64},
		{vec.Vec3{Y: -1}, 0},
	}
	for i, s := range b.Sides {
		assert.True(t, vec.Near(want[i].n, s.Plane.Normal, 1e-9), "side %d normal %v", i, s.Plane.Normal)
		assert.InDelta(t, want[i].d, s.Plane.Dist, 1e-9, "side %d", i)
	}
	assert.Equal(t, compiler.TextureParams{
		Name: "e1u1/wall1_1", OffsetX: 16, OffsetY: 8, ScaleX: 2, ScaleY: 2,
	}, b.Sides[2].Texture)
	assert.Equal(t, int32(4), b.Sides[5].Texture.Flags)
	assert.Equal(t, int32(10), b.Sides[5].Texture.Value)
	assert.Equal(t, bsp.ContentsSolid, b.Contents)

	assert.False(t, m.Entities[1].World())
	assert.Empty(t, m.Entities[1].Brushes)
	assert.Equal(t, bsp.ContentsWater, m.Entities[2].Brushes[0].Contents)
	assert.Equal(t, "*water1", m.Entities[2].Brushes[0].Sides[0].Texture.Name)
}

func TestWorldBrushes(t *testing.T) {
	m, err := ParseString(testMap)
	require.NoError(t, err)

	brushes, skipped := m.WorldBrushes()
	assert.Len(t, brushes, 2)
	require.Len(t, skipped, 1)
	n, _ := skipped[0].Name()
	assert.Equal(t, "func_door", n)

	es := m.BSPEntities()
	require.Len(t, es, 3)
	for _, e := range es {
		n, _ := e.Name()
		assert.NotEqual(t, "func_group", n)
	}

	r, err := compiler.Compile(brushes, es, compiler.Options{})
	require.NoError(t, err)
	c, err := r.Data.PointContents(vec.Vec3{X: 32, Y: 32, Z: 32})
	require.NoError(t, err)
	assert.Equal(t, bsp.ContentsSolid, c)
	c, err = r.Data.PointContents(vec.Vec3{X: 132, Y: 32, Z: 32})
	require.NoError(t, err)
	assert.Equal(t, bsp.ContentsWater, c)
	c, err = r.Data.PointContents(vec.Vec3{X: 82, Y: 32, Z: 32})
	require.NoError(t, err)
	assert.Equal(t, bsp.ContentsEmpty, c)

	parsed := bsp.ParseEntities([]byte(r.Data.Entities))
	require.Len(t, parsed, 3)
	o, _ := parsed[1].Property("origin")
	assert.Equal(t, "32 32 96", o)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		line string
	}{
		{"missing brace", "\"classname\" \"worldspawn\"\n", "line 1"},
		{"unterminated", "{\n\"classname\" \"worldspawn\n}\n", "line 2"},
		{"bad number", "{\n{\n( 0 0 x ) ( 0 0 0 ) ( 1 0 0 ) t 0 0 0 1 1\n}\n}\n", "line 3"},
		{"collinear", "{\n{\n( 0 0 0 ) ( 1 0 0 ) ( 2 0 0 ) t 0 0 0 1 1\n}\n}\n", "line 3"},
		{"short side", "{\n{\n( 0 0 0 ) ( 1 0 0 ) ( 0 1 0 ) t 0 0\n}\n}\n", "line 4"},
		{"eof", "{\n\"classname\" \"worldspawn\"\n", "line 3"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseString(tc.in)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.line)
		})
	}
}

func TestLexComments(t *testing.T) {
	l := lex("// header\n{ \"a\" \"b c\" } // trailing\nword")
	var got []string
	for {
		it := l.nextItem()
		if it.typ == itemEOF {
			break
		}
		require.NotEqual(t, itemError, it.typ, it.val)
		got = append(got, it.val)
	}
	assert.Equal(t, []string{"{", "a", "b c", "}", "word"}, got)
}

func TestPlaneFromPoints(t *testing.T) {
	p, ok := PlaneFromPoints(vec.Vec3{X: 64, Z: 8}, vec.Vec3{Z: 8}, vec.Vec3{Y: 64, Z: 8})
	require.True(t, ok)
	assert.Equal(t, vec.Vec3{Z: 1}, p.Normal)
	assert.Equal(t, 8.0, p.Dist)
}
