// SPDX-License-Identifier: GPL-2.0-or-later

package pack

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePak(t *testing.T, files map[string]string, order []string) string {
	t.Helper()
	name := filepath.Join(t.TempDir(), "pak0.pak")
	f, err := os.Create(name)
	require.NoError(t, err)
	defer f.Close()

	w, err := NewWriter(f)
	require.NoError(t, err)
	for _, n := range order {
		require.NoError(t, w.Add(n, []byte(files[n])))
	}
	require.NoError(t, w.Close())
	return name
}

func TestPak(t *testing.T) {
	files := map[string]string{
		"doc1.txt":         "this is the first doc 2. version\r\n",
		"testdir/doc4.txt": "this is the fourth doc 2. version",
		"maps/empty.bsp":   "",
	}
	pakFile := writePak(t, files, []string{"doc1.txt", "testdir/doc4.txt", "maps/empty.bsp"})

	p, err := NewPackReader(pakFile)
	require.NoError(t, err, "could not open %s", pakFile)
	defer p.Close()
	assert.Equal(t, pakFile, p.String())
	assert.Equal(t, []string{"doc1.txt", "maps/empty.bsp", "testdir/doc4.txt"}, p.Files())

	for n, want := range files {
		f, err := p.Open(n)
		require.NoError(t, err, n)
		b, err := io.ReadAll(f)
		require.NoError(t, err, n)
		assert.Equal(t, want, string(b), n)
	}

	_, err = p.Open("doc4.txt")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWriterRejects(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "pak1.pak"))
	require.NoError(t, err)
	defer f.Close()
	w, err := NewWriter(f)
	require.NoError(t, err)

	require.NoError(t, w.Add("a", []byte("x")))
	err = w.Add("a", []byte("y"))
	assert.Equal(t, ErrDuplicate, errors.Cause(err))
	assert.Error(t, w.Add("", nil))
	assert.Error(t, w.Add(string(make([]byte, 56)), nil))
}

func TestNotAPack(t *testing.T) {
	name := filepath.Join(t.TempDir(), "bad.pak")
	require.NoError(t, os.WriteFile(name, []byte("IBSP\x26\x00\x00\x00\x00\x00\x00\x00"), 0o644))
	_, err := NewPackReader(name)
	assert.Equal(t, ErrNotPack, errors.Cause(err))
}
