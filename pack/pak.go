// SPDX-License-Identifier: GPL-2.0-or-later

// Package pack reads and writes PACK archives.
package pack

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"
	"sort"

	"github.com/pkg/errors"
)

var (
	ErrNotPack   = errors.New("not a pack")
	ErrDuplicate = errors.New("files in pack are not unique")
)

var magic = [4]byte{'P', 'A', 'C', 'K'}

type header struct {
	ID     [4]byte
	Offset int32
	Size   int32
}

type entry struct {
	Name   [56]byte
	Offset int32
	Size   int32
}

var entrySize = int32(binary.Size(entry{}))

type Pack struct {
	f     *os.File
	files map[string]*qfile
	name  string
}

type qfile struct {
	offset int64
	size   int64
}

// Open returns a io.SectionReader or os.ErrNotExist if the pak has no entry
// with the provided name.
func (p *Pack) Open(name string) (*io.SectionReader, error) {
	q, ok := p.files[name]
	if !ok {
		return nil, os.ErrNotExist
	}

	return io.NewSectionReader(p.f, q.offset, q.size), nil
}

// Files returns the sorted entry names.
func (p *Pack) Files() []string {
	names := make([]string, 0, len(p.files))
	for n := range p.files {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (p *Pack) String() string {
	return p.name
}

func (p *Pack) Close() error {
	return p.f.Close()
}

func newPack(name string) (*Pack, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	return &Pack{f: f, name: name}, nil
}

func (p *Pack) init() error {
	var h header
	if err := binary.Read(p.f, binary.LittleEndian, &h); err != nil {
		return errors.Wrap(err, "reading header")
	}
	if h.ID != magic {
		return ErrNotPack
	}
	r, err := p.f.Seek(int64(h.Offset), io.SeekStart)
	if err != nil {
		return err
	}
	if r != int64(h.Offset) {
		return errors.New("Not long enough")
	}
	filenum := h.Size / entrySize
	p.files = make(map[string]*qfile, filenum)
	for i := int32(0); i < filenum; i++ {
		var e entry
		if err := binary.Read(p.f, binary.LittleEndian, &e); err != nil {
			return errors.Wrapf(err, "reading entry %d", i)
		}
		n := bytes.IndexByte(e.Name[:], 0)
		if n < 0 {
			n = len(e.Name)
		}
		name := string(e.Name[:n])
		if p.files[name] != nil {
			return errors.Wrap(ErrDuplicate, name)
		}
		p.files[name] = &qfile{
			offset: int64(e.Offset),
			size:   int64(e.Size),
		}
	}
	return nil
}

func NewPackReader(name string) (*Pack, error) {
	p, err := newPack(name)
	if err != nil {
		return nil, err
	}
	if err := p.init(); err != nil {
		p.Close()
		return nil, errors.Wrap(err, name)
	}
	return p, nil
}

// Writer creates a pack. Files are stored in the order they are added, the
// directory is written by Close.
type Writer struct {
	w       io.WriteSeeker
	offset  int32
	entries []entry
	names   map[string]bool
}

// NewWriter starts a pack at the current position of w, which must be the
// start of the stream.
func NewWriter(w io.WriteSeeker) (*Writer, error) {
	var h header
	if err := binary.Write(w, binary.LittleEndian, &h); err != nil {
		return nil, errors.Wrap(err, "writing header")
	}
	return &Writer{
		w:      w,
		offset: int32(binary.Size(h)),
		names:  make(map[string]bool),
	}, nil
}

func (w *Writer) Add(name string, data []byte) error {
	var e entry
	if len(name) == 0 || len(name) >= len(e.Name) {
		return errors.Errorf("bad pack file name %q", name)
	}
	if w.names[name] {
		return errors.Wrap(ErrDuplicate, name)
	}
	if _, err := w.w.Write(data); err != nil {
		return errors.Wrapf(err, "writing %s", name)
	}
	copy(e.Name[:], name)
	e.Offset = w.offset
	e.Size = int32(len(data))
	w.entries = append(w.entries, e)
	w.names[name] = true
	w.offset += e.Size
	return nil
}

// Close writes the directory and the final header. It does not close the
// underlying writer.
func (w *Writer) Close() error {
	if err := binary.Write(w.w, binary.LittleEndian, w.entries); err != nil {
		return errors.Wrap(err, "writing directory")
	}
	h := header{
		ID:     magic,
		Offset: w.offset,
		Size:   int32(len(w.entries)) * entrySize,
	}
	if _, err := w.w.Seek(0, io.SeekStart); err != nil {
		return err
	}
	if err := binary.Write(w.w, binary.LittleEndian, &h); err != nil {
		return errors.Wrap(err, "writing header")
	}
	return nil
}
