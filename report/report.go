// SPDX-License-Identifier: GPL-2.0-or-later

// Package report keeps a history of compile results on disk.
package report

import (
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"goqbsp/compiler"
)

const (
	// add a max size to prevent the file from growing indefinitely
	maxHistory = 32
)

type Entry struct {
	ID      uuid.UUID
	Time    time.Time
	Input   string
	Output  string
	Stats   compiler.Stats
	Dropped []int
}

func FromResult(r *compiler.Result, input, output string) Entry {
	return Entry{
		ID:      r.ID,
		Time:    time.Now().UTC().Round(0),
		Input:   input,
		Output:  output,
		Stats:   r.Stats,
		Dropped: append([]int{}, r.Dropped...),
	}
}

type History struct {
	entries []Entry
}

// Add appends e, forgetting the oldest entries beyond the history size.
func (h *History) Add(e Entry) {
	h.entries = append(h.entries, e)
	if n := len(h.entries) - maxHistory; n > 0 {
		h.entries = append([]Entry{}, h.entries[n:]...)
	}
}

func (h *History) Entries() []Entry {
	return h.entries
}

func (h *History) Last() (Entry, bool) {
	if len(h.entries) == 0 {
		return Entry{}, false
	}
	return h.entries[len(h.entries)-1], true
}

func (e *Entry) value() map[string]any {
	dropped := make([]any, len(e.Dropped))
	for i, d := range e.Dropped {
		dropped[i] = d
	}
	return map[string]any{
		"id":     e.ID.String(),
		"time":   e.Time.Format(time.RFC3339Nano),
		"input":  e.Input,
		"output": e.Output,
		"stats": map[string]any{
			"planes":   e.Stats.Planes,
			"nodes":    e.Stats.Nodes,
			"leaves":   e.Stats.Leaves,
			"faces":    e.Stats.Faces,
			"brushes":  e.Stats.Brushes,
			"vertices": e.Stats.Vertices,
			"edges":    e.Stats.Edges,
		},
		"dropped": dropped,
	}
}

func entryFromStruct(s *structpb.Struct) (Entry, error) {
	var e Entry
	f := s.GetFields()
	id, err := uuid.Parse(f["id"].GetStringValue())
	if err != nil {
		return e, errors.Wrap(err, "bad report id")
	}
	e.ID = id
	if e.Time, err = time.Parse(time.RFC3339Nano, f["time"].GetStringValue()); err != nil {
		return e, errors.Wrap(err, "bad report time")
	}
	e.Input = f["input"].GetStringValue()
	e.Output = f["output"].GetStringValue()

	st := f["stats"].GetStructValue().GetFields()
	num := func(k string) int {
		return int(st[k].GetNumberValue())
	}
	e.Stats = compiler.Stats{
		Planes:   num("planes"),
		Nodes:    num("nodes"),
		Leaves:   num("leaves"),
		Faces:    num("faces"),
		Brushes:  num("brushes"),
		Vertices: num("vertices"),
		Edges:    num("edges"),
	}
	for _, v := range f["dropped"].GetListValue().GetValues() {
		e.Dropped = append(e.Dropped, int(v.GetNumberValue()))
	}
	return e, nil
}

// Load reads a history file. A missing file is an empty history.
func Load(name string) (*History, error) {
	h := &History{}
	in, err := os.ReadFile(name)
	if errors.Is(err, os.ErrNotExist) {
		return h, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "reading report")
	}
	data := &structpb.Struct{}
	if err := protojson.Unmarshal(in, data); err != nil {
		return nil, errors.Wrap(err, "failed to decode report")
	}
	for _, v := range data.GetFields()["reports"].GetListValue().GetValues() {
		e, err := entryFromStruct(v.GetStructValue())
		if err != nil {
			return nil, err
		}
		h.Add(e)
	}
	return h, nil
}

func (h *History) Save(name string) error {
	reports := make([]any, len(h.entries))
	for i := range h.entries {
		reports[i] = h.entries[i].value()
	}
	data, err := structpb.NewStruct(map[string]any{"reports": reports})
	if err != nil {
		return errors.Wrap(err, "failed to encode report")
	}
	out, err := protojson.MarshalOptions{Multiline: true}.Marshal(data)
	if err != nil {
		return errors.Wrap(err, "failed to encode report")
	}
	if err := os.WriteFile(name, out, 0660); err != nil {
		return errors.Wrap(err, "failed to write report file")
	}
	return nil
}
