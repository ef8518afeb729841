// SPDX-License-Identifier: GPL-2.0-or-later
package bsp

import (
	"bytes"
	"fmt"
	"strings"
)

// Entity is an ordered set of key/value properties.
type Entity struct {
	keys       []string
	properties map[string]string
}

func NewEntity() *Entity {
	return &Entity{properties: make(map[string]string)}
}

// ParseEntity reads the "key" "value" lines of a single entity block.
func ParseEntity(p []byte) *Entity {
	e := NewEntity()
	// parse the entity line by line
	lines := bytes.Split(p, []byte("\n"))
	for _, l := range lines {
		// look for something of the form
		// "key" "value"
		q := bytes.IndexByte(l, '"')
		if q == -1 {
			continue
		}
		r := l[q+1:]
		q = bytes.IndexByte(r, '"')
		if q == -1 {
			continue
		}
		key := string(r[:q])
		r = r[q+1:]
		q = bytes.IndexByte(r, '"')
		if q == -1 {
			continue
		}
		r = r[q+1:]
		q = bytes.IndexByte(r, '"')
		if q == -1 {
			continue
		}
		e.Set(key, string(r[:q]))
	}
	return e
}

// Set adds or replaces a property. New keys keep their insertion order.
func (e *Entity) Set(key, value string) {
	if _, ok := e.properties[key]; !ok {
		e.keys = append(e.keys, key)
	}
	e.properties[key] = value
}

func (e *Entity) Property(name string) (string, bool) {
	v, ok := e.properties[name]
	return v, ok
}

func (e *Entity) Name() (string, bool) {
	v, ok := e.properties["classname"]
	return v, ok
}

// PropertyNames returns the keys in insertion order.
func (e *Entity) PropertyNames() []string {
	n := make([]string, len(e.keys))
	copy(n, e.keys)
	return n
}

func (e *Entity) String() string {
	var b strings.Builder
	b.WriteString("{\n")
	for _, k := range e.keys {
		// the format has no escapes
		fmt.Fprintf(&b, "\"%s\" \"%s\"\n", k, e.properties[k])
	}
	b.WriteString("}\n")
	return b.String()
}

// EntityString serializes entities into the entity lump format.
func EntityString(es []*Entity) string {
	var b strings.Builder
	for _, e := range es {
		b.WriteString(e.String())
	}
	return b.String()
}

func ParseEntities(data []byte) []*Entity {
	/*
		The data looks like:
		{
		  "name" "value"
		  "name2" "value2"
		}
		{
		  "name3" "value"
		}
	*/
	// First split the entities
	es := []*Entity{}
	var ess [][]byte
	var ob, q int
	start := -1
	for i, b := range data {
		switch b {
		case '{':
			if q != 0 {
				break
			}
			if start == -1 {
				start = i
			} else {
				ob++
			}
		case '}':
			if q != 0 {
				break
			}
			if start == -1 {
				// Bad input
				return nil
			}
			if ob == 0 {
				ess = append(ess, data[start:i+1])
				start = -1
			} else {
				ob--
			}
		case '"':
			if q == 0 {
				q++
			} else {
				q--
			}
		}
	}
	for _, e := range ess {
		es = append(es, ParseEntity(e))
	}
	return es
}
