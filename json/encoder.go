// Package json encodes matched nodes as a JSON array of objects.
package json

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/fwojciec/markscrape"
)

// Ensure Encoder implements markscrape.Encoder at compile time.
var _ markscrape.Encoder = (*Encoder)(nil)

// Encoder renders "[" then one object per node, separated by commas, then
// "]". Absent fields are omitted from the object.
type Encoder struct {
	pretty bool
}

// NewEncoder returns an Encoder. With pretty set, objects are indented two
// spaces per level and every structural token starts a new line.
func NewEncoder(pretty bool) *Encoder {
	return &Encoder{pretty: pretty}
}

// Preamble implements markscrape.Encoder.
func (e *Encoder) Preamble(markscrape.Schema) (string, bool) {
	return "[", true
}

// Record implements markscrape.Encoder.
func (e *Encoder) Record(schema markscrape.Schema, node *markscrape.Node, pos markscrape.Position) (string, error) {
	var b strings.Builder
	if !pos.First() {
		b.WriteByte(',')
	}
	if e.pretty {
		b.WriteString("\n  ")
	}
	b.WriteByte('{')

	written := 0
	for _, field := range schema {
		value, ok := e.value(field, node)
		if !ok {
			continue
		}
		if written > 0 {
			b.WriteByte(',')
		}
		if e.pretty {
			b.WriteString("\n    ")
		}
		b.WriteString(quote(field))
		b.WriteByte(':')
		b.WriteString(value)
		written++
	}

	if e.pretty {
		b.WriteString("\n  ")
	}
	b.WriteByte('}')
	return b.String(), nil
}

// Closing implements markscrape.Encoder.
func (e *Encoder) Closing(markscrape.Schema, int) (string, bool) {
	if e.pretty {
		return "\n]", true
	}
	return "]", true
}

// value returns the encoded JSON value of field. Class is an array of
// strings, everything else a string.
func (e *Encoder) value(field string, node *markscrape.Node) (string, bool) {
	if field != markscrape.FieldClass {
		v, ok := node.Value(field)
		if !ok {
			return "", false
		}
		return quote(v), true
	}

	sep := ","
	if e.pretty {
		sep = ", "
	}
	items := make([]string, len(node.Classes))
	for i, c := range node.Classes {
		items[i] = quote(c)
	}
	return "[" + strings.Join(items, sep) + "]", true
}

// quote returns s as a JSON string literal without HTML escaping.
func quote(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// Encoding a string cannot fail.
	_ = enc.Encode(s)
	return strings.TrimSuffix(buf.String(), "\n")
}
