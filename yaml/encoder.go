// Package yaml encodes matched nodes as YAML and loads extraction jobs from
// YAML files, using gopkg.in/yaml.v3.
package yaml

import (
	"strings"
	"unicode"

	"github.com/fwojciec/markscrape"
	"gopkg.in/yaml.v3"
)

// Ensure Encoder implements markscrape.Encoder at compile time.
var _ markscrape.Encoder = (*Encoder)(nil)

// Encoder renders each node as a "data:" block holding one "- field: value"
// item per present field. Class nests as a block sequence and is omitted
// when the node has no classes. Text without any letter or digit is
// omitted. The output ends with a single newline.
type Encoder struct{}

// NewEncoder returns an Encoder.
func NewEncoder() *Encoder {
	return &Encoder{}
}

// Preamble implements markscrape.Encoder. YAML output has no header.
func (e *Encoder) Preamble(markscrape.Schema) (string, bool) {
	return "", false
}

// Record implements markscrape.Encoder.
func (e *Encoder) Record(schema markscrape.Schema, node *markscrape.Node, pos markscrape.Position) (string, error) {
	var b strings.Builder
	if !pos.First() {
		b.WriteByte('\n')
	}
	b.WriteString("data:")

	for _, field := range schema {
		switch field {
		case markscrape.FieldClass:
			if len(node.Classes) == 0 {
				continue
			}
			b.WriteString("\n  - class:")
			for _, c := range node.Classes {
				s, err := scalar(c)
				if err != nil {
					return "", err
				}
				b.WriteString("\n    - " + s)
			}
			continue
		case markscrape.FieldText:
			if !hasAlphanumeric(node.Text) {
				continue
			}
		}

		v, ok := node.Value(field)
		if !ok {
			continue
		}
		key, err := scalar(field)
		if err != nil {
			return "", err
		}
		s, err := scalar(v)
		if err != nil {
			return "", err
		}
		b.WriteString("\n  - " + key + ": " + s)
	}
	return b.String(), nil
}

// Closing implements markscrape.Encoder. It ends non-empty output with a
// newline.
func (e *Encoder) Closing(_ markscrape.Schema, emitted int) (string, bool) {
	return "\n", emitted > 0
}

// scalar renders s as a single-line YAML string scalar, quoting it when a
// plain scalar would change its meaning.
func scalar(s string) (string, error) {
	n := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
	if strings.ContainsAny(s, "\r\n") {
		n.Style = yaml.DoubleQuotedStyle
	}
	out, err := yaml.Marshal(n)
	if err != nil {
		return "", markscrape.Errorf(markscrape.EMALFORMED, "encode yaml scalar: %v", err)
	}
	return strings.TrimSuffix(string(out), "\n"), nil
}

func hasAlphanumeric(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool {
		return unicode.IsLetter(r) || unicode.IsDigit(r)
	}) >= 0
}
