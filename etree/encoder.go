// Package etree encodes matched nodes as XML using github.com/beevik/etree.
package etree

import (
	"strings"
	"unicode"

	"github.com/beevik/etree"
	"github.com/fwojciec/markscrape"
)

// Ensure Encoder implements markscrape.Encoder at compile time.
var _ markscrape.Encoder = (*Encoder)(nil)

// Encoder renders the XML declaration followed by one <data> element per
// node. Each schema field becomes a child element of the same name; the
// class field nests as <classes><class>..</class></classes>. Absent fields
// are omitted. There is no closing chunk.
type Encoder struct {
	pretty bool
}

// NewEncoder returns an Encoder. With pretty set, every record starts on a
// new line and nested elements are indented two spaces per level.
func NewEncoder(pretty bool) *Encoder {
	return &Encoder{pretty: pretty}
}

// Preamble returns the XML declaration.
func (e *Encoder) Preamble(markscrape.Schema) (string, bool) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	s, err := doc.WriteToString()
	if err != nil {
		return "", false
	}
	return strings.TrimSpace(s), true
}

// Record returns the <data> element for node. A field whose name is not a
// valid XML element name fails the record with EMALFORMED.
func (e *Encoder) Record(schema markscrape.Schema, node *markscrape.Node, _ markscrape.Position) (string, error) {
	doc := etree.NewDocument()
	data := doc.CreateElement("data")

	for _, field := range schema {
		if field == markscrape.FieldClass {
			classes := data.CreateElement("classes")
			for _, c := range node.Classes {
				classes.CreateElement("class").SetText(c)
			}
			continue
		}
		v, ok := node.Value(field)
		if !ok {
			continue
		}
		if !validName(field) {
			return "", markscrape.Errorf(markscrape.EMALFORMED, "invalid xml element name %q", field)
		}
		data.CreateElement(field).SetText(v)
	}

	if e.pretty {
		doc.Indent(2)
	}
	s, err := doc.WriteToString()
	if err != nil {
		return "", markscrape.Errorf(markscrape.EMALFORMED, "encode xml record: %v", err)
	}
	s = strings.TrimSpace(s)
	if e.pretty {
		s = "\n" + s
	}
	return s, nil
}

// Closing implements markscrape.Encoder. XML output has no footer.
func (e *Encoder) Closing(markscrape.Schema, int) (string, bool) {
	return "", false
}

// validName reports whether s can be used as an XML element name without a
// namespace prefix.
func validName(s string) bool {
	if s == "" || strings.HasPrefix(strings.ToLower(s), "xml") {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case i > 0 && (r == '-' || r == '.' || unicode.IsDigit(r)):
		default:
			return false
		}
	}
	return true
}
