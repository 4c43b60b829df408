package markscrape

import (
	"iter"
	"strings"
)

// Field names with dedicated meaning. Any other field name refers to an
// attribute of the same name.
const (
	FieldTag   = "tag"
	FieldID    = "id"
	FieldClass = "class"
	FieldText  = "text"
)

// Attribute is a single markup attribute. Boolean attributes (present
// without a value) have an empty Value.
type Attribute struct {
	Name  string
	Value string
}

// Node is a read-only view of one markup element. It holds no references
// into the parsed document, so it outlives the tree it was built from.
type Node struct {
	Tag string

	// ID is nil when the element has no id attribute.
	ID *string

	// Classes in document order, duplicates removed.
	Classes []string

	// Attributes in document order, excluding id and class.
	Attributes []Attribute

	// Order lists the attribute names, id and class included, in the
	// order they appear on the element. When nil, id and class are taken
	// to come before the other attributes.
	Order []string

	// Text is the element's descendant text, one space between text nodes.
	Text string

	// Source is the element's serialized markup.
	Source string
}

// Attr returns the value of the named attribute and whether it is present.
// The names "id" and "class" read the dedicated fields; class yields the
// space-joined class list.
func (n *Node) Attr(name string) (string, bool) {
	switch name {
	case FieldID:
		if n.ID == nil {
			return "", false
		}
		return *n.ID, true
	case FieldClass:
		if len(n.Classes) == 0 {
			return "", false
		}
		return strings.Join(n.Classes, " "), true
	}
	for _, a := range n.Attributes {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// AttributeNames returns the names of the attributes present on n in
// document order, id and class included.
func (n *Node) AttributeNames() []string {
	if n.Order != nil {
		return n.Order
	}
	var names []string
	if n.ID != nil {
		names = append(names, FieldID)
	}
	if len(n.Classes) > 0 {
		names = append(names, FieldClass)
	}
	for _, a := range n.Attributes {
		names = append(names, a.Name)
	}
	return names
}

// HasClass reports whether the node carries class c.
func (n *Node) HasClass(c string) bool {
	for _, v := range n.Classes {
		if v == c {
			return true
		}
	}
	return false
}

// Value returns the rendering of field for n and whether the field is
// present. Tag and text are always present; class is present even when
// empty. Encoders that render class as a list use n.Classes instead.
func (n *Node) Value(field string) (string, bool) {
	switch field {
	case FieldTag:
		return n.Tag, true
	case FieldText:
		return n.Text, true
	case FieldClass:
		return strings.Join(n.Classes, " "), true
	}
	return n.Attr(field)
}

// TagName implements Element.
func (n *Node) TagName() string { return n.Tag }

// Node implements Element.
func (n *Node) Node() *Node { return n }

// Nodes is a flat Document over already materialized views, visited in
// slice order. It allows re-filtering the output of a previous selection.
type Nodes []*Node

// Elements implements Document.
func (l Nodes) Elements() iter.Seq[Element] {
	return func(yield func(Element) bool) {
		for _, n := range l {
			if !yield(n) {
				return
			}
		}
	}
}

// Element is an element visited while walking a Document. TagName is cheap;
// Node materializes the full view and is only called for candidates.
type Element interface {
	TagName() string
	Node() *Node
}

// Document is a parsed markup tree.
type Document interface {
	// Elements yields every element node in pre-order, depth first.
	// Text nodes are not yielded; they contribute to their parent's text.
	Elements() iter.Seq[Element]
}

// Parser parses raw markup into a Document.
type Parser interface {
	// Parse returns EPARSE if the markup cannot be parsed.
	Parse(markup string) (Document, error)
}
