package markscrape

import "strings"

// Mode combines the conditions of one filter.
type Mode string

// Combination modes. The zero value behaves as ModeAnd.
const (
	ModeAnd Mode = "and"
	ModeOr  Mode = "or"
)

// ParseMode parses "and" or "or" (case-insensitive). Empty means ModeAnd.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "", string(ModeAnd):
		return ModeAnd, nil
	case string(ModeOr):
		return ModeOr, nil
	}
	return "", Errorf(EINVALID, "unknown filter mode %q", s)
}

func (m Mode) validate() error {
	if m != "" && m != ModeAnd && m != ModeOr {
		return Errorf(EINVALID, "unknown filter mode %q", string(m))
	}
	return nil
}

// combine evaluates pred over items. AND holds iff every item holds (true
// for no items); OR holds iff at least one item holds (false for no items).
func combine[T any](mode Mode, items []T, pred func(T) bool) bool {
	if mode == ModeOr {
		for _, it := range items {
			if pred(it) {
				return true
			}
		}
		return false
	}
	for _, it := range items {
		if !pred(it) {
			return false
		}
	}
	return true
}

// IDFilter matches nodes whose id is one of IDs.
type IDFilter struct {
	IDs []string
}

// Match reports whether n has an id listed in the filter.
func (f *IDFilter) Match(n *Node) bool {
	if n.ID == nil {
		return false
	}
	for _, id := range f.IDs {
		if id == *n.ID {
			return true
		}
	}
	return false
}

// ClassFilter matches nodes by class membership.
type ClassFilter struct {
	Classes []string
	Mode    Mode
}

// Match reports whether n carries all (AND) or any (OR) of the classes.
func (f *ClassFilter) Match(n *Node) bool {
	return combine(f.Mode, f.Classes, n.HasClass)
}

// AttributePair is a name/value condition. The names "id" and "class" test
// the node's id and class list instead of the attribute map.
type AttributePair struct {
	Name  string
	Value string
}

// Holds reports whether the pair holds for n. A boolean attribute compares
// as the empty string.
func (p AttributePair) Holds(n *Node) bool {
	switch p.Name {
	case FieldID:
		return n.ID != nil && *n.ID == p.Value
	case FieldClass:
		return n.HasClass(p.Value)
	}
	v, ok := n.Attr(p.Name)
	return ok && v == p.Value
}

// AttributeFilter matches nodes by attribute name/value pairs.
type AttributeFilter struct {
	Pairs []AttributePair
	Mode  Mode
}

// Match reports whether all (AND) or any (OR) of the pairs hold for n.
func (f *AttributeFilter) Match(n *Node) bool {
	return combine(f.Mode, f.Pairs, func(p AttributePair) bool { return p.Holds(n) })
}

// TextFilter matches nodes by substring containment in their text.
type TextFilter struct {
	Substrings []string
	Mode       Mode
}

// Match reports whether the node text contains all (AND) or any (OR) of
// the substrings.
func (f *TextFilter) Match(n *Node) bool {
	return combine(f.Mode, f.Substrings, func(s string) bool { return strings.Contains(n.Text, s) })
}

// SelectionSpec is the set of filters applied to every element of a
// document. A nil filter places no constraint. Treat as read-only once a
// selection has started.
type SelectionSpec struct {
	// Tags lists accepted tag names (compared case-insensitively).
	// An empty list matches nothing.
	Tags []string

	ID    *IDFilter
	Class *ClassFilter

	AttributesInclude *AttributeFilter
	AttributesExclude *AttributeFilter

	TextInclude *TextFilter
	TextExclude *TextFilter
}

// Validate returns an error if the spec contains invalid fields. An empty
// tag list is valid and matches nothing.
func (s *SelectionSpec) Validate() error {
	for _, t := range s.Tags {
		if strings.TrimSpace(t) == "" {
			return Errorf(EINVALID, "tag name required")
		}
	}
	if s.Class != nil {
		if err := s.Class.Mode.validate(); err != nil {
			return err
		}
	}
	for _, f := range []*AttributeFilter{s.AttributesInclude, s.AttributesExclude} {
		if f == nil {
			continue
		}
		if err := f.Mode.validate(); err != nil {
			return err
		}
		for _, p := range f.Pairs {
			if p.Name == "" {
				return Errorf(EINVALID, "attribute filter name required")
			}
		}
	}
	for _, f := range []*TextFilter{s.TextInclude, s.TextExclude} {
		if f == nil {
			continue
		}
		if err := f.Mode.validate(); err != nil {
			return err
		}
	}
	return nil
}

// MatchTag reports whether tag is one of the accepted tag names.
func (s *SelectionSpec) MatchTag(tag string) bool {
	for _, t := range s.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// Match evaluates the filters against n in a fixed order, stopping at the
// first failure: tag, id, class, attributes include, attributes exclude,
// text include, text exclude. Exclude filters negate their combined result.
func (s *SelectionSpec) Match(n *Node) bool {
	if !s.MatchTag(n.Tag) {
		return false
	}
	return s.matchFilters(n)
}

func (s *SelectionSpec) matchFilters(n *Node) bool {
	if s.ID != nil && !s.ID.Match(n) {
		return false
	}
	if s.Class != nil && !s.Class.Match(n) {
		return false
	}
	if s.AttributesInclude != nil && !s.AttributesInclude.Match(n) {
		return false
	}
	if s.AttributesExclude != nil && s.AttributesExclude.Match(n) {
		return false
	}
	if s.TextInclude != nil && !s.TextInclude.Match(n) {
		return false
	}
	if s.TextExclude != nil && s.TextExclude.Match(n) {
		return false
	}
	return true
}

// Select walks doc in pre-order and returns the views of every element
// matching spec, in visitation order. Every element is tested on its own:
// a rejected element's descendants are still visited.
func Select(doc Document, spec *SelectionSpec) []*Node {
	if len(spec.Tags) == 0 {
		return nil
	}

	var nodes []*Node
	for el := range doc.Elements() {
		if !spec.MatchTag(el.TagName()) {
			continue
		}
		n := el.Node()
		if spec.matchFilters(n) {
			nodes = append(nodes, n)
		}
	}
	return nodes
}
