// Package goquery parses HTML markup into markscrape documents using
// github.com/PuerkitoBio/goquery and golang.org/x/net/html.
package goquery

import (
	"iter"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/markscrape"
	"golang.org/x/net/html"
)

// Ensure Parser implements markscrape.Parser at compile time.
var _ markscrape.Parser = (*Parser)(nil)

// Parser parses HTML markup.
type Parser struct{}

// NewParser returns a Parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse parses markup into a Document. Returns EPARSE on failure.
func (p *Parser) Parse(markup string) (markscrape.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, markscrape.Errorf(markscrape.EPARSE, "failed to parse markup: %v", err)
	}
	d := NewDocument(doc)
	if len(doc.Nodes) > 0 {
		d.sources = sourceMap(doc.Nodes[0], markup)
	}
	return d, nil
}

// Ensure Document implements markscrape.Document at compile time.
var _ markscrape.Document = (*Document)(nil)

// Document adapts a goquery document to markscrape.Document.
type Document struct {
	doc *goquery.Document

	// sources holds the input text of each element. Nil when the document
	// was not parsed from markup by Parse.
	sources map[*html.Node]string
}

// NewDocument wraps an already parsed goquery document. Without the input
// markup, element sources are rendered from the tree.
func NewDocument(doc *goquery.Document) *Document {
	return &Document{doc: doc}
}

// Elements yields every element node in pre-order, depth first.
func (d *Document) Elements() iter.Seq[markscrape.Element] {
	return func(yield func(markscrape.Element) bool) {
		for _, root := range d.doc.Nodes {
			if !walk(root, func(n *html.Node) bool {
				return yield(&element{doc: d, node: n})
			}) {
				return
			}
		}
	}
}

// walk visits the element nodes under n in pre-order until visit returns
// false.
func walk(n *html.Node, visit func(*html.Node) bool) bool {
	if n.Type == html.ElementNode && !visit(n) {
		return false
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !walk(c, visit) {
			return false
		}
	}
	return true
}

type element struct {
	doc  *Document
	node *html.Node
}

func (e *element) TagName() string { return e.node.Data }

// Node copies the element into an independent view.
func (e *element) Node() *markscrape.Node {
	n := &markscrape.Node{
		Tag:  e.node.Data,
		Text: text(e.node),
	}

	n.Order = make([]string, 0, len(e.node.Attr))
	for _, a := range e.node.Attr {
		switch a.Key {
		case markscrape.FieldID:
			if n.ID != nil {
				continue
			}
			id := a.Val
			n.ID = &id
		case markscrape.FieldClass:
			had := len(n.Classes) > 0
			n.Classes = appendClasses(n.Classes, a.Val)
			if had || len(n.Classes) == 0 {
				continue
			}
		default:
			n.Attributes = append(n.Attributes, markscrape.Attribute{Name: a.Key, Value: a.Val})
		}
		n.Order = append(n.Order, a.Key)
	}

	n.Source = e.source()
	return n
}

func appendClasses(classes []string, attr string) []string {
	for _, c := range strings.Fields(attr) {
		dup := false
		for _, have := range classes {
			if have == c {
				dup = true
				break
			}
		}
		if !dup {
			classes = append(classes, c)
		}
	}
	return classes
}

// text joins the trimmed, non-empty descendant text nodes of n with single
// spaces.
func text(n *html.Node) string {
	var parts []string
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			if s := strings.TrimSpace(n.Data); s != "" {
				parts = append(parts, s)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return strings.Join(parts, " ")
}

// source returns the element's text from the input markup, or renders it
// from the tree when the element has no input text of its own.
func (e *element) source() string {
	if s, ok := e.doc.sources[e.node]; ok {
		return s
	}
	// Rendering an in-memory node only fails on writer errors.
	s, _ := goquery.OuterHtml(e.doc.doc.FindNodes(e.node))
	return s
}
