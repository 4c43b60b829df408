package goquery_test

import (
	"strings"
	"testing"

	gq "github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/markscrape"
	"github.com/fwojciec/markscrape/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fiveSiblings = `<html><body>
<div class="test" id="div1" data-role="main">hello world</div>
<span class="test" id="span1" data-role="secondary">hello rust</span>
<div class="test" id="div2" data-role="main">goodbye world</div>
<div class="example" id="div3" data-role="main">hello universe</div>
<span class="example" id="span2" data-role="secondary">goodbye rust</span>
</body></html>`

func parse(t *testing.T, markup string) markscrape.Document {
	t.Helper()
	doc, err := goquery.NewParser().Parse(markup)
	require.NoError(t, err)
	return doc
}

func texts(nodes []*markscrape.Node) []string {
	var out []string
	for _, n := range nodes {
		out = append(out, n.Text)
	}
	return out
}

func TestParser_Parse(t *testing.T) {
	t.Parallel()

	t.Run("selects divs with a class", func(t *testing.T) {
		t.Parallel()

		spec := &markscrape.SelectionSpec{
			Tags:  []string{"div"},
			Class: &markscrape.ClassFilter{Classes: []string{"test"}, Mode: markscrape.ModeAnd},
		}

		got := markscrape.Select(parse(t, fiveSiblings), spec)

		assert.Equal(t, []string{"hello world", "goodbye world"}, texts(got))
	})

	t.Run("infers fields in attribute order", func(t *testing.T) {
		t.Parallel()

		spec := &markscrape.SelectionSpec{Tags: []string{"div", "span"}}
		cfg := markscrape.DefaultOutputConfig()
		cfg.IncludeTagContent = true

		schema := markscrape.InferSchema(markscrape.Select(parse(t, fiveSiblings), spec), cfg)

		assert.Equal(t, markscrape.Schema{"tag", "class", "id", "data-role", "text"}, schema)
	})

	t.Run("selects by text in document order", func(t *testing.T) {
		t.Parallel()

		spec := &markscrape.SelectionSpec{
			Tags:        []string{"div", "span"},
			TextInclude: &markscrape.TextFilter{Substrings: []string{"hello"}, Mode: markscrape.ModeOr},
		}

		got := markscrape.Select(parse(t, fiveSiblings), spec)

		require.Len(t, got, 3)
		assert.Equal(t, "div1", *got[0].ID)
		assert.Equal(t, "span1", *got[1].ID)
		assert.Equal(t, "div3", *got[2].ID)
	})

	t.Run("builds an independent node view", func(t *testing.T) {
		t.Parallel()

		doc := parse(t, `<p id="x" class="a b a" data-k="v" hidden>one <b> two </b>
			three</p>`)

		got := markscrape.Select(doc, &markscrape.SelectionSpec{Tags: []string{"p"}})

		require.Len(t, got, 1)
		n := got[0]
		assert.Equal(t, "p", n.Tag)
		require.NotNil(t, n.ID)
		assert.Equal(t, "x", *n.ID)
		assert.Equal(t, []string{"a", "b"}, n.Classes)
		assert.Equal(t, []markscrape.Attribute{{Name: "data-k", Value: "v"}, {Name: "hidden", Value: ""}}, n.Attributes)
		assert.Equal(t, []string{"id", "class", "data-k", "hidden"}, n.Order)
		assert.Equal(t, "one two three", n.Text)
		assert.Contains(t, n.Source, `<p id="x"`)
		assert.Contains(t, n.Source, "<b> two </b>")
	})

	t.Run("treats a valueless attribute as empty in filters", func(t *testing.T) {
		t.Parallel()

		spec := &markscrape.SelectionSpec{
			Tags: []string{"input"},
			AttributesInclude: &markscrape.AttributeFilter{
				Pairs: []markscrape.AttributePair{{Name: "disabled", Value: ""}},
				Mode:  markscrape.ModeAnd,
			},
		}

		got := markscrape.Select(parse(t, `<input name="a" disabled><input name="b">`), spec)

		require.Len(t, got, 1)
		v, ok := got[0].Attr("name")
		assert.True(t, ok)
		assert.Equal(t, "a", v)
	})

	t.Run("visits nested elements in pre-order", func(t *testing.T) {
		t.Parallel()

		doc := parse(t, `<ul><li>a<ul><li>b</li></ul></li><li>c</li></ul>`)

		var tags []string
		for el := range doc.Elements() {
			tags = append(tags, el.TagName())
		}

		assert.Equal(t, []string{"html", "head", "body", "ul", "li", "ul", "li", "li"}, tags)
		got := markscrape.Select(doc, &markscrape.SelectionSpec{Tags: []string{"li"}})
		assert.Equal(t, []string{"a b", "b", "c"}, texts(got))
	})

	t.Run("stops walking when the consumer breaks", func(t *testing.T) {
		t.Parallel()

		doc := parse(t, `<p>1</p><p>2</p><p>3</p>`)

		var seen []string
		for el := range doc.Elements() {
			seen = append(seen, el.TagName())
			if el.TagName() == "p" {
				break
			}
		}

		assert.Equal(t, []string{"html", "head", "body", "p"}, seen)
	})

	t.Run("keeps node views valid after the document is dropped", func(t *testing.T) {
		t.Parallel()

		var nodes []*markscrape.Node
		func() {
			doc := parse(t, `<em class="x">kept</em>`)
			nodes = markscrape.Select(doc, &markscrape.SelectionSpec{Tags: []string{"em"}})
		}()

		require.Len(t, nodes, 1)
		assert.Equal(t, "kept", nodes[0].Text)
		assert.Equal(t, `<em class="x">kept</em>`, nodes[0].Source)
	})
}

func TestParser_Source(t *testing.T) {
	t.Parallel()

	sources := func(t *testing.T, markup string, tags ...string) []string {
		t.Helper()
		var out []string
		for _, n := range markscrape.Select(parse(t, markup), &markscrape.SelectionSpec{Tags: tags}) {
			out = append(out, n.Source)
		}
		return out
	}

	t.Run("keeps quotes and void tags as written", func(t *testing.T) {
		t.Parallel()

		markup := `<div class='test' id='div1'>hello <br> world</div>`

		assert.Equal(t, []string{markup}, sources(t, markup, "div"))
		assert.Equal(t, []string{"<br>"}, sources(t, markup, "br"))
	})

	t.Run("keeps valueless attributes as written", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, []string{`<input name=a disabled>`}, sources(t, `<form><input name=a disabled></form>`, "input"))
	})

	t.Run("ends unclosed list items at the next item", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, []string{"<li>one", "<li>two"}, sources(t, `<ul><li>one<li>two</ul>`, "li"))
	})

	t.Run("ends an open paragraph at a block element", func(t *testing.T) {
		t.Parallel()

		markup := `<p>intro<div>block</div>`

		assert.Equal(t, []string{"<p>intro"}, sources(t, markup, "p"))
		assert.Equal(t, []string{"<div>block</div>"}, sources(t, markup, "div"))
	})

	t.Run("skips elements the parser inserts", func(t *testing.T) {
		t.Parallel()

		markup := `<table><tr><td>a</td></tr></table>`

		assert.Equal(t, []string{"<tr><td>a</td></tr>"}, sources(t, markup, "tr"))
		assert.Equal(t, []string{"<td>a</td>"}, sources(t, markup, "td"))
		assert.Equal(t, []string{"<tbody><tr><td>a</td></tr></tbody>"}, sources(t, markup, "tbody"))
	})

	t.Run("renders from the tree without input markup", func(t *testing.T) {
		t.Parallel()

		raw, err := gq.NewDocumentFromReader(strings.NewReader(`<em class='x'>kept</em>`))
		require.NoError(t, err)

		got := markscrape.Select(goquery.NewDocument(raw), &markscrape.SelectionSpec{Tags: []string{"em"}})

		require.Len(t, got, 1)
		assert.Equal(t, `<em class="x">kept</em>`, got[0].Source)
	})
}
