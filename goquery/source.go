package goquery

import (
	"slices"
	"strings"

	"golang.org/x/net/html"
)

// span is the byte range of one element in the input markup, from the
// first byte of its start tag to the last byte of its end tag.
type span struct {
	name       string
	start, end int
}

var voidElements = map[string]bool{
	"area": true, "base": true, "basefont": true, "bgsound": true, "br": true,
	"col": true, "embed": true, "frame": true, "hr": true, "img": true,
	"input": true, "keygen": true, "link": true, "meta": true, "param": true,
	"source": true, "track": true, "wbr": true,
}

// closedBy lists, per start tag, the open elements it closes implicitly.
var closedBy = map[string][]string{
	"li":       {"li"},
	"dt":       {"dt", "dd"},
	"dd":       {"dt", "dd"},
	"option":   {"option"},
	"optgroup": {"option", "optgroup"},
	"tr":       {"tr", "td", "th"},
	"td":       {"td", "th"},
	"th":       {"td", "th"},
	"thead":    {"thead", "tbody", "tfoot", "tr", "td", "th"},
	"tbody":    {"thead", "tbody", "tfoot", "tr", "td", "th"},
	"tfoot":    {"thead", "tbody", "tfoot", "tr", "td", "th"},
}

// closesP lists the start tags that close an open paragraph.
var closesP = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"center": true, "details": true, "dialog": true, "dir": true, "div": true,
	"dl": true, "fieldset": true, "figcaption": true, "figure": true,
	"footer": true, "form": true, "h1": true, "h2": true, "h3": true,
	"h4": true, "h5": true, "h6": true, "header": true, "hgroup": true,
	"hr": true, "listing": true, "main": true, "menu": true, "nav": true,
	"ol": true, "p": true, "pre": true, "search": true, "section": true,
	"summary": true, "table": true, "ul": true, "xmp": true,
}

// scopeBoundaries stop the search for an element to close implicitly.
var scopeBoundaries = map[string]bool{
	"html": true, "body": true, "table": true, "tr": true, "tbody": true,
	"thead": true, "tfoot": true, "td": true, "th": true, "caption": true,
	"template": true, "button": true, "object": true, "applet": true,
	"marquee": true, "ul": true, "ol": true, "dl": true, "select": true,
}

// impliedElements may be created by the parser without a start tag.
var impliedElements = map[string]bool{
	"html": true, "head": true, "body": true, "tbody": true, "colgroup": true,
}

// scanSpans tokenizes markup and returns the span of every start tag in
// document order. An element without an end tag ends where the tag that
// implicitly closes it starts, or at the end of the input.
func scanSpans(markup string) []span {
	z := html.NewTokenizer(strings.NewReader(markup))

	var (
		spans []span
		open  []int // indexes into spans, outermost first
		pos   int
	)
	closeFrom := func(i, end int) {
		for _, idx := range open[i:] {
			spans[idx].end = end
		}
		open = open[:i]
	}

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}
		start := pos
		pos += len(z.Raw())

		switch tt {
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if i := implicitlyClosed(spans, open, tag); i >= 0 {
				closeFrom(i, start)
			}
			spans = append(spans, span{name: tag, start: start, end: pos})
			if voidElements[tag] || (tt == html.SelfClosingTagToken && inForeign(spans, open)) {
				continue
			}
			open = append(open, len(spans)-1)

		case html.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			for i := len(open) - 1; i >= 0; i-- {
				if idx := open[i]; spans[idx].name == tag {
					closeFrom(i, start)
					spans[idx].end = pos
					break
				}
			}
		}
	}
	closeFrom(0, len(markup))
	return spans
}

// implicitlyClosed returns the position in open of the outermost element
// that a start tag named tag closes, or -1.
func implicitlyClosed(spans []span, open []int, tag string) int {
	var candidates []string
	if closesP[tag] {
		candidates = append(candidates, "p")
	}
	candidates = append(candidates, closedBy[tag]...)
	if len(candidates) == 0 {
		return -1
	}

	found := -1
	for i := len(open) - 1; i >= 0; i-- {
		name := spans[open[i]].name
		if slices.Contains(candidates, name) {
			found = i
			continue
		}
		if scopeBoundaries[name] {
			break
		}
	}
	return found
}

func inForeign(spans []span, open []int) bool {
	for _, idx := range open {
		if n := spans[idx].name; n == "svg" || n == "math" {
			return true
		}
	}
	return false
}

// sourceMap pairs the element nodes under root with their spans in markup
// and returns each element's source text. Elements the parser created or
// moved without a matching start tag are left out.
func sourceMap(root *html.Node, markup string) map[*html.Node]string {
	spans := scanSpans(markup)
	sources := make(map[*html.Node]string)
	cursor := 0

	walk(root, func(n *html.Node) bool {
		match := -1
		switch {
		case cursor < len(spans) && strings.EqualFold(spans[cursor].name, n.Data):
			match = cursor
		case impliedElements[n.Data]:
		default:
			for j := cursor + 1; j < len(spans); j++ {
				if strings.EqualFold(spans[j].name, n.Data) {
					match = j
					break
				}
			}
		}
		if match >= 0 {
			s := spans[match]
			sources[n] = markup[s.start:s.end]
			cursor = match + 1
		}
		return true
	})
	return sources
}
