package mock

import "github.com/fwojciec/markscrape"

var _ markscrape.Parser = (*Parser)(nil)

// Parser is a mock implementation of markscrape.Parser.
type Parser struct {
	ParseFn func(markup string) (markscrape.Document, error)
}

func (p *Parser) Parse(markup string) (markscrape.Document, error) {
	return p.ParseFn(markup)
}
