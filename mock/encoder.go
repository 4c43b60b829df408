package mock

import "github.com/fwojciec/markscrape"

var _ markscrape.Encoder = (*Encoder)(nil)

// Encoder is a mock implementation of markscrape.Encoder.
type Encoder struct {
	PreambleFn func(schema markscrape.Schema) (string, bool)
	RecordFn   func(schema markscrape.Schema, node *markscrape.Node, pos markscrape.Position) (string, error)
	ClosingFn  func(schema markscrape.Schema, emitted int) (string, bool)
}

func (e *Encoder) Preamble(schema markscrape.Schema) (string, bool) {
	return e.PreambleFn(schema)
}

func (e *Encoder) Record(schema markscrape.Schema, node *markscrape.Node, pos markscrape.Position) (string, error) {
	return e.RecordFn(schema, node, pos)
}

func (e *Encoder) Closing(schema markscrape.Schema, emitted int) (string, bool) {
	return e.ClosingFn(schema, emitted)
}
