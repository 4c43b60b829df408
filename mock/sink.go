package mock

import (
	"context"
	"iter"

	"github.com/fwojciec/markscrape"
)

var _ markscrape.Sink = (*Sink)(nil)

// Sink is a mock implementation of markscrape.Sink.
type Sink struct {
	WriteFn func(ctx context.Context, chunks iter.Seq[string]) error
}

func (s *Sink) Write(ctx context.Context, chunks iter.Seq[string]) error {
	return s.WriteFn(ctx, chunks)
}
