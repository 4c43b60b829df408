package slog

import (
	"context"
	"iter"
	"log/slog"
	"time"

	"github.com/fwojciec/markscrape"
)

// Ensure LoggingSink implements markscrape.Sink.
var _ markscrape.Sink = (*LoggingSink)(nil)

// LoggingSink wraps a Sink with logging.
type LoggingSink struct {
	next   markscrape.Sink
	name   string
	logger *slog.Logger
}

// NewLoggingSink creates a new LoggingSink. name identifies the
// destination in log lines.
func NewLoggingSink(next markscrape.Sink, name string, logger *slog.Logger) *LoggingSink {
	return &LoggingSink{next: next, name: name, logger: logger}
}

// Write counts the chunks passing through and delegates to the wrapped sink.
func (s *LoggingSink) Write(ctx context.Context, chunks iter.Seq[string]) (err error) {
	var n, bytes int
	defer func(begin time.Time) {
		s.logger.Info("write",
			"sink", s.name,
			"chunks", n,
			"bytes", bytes,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())

	counted := func(yield func(string) bool) {
		for c := range chunks {
			n++
			bytes += len(c)
			if !yield(c) {
				return
			}
		}
	}
	return s.next.Write(ctx, counted)
}
