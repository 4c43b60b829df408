package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/markscrape"
)

// Ensure LoggingParser implements markscrape.Parser.
var _ markscrape.Parser = (*LoggingParser)(nil)

// LoggingParser wraps a Parser with logging.
type LoggingParser struct {
	next   markscrape.Parser
	logger *slog.Logger
}

// NewLoggingParser creates a new LoggingParser.
func NewLoggingParser(next markscrape.Parser, logger *slog.Logger) *LoggingParser {
	return &LoggingParser{next: next, logger: logger}
}

// Parse delegates to the wrapped parser and logs the operation.
func (p *LoggingParser) Parse(markup string) (doc markscrape.Document, err error) {
	defer func(begin time.Time) {
		p.logger.Info("parse",
			"bytes", len(markup),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return p.next.Parse(markup)
}
