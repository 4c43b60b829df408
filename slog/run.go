package slog

import (
	"context"
	"iter"
	"log/slog"
	"time"

	"github.com/fwojciec/markscrape"
)

// Ensure LoggingRunService implements markscrape.RunService.
var _ markscrape.RunService = (*LoggingRunService)(nil)

// LoggingRunService wraps a RunService with logging.
type LoggingRunService struct {
	next   markscrape.RunService
	logger *slog.Logger
}

// NewLoggingRunService creates a new LoggingRunService.
func NewLoggingRunService(next markscrape.RunService, logger *slog.Logger) *LoggingRunService {
	return &LoggingRunService{next: next, logger: logger}
}

// CreateRun delegates to the wrapped service and logs the stored run.
func (s *LoggingRunService) CreateRun(ctx context.Context, run *markscrape.Run, chunks iter.Seq[string]) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("archive run",
			"id", run.ID,
			"source", run.Source,
			"records", run.Records,
			"bytes", run.Bytes,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.CreateRun(ctx, run, chunks)
}

// FindRunByID delegates to the wrapped service.
func (s *LoggingRunService) FindRunByID(ctx context.Context, id string) (*markscrape.Run, error) {
	return s.next.FindRunByID(ctx, id)
}

// FindRuns delegates to the wrapped service.
func (s *LoggingRunService) FindRuns(ctx context.Context, filter markscrape.RunFilter) ([]*markscrape.Run, error) {
	return s.next.FindRuns(ctx, filter)
}

// FindChunks delegates to the wrapped service.
func (s *LoggingRunService) FindChunks(ctx context.Context, id string) ([]string, error) {
	return s.next.FindChunks(ctx, id)
}

// DeleteRun delegates to the wrapped service and logs the operation.
func (s *LoggingRunService) DeleteRun(ctx context.Context, id string) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("delete run",
			"id", id,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.DeleteRun(ctx, id)
}
