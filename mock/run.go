package mock

import (
	"context"
	"iter"

	"github.com/fwojciec/markscrape"
)

var _ markscrape.RunService = (*RunService)(nil)

// RunService is a mock implementation of markscrape.RunService.
type RunService struct {
	CreateRunFn   func(ctx context.Context, run *markscrape.Run, chunks iter.Seq[string]) error
	FindRunByIDFn func(ctx context.Context, id string) (*markscrape.Run, error)
	FindRunsFn    func(ctx context.Context, filter markscrape.RunFilter) ([]*markscrape.Run, error)
	FindChunksFn  func(ctx context.Context, id string) ([]string, error)
	DeleteRunFn   func(ctx context.Context, id string) error
}

func (s *RunService) CreateRun(ctx context.Context, run *markscrape.Run, chunks iter.Seq[string]) error {
	return s.CreateRunFn(ctx, run, chunks)
}

func (s *RunService) FindRunByID(ctx context.Context, id string) (*markscrape.Run, error) {
	return s.FindRunByIDFn(ctx, id)
}

func (s *RunService) FindRuns(ctx context.Context, filter markscrape.RunFilter) ([]*markscrape.Run, error) {
	return s.FindRunsFn(ctx, filter)
}

func (s *RunService) FindChunks(ctx context.Context, id string) ([]string, error) {
	return s.FindChunksFn(ctx, id)
}

func (s *RunService) DeleteRun(ctx context.Context, id string) error {
	return s.DeleteRunFn(ctx, id)
}
