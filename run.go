package markscrape

import (
	"context"
	"iter"
	"time"
)

// Run records one archived extraction: where the markup came from, how it
// was encoded and a checksum of the emitted chunks.
type Run struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	Format    Format    `json:"format"`
	Records   int       `json:"records"`
	Bytes     int       `json:"bytes"`
	Checksum  string    `json:"checksum"`
	CreatedAt time.Time `json:"createdAt"`
}

// Validate returns an error if the run contains invalid fields.
func (r *Run) Validate() error {
	if r.Source == "" {
		return Errorf(EINVALID, "run source required")
	}
	if _, err := ParseFormat(string(r.Format)); err != nil {
		return err
	}
	return nil
}

// RunService archives extraction runs and their output.
type RunService interface {
	// CreateRun stores run together with its chunks. ID, Bytes, Checksum
	// and CreatedAt are set by the service.
	CreateRun(ctx context.Context, run *Run, chunks iter.Seq[string]) error

	// FindRunByID retrieves a run by ID.
	// Returns ENOTFOUND if the run does not exist.
	FindRunByID(ctx context.Context, id string) (*Run, error)

	// FindRuns retrieves runs matching the filter, newest first.
	FindRuns(ctx context.Context, filter RunFilter) ([]*Run, error)

	// FindChunks returns the stored chunks of a run in emission order.
	// Returns ENOTFOUND if the run does not exist.
	FindChunks(ctx context.Context, id string) ([]string, error)

	// DeleteRun removes a run and its chunks.
	// Returns ENOTFOUND if the run does not exist.
	DeleteRun(ctx context.Context, id string) error
}

// RunFilter represents a filter for FindRuns.
type RunFilter struct {
	ID     *string `json:"id"`
	Source *string `json:"source"`
	Format *Format `json:"format"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
