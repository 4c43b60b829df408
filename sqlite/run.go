package sqlite

import (
	"context"
	"fmt"
	"iter"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/markscrape"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ markscrape.RunService = (*RunService)(nil)

// RunService implements markscrape.RunService using SQLite.
type RunService struct {
	db *DB
}

// NewRunService creates a new RunService.
func NewRunService(db *DB) *RunService {
	return &RunService{db: db}
}

// Checksum returns the hex xxHash of the concatenated chunks. Identical
// output sequences have identical checksums.
func Checksum(chunks iter.Seq[string]) string {
	h := xxhash.New()
	for c := range chunks {
		_, _ = h.WriteString(c)
	}
	return sum(h)
}

func sum(h *xxhash.Digest) string {
	return fmt.Sprintf("%016x", h.Sum64())
}

// CreateRun stores run and its chunks in one transaction.
func (s *RunService) CreateRun(ctx context.Context, run *markscrape.Run, chunks iter.Seq[string]) error {
	if err := run.Validate(); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	id := uuid.New().String()
	createdAt := time.Now().UTC()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO runs (id, source, format, records, bytes, checksum, created_at)
		VALUES (?, ?, ?, ?, 0, '', ?)
	`, id, run.Source, string(run.Format), run.Records, formatTime(createdAt)); err != nil {
		return err
	}

	h := xxhash.New()
	var bytes, position int
	for chunk := range chunks {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO chunks (run_id, position, content) VALUES (?, ?, ?)
		`, id, position, chunk); err != nil {
			return err
		}
		_, _ = h.WriteString(chunk)
		bytes += len(chunk)
		position++
	}
	checksum := sum(h)

	if _, err := tx.ExecContext(ctx, `
		UPDATE runs SET bytes = ?, checksum = ? WHERE id = ?
	`, bytes, checksum, id); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	run.ID = id
	run.Bytes = bytes
	run.Checksum = checksum
	run.CreatedAt = createdAt
	return nil
}

// FindRunByID retrieves a run by ID.
func (s *RunService) FindRunByID(ctx context.Context, id string) (*markscrape.Run, error) {
	runs, err := s.FindRuns(ctx, markscrape.RunFilter{ID: &id, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, markscrape.Errorf(markscrape.ENOTFOUND, "run not found")
	}
	return runs[0], nil
}

// FindRuns retrieves runs matching the filter, newest first.
func (s *RunService) FindRuns(ctx context.Context, filter markscrape.RunFilter) ([]*markscrape.Run, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, source, format, records, bytes, checksum, created_at FROM runs WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.Source != nil {
		query.WriteString(" AND source = ?")
		args = append(args, *filter.Source)
	}
	if filter.Format != nil {
		query.WriteString(" AND format = ?")
		args = append(args, string(*filter.Format))
	}

	query.WriteString(" ORDER BY created_at DESC, rowid DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*markscrape.Run
	for rows.Next() {
		var run markscrape.Run
		var format, createdAt string

		if err := rows.Scan(&run.ID, &run.Source, &format, &run.Records, &run.Bytes,
			&run.Checksum, &createdAt); err != nil {
			return nil, err
		}
		run.Format = markscrape.Format(format)

		if run.CreatedAt, err = parseTime(createdAt, "created_at"); err != nil {
			return nil, err
		}
		runs = append(runs, &run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return runs, nil
}

// FindChunks returns the stored chunks of a run in emission order.
func (s *RunService) FindChunks(ctx context.Context, id string) ([]string, error) {
	if _, err := s.FindRunByID(ctx, id); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT content FROM chunks WHERE run_id = ? ORDER BY position ASC
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chunks []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		chunks = append(chunks, c)
	}
	return chunks, rows.Err()
}

// DeleteRun removes a run; its chunks are removed by cascade.
func (s *RunService) DeleteRun(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM runs WHERE id = ?", id)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return markscrape.Errorf(markscrape.ENOTFOUND, "run not found")
	}
	return nil
}
