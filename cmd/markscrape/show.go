package main

import (
	"fmt"
	"slices"

	"github.com/fwojciec/markscrape"
	"github.com/fwojciec/markscrape/fs"
	"github.com/fwojciec/markscrape/sqlite"
)

// Run executes the show command.
func (c *ShowCmd) Run(deps *Dependencies) error {
	run, err := deps.Runs.FindRunByID(deps.Ctx, c.ID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", markscrape.ErrorMessage(err))
		return err
	}

	chunks, err := deps.Runs.FindChunks(deps.Ctx, run.ID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", markscrape.ErrorMessage(err))
		return err
	}

	if c.Verify {
		if sum := sqlite.Checksum(slices.Values(chunks)); sum != run.Checksum {
			fmt.Fprintf(deps.Stderr, "error: checksum mismatch: stored %s, computed %s\n", run.Checksum, sum)
			return markscrape.Errorf(markscrape.ECONFLICT, "checksum mismatch for run %s", run.ID)
		}
	}

	out := slices.Values(chunks)
	if run.Format == markscrape.FormatPlain {
		out = lines(out)
	}
	if err := fs.NewWriterSink(deps.Stdout).Write(deps.Ctx, out); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", markscrape.ErrorMessage(err))
		return err
	}
	return nil
}
