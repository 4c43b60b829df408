package main

import (
	"fmt"
	"time"

	"github.com/fwojciec/markscrape"
)

// Run executes the runs command.
func (c *RunsCmd) Run(deps *Dependencies) error {
	filter := markscrape.RunFilter{Limit: c.Limit}
	if c.Source != "" {
		filter.Source = &c.Source
	}
	if c.Format != "" {
		f, err := markscrape.ParseFormat(c.Format)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", markscrape.ErrorMessage(err))
			return err
		}
		filter.Format = &f
	}

	runs, err := deps.Runs.FindRuns(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", markscrape.ErrorMessage(err))
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(deps.Stdout, "No runs found. Use 'markscrape extract --archive' to record one.")
		return nil
	}

	for _, r := range runs {
		fmt.Fprintf(deps.Stdout, "%s  %s  %-5s  %d records  %d bytes  %s\n",
			r.ID, r.CreatedAt.Local().Format(time.DateTime), r.Format, r.Records, r.Bytes, r.Source)
	}
	return nil
}
