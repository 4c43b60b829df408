package main

import (
	"fmt"

	"github.com/fwojciec/markscrape"
)

// Run executes the delete command.
func (c *DeleteCmd) Run(deps *Dependencies) error {
	if !c.Force {
		fmt.Fprintf(deps.Stderr, "error: use --force to confirm deletion\n")
		return markscrape.Errorf(markscrape.EINVALID, "use --force to confirm deletion")
	}

	if err := deps.Runs.DeleteRun(deps.Ctx, c.ID); err != nil {
		if markscrape.ErrorCode(err) == markscrape.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "error: run %q not found. Use 'markscrape runs' to see archived runs.\n", c.ID)
			return err
		}
		fmt.Fprintf(deps.Stderr, "error: %s\n", markscrape.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Deleted run %s\n", c.ID)
	return nil
}
