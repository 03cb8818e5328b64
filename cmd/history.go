package main

import (
	"context"

	"github.com/desertthunder/tracksheet/internal/formatter"
	"github.com/urfave/cli/v3"
)

// History lists recorded runs, newest first.
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	runs, err := r.history()
	if err != nil {
		return err
	}

	recent, err := runs.Recent(cmd.Int("limit"))
	if err != nil {
		return err
	}

	if len(recent) == 0 {
		return r.writePlain("No runs recorded yet.\n")
	}

	return formatter.WriteHistory(r.output, recent, r.location)
}
