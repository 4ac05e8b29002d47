package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"i3pin/pkg/journal"
	"i3pin/pkg/statefile"
)

// newStatusCmd creates the "i3pin status" subcommand.
func newStatusCmd() *cobra.Command {
	var tail int

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show persisted records and recent events",
		Long:  "Prints the persisted window records and, when the journal exists,\nthe most recent engine events of the latest run.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			paths, err := ResolvePaths()
			if err != nil {
				return fmt.Errorf("resolve paths: %w", err)
			}
			return printStatus(cmd.Context(), cmd.OutOrStdout(), paths, tail)
		},
	}

	cmd.Flags().IntVar(&tail, "tail", 20, "number of recent journal events to show")
	return cmd
}

// printStatus renders the state file contents and the journal tail to w.
func printStatus(ctx context.Context, w io.Writer, paths *Paths, tail int) error {
	store := statefile.New(paths.StateFilePath)
	records, found, err := store.Load()
	if err != nil {
		return err
	}

	if !found {
		fmt.Fprintf(w, "no state file at %s\n", store.Path())
	} else {
		fmt.Fprintf(w, "%d record(s) in %s\n", len(records), store.Path())
		for _, r := range records {
			ws := r.Workspace
			if ws == "" {
				ws = "-"
			}
			fmt.Fprintf(w, "  [%s] %-40q workspace %s\n", r.Instance, r.Title, ws)
		}
	}

	if _, err := os.Stat(paths.JournalDBPath); err != nil {
		return nil // no journal yet; nothing more to show
	}

	reader, err := journal.NewReader(paths.JournalDBPath)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer reader.Close()

	runID, err := reader.LatestRunID(ctx)
	if err != nil {
		return err
	}
	if runID == "" {
		return nil
	}

	events, err := reader.Events(ctx, journal.QueryOpts{RunID: runID, Limit: tail})
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "\nlast %d event(s) of run %s:\n", len(events), runID)
	// Events come newest first; print oldest first for reading order.
	for i := len(events) - 1; i >= 0; i-- {
		e := events[i]
		fmt.Fprintf(w, "  %s  %-8s window %d  %s\n",
			e.CreatedAt.Format("15:04:05"), e.Kind, e.WindowID, e.Payload)
	}
	return nil
}
