package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"i3pin/pkg/journal"
	"i3pin/pkg/statefile"
	"i3pin/pkg/track"
	"i3pin/pkg/wm"
)

// newRunCmd creates the "i3pin run" subcommand: the long-lived daemon.
func newRunCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the window-pinning daemon",
		Long: `Connects to i3, seeds the engine from the currently open windows of the
tracked application, restores the archive from the state file, and then
processes window events until the IPC connection ends.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := LoadConfig(configPath)
			if err != nil {
				return err
			}
			return runDaemon(cmd, cfg)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to config file (default: $XDG_CONFIG_HOME/i3pin/config.toml)")
	return cmd
}

// runDaemon wires the engine to i3, the state file, and the journal, then
// blocks in the event loop. It returns when the subscription ends or a
// handler fails; a failed persist is fatal by design.
func runDaemon(cmd *cobra.Command, cfg Config) error {
	out := cmd.OutOrStdout()
	steps := newStartupLog(out, isStdoutTTY())

	paths, err := ResolvePaths()
	if err != nil {
		return fmt.Errorf("resolve paths: %w", err)
	}

	client := wm.NewClient()

	// The enumeration doubles as the connection check: if i3 is not
	// reachable this is where the daemon finds out.
	windows, err := client.Enumerate(cfg.App)
	if err != nil {
		return fmt.Errorf("enumerate %s windows: %w", cfg.App, err)
	}
	steps.Step("connected to i3, found %d %s window(s)", len(windows), cfg.App)

	store := statefile.New(paths.StateFilePath)

	var recorder track.Recorder
	if cfg.JournalEnabled() {
		// The journal is observability only; failure to open it must not
		// keep the daemon from pinning windows.
		db, err := openDB(paths.JournalDBPath)
		if err != nil {
			steps.Warn("event journal disabled: %v", err)
		} else {
			writer, err := journal.NewWriter(db)
			if err != nil {
				_ = db.Close()
				steps.Warn("event journal disabled: %v", err)
			} else {
				defer writer.Close()
				recorder = writer
				steps.Step("journal run %s", writer.RunID())
			}
		}
	}

	eng := track.New(track.Config{
		App:     cfg.App,
		WM:      client,
		Persist: store.Save,
		Out:     out,
		Journal: recorder,
	})

	eng.Seed(windows)

	records, found, err := store.Load()
	if err != nil {
		// Malformed history is fatal: silently starting empty would lose
		// every pinned workspace without a trace. Delete the file to reset.
		return err
	}
	if found {
		eng.Restore(records)
		steps.Step("restored %d archived record(s) from %s", len(eng.ArchiveEntries()), store.Path())
	} else {
		steps.Step("no prior history at %s", store.Path())
	}

	steps.Step("watching window events")
	return client.Run(eng.Handle)
}
