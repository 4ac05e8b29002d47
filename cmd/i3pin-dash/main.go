// Package main implements the i3pin-dash interactive dashboard: a terminal
// view of the persisted window records and the engine's event stream.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"i3pin/pkg/statefile"
)

// resolveStatePath mirrors the daemon's state file resolution so both
// binaries always look at the same file.
func resolveStatePath() (string, error) {
	if v := os.Getenv("I3PIN_STATE_PATH"); v != "" {
		return v, nil
	}
	return statefile.DefaultPath()
}

// resolveJournalPath mirrors the daemon's journal path resolution.
func resolveJournalPath() (string, error) {
	if v := os.Getenv("I3PIN_DB_PATH"); v != "" {
		return v, nil
	}
	dir, err := statefile.DefaultDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "i3pin.db"), nil
}

func main() {
	statePath, err := resolveStatePath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "i3pin-dash: %v\n", err)
		os.Exit(1)
	}
	journalPath, err := resolveJournalPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "i3pin-dash: %v\n", err)
		os.Exit(1)
	}

	p := tea.NewProgram(newModel(statePath, journalPath), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running dashboard: %v\n", err)
		os.Exit(1)
	}
}
