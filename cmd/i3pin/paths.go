package main

import (
	"os"
	"path/filepath"

	"i3pin/pkg/statefile"
)

// Paths holds all resolved i3pin file paths.
// Use ResolvePaths() to populate this struct with defaults + env overrides.
type Paths struct {
	StateDir      string // $XDG_STATE_HOME or ~/.local/state
	StateFilePath string // i3pin.json or I3PIN_STATE_PATH
	JournalDBPath string // i3pin.db or I3PIN_DB_PATH
}

// ResolvePaths returns all i3pin paths, respecting env var overrides.
// Environment variables:
//   - XDG_STATE_HOME: base state directory (default: ~/.local/state)
//   - I3PIN_STATE_PATH: state file (default: $XDG_STATE_HOME/i3pin.json)
//   - I3PIN_DB_PATH: event journal database (default: $XDG_STATE_HOME/i3pin.db)
func ResolvePaths() (*Paths, error) {
	stateDir, err := statefile.DefaultDir()
	if err != nil {
		return nil, err
	}

	return &Paths{
		StateDir:      stateDir,
		StateFilePath: resolvePathWithEnv("I3PIN_STATE_PATH", stateDir, statefile.FileName),
		JournalDBPath: resolvePathWithEnv("I3PIN_DB_PATH", stateDir, "i3pin.db"),
	}, nil
}

// resolvePathWithEnv returns the path from envKey if set, otherwise joins base + suffix.
func resolvePathWithEnv(envKey, base, suffix string) string {
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	return filepath.Join(base, suffix)
}
