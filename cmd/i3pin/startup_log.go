package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// startupLog prints step-by-step startup progress. On a TTY each completed
// step gets a checkmark; piped output stays plain so logs grep cleanly.
type startupLog struct {
	w     io.Writer
	isTTY bool
}

// newStartupLog creates a startup logger that writes to w.
func newStartupLog(w io.Writer, isTTY bool) *startupLog {
	return &startupLog{w: w, isTTY: isTTY}
}

// Step prints a completed startup step.
func (s *startupLog) Step(format string, args ...any) {
	if s.isTTY {
		fmt.Fprintf(s.w, "✓ "+format+"\n", args...)
		return
	}
	fmt.Fprintf(s.w, format+"\n", args...)
}

// Warn prints a non-fatal startup problem.
func (s *startupLog) Warn(format string, args ...any) {
	fmt.Fprintf(s.w, "warning: "+format+"\n", args...)
}

// isStdoutTTY reports whether stdout is an interactive terminal.
func isStdoutTTY() bool {
	return isatty.IsTerminal(os.Stdout.Fd())
}
