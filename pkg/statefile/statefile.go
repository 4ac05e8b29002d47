// Package statefile persists window records as a JSON array on disk. Writes
// are atomic: the file is rewritten in full through a temp file in the same
// directory and renamed over the canonical path, so a reader never observes
// a partial write.
package statefile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"i3pin/pkg/track"
)

// FileName is the canonical state file name under the state directory.
const FileName = "i3pin.json"

// DefaultDir returns the state directory: $XDG_STATE_HOME when set and
// non-empty, otherwise ~/.local/state.
func DefaultDir() (string, error) {
	if v := os.Getenv("XDG_STATE_HOME"); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".local", "state"), nil
}

// DefaultPath returns the canonical state file path under DefaultDir.
func DefaultPath() (string, error) {
	dir, err := DefaultDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName), nil
}

// record is the wire form of one entry. Workspace is a pointer so a window
// with no workspace encodes as null rather than "".
type record struct {
	Instance  string  `json:"instance"`
	Role      string  `json:"role"`
	Title     string  `json:"title"`
	Workspace *string `json:"workspace"`
}

// Serialize encodes records in their given order. The output is
// deterministic: the same records always yield byte-identical JSON.
func Serialize(records []track.Window) ([]byte, error) {
	out := make([]record, 0, len(records))
	for _, w := range records {
		r := record{Instance: w.Instance, Role: w.Role, Title: w.Title}
		if w.Workspace != "" {
			ws := w.Workspace
			r.Workspace = &ws
		}
		out = append(out, r)
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal state: %w", err)
	}
	return data, nil
}

// Deserialize decodes a serialized state file. Records come back with no
// container ID; only identity and workspace survive a round trip.
func Deserialize(data []byte) ([]track.Window, error) {
	var in []record
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("unmarshal state: %w", err)
	}
	out := make([]track.Window, 0, len(in))
	for _, r := range in {
		w := track.Window{Instance: r.Instance, Role: r.Role, Title: r.Title}
		if r.Workspace != nil {
			w.Workspace = *r.Workspace
		}
		out = append(out, w)
	}
	return out, nil
}

// Store reads and writes the state file at a fixed path.
type Store struct {
	path string
}

// New creates a Store for the given state file path.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the canonical state file path.
func (s *Store) Path() string {
	return s.path
}

// Save serializes records and atomically replaces the state file. The
// parent directory is created if missing. On any failure the canonical file
// is left untouched and the temp file is removed.
func (s *Store) Save(records []track.Window) error {
	data, err := Serialize(records)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create state dir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "i3pin*.json")
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write temp state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close temp state file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}

// Load reads and decodes the state file. A missing file is no prior
// history, not an error: Load returns (nil, false, nil). Malformed content
// is an error; the caller decides whether that is fatal.
func (s *Store) Load() ([]track.Window, bool, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read state file %s: %w", s.path, err)
	}
	records, err := Deserialize(data)
	if err != nil {
		return nil, true, err
	}
	return records, true, nil
}
