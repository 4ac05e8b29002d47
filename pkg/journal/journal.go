// Package journal records engine decisions in a SQLite database next to the
// state file. The journal is observability only: the JSON state file remains
// the sole source of truth for restoring the archive, and journal failures
// are never allowed to stall window pinning.
package journal

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver
)

// SchemaDDL creates the events table. Idempotent.
const SchemaDDL = `
CREATE TABLE IF NOT EXISTS events (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id     TEXT NOT NULL,
	window_id  INTEGER NOT NULL,
	kind       TEXT NOT NULL,
	payload    TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_events_run ON events(run_id, id);
`

// Writer appends engine events to the journal. Every daemon run gets a
// fresh run ID so events from different runs can be told apart.
type Writer struct {
	db    *sql.DB
	runID string
}

// NewWriter applies the schema and returns a Writer with a new run ID.
func NewWriter(db *sql.DB) (*Writer, error) {
	if _, err := db.ExecContext(context.Background(), SchemaDDL); err != nil {
		return nil, fmt.Errorf("apply journal schema: %w", err)
	}
	return &Writer{db: db, runID: uuid.New().String()}, nil
}

// RunID returns this run's identifier.
func (w *Writer) RunID() string {
	return w.runID
}

// Record appends one event. Best-effort: errors are dropped, since a full
// disk or locked database must not take down the engine.
func (w *Writer) Record(kind string, windowID int64, payload string) {
	_, _ = w.db.ExecContext(context.Background(),
		`INSERT INTO events (run_id, window_id, kind, payload) VALUES (?, ?, ?, ?)`,
		w.runID, windowID, kind, payload)
}

// Close releases the underlying database connection.
func (w *Writer) Close() error {
	return w.db.Close()
}
