package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"time"
)

// Event is a single row from the journal.
type Event struct {
	ID        int64
	RunID     string
	WindowID  int64
	Kind      string
	Payload   string
	CreatedAt time.Time
}

// QueryOpts filters a journal query.
type QueryOpts struct {
	// RunID restricts events to one daemon run. Empty means all runs.
	RunID string

	// WindowID restricts events to one window. Zero means all windows.
	WindowID int64

	// Limit restricts the number of results, newest first. Zero means no limit.
	Limit int
}

// Reader provides read-only access to the journal. It opens the database
// with mode=ro so it never blocks or mutates a running daemon's journal.
type Reader struct {
	db *sql.DB
}

// NewReader opens the journal database at path read-only. The file must
// already exist.
func NewReader(path string) (*Reader, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("journal not found: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?mode=ro&_journal_mode=WAL", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping journal: %w", err)
	}
	return &Reader{db: db}, nil
}

// Close releases the database connection. Safe to call multiple times.
func (r *Reader) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Events returns journal rows matching opts, newest first.
func (r *Reader) Events(ctx context.Context, opts QueryOpts) ([]Event, error) {
	query, args := buildQuery(opts)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query journal: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		var createdAt string
		if err := rows.Scan(&e.ID, &e.RunID, &e.WindowID, &e.Kind, &e.Payload, &createdAt); err != nil {
			return nil, fmt.Errorf("scan journal row: %w", err)
		}
		e.CreatedAt = parseTimestamp(createdAt)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate journal rows: %w", err)
	}
	return events, nil
}

// LatestRunID returns the run ID of the most recent event, or "" when the
// journal is empty.
func (r *Reader) LatestRunID(ctx context.Context) (string, error) {
	var runID string
	err := r.db.QueryRowContext(ctx,
		`SELECT run_id FROM events ORDER BY id DESC LIMIT 1`).Scan(&runID)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("query latest run: %w", err)
	}
	return runID, nil
}

// buildQuery assembles the SELECT for the given filters.
func buildQuery(opts QueryOpts) (string, []any) {
	var conds []string
	var args []any

	if opts.RunID != "" {
		conds = append(conds, "run_id = ?")
		args = append(args, opts.RunID)
	}
	if opts.WindowID != 0 {
		conds = append(conds, "window_id = ?")
		args = append(args, opts.WindowID)
	}

	q := `SELECT id, run_id, window_id, kind, payload, created_at FROM events`
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY id DESC"
	if opts.Limit > 0 {
		q += " LIMIT ?"
		args = append(args, opts.Limit)
	}
	return q, args
}

// parseTimestamp decodes SQLite's CURRENT_TIMESTAMP format. A zero time is
// returned for anything unparseable rather than failing the whole query.
func parseTimestamp(s string) time.Time {
	for _, layout := range []string{"2006-01-02 15:04:05", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
