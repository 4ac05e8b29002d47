package track

import (
	"fmt"
	"io"
)

// EventKind identifies one of the four window notifications the engine
// consumes.
type EventKind int

// Window notification kinds, in lifecycle order.
const (
	EventOpen  EventKind = iota // window created, identity not yet known
	EventTitle                  // title (and thus full identity) available or changed
	EventMove                   // window moved to another workspace by any means
	EventClose                  // window closed
)

// String returns the journal/log name of the event kind.
func (k EventKind) String() string {
	switch k {
	case EventOpen:
		return "open"
	case EventTitle:
		return "title"
	case EventMove:
		return "move"
	case EventClose:
		return "close"
	default:
		return "unknown"
	}
}

// Event is a single window notification delivered by the event adapter.
// App carries the application tag of the window the event is about; events
// for applications other than the tracked one are ignored wholesale.
type Event struct {
	Kind EventKind
	ID   int64
	App  string

	// Identity fields, set on EventTitle.
	Instance string
	Role     string
	Title    string

	// Current workspace, set on EventMove.
	Workspace string
}

// WM is the slice of the window manager the engine drives: issuing the
// move-back command and re-querying where a window actually is. The move is
// fire-and-forget; the engine never waits for it to take effect.
type WM interface {
	// MoveToWorkspace moves the window to the named workspace. Moving a
	// window to the workspace it is already on must be a no-op, not a
	// toggle back to the previous workspace.
	MoveToWorkspace(id int64, workspace string) error

	// CurrentWorkspace returns the name of the workspace the window is on
	// right now.
	CurrentWorkspace(id int64) (string, error)
}

// Recorder receives a copy of every engine decision for observability.
// Implementations must be best-effort: a Recorder that can fail must
// swallow its own errors rather than stall the engine.
type Recorder interface {
	Record(kind string, windowID int64, payload string)
}

// PersistFunc writes a snapshot of the engine's state to stable storage.
// It is called synchronously after every state mutation; an error aborts
// event handling and is fatal to the run.
type PersistFunc func(records []Window) error

// Config wires an Engine to its collaborators.
type Config struct {
	App     string      // application tag to track, e.g. "firefox"
	WM      WM          // move command + workspace queries
	Persist PersistFunc // nil disables persistence (tests)
	Out     io.Writer   // transition log; nil discards
	Journal Recorder    // optional event journal; nil disables
}

// Engine is the single-writer reconciliation state machine. It owns the
// unknown set, the active table, and the archive; nothing else mutates them.
// Events must be delivered one at a time: a handler runs to completion,
// including its synchronous persist, before the next event is processed.
type Engine struct {
	app     string
	wm      WM
	persist PersistFunc
	out     io.Writer
	journal Recorder

	unknown map[int64]struct{}
	active  map[int64]*Window
	order   []int64 // active table insertion order, for serialization
	archive Archive
}

// New creates an Engine with empty state.
func New(cfg Config) *Engine {
	out := cfg.Out
	if out == nil {
		out = io.Discard
	}
	return &Engine{
		app:     cfg.App,
		wm:      cfg.WM,
		persist: cfg.Persist,
		out:     out,
		journal: cfg.Journal,
		unknown: make(map[int64]struct{}),
		active:  make(map[int64]*Window),
	}
}

// Seed inserts already-open windows directly as active, bypassing the
// unknown state. Used at startup when attaching to a running session, where
// identity and workspace are already knowable. Seed must run before Restore.
func (e *Engine) Seed(windows []Window) {
	for _, w := range windows {
		e.active[w.ID] = &w
		e.order = append(e.order, w.ID)
		fmt.Fprintf(e.out, "seeded active %d %q on %s\n", w.ID, w.Title, w.Workspace)
	}
}

// Restore populates the archive from previously persisted records. It is a
// no-op when any active windows exist, so a stale on-disk snapshot can never
// overwrite live state on a warm start.
func (e *Engine) Restore(records []Window) {
	if len(e.active) > 0 {
		return
	}
	e.archive.replace(records)
}

// Snapshot returns all records in serialization order: archived entries
// oldest first, then active windows in insertion order.
func (e *Engine) Snapshot() []Window {
	out := e.archive.Entries()
	for _, id := range e.order {
		out = append(out, *e.active[id])
	}
	return out
}

// ActiveWindow returns the active record for id, if any.
func (e *Engine) ActiveWindow(id int64) (Window, bool) {
	w, ok := e.active[id]
	if !ok {
		return Window{}, false
	}
	return *w, true
}

// IsUnknown reports whether id is in the unknown set.
func (e *Engine) IsUnknown(id int64) bool {
	_, ok := e.unknown[id]
	return ok
}

// ArchiveEntries returns a copy of the current archive, oldest first.
func (e *Engine) ArchiveEntries() []Window {
	return e.archive.Entries()
}

// Handle dispatches one event through the state machine. Events for other
// applications are ignored with no state change. Any returned error comes
// from persisting the mutated state and is fatal to the run.
func (e *Engine) Handle(ev Event) error {
	if ev.App != e.app {
		return nil
	}
	switch ev.Kind {
	case EventOpen:
		return e.onOpen(ev)
	case EventTitle:
		return e.onTitle(ev)
	case EventMove:
		return e.onMove(ev)
	case EventClose:
		return e.onClose(ev)
	default:
		return nil
	}
}

// onOpen registers a newly created window as unknown. Its identity arrives
// later with the first title event; until then it cannot be matched.
func (e *Engine) onOpen(ev Event) error {
	if _, ok := e.active[ev.ID]; ok {
		return nil
	}
	e.unknown[ev.ID] = struct{}{}
	fmt.Fprintf(e.out, "new unknown %d\n", ev.ID)
	e.record("open", ev.ID, "")
	return e.flush()
}

// onTitle handles identity becoming known or changing. For an unknown
// window this is the matching point: the archive is scanned front-to-back
// for the first entry with the same identity triple, and on a hit the
// window is moved to that entry's workspace and the entry is consumed.
// Either way the window is promoted to active with its actual workspace,
// re-queried after any move since the move may not complete synchronously.
func (e *Engine) onTitle(ev Event) error {
	if _, ok := e.unknown[ev.ID]; ok {
		if hit, ok := e.archive.Consume(ev.Instance, ev.Role, ev.Title); ok {
			fmt.Fprintf(e.out, "title %q last seen on %s, moving %d\n", ev.Title, hit.Workspace, ev.ID)
			e.record("match", ev.ID, hit.Workspace)
			if err := e.wm.MoveToWorkspace(ev.ID, hit.Workspace); err != nil {
				// Fire-and-forget: a failed move loses the pin, not the run.
				fmt.Fprintf(e.out, "move %d to %s failed: %v\n", ev.ID, hit.Workspace, err)
			}
		}
		delete(e.unknown, ev.ID)

		ws, err := e.wm.CurrentWorkspace(ev.ID)
		if err != nil {
			return fmt.Errorf("query workspace of %d: %w", ev.ID, err)
		}
		e.active[ev.ID] = &Window{
			ID:        ev.ID,
			Instance:  ev.Instance,
			Role:      ev.Role,
			Title:     ev.Title,
			Workspace: ws,
		}
		e.order = append(e.order, ev.ID)
		fmt.Fprintf(e.out, "new active %d %q on %s\n", ev.ID, ev.Title, ws)
		e.record("identify", ev.ID, ev.Title)
		return e.flush()
	}

	if w, ok := e.active[ev.ID]; ok {
		fmt.Fprintf(e.out, "renamed active %d %q to %q\n", ev.ID, w.Title, ev.Title)
		w.Title = ev.Title
		e.record("rename", ev.ID, ev.Title)
		return e.flush()
	}

	return nil
}

// onMove records a workspace change for an active window. Unknown windows
// are ignored: no workspace is recorded until identity is known.
func (e *Engine) onMove(ev Event) error {
	if _, ok := e.unknown[ev.ID]; ok {
		fmt.Fprintf(e.out, "moved unknown %d\n", ev.ID)
		return nil
	}
	if w, ok := e.active[ev.ID]; ok {
		w.Workspace = ev.Workspace
		fmt.Fprintf(e.out, "moved active %d to %s\n", ev.ID, ev.Workspace)
		e.record("move", ev.ID, ev.Workspace)
		return e.flush()
	}
	return nil
}

// onClose discards an unknown window outright (nothing identifiable to
// archive) or archives an active one with its final title and workspace.
func (e *Engine) onClose(ev Event) error {
	if _, ok := e.unknown[ev.ID]; ok {
		delete(e.unknown, ev.ID)
		fmt.Fprintf(e.out, "closed unknown %d\n", ev.ID)
		e.record("discard", ev.ID, "")
		return e.flush()
	}
	if w, ok := e.active[ev.ID]; ok {
		delete(e.active, ev.ID)
		for i, id := range e.order {
			if id == ev.ID {
				e.order = append(e.order[:i], e.order[i+1:]...)
				break
			}
		}
		fmt.Fprintf(e.out, "closed active %d %q from %s\n", ev.ID, w.Title, w.Workspace)
		e.archive.Append(*w)
		e.record("close", ev.ID, w.Workspace)
		return e.flush()
	}
	return nil
}

// flush persists the current snapshot. Called after every mutation, even
// content-neutral ones like the open event; the write is not debounced.
func (e *Engine) flush() error {
	if e.persist == nil {
		return nil
	}
	if err := e.persist(e.Snapshot()); err != nil {
		return fmt.Errorf("persist state: %w", err)
	}
	return nil
}

func (e *Engine) record(kind string, id int64, payload string) {
	if e.journal != nil {
		e.journal.Record(kind, id, payload)
	}
}
