package track

import (
	"errors"
	"fmt"
	"testing"
)

// fakeWM records move commands and answers workspace queries with a fixed
// name, standing in for the i3 adapter.
type fakeWM struct {
	moves     []string
	workspace string
	wsErr     error
	moveErr   error
}

func (f *fakeWM) MoveToWorkspace(id int64, workspace string) error {
	f.moves = append(f.moves, fmt.Sprintf("%d->%s", id, workspace))
	return f.moveErr
}

func (f *fakeWM) CurrentWorkspace(id int64) (string, error) {
	return f.workspace, f.wsErr
}

// countingPersist counts persist calls and remembers the last snapshot.
type countingPersist struct {
	calls int
	last  []Window
	err   error
}

func (p *countingPersist) persist(records []Window) error {
	p.calls++
	p.last = records
	return p.err
}

func newTestEngine(t *testing.T, wm *fakeWM, p *countingPersist) *Engine {
	t.Helper()
	return New(Config{App: "firefox", WM: wm, Persist: p.persist})
}

func TestReopenMatchesArchiveAndConsumesEntry(t *testing.T) {
	t.Parallel()

	wm := &fakeWM{workspace: "3"}
	p := &countingPersist{}
	e := newTestEngine(t, wm, p)
	e.Restore([]Window{{Instance: "browser", Role: "browser", Title: "Inbox", Workspace: "3"}})

	if err := e.Handle(Event{Kind: EventOpen, ID: 42, App: "firefox"}); err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := e.Handle(Event{Kind: EventTitle, ID: 42, App: "firefox",
		Instance: "browser", Role: "browser", Title: "Inbox"}); err != nil {
		t.Fatalf("title: %v", err)
	}

	if len(wm.moves) != 1 || wm.moves[0] != "42->3" {
		t.Fatalf("expected exactly one move to workspace 3, got %v", wm.moves)
	}
	if got := e.ArchiveEntries(); len(got) != 0 {
		t.Fatalf("archive entry must be consumed on match, still have %v", got)
	}
	w, ok := e.ActiveWindow(42)
	if !ok {
		t.Fatal("window 42 must be active after identity event")
	}
	if w.Workspace != "3" {
		t.Fatalf("active workspace = %q, want %q", w.Workspace, "3")
	}
	if e.IsUnknown(42) {
		t.Fatal("window 42 must leave the unknown set")
	}
}

func TestReopenTieBreakPrefersOldestEntry(t *testing.T) {
	t.Parallel()

	wm := &fakeWM{workspace: "1"}
	p := &countingPersist{}
	e := newTestEngine(t, wm, p)
	e.Restore([]Window{
		{Instance: "browser", Role: "browser", Title: "Inbox", Workspace: "1"},
		{Instance: "browser", Role: "browser", Title: "Inbox", Workspace: "2"},
	})

	mustHandle(t, e, Event{Kind: EventOpen, ID: 7, App: "firefox"})
	mustHandle(t, e, Event{Kind: EventTitle, ID: 7, App: "firefox",
		Instance: "browser", Role: "browser", Title: "Inbox"})

	if len(wm.moves) != 1 || wm.moves[0] != "7->1" {
		t.Fatalf("tie-break must pick the oldest entry (workspace 1), got %v", wm.moves)
	}
	rest := e.ArchiveEntries()
	if len(rest) != 1 || rest[0].Workspace != "2" {
		t.Fatalf("only the matched entry may be consumed, archive = %v", rest)
	}
}

func TestReopenWithoutMatchStillActivates(t *testing.T) {
	t.Parallel()

	wm := &fakeWM{workspace: "5"}
	p := &countingPersist{}
	e := newTestEngine(t, wm, p)

	mustHandle(t, e, Event{Kind: EventOpen, ID: 9, App: "firefox"})
	mustHandle(t, e, Event{Kind: EventTitle, ID: 9, App: "firefox",
		Instance: "browser", Role: "browser", Title: "Fresh"})

	if len(wm.moves) != 0 {
		t.Fatalf("no archive entry, no move command, got %v", wm.moves)
	}
	w, ok := e.ActiveWindow(9)
	if !ok || w.Workspace != "5" {
		t.Fatalf("window must become active with its actual workspace, got %+v ok=%v", w, ok)
	}
}

func TestUnknownDiscardedOnClose(t *testing.T) {
	t.Parallel()

	wm := &fakeWM{}
	p := &countingPersist{}
	e := newTestEngine(t, wm, p)
	e.Restore([]Window{{Instance: "browser", Role: "browser", Title: "Old", Workspace: "4"}})

	mustHandle(t, e, Event{Kind: EventOpen, ID: 7, App: "firefox"})
	mustHandle(t, e, Event{Kind: EventClose, ID: 7, App: "firefox"})

	if e.IsUnknown(7) {
		t.Fatal("closed unknown window must be removed")
	}
	if got := e.ArchiveEntries(); len(got) != 1 || got[0].Title != "Old" {
		t.Fatalf("unidentified window leaves no archive trace, archive = %v", got)
	}
}

func TestActiveCloseArchivesFinalState(t *testing.T) {
	t.Parallel()

	wm := &fakeWM{workspace: "2"}
	p := &countingPersist{}
	e := newTestEngine(t, wm, p)

	mustHandle(t, e, Event{Kind: EventOpen, ID: 3, App: "firefox"})
	mustHandle(t, e, Event{Kind: EventTitle, ID: 3, App: "firefox",
		Instance: "browser", Role: "browser", Title: "X"})
	mustHandle(t, e, Event{Kind: EventClose, ID: 3, App: "firefox"})

	if _, ok := e.ActiveWindow(3); ok {
		t.Fatal("closed window must leave the active table")
	}
	got := e.ArchiveEntries()
	if len(got) != 1 {
		t.Fatalf("close of an active window must archive it, archive = %v", got)
	}
	entry := got[0]
	if entry.ID != 0 {
		t.Fatalf("archived record must not carry a container ID, got %d", entry.ID)
	}
	if entry.Title != "X" || entry.Workspace != "2" {
		t.Fatalf("archive must carry final title and workspace, got %+v", entry)
	}
}

func TestMoveUpdatesWorkspaceOnly(t *testing.T) {
	t.Parallel()

	wm := &fakeWM{workspace: "1"}
	p := &countingPersist{}
	e := newTestEngine(t, wm, p)

	mustHandle(t, e, Event{Kind: EventOpen, ID: 3, App: "firefox"})
	mustHandle(t, e, Event{Kind: EventTitle, ID: 3, App: "firefox",
		Instance: "browser", Role: "pop-up", Title: "Settings"})
	mustHandle(t, e, Event{Kind: EventMove, ID: 3, App: "firefox", Workspace: "9"})

	w, _ := e.ActiveWindow(3)
	if w.Workspace != "9" {
		t.Fatalf("workspace = %q, want %q", w.Workspace, "9")
	}
	if w.Instance != "browser" || w.Role != "pop-up" || w.Title != "Settings" {
		t.Fatalf("move must not touch identity fields, got %+v", w)
	}
}

func TestMoveOfUnknownWindowIsIgnored(t *testing.T) {
	t.Parallel()

	wm := &fakeWM{}
	p := &countingPersist{}
	e := newTestEngine(t, wm, p)

	mustHandle(t, e, Event{Kind: EventOpen, ID: 4, App: "firefox"})
	before := p.calls
	mustHandle(t, e, Event{Kind: EventMove, ID: 4, App: "firefox", Workspace: "2"})

	if p.calls != before {
		t.Fatal("moving an unknown window must not persist; no workspace is recorded yet")
	}
}

func TestRenameOfActiveWindowUpdatesTitle(t *testing.T) {
	t.Parallel()

	wm := &fakeWM{workspace: "1"}
	p := &countingPersist{}
	e := newTestEngine(t, wm, p)

	mustHandle(t, e, Event{Kind: EventOpen, ID: 5, App: "firefox"})
	mustHandle(t, e, Event{Kind: EventTitle, ID: 5, App: "firefox",
		Instance: "browser", Role: "browser", Title: "Old Title"})
	mustHandle(t, e, Event{Kind: EventTitle, ID: 5, App: "firefox",
		Instance: "browser", Role: "browser", Title: "New Title"})

	w, _ := e.ActiveWindow(5)
	if w.Title != "New Title" {
		t.Fatalf("title = %q, want %q", w.Title, "New Title")
	}
	if len(wm.moves) != 0 {
		t.Fatalf("rename of an active window must not issue moves, got %v", wm.moves)
	}
}

func TestOtherApplicationsAreIgnored(t *testing.T) {
	t.Parallel()

	wm := &fakeWM{}
	p := &countingPersist{}
	e := newTestEngine(t, wm, p)

	mustHandle(t, e, Event{Kind: EventOpen, ID: 8, App: "kitty"})
	mustHandle(t, e, Event{Kind: EventTitle, ID: 8, App: "kitty",
		Instance: "kitty", Role: "", Title: "~"})
	mustHandle(t, e, Event{Kind: EventClose, ID: 8, App: "kitty"})

	if p.calls != 0 {
		t.Fatalf("events for other applications must cause no state change, persisted %d times", p.calls)
	}
	if e.IsUnknown(8) {
		t.Fatal("foreign window must not enter the unknown set")
	}
}

func TestEventForAbsentWindowIsNoOp(t *testing.T) {
	t.Parallel()

	wm := &fakeWM{}
	p := &countingPersist{}
	e := newTestEngine(t, wm, p)

	mustHandle(t, e, Event{Kind: EventTitle, ID: 77, App: "firefox",
		Instance: "browser", Role: "browser", Title: "Ghost"})
	mustHandle(t, e, Event{Kind: EventMove, ID: 77, App: "firefox", Workspace: "2"})
	mustHandle(t, e, Event{Kind: EventClose, ID: 77, App: "firefox"})

	if p.calls != 0 {
		t.Fatalf("events for an absent window must be no-ops, persisted %d times", p.calls)
	}
}

// Persistence is intentionally not debounced: every handled event of the
// tracked application writes the file, including the content-neutral open
// event. This test pins that behavior.
func TestEveryMutationPersists(t *testing.T) {
	t.Parallel()

	wm := &fakeWM{workspace: "1"}
	p := &countingPersist{}
	e := newTestEngine(t, wm, p)

	mustHandle(t, e, Event{Kind: EventOpen, ID: 1, App: "firefox"})
	if p.calls != 1 {
		t.Fatalf("open must persist even though content is unchanged, calls = %d", p.calls)
	}
	mustHandle(t, e, Event{Kind: EventTitle, ID: 1, App: "firefox",
		Instance: "browser", Role: "browser", Title: "A"})
	mustHandle(t, e, Event{Kind: EventMove, ID: 1, App: "firefox", Workspace: "2"})
	mustHandle(t, e, Event{Kind: EventClose, ID: 1, App: "firefox"})

	if p.calls != 4 {
		t.Fatalf("expected one persist per handled event, got %d", p.calls)
	}
}

func TestPersistFailureIsFatal(t *testing.T) {
	t.Parallel()

	wm := &fakeWM{}
	p := &countingPersist{err: errors.New("disk full")}
	e := newTestEngine(t, wm, p)

	if err := e.Handle(Event{Kind: EventOpen, ID: 1, App: "firefox"}); err == nil {
		t.Fatal("persist failure must propagate out of the handler")
	}
}

func TestRestoreIsNoOpWithActiveWindows(t *testing.T) {
	t.Parallel()

	wm := &fakeWM{}
	p := &countingPersist{}
	e := newTestEngine(t, wm, p)
	e.Seed([]Window{{ID: 10, Instance: "browser", Role: "browser", Title: "Live", Workspace: "1"}})

	e.Restore([]Window{{Instance: "browser", Role: "browser", Title: "Stale", Workspace: "9"}})

	if got := e.ArchiveEntries(); len(got) != 0 {
		t.Fatalf("restore with live windows must not touch the archive, got %v", got)
	}
}

func TestSeedBypassesUnknown(t *testing.T) {
	t.Parallel()

	wm := &fakeWM{}
	p := &countingPersist{}
	e := newTestEngine(t, wm, p)
	e.Seed([]Window{{ID: 11, Instance: "browser", Role: "browser", Title: "Warm", Workspace: "6"}})

	if e.IsUnknown(11) {
		t.Fatal("seeded windows go straight to active")
	}
	w, ok := e.ActiveWindow(11)
	if !ok || w.Workspace != "6" {
		t.Fatalf("seeded window must be active with its workspace, got %+v ok=%v", w, ok)
	}
}

func TestSnapshotOrdersArchiveThenActive(t *testing.T) {
	t.Parallel()

	wm := &fakeWM{workspace: "1"}
	p := &countingPersist{}
	e := newTestEngine(t, wm, p)
	e.Restore([]Window{{Instance: "browser", Role: "browser", Title: "Closed", Workspace: "4"}})

	mustHandle(t, e, Event{Kind: EventOpen, ID: 1, App: "firefox"})
	mustHandle(t, e, Event{Kind: EventTitle, ID: 1, App: "firefox",
		Instance: "browser", Role: "browser", Title: "First"})
	mustHandle(t, e, Event{Kind: EventOpen, ID: 2, App: "firefox"})
	mustHandle(t, e, Event{Kind: EventTitle, ID: 2, App: "firefox",
		Instance: "browser", Role: "browser", Title: "Second"})

	snap := e.Snapshot()
	titles := make([]string, 0, len(snap))
	for _, w := range snap {
		titles = append(titles, w.Title)
	}
	want := []string{"Closed", "First", "Second"}
	for i := range want {
		if titles[i] != want[i] {
			t.Fatalf("snapshot order = %v, want %v", titles, want)
		}
	}
}

func mustHandle(t *testing.T, e *Engine, ev Event) {
	t.Helper()
	if err := e.Handle(ev); err != nil {
		t.Fatalf("handle %v: %v", ev.Kind, err)
	}
}
