package track

import "testing"

func TestArchiveAppendClearsID(t *testing.T) {
	t.Parallel()

	var a Archive
	a.Append(Window{ID: 42, Instance: "browser", Role: "browser", Title: "Inbox", Workspace: "3"})

	got := a.Entries()
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	if got[0].ID != 0 {
		t.Fatalf("archived record must not keep a container ID, got %d", got[0].ID)
	}
}

func TestArchiveConsumeRemovesOldestMatch(t *testing.T) {
	t.Parallel()

	var a Archive
	a.Append(Window{Instance: "browser", Role: "browser", Title: "Inbox", Workspace: "1"})
	a.Append(Window{Instance: "browser", Role: "browser", Title: "Inbox", Workspace: "2"})
	a.Append(Window{Instance: "browser", Role: "browser", Title: "Other", Workspace: "5"})

	hit, ok := a.Consume("browser", "browser", "Inbox")
	if !ok {
		t.Fatal("expected a match")
	}
	if hit.Workspace != "1" {
		t.Fatalf("consumed workspace = %q, want oldest entry %q", hit.Workspace, "1")
	}
	if a.Len() != 2 {
		t.Fatalf("len after consume = %d, want 2", a.Len())
	}

	// Same triple again: next-oldest entry.
	hit, ok = a.Consume("browser", "browser", "Inbox")
	if !ok || hit.Workspace != "2" {
		t.Fatalf("second consume = %+v ok=%v, want workspace 2", hit, ok)
	}

	if _, ok := a.Consume("browser", "browser", "Inbox"); ok {
		t.Fatal("consumed entries must not match again")
	}
}

func TestArchiveConsumeRequiresFullTriple(t *testing.T) {
	t.Parallel()

	var a Archive
	a.Append(Window{Instance: "browser", Role: "browser", Title: "Inbox", Workspace: "1"})

	if _, ok := a.Consume("browser", "pop-up", "Inbox"); ok {
		t.Fatal("role mismatch must not match")
	}
	if _, ok := a.Consume("browser", "browser", "inbox"); ok {
		t.Fatal("titles compare case-sensitively")
	}
	if a.Len() != 1 {
		t.Fatalf("failed consume must not remove anything, len = %d", a.Len())
	}
}

func TestArchiveEntriesReturnsCopy(t *testing.T) {
	t.Parallel()

	var a Archive
	a.Append(Window{Instance: "browser", Role: "browser", Title: "Inbox", Workspace: "1"})

	got := a.Entries()
	got[0].Workspace = "mutated"

	if a.Entries()[0].Workspace != "1" {
		t.Fatal("Entries must return a copy, not the backing slice")
	}
}
