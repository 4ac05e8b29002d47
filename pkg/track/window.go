// Package track implements the window reconciliation engine — the core of
// i3pin. It classifies windows of the tracked application as unknown (seen
// but not yet identified), active (identified and followed), or archived
// (closed), and matches a reopening window against the archive so it can be
// moved back to the workspace where its predecessor last lived.
package track

// Window is one record of a tracked window. Live records (unknown or active)
// carry the window manager's container ID; archived records never do.
type Window struct {
	ID        int64  // container ID; zero once archived
	Instance  string // WM_CLASS instance, fixed at creation
	Role      string // WM_WINDOW_ROLE, fixed at creation
	Title     string // current title; the only mutable identity component
	Workspace string // workspace name; empty when not yet known
}

// SameIdentity reports whether w and o share the (instance, role, title)
// triple used to match a reopening window against the archive.
func (w Window) SameIdentity(o Window) bool {
	return w.Instance == o.Instance && w.Role == o.Role && w.Title == o.Title
}
