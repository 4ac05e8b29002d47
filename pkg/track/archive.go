package track

// Archive holds the records of closed windows that have not yet been matched
// to a reopening window, oldest close first. Order matters: when several
// entries share an identity triple, the oldest one wins the match.
type Archive struct {
	entries []Window
}

// Append adds the record of a closed window to the end of the archive.
// The container ID is cleared; archived records never refer to a live window.
func (a *Archive) Append(w Window) {
	w.ID = 0
	a.entries = append(a.entries, w)
}

// Consume removes and returns the oldest entry matching the identity triple.
// An entry satisfies at most one reopening; once returned it is gone.
func (a *Archive) Consume(instance, role, title string) (Window, bool) {
	probe := Window{Instance: instance, Role: role, Title: title}
	for i, e := range a.entries {
		if e.SameIdentity(probe) {
			a.entries = append(a.entries[:i], a.entries[i+1:]...)
			return e, true
		}
	}
	return Window{}, false
}

// Entries returns a copy of the archive, oldest first.
func (a *Archive) Entries() []Window {
	out := make([]Window, len(a.entries))
	copy(out, a.entries)
	return out
}

// Len returns the number of archived records.
func (a *Archive) Len() int {
	return len(a.entries)
}

// replace swaps in a restored entry list. Used only by Engine.Restore.
func (a *Archive) replace(entries []Window) {
	a.entries = make([]Window, len(entries))
	copy(a.entries, entries)
	for i := range a.entries {
		a.entries[i].ID = 0
	}
}
