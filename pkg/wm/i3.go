// Package wm adapts i3's IPC interface to the event and command surface the
// reconciliation engine consumes: window event subscription, startup
// enumeration, workspace queries, and the move-back command.
package wm

import (
	"fmt"

	"go.i3wm.org/i3/v4"

	"i3pin/pkg/track"
)

// Client talks to i3 over its IPC socket. The zero value is ready to use;
// the underlying connection is established lazily on first call.
type Client struct{}

// NewClient returns a Client.
func NewClient() *Client {
	return &Client{}
}

// MoveToWorkspace moves the window to the named workspace without
// auto-back-and-forth, so moving to the workspace it is already on is a
// no-op rather than a toggle.
func (c *Client) MoveToWorkspace(id int64, workspace string) error {
	cmd := fmt.Sprintf("[con_id=%d] move --no-auto-back-and-forth container to workspace %s", id, workspace)
	if _, err := i3.RunCommand(cmd); err != nil {
		return fmt.Errorf("run %q: %w", cmd, err)
	}
	return nil
}

// CurrentWorkspace returns the name of the workspace the window is on.
func (c *Client) CurrentWorkspace(id int64) (string, error) {
	tree, err := i3.GetTree()
	if err != nil {
		return "", fmt.Errorf("get tree: %w", err)
	}
	var found string
	var ok bool
	walk(tree.Root, "", func(n *i3.Node, ws string) {
		if int64(n.ID) == id {
			found, ok = ws, true
		}
	})
	if !ok {
		return "", fmt.Errorf("window %d not in tree", id)
	}
	return found, nil
}

// Enumerate returns all currently open windows whose application tag
// matches app, with their identity and workspace. Used to seed the engine
// before any events are processed.
func (c *Client) Enumerate(app string) ([]track.Window, error) {
	tree, err := i3.GetTree()
	if err != nil {
		return nil, fmt.Errorf("get tree: %w", err)
	}
	var windows []track.Window
	walk(tree.Root, "", func(n *i3.Node, ws string) {
		if n.Window == 0 || n.WindowProperties.Class != app {
			return
		}
		windows = append(windows, track.Window{
			ID:        int64(n.ID),
			Instance:  n.WindowProperties.Instance,
			Role:      n.WindowProperties.Role,
			Title:     n.Name,
			Workspace: ws,
		})
	})
	return windows, nil
}

// Run subscribes to window events and delivers them to handle one at a
// time until the subscription ends or handle returns an error. The engine's
// single-writer model rests on this loop: handle runs to completion before
// the next event is read.
func (c *Client) Run(handle func(track.Event) error) error {
	recv := i3.Subscribe(i3.WindowEventType)
	defer recv.Close()

	for recv.Next() {
		wev, ok := recv.Event().(*i3.WindowEvent)
		if !ok {
			continue
		}
		ev, ok := c.translate(wev)
		if !ok {
			continue
		}
		if err := handle(ev); err != nil {
			return err
		}
	}
	if err := recv.Close(); err != nil {
		return fmt.Errorf("window event subscription: %w", err)
	}
	return nil
}

// translate maps an i3 window event onto the engine's event variant.
// Changes the engine has no transition for (focus, fullscreen, urgent, ...)
// are dropped here.
func (c *Client) translate(wev *i3.WindowEvent) (track.Event, bool) {
	con := wev.Container
	ev := track.Event{
		ID:  int64(con.ID),
		App: con.WindowProperties.Class,
	}

	switch wev.Change {
	case "new":
		ev.Kind = track.EventOpen
	case "title":
		ev.Kind = track.EventTitle
		ev.Instance = con.WindowProperties.Instance
		ev.Role = con.WindowProperties.Role
		ev.Title = con.Name
	case "move":
		ev.Kind = track.EventMove
		ws, err := c.CurrentWorkspace(ev.ID)
		if err != nil {
			// Window already gone; the close event is right behind.
			return track.Event{}, false
		}
		ev.Workspace = ws
	case "close":
		ev.Kind = track.EventClose
	default:
		return track.Event{}, false
	}
	return ev, true
}

// walk visits every node depth-first, carrying the name of the enclosing
// workspace.
func walk(n *i3.Node, ws string, visit func(n *i3.Node, ws string)) {
	if n == nil {
		return
	}
	if n.Type == i3.WorkspaceNode {
		ws = n.Name
	}
	visit(n, ws)
	for _, child := range n.Nodes {
		walk(child, ws, visit)
	}
	for _, child := range n.FloatingNodes {
		walk(child, ws, visit)
	}
}
