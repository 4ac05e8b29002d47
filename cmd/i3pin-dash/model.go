package main

import (
	"context"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"i3pin/pkg/journal"
	"i3pin/pkg/statefile"
	"i3pin/pkg/track"
)

// tickMsg is sent by Bubble Tea on every tick interval.
// Used to trigger periodic refresh from the state file and journal.
type tickMsg time.Time

// stateMsg carries records freshly loaded from the state file.
type stateMsg struct {
	records []track.Window
	err     error
}

// eventsMsg carries recent events from the journal.
// nil events with nil err means no journal exists yet.
type eventsMsg struct {
	events []journal.Event
	err    error
}

// tickCmd returns a command that sends a tickMsg after 2 seconds.
func tickCmd() tea.Cmd {
	return tea.Tick(2*time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// loadStateCmd reads the state file.
func loadStateCmd(path string) tea.Cmd {
	return func() tea.Msg {
		records, _, err := statefile.New(path).Load()
		return stateMsg{records: records, err: err}
	}
}

// loadEventsCmd reads the latest run's recent events from the journal.
func loadEventsCmd(path string) tea.Cmd {
	return func() tea.Msg {
		if _, err := os.Stat(path); err != nil {
			return eventsMsg{}
		}
		reader, err := journal.NewReader(path)
		if err != nil {
			return eventsMsg{err: err}
		}
		defer reader.Close()

		ctx := context.Background()
		runID, err := reader.LatestRunID(ctx)
		if err != nil || runID == "" {
			return eventsMsg{err: err}
		}
		events, err := reader.Events(ctx, journal.QueryOpts{RunID: runID, Limit: 15})
		return eventsMsg{events: events, err: err}
	}
}

// Model is the Bubble Tea model for the i3pin dashboard.
type Model struct {
	statePath   string
	journalPath string

	records table.Model
	count   int
	events  []journal.Event
	lastErr error

	width  int
	height int
}

// newModel creates a Model with an empty records table.
func newModel(statePath, journalPath string) Model {
	t := table.New(
		table.WithColumns(recordColumns(80)),
		table.WithFocused(true),
		table.WithHeight(12),
	)
	t.SetStyles(tableStyles())

	return Model{
		statePath:   statePath,
		journalPath: journalPath,
		records:     t,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		loadStateCmd(m.statePath),
		loadEventsCmd(m.journalPath),
		tickCmd(),
		watchStateDir(m.statePath),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.records.SetColumns(recordColumns(msg.Width))
		return m, nil

	case tickMsg:
		return m, tea.Batch(
			loadStateCmd(m.statePath),
			loadEventsCmd(m.journalPath),
			tickCmd(),
		)

	case fsChangeMsg:
		// State file rewritten; refresh immediately and re-arm the watcher.
		return m, tea.Batch(
			loadStateCmd(m.statePath),
			loadEventsCmd(m.journalPath),
			watchStateDir(m.statePath),
		)

	case stateMsg:
		m.lastErr = msg.err
		if msg.err == nil {
			m.count = len(msg.records)
			m.records.SetRows(recordRows(msg.records))
		}
		return m, nil

	case eventsMsg:
		if msg.err == nil {
			m.events = msg.events
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.records, cmd = m.records.Update(msg)
	return m, cmd
}

// recordColumns sizes the table columns for the given terminal width.
func recordColumns(width int) []table.Column {
	titleWidth := width - 34
	if titleWidth < 20 {
		titleWidth = 20
	}
	return []table.Column{
		{Title: "Instance", Width: 14},
		{Title: "Title", Width: titleWidth},
		{Title: "Workspace", Width: 12},
	}
}

// recordRows converts persisted records to table rows.
func recordRows(records []track.Window) []table.Row {
	rows := make([]table.Row, 0, len(records))
	for _, r := range records {
		ws := r.Workspace
		if ws == "" {
			ws = "-"
		}
		rows = append(rows, table.Row{r.Instance, r.Title, ws})
	}
	return rows
}
