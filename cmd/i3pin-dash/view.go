package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View implements tea.Model.
func (m Model) View() string {
	theme := DefaultTheme()

	titleStyle := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(theme.Muted)
	errStyle := lipgloss.NewStyle().Foreground(theme.Error)
	kindStyle := lipgloss.NewStyle().Foreground(theme.Success).Width(9)

	var b strings.Builder

	b.WriteString(titleStyle.Render("i3pin"))
	b.WriteString(mutedStyle.Render(fmt.Sprintf("  %d record(s)  %s", m.count, m.statePath)))
	b.WriteString("\n\n")

	b.WriteString(m.records.View())
	b.WriteString("\n\n")

	b.WriteString(titleStyle.Render("recent events"))
	b.WriteString("\n")
	if len(m.events) == 0 {
		b.WriteString(mutedStyle.Render("  (no journal events)"))
		b.WriteString("\n")
	}
	for _, e := range m.events {
		b.WriteString(fmt.Sprintf("  %s %s window %d  %s\n",
			mutedStyle.Render(e.CreatedAt.Format("15:04:05")),
			kindStyle.Render(e.Kind),
			e.WindowID,
			e.Payload))
	}

	if m.lastErr != nil {
		b.WriteString("\n")
		b.WriteString(errStyle.Render(fmt.Sprintf("error: %v", m.lastErr)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("q: quit  ↑/↓: scroll records"))
	return b.String()
}
