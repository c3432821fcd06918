package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/setevik/crashlens/internal/store"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#5F5FD7")).
			Padding(0, 1)

	selectedItemStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("229")).
				Background(lipgloss.Color("57"))

	unselectedItemStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("250"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	detailStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("63"))

	severityStyles = map[string]lipgloss.Style{
		"CRITICAL": lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		"HIGH":     lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
		"MEDIUM":   lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		"LOW":      lipgloss.NewStyle().Foreground(lipgloss.Color("114")),
		"UNKNOWN":  lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	}
)

func (m Model) View() string {
	if m.Loading {
		return "\n  Loading crash history...\n"
	}
	if m.Err != nil {
		return fmt.Sprintf("\n  Error: %v\n", m.Err)
	}
	if len(m.Events) == 0 {
		return "\n  No stored crash events. Run `crashlens analyze --save` first.\n\n  q to quit\n"
	}

	width := m.WindowSize.Width
	if width < 40 {
		width = 80
	}
	listWidth := width / 2

	var left strings.Builder
	left.WriteString(titleStyle.Render("Crash events"))
	left.WriteString("\n\n")

	visible := m.visibleRange()
	for _, idx := range visible {
		ev := m.Events[m.FilteredIndices[idx]]
		line := eventLine(ev, listWidth-4)
		if idx == m.SelectedIdx {
			left.WriteString(selectedItemStyle.Render("> " + line))
		} else {
			left.WriteString(unselectedItemStyle.Render("  " + line))
		}
		left.WriteString("\n")
	}

	right := detailStyle.Width(width - listWidth - 4).Render(m.detailView())

	body := lipgloss.JoinHorizontal(lipgloss.Top, left.String(), right)

	footer := dimStyle.Render("  j/k move · / filter · r reload · q quit")
	if m.InputMode {
		footer = "  Filter: " + m.InputBuffer.View()
	} else if m.FilterTerm != "" {
		footer = dimStyle.Render(fmt.Sprintf("  filter: %q (%d/%d) · esc clears",
			m.FilterTerm, len(m.FilteredIndices), len(m.Events)))
	}

	return body + "\n" + footer + "\n"
}

// visibleRange windows the filtered list around the selection so long
// histories stay scrollable.
func (m Model) visibleRange() []int {
	height := m.WindowSize.Height - 6
	if height < 5 {
		height = 20
	}

	n := len(m.FilteredIndices)
	start := 0
	if m.SelectedIdx >= height {
		start = m.SelectedIdx - height + 1
	}
	end := start + height
	if end > n {
		end = n
	}

	indices := make([]int, 0, end-start)
	for i := start; i < end; i++ {
		indices = append(indices, i)
	}
	return indices
}

func (m Model) detailView() string {
	if len(m.FilteredIndices) == 0 {
		return "No events match the filter."
	}

	ev := m.Events[m.FilteredIndices[m.SelectedIdx]]
	info := m.table.Lookup(ev.Signal)

	sevStyle, ok := severityStyles[string(info.Severity)]
	if !ok {
		sevStyle = dimStyle
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n\n", info.Name, sevStyle.Render(string(info.Severity)))
	fmt.Fprintf(&b, "Command:  %s\n", ev.Command)
	fmt.Fprintf(&b, "PID:      %d\n", ev.PID)
	fmt.Fprintf(&b, "Time:     %s\n", eventTime(ev))
	fmt.Fprintf(&b, "\n%s\n", info.Description)

	if len(info.CommonCauses) > 0 {
		b.WriteString("\nCommon causes:\n")
		for _, c := range info.CommonCauses {
			fmt.Fprintf(&b, "  - %s\n", c)
		}
	}

	if ev.RawText != "" {
		b.WriteString("\nRaw record:\n")
		b.WriteString(dimStyle.Render(ev.RawText))
		b.WriteString("\n")
	}

	return b.String()
}

func eventLine(ev *store.StoredEvent, maxWidth int) string {
	line := fmt.Sprintf("%s  %-14s sig %d", eventTime(ev), ev.Command, ev.Signal)
	if maxWidth > 10 && len(line) > maxWidth {
		line = line[:maxWidth-1] + "…"
	}
	return line
}

func eventTime(ev *store.StoredEvent) string {
	if ev.Timestamp == nil {
		return "unknown time     "
	}
	return ev.Timestamp.Local().Format("2006-01-02 15:04")
}
