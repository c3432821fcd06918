package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/setevik/crashlens/internal/store"
)

// MsgEventsLoaded carries the initial event list from the store.
type MsgEventsLoaded []*store.StoredEvent

// MsgError indicates a load failure.
type MsgError error

func (m Model) loadEvents() tea.Msg {
	events, err := m.db.Events(store.EventFilter{Limit: 500})
	if err != nil {
		return MsgError(err)
	}
	return MsgEventsLoaded(events)
}

// Update handles events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.WindowSize = msg
		m.DetailViewport.Width = msg.Width / 2
		m.DetailViewport.Height = msg.Height - 4
		return m, nil

	case MsgEventsLoaded:
		m.Loading = false
		m.Events = msg
		m.applyFilter()
		return m, nil

	case MsgError:
		m.Err = msg
		m.Loading = false
		return m, nil

	case tea.KeyMsg:
		if m.InputMode {
			switch msg.Type {
			case tea.KeyEnter:
				m.InputMode = false
				m.FilterTerm = m.InputBuffer.Value()
				m.applyFilter()
				return m, nil
			case tea.KeyEsc:
				m.InputMode = false
				m.InputBuffer.Blur()
				m.InputBuffer.SetValue("")
				m.FilterTerm = ""
				m.applyFilter()
				return m, nil
			}
			m.InputBuffer, cmd = m.InputBuffer.Update(msg)
			return m, cmd
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "esc":
			if m.FilterTerm != "" {
				m.FilterTerm = ""
				m.InputBuffer.SetValue("")
				m.applyFilter()
			}
			return m, nil
		case "/":
			m.InputMode = true
			m.InputBuffer.Focus()
			return m, nil
		case "up", "k":
			if m.SelectedIdx > 0 {
				m.SelectedIdx--
			}
			return m, nil
		case "down", "j":
			if m.SelectedIdx < len(m.FilteredIndices)-1 {
				m.SelectedIdx++
			}
			return m, nil
		case "g":
			m.SelectedIdx = 0
			return m, nil
		case "G":
			if n := len(m.FilteredIndices); n > 0 {
				m.SelectedIdx = n - 1
			}
			return m, nil
		case "r":
			m.Loading = true
			return m, m.loadEvents
		}
	}

	m.DetailViewport, cmd = m.DetailViewport.Update(msg)
	return m, cmd
}

// applyFilter recomputes FilteredIndices from the current filter term and
// clamps the selection.
func (m *Model) applyFilter() {
	m.FilteredIndices = m.FilteredIndices[:0]
	term := strings.ToLower(m.FilterTerm)

	for i, ev := range m.Events {
		if term == "" || strings.Contains(strings.ToLower(ev.Command), term) {
			m.FilteredIndices = append(m.FilteredIndices, i)
		}
	}

	if m.SelectedIdx >= len(m.FilteredIndices) {
		m.SelectedIdx = len(m.FilteredIndices) - 1
	}
	if m.SelectedIdx < 0 {
		m.SelectedIdx = 0
	}
}
