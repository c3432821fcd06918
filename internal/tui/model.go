// Package tui implements the interactive stored-event browser.
package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/setevik/crashlens/internal/classifier"
	"github.com/setevik/crashlens/internal/store"
)

// Model holds the browser state: a filterable event list on the left and a
// detail pane for the selected event on the right.
type Model struct {
	db    *store.DB
	table *classifier.Table

	Events  []*store.StoredEvent
	Loading bool
	Err     error

	SelectedIdx     int
	WindowSize      tea.WindowSizeMsg
	FilteredIndices []int

	InputMode   bool
	InputBuffer textinput.Model
	FilterTerm  string

	DetailViewport viewport.Model
}

// New returns the initial browser model. Events load asynchronously via Init.
func New(db *store.DB, table *classifier.Table) Model {
	ti := textinput.New()
	ti.Placeholder = "Command name..."
	ti.CharLimit = 50
	ti.Width = 20

	return Model{
		db:          db,
		table:       table,
		Loading:     true,
		InputBuffer: ti,
	}
}

// Init kicks off the initial event load.
func (m Model) Init() tea.Cmd {
	return m.loadEvents
}

// Run starts the browser over the given store.
func Run(db *store.DB, table *classifier.Table) error {
	p := tea.NewProgram(New(db, table), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
