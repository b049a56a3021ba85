package tui

import (
	"coursehost/internal/model"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// LoadFunc gathers the sources to display. It runs off the UI goroutine.
type LoadFunc func() ([]model.Source, error)

// AppModel holds the TUI state.
type AppModel struct {
	// Data
	Sources  []model.Source
	Warnings []string // Non-fatal problems from loading (e.g. unresolved resource dir)
	Loading  bool
	Err      error
	load     LoadFunc

	// UI State
	SourceIdx   int // Which report is shown
	SelectedIdx int // Index into FilteredIndices
	WindowSize  tea.WindowSizeMsg

	// Filter State
	InputMode       bool
	InputBuffer     textinput.Model
	FilteredIndices []int // Indices of Entries of the current source to show
	FilterActive    bool

	// Components
	DetailsViewport viewport.Model
}

// InitialModel returns the initial state.
func InitialModel(load LoadFunc) AppModel {
	ti := textinput.New()
	ti.Placeholder = "File name..."
	ti.CharLimit = 50
	ti.Width = 20

	return AppModel{
		Loading:         true,
		load:            load,
		InputBuffer:     ti,
		DetailsViewport: viewport.New(40, 10),
	}
}

// Init starts loading the reports.
func (m AppModel) Init() tea.Cmd {
	return LoadCmd(m.load)
}

// Current returns the source being shown, if any.
func (m AppModel) Current() (model.Source, bool) {
	if m.SourceIdx < 0 || m.SourceIdx >= len(m.Sources) {
		return model.Source{}, false
	}
	return m.Sources[m.SourceIdx], true
}
