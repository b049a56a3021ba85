package tui

import (
	"path/filepath"
	"strings"

	"coursehost/internal/model"

	tea "github.com/charmbracelet/bubbletea"
)

// MsgSourcesReady indicates that inspection has completed.
type MsgSourcesReady struct {
	Sources []model.Source
	Warning error // Set when some location could not be resolved
}

// MsgError indicates an error occurred.
type MsgError error

const previewLines = 200

// Update handles events.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.WindowSize = msg
		m.DetailsViewport.Width = msg.Width / 2
		m.DetailsViewport.Height = msg.Height - 4 // minus footer/header
		m.refreshDetails()
		return m, nil

	case MsgSourcesReady:
		m.Loading = false
		m.Sources = msg.Sources
		if msg.Warning != nil {
			m.Warnings = append(m.Warnings, msg.Warning.Error())
		}
		m.SourceIdx = 0
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
				m.InputBuffer.Blur()
				m.applyFilter()
				return m, nil
			case tea.KeyEsc:
				m.clearFilter()
				return m, nil
			}
			m.InputBuffer, cmd = m.InputBuffer.Update(msg)
			m.applyFilter()
			return m, cmd
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "esc":
			if m.FilterActive {
				m.clearFilter()
			}
		case "tab":
			if len(m.Sources) > 0 {
				m.SourceIdx = (m.SourceIdx + 1) % len(m.Sources)
				m.SelectedIdx = 0
				m.applyFilter()
			}
		case "up", "k":
			if m.SelectedIdx > 0 {
				m.SelectedIdx--
				m.refreshDetails()
			}
		case "down", "j":
			if m.SelectedIdx < len(m.FilteredIndices)-1 {
				m.SelectedIdx++
				m.refreshDetails()
			}
		case "pgup", "pgdown":
			m.DetailsViewport, cmd = m.DetailsViewport.Update(msg)
			return m, cmd
		case "/":
			m.InputMode = true
			m.InputBuffer.SetValue("")
			cmd = m.InputBuffer.Focus()
			return m, cmd
		}
	}

	return m, cmd
}

func (m *AppModel) clearFilter() {
	m.InputMode = false
	m.InputBuffer.Blur()
	m.InputBuffer.SetValue("")
	m.applyFilter()
}

// applyFilter recomputes FilteredIndices from the filter text.
func (m *AppModel) applyFilter() {
	src, ok := m.Current()
	m.FilteredIndices = nil
	term := strings.ToLower(m.InputBuffer.Value())
	m.FilterActive = term != ""
	if ok {
		for i, e := range src.Report.Entries {
			if term == "" || strings.Contains(strings.ToLower(filepath.Base(e.Path)), term) {
				m.FilteredIndices = append(m.FilteredIndices, i)
			}
		}
	}

	// Bounds check
	if m.SelectedIdx >= len(m.FilteredIndices) {
		if len(m.FilteredIndices) > 0 {
			m.SelectedIdx = len(m.FilteredIndices) - 1
		} else {
			m.SelectedIdx = 0
		}
	}
	m.refreshDetails()
}

// Selected returns the highlighted entry, if any.
func (m AppModel) Selected() (model.Entry, bool) {
	src, ok := m.Current()
	if !ok || m.SelectedIdx >= len(m.FilteredIndices) {
		return model.Entry{}, false
	}
	return src.Report.Entries[m.FilteredIndices[m.SelectedIdx]], true
}

func (m *AppModel) refreshDetails() {
	m.DetailsViewport.SetContent(m.detailsContent())
	m.DetailsViewport.GotoTop()
}

func (m AppModel) detailsContent() string {
	src, ok := m.Current()
	if !ok {
		return ""
	}
	var b strings.Builder
	e, ok := m.Selected()
	if !ok {
		return "No entries."
	}
	b.WriteString(e.Path + "\n\n")
	if e.IsDir {
		b.WriteString("Directory")
		return b.String()
	}
	if src.FS == nil {
		return b.String()
	}
	p := model.PreviewFile(src.FS, filepath.Base(e.Path), previewLines)
	switch {
	case p.ErrorMsg != "":
		b.WriteString(p.ErrorMsg)
	case p.Binary:
		b.WriteString("Binary file")
	default:
		b.WriteString(strings.Join(p.Lines, "\n"))
		if p.Truncated {
			b.WriteString("\n…")
		}
	}
	return b.String()
}

// LoadCmd runs load in the background.
func LoadCmd(load LoadFunc) tea.Cmd {
	return func() tea.Msg {
		if load == nil {
			return MsgSourcesReady{}
		}
		sources, err := load()
		if len(sources) == 0 && err != nil {
			return MsgError(err)
		}
		return MsgSourcesReady{Sources: sources, Warning: err}
	}
}
