package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"coursehost/internal/assets"
	"coursehost/internal/model"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	headingStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	normalStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	okStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))  // Green
	badStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("196")) // Red
	adviceStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("208")) // Orange

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63"))
)

// Status renders a found/missing line the way the inspector shows it.
func Status(found bool, text string) string {
	if found {
		return okStyle.Render(model.IconFound + " " + text)
	}
	return badStyle.Render(model.IconMissing + " " + text)
}

func (m AppModel) View() string {
	if m.Loading {
		return "\n  Inspecting frontend bundle... please wait.\n"
	}
	if m.Err != nil {
		return fmt.Sprintf("\n  Error: %v\n", m.Err)
	}
	src, ok := m.Current()
	if !ok {
		return "\n  Nothing to inspect.\n\n  " + dimStyle.Render("q: quit") + "\n"
	}

	// Subtracting 6 for horizontal margin (borders x2 + buffer)
	// Subtracting 6 for vertical margin (title, footer, borders)
	netWidth := max(m.WindowSize.Width-6, 20)
	leftWidth := netWidth / 2
	rightWidth := netWidth - leftWidth
	boxHeight := max(m.WindowSize.Height-6, 8)
	interiorHeight := boxHeight - 2

	header := titleStyle.Render(fmt.Sprintf("%s %s", model.AppName, model.Version)) + "  " + m.tabs()

	left := m.summary(src.Report, leftWidth-2)
	visibleItems := max(interiorHeight-strings.Count(left, "\n")-1, 1)
	left += m.entryList(src.Report, leftWidth-2, visibleItems)

	m.DetailsViewport.Width = rightWidth - 2
	m.DetailsViewport.Height = interiorHeight

	leftPanel := panelStyle.Width(leftWidth).Height(interiorHeight).Render(left)
	rightPanel := panelStyle.Width(rightWidth).Height(interiorHeight).Render(m.DetailsViewport.View())
	body := lipgloss.JoinHorizontal(lipgloss.Top, leftPanel, rightPanel)

	return lipgloss.JoinVertical(lipgloss.Left, header, body, m.footer())
}

func (m AppModel) tabs() string {
	var parts []string
	for i, s := range m.Sources {
		label := s.Report.Label
		if i == m.SourceIdx {
			parts = append(parts, headingStyle.Render("["+label+"]"))
		} else {
			parts = append(parts, dimStyle.Render(" "+label+" "))
		}
	}
	return strings.Join(parts, " ")
}

func (m AppModel) summary(r model.AssetReport, width int) string {
	var b strings.Builder
	b.WriteString(headingStyle.Render(truncate(r.Dir, width)) + "\n")
	b.WriteString(Status(r.DirFound, "directory") + "\n")
	if !r.DirFound {
		b.WriteString(adviceStyle.Render("Build the frontend before packaging.") + "\n")
		return b.String()
	}
	b.WriteString(Status(r.EntryFound, r.EntryFile) + "\n")
	if r.ListErr != nil {
		b.WriteString(badStyle.Render(fmt.Sprintf("%s listing failed: %s", model.IconError, assets.ErrKind(r.ListErr))) + "\n")
	}
	for _, w := range m.Warnings {
		b.WriteString(adviceStyle.Render(truncate(w, width)) + "\n")
	}
	b.WriteString("\n")
	return b.String()
}

func (m AppModel) entryList(r model.AssetReport, width, visible int) string {
	if len(m.FilteredIndices) == 0 {
		if m.FilterActive {
			return dimStyle.Render("No matches.")
		}
		return ""
	}

	// Windowing: keep the selection roughly centered.
	startIdx := 0
	endIdx := len(m.FilteredIndices)
	if len(m.FilteredIndices) > visible {
		startIdx = max(m.SelectedIdx-visible/2, 0)
		startIdx = min(startIdx, len(m.FilteredIndices)-visible)
		endIdx = startIdx + visible
	}

	var b strings.Builder
	for i := startIdx; i < endIdx; i++ {
		e := r.Entries[m.FilteredIndices[i]]
		icon := model.IconFile
		if e.IsDir {
			icon = model.IconDir
		}
		line := truncate(fmt.Sprintf("%s %s", icon, filepath.Base(e.Path)), width)
		if i == m.SelectedIdx {
			b.WriteString(selectedStyle.Render(line))
		} else {
			b.WriteString(normalStyle.Render(line))
		}
		if i < endIdx-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m AppModel) footer() string {
	if m.InputMode {
		return "Filter: " + m.InputBuffer.View()
	}
	help := "↑/↓: select • tab: next location • /: filter • pgup/pgdown: scroll • q: quit"
	if m.FilterActive {
		help = fmt.Sprintf("filter %q • esc: clear • ", m.InputBuffer.Value()) + help
	}
	return dimStyle.Render(help)
}

func truncate(s string, width int) string {
	if width < 4 || lipgloss.Width(s) <= width {
		return s
	}
	r := []rune(s)
	if len(r) > width-1 {
		r = r[:width-1]
	}
	return string(r) + "…"
}
