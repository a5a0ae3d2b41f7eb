package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// HelpOverlayModel shows keyboard shortcuts help
type HelpOverlayModel struct {
	visible bool
	theme   Theme
}

// NewHelpOverlayModel creates a new help overlay
func NewHelpOverlayModel(theme Theme) HelpOverlayModel {
	return HelpOverlayModel{theme: theme}
}

// Toggle toggles visibility
func (m *HelpOverlayModel) Toggle() {
	m.visible = !m.visible
}

// IsVisible returns true if overlay is showing
func (m HelpOverlayModel) IsVisible() bool {
	return m.visible
}

// Update closes the overlay on any key
func (m HelpOverlayModel) Update(msg tea.Msg) (HelpOverlayModel, tea.Cmd) {
	if !m.visible {
		return m, nil
	}
	if _, ok := msg.(tea.KeyMsg); ok {
		m.visible = false
	}
	return m, nil
}

type shortcut struct{ key, desc string }

var helpSections = []struct {
	title string
	keys  []shortcut
}{
	{"NAVIGATION", []shortcut{
		{"j/↓", "Move down"},
		{"k/↑", "Move up"},
		{"g/G", "Top / bottom"},
		{"enter", "Show details"},
		{"esc", "Back / clear search"},
	}},
	{"ACTIONS", []shortcut{
		{"+", "Upvote"},
		{"-", "Downvote"},
		{"r", "Resolve"},
		{"y", "Copy summary"},
	}},
	{"VIEW", []shortcut{
		{"f", "Cycle status filter"},
		{"s", "Cycle sort order"},
		{"/", "Fuzzy search"},
		{"?", "Toggle this help"},
		{"q", "Quit"},
	}},
}

// View renders the help overlay
func (m HelpOverlayModel) View() string {
	if !m.visible {
		return ""
	}

	var b strings.Builder
	titleStyle := m.theme.Renderer.NewStyle().Bold(true).Foreground(m.theme.Primary)
	b.WriteString(titleStyle.Render("Grievance Browser Help"))
	b.WriteString("\n\n")

	sectionStyle := m.theme.Renderer.NewStyle().Bold(true).Foreground(m.theme.Secondary)
	keyStyle := m.theme.Renderer.NewStyle().Foreground(m.theme.Primary).Width(8)
	descStyle := m.theme.Renderer.NewStyle().Foreground(m.theme.Subtext)

	for i, section := range helpSections {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(sectionStyle.Render(section.title) + "\n")
		for _, s := range section.keys {
			b.WriteString("  " + keyStyle.Render(s.key) + descStyle.Render(s.desc) + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(m.theme.Renderer.NewStyle().Faint(true).Italic(true).Render("[Press any key to close]"))

	return m.theme.Renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.theme.Border).
		Padding(1, 2).
		Render(b.String())
}
