package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme bundles the colors used by the browser. Colors adapt to light and
// dark terminals.
type Theme struct {
	Renderer *lipgloss.Renderer

	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Subtext   lipgloss.AdaptiveColor
	Muted     lipgloss.AdaptiveColor
	Border    lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor

	Open     lipgloss.AdaptiveColor
	Resolved lipgloss.AdaptiveColor
	Positive lipgloss.AdaptiveColor
	Negative lipgloss.AdaptiveColor
}

// DefaultTheme returns the Dracula-style palette
func DefaultTheme(r *lipgloss.Renderer) Theme {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	return Theme{
		Renderer:  r,
		Primary:   lipgloss.AdaptiveColor{Light: "#7D56F4", Dark: "#BD93F9"},
		Secondary: lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"},
		Subtext:   lipgloss.AdaptiveColor{Light: "#444444", Dark: "#BFBFBF"},
		Muted:     lipgloss.AdaptiveColor{Light: "#999999", Dark: "#6272A4"},
		Border:    lipgloss.AdaptiveColor{Light: "#CCCCCC", Dark: "#44475A"},
		Highlight: lipgloss.AdaptiveColor{Light: "#EEEEEE", Dark: "#44475A"},
		Open:      lipgloss.AdaptiveColor{Light: "#1A7F37", Dark: "#50FA7B"},
		Resolved:  lipgloss.AdaptiveColor{Light: "#8C8C8C", Dark: "#6272A4"},
		Positive:  lipgloss.AdaptiveColor{Light: "#1A7F37", Dark: "#50FA7B"},
		Negative:  lipgloss.AdaptiveColor{Light: "#CF222E", Dark: "#FF5555"},
	}
}

// WithAccent replaces the primary color. An empty accent keeps the default.
func (t Theme) WithAccent(accent string) Theme {
	if accent != "" {
		t.Primary = lipgloss.AdaptiveColor{Light: accent, Dark: accent}
	}
	return t
}
