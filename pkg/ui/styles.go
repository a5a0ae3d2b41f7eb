package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Column widths of a list row, in cells
const (
	colID     = 6
	colStatus = 10
	colScore  = 6
	colAuthor = 14
	colAge    = 9
)

// RenderStatusBadge returns a colored status label
func RenderStatusBadge(status string, t Theme) string {
	var label string
	color := t.Muted
	switch status {
	case "open":
		label, color = "OPEN", t.Open
	case "resolved":
		label, color = "RESOLVED", t.Resolved
	default:
		label = "????"
	}
	return t.Renderer.NewStyle().
		Foreground(color).
		Bold(status == "open").
		Width(colStatus).
		Render(label)
}

// RenderScore returns the signed score colored by sign
func RenderScore(score int, t Theme) string {
	color := t.Muted
	switch {
	case score > 0:
		color = t.Positive
	case score < 0:
		color = t.Negative
	}
	return t.Renderer.NewStyle().
		Foreground(color).
		Width(colScore).
		Align(lipgloss.Right).
		Render(fmt.Sprintf("%+d", score))
}

// RenderDivider renders a horizontal divider line
func RenderDivider(width int, t Theme) string {
	if width <= 0 {
		return ""
	}
	return t.Renderer.NewStyle().
		Foreground(t.Border).
		Render(strings.Repeat("─", width))
}

// FormatTimeRel renders how long ago t was, e.g. "3d ago"
func FormatTimeRel(t time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	case d < 30*24*time.Hour:
		return fmt.Sprintf("%dw ago", int(d.Hours()/(24*7)))
	case d < 365*24*time.Hour:
		return fmt.Sprintf("%dmo ago", int(d.Hours()/(24*30)))
	default:
		return fmt.Sprintf("%dy ago", int(d.Hours()/(24*365)))
	}
}
