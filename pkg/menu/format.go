package menu

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"

	"github.com/Dicklesworthstone/gv/pkg/model"
)

// DefaultWidth is used when the terminal width is unknown
const DefaultWidth = 80

// Renderer turns a free-text description into printable text
type Renderer func(string) string

// FormatListLine renders one row of the listing
func FormatListLine(g model.Grievance) string {
	return fmt.Sprintf("#%d | %-8s | score: %+d | %s (by %s)",
		g.ID, strings.ToUpper(string(g.Status)), g.Score(), g.Title, g.Author)
}

// FormatDetails renders every field, one per line. A nil render leaves the
// description untouched.
func FormatDetails(g model.Grievance, render Renderer) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "ID: %d\n", g.ID)
	fmt.Fprintf(&sb, "Title: %s\n", g.Title)

	desc := g.Description
	if render != nil && desc != "" {
		desc = render(desc)
	}
	if strings.Contains(desc, "\n") {
		fmt.Fprintf(&sb, "Description:\n%s\n", strings.TrimRight(desc, "\n"))
	} else {
		fmt.Fprintf(&sb, "Description: %s\n", desc)
	}

	fmt.Fprintf(&sb, "Author: %s\n", g.Author)
	fmt.Fprintf(&sb, "Status: %s\n", g.Status)
	fmt.Fprintf(&sb, "Upvotes: %d\n", g.Upvotes)
	fmt.Fprintf(&sb, "Downvotes: %d\n", g.Downvotes)
	fmt.Fprintf(&sb, "Created At: %s\n", g.CreatedAt)
	return sb.String()
}

// PlainRenderer wraps long descriptions at width. Wrapped output is indented
// so it reads as a block under the "Description:" label.
func PlainRenderer(width int) Renderer {
	if width <= 0 {
		width = DefaultWidth
	}
	return func(s string) string {
		if len(s)+len("Description: ") <= width && !strings.Contains(s, "\n") {
			return s
		}
		wrapped := wordwrap.String(s, width-2)
		if !strings.Contains(wrapped, "\n") {
			return s
		}
		return indent.String(wrapped, 2)
	}
}

// GlamourRenderer renders descriptions as Markdown for a terminal. Render
// failures fall back to the raw text.
func GlamourRenderer(width int) (Renderer, error) {
	if width <= 0 {
		width = DefaultWidth
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, fmt.Errorf("create markdown renderer: %w", err)
	}
	return func(s string) string {
		out, err := r.Render(s)
		if err != nil {
			return s
		}
		return strings.Trim(out, "\n")
	}, nil
}
