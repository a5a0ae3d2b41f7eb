package ui

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// GrievanceDelegate renders one grievance per line
type GrievanceDelegate struct {
	Theme      Theme
	ShowAuthor bool
	ShowAge    bool
}

func (d GrievanceDelegate) Height() int {
	return 1
}

func (d GrievanceDelegate) Spacing() int {
	return 0
}

func (d GrievanceDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd {
	return nil
}

func (d GrievanceDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	i, ok := listItem.(GrievanceItem)
	if !ok {
		return
	}
	g := i.Grievance
	t := d.Theme
	selected := index == m.Index()

	cursor := "  "
	if selected {
		cursor = t.Renderer.NewStyle().Foreground(t.Primary).Render("▸ ")
	}
	id := t.Renderer.NewStyle().Foreground(t.Secondary).Width(colID).Render("#" + strconv.Itoa(g.ID))
	status := RenderStatusBadge(string(g.Status), t)
	score := RenderScore(g.Score(), t)

	fixed := 2 + colID + colStatus + colScore + 2
	author, age := "", ""
	if d.ShowAuthor {
		author = t.Renderer.NewStyle().Foreground(t.Subtext).Width(colAuthor).
			Render(runewidth.Truncate("@"+g.Author, colAuthor-1, "…"))
		fixed += colAuthor
	}
	if d.ShowAge {
		age = t.Renderer.NewStyle().Foreground(t.Muted).Width(colAge).Render(FormatTimeRel(g.CreatedAt.Time))
		fixed += colAge
	}

	available := m.Width() - fixed
	if available < 10 {
		available = 10
	}
	titleStyle := t.Renderer.NewStyle().Width(available).MaxWidth(available)
	if selected {
		titleStyle = titleStyle.Foreground(t.Primary).Bold(true)
	} else if g.Status.IsResolved() {
		titleStyle = titleStyle.Foreground(t.Muted)
	}
	title := titleStyle.Render(" " + runewidth.Truncate(g.Title, available-2, "…"))

	row := lipgloss.JoinHorizontal(lipgloss.Left, cursor, id, status, score, title, author, age)
	fmt.Fprint(w, row)
}
