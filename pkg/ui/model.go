// Package ui implements the interactive grievance browser.
package ui

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/Dicklesworthstone/gv/pkg/model"
	"github.com/Dicklesworthstone/gv/pkg/search"
	"github.com/Dicklesworthstone/gv/pkg/store"
)

// HistoryReader supplies past activity for the detail view
type HistoryReader interface {
	EventsForGrievance(id int) ([]model.Event, error)
}

// fileChangedMsg is sent when the data file changes on disk
type fileChangedMsg struct{}

var (
	filterCycle = []model.Status{"", model.StatusOpen, model.StatusResolved}
	sortCycle   = []model.SortKey{model.SortDate, model.SortDateDesc, model.SortVotes}
)

const (
	defaultWidth  = 80
	defaultHeight = 24
	chromeHeight  = 4 // header, divider, search line, footer
)

// Model is the bubbletea model of the browser. All store calls happen inside
// Update, so the store is only ever used from the event loop.
type Model struct {
	store  *store.Store
	theme  Theme
	list   list.Model
	detail viewport.Model
	search textinput.Model
	help   HelpOverlayModel

	all        []model.Grievance
	filter     model.Status
	sortBy     model.SortKey
	query      string
	searching  bool
	showDetail bool
	detailID   int

	message       string
	width, height int

	history HistoryReader
	copy    func(string) error
	changes <-chan struct{}
	logger  *slog.Logger
}

// Option configures the browser
type Option func(*Model)

// WithTheme sets the color theme
func WithTheme(t Theme) Option {
	return func(m *Model) { m.theme = t }
}

// WithHistory shows recorded activity in the detail view
func WithHistory(h HistoryReader) Option {
	return func(m *Model) {
		if h != nil {
			m.history = h
		}
	}
}

// WithClipboard replaces the system clipboard
func WithClipboard(copyFn func(string) error) Option {
	return func(m *Model) { m.copy = copyFn }
}

// WithChanges delivers a reload whenever a value arrives on ch
func WithChanges(ch <-chan struct{}) Option {
	return func(m *Model) { m.changes = ch }
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(m *Model) { m.logger = l }
}

// New creates the browser and loads the collection
func New(s *store.Store, opts ...Option) Model {
	m := Model{
		store:  s,
		theme:  DefaultTheme(nil),
		sortBy: model.SortDate,
		copy:   clipboard.WriteAll,
		logger: slog.Default(),
		width:  defaultWidth,
		height: defaultHeight,
	}
	for _, opt := range opts {
		opt(&m)
	}

	delegate := GrievanceDelegate{Theme: m.theme, ShowAuthor: true, ShowAge: true}
	m.list = list.New(nil, delegate, m.width, m.height-chromeHeight)
	m.list.SetShowTitle(false)
	m.list.SetShowStatusBar(false)
	m.list.SetShowHelp(false)
	m.list.SetFilteringEnabled(false)
	m.list.DisableQuitKeybindings()

	m.detail = viewport.New(m.width, m.height-chromeHeight)

	m.search = textinput.New()
	m.search.Prompt = "/ "
	m.search.Placeholder = "fuzzy search title, author, description"
	m.search.CharLimit = 200

	m.help = NewHelpOverlayModel(m.theme)
	m.reload()
	return m
}

// Init waits for the first file change
func (m Model) Init() tea.Cmd {
	return waitForChange(m.changes)
}

func waitForChange(ch <-chan struct{}) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return fileChangedMsg{}
	}
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case fileChangedMsg:
		before := m.all
		m.reload()
		// Our own saves also trigger the watcher; keep their status line.
		if !sameGrievances(before, m.all) {
			m.message = "Reloaded: data file changed"
		}
		if m.showDetail {
			m.renderDetail()
		}
		return m, waitForChange(m.changes)

	case tea.KeyMsg:
		if key.Matches(msg, keys.ForceQuit) {
			return m, tea.Quit
		}
		if m.help.IsVisible() {
			m.help, _ = m.help.Update(msg)
			return m, nil
		}
		if m.searching {
			return m.updateSearch(msg)
		}
		if m.showDetail {
			return m.updateDetail(msg)
		}
		return m.updateList(msg)
	}

	var cmd tea.Cmd
	if m.showDetail {
		m.detail, cmd = m.detail.Update(msg)
	} else {
		m.list, cmd = m.list.Update(msg)
	}
	return m, cmd
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.Help):
		m.help.Toggle()
	case key.Matches(msg, keys.Filter):
		m.filter = next(filterCycle, m.filter)
		m.refresh()
		m.message = "Filter: " + filterLabel(m.filter)
	case key.Matches(msg, keys.Sort):
		m.sortBy = next(sortCycle, m.sortBy)
		m.refresh()
		m.message = "Sort: " + string(m.sortBy)
	case key.Matches(msg, keys.Upvote):
		m.vote(model.VoteUp)
	case key.Matches(msg, keys.Downvote):
		m.vote(model.VoteDown)
	case key.Matches(msg, keys.Resolve):
		m.resolve()
	case key.Matches(msg, keys.Copy):
		m.copySelected()
	case key.Matches(msg, keys.Detail):
		if g, ok := m.selected(); ok {
			m.showDetail = true
			m.detailID = g.ID
			m.renderDetail()
			m.detail.GotoTop()
		}
	case key.Matches(msg, keys.Search):
		m.searching = true
		m.search.SetValue(m.query)
		m.search.CursorEnd()
		return m, m.search.Focus()
	case key.Matches(msg, keys.Back):
		if m.query != "" {
			m.query = ""
			m.refresh()
			m.message = "Search cleared"
		}
	default:
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.searching = false
		m.search.Blur()
		return m, nil
	case tea.KeyEsc:
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		m.query = ""
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.query = strings.TrimSpace(m.search.Value())
	m.refresh()
	return m, cmd
}

func (m Model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Back), key.Matches(msg, keys.Quit), key.Matches(msg, keys.Detail):
		m.showDetail = false
		return m, nil
	case key.Matches(msg, keys.Help):
		m.help.Toggle()
		return m, nil
	case key.Matches(msg, keys.Upvote):
		m.vote(model.VoteUp)
	case key.Matches(msg, keys.Downvote):
		m.vote(model.VoteDown)
	case key.Matches(msg, keys.Resolve):
		m.resolve()
	case key.Matches(msg, keys.Copy):
		m.copySelected()
	default:
		var cmd tea.Cmd
		m.detail, cmd = m.detail.Update(msg)
		return m, cmd
	}
	m.renderDetail()
	return m, nil
}

func next[T comparable](cycle []T, cur T) T {
	for i, v := range cycle {
		if v == cur {
			return cycle[(i+1)%len(cycle)]
		}
	}
	return cycle[0]
}

func sameGrievances(a, b []model.Grievance) bool {
	return slices.EqualFunc(a, b, func(x, y model.Grievance) bool {
		return x.ID == y.ID && x.Title == y.Title && x.Description == y.Description &&
			x.Author == y.Author && x.Status == y.Status && x.Upvotes == y.Upvotes &&
			x.Downvotes == y.Downvotes && x.CreatedAt.Equal(y.CreatedAt.Time)
	})
}

func filterLabel(s model.Status) string {
	if s == "" {
		return "all"
	}
	return string(s)
}

func (m *Model) resize() {
	bodyHeight := m.height - chromeHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	m.list.SetSize(m.width, bodyHeight)
	m.detail.Width = m.width
	m.detail.Height = bodyHeight
	m.search.Width = m.width - 4
	if m.showDetail {
		m.renderDetail()
	}
}

// reload re-reads the store, keeping the current selection when possible
func (m *Model) reload() {
	grievances, err := m.store.All()
	if err != nil {
		m.logger.Warn("failed to load grievances", "path", m.store.Path(), "error", err)
		m.message = "Error: " + err.Error()
		return
	}
	m.all = grievances
	m.refresh()
}

// refresh rebuilds the visible list from the loaded collection
func (m *Model) refresh() {
	selectedID := -1
	if g, ok := m.selected(); ok {
		selectedID = g.ID
	}

	visible := store.FilterByStatus(m.all, m.filter)
	if m.query != "" {
		visible = search.Grievances(search.Find(m.query, visible))
	} else {
		store.SortGrievances(visible, m.sortBy)
	}

	items := make([]list.Item, len(visible))
	newIndex := 0
	for i, g := range visible {
		items[i] = GrievanceItem{Grievance: g}
		if g.ID == selectedID {
			newIndex = i
		}
	}
	m.list.SetItems(items)
	if len(items) > 0 {
		m.list.Select(newIndex)
	}
}

func (m Model) selected() (model.Grievance, bool) {
	if m.showDetail {
		for _, g := range m.all {
			if g.ID == m.detailID {
				return g, true
			}
		}
		return model.Grievance{}, false
	}
	item, ok := m.list.SelectedItem().(GrievanceItem)
	if !ok {
		return model.Grievance{}, false
	}
	return item.Grievance, true
}

// report turns a store error into a status line
func (m *Model) report(id int, err error) {
	if errors.Is(err, store.ErrNotFound) {
		m.message = fmt.Sprintf("Grievance #%d not found.", id)
		m.reload()
		return
	}
	m.logger.Warn("store operation failed", "grievance", id, "error", err)
	m.message = "Error: " + err.Error()
}

func (m *Model) vote(direction model.VoteDirection) {
	g, ok := m.selected()
	if !ok {
		return
	}
	updated, err := m.store.Vote(g.ID, direction)
	if err != nil {
		m.report(g.ID, err)
		return
	}
	m.reload()
	m.message = fmt.Sprintf("Voted %s on grievance #%d. (up: %d, down: %d)", direction, g.ID, updated.Upvotes, updated.Downvotes)
}

func (m *Model) resolve() {
	g, ok := m.selected()
	if !ok {
		return
	}
	if g.Status.IsResolved() {
		m.message = fmt.Sprintf("Grievance #%d is already resolved.", g.ID)
		return
	}
	if _, err := m.store.Resolve(g.ID); err != nil {
		m.report(g.ID, err)
		return
	}
	m.reload()
	m.message = fmt.Sprintf("Grievance #%d marked as resolved.", g.ID)
}

func (m *Model) copySelected() {
	g, ok := m.selected()
	if !ok {
		return
	}
	if err := m.copy(Summary(g)); err != nil {
		m.message = "Clipboard unavailable: " + err.Error()
		return
	}
	m.message = fmt.Sprintf("Copied #%d to clipboard", g.ID)
}

// Summary is the plain-text form copied to the clipboard
func Summary(g model.Grievance) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "#%d %s (by %s)\n", g.ID, g.Title, g.Author)
	fmt.Fprintf(&sb, "Status: %s, score %+d (up %d, down %d), created %s\n",
		g.Status, g.Score(), g.Upvotes, g.Downvotes, g.CreatedAt)
	if g.Description != "" {
		sb.WriteString("\n" + g.Description + "\n")
	}
	return sb.String()
}

func (m *Model) renderDetail() {
	g, ok := m.selected()
	if !ok {
		m.detail.SetContent(fmt.Sprintf("Grievance #%d no longer exists.", m.detailID))
		return
	}
	t := m.theme
	width := m.width - 4
	if width < 20 {
		width = 20
	}

	label := t.Renderer.NewStyle().Foreground(t.Secondary).Width(12)
	var b strings.Builder
	b.WriteString(t.Renderer.NewStyle().Bold(true).Foreground(t.Primary).Render(fmt.Sprintf("#%d %s", g.ID, g.Title)))
	b.WriteString("\n\n")
	b.WriteString(label.Render("Status") + RenderStatusBadge(string(g.Status), t) + "\n")
	b.WriteString(label.Render("Score") + strings.TrimSpace(RenderScore(g.Score(), t)) +
		fmt.Sprintf("  (up %d, down %d)", g.Upvotes, g.Downvotes) + "\n")
	b.WriteString(label.Render("Author") + g.Author + "\n")
	b.WriteString(label.Render("Created") + g.CreatedAt.String() + "  " + FormatTimeRel(g.CreatedAt.Time) + "\n")
	b.WriteString("\n" + RenderDivider(width, t) + "\n\n")

	if g.Description == "" {
		b.WriteString(t.Renderer.NewStyle().Faint(true).Render("No description."))
	} else {
		b.WriteString(wordwrap.String(g.Description, width))
	}
	b.WriteString("\n")

	if m.history != nil {
		b.WriteString("\n" + RenderDivider(width, t) + "\n\n")
		b.WriteString(t.Renderer.NewStyle().Bold(true).Render("Activity") + "\n")
		events, err := m.history.EventsForGrievance(g.ID)
		switch {
		case err != nil:
			b.WriteString("  unavailable: " + err.Error() + "\n")
		case len(events) == 0:
			b.WriteString("  none recorded\n")
		default:
			for _, e := range events {
				line := fmt.Sprintf("  %s  %-9s %s", e.CreatedAt.Local().Format("2006-01-02 15:04"), e.Action, e.Detail)
				b.WriteString(strings.TrimRight(line, " ") + "\n")
			}
		}
	}

	m.detail.SetContent(b.String())
}

// View renders the browser
func (m Model) View() string {
	if m.help.IsVisible() {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.help.View())
	}

	t := m.theme
	title := t.Renderer.NewStyle().Bold(true).Foreground(t.Primary).Render("Grievances")
	pill := t.Renderer.NewStyle().Foreground(t.Subtext)
	header := title + "  " +
		pill.Render("filter: "+filterLabel(m.filter)) + "  " +
		pill.Render("sort: "+string(m.sortBy))
	if m.query != "" {
		header += "  " + pill.Render("search: "+m.query)
	}
	header += "  " + t.Renderer.NewStyle().Foreground(t.Muted).Render(fmt.Sprintf("%d of %d", len(m.list.Items()), len(m.all)))

	var body string
	switch {
	case m.showDetail:
		body = m.detail.View()
	case len(m.list.Items()) == 0:
		body = t.Renderer.NewStyle().Foreground(t.Muted).Height(m.list.Height()).Render("  No grievances found.")
	default:
		body = m.list.View()
	}

	searchLine := ""
	if m.searching {
		searchLine = m.search.View()
	}

	footer := m.message
	if footer == "" {
		footer = "? help • / search • f filter • s sort • +/- vote • r resolve • q quit"
	}
	footer = t.Renderer.NewStyle().Foreground(t.Muted).Render(footer)

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		RenderDivider(m.width, t),
		body,
		searchLine,
		footer,
	)
}
