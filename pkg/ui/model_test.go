package ui

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Dicklesworthstone/gv/pkg/model"
	"github.com/Dicklesworthstone/gv/pkg/store"
)

// keyMsg creates a tea.KeyMsg for testing
func keyMsg(key string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
}

type fakeHistory struct {
	events []model.Event
}

func (f fakeHistory) EventsForGrievance(id int) ([]model.Event, error) {
	var out []model.Event
	for _, e := range f.events {
		if e.GrievanceID == id {
			out = append(out, e)
		}
	}
	return out, nil
}

// newTestModel seeds a store with three grievances:
// #1 Broken AC (alice, +0), #2 Cold food (bob, +2), #3 Loud neighbours (carol, resolved, -1)
func newTestModel(t *testing.T, opts ...Option) (Model, *store.Store) {
	t.Helper()
	base := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	n := 0
	clock := func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Hour)
	}
	s := store.New(filepath.Join(t.TempDir(), "grievances.json"), store.WithClock(clock))
	for _, in := range [][3]string{
		{"Broken AC", "Room 12 too hot", "alice"},
		{"Cold food", "Lunch was cold", "bob"},
		{"Loud neighbours", "", "carol"},
	} {
		if _, err := s.Add(in[0], in[1], in[2]); err != nil {
			t.Fatal(err)
		}
	}
	mustDo(t, func() error { _, err := s.Vote(2, model.VoteUp); return err })
	mustDo(t, func() error { _, err := s.Vote(2, model.VoteUp); return err })
	mustDo(t, func() error { _, err := s.Vote(3, model.VoteDown); return err })
	mustDo(t, func() error { _, err := s.Resolve(3); return err })

	opts = append([]Option{WithTheme(DefaultTheme(lipgloss.DefaultRenderer()))}, opts...)
	m := New(s, opts...)
	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	return m, s
}

func mustDo(t *testing.T, fn func() error) {
	t.Helper()
	if err := fn(); err != nil {
		t.Fatal(err)
	}
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return nm
}

func visibleIDs(m Model) []int {
	var ids []int
	for _, it := range m.list.Items() {
		ids = append(ids, it.(GrievanceItem).Grievance.ID)
	}
	return ids
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestNew_LoadsInDateOrder(t *testing.T) {
	m, _ := newTestModel(t)
	if got := visibleIDs(m); !equalInts(got, []int{1, 2, 3}) {
		t.Errorf("visible = %v, want [1 2 3]", got)
	}
	if !strings.Contains(m.View(), "Broken AC") {
		t.Error("view should list grievances")
	}
}

func TestFilterCycle(t *testing.T) {
	m, _ := newTestModel(t)

	m = update(t, m, keyMsg("f"))
	if m.filter != model.StatusOpen || !equalInts(visibleIDs(m), []int{1, 2}) {
		t.Errorf("open filter: %q %v", m.filter, visibleIDs(m))
	}
	m = update(t, m, keyMsg("f"))
	if m.filter != model.StatusResolved || !equalInts(visibleIDs(m), []int{3}) {
		t.Errorf("resolved filter: %q %v", m.filter, visibleIDs(m))
	}
	m = update(t, m, keyMsg("f"))
	if m.filter != "" || len(visibleIDs(m)) != 3 {
		t.Errorf("all filter: %q %v", m.filter, visibleIDs(m))
	}
}

func TestSortCycle(t *testing.T) {
	m, _ := newTestModel(t)

	m = update(t, m, keyMsg("s"))
	if m.sortBy != model.SortDateDesc || !equalInts(visibleIDs(m), []int{3, 2, 1}) {
		t.Errorf("date-desc: %v", visibleIDs(m))
	}
	m = update(t, m, keyMsg("s"))
	if m.sortBy != model.SortVotes || !equalInts(visibleIDs(m), []int{2, 1, 3}) {
		t.Errorf("votes: %v", visibleIDs(m))
	}
	m = update(t, m, keyMsg("s"))
	if m.sortBy != model.SortDate {
		t.Errorf("expected wrap to date, got %q", m.sortBy)
	}
}

func TestVoteKeysPersist(t *testing.T) {
	m, s := newTestModel(t)

	m = update(t, m, keyMsg("+"))
	m = update(t, m, keyMsg("+"))
	m = update(t, m, keyMsg("-"))

	g, err := s.Get(1)
	if err != nil {
		t.Fatal(err)
	}
	if g.Upvotes != 2 || g.Downvotes != 1 {
		t.Errorf("stored votes = %d/%d, want 2/1", g.Upvotes, g.Downvotes)
	}
	if !strings.Contains(m.message, "Voted down on grievance #1") {
		t.Errorf("message = %q", m.message)
	}
	if sel, _ := m.selected(); sel.ID != 1 {
		t.Errorf("selection moved to #%d", sel.ID)
	}
}

func TestOwnSaveKeepsStatusMessage(t *testing.T) {
	m, _ := newTestModel(t)

	m = update(t, m, keyMsg("+"))
	m = update(t, m, fileChangedMsg{})
	if !strings.Contains(m.message, "Voted up on grievance #1") {
		t.Errorf("vote message replaced by %q", m.message)
	}

	m = update(t, m, keyMsg("r"))
	m = update(t, m, fileChangedMsg{})
	if !strings.Contains(m.message, "marked as resolved") {
		t.Errorf("resolve message replaced by %q", m.message)
	}
}

func TestVoteKeepsSelectionWhenOrderChanges(t *testing.T) {
	m, _ := newTestModel(t)
	m = update(t, m, keyMsg("s"))
	m = update(t, m, keyMsg("s")) // votes: [2 1 3]
	m.list.Select(1)              // #1 at +0

	for i := 0; i < 3; i++ {
		m = update(t, m, keyMsg("+"))
	}
	if !equalInts(visibleIDs(m), []int{1, 2, 3}) {
		t.Errorf("votes order after voting = %v", visibleIDs(m))
	}
	if sel, _ := m.selected(); sel.ID != 1 {
		t.Errorf("selection should follow #1, got #%d", sel.ID)
	}
}

func TestResolveKey(t *testing.T) {
	m, s := newTestModel(t)

	m = update(t, m, keyMsg("r"))
	g, _ := s.Get(1)
	if g.Status != model.StatusResolved {
		t.Fatalf("status = %q", g.Status)
	}
	if m.message != "Grievance #1 marked as resolved." {
		t.Errorf("message = %q", m.message)
	}

	m = update(t, m, keyMsg("r"))
	if m.message != "Grievance #1 is already resolved." {
		t.Errorf("second resolve message = %q", m.message)
	}
}

func TestExternalDeleteReportsNotFound(t *testing.T) {
	m, s := newTestModel(t)
	if _, err := s.Delete(1); err != nil {
		t.Fatal(err)
	}

	m = update(t, m, keyMsg("+"))
	if m.message != "Grievance #1 not found." {
		t.Errorf("message = %q", m.message)
	}
	if equalInts(visibleIDs(m), []int{1, 2, 3}) {
		t.Error("list should reload after not-found")
	}
}

func TestFileChangedReloads(t *testing.T) {
	m, s := newTestModel(t)
	if _, err := s.Add("New one", "", "dave"); err != nil {
		t.Fatal(err)
	}
	m = update(t, m, fileChangedMsg{})
	if len(m.all) != 4 || !strings.HasPrefix(m.message, "Reloaded") {
		t.Errorf("all=%d message=%q", len(m.all), m.message)
	}
}

func TestSearchMode(t *testing.T) {
	m, _ := newTestModel(t)

	m = update(t, m, keyMsg("/"))
	if !m.searching {
		t.Fatal("expected search mode")
	}
	// Keys are typed into the search box rather than acting as commands.
	for _, r := range "lunch" {
		m = update(t, m, keyMsg(string(r)))
	}
	if m.query != "lunch" {
		t.Fatalf("query = %q", m.query)
	}
	if got := visibleIDs(m); len(got) == 0 || got[0] != 2 {
		t.Errorf("search results = %v, want #2 first", got)
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.searching || m.query != "lunch" {
		t.Errorf("enter should keep query and leave search mode")
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.query != "" || len(visibleIDs(m)) != 3 {
		t.Errorf("esc should clear search, got %q %v", m.query, visibleIDs(m))
	}
}

func TestDetailView(t *testing.T) {
	created := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	h := fakeHistory{events: []model.Event{
		{GrievanceID: 1, Action: model.ActionAdd, Detail: "by alice", CreatedAt: created},
	}}
	m, _ := newTestModel(t, WithHistory(h))

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if !m.showDetail || m.detailID != 1 {
		t.Fatalf("expected detail of #1, got show=%v id=%d", m.showDetail, m.detailID)
	}
	view := m.View()
	for _, want := range []string{"#1 Broken AC", "Room 12 too hot", "alice", "Activity", "by alice"} {
		if !strings.Contains(view, want) {
			t.Errorf("detail view missing %q", want)
		}
	}

	// Actions work from the detail view too.
	m = update(t, m, keyMsg("+"))
	if !strings.Contains(m.message, "#1") {
		t.Errorf("message = %q", m.message)
	}

	m = update(t, m, keyMsg("q"))
	if m.showDetail {
		t.Error("q should close the detail view before quitting")
	}
}

func TestCopyKey(t *testing.T) {
	var copied string
	m, _ := newTestModel(t, WithClipboard(func(s string) error {
		copied = s
		return nil
	}))
	m = update(t, m, keyMsg("y"))
	if !strings.HasPrefix(copied, "#1 Broken AC (by alice)") {
		t.Errorf("copied = %q", copied)
	}
	if m.message != "Copied #1 to clipboard" {
		t.Errorf("message = %q", m.message)
	}

	m, _ = newTestModel(t, WithClipboard(func(string) error { return errors.New("no display") }))
	m = update(t, m, keyMsg("y"))
	if !strings.Contains(m.message, "no display") {
		t.Errorf("message = %q", m.message)
	}
}

func TestHelpOverlay(t *testing.T) {
	m, _ := newTestModel(t)
	m = update(t, m, keyMsg("?"))
	if !m.help.IsVisible() || !strings.Contains(m.View(), "Grievance Browser Help") {
		t.Fatal("help overlay should be visible")
	}
	// Any key closes help without acting.
	m = update(t, m, keyMsg("f"))
	if m.help.IsVisible() || m.filter != "" {
		t.Errorf("help visible=%v filter=%q", m.help.IsVisible(), m.filter)
	}
}

func TestQuitKeys(t *testing.T) {
	m, _ := newTestModel(t)
	for _, msg := range []tea.KeyMsg{keyMsg("q"), {Type: tea.KeyCtrlC}} {
		_, cmd := m.Update(msg)
		if cmd == nil {
			t.Fatalf("%s: expected quit command", msg)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%s: expected tea.QuitMsg", msg)
		}
	}
}

func TestEmptyStoreView(t *testing.T) {
	s := store.New(filepath.Join(t.TempDir(), "grievances.json"))
	m := New(s)
	if !strings.Contains(m.View(), "No grievances found.") {
		t.Error("empty view should say so")
	}
	// Actions on an empty list are no-ops.
	m = update(t, m, keyMsg("+"))
	m = update(t, m, keyMsg("r"))
	if m.message != "" {
		t.Errorf("unexpected message %q", m.message)
	}
}

func TestFormatTimeRel(t *testing.T) {
	now := time.Now()
	tests := []struct {
		t        time.Time
		expected string
	}{
		{now, "now"},
		{now.Add(-10 * time.Minute), "10m ago"},
		{now.Add(-2 * time.Hour), "2h ago"},
		{now.Add(-25 * time.Hour), "1d ago"},
		{now.Add(-8 * 24 * time.Hour), "1w ago"},
		{now.Add(-60 * 24 * time.Hour), "2mo ago"},
		{now.Add(-800 * 24 * time.Hour), "2y ago"},
		{time.Time{}, "unknown"},
	}

	for _, tt := range tests {
		got := FormatTimeRel(tt.t)
		if got != tt.expected {
			t.Errorf("FormatTimeRel(%v): expected %s, got %s", tt.t, tt.expected, got)
		}
	}
}

func TestSummary(t *testing.T) {
	g := model.Grievance{ID: 4, Title: "T", Author: "a", Status: model.StatusOpen, Upvotes: 1}
	got := Summary(g)
	if !strings.Contains(got, "#4 T (by a)") || !strings.Contains(got, "score +1") {
		t.Errorf("Summary = %q", got)
	}
}
