// Package menu implements the interactive numbered menu of the grievance
// tracker.
package menu

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/Dicklesworthstone/gv/pkg/model"
	"github.com/Dicklesworthstone/gv/pkg/store"
)

// Title heads the menu
const Title = "Student Grievance System - Menu"

// Choices are the menu entries in display order
var Choices = []Choice{
	{Key: "1", Label: "Add grievance"},
	{Key: "2", Label: "List grievances"},
	{Key: "3", Label: "Show grievance by id"},
	{Key: "4", Label: "Vote on grievance (up/down)"},
	{Key: "5", Label: "Resolve grievance"},
	{Key: "6", Label: "Delete grievance"},
	{Key: "0", Label: "Exit"},
}

// Menu drives a Store from user answers
type Menu struct {
	store  *store.Store
	prompt Prompter
	out    io.Writer
	render Renderer
	logger *slog.Logger
}

// Option configures a Menu
type Option func(*Menu)

// WithRenderer sets how descriptions are displayed by "Show"
func WithRenderer(r Renderer) Option {
	return func(m *Menu) { m.render = r }
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(m *Menu) { m.logger = l }
}

// New creates a Menu
func New(s *store.Store, p Prompter, out io.Writer, opts ...Option) *Menu {
	m := &Menu{
		store:  s,
		prompt: p,
		out:    out,
		render: PlainRenderer(DefaultWidth),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Run loops until the user exits or input ends. Not-found ids, invalid
// input and validation failures are reported and the loop continues; any
// other error ends the loop and is returned.
func (m *Menu) Run() error {
	for {
		choice, err := m.prompt.Choose(Title, Choices)
		if errors.Is(err, io.EOF) {
			m.println()
			m.println("Goodbye!")
			return nil
		}
		if err != nil {
			return fmt.Errorf("read menu choice: %w", err)
		}

		m.logger.Debug("menu choice", "choice", choice)
		switch strings.TrimSpace(choice) {
		case "1":
			err = m.add()
		case "2":
			err = m.list()
		case "3":
			err = m.withID(m.show)
		case "4":
			err = m.withID(m.vote)
		case "5":
			err = m.withID(m.resolve)
		case "6":
			err = m.withID(m.remove)
		case "0":
			m.println("Goodbye!")
			return nil
		default:
			m.println("Please choose a valid option.")
		}

		if errors.Is(err, io.EOF) {
			m.println()
			m.println("Goodbye!")
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (m *Menu) println(a ...any) {
	_, _ = fmt.Fprintln(m.out, a...)
}

func (m *Menu) printf(format string, a ...any) {
	_, _ = fmt.Fprintf(m.out, format, a...)
}

// add re-prompts until the store accepts the input
func (m *Menu) add() error {
	for {
		title, err := m.prompt.Ask("Title: ")
		if err != nil {
			return err
		}
		description, err := m.prompt.Ask("Description: ")
		if err != nil {
			return err
		}
		author, err := m.prompt.Ask("Author: ")
		if err != nil {
			return err
		}

		g, err := m.store.Add(title, description, author)
		var verr *store.ValidationError
		if errors.As(err, &verr) {
			m.printf("Error: %s.\n", verr)
			continue
		}
		if err != nil {
			return err
		}
		m.printf("Added grievance #%d: %s\n", g.ID, g.Title)
		return nil
	}
}

func (m *Menu) list() error {
	rawStatus, err := m.prompt.Ask("Filter by status (open/resolved or blank): ")
	if err != nil {
		return err
	}
	rawSort, err := m.prompt.Ask("Sort by (date/votes, default date): ")
	if err != nil {
		return err
	}

	// Unrecognized answers fall back to no filter and date order.
	status, err := model.ParseStatus(rawStatus)
	if err != nil {
		status = ""
	}
	sortBy := model.SortDate
	if strings.EqualFold(strings.TrimSpace(rawSort), string(model.SortVotes)) {
		sortBy = model.SortVotes
	}

	grievances, err := m.store.List(status, sortBy)
	if err != nil {
		return err
	}
	if len(grievances) == 0 {
		m.println("No grievances found.")
		return nil
	}
	for _, g := range grievances {
		m.println(FormatListLine(g))
	}
	return nil
}

// withID asks for an id and hands it to action. A non-numeric answer is
// reported without calling action.
func (m *Menu) withID(action func(id int) error) error {
	raw, err := m.prompt.Ask("Enter id: ")
	if err != nil {
		return err
	}
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		m.println("Invalid id.")
		return nil
	}

	err = action(id)
	if errors.Is(err, store.ErrNotFound) {
		m.printf("Grievance #%d not found.\n", id)
		return nil
	}
	return err
}

func (m *Menu) show(id int) error {
	g, err := m.store.Get(id)
	if err != nil {
		return err
	}
	m.printf("%s", FormatDetails(g, m.render))
	return nil
}

func (m *Menu) vote(id int) error {
	raw, err := m.prompt.Ask("Vote type (up/down): ")
	if err != nil {
		return err
	}
	direction, err := model.ParseVoteDirection(raw)
	if err != nil {
		m.println("Invalid vote type.")
		return nil
	}

	g, err := m.store.Vote(id, direction)
	if err != nil {
		return err
	}
	m.printf("Voted %s on grievance #%d. (up: %d, down: %d)\n", direction, id, g.Upvotes, g.Downvotes)
	return nil
}

func (m *Menu) resolve(id int) error {
	if _, err := m.store.Resolve(id); err != nil {
		return err
	}
	m.printf("Grievance #%d marked as resolved.\n", id)
	return nil
}

func (m *Menu) remove(id int) error {
	if _, err := m.store.Delete(id); err != nil {
		return err
	}
	m.printf("Deleted grievance #%d.\n", id)
	return nil
}
