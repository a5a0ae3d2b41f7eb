package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Dicklesworthstone/gv/pkg/analysis"
	"github.com/Dicklesworthstone/gv/pkg/export"
	"github.com/Dicklesworthstone/gv/pkg/menu"
	"github.com/Dicklesworthstone/gv/pkg/model"
	"github.com/Dicklesworthstone/gv/pkg/search"
	"github.com/Dicklesworthstone/gv/pkg/store"
)

// notFoundError prints the same message the menu uses
type notFoundError struct{ id int }

func (e *notFoundError) Error() string {
	return fmt.Sprintf("Grievance #%d not found.", e.id)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printLines(w io.Writer, grievances []model.Grievance) {
	if len(grievances) == 0 {
		fmt.Fprintln(w, "No grievances found.")
		return
	}
	for _, g := range grievances {
		fmt.Fprintln(w, menu.FormatListLine(g))
	}
}

func cmdList(e *env) error {
	grievances, err := e.store.List(e.opts.status, e.opts.sortBy)
	if err != nil {
		return err
	}
	if e.opts.json {
		return export.Write(e.stdout, export.FormatJSON, grievances)
	}
	printLines(e.stdout, grievances)
	return nil
}

func cmdShow(e *env) error {
	g, err := e.store.Get(e.opts.showID)
	if errors.Is(err, store.ErrNotFound) {
		return &notFoundError{id: e.opts.showID}
	}
	if err != nil {
		return err
	}
	if e.opts.json {
		return writeJSON(e.stdout, g)
	}
	fmt.Fprint(e.stdout, menu.FormatDetails(g, descriptionRenderer(e)))

	if e.history != nil {
		events, err := e.history.EventsForGrievance(g.ID)
		if err != nil {
			e.logger.Warn("failed to read history", "grievance", g.ID, "error", err)
			return nil
		}
		printEvents(e.stdout, events)
	}
	return nil
}

func cmdSearch(e *env) error {
	grievances, err := e.store.List(e.opts.status, model.SortNone)
	if err != nil {
		return err
	}
	matches := search.Grievances(search.Find(e.opts.query, grievances))
	if e.opts.json {
		return export.Write(e.stdout, export.FormatJSON, matches)
	}
	printLines(e.stdout, matches)
	return nil
}

func cmdStats(e *env) error {
	grievances, err := e.store.List(e.opts.status, model.SortNone)
	if err != nil {
		return err
	}
	s := analysis.Summarize(grievances)
	if e.opts.json {
		return writeJSON(e.stdout, s)
	}

	w := e.stdout
	fmt.Fprintf(w, "Grievances: %d (open %d, resolved %d, %.1f%% resolved)\n", s.Total, s.Open, s.Resolved, s.ResolutionRate)
	fmt.Fprintf(w, "Votes: %d up, %d down\n", s.Upvotes, s.Downvotes)
	if s.Total > 0 {
		fmt.Fprintf(w, "Score: mean %.2f, median %.2f, stddev %.2f, range %+d..%+d\n",
			s.MeanScore, s.MedianScore, s.StdDevScore, s.MinScore, s.MaxScore)
	}
	if s.TopOpen != nil {
		fmt.Fprintf(w, "Top open: #%d %s (%+d)\n", s.TopOpen.ID, s.TopOpen.Title, s.TopOpen.Score())
	}
	if s.OldestOpen != nil {
		fmt.Fprintf(w, "Oldest open: #%d %s (%s)\n", s.OldestOpen.ID, s.OldestOpen.Title, s.OldestOpen.CreatedAt)
	}
	return nil
}

func cmdExport(e *env) error {
	grievances, err := e.store.List(e.opts.status, e.opts.sortBy)
	if err != nil {
		return err
	}
	if err := export.ExportFile(e.opts.export, e.opts.format, grievances); err != nil {
		return err
	}
	fmt.Fprintf(e.stdout, "Exported %d grievances to %s\n", len(grievances), e.opts.export)
	return nil
}

func cmdSchema(e *env) error {
	raw, err := export.Schema()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(e.stdout, string(raw))
	return err
}

// cmdCheck validates the raw file without the store's recovery, so a
// corrupt file is reported rather than replaced
func cmdCheck(e *env) error {
	data, err := os.ReadFile(e.store.Path())
	if errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(e.stdout, "%s does not exist yet\n", e.store.Path())
		return nil
	}
	if err != nil {
		return fmt.Errorf("read data file: %w", err)
	}
	if err := export.Validate(data); err != nil {
		return fmt.Errorf("%s: %w: %v", e.store.Path(), store.ErrCorruptData, err)
	}
	grievances, err := e.store.Load()
	if err != nil {
		return err
	}
	for i := range grievances {
		if err := grievances[i].Validate(); err != nil {
			return fmt.Errorf("%s: record %d: %w", e.store.Path(), i, err)
		}
	}
	fmt.Fprintf(e.stdout, "OK: %d grievances\n", len(grievances))
	return nil
}

func cmdActivity(e *env) error {
	if e.history == nil {
		return errors.New("history database unavailable")
	}
	events, err := e.history.RecentEvents(e.opts.activity)
	if err != nil {
		return fmt.Errorf("read history: %w", err)
	}
	if e.opts.json {
		return writeJSON(e.stdout, events)
	}
	if len(events) == 0 {
		fmt.Fprintln(e.stdout, "No activity recorded.")
		return nil
	}
	for _, ev := range events {
		fmt.Fprintf(e.stdout, "%s  #%-4d %-9s %s", ev.CreatedAt.Local().Format("2006-01-02 15:04:05"), ev.GrievanceID, ev.Action, ev.Title)
		if ev.Detail != "" {
			fmt.Fprintf(e.stdout, " (%s)", ev.Detail)
		}
		fmt.Fprintln(e.stdout)
	}
	return nil
}

func printEvents(w io.Writer, events []model.Event) {
	if len(events) == 0 {
		return
	}
	fmt.Fprintln(w, "History:")
	for _, ev := range events {
		fmt.Fprintf(w, "  %s  %s", ev.CreatedAt.Local().Format("2006-01-02 15:04:05"), ev.Action)
		if ev.Detail != "" {
			fmt.Fprintf(w, " (%s)", ev.Detail)
		}
		fmt.Fprintln(w)
	}
}
