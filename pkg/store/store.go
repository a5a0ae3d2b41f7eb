// Package store persists grievances as a single JSON array on disk.
//
// Every operation loads the whole file, works on the in-memory slice and, for
// mutations, writes the whole slice back. There is no locking: two processes
// mutating the same file concurrently can lose each other's changes.
package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Dicklesworthstone/gv/pkg/loader"
	"github.com/Dicklesworthstone/gv/pkg/model"
)

// Store is the file-backed grievance collection.
type Store struct {
	path   string
	config storeConfig
}

// New creates a Store backed by the JSON file at path.
func New(path string, opts ...Option) *Store {
	cfg := defaultStoreConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Store{path: path, config: cfg}
}

// Path returns the backing file.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) logger() *slog.Logger {
	if s.config.logger != nil {
		return s.config.logger
	}
	return slog.Default()
}

// Load reads the full collection. A missing file is created empty along with
// its directory. Undecodable content fails with ErrCorruptData.
func (s *Store) Load() ([]model.Grievance, error) {
	grievances, err := loader.LoadGrievancesFromFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		if err := s.Save(nil); err != nil {
			return nil, err
		}
		return []model.Grievance{}, nil
	}
	if err != nil {
		return nil, err
	}
	return grievances, nil
}

// Save serializes the full collection, replacing the file.
func (s *Store) Save(grievances []model.Grievance) error {
	if grievances == nil {
		grievances = []model.Grievance{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(grievances); err != nil {
		return fmt.Errorf("failed to marshal grievances: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), s.config.dirPerm); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	if err := writeFileAtomic(s.path, bytes.TrimRight(buf.Bytes(), "\n"), s.config.filePerm); err != nil {
		return fmt.Errorf("failed to write grievances file: %w", err)
	}
	return nil
}

// read is Load with the corrupt-file policy applied. corrupt reports that the
// returned empty collection stands in for an undecodable file.
func (s *Store) read() (grievances []model.Grievance, corrupt bool, err error) {
	grievances, err = s.Load()
	if err == nil {
		return grievances, false, nil
	}
	if !errors.Is(err, ErrCorruptData) || !s.config.recoverCorrupt {
		return nil, false, err
	}
	s.logger().Warn("data file is corrupt, continuing with an empty collection",
		"path", s.path, "error", err)
	return []model.Grievance{}, true, nil
}

// quarantine moves a corrupt data file aside so the next save does not destroy it.
func (s *Store) quarantine() error {
	base := fmt.Sprintf("%s.corrupt-%d", s.path, s.config.now().Unix())
	aside := base
	for n := 1; ; n++ {
		_, err := os.Lstat(aside)
		if errors.Is(err, fs.ErrNotExist) {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to move corrupt data file aside: %w", err)
		}
		aside = fmt.Sprintf("%s-%d", base, n)
	}
	if err := os.Rename(s.path, aside); err != nil {
		return fmt.Errorf("failed to move corrupt data file aside: %w", err)
	}
	s.logger().Warn("corrupt data file preserved", "path", aside)
	return nil
}

// mutate runs one load → apply → save cycle. apply reports whether anything
// changed; an unchanged collection is not written.
func (s *Store) mutate(apply func([]model.Grievance) ([]model.Grievance, *model.Event, error)) error {
	grievances, corrupt, err := s.read()
	if err != nil {
		return err
	}

	next, event, err := apply(grievances)
	if err != nil {
		return err
	}
	if event == nil {
		return nil
	}

	if corrupt {
		if err := s.quarantine(); err != nil {
			return err
		}
	}
	if err := s.Save(next); err != nil {
		return err
	}

	event.CreatedAt = s.config.now()
	s.record(*event)
	return nil
}

func (s *Store) record(event model.Event) {
	if s.config.recorder == nil {
		return
	}
	if err := s.config.recorder.Record(event); err != nil {
		s.logger().Warn("failed to record activity",
			"action", event.Action, "grievance", event.GrievanceID, "error", err)
	}
}

// Add appends a new open grievance with the next id.
func (s *Store) Add(title, description, author string) (model.Grievance, error) {
	in := newGrievanceInput{Title: title, Description: description, Author: author}
	in.normalize()
	if err := in.check(); err != nil {
		return model.Grievance{}, err
	}

	var created model.Grievance
	err := s.mutate(func(grievances []model.Grievance) ([]model.Grievance, *model.Event, error) {
		created = model.Grievance{
			ID:          NextID(grievances),
			Title:       in.Title,
			Description: in.Description,
			Author:      in.Author,
			Status:      model.StatusOpen,
			CreatedAt:   model.NewTimestamp(s.config.now()),
		}
		return append(grievances, created), &model.Event{
			GrievanceID: created.ID,
			Action:      model.ActionAdd,
			Title:       created.Title,
			Detail:      "by " + created.Author,
		}, nil
	})
	if err != nil {
		return model.Grievance{}, err
	}
	return created, nil
}

// List returns the collection filtered to status (when non-empty) and ordered by sortBy.
func (s *Store) List(status model.Status, sortBy model.SortKey) ([]model.Grievance, error) {
	if !status.IsValid() && status != "" {
		return nil, fmt.Errorf("invalid status filter: %s", status)
	}
	if !sortBy.IsValid() {
		return nil, fmt.Errorf("invalid sort key: %s", sortBy)
	}

	grievances, _, err := s.read()
	if err != nil {
		return nil, err
	}
	result := FilterByStatus(grievances, status)
	SortGrievances(result, sortBy)
	return result, nil
}

// All returns the collection in insertion order.
func (s *Store) All() ([]model.Grievance, error) {
	return s.List("", model.SortNone)
}

// Get returns the grievance with the given id.
func (s *Store) Get(id int) (model.Grievance, error) {
	grievances, _, err := s.read()
	if err != nil {
		return model.Grievance{}, err
	}
	idx := indexOf(grievances, id)
	if idx < 0 {
		return model.Grievance{}, notFound(id)
	}
	return grievances[idx], nil
}

// Vote increments the up or down counter of a grievance.
func (s *Store) Vote(id int, direction model.VoteDirection) (model.Grievance, error) {
	if !direction.IsValid() {
		return model.Grievance{}, &ValidationError{Fields: []string{"direction"}}
	}

	var updated model.Grievance
	err := s.mutate(func(grievances []model.Grievance) ([]model.Grievance, *model.Event, error) {
		idx := indexOf(grievances, id)
		if idx < 0 {
			return nil, nil, notFound(id)
		}
		g := &grievances[idx]
		if direction == model.VoteUp {
			g.Upvotes++
		} else {
			g.Downvotes++
		}
		updated = *g
		return grievances, &model.Event{
			GrievanceID: id,
			Action:      model.VoteAction(direction),
			Title:       g.Title,
			Detail:      fmt.Sprintf("up %d, down %d", g.Upvotes, g.Downvotes),
		}, nil
	})
	if err != nil {
		return model.Grievance{}, err
	}
	return updated, nil
}

// Resolve marks a grievance resolved. Resolving twice is a no-op and does not
// touch the file.
func (s *Store) Resolve(id int) (model.Grievance, error) {
	var resolved model.Grievance
	err := s.mutate(func(grievances []model.Grievance) ([]model.Grievance, *model.Event, error) {
		idx := indexOf(grievances, id)
		if idx < 0 {
			return nil, nil, notFound(id)
		}
		g := &grievances[idx]
		if g.Status.IsResolved() {
			resolved = *g
			return grievances, nil, nil
		}
		g.Status = model.StatusResolved
		resolved = *g
		return grievances, &model.Event{
			GrievanceID: id,
			Action:      model.ActionResolve,
			Title:       g.Title,
		}, nil
	})
	if err != nil {
		return model.Grievance{}, err
	}
	return resolved, nil
}

// Delete removes a grievance and returns what was removed.
func (s *Store) Delete(id int) (model.Grievance, error) {
	var removed model.Grievance
	err := s.mutate(func(grievances []model.Grievance) ([]model.Grievance, *model.Event, error) {
		idx := indexOf(grievances, id)
		if idx < 0 {
			return nil, nil, notFound(id)
		}
		removed = grievances[idx]
		remaining := make([]model.Grievance, 0, len(grievances)-1)
		remaining = append(remaining, grievances[:idx]...)
		remaining = append(remaining, grievances[idx+1:]...)
		return remaining, &model.Event{
			GrievanceID: id,
			Action:      model.ActionDelete,
			Title:       removed.Title,
		}, nil
	})
	if err != nil {
		return model.Grievance{}, err
	}
	return removed, nil
}

// NextID returns one more than the largest id in use, or 1 for an empty collection.
func NextID(grievances []model.Grievance) int {
	maxID := 0
	for _, g := range grievances {
		if g.ID > maxID {
			maxID = g.ID
		}
	}
	return maxID + 1
}

func indexOf(grievances []model.Grievance, id int) int {
	for i := range grievances {
		if grievances[i].ID == id {
			return i
		}
	}
	return -1
}
