package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"

	"github.com/Dicklesworthstone/gv/pkg/model"
)

// Supported database/sql driver names
const (
	DriverCGo  = "sqlite3" // github.com/mattn/go-sqlite3
	DriverPure = "sqlite"  // modernc.org/sqlite
)

// DefaultDriver is used when no driver is configured
const DefaultDriver = DriverCGo

// IsValidDriver checks if a driver name is supported
func IsValidDriver(driver string) bool {
	return driver == DriverCGo || driver == DriverPure
}

// timeLayout keeps timestamps portable across both drivers, which disagree on
// how DATETIME columns round-trip.
const timeLayout = time.RFC3339Nano

// DB handles activity persistence
type DB struct {
	db *sql.DB
}

// OpenDB opens or creates the activity database at the given path
func OpenDB(dbPath, driver string) (*DB, error) {
	if driver == "" {
		driver = DefaultDriver
	}
	if !IsValidDriver(driver) {
		return nil, fmt.Errorf("unsupported sqlite driver: %s", driver)
	}

	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open(driver, dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	hdb := &DB{db: db}
	if err := hdb.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return hdb, nil
}

// Close closes the database connection
func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		grievance_id INTEGER NOT NULL,
		action TEXT NOT NULL,
		title TEXT DEFAULT '',
		detail TEXT DEFAULT '',
		session_id INTEGER DEFAULT 0,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_events_grievance_id ON events(grievance_id);

	CREATE TABLE IF NOT EXISTS sessions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		started_at TEXT NOT NULL,
		completed_at TEXT,
		items_added INTEGER DEFAULT 0,
		votes_cast INTEGER DEFAULT 0,
		items_resolved INTEGER DEFAULT 0,
		items_deleted INTEGER DEFAULT 0
	);
	`

	_, err := d.db.Exec(schema)
	return err
}

// RecordEvent inserts a new event record
func (d *DB) RecordEvent(e *model.Event) error {
	if !model.IsValidAction(e.Action) {
		return fmt.Errorf("invalid event action: %s", e.Action)
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}

	result, err := d.db.Exec(`
		INSERT INTO events (grievance_id, action, title, detail, session_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, e.GrievanceID, e.Action, e.Title, e.Detail, e.SessionID, e.CreatedAt.Format(timeLayout))
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = id
	return nil
}

// EventsForGrievance returns all events for a given grievance, newest first
func (d *DB) EventsForGrievance(grievanceID int) ([]model.Event, error) {
	return d.queryEvents(`
		SELECT id, grievance_id, action, title, detail, session_id, created_at
		FROM events
		WHERE grievance_id = ?
		ORDER BY id DESC
	`, grievanceID)
}

// RecentEvents returns up to limit events, newest first
func (d *DB) RecentEvents(limit int) ([]model.Event, error) {
	if limit <= 0 {
		return []model.Event{}, nil
	}
	return d.queryEvents(`
		SELECT id, grievance_id, action, title, detail, session_id, created_at
		FROM events
		ORDER BY id DESC
		LIMIT ?
	`, limit)
}

func (d *DB) queryEvents(query string, args ...any) ([]model.Event, error) {
	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []model.Event{}
	for rows.Next() {
		var e model.Event
		var createdAt string
		if err := rows.Scan(&e.ID, &e.GrievanceID, &e.Action, &e.Title, &e.Detail, &e.SessionID, &createdAt); err != nil {
			return nil, err
		}
		if e.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
			return nil, fmt.Errorf("event %d: bad created_at: %w", e.ID, err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// StartSession creates a new session
func (d *DB) StartSession() (*model.Session, error) {
	now := time.Now()
	result, err := d.db.Exec(`
		INSERT INTO sessions (started_at)
		VALUES (?)
	`, now.Format(timeLayout))
	if err != nil {
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return &model.Session{
		ID:        id,
		StartedAt: now,
	}, nil
}

// UpdateSessionCounters updates the counters for a session
func (d *DB) UpdateSessionCounters(s *model.Session) error {
	_, err := d.db.Exec(`
		UPDATE sessions
		SET items_added = ?, votes_cast = ?, items_resolved = ?, items_deleted = ?
		WHERE id = ?
	`, s.ItemsAdded, s.VotesCast, s.ItemsResolved, s.ItemsDeleted, s.ID)
	return err
}

// CompleteSession marks a session as complete
func (d *DB) CompleteSession(s *model.Session) error {
	now := time.Now()
	s.CompletedAt = &now
	_, err := d.db.Exec(`
		UPDATE sessions
		SET completed_at = ?, items_added = ?, votes_cast = ?, items_resolved = ?, items_deleted = ?
		WHERE id = ?
	`, now.Format(timeLayout), s.ItemsAdded, s.VotesCast, s.ItemsResolved, s.ItemsDeleted, s.ID)
	return err
}

// GetSession retrieves a session by ID
func (d *DB) GetSession(id int64) (*model.Session, error) {
	var s model.Session
	var startedAt string
	var completedAt sql.NullString
	err := d.db.QueryRow(`
		SELECT id, started_at, completed_at, items_added, votes_cast, items_resolved, items_deleted
		FROM sessions
		WHERE id = ?
	`, id).Scan(&s.ID, &startedAt, &completedAt, &s.ItemsAdded, &s.VotesCast, &s.ItemsResolved, &s.ItemsDeleted)
	if err != nil {
		return nil, err
	}
	if s.StartedAt, err = time.Parse(timeLayout, startedAt); err != nil {
		return nil, fmt.Errorf("session %d: bad started_at: %w", id, err)
	}
	if completedAt.Valid {
		t, err := time.Parse(timeLayout, completedAt.String)
		if err != nil {
			return nil, fmt.Errorf("session %d: bad completed_at: %w", id, err)
		}
		s.CompletedAt = &t
	}
	return &s, nil
}
