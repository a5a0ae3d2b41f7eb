// Package history keeps an optional SQLite log of grievance mutations,
// grouped into one session per program run.
package history

import (
	"log/slog"
	"path/filepath"

	"github.com/Dicklesworthstone/gv/pkg/model"
)

// DBFileName is the activity database stored next to the data file
const DBFileName = "history.db"

// SessionManager handles session lifecycle and records events into it
type SessionManager struct {
	db      *DB
	session *model.Session
	logger  *slog.Logger
}

// NewSessionManager opens the database and starts a session
func NewSessionManager(dbPath, driver string, logger *slog.Logger) (*SessionManager, error) {
	db, err := OpenDB(dbPath, driver)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	session, err := db.StartSession()
	if err != nil {
		db.Close()
		return nil, err
	}

	return &SessionManager{
		db:      db,
		session: session,
		logger:  logger,
	}, nil
}

// CurrentSession returns the active session
func (sm *SessionManager) CurrentSession() *model.Session {
	return sm.session
}

// Record stores an event under the current session and updates its counters.
// It satisfies store.Recorder.
func (sm *SessionManager) Record(event model.Event) error {
	event.SessionID = sm.session.ID
	if err := sm.db.RecordEvent(&event); err != nil {
		return err
	}

	sm.session.Count(event.Action)
	if err := sm.db.UpdateSessionCounters(sm.session); err != nil {
		sm.logger.Warn("failed to update session counters", "session", sm.session.ID, "error", err)
	}
	return nil
}

// EventsForGrievance returns the recorded history of one grievance
func (sm *SessionManager) EventsForGrievance(id int) ([]model.Event, error) {
	return sm.db.EventsForGrievance(id)
}

// RecentEvents returns the newest events across all sessions
func (sm *SessionManager) RecentEvents(limit int) ([]model.Event, error) {
	return sm.db.RecentEvents(limit)
}

// Close completes the session and closes the database
func (sm *SessionManager) Close() error {
	if err := sm.db.CompleteSession(sm.session); err != nil {
		sm.logger.Warn("failed to complete session", "session", sm.session.ID, "error", err)
	}
	return sm.db.Close()
}

// DefaultDBPath returns the database path beside the given data file
func DefaultDBPath(dataPath string) string {
	return filepath.Join(filepath.Dir(dataPath), DBFileName)
}

// TryOpen attempts to start a session, logging errors but not failing
func TryOpen(dbPath, driver string, logger *slog.Logger) *SessionManager {
	if logger == nil {
		logger = slog.Default()
	}
	sm, err := NewSessionManager(dbPath, driver, logger)
	if err != nil {
		logger.Warn("could not open history database", "path", dbPath, "error", err)
		return nil
	}
	return sm
}
