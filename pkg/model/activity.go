package model

import "time"

// Event represents a single recorded mutation of the grievance file
type Event struct {
	ID          int64     `json:"id"`
	GrievanceID int       `json:"grievance_id"`
	Action      string    `json:"action"` // add, vote_up, vote_down, resolve, delete
	Title       string    `json:"title"`
	Detail      string    `json:"detail,omitempty"`
	SessionID   int64     `json:"session_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Session groups the events of one program run
type Session struct {
	ID            int64      `json:"id"`
	StartedAt     time.Time  `json:"started_at"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	ItemsAdded    int        `json:"items_added"`
	VotesCast     int        `json:"votes_cast"`
	ItemsResolved int        `json:"items_resolved"`
	ItemsDeleted  int        `json:"items_deleted"`
}

// Event actions
const (
	ActionAdd      = "add"
	ActionVoteUp   = "vote_up"
	ActionVoteDown = "vote_down"
	ActionResolve  = "resolve"
	ActionDelete   = "delete"
)

// IsValidAction checks if an event action is valid
func IsValidAction(action string) bool {
	switch action {
	case ActionAdd, ActionVoteUp, ActionVoteDown, ActionResolve, ActionDelete:
		return true
	}
	return false
}

// VoteAction maps a vote direction onto its event action
func VoteAction(d VoteDirection) string {
	if d == VoteDown {
		return ActionVoteDown
	}
	return ActionVoteUp
}

// Count applies an event to the session counters
func (s *Session) Count(action string) {
	switch action {
	case ActionAdd:
		s.ItemsAdded++
	case ActionVoteUp, ActionVoteDown:
		s.VotesCast++
	case ActionResolve:
		s.ItemsResolved++
	case ActionDelete:
		s.ItemsDeleted++
	}
}
