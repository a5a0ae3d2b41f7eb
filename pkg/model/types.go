package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Grievance represents a single submitted complaint
type Grievance struct {
	ID          int       `json:"id" jsonschema:"minimum=1"`
	Title       string    `json:"title" jsonschema:"minLength=1"`
	Description string    `json:"description"`
	Author      string    `json:"author" jsonschema:"minLength=1"`
	Status      Status    `json:"status"`
	Upvotes     int       `json:"upvotes" jsonschema:"minimum=0"`
	Downvotes   int       `json:"downvotes" jsonschema:"minimum=0"`
	CreatedAt   Timestamp `json:"created_at"`
}

// Score is upvotes minus downvotes
func (g Grievance) Score() int {
	return g.Upvotes - g.Downvotes
}

// Validate checks if the grievance data is logically valid
func (g *Grievance) Validate() error {
	if g.ID <= 0 {
		return fmt.Errorf("grievance ID must be positive, got %d", g.ID)
	}
	if strings.TrimSpace(g.Title) == "" {
		return fmt.Errorf("grievance title cannot be empty")
	}
	if !g.Status.IsValid() {
		return fmt.Errorf("invalid status: %s", g.Status)
	}
	if g.Upvotes < 0 || g.Downvotes < 0 {
		return fmt.Errorf("vote counters cannot be negative (up %d, down %d)", g.Upvotes, g.Downvotes)
	}
	return nil
}

// Status represents the lifecycle state of a grievance
type Status string

const (
	StatusOpen     Status = "open"
	StatusResolved Status = "resolved"
)

// IsValid returns true if the status is a recognized value
func (s Status) IsValid() bool {
	switch s {
	case StatusOpen, StatusResolved:
		return true
	}
	return false
}

// IsOpen returns true if the grievance still awaits resolution
func (s Status) IsOpen() bool {
	return s == StatusOpen
}

// IsResolved returns true if the status represents a resolved grievance
func (s Status) IsResolved() bool {
	return s == StatusResolved
}

// ParseStatus maps user input onto a Status. Blank input yields "" (no filter).
func ParseStatus(raw string) (Status, error) {
	s := Status(strings.ToLower(strings.TrimSpace(raw)))
	if s == "" || s.IsValid() {
		return s, nil
	}
	return "", fmt.Errorf("invalid status %q (expected open|resolved)", raw)
}

// VoteDirection selects which counter a vote increments
type VoteDirection string

const (
	VoteUp   VoteDirection = "up"
	VoteDown VoteDirection = "down"
)

// IsValid returns true if the direction is a recognized value
func (d VoteDirection) IsValid() bool {
	return d == VoteUp || d == VoteDown
}

// ParseVoteDirection maps user input onto a VoteDirection
func ParseVoteDirection(raw string) (VoteDirection, error) {
	d := VoteDirection(strings.ToLower(strings.TrimSpace(raw)))
	if !d.IsValid() {
		return "", fmt.Errorf("invalid vote direction %q (expected up|down)", raw)
	}
	return d, nil
}

// SortKey selects the display order of a listing
type SortKey string

const (
	SortNone     SortKey = ""
	SortDate     SortKey = "date"
	SortDateDesc SortKey = "date-desc"
	SortVotes    SortKey = "votes"
)

// IsValid returns true if the sort key is a recognized value
func (k SortKey) IsValid() bool {
	switch k {
	case SortNone, SortDate, SortDateDesc, SortVotes:
		return true
	}
	return false
}

// ParseSortKey maps user input onto a SortKey
func ParseSortKey(raw string) (SortKey, error) {
	k := SortKey(strings.ToLower(strings.TrimSpace(raw)))
	if !k.IsValid() {
		return "", fmt.Errorf("invalid sort %q (expected date|date-desc|votes)", raw)
	}
	return k, nil
}

// timestampLayout is what gets written back to disk. New stamps are whole
// seconds; loaded ones keep whatever precision they were read with.
const timestampLayout = time.RFC3339Nano

// legacyLayouts are zone-less ISO forms produced by older tooling.
var legacyLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// Timestamp is a creation time serialized as RFC 3339
type Timestamp struct {
	time.Time
}

// NewTimestamp truncates t to whole seconds
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.Truncate(time.Second)}
}

// MarshalJSON implements json.Marshaler
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte(`""`), nil
	}
	return json.Marshal(t.Time.Format(timestampLayout))
}

// UnmarshalJSON implements json.Unmarshaler
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("created_at must be a string: %w", err)
	}
	parsed, err := ParseTimestamp(raw)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParseTimestamp accepts RFC 3339 and zone-less ISO timestamps (read as local time)
func ParseTimestamp(raw string) (Timestamp, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Timestamp{}, nil
	}
	if ts, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return Timestamp{Time: ts}, nil
	}
	for _, layout := range legacyLayouts {
		if ts, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return Timestamp{Time: ts}, nil
		}
	}
	return Timestamp{}, fmt.Errorf("unrecognized created_at %q", raw)
}

// String renders the timestamp the way it is stored
func (t Timestamp) String() string {
	if t.IsZero() {
		return ""
	}
	return t.Time.Format(timestampLayout)
}
