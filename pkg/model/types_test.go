package model

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestGrievanceScore(t *testing.T) {
	g := Grievance{Upvotes: 3, Downvotes: 5}
	if got := g.Score(); got != -2 {
		t.Errorf("Score() = %d, want -2", got)
	}
}

func TestGrievanceValidate(t *testing.T) {
	tests := []struct {
		name    string
		g       Grievance
		wantErr bool
	}{
		{"valid", Grievance{ID: 1, Title: "Broken AC", Status: StatusOpen}, false},
		{"zero id", Grievance{ID: 0, Title: "x", Status: StatusOpen}, true},
		{"blank title", Grievance{ID: 1, Title: "  ", Status: StatusOpen}, true},
		{"bad status", Grievance{ID: 1, Title: "x", Status: "closed"}, true},
		{"negative votes", Grievance{ID: 1, Title: "x", Status: StatusOpen, Downvotes: -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.g.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    Status
		wantErr bool
	}{
		{"", "", false},
		{"open", StatusOpen, false},
		{" Resolved ", StatusResolved, false},
		{"closed", "", true},
	}

	for _, tt := range tests {
		got, err := ParseStatus(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseStatus(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseStatus(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseVoteDirection(t *testing.T) {
	if d, err := ParseVoteDirection("UP"); err != nil || d != VoteUp {
		t.Errorf("ParseVoteDirection(UP) = %q, %v", d, err)
	}
	if d, err := ParseVoteDirection("down"); err != nil || d != VoteDown {
		t.Errorf("ParseVoteDirection(down) = %q, %v", d, err)
	}
	if _, err := ParseVoteDirection("sideways"); err == nil {
		t.Error("expected error for sideways")
	}
}

func TestParseSortKey(t *testing.T) {
	for _, raw := range []string{"", "date", "date-desc", "votes"} {
		if _, err := ParseSortKey(raw); err != nil {
			t.Errorf("ParseSortKey(%q) unexpected error: %v", raw, err)
		}
	}
	if _, err := ParseSortKey("priority"); err == nil {
		t.Error("expected error for priority")
	}
}

func TestTimestampJSON(t *testing.T) {
	loc := time.FixedZone("CEST", 2*60*60)
	ts := NewTimestamp(time.Date(2026, 10, 15, 9, 30, 0, 123456789, loc))

	data, err := json.Marshal(ts)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(data) != `"2026-10-15T09:30:00+02:00"` {
		t.Fatalf("unexpected encoding: %s", data)
	}

	var back Timestamp
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !back.Equal(ts.Time) {
		t.Errorf("round trip mismatch: %v vs %v", back, ts)
	}
}

func TestTimestampAcceptsZonelessISO(t *testing.T) {
	var g Grievance
	raw := `{"id":1,"title":"t","status":"open","created_at":"2024-03-01T12:34:56"}`
	if err := json.Unmarshal([]byte(raw), &g); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	want := time.Date(2024, 3, 1, 12, 34, 56, 0, time.Local)
	if !g.CreatedAt.Equal(want) {
		t.Errorf("CreatedAt = %v, want %v", g.CreatedAt, want)
	}
}

func TestTimestampRejectsGarbage(t *testing.T) {
	var ts Timestamp
	err := json.Unmarshal([]byte(`"yesterday"`), &ts)
	if err == nil || !strings.Contains(err.Error(), "yesterday") {
		t.Errorf("expected unrecognized error, got %v", err)
	}
}

func TestSessionCount(t *testing.T) {
	var s Session
	for _, a := range []string{ActionAdd, ActionVoteUp, ActionVoteDown, ActionResolve, ActionDelete, "bogus"} {
		s.Count(a)
	}
	if s.ItemsAdded != 1 || s.VotesCast != 2 || s.ItemsResolved != 1 || s.ItemsDeleted != 1 {
		t.Errorf("unexpected counters: %+v", s)
	}
	if !IsValidAction(VoteAction(VoteDown)) || VoteAction(VoteDown) != ActionVoteDown {
		t.Errorf("VoteAction(down) = %q", VoteAction(VoteDown))
	}
}
