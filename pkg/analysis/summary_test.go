package analysis

import (
	"math"
	"testing"
	"time"

	"github.com/Dicklesworthstone/gv/pkg/model"
)

func ts(day int) model.Timestamp {
	return model.NewTimestamp(time.Date(2026, 1, day, 0, 0, 0, 0, time.UTC))
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)
	if s != (Summary{}) {
		t.Errorf("expected zero summary, got %+v", s)
	}
}

func TestSummarize_SingleGrievance(t *testing.T) {
	s := Summarize([]model.Grievance{{ID: 1, Status: model.StatusOpen, Upvotes: 3, CreatedAt: ts(1)}})
	if s.MeanScore != 3 || s.MedianScore != 3 || s.StdDevScore != 0 {
		t.Errorf("unexpected stats: %+v", s)
	}
	if s.TopOpen == nil || s.TopOpen.ID != 1 {
		t.Errorf("TopOpen = %v", s.TopOpen)
	}
}

func TestSummarize(t *testing.T) {
	grievances := []model.Grievance{
		{ID: 1, Status: model.StatusOpen, Upvotes: 4, Downvotes: 1, CreatedAt: ts(3)},     // +3
		{ID: 2, Status: model.StatusResolved, Upvotes: 10, Downvotes: 0, CreatedAt: ts(1)}, // +10
		{ID: 3, Status: model.StatusOpen, Upvotes: 0, Downvotes: 2, CreatedAt: ts(2)},     // -2
		{ID: 4, Status: model.StatusOpen, Upvotes: 3, Downvotes: 0, CreatedAt: ts(5)},     // +3
	}

	s := Summarize(grievances)

	if s.Total != 4 || s.Open != 3 || s.Resolved != 1 {
		t.Errorf("counts = %d/%d/%d", s.Total, s.Open, s.Resolved)
	}
	if s.Upvotes != 17 || s.Downvotes != 3 {
		t.Errorf("votes = %d/%d", s.Upvotes, s.Downvotes)
	}
	if s.ResolutionRate != 25 {
		t.Errorf("ResolutionRate = %v", s.ResolutionRate)
	}
	if s.MinScore != -2 || s.MaxScore != 10 {
		t.Errorf("min/max = %d/%d", s.MinScore, s.MaxScore)
	}
	if math.Abs(s.MeanScore-3.5) > 1e-9 {
		t.Errorf("MeanScore = %v, want 3.5", s.MeanScore)
	}
	if s.MedianScore != 3 {
		t.Errorf("MedianScore = %v, want 3", s.MedianScore)
	}
	if s.StdDevScore <= 0 {
		t.Errorf("StdDevScore = %v, want > 0", s.StdDevScore)
	}
	// 1 and 4 tie at +3 among open; lower id wins
	if s.TopOpen == nil || s.TopOpen.ID != 1 {
		t.Errorf("TopOpen = %+v", s.TopOpen)
	}
	if s.OldestOpen == nil || s.OldestOpen.ID != 3 {
		t.Errorf("OldestOpen = %+v", s.OldestOpen)
	}
}

func TestMedianEvenCount(t *testing.T) {
	if got := median([]float64{1, 2, 3, 4}); got != 2.5 {
		t.Errorf("median = %v, want 2.5", got)
	}
}
