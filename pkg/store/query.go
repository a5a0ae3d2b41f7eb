package store

import (
	"sort"

	"github.com/Dicklesworthstone/gv/pkg/model"
)

// FilterByStatus returns a new slice holding the grievances with the given
// status. An empty status keeps everything.
func FilterByStatus(grievances []model.Grievance, status model.Status) []model.Grievance {
	result := make([]model.Grievance, 0, len(grievances))
	for _, g := range grievances {
		if status == "" || g.Status == status {
			result = append(result, g)
		}
	}
	return result
}

// SortGrievances orders grievances in place. Ties always break on id ascending,
// so every key yields a deterministic order. SortNone leaves the slice alone.
func SortGrievances(grievances []model.Grievance, key model.SortKey) {
	var less func(a, b model.Grievance) bool
	switch key {
	case model.SortDate:
		less = func(a, b model.Grievance) bool {
			if !a.CreatedAt.Equal(b.CreatedAt.Time) {
				return a.CreatedAt.Before(b.CreatedAt.Time)
			}
			return a.ID < b.ID
		}
	case model.SortDateDesc:
		less = func(a, b model.Grievance) bool {
			if !a.CreatedAt.Equal(b.CreatedAt.Time) {
				return a.CreatedAt.After(b.CreatedAt.Time)
			}
			return a.ID < b.ID
		}
	case model.SortVotes:
		less = func(a, b model.Grievance) bool {
			if a.Score() != b.Score() {
				return a.Score() > b.Score()
			}
			return a.ID < b.ID
		}
	default:
		return
	}

	sort.Slice(grievances, func(i, j int) bool {
		return less(grievances[i], grievances[j])
	})
}
