package analysis

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/Dicklesworthstone/gv/pkg/model"
)

// Summary holds aggregate figures over a grievance collection
type Summary struct {
	Total          int     `json:"total"`
	Open           int     `json:"open"`
	Resolved       int     `json:"resolved"`
	Upvotes        int     `json:"upvotes"`
	Downvotes      int     `json:"downvotes"`
	ResolutionRate float64 `json:"resolution_rate"` // percent of grievances resolved
	MeanScore      float64 `json:"mean_score"`
	MedianScore    float64 `json:"median_score"`
	StdDevScore    float64 `json:"stddev_score"`
	MinScore       int     `json:"min_score"`
	MaxScore       int     `json:"max_score"`

	TopOpen    *model.Grievance `json:"top_open,omitempty"`    // highest score among open
	OldestOpen *model.Grievance `json:"oldest_open,omitempty"` // earliest created_at among open
}

// Summarize computes a Summary. An empty collection yields all zeroes.
func Summarize(grievances []model.Grievance) Summary {
	s := Summary{Total: len(grievances)}
	if len(grievances) == 0 {
		return s
	}

	scores := make([]float64, 0, len(grievances))
	s.MinScore = math.MaxInt
	s.MaxScore = math.MinInt

	for i := range grievances {
		g := grievances[i]
		s.Upvotes += g.Upvotes
		s.Downvotes += g.Downvotes

		score := g.Score()
		scores = append(scores, float64(score))
		if score < s.MinScore {
			s.MinScore = score
		}
		if score > s.MaxScore {
			s.MaxScore = score
		}

		if g.Status.IsResolved() {
			s.Resolved++
			continue
		}
		s.Open++
		if s.TopOpen == nil || score > s.TopOpen.Score() || (score == s.TopOpen.Score() && g.ID < s.TopOpen.ID) {
			s.TopOpen = &grievances[i]
		}
		if s.OldestOpen == nil || g.CreatedAt.Before(s.OldestOpen.CreatedAt.Time) ||
			(g.CreatedAt.Equal(s.OldestOpen.CreatedAt.Time) && g.ID < s.OldestOpen.ID) {
			s.OldestOpen = &grievances[i]
		}
	}

	s.ResolutionRate = float64(s.Resolved) / float64(s.Total) * 100

	sort.Float64s(scores)
	s.MedianScore = median(scores)
	if len(scores) > 1 {
		s.MeanScore, s.StdDevScore = stat.MeanStdDev(scores, nil)
	} else {
		s.MeanScore = scores[0]
	}

	return s
}

// median expects sorted input
func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	// Empirical quantile picks the lower middle; average both middles instead.
	lower := stat.Quantile(0.5, stat.Empirical, sorted, nil)
	return (lower + sorted[n/2]) / 2
}
