// Package search ranks grievances against a free-text query.
package search

import (
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/Dicklesworthstone/gv/pkg/model"
)

// Result is a grievance matched by a query
type Result struct {
	Grievance model.Grievance
	Score     int
}

// grievanceSource adapts a slice of grievances to fuzzy.Source
type grievanceSource []model.Grievance

func (s grievanceSource) String(i int) string {
	return SearchText(s[i])
}

func (s grievanceSource) Len() int {
	return len(s)
}

// SearchText is the string a grievance is matched against
func SearchText(g model.Grievance) string {
	return g.Title + " " + g.Author + " " + g.Description
}

// Find returns grievances matching query, best match first.
// A blank query matches nothing.
func Find(query string, grievances []model.Grievance) []Result {
	query = strings.TrimSpace(query)
	if query == "" || len(grievances) == 0 {
		return []Result{}
	}

	matches := fuzzy.FindFrom(query, grievanceSource(grievances))

	results := make([]Result, 0, len(matches))
	for _, match := range matches {
		results = append(results, Result{
			Grievance: grievances[match.Index],
			Score:     match.Score,
		})
	}
	return results
}

// Grievances strips the scores from a result list
func Grievances(results []Result) []model.Grievance {
	out := make([]model.Grievance, len(results))
	for i, r := range results {
		out[i] = r.Grievance
	}
	return out
}
