package ui

import (
	"fmt"

	"github.com/Dicklesworthstone/gv/pkg/model"
	"github.com/Dicklesworthstone/gv/pkg/search"
)

// GrievanceItem wraps model.Grievance to implement list.Item
type GrievanceItem struct {
	Grievance model.Grievance
}

func (i GrievanceItem) Title() string {
	return i.Grievance.Title
}

func (i GrievanceItem) Description() string {
	return fmt.Sprintf("#%d %s • %s", i.Grievance.ID, i.Grievance.Status, i.Grievance.Author)
}

func (i GrievanceItem) FilterValue() string {
	return search.SearchText(i.Grievance)
}
