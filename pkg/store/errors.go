package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Dicklesworthstone/gv/pkg/loader"
)

// ErrNotFound is returned when no grievance carries the requested id.
var ErrNotFound = errors.New("grievance not found")

// ErrCorruptData is returned when the data file cannot be decoded.
var ErrCorruptData = loader.ErrCorruptData

// notFound wraps ErrNotFound with the id so callers can print it.
func notFound(id int) error {
	return fmt.Errorf("grievance #%d: %w", id, ErrNotFound)
}

// ValidationError lists the input fields that failed validation.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("%s required", strings.Join(e.Fields, ", "))
}
