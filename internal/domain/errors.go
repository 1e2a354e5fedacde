package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound reports a lookup for an id that is not in the current dataset.
var ErrNotFound = errors.New("listing not found")

// LoadError describes a source file the loader could not parse. The message
// is user-facing: the display surface shows it next to the failed section.
type LoadError struct {
	File string // base name, e.g. "stays.json"
	Line int
	Col  int
	Msg  string
}

func (e *LoadError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s has invalid JSON at line %d, column %d: %s", e.File, e.Line, e.Col, e.Msg)
	}
	return fmt.Sprintf("%s could not be loaded: %s", e.File, e.Msg)
}
