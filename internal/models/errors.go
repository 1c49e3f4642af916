package models

import (
	"errors"
	"fmt"
)

// ErrNoRows indicates the selected sheet has no data rows.
var ErrNoRows = errors.New("no data found for the selected model")

// ErrModelNotFound indicates a hierarchy lookup for an unknown model.
var ErrModelNotFound = errors.New("model hierarchy not found")

// ErrNotLoaded indicates an operation ran before any document was loaded.
var ErrNotLoaded = errors.New("catalog not loaded")

// LoadError is a document fetch or parse failure.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("load catalog: %v", e.Err)
	}
	return fmt.Sprintf("load catalog %q: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
