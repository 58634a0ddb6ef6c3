package kinship

import (
	"errors"
	"fmt"
)

var (
	ErrPersonNotFound       = errors.New("person not found")
	ErrNoPathFound          = errors.New("no path found")
	ErrUnmappedRelationType = errors.New("unmapped relation type")
	ErrAugmenterUnavailable = errors.New("phrasing augmenter unavailable")
	ErrNoSnapshot           = errors.New("no graph snapshot loaded")
)

// PersonNotFoundError names the id that is absent from the current snapshot.
type PersonNotFoundError struct {
	ID string
}

func (e *PersonNotFoundError) Error() string {
	return fmt.Sprintf("person not found: %q", e.ID)
}

func (e *PersonNotFoundError) Unwrap() error { return ErrPersonNotFound }

func personNotFound(id string) error { return &PersonNotFoundError{ID: id} }
