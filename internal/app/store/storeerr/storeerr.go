// Package storeerr holds the sentinel errors every store returns in place of
// driver-specific ones.
package storeerr

import (
	"errors"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	// ErrNotFound is returned when a lookup or conditional write matched no document.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a write violates a unique index.
	ErrDuplicate = errors.New("duplicate")
)

// Translate maps mongo.ErrNoDocuments to ErrNotFound and duplicate-key
// failures to ErrDuplicate. Other errors pass through unchanged.
func Translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case wafflemongo.IsDup(err):
		return ErrDuplicate
	}
	return err
}
