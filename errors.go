package hashgrid

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCellSize is returned when the cell size is not a positive,
	// finite number.
	ErrInvalidCellSize = errors.New("cell size must be positive and finite")

	// ErrInvalidAABB is returned for boxes with non-finite corners or with
	// min greater than max on an axis.
	ErrInvalidAABB = errors.New("invalid AABB")

	// ErrDuplicateID is returned by Insert when the id is already registered.
	ErrDuplicateID = errors.New("id already registered")

	// ErrNotFound is returned by Update when the id is not registered.
	ErrNotFound = errors.New("id not found")

	// ErrTooManyCells is returned when a box would occupy more cells than
	// the grid allows per entry.
	ErrTooManyCells = errors.New("box spans too many cells")

	// ErrBadMagic is returned when the input is not a grid snapshot.
	ErrBadMagic = errors.New("not a grid snapshot")

	// ErrCorruptSnapshot is returned when a snapshot decodes to invalid data.
	ErrCorruptSnapshot = errors.New("corrupt snapshot")
)

// ErrUnsupportedVersion indicates a snapshot written by an incompatible
// format version.
type ErrUnsupportedVersion struct {
	Expected uint16
	Actual   uint16
}

func (e *ErrUnsupportedVersion) Error() string {
	return fmt.Sprintf("unsupported snapshot version: expected %d, got %d", e.Expected, e.Actual)
}

// ErrUnknownCodec indicates a snapshot encoded with a codec that is not
// built in.
type ErrUnknownCodec struct {
	Name string
}

func (e *ErrUnknownCodec) Error() string {
	return fmt.Sprintf("unknown snapshot codec %q", e.Name)
}

// ErrBatch reports the lowest index of a batch whose query was not run.
//
// The original underlying error can be accessed via errors.Unwrap.
type ErrBatch struct {
	Index int
	cause error
}

func (e *ErrBatch) Error() string {
	return fmt.Sprintf("batch query %d: %v", e.Index, e.cause)
}

func (e *ErrBatch) Unwrap() error { return e.cause }
