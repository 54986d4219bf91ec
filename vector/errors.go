package vector

import (
	"errors"
	"fmt"
)

// ErrDimensionMismatch is matched by every DimensionMismatchError via errors.Is.
var ErrDimensionMismatch = errors.New("vector: dimension mismatch")

// DimensionMismatchError reports two vectors (or a vector and an index) of
// different lengths.
type DimensionMismatchError struct {
	Expected int
	Actual   int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("vector: dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

// Is reports whether target is ErrDimensionMismatch.
func (e *DimensionMismatchError) Is(target error) bool { return target == ErrDimensionMismatch }

func mismatch(expected, actual int) error {
	return &DimensionMismatchError{Expected: expected, Actual: actual}
}
