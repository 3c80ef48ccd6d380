package tensor

import (
	"errors"
	"fmt"
)

// Error categories shared by tensors and layers.
//
// Every error returned by this module matches exactly one of these via errors.Is.
var (
	ErrShape            = errors.New("shape mismatch")
	ErrIndex            = errors.New("index out of range")
	ErrInvalidParameter = errors.New("invalid parameter")
	ErrInvalidGeometry  = errors.New("invalid geometry")
)

// ShapeError reports a rank or dimension mismatch between a tensor and
// the expectations of the operation consuming it.
type ShapeError struct {
	Op     string // Operation that rejected the shape (e.g. "conv2d")
	Dim    int    // Offending axis, or -1 when the rank itself is wrong
	Got    int    // Observed rank or extent
	Want   int    // Expected rank or extent
	Detail string // Optional human-readable qualifier
}

// RankError builds a ShapeError for a rank mismatch. detail may be empty.
func RankError(op string, got, want int, detail string) *ShapeError {
	return &ShapeError{Op: op, Dim: -1, Got: got, Want: want, Detail: detail}
}

// Error implements the error interface.
func (e *ShapeError) Error() string {
	what := "rank"
	if e.Dim >= 0 {
		what = fmt.Sprintf("dimension %d", e.Dim)
	}
	msg := fmt.Sprintf("%s: %s: got %d, want %d", e.Op, what, e.Got, e.Want)
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return msg
}

// Is reports whether target is ErrShape.
func (e *ShapeError) Is(target error) bool {
	return target == ErrShape
}

// IndexError reports a coordinate outside the extent of its axis.
type IndexError struct {
	Axis   int
	Index  int
	Extent int
}

// Error implements the error interface.
func (e *IndexError) Error() string {
	return fmt.Sprintf("tensor index: axis %d: index %d out of range [0, %d)", e.Axis, e.Index, e.Extent)
}

// Is reports whether target is ErrIndex.
func (e *IndexError) Is(target error) bool {
	return target == ErrIndex
}
