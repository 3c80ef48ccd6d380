package tensor

import (
	"fmt"
	"strings"
)

// Tensor is a dense float32 buffer viewed through a row-major shape.
//
// The buffer always holds exactly Shape().NumElements() values. Layers never
// share buffers: each forward pass writes into its own output tensor.
//
// Example:
//
//	t, _ := tensor.New(tensor.Shape{3, 4, 4})
//	_ = t.Set(1.5, 0, 2, 3)
//	v, _ := t.At(0, 2, 3) // 1.5
type Tensor struct {
	data    []float32
	shape   Shape
	strides []int
}

// New creates a zero-filled tensor with the given shape.
func New(shape Shape) (*Tensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}
	return &Tensor{
		data:    make([]float32, shape.NumElements()),
		shape:   shape.Clone(),
		strides: shape.ComputeStrides(),
	}, nil
}

// FromSlice creates a tensor from a Go slice.
// The slice is copied into the tensor's memory.
func FromSlice(data []float32, shape Shape) (*Tensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}
	if n := shape.NumElements(); n != len(data) {
		return nil, fmt.Errorf("shape %v requires %d elements, but got %d: %w", shape, n, len(data), ErrInvalidParameter)
	}
	t := &Tensor{
		data:    make([]float32, len(data)),
		shape:   shape.Clone(),
		strides: shape.ComputeStrides(),
	}
	copy(t.data, data)
	return t, nil
}

// MustFromSlice is like FromSlice but panics on error. Intended for tests
// and literal tables.
func MustFromSlice(data []float32, shape Shape) *Tensor {
	t, err := FromSlice(data, shape)
	if err != nil {
		panic(err)
	}
	return t
}

// Shape returns the tensor's shape. The returned slice must not be modified.
func (t *Tensor) Shape() Shape {
	return t.shape
}

// Strides returns the row-major strides of the tensor.
func (t *Tensor) Strides() []int {
	return t.strides
}

// Rank returns the number of axes.
func (t *Tensor) Rank() int {
	return len(t.shape)
}

// Size returns the element count: 0 for an empty shape, otherwise the
// product of all extents.
func (t *Tensor) Size() int {
	return t.shape.NumElements()
}

// Data returns the backing buffer in row-major order.
// WARNING: Direct access to underlying memory. Writes are visible to the tensor.
func (t *Tensor) Data() []float32 {
	return t.data
}

// Reset reshapes the tensor and resizes its buffer to match, zeroing every
// element. Existing capacity is reused when it suffices.
func (t *Tensor) Reset(shape Shape) error {
	if err := shape.Validate(); err != nil {
		return fmt.Errorf("invalid shape: %w", err)
	}
	n := shape.NumElements()
	if cap(t.data) >= n {
		t.data = t.data[:n]
		clear(t.data)
	} else {
		t.data = make([]float32, n)
	}
	t.shape = shape.Clone()
	t.strides = shape.ComputeStrides()
	return nil
}

// LinearIndex converts per-axis coordinates to a flat offset into Data().
//
// Returns a *ShapeError when the number of coordinates does not match the
// rank and an *IndexError when any coordinate is outside its axis.
func (t *Tensor) LinearIndex(indices ...int) (int, error) {
	if len(indices) != len(t.shape) {
		return 0, RankError("tensor index", len(indices), len(t.shape), "coordinate count")
	}
	// A rank-0 shape holds no elements, so no coordinate list addresses one.
	if len(t.data) == 0 {
		return 0, &IndexError{Axis: -1, Index: 0, Extent: 0}
	}
	offset := 0
	for i, idx := range indices {
		if idx < 0 || idx >= t.shape[i] {
			return 0, &IndexError{Axis: i, Index: idx, Extent: t.shape[i]}
		}
		offset += idx * t.strides[i]
	}
	return offset, nil
}

// Unravel converts a flat offset back to per-axis coordinates.
// It is the inverse of LinearIndex.
func (t *Tensor) Unravel(offset int) ([]int, error) {
	n := t.Size()
	if offset < 0 || offset >= n {
		return nil, &IndexError{Axis: -1, Index: offset, Extent: n}
	}
	indices := make([]int, len(t.shape))
	for i, stride := range t.strides {
		indices[i] = offset / stride
		offset %= stride
	}
	return indices, nil
}

// At returns the element at the given coordinates.
func (t *Tensor) At(indices ...int) (float32, error) {
	offset, err := t.LinearIndex(indices...)
	if err != nil {
		return 0, err
	}
	return t.data[offset], nil
}

// Set writes v at the given coordinates.
func (t *Tensor) Set(v float32, indices ...int) error {
	offset, err := t.LinearIndex(indices...)
	if err != nil {
		return err
	}
	t.data[offset] = v
	return nil
}

// Clone returns a deep copy of the tensor.
func (t *Tensor) Clone() *Tensor {
	c := &Tensor{
		data:    make([]float32, len(t.data)),
		shape:   t.shape.Clone(),
		strides: make([]int, len(t.strides)),
	}
	copy(c.data, t.data)
	copy(c.strides, t.strides)
	return c
}

// Argmax returns the flat offset of the largest element, or -1 for an
// empty tensor. Ties resolve to the lowest offset.
func (t *Tensor) Argmax() int {
	if len(t.data) == 0 {
		return -1
	}
	best := 0
	for i, v := range t.data[1:] {
		if v > t.data[best] {
			best = i + 1
		}
	}
	return best
}

// String returns a compact description, e.g. "Tensor[3 4 4]" followed by up
// to eight leading values.
func (t *Tensor) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Tensor%v", []int(t.shape))
	const preview = 8
	n := min(len(t.data), preview)
	sb.WriteString("{")
	for i := 0; i < n; i++ {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%g", t.data[i])
	}
	if len(t.data) > preview {
		sb.WriteString(", ...")
	}
	sb.WriteString("}")
	return sb.String()
}
