// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/convnet/internal/tensor"
)

// Shape lists the extent of each axis, outermost first.
type Shape = tensor.Shape

// Tensor is a dense row-major float32 tensor.
type Tensor = tensor.Tensor

// ShapeError reports a rank or dimension mismatch.
type ShapeError = tensor.ShapeError

// IndexError reports a coordinate or offset outside its extent.
type IndexError = tensor.IndexError

// Error categories.
var (
	ErrShape            = tensor.ErrShape
	ErrIndex            = tensor.ErrIndex
	ErrInvalidParameter = tensor.ErrInvalidParameter
	ErrInvalidGeometry  = tensor.ErrInvalidGeometry
)

// New allocates a zero-filled tensor of the given shape.
func New(shape Shape) (*Tensor, error) {
	return tensor.New(shape)
}

// FromSlice copies data into a new tensor of the given shape.
func FromSlice(data []float32, shape Shape) (*Tensor, error) {
	return tensor.FromSlice(data, shape)
}

// MustFromSlice is like FromSlice but panics on error.
func MustFromSlice(data []float32, shape Shape) *Tensor {
	return tensor.MustFromSlice(data, shape)
}
