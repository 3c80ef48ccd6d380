// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the dense float32 tensors consumed and produced
// by convnet layers.
//
// # Overview
//
// A Tensor owns a contiguous row-major buffer together with its Shape and
// strides. Element (i0, ..., in) lives at offset sum(ik * stride[k]) and
// LinearIndex/Unravel convert between the two forms.
//
// # Basic Usage
//
//	import "github.com/born-ml/convnet/tensor"
//
//	x := tensor.MustFromSlice([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
//	v, _ := x.At(1, 2)      // 6
//	off, _ := x.LinearIndex(1, 0) // 3
//
// # Errors
//
// Every error matches one of ErrShape, ErrIndex, ErrInvalidParameter or
// ErrInvalidGeometry through errors.Is. Use errors.As with *ShapeError or
// *IndexError for the offending axis and extents.
package tensor
