// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"github.com/born-ml/convnet/internal/nn"
)

// Layer is the contract every network stage implements.
type Layer = nn.Layer

// Sequential threads a tensor through an ordered list of layers.
type Sequential = nn.Sequential

// NewSequential creates a pipeline from the given layers, in order.
func NewSequential(layers ...Layer) *Sequential {
	return nn.NewSequential(layers...)
}

// Option configures optional layer behavior.
type Option = nn.Option

// Stabilization selects the reference value Softmax subtracts.
type Stabilization = nn.Stabilization

// Softmax stabilization modes.
const (
	StabilizeMax       = nn.StabilizeMax
	StabilizeFirstPair = nn.StabilizeFirstPair
)

// WithWorkers splits Conv2D and MaxPool2D kernels across n goroutines.
// n <= 1 keeps the kernel on the calling goroutine.
func WithWorkers(n int) Option {
	return nn.WithWorkers(n)
}

// WithStabilization selects the Softmax reference value.
func WithStabilization(s Stabilization) Option {
	return nn.WithStabilization(s)
}
