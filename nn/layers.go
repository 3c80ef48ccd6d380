// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"github.com/born-ml/convnet/internal/nn"
)

// Conv2DConfig describes the geometry of a Conv2D layer.
type Conv2DConfig = nn.Conv2DConfig

// Conv2D is a 2D cross-correlation layer with zero padding.
type Conv2D = nn.Conv2D

// NewConv2D creates a Conv2D layer.
//
// weight has length OutChannels*InChannels*KernelSize*KernelSize laid out
// as [out, in, kh, kw]; bias has length OutChannels. Both are copied.
func NewConv2D(cfg Conv2DConfig, weight, bias []float32, opts ...Option) (*Conv2D, error) {
	return nn.NewConv2D(cfg, weight, bias, opts...)
}

// MaxPool2DConfig describes the window and stride of a MaxPool2D layer.
type MaxPool2DConfig = nn.MaxPool2DConfig

// MaxPool2D takes the maximum over each window of every channel.
type MaxPool2D = nn.MaxPool2D

// NewMaxPool2D creates a MaxPool2D layer.
func NewMaxPool2D(cfg MaxPool2DConfig, opts ...Option) (*MaxPool2D, error) {
	return nn.NewMaxPool2D(cfg, opts...)
}

// Linear is a fully connected layer: y = W*x + b.
type Linear = nn.Linear

// NewLinear creates a Linear layer. weight is row-major [out, in].
func NewLinear(inFeatures, outFeatures int, weight, bias []float32) (*Linear, error) {
	return nn.NewLinear(inFeatures, outFeatures, weight, bias)
}

// ReLU is the rectified linear activation.
type ReLU = nn.ReLU

// NewReLU creates a ReLU activation.
func NewReLU() *ReLU {
	return nn.NewReLU()
}

// Softmax normalizes the whole input buffer into a probability vector.
type Softmax = nn.Softmax

// NewSoftmax creates a Softmax activation.
func NewSoftmax(opts ...Option) *Softmax {
	return nn.NewSoftmax(opts...)
}

// Flatten reshapes its input to rank 1.
type Flatten = nn.Flatten

// NewFlatten creates a Flatten layer.
func NewFlatten() *Flatten {
	return nn.NewFlatten()
}
