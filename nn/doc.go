// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides the layers of a forward-only convolutional network.
//
// # Overview
//
// This package contains:
//   - Layers: Conv2D, MaxPool2D, Linear
//   - Activations: ReLU, Softmax
//   - Utilities: Flatten, Sequential, Layer interface
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/convnet/nn"
//	    "github.com/born-ml/convnet/tensor"
//	)
//
//	func main() {
//	    conv, _ := nn.NewConv2D(nn.Conv2DConfig{
//	        InChannels: 3, OutChannels: 8, KernelSize: 3, Stride: 1, Pad: 1,
//	    }, convWeight, convBias)
//	    pool, _ := nn.NewMaxPool2D(nn.MaxPool2DConfig{PoolH: 2, PoolW: 2, StrideH: 2, StrideW: 2})
//	    fc, _ := nn.NewLinear(8*16*16, 10, fcWeight, fcBias)
//
//	    model := nn.NewSequential(conv, nn.NewReLU(), pool, nn.NewFlatten(), fc, nn.NewSoftmax())
//	    probs, err := model.Evaluate(image) // image has shape [3, 32, 32]
//	}
//
// # Concurrency
//
// Layers hold only read-only parameters after construction. A single
// Sequential may evaluate many inputs from different goroutines at once.
// Conv2D and MaxPool2D can additionally split one forward pass across
// goroutines with WithWorkers; the result is bit-identical to the
// sequential kernel.
package nn
