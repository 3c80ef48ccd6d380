// Package nn implements the forward-only layers of a convolutional network.
//
// This package provides building blocks for inference pipelines:
//   - Layer interface: shape planning and forward evaluation
//   - Conv2D: 2D cross-correlation with zero padding
//   - MaxPool2D: sliding-window max reduction
//   - ReLU, Softmax: elementwise and vector non-linearities
//   - Flatten: rank-1 reinterpretation of a feature map
//   - Linear: fully connected projection
//   - Sequential: ordered container that threads a tensor through its layers
//
// Layers hold only immutable parameters, so one instance may serve
// concurrent forward passes.
package nn

import (
	"fmt"

	"github.com/born-ml/convnet/internal/tensor"
)

// Layer is the contract shared by every network stage.
//
// Every layer must implement:
//   - OutputShape: pure shape planning, no side effects
//   - Forward: compute output from input
//
// Layers can be composed into a pipeline:
//
//	model := nn.NewSequential(
//	    conv,
//	    nn.NewReLU(),
//	    nn.NewFlatten(),
//	    fc,
//	)
type Layer interface {
	// OutputShape validates that input is structurally compatible with the
	// layer and returns the shape Forward would produce. Mismatches are
	// reported as *tensor.ShapeError naming the offending dimension.
	OutputShape(input tensor.Shape) (tensor.Shape, error)

	// Forward computes output from input. It revalidates the input shape,
	// then fully overwrites output's shape and buffer. input is never
	// modified and must not be the same tensor as output.
	Forward(input, output *tensor.Tensor) error

	fmt.Stringer
}

// checkIO rejects nil or aliased tensors before a kernel touches them.
func checkIO(op string, input, output *tensor.Tensor) error {
	switch {
	case input == nil:
		return fmt.Errorf("%s: input tensor is nil: %w", op, tensor.ErrInvalidParameter)
	case output == nil:
		return fmt.Errorf("%s: output tensor is nil: %w", op, tensor.ErrInvalidParameter)
	case input == output:
		return fmt.Errorf("%s: output must not alias input: %w", op, tensor.ErrInvalidParameter)
	}
	return nil
}

// floorDiv divides rounding toward negative infinity, matching the
// floor((in + 2*pad - k) / stride) output-extent rule for negative numerators.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
