package nn

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/born-ml/convnet/internal/tensor"
)

// ReLU is a Rectified Linear Unit activation layer.
//
// Applies the element-wise function: f(x) = max(0, x)
//
// Output shape equals input shape for any rank.
//
// Example:
//
//	relu := nn.NewReLU()
//	err := relu.Forward(input, output) // All negative values become 0
type ReLU struct{}

// NewReLU creates a new ReLU activation layer.
func NewReLU() *ReLU {
	return &ReLU{}
}

// OutputShape returns input unchanged.
func (r *ReLU) OutputShape(input tensor.Shape) (tensor.Shape, error) {
	return input.Clone(), nil
}

// Forward applies ReLU activation: f(x) = max(0, x).
func (r *ReLU) Forward(input, output *tensor.Tensor) error {
	if err := checkIO("relu", input, output); err != nil {
		return err
	}
	if err := output.Reset(input.Shape()); err != nil {
		return fmt.Errorf("relu: %w", err)
	}

	out := output.Data()
	for i, v := range input.Data() {
		// NaN maps to 0, like max(0, x) with 0 as the first operand.
		if v > 0 {
			out[i] = v
		}
	}
	return nil
}

// String returns a string representation of the layer.
func (r *ReLU) String() string {
	return "ReLU()"
}

// Softmax normalizes a vector into a probability distribution.
//
// Applies: y_i = exp(x_i - ref) / sum_j exp(x_j - ref)
//
// ref is the stabilization reference selected with WithStabilization.
// Subtracting any constant leaves the result unchanged mathematically;
// the true maximum (the default) also keeps every exponent <= 0.
//
// The whole buffer is treated as one vector regardless of rank, and the
// output shape equals the input shape.
type Softmax struct {
	stabilization Stabilization
}

// NewSoftmax creates a new Softmax layer.
//
// Example:
//
//	sm := nn.NewSoftmax()                                          // true max
//	legacy := nn.NewSoftmax(nn.WithStabilization(nn.StabilizeFirstPair))
func NewSoftmax(opts ...Option) *Softmax {
	o := buildOptions(opts)
	return &Softmax{stabilization: o.stabilization}
}

// Stabilization returns the reference-value mode.
func (s *Softmax) Stabilization() Stabilization {
	return s.stabilization
}

// OutputShape returns input unchanged.
func (s *Softmax) OutputShape(input tensor.Shape) (tensor.Shape, error) {
	return input.Clone(), nil
}

// Forward computes the normalized exponentials.
func (s *Softmax) Forward(input, output *tensor.Tensor) error {
	if err := checkIO("softmax", input, output); err != nil {
		return err
	}
	if err := output.Reset(input.Shape()); err != nil {
		return fmt.Errorf("softmax: %w", err)
	}

	in := input.Data()
	if len(in) == 0 {
		return nil
	}
	out := output.Data()

	ref := s.reference(in)
	total := float32(0)
	for i, v := range in {
		e := math32.Exp(v - ref)
		out[i] = e
		total += e
	}
	for i := range out {
		out[i] /= total
	}
	return nil
}

// reference picks the value subtracted before exponentiating.
func (s *Softmax) reference(in []float32) float32 {
	if s.stabilization == StabilizeFirstPair {
		if len(in) == 1 {
			return in[0]
		}
		return math32.Max(in[0], in[1])
	}
	ref := in[0]
	for _, v := range in[1:] {
		if v > ref {
			ref = v
		}
	}
	return ref
}

// String returns a string representation of the layer.
func (s *Softmax) String() string {
	return fmt.Sprintf("Softmax(stabilization=%s)", s.stabilization)
}
