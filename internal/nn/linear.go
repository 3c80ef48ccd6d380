package nn

import (
	"fmt"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas32"

	"github.com/born-ml/convnet/internal/tensor"
)

// Linear implements a fully connected (dense) layer.
//
// Performs the transformation: y = W @ x + b
// where:
//   - x is the input vector with shape [in_features]
//   - W is the weight matrix with shape [out_features, in_features]
//   - b is the bias vector with shape [out_features]
//   - y is the output vector with shape [out_features]
//
// Example:
//
//	fc, err := nn.NewLinear(2, 2, []float32{1, 0, 0, 1}, []float32{0, 0})
//	// input [3, 4] -> output [3, 4]
type Linear struct {
	inFeatures  int
	outFeatures int
	weight      *tensor.Tensor // [out_features, in_features]
	bias        *tensor.Tensor // [out_features]
}

// NewLinear creates a new Linear layer from externally supplied parameters.
//
// Parameters:
//   - inFeatures: Number of input features
//   - outFeatures: Number of output features
//   - weight: outFeatures*inFeatures values, row-major [out, in]
//   - bias: outFeatures values
//
// Both slices are copied. Missing, empty, or mismatched buffers return
// tensor.ErrInvalidParameter.
func NewLinear(inFeatures, outFeatures int, weight, bias []float32) (*Linear, error) {
	if inFeatures <= 0 || outFeatures <= 0 {
		return nil, fmt.Errorf("linear: invalid features in=%d, out=%d: %w",
			inFeatures, outFeatures, tensor.ErrInvalidParameter)
	}
	if len(weight) == 0 {
		return nil, fmt.Errorf("linear: weight buffer is empty: %w", tensor.ErrInvalidParameter)
	}
	if want := inFeatures * outFeatures; len(weight) != want {
		return nil, fmt.Errorf("linear: weight buffer has %d values, want %d: %w",
			len(weight), want, tensor.ErrInvalidParameter)
	}
	if len(bias) != outFeatures {
		return nil, fmt.Errorf("linear: bias buffer has %d values, want %d: %w",
			len(bias), outFeatures, tensor.ErrInvalidParameter)
	}

	w, err := tensor.FromSlice(weight, tensor.Shape{outFeatures, inFeatures})
	if err != nil {
		return nil, fmt.Errorf("linear: %w", err)
	}
	b, err := tensor.FromSlice(bias, tensor.Shape{outFeatures})
	if err != nil {
		return nil, fmt.Errorf("linear: %w", err)
	}

	return &Linear{
		inFeatures:  inFeatures,
		outFeatures: outFeatures,
		weight:      w,
		bias:        b,
	}, nil
}

// InFeatures returns the expected input length.
func (l *Linear) InFeatures() int {
	return l.inFeatures
}

// OutFeatures returns the output length.
func (l *Linear) OutFeatures() int {
	return l.outFeatures
}

// Weight returns the weight tensor. It must not be modified.
func (l *Linear) Weight() *tensor.Tensor {
	return l.weight
}

// Bias returns the bias tensor. It must not be modified.
func (l *Linear) Bias() *tensor.Tensor {
	return l.bias
}

// OutputShape requires a rank-1 input of length in_features.
func (l *Linear) OutputShape(input tensor.Shape) (tensor.Shape, error) {
	if len(input) != 1 {
		return nil, tensor.RankError("linear", len(input), 1, "expected [in_features]")
	}
	if input[0] != l.inFeatures {
		return nil, &tensor.ShapeError{Op: "linear", Dim: 0, Got: input[0], Want: l.inFeatures, Detail: "input features"}
	}
	return tensor.Shape{l.outFeatures}, nil
}

// Forward computes the dense matrix-vector product plus bias.
func (l *Linear) Forward(input, output *tensor.Tensor) error {
	if err := checkIO("linear", input, output); err != nil {
		return err
	}
	outShape, err := l.OutputShape(input.Shape())
	if err != nil {
		return err
	}
	if err := output.Reset(outShape); err != nil {
		return fmt.Errorf("linear: %w", err)
	}

	// y starts as b; Gemv accumulates W @ x on top (beta = 1).
	y := output.Data()
	copy(y, l.bias.Data())

	blas32.Gemv(blas.NoTrans, 1,
		blas32.General{
			Rows:   l.outFeatures,
			Cols:   l.inFeatures,
			Stride: l.inFeatures,
			Data:   l.weight.Data(),
		},
		blas32.Vector{N: l.inFeatures, Inc: 1, Data: input.Data()},
		1,
		blas32.Vector{N: l.outFeatures, Inc: 1, Data: y},
	)
	return nil
}

// String returns a string representation of the layer.
func (l *Linear) String() string {
	return fmt.Sprintf("Linear(in_features=%d, out_features=%d)", l.inFeatures, l.outFeatures)
}
