package nn

import (
	"fmt"

	"github.com/born-ml/convnet/internal/tensor"
)

// Flatten reinterprets a tensor of any rank as a rank-1 vector.
//
// The buffer is already row-major, so element order is unchanged; only the
// shape metadata differs. The output receives its own copy of the values.
//
// Input shape:  [d0, d1, ..., dn]
// Output shape: [d0 * d1 * ... * dn]
type Flatten struct{}

// NewFlatten creates a new Flatten layer.
func NewFlatten() *Flatten {
	return &Flatten{}
}

// OutputShape returns [NumElements(input)].
func (f *Flatten) OutputShape(input tensor.Shape) (tensor.Shape, error) {
	return tensor.Shape{input.NumElements()}, nil
}

// Forward copies input into output as a rank-1 tensor.
func (f *Flatten) Forward(input, output *tensor.Tensor) error {
	if err := checkIO("flatten", input, output); err != nil {
		return err
	}
	if err := output.Reset(tensor.Shape{input.Size()}); err != nil {
		return fmt.Errorf("flatten: %w", err)
	}
	copy(output.Data(), input.Data())
	return nil
}

// String returns a string representation of the layer.
func (f *Flatten) String() string {
	return "Flatten()"
}
