package nn

import (
	"fmt"
	"strings"

	"github.com/born-ml/convnet/internal/tensor"
)

// Sequential is a container that chains layers together.
//
// Each layer's output becomes the next layer's input, creating a
// sequential pipeline of transformations. Shape compatibility between
// neighbours is only discovered when the pipeline is evaluated or planned.
//
// Example:
//
//	model := nn.NewSequential(conv, nn.NewReLU(), nn.NewFlatten(), fc)
//	output, err := model.Evaluate(input)
//
// This is equivalent to:
//
//	conv.Forward(input, h1)
//	relu.Forward(h1, h2)
//	flatten.Forward(h2, h3)
//	fc.Forward(h3, output)
//
// Evaluate may be called concurrently: layers are immutable and every
// call allocates its own intermediate tensors.
type Sequential struct {
	layers []Layer
}

// NewSequential creates a new Sequential container.
func NewSequential(layers ...Layer) *Sequential {
	return &Sequential{
		layers: append([]Layer(nil), layers...),
	}
}

// Add appends a layer to the end of the sequence. No validation happens
// at this point; a nil layer is reported by Evaluate and Plan.
//
// This allows building models incrementally:
//
//	model := nn.NewSequential()
//	model.Add(conv)
//	model.Add(nn.NewReLU())
func (s *Sequential) Add(layer Layer) {
	s.layers = append(s.layers, layer)
}

// Len returns the number of layers in the sequence.
func (s *Sequential) Len() int {
	return len(s.layers)
}

// Layer returns the layer at the given index.
//
// Panics if index is out of bounds.
func (s *Sequential) Layer(index int) Layer {
	if index < 0 || index >= len(s.layers) {
		panic("Sequential.Layer: index out of bounds")
	}
	return s.layers[index]
}

// Evaluate feeds input through every layer in insertion order and returns
// the final tensor. input is not modified.
//
// The first failing layer aborts evaluation; its error is wrapped with the
// layer position and keeps its errors.Is category. No partial result is
// returned. An empty pipeline returns a copy of input.
func (s *Sequential) Evaluate(input *tensor.Tensor) (*tensor.Tensor, error) {
	if input == nil {
		return nil, fmt.Errorf("sequential: input tensor is nil: %w", tensor.ErrInvalidParameter)
	}

	current := input
	for i, layer := range s.layers {
		if layer == nil {
			return nil, nilLayerError(i)
		}
		output := &tensor.Tensor{}
		if err := layer.Forward(current, output); err != nil {
			return nil, fmt.Errorf("layer %d %s: %w", i, layer, err)
		}
		current = output
	}

	if current == input {
		return input.Clone(), nil
	}
	return current, nil
}

// Forward implements Layer so a pipeline can be nested inside another.
// output receives the final tensor's shape and data.
func (s *Sequential) Forward(input, output *tensor.Tensor) error {
	if err := checkIO("sequential", input, output); err != nil {
		return err
	}
	result, err := s.Evaluate(input)
	if err != nil {
		return err
	}
	if err := output.Reset(result.Shape()); err != nil {
		return err
	}
	copy(output.Data(), result.Data())
	return nil
}

// Plan returns the shape produced after each layer for the given input
// shape, without touching any data. Plan(shape)[i] is the output of layer i.
func (s *Sequential) Plan(input tensor.Shape) ([]tensor.Shape, error) {
	shapes := make([]tensor.Shape, 0, len(s.layers))
	current := input
	for i, layer := range s.layers {
		if layer == nil {
			return nil, nilLayerError(i)
		}
		next, err := layer.OutputShape(current)
		if err != nil {
			return nil, fmt.Errorf("layer %d %s: %w", i, layer, err)
		}
		shapes = append(shapes, next)
		current = next
	}
	return shapes, nil
}

// OutputShape returns the shape Evaluate would produce for input.
func (s *Sequential) OutputShape(input tensor.Shape) (tensor.Shape, error) {
	shapes, err := s.Plan(input)
	if err != nil {
		return nil, err
	}
	if len(shapes) == 0 {
		return input.Clone(), nil
	}
	return shapes[len(shapes)-1], nil
}

// String returns one line per layer.
func (s *Sequential) String() string {
	var sb strings.Builder
	sb.WriteString("Sequential(\n")
	for i, layer := range s.layers {
		fmt.Fprintf(&sb, "  (%d): %s\n", i, layer)
	}
	sb.WriteString(")")
	return sb.String()
}

func nilLayerError(index int) error {
	return fmt.Errorf("layer %d: nil layer: %w", index, tensor.ErrInvalidParameter)
}
