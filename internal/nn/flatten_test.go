package nn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/convnet/internal/tensor"
)

func TestFlatten_KeepsElementOrder(t *testing.T) {
	input := tensor.MustFromSlice(iota32(2*3*4), tensor.Shape{2, 3, 4})
	output := &tensor.Tensor{}
	require.NoError(t, NewFlatten().Forward(input, output))

	assert.Equal(t, tensor.Shape{24}, output.Shape())
	assert.Equal(t, input.Data(), output.Data())
}

func TestFlatten_OutputIsIndependent(t *testing.T) {
	input := tensor.MustFromSlice([]float32{1, 2, 3, 4}, tensor.Shape{1, 2, 2})
	output := &tensor.Tensor{}
	require.NoError(t, NewFlatten().Forward(input, output))

	output.Data()[0] = 42
	assert.Equal(t, float32(1), input.Data()[0])
}

func TestFlatten_OutputShape(t *testing.T) {
	f := NewFlatten()

	tests := []struct {
		in   tensor.Shape
		want tensor.Shape
	}{
		{tensor.Shape{3, 4, 4}, tensor.Shape{48}},
		{tensor.Shape{10}, tensor.Shape{10}},
		{tensor.Shape{2, 0, 5}, tensor.Shape{0}},
	}
	for _, tt := range tests {
		got, err := f.OutputShape(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "input %v", tt.in)
	}
}
