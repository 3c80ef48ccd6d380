package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/convnet/internal/nn"
	"github.com/born-ml/convnet/internal/tensor"
)

const identityNet = `
name: identity
input: [1, 2, 2]
layers:
  - type: conv2d
    in_channels: 1
    out_channels: 1
    kernel_size: 1
    init: identity
  - type: relu
  - type: flatten
  - type: linear
    in_features: 4
    out_features: 4
    init: identity
`

func TestParse_BuildIdentityNet(t *testing.T) {
	arch, err := Parse([]byte(identityNet))
	require.NoError(t, err)
	assert.Equal(t, "identity", arch.Name)
	assert.Equal(t, tensor.Shape{1, 2, 2}, arch.InputShape())

	model, err := arch.Build()
	require.NoError(t, err)
	require.Equal(t, 4, model.Len())

	input := tensor.MustFromSlice([]float32{1, -2, 3, -4}, arch.InputShape())
	output, err := model.Evaluate(input)
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 0, 3, 0}, output.Data())
}

func TestParse_FullTopology(t *testing.T) {
	doc := `
input: [3, 8, 8]
layers:
  - type: conv2d
    in_channels: 3
    out_channels: 4
    kernel_size: 3
    pad: 1
    seed: 11
  - type: relu
  - type: maxpool2d
    pool: [2]
  - type: flatten
  - type: linear
    in_features: 64
    out_features: 10
    bias_init: "constant:0.5"
  - type: softmax
    stabilization: first-pair
`
	arch, err := Parse([]byte(doc))
	require.NoError(t, err)

	model, err := arch.Build(nn.WithWorkers(2))
	require.NoError(t, err)

	shape, err := model.OutputShape(arch.InputShape())
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{10}, shape)

	pool, ok := model.Layer(2).(*nn.MaxPool2D)
	require.True(t, ok)
	assert.Equal(t, nn.MaxPool2DConfig{PoolH: 2, PoolW: 2, StrideH: 2, StrideW: 2}, pool.Config())

	fc, ok := model.Layer(4).(*nn.Linear)
	require.True(t, ok)
	assert.Equal(t, []float32{0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5}, fc.Bias().Data())

	sm, ok := model.Layer(5).(*nn.Softmax)
	require.True(t, ok)
	assert.Equal(t, nn.StabilizeFirstPair, sm.Stabilization())

	conv, ok := model.Layer(0).(*nn.Conv2D)
	require.True(t, ok)
	assert.Equal(t, 1, conv.Config().Stride, "stride defaults to 1")
}

func TestBuild_Deterministic(t *testing.T) {
	doc := `
input: [2, 3, 3]
layers:
  - type: conv2d
    in_channels: 2
    out_channels: 2
    kernel_size: 2
    seed: 42
`
	a, err := Parse([]byte(doc))
	require.NoError(t, err)
	m1, err := a.Build()
	require.NoError(t, err)
	m2, err := a.Build()
	require.NoError(t, err)

	w1 := m1.Layer(0).(*nn.Conv2D).Weight().Data()
	w2 := m2.Layer(0).(*nn.Conv2D).Weight().Data()
	assert.Equal(t, w1, w2)

	bound := float32(1 / 2.8284271) // 1/sqrt(2*2*2)
	for _, v := range w1 {
		assert.LessOrEqual(t, v, bound)
		assert.GreaterOrEqual(t, v, -bound)
	}
}

func TestIdentity_ConvCentreTap(t *testing.T) {
	values, err := identity(tensor.Shape{2, 2, 3, 3})
	require.NoError(t, err)

	// W[0,0,1,1] and W[1,1,1,1]
	want := make([]float32, 36)
	want[4] = 1
	want[27+4] = 1
	assert.Equal(t, want, values)

	_, err = identity(tensor.Shape{3})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"missing input", "layers:\n  - type: relu\n"},
		{"non-positive input", "input: [0, 2]\nlayers:\n  - type: relu\n"},
		{"no layers", "input: [1]\n"},
		{"unknown type", "input: [1]\nlayers:\n  - type: dropout\n"},
		{"unknown field", "input: [1]\nlayers:\n  - type: relu\n    alpha: 0.1\n"},
		{"empty document", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestBuild_LayerErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want error
	}{
		{
			"bad kernel size",
			"input: [1, 4, 4]\nlayers:\n  - type: conv2d\n    in_channels: 1\n    out_channels: 1\n",
			tensor.ErrInvalidParameter,
		},
		{
			"identity bias",
			"input: [2]\nlayers:\n  - type: linear\n    in_features: 2\n    out_features: 2\n    bias_init: identity\n",
			ErrInvalidConfig,
		},
		{
			"bad pool entry count",
			"input: [1, 4, 4]\nlayers:\n  - type: maxpool2d\n    pool: [1, 2, 3]\n",
			ErrInvalidConfig,
		},
		{
			"bad stabilization",
			"input: [2]\nlayers:\n  - type: softmax\n    stabilization: median\n",
			ErrInvalidConfig,
		},
		{
			"bad constant",
			"input: [2]\nlayers:\n  - type: linear\n    in_features: 2\n    out_features: 1\n    init: constant:abc\n",
			ErrInvalidConfig,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			arch, err := Parse([]byte(tt.doc))
			require.NoError(t, err)

			_, err = arch.Build()
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.Contains(t, err.Error(), "layer 0")
		})
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "net.yaml")
	require.NoError(t, os.WriteFile(path, []byte(identityNet), 0o600))

	arch, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, arch.Layers, 4)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_ExampleArchitecture(t *testing.T) {
	arch, err := Load(filepath.Join("..", "..", "examples", "architectures", "lenet-rgb.yaml"))
	require.NoError(t, err)

	model, err := arch.Build()
	require.NoError(t, err)

	shapes, err := model.Plan(arch.InputShape())
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{16, 5, 5}, shapes[5])
	assert.Equal(t, tensor.Shape{10}, shapes[len(shapes)-1])
}
