package config

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/born-ml/convnet/internal/tensor"
)

// Initializer names accepted by "init" and "bias_init".
const (
	InitZeros    = "zeros"
	InitOnes     = "ones"
	InitIdentity = "identity"
	InitUniform  = "uniform"
	InitConstant = "constant" // spelled "constant:<value>"
)

// initValues materializes a parameter buffer for shape.
//
// Shapes with a non-positive extent yield nil so the layer constructor
// reports the bad hyperparameter itself.
func initValues(spec string, seed uint64, shape tensor.Shape, fanIn int) ([]float32, error) {
	n := lo.Reduce(shape, func(acc, d, _ int) int {
		if d <= 0 {
			return 0
		}
		return acc * d
	}, 1)
	if n == 0 {
		return nil, nil
	}

	name, arg, _ := strings.Cut(strings.ToLower(strings.TrimSpace(spec)), ":")
	switch name {
	case InitZeros:
		return make([]float32, n), nil
	case InitOnes:
		return constant(n, 1), nil
	case InitConstant:
		v, err := strconv.ParseFloat(arg, 32)
		if err != nil {
			return nil, fmt.Errorf("constant %q: %w: %w", arg, ErrInvalidConfig, err)
		}
		return constant(n, float32(v)), nil
	case InitIdentity:
		return identity(shape)
	case "", InitUniform:
		return uniform(n, fanIn, seed), nil
	}
	return nil, fmt.Errorf("unknown initializer %q: %w", spec, ErrInvalidConfig)
}

// initBias is initValues for a bias vector, where the default is zeros
// and identity makes no sense.
func initBias(spec string, seed uint64, n, fanIn int) ([]float32, error) {
	if spec == "" {
		spec = InitZeros
	}
	if strings.EqualFold(spec, InitIdentity) {
		return nil, fmt.Errorf("identity is not defined for a bias vector: %w", ErrInvalidConfig)
	}
	// Offset the seed so weights and bias draw different streams.
	return initValues(spec, seed+1, tensor.Shape{n}, fanIn)
}

func constant(n int, v float32) []float32 {
	return lo.Times(n, func(int) float32 { return v })
}

// identity places a 1 on the diagonal: W[o, o] for a [out, in] matrix, or
// the centre tap of W[o, o, :, :] for a [out, in, k, k] kernel. Channels
// without a partner stay zero.
func identity(shape tensor.Shape) ([]float32, error) {
	values := make([]float32, shape.NumElements())
	strides := shape.ComputeStrides()
	switch len(shape) {
	case 2:
		for o := 0; o < min(shape[0], shape[1]); o++ {
			values[o*strides[0]+o] = 1
		}
	case 4:
		c := shape[2] / 2
		for o := 0; o < min(shape[0], shape[1]); o++ {
			values[o*strides[0]+o*strides[1]+c*strides[2]+c] = 1
		}
	default:
		return nil, fmt.Errorf("identity needs a rank-2 or rank-4 parameter, got %v: %w", shape, ErrInvalidConfig)
	}
	return values, nil
}

// uniform draws from U(-1/sqrt(fanIn), 1/sqrt(fanIn)) with a seeded PCG
// stream, so the same file always builds the same network.
func uniform(n, fanIn int, seed uint64) []float32 {
	bound := 1.0
	if fanIn > 0 {
		bound = 1 / math.Sqrt(float64(fanIn))
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	return lo.Times(n, func(int) float32 {
		return float32((rng.Float64()*2 - 1) * bound)
	})
}
