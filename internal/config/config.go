// Package config describes pipeline architectures in YAML and builds them
// into nn.Sequential values.
//
// A file fixes the topology and hyperparameters; parameter values come from
// deterministic initializers, so files never carry learned weights.
//
//	name: tiny
//	input: [3, 32, 32]
//	layers:
//	  - type: conv2d
//	    in_channels: 3
//	    out_channels: 8
//	    kernel_size: 3
//	    pad: 1
//	    init: uniform
//	    seed: 7
//	  - type: relu
//	  - type: maxpool2d
//	    pool: [2, 2]
//	  - type: flatten
//	  - type: linear
//	    in_features: 2048
//	    out_features: 10
//	  - type: softmax
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/born-ml/convnet/internal/nn"
	"github.com/born-ml/convnet/internal/tensor"
)

// ErrInvalidConfig matches every validation failure in an architecture file.
var ErrInvalidConfig = errors.New("invalid architecture")

// Layer type names accepted in the "type" field.
const (
	TypeConv2D    = "conv2d"
	TypeMaxPool2D = "maxpool2d"
	TypeReLU      = "relu"
	TypeSoftmax   = "softmax"
	TypeFlatten   = "flatten"
	TypeLinear    = "linear"
)

var knownTypes = map[string]bool{
	TypeConv2D:    true,
	TypeMaxPool2D: true,
	TypeReLU:      true,
	TypeSoftmax:   true,
	TypeFlatten:   true,
	TypeLinear:    true,
}

// Architecture is the top-level document.
type Architecture struct {
	Name   string      `yaml:"name"`
	Input  []int       `yaml:"input"`
	Layers []LayerSpec `yaml:"layers"`
}

// LayerSpec is one entry of the layers list. Fields that do not apply to
// Type must be left unset.
type LayerSpec struct {
	Type string `yaml:"type"`

	// conv2d
	InChannels  int `yaml:"in_channels,omitempty"`
	OutChannels int `yaml:"out_channels,omitempty"`
	KernelSize  int `yaml:"kernel_size,omitempty"`
	Stride      int `yaml:"stride,omitempty"` // defaults to 1
	Pad         int `yaml:"pad,omitempty"`

	// maxpool2d: [n] or [h, w]
	Pool       []int `yaml:"pool,omitempty"`
	PoolStride []int `yaml:"pool_stride,omitempty"` // defaults to Pool

	// linear
	InFeatures  int `yaml:"in_features,omitempty"`
	OutFeatures int `yaml:"out_features,omitempty"`

	// conv2d, linear
	Init     string `yaml:"init,omitempty"`      // defaults to "uniform"
	BiasInit string `yaml:"bias_init,omitempty"` // defaults to "zeros"
	Seed     uint64 `yaml:"seed,omitempty"`

	// softmax: "max" (default) or "first-pair"
	Stabilization string `yaml:"stabilization,omitempty"`
}

// Load reads and validates an architecture file.
func Load(path string) (*Architecture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	arch, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return arch, nil
}

// Parse decodes and validates an architecture document. Unknown keys are
// rejected.
func Parse(data []byte) (*Architecture, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var arch Architecture
	if err := dec.Decode(&arch); err != nil {
		return nil, fmt.Errorf("config: decode: %w: %w", ErrInvalidConfig, err)
	}
	if err := arch.Validate(); err != nil {
		return nil, err
	}
	return &arch, nil
}

// Validate checks the document structure. Hyperparameter consistency is
// left to the layer constructors, which run in Build.
func (a *Architecture) Validate() error {
	if len(a.Input) == 0 {
		return fmt.Errorf("config: input shape is required: %w", ErrInvalidConfig)
	}
	if slices.ContainsFunc(a.Input, func(d int) bool { return d <= 0 }) {
		return fmt.Errorf("config: input shape %v must be positive: %w", a.Input, ErrInvalidConfig)
	}
	if len(a.Layers) == 0 {
		return fmt.Errorf("config: at least one layer is required: %w", ErrInvalidConfig)
	}
	for i, spec := range a.Layers {
		t := strings.ToLower(spec.Type)
		if !knownTypes[t] {
			supported := lo.Keys(knownTypes)
			slices.Sort(supported)
			return fmt.Errorf("config: layer %d: unknown type %q (supported: %s): %w",
				i, spec.Type, strings.Join(supported, ", "), ErrInvalidConfig)
		}
	}
	return nil
}

// InputShape returns the declared input shape.
func (a *Architecture) InputShape() tensor.Shape {
	return tensor.Shape(slices.Clone(a.Input))
}

// Build constructs the pipeline. opts are applied to every layer that
// accepts them.
func (a *Architecture) Build(opts ...nn.Option) (*nn.Sequential, error) {
	model := nn.NewSequential()
	for i, spec := range a.Layers {
		layer, err := buildLayer(spec, opts)
		if err != nil {
			return nil, fmt.Errorf("config: layer %d (%s): %w", i, spec.Type, err)
		}
		model.Add(layer)
	}
	return model, nil
}

func buildLayer(spec LayerSpec, opts []nn.Option) (nn.Layer, error) {
	switch strings.ToLower(spec.Type) {
	case TypeConv2D:
		return buildConv2D(spec, opts)
	case TypeMaxPool2D:
		h, w, err := pair("pool", spec.Pool, nil)
		if err != nil {
			return nil, err
		}
		sh, sw, err := pair("pool_stride", spec.PoolStride, spec.Pool)
		if err != nil {
			return nil, err
		}
		return nn.NewMaxPool2D(nn.MaxPool2DConfig{PoolH: h, PoolW: w, StrideH: sh, StrideW: sw}, opts...)
	case TypeReLU:
		return nn.NewReLU(), nil
	case TypeFlatten:
		return nn.NewFlatten(), nil
	case TypeSoftmax:
		mode, err := parseStabilization(spec.Stabilization)
		if err != nil {
			return nil, err
		}
		return nn.NewSoftmax(append(slices.Clone(opts), nn.WithStabilization(mode))...), nil
	case TypeLinear:
		return buildLinear(spec)
	}
	return nil, fmt.Errorf("unknown type %q: %w", spec.Type, ErrInvalidConfig)
}

func buildConv2D(spec LayerSpec, opts []nn.Option) (nn.Layer, error) {
	cfg := nn.Conv2DConfig{
		InChannels:  spec.InChannels,
		OutChannels: spec.OutChannels,
		KernelSize:  spec.KernelSize,
		Stride:      lo.Ternary(spec.Stride == 0, 1, spec.Stride),
		Pad:         spec.Pad,
	}
	k := cfg.KernelSize
	weight, err := initValues(spec.Init, spec.Seed,
		tensor.Shape{cfg.OutChannels, cfg.InChannels, k, k}, cfg.InChannels*k*k)
	if err != nil {
		return nil, fmt.Errorf("init: %w", err)
	}
	bias, err := initBias(spec.BiasInit, spec.Seed, cfg.OutChannels, cfg.InChannels*k*k)
	if err != nil {
		return nil, fmt.Errorf("bias_init: %w", err)
	}
	return nn.NewConv2D(cfg, weight, bias, opts...)
}

func buildLinear(spec LayerSpec) (nn.Layer, error) {
	weight, err := initValues(spec.Init, spec.Seed,
		tensor.Shape{spec.OutFeatures, spec.InFeatures}, spec.InFeatures)
	if err != nil {
		return nil, fmt.Errorf("init: %w", err)
	}
	bias, err := initBias(spec.BiasInit, spec.Seed, spec.OutFeatures, spec.InFeatures)
	if err != nil {
		return nil, fmt.Errorf("bias_init: %w", err)
	}
	return nn.NewLinear(spec.InFeatures, spec.OutFeatures, weight, bias)
}

// pair expands [n] to (n, n) and [h, w] to (h, w). An empty value falls
// back to def.
func pair(field string, v, def []int) (int, int, error) {
	if len(v) == 0 {
		v = def
	}
	switch len(v) {
	case 1:
		return v[0], v[0], nil
	case 2:
		return v[0], v[1], nil
	}
	return 0, 0, fmt.Errorf("%s must have 1 or 2 entries, got %v: %w", field, v, ErrInvalidConfig)
}

func parseStabilization(s string) (nn.Stabilization, error) {
	switch strings.ToLower(s) {
	case "", nn.StabilizeMax.String():
		return nn.StabilizeMax, nil
	case nn.StabilizeFirstPair.String():
		return nn.StabilizeFirstPair, nil
	}
	return 0, fmt.Errorf("unknown stabilization %q: %w", s, ErrInvalidConfig)
}
