package nn

import (
	"fmt"

	"github.com/born-ml/convnet/internal/parallel"
	"github.com/born-ml/convnet/internal/tensor"
)

// Conv2DConfig holds the structural hyperparameters of a Conv2D layer.
//
// The kernel is square and Stride and Pad apply to both spatial axes.
// Named fields fix the channel ordering: weights are always laid out as
// [OutChannels, InChannels, KernelSize, KernelSize].
type Conv2DConfig struct {
	InChannels  int
	OutChannels int
	KernelSize  int
	Stride      int
	Pad         int
}

// Conv2D is a 2D convolutional layer (cross-correlation, no kernel flip).
//
// Performs: output[oc, oh, ow] = sum_{ic,kh,kw} input[ic, oh*s-p+kh, ow*s-p+kw] * weight[oc, ic, kh, kw] + bias[oc]
//
// Input shape:  [in_channels, height, width]
// Weight shape: [out_channels, in_channels, kernel_size, kernel_size]
// Bias shape:   [out_channels]
// Output shape: [out_channels, out_h, out_w]
//
// Where:
//
//	out_h = floor((height + 2*pad - kernel_size) / stride) + 1
//	out_w = floor((width + 2*pad - kernel_size) / stride) + 1
//
// Input samples outside [0, height) x [0, width) contribute zero; the padded
// input is never materialized.
//
// Example:
//
//	conv, err := nn.NewConv2D(nn.Conv2DConfig{
//	    InChannels: 3, OutChannels: 2, KernelSize: 3, Stride: 1, Pad: 1,
//	}, weights, bias)
//	// input [3, 4, 4] -> output [2, 4, 4]
type Conv2D struct {
	cfg    Conv2DConfig
	weight *tensor.Tensor // [out_channels, in_channels, kernel_size, kernel_size]
	bias   *tensor.Tensor // [out_channels]
	par    parallel.Config
}

// NewConv2D creates a Conv2D layer from externally supplied parameters.
//
// weight must hold exactly OutChannels*InChannels*KernelSize² values in
// [out, in, kh, kw] row-major order and bias exactly OutChannels values.
// Both slices are copied. Any violation returns tensor.ErrInvalidParameter.
func NewConv2D(cfg Conv2DConfig, weight, bias []float32, opts ...Option) (*Conv2D, error) {
	if cfg.InChannels <= 0 || cfg.OutChannels <= 0 {
		return nil, fmt.Errorf("conv2d: invalid channels in=%d, out=%d: %w",
			cfg.InChannels, cfg.OutChannels, tensor.ErrInvalidParameter)
	}
	if cfg.KernelSize <= 0 {
		return nil, fmt.Errorf("conv2d: invalid kernel size %d: %w", cfg.KernelSize, tensor.ErrInvalidParameter)
	}
	if cfg.Stride <= 0 {
		return nil, fmt.Errorf("conv2d: invalid stride %d: %w", cfg.Stride, tensor.ErrInvalidParameter)
	}
	if cfg.Pad < 0 {
		return nil, fmt.Errorf("conv2d: invalid padding %d: %w", cfg.Pad, tensor.ErrInvalidParameter)
	}

	weightShape := tensor.Shape{cfg.OutChannels, cfg.InChannels, cfg.KernelSize, cfg.KernelSize}
	if len(weight) == 0 {
		return nil, fmt.Errorf("conv2d: kernel buffer is empty: %w", tensor.ErrInvalidParameter)
	}
	if want := weightShape.NumElements(); len(weight) != want {
		return nil, fmt.Errorf("conv2d: kernel buffer has %d values, want %d for shape %v: %w",
			len(weight), want, weightShape, tensor.ErrInvalidParameter)
	}
	if len(bias) != cfg.OutChannels {
		return nil, fmt.Errorf("conv2d: bias buffer has %d values, want %d: %w",
			len(bias), cfg.OutChannels, tensor.ErrInvalidParameter)
	}

	w, err := tensor.FromSlice(weight, weightShape)
	if err != nil {
		return nil, fmt.Errorf("conv2d: %w", err)
	}
	b, err := tensor.FromSlice(bias, tensor.Shape{cfg.OutChannels})
	if err != nil {
		return nil, fmt.Errorf("conv2d: %w", err)
	}

	o := buildOptions(opts)
	return &Conv2D{cfg: cfg, weight: w, bias: b, par: o.par}, nil
}

// Config returns the layer hyperparameters.
func (c *Conv2D) Config() Conv2DConfig {
	return c.cfg
}

// Weight returns the kernel tensor. It must not be modified.
func (c *Conv2D) Weight() *tensor.Tensor {
	return c.weight
}

// Bias returns the bias tensor. It must not be modified.
func (c *Conv2D) Bias() *tensor.Tensor {
	return c.bias
}

// OutputShape computes [out_channels, out_h, out_w] for a [C, H, W] input.
func (c *Conv2D) OutputShape(input tensor.Shape) (tensor.Shape, error) {
	if len(input) != 3 {
		return nil, tensor.RankError("conv2d", len(input), 3, "expected [C, H, W]")
	}
	if input[0] != c.cfg.InChannels {
		return nil, &tensor.ShapeError{Op: "conv2d", Dim: 0, Got: input[0], Want: c.cfg.InChannels, Detail: "input channels"}
	}

	k, s, p := c.cfg.KernelSize, c.cfg.Stride, c.cfg.Pad
	outH := floorDiv(input[1]+2*p-k, s) + 1
	outW := floorDiv(input[2]+2*p-k, s) + 1
	if outH <= 0 || outW <= 0 {
		return nil, fmt.Errorf("conv2d: output extent %dx%d for input %dx%d (kernel=%d, stride=%d, pad=%d): %w",
			outH, outW, input[1], input[2], k, s, p, tensor.ErrInvalidGeometry)
	}

	return tensor.Shape{c.cfg.OutChannels, outH, outW}, nil
}

// Forward performs the direct cross-correlation.
//
// Input: [in_channels, height, width]
// Output: [out_channels, out_h, out_w].
func (c *Conv2D) Forward(input, output *tensor.Tensor) error {
	if err := checkIO("conv2d", input, output); err != nil {
		return err
	}
	outShape, err := c.OutputShape(input.Shape())
	if err != nil {
		return err
	}
	if err := output.Reset(outShape); err != nil {
		return fmt.Errorf("conv2d: %w", err)
	}

	inShape := input.Shape()
	g := convGeometry{
		inC:    inShape[0],
		inH:    inShape[1],
		inW:    inShape[2],
		outH:   outShape[1],
		outW:   outShape[2],
		kernel: c.cfg.KernelSize,
		stride: c.cfg.Stride,
		pad:    c.cfg.Pad,
	}

	inputData := input.Data()
	weightData := c.weight.Data()
	biasData := c.bias.Data()
	outputData := output.Data()

	// Each (oc, oh) row is written by exactly one call.
	parallel.ForGrid(c.cfg.OutChannels, g.outH, func(oc, oh int) {
		conv2dRow(outputData, inputData, weightData, biasData[oc], oc, oh, g)
	}, c.par)

	return nil
}

// String returns a string representation of the layer.
func (c *Conv2D) String() string {
	return fmt.Sprintf("Conv2D(in=%d, out=%d, kernel=%d, stride=%d, pad=%d)",
		c.cfg.InChannels, c.cfg.OutChannels, c.cfg.KernelSize, c.cfg.Stride, c.cfg.Pad)
}

type convGeometry struct {
	inC, inH, inW int
	outH, outW    int
	kernel        int
	stride        int
	pad           int
}

// conv2dRow computes output[oc, oh, :].
//
// The accumulation order per element is (ic, kh, kw) with the bias added
// last, so parallel and sequential runs are bit-identical.
func conv2dRow(outputData, inputData, weightData []float32, bias float32, oc, oh int, g convGeometry) {
	k := g.kernel
	planeSize := g.inH * g.inW
	filterSize := g.inC * k * k
	filter := weightData[oc*filterSize : (oc+1)*filterSize]
	outRow := outputData[(oc*g.outH+oh)*g.outW : (oc*g.outH+oh+1)*g.outW]

	ihStart := oh*g.stride - g.pad

	for ow := range outRow {
		iwStart := ow*g.stride - g.pad
		sum := float32(0)

		for ic := 0; ic < g.inC; ic++ {
			plane := inputData[ic*planeSize : (ic+1)*planeSize]
			taps := filter[ic*k*k : (ic+1)*k*k]

			for kh := 0; kh < k; kh++ {
				ih := ihStart + kh
				if ih < 0 || ih >= g.inH {
					continue // Zero padding row
				}
				row := plane[ih*g.inW : (ih+1)*g.inW]
				tapRow := taps[kh*k : (kh+1)*k]

				for kw, wv := range tapRow {
					iw := iwStart + kw
					if iw < 0 || iw >= g.inW {
						continue
					}
					sum += row[iw] * wv
				}
			}
		}

		outRow[ow] = sum + bias
	}
}
