package nn

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/born-ml/convnet/internal/parallel"
	"github.com/born-ml/convnet/internal/tensor"
)

// MaxPool2DConfig holds the pooling window and stride per spatial axis.
type MaxPool2DConfig struct {
	PoolH, PoolW     int
	StrideH, StrideW int
}

// MaxPool2D is a 2D max pooling layer.
//
// Max pooling reduces spatial dimensions by taking the maximum value
// in each window. Unlike Conv2D, MaxPool2D has no learnable parameters
// and applies no padding.
//
// Input shape:  [channels, height, width]
// Output shape: [channels, out_height, out_width]
//
// Where:
//
//	out_height = (height - pool_h) / stride_h + 1
//	out_width = (width - pool_w) / stride_w + 1
//
// A window that does not fit the input is rejected with
// tensor.ErrInvalidGeometry instead of producing garbage extents.
//
// Example (2x2 pool, stride=2):
//
//	Input: [[0, 1, 2, 3],      Output: [[5, 7],
//	        [4, 5, 6, 7],               [13, 15]]
//	        [8, 9, 10, 11],
//	        [12, 13, 14, 15]]
type MaxPool2D struct {
	cfg MaxPool2DConfig
	par parallel.Config
}

// NewMaxPool2D creates a new 2D max pooling layer.
//
// Window and stride extents must be positive.
func NewMaxPool2D(cfg MaxPool2DConfig, opts ...Option) (*MaxPool2D, error) {
	if cfg.PoolH <= 0 || cfg.PoolW <= 0 {
		return nil, fmt.Errorf("maxpool2d: invalid window %dx%d: %w", cfg.PoolH, cfg.PoolW, tensor.ErrInvalidParameter)
	}
	if cfg.StrideH <= 0 || cfg.StrideW <= 0 {
		return nil, fmt.Errorf("maxpool2d: invalid stride %dx%d: %w", cfg.StrideH, cfg.StrideW, tensor.ErrInvalidParameter)
	}
	o := buildOptions(opts)
	return &MaxPool2D{cfg: cfg, par: o.par}, nil
}

// Config returns the window and stride.
func (m *MaxPool2D) Config() MaxPool2DConfig {
	return m.cfg
}

// OutputShape computes [channels, out_height, out_width].
func (m *MaxPool2D) OutputShape(input tensor.Shape) (tensor.Shape, error) {
	if len(input) != 3 {
		return nil, tensor.RankError("maxpool2d", len(input), 3, "expected [C, H, W]")
	}

	outH := floorDiv(input[1]-m.cfg.PoolH, m.cfg.StrideH) + 1
	outW := floorDiv(input[2]-m.cfg.PoolW, m.cfg.StrideW) + 1
	if outH <= 0 || outW <= 0 {
		return nil, fmt.Errorf("maxpool2d: window %dx%d does not fit input %dx%d: %w",
			m.cfg.PoolH, m.cfg.PoolW, input[1], input[2], tensor.ErrInvalidGeometry)
	}

	return tensor.Shape{input[0], outH, outW}, nil
}

// Forward performs max pooling.
//
// Input: [channels, height, width]
// Output: [channels, out_height, out_width].
func (m *MaxPool2D) Forward(input, output *tensor.Tensor) error {
	if err := checkIO("maxpool2d", input, output); err != nil {
		return err
	}
	outShape, err := m.OutputShape(input.Shape())
	if err != nil {
		return err
	}
	if err := output.Reset(outShape); err != nil {
		return fmt.Errorf("maxpool2d: %w", err)
	}

	inShape := input.Shape()
	H, W := inShape[1], inShape[2]
	HOut, WOut := outShape[1], outShape[2]
	inputData := input.Data()
	outputData := output.Data()

	parallel.ForGrid(outShape[0], HOut, func(c, outH int) {
		// Pre-slice channel plane: eliminates c*H*W bounds check
		channelData := inputData[c*H*W : (c+1)*H*W]
		outRow := outputData[(c*HOut+outH)*WOut : (c*HOut+outH+1)*WOut]
		hStart := outH * m.cfg.StrideH

		for outW := range outRow {
			wStart := outW * m.cfg.StrideW
			maxVal := math32.Inf(-1)

			for kh := 0; kh < m.cfg.PoolH; kh++ {
				rowStart := (hStart + kh) * W
				window := channelData[rowStart+wStart : rowStart+wStart+m.cfg.PoolW]
				for _, val := range window {
					if val > maxVal {
						maxVal = val
					}
				}
			}

			outRow[outW] = maxVal
		}
	}, m.par)

	return nil
}

// String returns a string representation of the layer.
func (m *MaxPool2D) String() string {
	return fmt.Sprintf("MaxPool2D(pool=%dx%d, stride=%dx%d)",
		m.cfg.PoolH, m.cfg.PoolW, m.cfg.StrideH, m.cfg.StrideW)
}
