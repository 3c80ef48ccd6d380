// Package imageio decodes image files into channel-planar tensors.
//
// Decoders for PNG, JPEG and GIF (standard library) and BMP, TIFF and WebP
// (golang.org/x/image) are registered on import.
package imageio

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"  // register decoder
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder
	"os"

	_ "golang.org/x/image/bmp"  // register decoder
	_ "golang.org/x/image/tiff" // register decoder
	_ "golang.org/x/image/webp" // register decoder

	"github.com/born-ml/convnet/internal/tensor"
)

// ErrImageLoad matches every failure returned by Load.
var ErrImageLoad = errors.New("image load failed")

// LoadError describes a file that could not be opened or decoded.
type LoadError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	return fmt.Sprintf("imageio: load %q: %v", e.Path, e.Err)
}

// Unwrap returns the underlying cause.
func (e *LoadError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrImageLoad.
func (e *LoadError) Is(target error) bool {
	return target == ErrImageLoad
}

// ChannelOrder selects which color lands in tensor channel 0.
type ChannelOrder int

const (
	// RGB stores red, green, blue as channels 0, 1, 2.
	RGB ChannelOrder = iota
	// BGR stores blue, green, red as channels 0, 1, 2, the layout produced
	// by OpenCV-style readers.
	BGR
)

// Channels is the number of planes every decoded tensor carries.
const Channels = 3

type options struct {
	order ChannelOrder
}

// Option configures decoding.
type Option func(*options)

// WithChannelOrder selects the plane order. The default is RGB.
func WithChannelOrder(order ChannelOrder) Option {
	return func(o *options) {
		o.order = order
	}
}

// Load decodes the image at path into a [3, height, width] tensor with
// values in [0, 1], stored channel-planar. Alpha is discarded (straight
// alpha sources keep their stored color) and grayscale sources are
// replicated into all planes.
func Load(path string, opts ...Option) (*tensor.Tensor, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	t, err := FromImage(img, opts...)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return t, nil
}

// FromImage converts an in-memory image using the same layout as Load.
func FromImage(img image.Image, opts ...Option) (*tensor.Tensor, error) {
	o := options{order: RGB}
	for _, opt := range opts {
		opt(&o)
	}

	bounds := img.Bounds()
	h, w := bounds.Dy(), bounds.Dx()
	if h <= 0 || w <= 0 {
		return nil, fmt.Errorf("empty image %dx%d", w, h)
	}

	t, err := tensor.New(tensor.Shape{Channels, h, w})
	if err != nil {
		return nil, err
	}

	plane := h * w
	data := t.Data()
	red, green, blue := data[:plane], data[plane:2*plane], data[2*plane:]
	if o.order == BGR {
		red, blue = blue, red
	}

	const scale = 1.0 / 0xffff
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b := pixelAt(img, bounds.Min.X+x, bounds.Min.Y+y)
			i := y*w + x
			red[i] = float32(float64(r) * scale)
			green[i] = float32(float64(g) * scale)
			blue[i] = float32(float64(b) * scale)
		}
	}
	return t, nil
}

// pixelAt returns 16-bit straight (non-premultiplied) color components.
func pixelAt(img image.Image, x, y int) (r, g, b uint16) {
	switch m := img.(type) {
	case *image.NRGBA:
		c := m.NRGBAAt(x, y)
		return uint16(c.R) * 0x101, uint16(c.G) * 0x101, uint16(c.B) * 0x101
	case *image.NRGBA64:
		c := m.NRGBA64At(x, y)
		return c.R, c.G, c.B
	}
	c := color.NRGBA64Model.Convert(img.At(x, y)).(color.NRGBA64)
	return c.R, c.G, c.B
}
