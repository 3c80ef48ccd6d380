package imageio

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"

	"github.com/born-ml/convnet/internal/tensor"
)

// testImage is a 2x1 image: a red pixel followed by a half-blue pixel.
func testImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, G: 0, B: 0, A: 255})
	img.SetNRGBA(1, 0, color.NRGBA{R: 0, G: 51, B: 102, A: 255})
	return img
}

func writePNG(t *testing.T, img image.Image) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "img.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

func TestLoad_PNGChannelPlanar(t *testing.T) {
	x, err := Load(writePNG(t, testImage()))
	require.NoError(t, err)

	assert.Equal(t, tensor.Shape{3, 1, 2}, x.Shape())
	// Planes: R = [1, 0], G = [0, 0.2], B = [0, 0.4]
	assert.InDeltaSlice(t, []float32{1, 0, 0, 0.2, 0, 0.4}, x.Data(), 1e-6)
}

func TestLoad_BGROrder(t *testing.T) {
	x, err := Load(writePNG(t, testImage()), WithChannelOrder(BGR))
	require.NoError(t, err)

	assert.InDeltaSlice(t, []float32{0, 0.4, 0, 0.2, 1, 0}, x.Data(), 1e-6)
}

func TestLoad_BMP(t *testing.T) {
	path := filepath.Join(t.TempDir(), "img.bmp")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, bmp.Encode(f, testImage()))
	require.NoError(t, f.Close())

	x, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{3, 1, 2}, x.Shape())
	assert.InDelta(t, 1.0, float64(x.Data()[0]), 1e-6)
}

func TestFromImage_GrayReplicated(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 1, 1))
	img.SetGray(0, 0, color.Gray{Y: 255})

	x, err := FromImage(img)
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 1, 1}, x.Data())
}

func TestFromImage_IgnoresAlpha(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, G: 255, B: 255, A: 0})

	x, err := FromImage(img)
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 1, 1}, x.Data(), "transparent pixels keep their color")
}

func TestFromImage_OffsetBounds(t *testing.T) {
	img := testImage().SubImage(image.Rect(1, 0, 2, 1))

	x, err := FromImage(img)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{3, 1, 1}, x.Shape())
	assert.InDeltaSlice(t, []float32{0, 0.2, 0.4}, x.Data(), 1e-6)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.png"))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrImageLoad)
		assert.ErrorIs(t, err, fs.ErrNotExist)
	})

	t.Run("not an image", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "junk.png")
		require.NoError(t, os.WriteFile(path, []byte("definitely not a png"), 0o600))

		_, err := Load(path)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrImageLoad)
		assert.ErrorIs(t, err, image.ErrFormat)

		var loadErr *LoadError
		require.True(t, errors.As(err, &loadErr))
		assert.Equal(t, path, loadErr.Path)
	})
}
