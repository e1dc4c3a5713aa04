package triage

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testImagePNG(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDecodeImage(t *testing.T) {
	data := testImagePNG(t, 4, 4, color.RGBA{R: 10, G: 20, B: 30, A: 255})
	img, err := DecodeImage(data)
	require.NoError(t, err)
	assert.Equal(t, 4, img.Bounds().Dx())
}

func TestDecodeImageErrors(t *testing.T) {
	var inputErr *InputError

	_, err := DecodeImage(nil)
	require.Error(t, err)
	assert.ErrorAs(t, err, &inputErr)

	_, err = DecodeImage([]byte("definitely not an image"))
	require.Error(t, err)
	assert.ErrorAs(t, err, &inputErr)
}

func TestNormalizeShapeAndScaling(t *testing.T) {
	img, err := DecodeImage(testImagePNG(t, 10, 6, color.RGBA{R: 255, G: 0, B: 0, A: 255}))
	require.NoError(t, err)

	p := Preprocess{Width: 8, Height: 8, Mean: []float32{0.5}, Std: []float32{0.5}}
	tensor, err := Normalize(img, p)
	require.NoError(t, err)
	require.Len(t, tensor, 3*8*8)

	// Solid red scales to +1 on the R plane and -1 on G and B.
	plane := 8 * 8
	assert.InDelta(t, 1.0, tensor[0], 1e-3)
	assert.InDelta(t, -1.0, tensor[plane], 1e-3)
	assert.InDelta(t, -1.0, tensor[2*plane], 1e-3)
}

func TestNormalizePerChannelStats(t *testing.T) {
	img, err := DecodeImage(testImagePNG(t, 4, 4, color.RGBA{R: 128, G: 128, B: 128, A: 255}))
	require.NoError(t, err)

	p := Preprocess{
		Width: 2, Height: 2,
		Mean: []float32{0.485, 0.456, 0.406},
		Std:  []float32{0.229, 0.224, 0.225},
	}
	tensor, err := Normalize(img, p)
	require.NoError(t, err)
	require.Len(t, tensor, 12)

	gray := float32(128) / 255
	assert.InDelta(t, (gray-0.485)/0.229, tensor[0], 1e-3)
	assert.InDelta(t, (gray-0.456)/0.224, tensor[4], 1e-3)
	assert.InDelta(t, (gray-0.406)/0.225, tensor[8], 1e-3)
}

func TestNormalizeNilImage(t *testing.T) {
	var inputErr *InputError
	_, err := Normalize(nil, Preprocess{Width: 8, Height: 8})
	require.Error(t, err)
	assert.ErrorAs(t, err, &inputErr)
}
