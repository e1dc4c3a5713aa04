package triage

import (
	"bytes"
	"fmt"
	"image"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/nfnt/resize"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// DecodeImage decodes raw bytes into an image using any registered format.
func DecodeImage(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, &InputError{Reason: "empty image payload"}
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &InputError{Reason: "undecodable image", Err: err}
	}
	return img, nil
}

// Normalize resizes an image to the consumer's resolution and converts it
// to a CHW float32 tensor with per-channel mean/std scaling. Pure
// transform: the source image is never modified.
func Normalize(img image.Image, p Preprocess) ([]float32, error) {
	if img == nil {
		return nil, &InputError{Reason: "nil image"}
	}
	if p.Width <= 0 || p.Height <= 0 {
		return nil, fmt.Errorf("invalid preprocess size %dx%d", p.Width, p.Height)
	}
	scaled := resize.Resize(uint(p.Width), uint(p.Height), img, resize.Bilinear)

	mean := channelStats(p.Mean)
	std := channelStats(p.Std)
	for i := range std {
		if std[i] == 0 {
			std[i] = 1
		}
	}

	plane := p.Width * p.Height
	out := make([]float32, 3*plane)
	bounds := scaled.Bounds()
	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := scaled.At(x, y).RGBA()
			out[i] = (float32(r>>8)/255.0 - mean[0]) / std[0]
			out[plane+i] = (float32(g>>8)/255.0 - mean[1]) / std[1]
			out[2*plane+i] = (float32(b>>8)/255.0 - mean[2]) / std[2]
			i++
		}
	}
	return out, nil
}

// channelStats broadcasts a single value across all three channels so a
// config may specify either one statistic or one per channel.
func channelStats(v []float32) [3]float32 {
	switch len(v) {
	case 0:
		return [3]float32{0, 0, 0}
	case 1:
		return [3]float32{v[0], v[0], v[0]}
	default:
		out := [3]float32{v[0], v[0], v[0]}
		for i := 0; i < 3 && i < len(v); i++ {
			out[i] = v[i]
		}
		return out
	}
}
