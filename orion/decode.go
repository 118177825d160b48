package orion

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	_ "image/png"

	"github.com/oliverbestmann/pixl/scene"
)

// DecodeImage decodes a png, or any other registered image format, into a
// new image.
func (r *Rasterizer) DecodeImage(buf []byte) (*scene.Image, error) {
	src, _, err := image.Decode(bytes.NewReader(buf))
	if err != nil {
		return nil, fmt.Errorf("decode image from memory: %w", err)
	}

	bounds := src.Bounds()

	img, err := r.store.NewImage(uint32(bounds.Dx()), uint32(bounds.Dy()))
	if err != nil {
		return nil, fmt.Errorf("decode image from memory: %w", err)
	}

	draw.Draw(img, img.Bounds(), src, bounds.Min, draw.Src)

	return img, nil
}
