// Package scene holds the CPU side of a frame: pixel buffer images, the
// places they are drawn at, and the depth ordered queue of everything that
// needs to reach the window.
package scene

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/oliverbestmann/pixl/array"
)

// Instance places an Image in the window. X and Y are pixel coordinates of
// the top left corner, Z orders instances back to front.
type Instance struct {
	X, Y, Z int32

	Enabled bool
}

// Image is a rectangular RGBA pixel buffer. Pixels are stored row major as
// R, G, B, A bytes without padding.
type Image struct {
	width, height uint32
	pixels        []byte

	enabled   bool
	instances *array.Array[Instance]

	// set when the pixels changed since the last upload
	dirty bool
}

var _ draw.Image = (*Image)(nil)

func newImage(width, height uint32, pixels []byte) *Image {
	return &Image{
		width:     width,
		height:    height,
		pixels:    pixels,
		enabled:   true,
		instances: array.New[Instance](),
		dirty:     true,
	}
}

func (img *Image) Width() uint32 {
	return img.width
}

func (img *Image) Height() uint32 {
	return img.height
}

// Pixels returns the raw pixel buffer. The caller may write to it, so the
// image is considered modified.
func (img *Image) Pixels() []byte {
	img.dirty = true
	return img.pixels
}

// Buffer returns the pixel buffer for reading. Writes through the returned
// slice are not tracked, use Pixels for that.
func (img *Image) Buffer() []byte {
	return img.pixels
}

// PutPixel writes rgba, encoded as 0xRRGGBBAA, to the pixel at x, y.
func (img *Image) PutPixel(x, y uint32, rgba uint32) {
	offset := img.offset(x, y)

	img.pixels[offset+0] = byte(rgba >> 24)
	img.pixels[offset+1] = byte(rgba >> 16)
	img.pixels[offset+2] = byte(rgba >> 8)
	img.pixels[offset+3] = byte(rgba)

	img.dirty = true
}

// Pixel reads the pixel at x, y as 0xRRGGBBAA.
func (img *Image) Pixel(x, y uint32) uint32 {
	offset := img.offset(x, y)
	px := img.pixels[offset : offset+4 : offset+4]

	return uint32(px[0])<<24 | uint32(px[1])<<16 | uint32(px[2])<<8 | uint32(px[3])
}

// Fill sets every pixel to rgba.
func (img *Image) Fill(rgba uint32) {
	px := [4]byte{byte(rgba >> 24), byte(rgba >> 16), byte(rgba >> 8), byte(rgba)}

	for offset := 0; offset < len(img.pixels); offset += 4 {
		copy(img.pixels[offset:], px[:])
	}

	img.dirty = true
}

func (img *Image) Enabled() bool {
	return img.enabled
}

// SetEnabled hides or shows every instance of the image. Disabled images
// stay in the draw queue.
func (img *Image) SetEnabled(enabled bool) {
	img.enabled = enabled
}

func (img *Image) InstanceCount() int {
	return img.instances.Len()
}

// Instance returns the instance at index. The pointer is invalidated by the
// next AddInstance on this image.
func (img *Image) Instance(index int) *Instance {
	return img.instances.Ref(index)
}

func (img *Image) Instances() []Instance {
	return img.instances.Items()
}

// InstanceCapacity exposes the capacity of the instance array.
func (img *Image) InstanceCapacity() int {
	return img.instances.Cap()
}

func (img *Image) Dirty() bool {
	return img.dirty
}

// TakeDirty reports whether the pixels changed since the previous call.
func (img *Image) TakeDirty() bool {
	dirty := img.dirty
	img.dirty = false
	return dirty
}

func (img *Image) ColorModel() color.Model {
	return color.NRGBAModel
}

func (img *Image) Bounds() image.Rectangle {
	return image.Rect(0, 0, int(img.width), int(img.height))
}

func (img *Image) At(x, y int) color.Color {
	if !img.contains(x, y) {
		return color.NRGBA{}
	}

	offset := img.offset(uint32(x), uint32(y))
	px := img.pixels[offset : offset+4 : offset+4]
	return color.NRGBA{R: px[0], G: px[1], B: px[2], A: px[3]}
}

// Set implements draw.Image. Writes outside the bounds are dropped.
func (img *Image) Set(x, y int, c color.Color) {
	if !img.contains(x, y) {
		return
	}

	nrgba := color.NRGBAModel.Convert(c).(color.NRGBA)

	offset := img.offset(uint32(x), uint32(y))
	px := img.pixels[offset : offset+4 : offset+4]
	px[0], px[1], px[2], px[3] = nrgba.R, nrgba.G, nrgba.B, nrgba.A

	img.dirty = true
}

func (img *Image) String() string {
	return fmt.Sprintf("Image(%dx%d, instances=%d)", img.width, img.height, img.instances.Len())
}

func (img *Image) contains(x, y int) bool {
	return x >= 0 && y >= 0 && x < int(img.width) && y < int(img.height)
}

func (img *Image) offset(x, y uint32) int {
	if x >= img.width || y >= img.height {
		panic(fmt.Sprintf("scene: pixel (%d, %d) outside of %dx%d image", x, y, img.width, img.height))
	}

	return (int(y)*int(img.width) + int(x)) * 4
}
