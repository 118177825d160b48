package scene

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutPixelBytes(t *testing.T) {
	store := NewStore(StoreOptions{})

	img, err := store.NewImage(4, 4)
	require.NoError(t, err)

	img.PutPixel(1, 1, 0xFF0000FF)

	expected := make([]byte, 4*4*4)
	copy(expected[(1*4+1)*4:], []byte{0xff, 0x00, 0x00, 0xff})

	assert.Equal(t, expected, img.Pixels())
}

func TestPixelRoundTrip(t *testing.T) {
	store := NewStore(StoreOptions{})

	img, err := store.NewImage(3, 2)
	require.NoError(t, err)

	for y := range uint32(2) {
		for x := range uint32(3) {
			img.PutPixel(x, y, 0x01020300|(y*3+x))
		}
	}

	for y := range uint32(2) {
		for x := range uint32(3) {
			assert.Equal(t, 0x01020300|(y*3+x), img.Pixel(x, y))
		}
	}
}

func TestPutPixelOutOfBoundsPanics(t *testing.T) {
	store := NewStore(StoreOptions{})

	img, err := store.NewImage(2, 2)
	require.NoError(t, err)

	assert.Panics(t, func() { img.PutPixel(2, 0, 0) })
	assert.Panics(t, func() { img.PutPixel(0, 2, 0) })
}

func TestDirtyTracking(t *testing.T) {
	store := NewStore(StoreOptions{})

	img, err := store.NewImage(2, 2)
	require.NoError(t, err)

	// a new image needs its first upload
	assert.True(t, img.TakeDirty())
	assert.False(t, img.TakeDirty())

	img.PutPixel(0, 0, 0xffffffff)
	assert.True(t, img.TakeDirty())

	img.Fill(0)
	assert.True(t, img.Dirty())
	assert.True(t, img.TakeDirty())

	_ = img.Pixels()
	assert.True(t, img.TakeDirty())
}

func TestFill(t *testing.T) {
	store := NewStore(StoreOptions{})

	img, err := store.NewImage(5, 3)
	require.NoError(t, err)

	img.Fill(0x11223344)

	for y := range uint32(3) {
		for x := range uint32(5) {
			require.Equal(t, uint32(0x11223344), img.Pixel(x, y))
		}
	}
}

func TestImageIsDrawable(t *testing.T) {
	store := NewStore(StoreOptions{})

	img, err := store.NewImage(4, 4)
	require.NoError(t, err)

	green := color.NRGBA{G: 0xff, A: 0xff}
	draw.Draw(img, image.Rect(2, 2, 6, 6), image.NewUniform(green), image.Point{}, draw.Src)

	assert.Equal(t, uint32(0x00ff00ff), img.Pixel(3, 3))
	assert.Equal(t, uint32(0x00ff00ff), img.Pixel(2, 2))
	assert.Equal(t, uint32(0), img.Pixel(1, 1))

	assert.Equal(t, color.NRGBA{}, img.At(-1, 0))
	assert.Equal(t, green, img.At(2, 3))
}
