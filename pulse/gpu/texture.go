package gpu

import (
	"fmt"

	"github.com/oliverbestmann/pixl/gfxerr"
	"github.com/oliverbestmann/webgpu/wgpu"
)

// Texture wraps a wgpu.Texture and an identity wgpu.TextureView.
type Texture struct {
	texture     *wgpu.Texture
	textureView *wgpu.TextureView

	width, height uint32
}

type NewTextureOptions struct {
	Width  uint32
	Height uint32
	Label  string
}

// DefaultMaxTextureSize is the largest width or height of a texture on a
// device requested with default limits.
const DefaultMaxTextureSize = 8192

// NewTexture creates an rgba texture that can be sampled and written to.
func NewTexture(ctx *Context, opts NewTextureOptions) (*Texture, error) {
	texture, err := ctx.Device.TryCreateTexture(&wgpu.TextureDescriptor{
		Label:         opts.Label,
		Format:        wgpu.TextureFormatRGBA8Unorm,
		SampleCount:   1,
		MipLevelCount: 1,

		Dimension: wgpu.TextureDimension2D,
		Size: wgpu.Extent3D{
			Width:              opts.Width,
			Height:             opts.Height,
			DepthOrArrayLayers: 1,
		},

		Usage: wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create texture %q: %w", opts.Label, err)
	}

	textureView, err := texture.TryCreateView(nil)
	if err != nil {
		texture.Release()
		return nil, fmt.Errorf("create view of texture %q: %w", opts.Label, err)
	}

	return &Texture{
		texture:     texture,
		textureView: textureView,
		width:       opts.Width,
		height:      opts.Height,
	}, nil
}

// checkTextureSize fails with gfxerr.AllocationError if a width by height
// texture exceeds limit on either side.
func checkTextureSize(width, height, limit uint32) error {
	if width > limit || height > limit {
		return fmt.Errorf("upload texture %dx%d: %w", width, height, gfxerr.Set(gfxerr.AllocationError))
	}

	return nil
}

func (t *Texture) Width() uint32 {
	return t.width
}

func (t *Texture) Height() uint32 {
	return t.height
}

func (t *Texture) View() *wgpu.TextureView {
	return t.textureView
}

// Release releases the texture view and the texture. You must be sure to
// not use the texture after calling release.
func (t *Texture) Release() {
	t.textureView.Release()
	t.texture.Release()
}

// WritePixels replaces the full content of the texture. pixels are tightly
// packed rows of rgba bytes.
func (t *Texture) WritePixels(ctx *Context, pixels []byte) error {
	if len(pixels) != int(t.width)*int(t.height)*4 {
		return fmt.Errorf("write %d bytes into %dx%d texture", len(pixels), t.width, t.height)
	}

	layout := &wgpu.TexelCopyBufferLayout{
		Offset:       0,
		BytesPerRow:  t.width * 4,
		RowsPerImage: t.height,
	}

	size := &wgpu.Extent3D{
		Width:              t.width,
		Height:             t.height,
		DepthOrArrayLayers: 1,
	}

	dest := &wgpu.TexelCopyTextureInfo{
		Texture:  t.texture,
		MipLevel: 0,
		Aspect:   wgpu.TextureAspectAll,
	}

	// send data to the gpu
	ctx.WriteTexture(dest, pixels, layout, size)

	return nil
}
