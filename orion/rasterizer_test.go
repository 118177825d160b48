package orion

import (
	"testing"

	"github.com/oliverbestmann/pixl/gfxerr"
	"github.com/oliverbestmann/pixl/pulse"
	"github.com/oliverbestmann/pixl/pulse/pulsetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testShaders = ShaderSources{Vertex: "vertex", Fragment: "fragment"}

func newRasterizer(t *testing.T, configure func(conf *Config)) (*Rasterizer, *pulsetest.Device) {
	t.Helper()

	conf := DefaultConfig()
	conf.Width = 800
	conf.Height = 600

	if configure != nil {
		configure(&conf)
	}

	dev := pulsetest.New()

	r := New(dev, conf)
	require.NoError(t, r.Init(testShaders))

	return r, dev
}

func TestLoopRequiresInit(t *testing.T) {
	r := New(pulsetest.New(), DefaultConfig())
	require.ErrorIs(t, r.Loop(), ErrNotInitialized)
}

func TestInitShaderErrors(t *testing.T) {
	gfxerr.Reset()

	dev := pulsetest.New()
	dev.FailFragment = assert.AnError

	r := New(dev, DefaultConfig())

	err := r.Init(testShaders)
	require.ErrorIs(t, err, gfxerr.FragmentShaderError)
	assert.Equal(t, gfxerr.FragmentShaderError, gfxerr.Last())

	require.ErrorIs(t, r.Loop(), ErrNotInitialized)
}

func TestLoopEmptyFrame(t *testing.T) {
	r, dev := newRasterizer(t, nil)

	require.NoError(t, r.Loop())

	assert.Equal(t, 1, dev.Frames)
	assert.False(t, dev.InFrame)
	assert.Empty(t, dev.DrawCalls)
	assert.Equal(t, []pulse.Color{pulse.ColorRGBA(0x333333FF)}, dev.ClearColors)
}

func TestPutPixelUploadsImage(t *testing.T) {
	r, dev := newRasterizer(t, nil)

	img, err := r.NewImage(4, 4)
	require.NoError(t, err)

	r.PutPixel(img, 1, 1, 0xFF0000FF)

	_, err = r.ImageToWindow(img, 10, 20)
	require.NoError(t, err)

	require.NoError(t, r.Loop())

	require.Len(t, dev.Textures, 1)

	for _, texture := range dev.Textures {
		expected := make([]byte, 64)
		copy(expected[(1*4+1)*4:], []byte{0xff, 0x00, 0x00, 0xff})

		assert.Equal(t, uint32(4), texture.Width)
		assert.Equal(t, uint32(4), texture.Height)
		assert.Equal(t, expected, texture.Pixels)
		assert.Equal(t, 1, texture.Uploads)
	}

	require.Len(t, dev.DrawCalls, 1)
	assert.Len(t, dev.DrawCalls[0].Vertices, pulse.VerticesPerQuad)

	// top left and bottom right corners of the quad
	assert.Equal(t, float32(10), dev.DrawCalls[0].Vertices[0].Position[0])
	assert.Equal(t, float32(20), dev.DrawCalls[0].Vertices[0].Position[1])
	assert.Equal(t, float32(14), dev.DrawCalls[0].Vertices[1].Position[0])
	assert.Equal(t, float32(24), dev.DrawCalls[0].Vertices[1].Position[1])
}

func TestUploadOnlyWhenModified(t *testing.T) {
	r, dev := newRasterizer(t, nil)

	img, err := r.NewImage(2, 2)
	require.NoError(t, err)

	// not uploaded before the image is placed
	require.NoError(t, r.Loop())
	assert.Empty(t, dev.Textures)

	_, err = r.ImageToWindow(img, 0, 0)
	require.NoError(t, err)

	require.NoError(t, r.Loop())
	require.NoError(t, r.Loop())

	texture := dev.Textures[r.contexts[img].texture]
	require.NotNil(t, texture)
	assert.Equal(t, 1, texture.Uploads)

	r.PutPixel(img, 0, 0, 0xffffffff)
	require.NoError(t, r.Loop())
	assert.Equal(t, 2, texture.Uploads)
}

func TestTwentyThousandInstances(t *testing.T) {
	r, dev := newRasterizer(t, nil)

	img, err := r.NewImage(8, 8)
	require.NoError(t, err)

	for idx := range 20000 {
		_, err := r.ImageToWindow(img, int32(idx%800), int32(idx/800))
		require.NoError(t, err)
	}

	require.NoError(t, r.Loop())

	assert.Len(t, dev.DrawCalls, 10)
	assert.Equal(t, 120000, dev.VertexCount())
	assert.Equal(t, pulse.Stats{DrawCalls: 10, Vertices: 120000, Quads: 20000}, r.FrameStats())
}

func TestDepthOrder(t *testing.T) {
	r, dev := newRasterizer(t, nil)

	back, err := r.NewImage(1, 1)
	require.NoError(t, err)

	front, err := r.NewImage(1, 1)
	require.NoError(t, err)

	_, err = r.ImageToWindow(front, 1, 0)
	require.NoError(t, err)

	_, err = r.ImageToWindow(back, 2, 0)
	require.NoError(t, err)

	// move the instance of back behind front
	r.SetInstanceDepth(back, 0, -1)

	require.NoError(t, r.Loop())
	require.Len(t, dev.DrawCalls, 1)

	vertices := dev.DrawCalls[0].Vertices
	require.Len(t, vertices, 12)

	assert.Equal(t, float32(2), vertices[0].Position[0])
	assert.Equal(t, float32(-1), vertices[0].Position[2])
	assert.Equal(t, float32(1), vertices[6].Position[0])
	assert.Equal(t, float32(0), vertices[6].Position[2])
}

func TestDisabledAreSkipped(t *testing.T) {
	r, dev := newRasterizer(t, nil)

	a, err := r.NewImage(1, 1)
	require.NoError(t, err)

	b, err := r.NewImage(1, 1)
	require.NoError(t, err)

	for idx := range 3 {
		_, err := r.ImageToWindow(a, int32(idx), 0)
		require.NoError(t, err)
	}

	_, err = r.ImageToWindow(b, 10, 0)
	require.NoError(t, err)

	a.Instance(1).Enabled = false
	b.SetEnabled(false)

	require.NoError(t, r.Loop())

	require.Len(t, dev.DrawCalls, 1)
	vertices := dev.DrawCalls[0].Vertices
	require.Len(t, vertices, 12)

	assert.Equal(t, float32(0), vertices[0].Position[0])
	assert.Equal(t, float32(2), vertices[6].Position[0])
	assert.Equal(t, 4, r.Store().Queue().Len())
}

func TestManyTexturesFlush(t *testing.T) {
	r, dev := newRasterizer(t, nil)

	for idx := range pulse.MaxTextureSlots + 1 {
		img, err := r.NewImage(1, 1)
		require.NoError(t, err)

		_, err = r.ImageToWindow(img, int32(idx), 0)
		require.NoError(t, err)
	}

	require.NoError(t, r.Loop())

	require.Len(t, dev.DrawCalls, 2)
	assert.Len(t, dev.DrawCalls[0].Vertices, pulse.MaxTextureSlots*pulse.VerticesPerQuad)
	assert.Len(t, dev.DrawCalls[1].Vertices, pulse.VerticesPerQuad)
}

func TestDeleteImage(t *testing.T) {
	r, dev := newRasterizer(t, nil)

	a, err := r.NewImage(1, 1)
	require.NoError(t, err)

	b, err := r.NewImage(1, 1)
	require.NoError(t, err)

	for range 2 {
		_, err := r.ImageToWindow(a, 0, 0)
		require.NoError(t, err)

		_, err = r.ImageToWindow(b, 5, 0)
		require.NoError(t, err)
	}

	require.NoError(t, r.Loop())
	require.Len(t, dev.Textures, 2)

	r.DeleteImage(a)

	assert.Len(t, dev.Textures, 1)
	assert.NotContains(t, r.contexts, a)
	assert.Equal(t, 2, r.Store().Queue().Len())

	dev.Reset()
	require.NoError(t, r.Loop())

	require.Len(t, dev.DrawCalls, 1)
	for _, vertex := range dev.DrawCalls[0].Vertices {
		assert.GreaterOrEqual(t, vertex.Position[0], float32(5))
	}
}

func TestDeleteInstance(t *testing.T) {
	r, dev := newRasterizer(t, nil)

	img, err := r.NewImage(1, 1)
	require.NoError(t, err)

	for idx := range 3 {
		_, err := r.ImageToWindow(img, int32(idx*10), 0)
		require.NoError(t, err)
	}

	r.DeleteInstance(img, 0)

	require.NoError(t, r.Loop())
	require.Len(t, dev.DrawCalls, 1)

	vertices := dev.DrawCalls[0].Vertices
	require.Len(t, vertices, 12)
	assert.Equal(t, float32(10), vertices[0].Position[0])
	assert.Equal(t, float32(20), vertices[6].Position[0])
}

func TestResizeImageReuploads(t *testing.T) {
	r, dev := newRasterizer(t, nil)

	img, err := r.NewImage(2, 2)
	require.NoError(t, err)

	_, err = r.ImageToWindow(img, 0, 0)
	require.NoError(t, err)

	require.NoError(t, r.Loop())

	require.NoError(t, r.ResizeImage(img, 3, 5))
	require.NoError(t, r.Loop())

	texture := dev.Textures[r.contexts[img].texture]
	assert.Equal(t, uint32(3), texture.Width)
	assert.Equal(t, uint32(5), texture.Height)

	// the quad follows the new size
	last := dev.DrawCalls[len(dev.DrawCalls)-1].Vertices
	assert.Equal(t, float32(3), last[1].Position[0])
	assert.Equal(t, float32(5), last[1].Position[1])
}

func TestResizeWindow(t *testing.T) {
	r, dev := newRasterizer(t, func(conf *Config) { conf.Stretch = true })

	require.NoError(t, r.Loop())
	before := dev.Projection

	r.Resize(1600, 1200)
	require.NoError(t, r.Loop())

	assert.Equal(t, uint32(1600), dev.Width)
	assert.Equal(t, uint32(1200), dev.Height)
	assert.NotEqual(t, before, dev.Projection)
	assert.Equal(t, pulse.NewProjection(800, 600, true).Matrix(1600, 1200, 1), dev.Projection)
}

func TestResizeWindowLocked(t *testing.T) {
	r, dev := newRasterizer(t, nil)

	require.NoError(t, r.Loop())

	r.Resize(1600, 1200)
	require.NoError(t, r.Loop())

	// without stretch the projection keeps the initial size
	assert.Equal(t, 1, dev.ProjectionUpdates)
}

func TestShutdown(t *testing.T) {
	r, dev := newRasterizer(t, nil)

	img, err := r.NewImage(1, 1)
	require.NoError(t, err)

	_, err = r.ImageToWindow(img, 0, 0)
	require.NoError(t, err)

	require.NoError(t, r.Loop())

	r.Shutdown()

	assert.True(t, dev.Released)
	assert.Empty(t, dev.Textures)
	assert.Empty(t, r.Store().Images())
	assert.ErrorIs(t, r.Loop(), ErrNotInitialized)
}

func TestMemoryLimit(t *testing.T) {
	gfxerr.Reset()

	r, _ := newRasterizer(t, func(conf *Config) { conf.MemoryLimit = 1024 })

	_, err := r.NewImage(16, 16)
	require.NoError(t, err)

	_, err = r.NewImage(1, 1)
	require.ErrorIs(t, err, gfxerr.AllocationError)
	assert.Equal(t, gfxerr.AllocationError, gfxerr.Last())
}

func TestOversizedImageFailsLoop(t *testing.T) {
	gfxerr.Reset()

	r, dev := newRasterizer(t, nil)
	dev.MaxTextureSize = 8192

	img, err := r.NewImage(10000, 4)
	require.NoError(t, err)

	_, err = r.ImageToWindow(img, 0, 0)
	require.NoError(t, err)

	require.NotPanics(t, func() {
		err = r.Loop()
	})

	require.ErrorIs(t, err, gfxerr.AllocationError)
	assert.Equal(t, gfxerr.AllocationError, gfxerr.Last())
	assert.False(t, dev.InFrame)
	assert.Empty(t, dev.DrawCalls)

	// shrinking the image lets the next frame draw it
	require.NoError(t, r.ResizeImage(img, 8192, 4))
	require.NoError(t, r.Loop())

	require.Len(t, dev.DrawCalls, 1)
	assert.Equal(t, float32(8192), dev.DrawCalls[0].Vertices[1].Position[0])
}
