// Package pulsetest provides a pulse.Device that records what it is asked
// to do instead of talking to a GPU.
package pulsetest

import (
	"fmt"
	"slices"

	"github.com/oliverbestmann/pixl/gfxerr"
	"github.com/oliverbestmann/pixl/glm"
	"github.com/oliverbestmann/pixl/pulse"
)

// DrawCall is a single recorded call to Draw.
type DrawCall struct {
	Vertices []pulse.Vertex

	// textures bound to each slot at the time of the call
	Slots [pulse.MaxTextureSlots]pulse.TextureHandle
}

// Texture is the recorded state of a texture.
type Texture struct {
	Width, Height uint32
	Pixels        []byte
	Uploads       int
}

// Device records every call. Set the Fail fields to inject errors.
type Device struct {
	FailVertex   error
	FailFragment error
	FailLink     error
	FailDraw     error

	// MaxTextureSize bounds texture width and height, zero is unlimited
	MaxTextureSize uint32

	Shaders        map[pulse.ShaderHandle]pulse.Stage
	DeletedShaders []pulse.ShaderHandle
	Linked         bool

	Textures map[pulse.TextureHandle]*Texture
	Slots    [pulse.MaxTextureSlots]pulse.TextureHandle
	Binds    int

	Projection glm.Mat4f

	// ProjectionUpdates counts calls to SetProjection
	ProjectionUpdates int

	DrawCalls []DrawCall

	Frames      int
	InFrame     bool
	ClearColors []pulse.Color

	Width, Height uint32
	Released      bool

	nextHandle uint32
}

var _ pulse.Device = (*Device)(nil)

func New() *Device {
	return &Device{
		Shaders:  map[pulse.ShaderHandle]pulse.Stage{},
		Textures: map[pulse.TextureHandle]*Texture{},
	}
}

func (d *Device) CompileShader(stage pulse.Stage, source string) (pulse.ShaderHandle, error) {
	switch {
	case stage == pulse.StageVertex && d.FailVertex != nil:
		return 0, d.FailVertex
	case stage == pulse.StageFragment && d.FailFragment != nil:
		return 0, d.FailFragment
	case source == "":
		return 0, fmt.Errorf("empty %s shader", stage)
	}

	handle := pulse.ShaderHandle(d.handle())
	d.Shaders[handle] = stage

	return handle, nil
}

func (d *Device) DeleteShader(shader pulse.ShaderHandle) {
	delete(d.Shaders, shader)
	d.DeletedShaders = append(d.DeletedShaders, shader)
}

func (d *Device) LinkProgram(vertex, fragment pulse.ShaderHandle) error {
	if d.FailLink != nil {
		return d.FailLink
	}

	vertexStage, vertexOk := d.Shaders[vertex]
	fragmentStage, fragmentOk := d.Shaders[fragment]

	if !vertexOk || !fragmentOk || vertexStage != pulse.StageVertex || fragmentStage != pulse.StageFragment {
		return fmt.Errorf("link program: stages %d and %d do not match", vertex, fragment)
	}

	d.Linked = true

	return nil
}

func (d *Device) CreateTexture() (pulse.TextureHandle, error) {
	handle := pulse.TextureHandle(d.handle())
	d.Textures[handle] = &Texture{}
	return handle, nil
}

func (d *Device) UploadTexture(tex pulse.TextureHandle, width, height uint32, pixels []byte) error {
	texture, ok := d.Textures[tex]
	if !ok {
		return fmt.Errorf("upload to unknown texture %d", tex)
	}

	if d.MaxTextureSize > 0 && (width > d.MaxTextureSize || height > d.MaxTextureSize) {
		return fmt.Errorf("upload texture %dx%d: %w", width, height, gfxerr.Set(gfxerr.AllocationError))
	}

	if len(pixels) != int(width*height*4) {
		return fmt.Errorf("upload %d bytes to %dx%d texture", len(pixels), width, height)
	}

	texture.Width = width
	texture.Height = height
	texture.Pixels = slices.Clone(pixels)
	texture.Uploads++

	return nil
}

func (d *Device) BindTexture(slot uint32, tex pulse.TextureHandle) {
	d.Slots[slot] = tex
	d.Binds++
}

func (d *Device) DeleteTexture(tex pulse.TextureHandle) {
	delete(d.Textures, tex)
}

func (d *Device) SetProjection(projection glm.Mat4f) {
	d.Projection = projection
	d.ProjectionUpdates++
}

func (d *Device) Draw(vertices []pulse.Vertex) error {
	if d.FailDraw != nil {
		return d.FailDraw
	}

	if !d.Linked {
		return fmt.Errorf("draw without a linked program")
	}

	d.DrawCalls = append(d.DrawCalls, DrawCall{
		Vertices: slices.Clone(vertices),
		Slots:    d.Slots,
	})

	return nil
}

func (d *Device) BeginFrame(clear pulse.Color) error {
	if d.InFrame {
		return fmt.Errorf("frame already started")
	}

	d.InFrame = true
	d.ClearColors = append(d.ClearColors, clear)

	return nil
}

func (d *Device) EndFrame() error {
	if !d.InFrame {
		return fmt.Errorf("no frame started")
	}

	d.InFrame = false
	d.Frames++

	return nil
}

func (d *Device) Resize(width, height uint32) {
	d.Width = width
	d.Height = height
}

func (d *Device) Release() {
	d.Released = true
}

// VertexCount sums the vertices over all recorded draw calls.
func (d *Device) VertexCount() int {
	var count int
	for _, call := range d.DrawCalls {
		count += len(call.Vertices)
	}

	return count
}

// Reset forgets the recorded draw calls.
func (d *Device) Reset() {
	d.DrawCalls = nil
	d.Binds = 0
}

func (d *Device) handle() uint32 {
	d.nextHandle++
	return d.nextHandle
}
