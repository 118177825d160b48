// Package pulse batches textured quads into as few draw calls as the
// texture slot budget allows. The GPU is reached through the Device
// capability, see package gpu for the webgpu implementation.
package pulse

import (
	"github.com/oliverbestmann/pixl/glm"
)

// MaxTextureSlots is the number of textures a single draw call can sample.
const MaxTextureSlots = 16

// TextureHandle names a texture owned by a Device. Zero is never a valid
// texture.
type TextureHandle uint32

// ShaderHandle names a compiled shader stage owned by a Device.
type ShaderHandle uint32

type Stage int

const (
	StageVertex Stage = iota
	StageFragment
)

func (s Stage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	default:
		return "unknown"
	}
}

// Device is the GPU as seen by the batch renderer. A Device owns exactly one
// shader program and one vertex buffer. All methods must be called from the
// thread that owns the GPU context.
type Device interface {
	// CompileShader compiles source for the given stage.
	CompileShader(stage Stage, source string) (ShaderHandle, error)
	DeleteShader(shader ShaderHandle)

	// LinkProgram combines both stages into the program used by Draw.
	LinkProgram(vertex, fragment ShaderHandle) error

	CreateTexture() (TextureHandle, error)

	// UploadTexture replaces the content of tex. The texture is reallocated
	// if the size changed since the previous upload.
	UploadTexture(tex TextureHandle, width, height uint32, pixels []byte) error

	// BindTexture attaches tex to the sampler at slot for the following draw calls.
	BindTexture(slot uint32, tex TextureHandle)
	DeleteTexture(tex TextureHandle)

	SetProjection(projection glm.Mat4f)

	// Draw uploads the vertices and issues a single draw call.
	Draw(vertices []Vertex) error

	BeginFrame(clear Color) error
	EndFrame() error

	// Resize reconfigures the surface after the window changed its size.
	Resize(width, height uint32)

	Release()
}
