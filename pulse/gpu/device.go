package gpu

import (
	"errors"
	"fmt"
	"log/slog"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/oliverbestmann/pixl/gfxerr"
	"github.com/oliverbestmann/pixl/glm"
	"github.com/oliverbestmann/pixl/pulse"
	"github.com/oliverbestmann/webgpu/wgpu"
)

var errNoFrame = errors.New("no frame in progress")

type bindings = [pulse.MaxTextureSlots]pulse.TextureHandle

type DeviceOptions struct {
	// initial size of the vertex buffer in vertices
	VertexCapacity int

	// MaxTextureSize bounds the width and height of image textures,
	// defaults to DefaultMaxTextureSize
	MaxTextureSize uint32
}

// Device renders quads to the window surface.
type Device struct {
	ctx     *Context
	surface *surfaceState

	pipelineCache *pipelineCache

	shaders    map[pulse.ShaderHandle]shaderStage
	program    *quadPipelineConfig
	nextHandle uint32

	textures       map[pulse.TextureHandle]*Texture
	placeholder    *Texture
	maxTextureSize uint32
	slots       bindings

	// bind groups by the textures bound to the slots
	bindGroups *lru.Cache[bindings, *wgpu.BindGroup]

	bufVertices       *wgpu.Buffer
	bufVertexCapacity uint64
	bufUniforms       *wgpu.Buffer

	inFrame    bool
	cleared    bool
	clearColor wgpu.Color
}

var _ pulse.Device = (*Device)(nil)

// NewDevice acquires a gpu device rendering to the surface described by sd.
func NewDevice(sd *wgpu.SurfaceDescriptor, width, height uint32, opts DeviceOptions) (*Device, error) {
	ctx, err := NewContext(sd)
	if err != nil {
		return nil, err
	}

	if opts.VertexCapacity <= 0 {
		opts.VertexCapacity = pulse.DefaultBatchCapacity
	}

	if opts.MaxTextureSize == 0 {
		opts.MaxTextureSize = DefaultMaxTextureSize
	}

	d := &Device{
		ctx:      ctx,
		surface:  newSurfaceState(ctx),
		shaders:  map[pulse.ShaderHandle]shaderStage{},
		textures: map[pulse.TextureHandle]*Texture{},

		maxTextureSize: opts.MaxTextureSize,
	}

	d.pipelineCache = newPipelineCache(ctx)
	d.bindGroups, _ = lru.NewWithEvict[bindings, *wgpu.BindGroup](64, releaseBindGroupOnEviction)

	d.bufUniforms = ctx.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Quad.Uniforms",
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
		Size:  uint64(len(new(glm.Mat4f).Bytes())),
	})

	d.allocateVertexBuffer(uint64(opts.VertexCapacity))

	// empty slots sample from a transparent pixel
	d.placeholder, err = NewTexture(ctx, NewTextureOptions{Label: "Placeholder", Width: 1, Height: 1})
	if err != nil {
		d.Release()
		return nil, fmt.Errorf("initialize placeholder: %w: %w", gfxerr.Set(gfxerr.GPUInitError), err)
	}

	if err := d.placeholder.WritePixels(ctx, make([]byte, 4)); err != nil {
		d.Release()
		return nil, fmt.Errorf("initialize placeholder: %w", err)
	}

	d.surface.Configure(width, height)

	return d, nil
}

func (d *Device) CompileShader(stage pulse.Stage, source string) (pulse.ShaderHandle, error) {
	if err := validateShader(stage, source); err != nil {
		return 0, err
	}

	d.nextHandle++
	handle := pulse.ShaderHandle(d.nextHandle)

	d.shaders[handle] = shaderStage{stage: stage, source: source}

	return handle, nil
}

func (d *Device) DeleteShader(shader pulse.ShaderHandle) {
	delete(d.shaders, shader)
}

func (d *Device) LinkProgram(vertex, fragment pulse.ShaderHandle) error {
	vs, ok := d.shaders[vertex]
	if !ok || vs.stage != pulse.StageVertex {
		return fmt.Errorf("link program: %w", gfxerr.Set(gfxerr.ProgramCreateError))
	}

	fs, ok := d.shaders[fragment]
	if !ok || fs.stage != pulse.StageFragment {
		return fmt.Errorf("link program: %w", gfxerr.Set(gfxerr.ProgramCreateError))
	}

	program := quadPipelineConfig{
		TargetFormat:   d.surface.Format(),
		VertexSource:   vs.source,
		FragmentSource: fs.source,
	}

	// build the pipeline now so that errors surface during initialization
	if _, err := d.pipelineCache.Get(program); err != nil {
		return err
	}

	d.program = &program

	return nil
}

func (d *Device) CreateTexture() (pulse.TextureHandle, error) {
	d.nextHandle++
	handle := pulse.TextureHandle(d.nextHandle)

	// allocated on first upload, once the size is known
	d.textures[handle] = nil

	return handle, nil
}

func (d *Device) UploadTexture(tex pulse.TextureHandle, width, height uint32, pixels []byte) error {
	texture, ok := d.textures[tex]
	if !ok {
		return fmt.Errorf("upload to unknown texture %d", tex)
	}

	if err := checkTextureSize(width, height, d.maxTextureSize); err != nil {
		return err
	}

	if texture == nil || texture.Width() != width || texture.Height() != height {
		// cached bind groups still reference the previous view
		d.forgetBindGroups()

		if texture != nil {
			texture.Release()
			d.textures[tex] = nil
		}

		var err error

		texture, err = NewTexture(d.ctx, NewTextureOptions{
			Label:  fmt.Sprintf("Image%d", tex),
			Width:  width,
			Height: height,
		})
		if err != nil {
			return fmt.Errorf("upload texture %dx%d: %w: %w", width, height, gfxerr.Set(gfxerr.AllocationError), err)
		}

		d.textures[tex] = texture
	}

	return texture.WritePixels(d.ctx, pixels)
}

func (d *Device) BindTexture(slot uint32, tex pulse.TextureHandle) {
	d.slots[slot] = tex
}

func (d *Device) DeleteTexture(tex pulse.TextureHandle) {
	texture, ok := d.textures[tex]
	if !ok {
		return
	}

	delete(d.textures, tex)

	for slot, bound := range d.slots {
		if bound == tex {
			d.slots[slot] = 0
		}
	}

	if texture != nil {
		d.forgetBindGroups()
		texture.Release()
	}
}

func (d *Device) SetProjection(projection glm.Mat4f) {
	if err := d.ctx.TryWriteBuffer(d.bufUniforms, 0, projection.Bytes()); err != nil {
		slog.Warn("Failed to update projection", slog.Any("err", err))
	}
}

func (d *Device) BeginFrame(clear pulse.Color) error {
	if d.inFrame {
		return fmt.Errorf("begin frame: frame already in progress")
	}

	if err := d.surface.Acquire(); err != nil {
		return err
	}

	r, g, b, a := clear.Components()

	d.inFrame = true
	d.cleared = false
	d.clearColor = wgpu.Color{R: float64(r), G: float64(g), B: float64(b), A: float64(a)}

	return nil
}

func (d *Device) Draw(vertices []pulse.Vertex) error {
	if !d.inFrame {
		return fmt.Errorf("draw: %w", errNoFrame)
	}

	if d.program == nil {
		return fmt.Errorf("draw: no program linked")
	}

	if len(vertices) == 0 {
		return nil
	}

	lp, err := d.pipelineCache.Get(*d.program)
	if err != nil {
		return err
	}

	if uint64(len(vertices)) > d.bufVertexCapacity {
		d.bufVertices.Release()
		d.allocateVertexBuffer(uint64(len(vertices)))
	}

	bindGroup := d.bindGroup(&lp)

	if err := d.ctx.TryWriteBuffer(d.bufVertices, 0, pulse.AsByteSlice(vertices)); err != nil {
		return fmt.Errorf("update vertex buffer: %w", err)
	}

	return d.submitPass("RenderPassQuads", func(pass *wgpu.RenderPassEncoder) {
		pass.SetPipeline(lp.Pipeline)
		pass.SetBindGroup(0, bindGroup, nil)
		pass.SetVertexBuffer(0, d.bufVertices, 0, wgpu.WholeSize)
		pass.Draw(uint32(len(vertices)), 1, 0, 0)
	})
}

func (d *Device) EndFrame() error {
	if !d.inFrame {
		return fmt.Errorf("end frame: %w", errNoFrame)
	}

	d.inFrame = false

	if !d.cleared {
		// nothing was drawn this frame, still clear the screen
		err := d.submitPass("ClearSurface", func(pass *wgpu.RenderPassEncoder) {})
		if err != nil {
			d.surface.releaseFrame()
			return err
		}
	}

	d.surface.Present()

	return nil
}

func (d *Device) Resize(width, height uint32) {
	d.surface.Configure(width, height)
}

func (d *Device) Release() {
	d.surface.releaseFrame()

	d.bindGroups.Purge()
	d.pipelineCache.Purge()
	purgeSamplers()

	for _, texture := range d.textures {
		if texture != nil {
			texture.Release()
		}
	}

	d.textures = map[pulse.TextureHandle]*Texture{}

	if d.placeholder != nil {
		d.placeholder.Release()
		d.placeholder = nil
	}

	if d.bufVertices != nil {
		d.bufVertices.Release()
		d.bufVertices = nil
	}

	if d.bufUniforms != nil {
		d.bufUniforms.Release()
		d.bufUniforms = nil
	}

	d.ctx.Release()
}

// submitPass records a single render pass onto the surface texture. The
// first pass of a frame clears the surface.
func (d *Device) submitPass(label string, record func(pass *wgpu.RenderPassEncoder)) error {
	loadOp := wgpu.LoadOpLoad
	if !d.cleared {
		loadOp = wgpu.LoadOpClear
	}

	// create command encoder to prepare render pass
	encoder := d.ctx.CreateCommandEncoder(nil)
	defer encoder.Release()

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label: label,
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       d.surface.View(),
				LoadOp:     loadOp,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: d.clearColor,
			},
		},
	})

	passGuard := NewReleaseGuard(pass)
	defer passGuard.Release()

	record(pass)

	if err := pass.TryEnd(); err != nil {
		return fmt.Errorf("end render pass: %w", err)
	}

	cmdBuffer := encoder.Finish(nil)
	defer cmdBuffer.Release()

	d.ctx.Submit(cmdBuffer)

	d.cleared = true

	return nil
}

func (d *Device) bindGroup(lp *linkedPipeline) *wgpu.BindGroup {
	if cached, ok := d.bindGroups.Get(d.slots); ok {
		return cached
	}

	entries := []wgpu.BindGroupEntry{
		{
			Binding: 0,
			Buffer:  d.bufUniforms,
			Size:    wgpu.WholeSize,
		},
		{
			Binding: 1,
			Sampler: CachedSampler(d.ctx.Device, nearestSampler),
		},
	}

	for slot, tex := range d.slots {
		view := d.placeholder.View()
		if texture := d.textures[tex]; texture != nil {
			view = texture.View()
		}

		entries = append(entries, wgpu.BindGroupEntry{
			Binding:     uint32(slot) + 2,
			TextureView: view,
		})
	}

	bindGroup := d.ctx.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   "Quad BindGroup",
		Layout:  lp.BindGroupLayout(0),
		Entries: entries,
	})

	d.bindGroups.Add(d.slots, bindGroup)

	return bindGroup
}

func (d *Device) allocateVertexBuffer(capacity uint64) {
	slog.Debug("Allocate vertex buffer", slog.Uint64("vertices", capacity))

	d.bufVertices = d.ctx.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Quad.Vertices",
		Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
		Size:  capacity * pulse.VertexSize,
	})

	d.bufVertexCapacity = capacity
}

// forgetBindGroups drops every cached bind group, one of them may
// reference a texture that is about to be released.
func (d *Device) forgetBindGroups() {
	d.bindGroups.Purge()
}

func releaseBindGroupOnEviction(_ bindings, bindGroup *wgpu.BindGroup) {
	bindGroup.Release()
}
