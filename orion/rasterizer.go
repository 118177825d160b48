package orion

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/fsnotify/fsnotify"
	"github.com/oliverbestmann/pixl/gfxerr"
	"github.com/oliverbestmann/pixl/pulse"
	"github.com/oliverbestmann/pixl/scene"
)

var ErrNotInitialized = errors.New("rasterizer is not initialized")

// imageContext is the render state kept for every image that was uploaded.
type imageContext struct {
	texture pulse.TextureHandle

	// size of the texture at the last upload
	width, height uint32
}

// Rasterizer renders the images of a scene.Store through a pulse.Device.
// It must only be used from the thread that owns the device.
type Rasterizer struct {
	dev   pulse.Device
	conf  Config
	store *scene.Store
	batch *pulse.Batch

	projection    pulse.Projection
	width, height uint32
	clearColor    pulse.Color

	contexts map[*scene.Image]*imageContext

	initialized bool

	watcher       *fsnotify.Watcher
	configUpdates chan Config

	frames     FrameTimes
	frameStats pulse.Stats
}

// New creates a rasterizer rendering to dev. The window is expected to
// have the size configured in conf.
func New(dev pulse.Device, conf Config) *Rasterizer {
	width, height := uint32(max(conf.Width, 1)), uint32(max(conf.Height, 1))

	return &Rasterizer{
		dev:  dev,
		conf: conf,

		store: scene.NewStore(scene.StoreOptions{
			MemoryLimit:  conf.MemoryLimit,
			MaxImages:    conf.MaxImages,
			MaxInstances: conf.MaxInstances,
		}),

		batch: pulse.NewBatch(dev, conf.BatchCapacity),

		projection: pulse.NewProjection(width, height, conf.Stretch),
		width:      width,
		height:     height,
		clearColor: pulse.ColorRGBA(conf.ClearColor),

		contexts: map[*scene.Image]*imageContext{},

		configUpdates: make(chan Config, 1),
	}
}

// Init builds the shader program. It must succeed before the first Loop.
func (r *Rasterizer) Init(shaders ShaderSources) error {
	if err := r.batch.Init(shaders.Vertex, shaders.Fragment); err != nil {
		return fmt.Errorf("initialize batch renderer: %w", err)
	}

	r.initialized = true

	return nil
}

func (r *Rasterizer) Store() *scene.Store {
	return r.store
}

// Config returns the configuration currently in effect.
func (r *Rasterizer) Config() Config {
	return r.conf
}

// FrameStats returns the draw statistics of the last rendered frame.
func (r *Rasterizer) FrameStats() pulse.Stats {
	return r.frameStats
}

func (r *Rasterizer) FrameTimes() FrameTimes {
	return r.frames
}

func (r *Rasterizer) NewImage(width, height uint32) (*scene.Image, error) {
	return r.store.NewImage(width, height)
}

func (r *Rasterizer) PutPixel(img *scene.Image, x, y uint32, color uint32) {
	img.PutPixel(x, y, color)
}

func (r *Rasterizer) ImageToWindow(img *scene.Image, x, y int32) (int, error) {
	return r.store.AddInstance(img, x, y)
}

// DeleteImage releases the texture of img and removes it from the store.
func (r *Rasterizer) DeleteImage(img *scene.Image) {
	if ctx, ok := r.contexts[img]; ok {
		r.batch.Binder().Forget(ctx.texture)
		r.dev.DeleteTexture(ctx.texture)
		delete(r.contexts, img)
	}

	r.store.Delete(img)
}

func (r *Rasterizer) ResizeImage(img *scene.Image, width, height uint32) error {
	return r.store.Resize(img, width, height)
}

func (r *Rasterizer) DeleteInstance(img *scene.Image, index int) {
	r.store.DeleteInstance(img, index)
}

func (r *Rasterizer) SetInstanceDepth(img *scene.Image, index int, z int32) {
	r.store.SetDepth(img, index, z)
}

func (r *Rasterizer) Resize(width, height uint32) {
	if width == r.width && height == r.height {
		return
	}

	r.width = width
	r.height = height

	r.dev.Resize(width, height)
}

// Shutdown releases every image and the device.
func (r *Rasterizer) Shutdown() {
	if r.watcher != nil {
		if err := r.watcher.Close(); err != nil {
			slog.Warn("Failed to stop config watcher", slog.String("err", err.Error()))
		}

		r.watcher = nil
	}

	for _, img := range append([]*scene.Image(nil), r.store.Images()...) {
		r.DeleteImage(img)
	}

	r.initialized = false
	r.dev.Release()
}

// upload sends the pixels of every modified image to its texture.
func (r *Rasterizer) upload() error {
	for _, img := range r.store.Images() {
		// images are uploaded once they are placed in the window
		if img.InstanceCount() == 0 || !img.Dirty() {
			continue
		}

		ctx, ok := r.contexts[img]
		if !ok {
			texture, err := r.dev.CreateTexture()
			if err != nil {
				return fmt.Errorf("create texture for %s: %w", img, gfxerr.Report(err))
			}

			ctx = &imageContext{texture: texture}
			r.contexts[img] = ctx
		}

		if err := r.dev.UploadTexture(ctx.texture, img.Width(), img.Height(), img.Buffer()); err != nil {
			return fmt.Errorf("upload %s: %w", img, err)
		}

		img.TakeDirty()

		ctx.width = img.Width()
		ctx.height = img.Height()
	}

	return nil
}

// draw emits a quad for every visible instance in depth order.
func (r *Rasterizer) draw() error {
	r.batch.UpdateMatrix(r.projection, r.width, r.height, r.store.Depth())

	queue := r.store.Queue()
	queue.Sort()

	for _, entry := range queue.Entries() {
		img := entry.Image
		if !img.Enabled() {
			continue
		}

		instance := entry.Instance()
		if !instance.Enabled {
			continue
		}

		ctx, ok := r.contexts[img]
		if !ok {
			continue
		}

		err := r.batch.AddQuad(
			ctx.texture,
			float32(instance.X),
			float32(instance.Y),
			float32(instance.Z),
			float32(ctx.width),
			float32(ctx.height),
		)

		if err != nil {
			return fmt.Errorf("draw %s: %w", img, err)
		}
	}

	return r.batch.Flush()
}
