package scene

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/oliverbestmann/pixl/array"
	"github.com/oliverbestmann/pixl/gfxerr"
)

type StoreOptions struct {
	// MemoryLimit bounds the bytes of all pixel buffers together.
	// Zero means unlimited.
	MemoryLimit int

	// MaxImages bounds the capacity of the image array. Zero means unlimited.
	MaxImages int

	// MaxInstances bounds the capacity of each instance array and of the
	// draw queue. Zero means unlimited.
	MaxInstances int
}

// Store owns every image of a window together with the draw queue.
type Store struct {
	opts StoreOptions

	images *array.Array[*Image]
	queue  *Queue

	// next depth handed out by AddInstance
	placement int32

	// running depth extent, always at least one
	depth int32

	memoryUsed int
}

func NewStore(opts StoreOptions) *Store {
	images := array.New[*Image]()
	images.SetLimit(opts.MaxImages)

	queue := newQueue()
	queue.entries.SetLimit(opts.MaxInstances)

	return &Store{
		opts:   opts,
		images: images,
		queue:  queue,
		depth:  1,
	}
}

// NewImage allocates a zeroed image of the given size. The image starts
// enabled and without instances.
func (s *Store) NewImage(width, height uint32) (*Image, error) {
	pixels, err := s.allocate(width, height, 0)
	if err != nil {
		return nil, fmt.Errorf("create image %dx%d: %w", width, height, err)
	}

	img := newImage(width, height, pixels)
	img.instances.SetLimit(s.opts.MaxInstances)

	if err := s.images.Push(img); err != nil {
		return nil, fmt.Errorf("create image %dx%d: %w", width, height, err)
	}

	s.memoryUsed += len(pixels)

	return img, nil
}

// AddInstance places img at x, y on top of everything placed before and
// returns the index of the new instance.
func (s *Store) AddInstance(img *Image, x, y int32) (int, error) {
	instance := Instance{X: x, Y: y, Z: s.placement, Enabled: true}

	if err := img.instances.Push(instance); err != nil {
		return 0, fmt.Errorf("add instance of %s: %w", img, err)
	}

	index := img.instances.Len() - 1

	if err := s.queue.push(img, index); err != nil {
		img.instances.Delete(index)
		return 0, fmt.Errorf("queue instance of %s: %w", img, err)
	}

	s.placement++
	s.extendDepth(instance.Z)

	return index, nil
}

// DeleteInstance removes the instance at index. Indices of later instances
// of the same image shift down by one.
func (s *Store) DeleteInstance(img *Image, index int) {
	img.instances.Delete(index)
	s.queue.remove(img, index)
}

// SetDepth overrides the depth of an instance.
func (s *Store) SetDepth(img *Image, index int, z int32) {
	img.Instance(index).Z = z
	s.extendDepth(z)
	s.queue.MarkDirty()
}

// Resize replaces the pixel buffer of img. The overlapping top left region
// is kept, new pixels are transparent black. On failure the image is not
// modified.
func (s *Store) Resize(img *Image, width, height uint32) error {
	pixels, err := s.allocate(width, height, len(img.pixels))
	if err != nil {
		return fmt.Errorf("resize %s to %dx%d: %w", img, width, height, err)
	}

	rowBytes := int(min(img.width, width)) * 4
	rows := int(min(img.height, height))

	for row := range rows {
		src := img.pixels[row*int(img.width)*4:]
		dst := pixels[row*int(width)*4:]
		copy(dst[:rowBytes], src[:rowBytes])
	}

	s.memoryUsed += len(pixels) - len(img.pixels)

	img.width = width
	img.height = height
	img.pixels = pixels
	img.dirty = true

	return nil
}

// Delete removes img from the store and the draw queue and releases its
// buffers. The image must not be used afterwards.
func (s *Store) Delete(img *Image) {
	removed := s.images.DeleteFunc(func(candidate *Image) bool {
		return candidate == img
	})

	if removed == 0 {
		slog.Warn("Delete of unknown image", slog.String("image", img.String()))
		return
	}

	purged := s.queue.Purge(img)
	slog.Debug("Deleted image", slog.String("image", img.String()), slog.Int("purged", purged))

	s.memoryUsed -= len(img.pixels)

	img.instances.Free()
	img.pixels = nil
	img.width = 0
	img.height = 0
}

func (s *Store) Images() []*Image {
	return s.images.Items()
}

func (s *Store) Queue() *Queue {
	return s.queue
}

// Depth returns the largest absolute depth in use plus one.
func (s *Store) Depth() int32 {
	return s.depth
}

// MemoryUsed returns the bytes held by all pixel buffers.
func (s *Store) MemoryUsed() int {
	return s.memoryUsed
}

func (s *Store) extendDepth(z int32) {
	extent := int64(z)
	if extent < 0 {
		extent = -extent
	}

	extent = min(extent+1, math.MaxInt32)
	s.depth = max(s.depth, int32(extent))
}

// allocate returns a zeroed pixel buffer, accounting for the bytes of the
// buffer it replaces.
func (s *Store) allocate(width, height uint32, replaces int) ([]byte, error) {
	if width == 0 || height == 0 {
		return nil, gfxerr.Set(gfxerr.InvalidDimensions)
	}

	size := uint64(width) * uint64(height) * 4
	if size > math.MaxInt32 {
		return nil, gfxerr.Set(gfxerr.AllocationError)
	}

	if s.opts.MemoryLimit > 0 && s.memoryUsed-replaces+int(size) > s.opts.MemoryLimit {
		return nil, gfxerr.Set(gfxerr.AllocationError)
	}

	return make([]byte, size), nil
}
