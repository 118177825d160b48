package pulse

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/oliverbestmann/pixl/gfxerr"
	"github.com/oliverbestmann/pixl/glm"
)

// DefaultBatchCapacity is the vertex capacity of a batch, 2000 quads.
const DefaultBatchCapacity = 12000

var ErrNotReady = errors.New("batch is not initialized")

type Stats struct {
	DrawCalls int
	Vertices  int
	Quads     int
}

// Batch collects quads in a fixed size vertex arena and turns them into
// draw calls. A draw call is issued when the arena is full, when the
// texture slots are exhausted or on Flush.
type Batch struct {
	dev    Device
	binder *Binder

	vertices []Vertex
	count    int

	ready bool

	projection    glm.Mat4f
	hasProjection bool

	stats Stats
}

// NewBatch allocates the vertex arena. The capacity is rounded down to whole
// quads, a capacity below one quad selects DefaultBatchCapacity.
func NewBatch(dev Device, capacity int) *Batch {
	capacity -= capacity % VerticesPerQuad
	if capacity < VerticesPerQuad {
		capacity = DefaultBatchCapacity
	}

	b := &Batch{
		dev:      dev,
		vertices: make([]Vertex, capacity),
	}

	b.binder = NewBinder(dev, b.Flush)

	return b
}

// Init compiles and links the shader program. On failure the compiled
// stages are released and the batch stays unusable.
func (b *Batch) Init(vertexSource, fragmentSource string) error {
	vertex, err := b.dev.CompileShader(StageVertex, vertexSource)
	if err != nil {
		return withCode(gfxerr.VertexShaderError, "compile vertex shader", err)
	}

	defer b.dev.DeleteShader(vertex)

	fragment, err := b.dev.CompileShader(StageFragment, fragmentSource)
	if err != nil {
		return withCode(gfxerr.FragmentShaderError, "compile fragment shader", err)
	}

	defer b.dev.DeleteShader(fragment)

	if err := b.dev.LinkProgram(vertex, fragment); err != nil {
		return withCode(gfxerr.ProgramLinkError, "link shader program", err)
	}

	slog.Info("Batch renderer ready", slog.Int("capacity", len(b.vertices)))

	b.ready = true

	return nil
}

func (b *Batch) Ready() bool {
	return b.ready
}

// Capacity returns the size of the vertex arena.
func (b *Batch) Capacity() int {
	return len(b.vertices)
}

// Pending returns the number of vertices waiting for the next draw call.
func (b *Batch) Pending() int {
	return b.count
}

func (b *Batch) Binder() *Binder {
	return b.binder
}

// AddQuad queues a w by h rectangle with its top left corner at x, y,
// textured with tex.
func (b *Batch) AddQuad(tex TextureHandle, x, y, z, w, h float32) error {
	if !b.ready {
		return ErrNotReady
	}

	if b.count+VerticesPerQuad > len(b.vertices) {
		if err := b.Flush(); err != nil {
			return err
		}
	}

	slot, err := b.binder.Bind(tex)
	if err != nil {
		return err
	}

	appendQuad(b.vertices[b.count:], x, y, z, w, h, slot)
	b.count += VerticesPerQuad

	return nil
}

// Flush draws all pending vertices with a single draw call.
func (b *Batch) Flush() error {
	if b.count == 0 {
		return nil
	}

	slog.Debug("Rendering quads", slog.Int("vertexCount", b.count))

	vertices := b.vertices[:b.count]

	// the arena and the binder start over even if the draw failed
	b.count = 0
	b.binder.Reset()

	if err := b.dev.Draw(vertices); err != nil {
		return fmt.Errorf("draw %d vertices: %w", len(vertices), err)
	}

	b.stats.DrawCalls++
	b.stats.Vertices += len(vertices)
	b.stats.Quads += len(vertices) / VerticesPerQuad

	return nil
}

// UpdateMatrix uploads the projection for the current window size if it
// changed since the previous call.
func (b *Batch) UpdateMatrix(projection Projection, width, height uint32, depth int32) {
	matrix := projection.Matrix(width, height, depth)
	if b.hasProjection && matrix == b.projection {
		return
	}

	b.projection = matrix
	b.hasProjection = true

	b.dev.SetProjection(matrix)
}

func (b *Batch) Stats() Stats {
	return b.stats
}

func (b *Batch) ResetStats() {
	b.stats = Stats{}
}

func withCode(code gfxerr.Code, msg string, err error) error {
	var existing gfxerr.Code
	if errors.As(err, &existing) {
		gfxerr.Set(existing)
		return fmt.Errorf("%s: %w", msg, err)
	}

	return fmt.Errorf("%s: %w: %w", msg, gfxerr.Set(code), err)
}
