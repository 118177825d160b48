package pulse

import (
	"github.com/oliverbestmann/pixl/glm"
)

// Projection maps window pixels, origin top left with y pointing down, to
// normalized device coordinates.
type Projection struct {
	// Stretch rescales the projection to the current window size. Without
	// Stretch the projection stays locked to the initial size, so the
	// content is stretched when the window is resized.
	Stretch bool

	initialWidth, initialHeight uint32
}

func NewProjection(initialWidth, initialHeight uint32, stretch bool) Projection {
	return Projection{
		Stretch:       stretch,
		initialWidth:  max(initialWidth, 1),
		initialHeight: max(initialHeight, 1),
	}
}

// Matrix returns the projection for a window of the given size. Depths in
// [-depth, depth] stay within the clip volume.
func (p Projection) Matrix(width, height uint32, depth int32) glm.Mat4f {
	w, h := p.initialWidth, p.initialHeight
	if p.Stretch {
		w, h = max(width, 1), max(height, 1)
	}

	d := float32(max(depth, 1))

	return glm.Orthographic(0, float32(w), float32(h), 0, -d, d)
}
