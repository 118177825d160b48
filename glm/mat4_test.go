package glm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrthographicMapsCorners(t *testing.T) {
	// pixel space, origin top left, y pointing down
	proj := Orthographic[float32](0, 800, 600, 0, -10, 10)

	topLeft := proj.Transform(Vec4f{0, 0, 0, 1})
	assert.InDeltaSlice(t, []float32{-1, 1, 0, 1}, topLeft[:], 1e-6)

	bottomRight := proj.Transform(Vec4f{800, 600, 0, 1})
	assert.InDeltaSlice(t, []float32{1, -1, 0, 1}, bottomRight[:], 1e-6)

	far := proj.Transform(Vec4f{0, 0, 10, 1})
	assert.InDelta(t, -1, far[2], 1e-6)
}

func TestBytes(t *testing.T) {
	m := Orthographic[float32](0, 800, 600, 0, -1, 1)
	assert.Len(t, m.Bytes(), 64)
}

func TestVecComponents(t *testing.T) {
	x, y := Vec2i{3, 4}.Add(Vec2i{-1, 2}).XY()
	assert.Equal(t, int32(2), x)
	assert.Equal(t, int32(6), y)

	r, g, b, a := Vec4f{1, 2, 3, 4}.XYZW()
	assert.Equal(t, []float32{1, 2, 3, 4}, []float32{r, g, b, a})
}
