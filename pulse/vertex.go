package pulse

import (
	"unsafe"

	"github.com/oliverbestmann/pixl/glm"
)

// VerticesPerQuad is the number of vertices of two independent triangles.
const VerticesPerQuad = 6

// Vertex is the layout of the vertex buffer.
type Vertex struct {
	Position glm.Vec3f
	UV       glm.Vec2f

	// texture slot to sample from
	Slot uint32
}

// VertexSize is the stride of the vertex buffer in bytes.
const VertexSize = uint64(unsafe.Sizeof(Vertex{}))

// quad corners in uv space: top left, bottom right, top right
// followed by top left, bottom left, bottom right.
var quadCorners = [VerticesPerQuad]glm.Vec2f{
	{0, 0},
	{1, 1},
	{1, 0},
	{0, 0},
	{0, 1},
	{1, 1},
}

// appendQuad writes the six vertices of the rectangle x, y, w, h into dst.
func appendQuad(dst []Vertex, x, y, z, w, h float32, slot uint32) {
	_ = dst[VerticesPerQuad-1]

	for idx, uv := range quadCorners {
		dst[idx] = Vertex{
			Position: glm.Vec3f{x + uv[0]*w, y + uv[1]*h, z},
			UV:       uv,
			Slot:     slot,
		}
	}
}
