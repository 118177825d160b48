// Package orion ties the image store, the draw queue and the batch renderer
// together and drives them once per frame.
package orion

import (
	"github.com/oliverbestmann/pixl/scene"
)

// API is the surface exposed to applications.
type API interface {
	Init(shaders ShaderSources) error
	Loop() error
	Shutdown()

	NewImage(width, height uint32) (*scene.Image, error)
	PutPixel(img *scene.Image, x, y uint32, color uint32)

	// ImageToWindow places a new instance of img with its top left corner at
	// x, y and returns the index of the instance.
	ImageToWindow(img *scene.Image, x, y int32) (int, error)

	DeleteImage(img *scene.Image)
	ResizeImage(img *scene.Image, width, height uint32) error
	DeleteInstance(img *scene.Image, index int)
	SetInstanceDepth(img *scene.Image, index int, z int32)

	// Resize informs about a new window size.
	Resize(width, height uint32)
}

var _ API = (*Rasterizer)(nil)

// ShaderSources holds the source code of the two shader stages.
type ShaderSources struct {
	Vertex   string
	Fragment string
}
