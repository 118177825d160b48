// Package glimpse opens the window the rasterizer renders into.
package glimpse

import "github.com/oliverbestmann/webgpu/wgpu"

type Window interface {
	GetSize() (uint32, uint32)
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// Run calls render once per frame until the window is closed or
	// render fails.
	Run(render func() error) error

	// Close asks the window to close after the current frame.
	Close()

	Terminate()
}

type WindowOptions struct {
	Width  int
	Height int
	Title  string

	Resizable bool

	// Profile writes a cpu profile until the window terminates.
	Profile bool
}
