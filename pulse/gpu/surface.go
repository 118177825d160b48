package gpu

import (
	"fmt"
	"log/slog"

	"github.com/oliverbestmann/webgpu/wgpu"
)

// surfaceState holds the configuration of the window surface and the
// texture of the frame currently being rendered.
type surfaceState struct {
	*Context

	surfaceConfig *wgpu.SurfaceConfiguration

	// valid between BeginFrame and EndFrame
	current     *wgpu.Texture
	currentView *wgpu.TextureView
}

func newSurfaceState(ctx *Context) *surfaceState {
	// Print the available render formats
	caps := ctx.Surface.GetCapabilities(ctx.Adapter)
	slog.Info("Available surface formats", slog.Any("formats", caps.Formats))

	alphaMode := wgpu.CompositeAlphaModeAuto
	if len(caps.AlphaModes) > 0 {
		alphaMode = caps.AlphaModes[0]
	}

	return &surfaceState{
		Context: ctx,
		surfaceConfig: &wgpu.SurfaceConfiguration{
			Usage:       wgpu.TextureUsageRenderAttachment,
			Format:      wgpu.TextureFormatBGRA8Unorm,
			PresentMode: wgpu.PresentModeFifo,
			AlphaMode:   alphaMode,

			// try to reduce input latency
			DesiredMaximumFrameLatency: 1,
		},
	}
}

func (s *surfaceState) Format() wgpu.TextureFormat {
	return s.surfaceConfig.Format
}

func (s *surfaceState) Configure(width, height uint32) {
	if width == 0 || height == 0 {
		// minimized window, keep the previous configuration
		return
	}

	if width == s.surfaceConfig.Width && height == s.surfaceConfig.Height {
		return
	}

	slog.Debug("Resize surface",
		slog.Int("width", int(width)),
		slog.Int("height", int(height)),
	)

	s.surfaceConfig.Width = width
	s.surfaceConfig.Height = height
	s.Surface.Configure(s.Device, s.surfaceConfig)
}

// Acquire gets the surface texture of the next frame.
func (s *surfaceState) Acquire() error {
	texture, err := s.Surface.GetCurrentTexture()
	if err != nil {
		return fmt.Errorf("get current texture: %w", err)
	}

	s.current = texture
	s.currentView = texture.CreateView(nil)

	return nil
}

func (s *surfaceState) View() *wgpu.TextureView {
	return s.currentView
}

// Present shows the current frame.
func (s *surfaceState) Present() {
	s.Surface.Present()

	// we do not need to release the texture if present was successful
	s.current = nil
	s.releaseFrame()
}

func (s *surfaceState) releaseFrame() {
	if s.currentView != nil {
		s.currentView.Release()
		s.currentView = nil
	}

	if s.current != nil {
		s.current.Release()
		s.current = nil
	}
}
