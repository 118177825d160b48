package orion

import (
	"errors"
	"fmt"
	"log/slog"
)

// Loop renders one frame: pending configuration changes are applied, modified
// images uploaded and every visible instance drawn in depth order.
func (r *Rasterizer) Loop() error {
	if !r.initialized {
		return ErrNotInitialized
	}

	r.applyConfigUpdates()

	if err := r.dev.BeginFrame(r.clearColor); err != nil {
		return fmt.Errorf("begin frame: %w", err)
	}

	r.batch.ResetStats()

	err := r.renderFrame()

	// the frame must be finished even if rendering failed
	if endErr := r.dev.EndFrame(); endErr != nil {
		err = errors.Join(err, fmt.Errorf("end frame: %w", endErr))
	}

	r.frameStats = r.batch.Stats()

	if r.frames.Tick() {
		slog.Debug("Frame stats",
			slog.Float64("fps", r.frames.FPS()),
			slog.Duration("maxFrameTime", r.frames.MaxDuration),
			slog.Int("drawCalls", r.frameStats.DrawCalls),
			slog.Int("quads", r.frameStats.Quads),
			slog.Int("images", len(r.store.Images())),
		)
	}

	return err
}

func (r *Rasterizer) renderFrame() error {
	if err := r.upload(); err != nil {
		return err
	}

	if err := r.draw(); err != nil {
		return err
	}

	return nil
}
