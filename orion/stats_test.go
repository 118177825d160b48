package orion

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFrameTimesTick(t *testing.T) {
	var times FrameTimes

	start := time.Now()

	var reports int
	for idx := range 120 {
		if times.tickAt(start.Add(time.Duration(idx) * 10 * time.Millisecond)) {
			reports++
		}
	}

	assert.Equal(t, 2, reports)
	assert.Equal(t, uint64(120), times.FrameCount)
	assert.Equal(t, 10*time.Millisecond, times.Delta)
	assert.Equal(t, 10*time.Millisecond, times.AverageDuration)
	assert.InDelta(t, 100, times.FPS(), 0.001)
}

func TestFrameTimesFPSWithoutFrames(t *testing.T) {
	var times FrameTimes
	assert.Zero(t, times.FPS())
}
