package orion

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/oliverbestmann/pixl/pulse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchConfigAppliesChanges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pixl.toml")
	require.NoError(t, os.WriteFile(path, []byte("stretch = false\n"), 0o644))

	r, dev := newRasterizer(t, nil)
	defer r.Shutdown()

	require.NoError(t, r.WatchConfig(path))
	require.Error(t, r.WatchConfig(path))

	require.NoError(t, os.WriteFile(path, []byte("stretch = true\nclear_color = 0x000000FF\n"), 0o644))

	assert.Eventually(t, func() bool {
		if err := r.Loop(); err != nil {
			return false
		}

		return r.Config().Stretch
	}, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, r.Loop())

	assert.Equal(t, pulse.ColorRGBA(0x000000FF), dev.ClearColors[len(dev.ClearColors)-1])

	// window geometry is not changed at runtime
	assert.Equal(t, 800, r.Config().Width)
}

func TestPublishConfigKeepsLatest(t *testing.T) {
	updates := make(chan Config, 1)

	publishConfig(updates, Config{Title: "first"})
	publishConfig(updates, Config{Title: "second"})

	require.Len(t, updates, 1)
	assert.Equal(t, "second", (<-updates).Title)
}
