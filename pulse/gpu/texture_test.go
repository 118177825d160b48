package gpu

import (
	"testing"

	"github.com/oliverbestmann/pixl/gfxerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckTextureSize(t *testing.T) {
	gfxerr.Reset()

	require.NoError(t, checkTextureSize(8192, 8192, DefaultMaxTextureSize))
	require.NoError(t, checkTextureSize(1, 1, DefaultMaxTextureSize))

	err := checkTextureSize(10000, 4, DefaultMaxTextureSize)
	require.ErrorIs(t, err, gfxerr.AllocationError)
	assert.Contains(t, err.Error(), "10000x4")
	assert.Equal(t, gfxerr.AllocationError, gfxerr.Last())

	require.ErrorIs(t, checkTextureSize(4, 8193, DefaultMaxTextureSize), gfxerr.AllocationError)
}
