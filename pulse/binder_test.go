package pulse_test

import (
	"errors"
	"testing"

	"github.com/oliverbestmann/pixl/pulse"
	"github.com/oliverbestmann/pixl/pulse/pulsetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBinderFirstSlot(t *testing.T) {
	dev := pulsetest.New()
	binder := pulse.NewBinder(dev, func() error { return nil })

	slot, err := binder.Bind(7)
	require.NoError(t, err)

	assert.Equal(t, uint32(0), slot)
	assert.Equal(t, pulse.TextureHandle(7), dev.Slots[0])
	assert.Equal(t, 1, dev.Binds)
}

func TestBinderReusesSlot(t *testing.T) {
	dev := pulsetest.New()
	binder := pulse.NewBinder(dev, func() error { return nil })

	for tex := range pulse.TextureHandle(3) {
		_, err := binder.Bind(tex + 1)
		require.NoError(t, err)
	}

	slot, err := binder.Bind(2)
	require.NoError(t, err)

	assert.Equal(t, uint32(1), slot)

	// no additional device call for an already bound texture
	assert.Equal(t, 3, dev.Binds)
}

func TestBinderFlushesWhenFull(t *testing.T) {
	dev := pulsetest.New()

	var flushes int
	binder := pulse.NewBinder(dev, func() error {
		flushes++
		return nil
	})

	for tex := range pulse.TextureHandle(pulse.MaxTextureSlots) {
		slot, err := binder.Bind(tex + 1)
		require.NoError(t, err)
		require.Equal(t, uint32(tex), slot)
	}

	require.Zero(t, flushes)

	slot, err := binder.Bind(100)
	require.NoError(t, err)

	assert.Equal(t, 1, flushes)
	assert.Equal(t, uint32(0), slot)
	assert.Equal(t, pulse.TextureHandle(100), binder.Bound(0))

	// the table was reset, the next texture takes slot one
	slot, err = binder.Bind(1)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), slot)
}

func TestBinderFlushError(t *testing.T) {
	dev := pulsetest.New()

	failure := errors.New("device lost")
	binder := pulse.NewBinder(dev, func() error { return failure })

	for tex := range pulse.TextureHandle(pulse.MaxTextureSlots) {
		_, err := binder.Bind(tex + 1)
		require.NoError(t, err)
	}

	_, err := binder.Bind(100)
	require.ErrorIs(t, err, failure)
}

func TestBinderRejectsZero(t *testing.T) {
	binder := pulse.NewBinder(pulsetest.New(), func() error { return nil })

	_, err := binder.Bind(0)
	require.Error(t, err)
}

func TestBinderForget(t *testing.T) {
	binder := pulse.NewBinder(pulsetest.New(), func() error { return nil })

	_, err := binder.Bind(1)
	require.NoError(t, err)

	_, err = binder.Bind(2)
	require.NoError(t, err)

	binder.Forget(1)
	assert.Zero(t, binder.Bound(0))

	slot, err := binder.Bind(3)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), slot)
}
