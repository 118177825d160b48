package pulse

import (
	"fmt"
	"log/slog"
)

// Binder assigns textures to the sampler slots of the current batch.
type Binder struct {
	dev   Device
	slots [MaxTextureSlots]TextureHandle

	// called when every slot is taken and another texture must be bound
	flush func() error
}

func NewBinder(dev Device, flush func() error) *Binder {
	return &Binder{dev: dev, flush: flush}
}

// Bind returns the slot tex is bound to, binding it to the first free slot
// if needed. If all slots are taken, the pending batch is flushed and tex
// is bound to slot zero.
func (b *Binder) Bind(tex TextureHandle) (uint32, error) {
	if tex == 0 {
		return 0, fmt.Errorf("bind texture: invalid texture handle")
	}

	for slot, bound := range b.slots {
		if bound == tex {
			return uint32(slot), nil
		}
	}

	for slot, bound := range b.slots {
		if bound == 0 {
			b.claim(uint32(slot), tex)
			return uint32(slot), nil
		}
	}

	slog.Debug("Texture slots exhausted, flushing batch", slog.Int("texture", int(tex)))

	if err := b.flush(); err != nil {
		return 0, fmt.Errorf("flush for texture %d: %w", tex, err)
	}

	b.Reset()
	b.claim(0, tex)

	return 0, nil
}

// Bound returns the texture in slot, or zero.
func (b *Binder) Bound(slot uint32) TextureHandle {
	return b.slots[slot]
}

// Forget drops tex from the table, e.g. when it is deleted.
func (b *Binder) Forget(tex TextureHandle) {
	for slot, bound := range b.slots {
		if bound == tex {
			b.slots[slot] = 0
		}
	}
}

func (b *Binder) Reset() {
	b.slots = [MaxTextureSlots]TextureHandle{}
}

func (b *Binder) claim(slot uint32, tex TextureHandle) {
	b.slots[slot] = tex
	b.dev.BindTexture(slot, tex)
}
