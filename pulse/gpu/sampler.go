package gpu

import (
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/oliverbestmann/webgpu/wgpu"
)

var samplerCache, _ = lru.NewWithEvict[wgpu.SamplerDescriptor, *wgpu.Sampler](16, samplerCacheOnEvict)

func samplerCacheOnEvict(key wgpu.SamplerDescriptor, value *wgpu.Sampler) {
	value.Release()
}

// pixels are sampled without any filtering, images keep their hard edges
var nearestSampler = wgpu.SamplerDescriptor{
	Label:         "Quad-Sampler",
	AddressModeU:  wgpu.AddressModeClampToEdge,
	AddressModeV:  wgpu.AddressModeClampToEdge,
	AddressModeW:  wgpu.AddressModeClampToEdge,
	MagFilter:     wgpu.FilterModeNearest,
	MinFilter:     wgpu.FilterModeNearest,
	MipmapFilter:  wgpu.MipmapFilterModeNearest,
	LodMinClamp:   0,
	LodMaxClamp:   1,
	MaxAnisotropy: 1,
}

// CachedSampler returns a sampler matching your description. The sampler may be cached,
// you  must not call wgpu.Sampler.Release() on it.
func CachedSampler(dev *wgpu.Device, desc wgpu.SamplerDescriptor) *wgpu.Sampler {
	cachedSampler, ok := samplerCache.Get(desc)
	if ok {
		return cachedSampler
	}

	sampler := dev.CreateSampler(&desc)
	samplerCache.Add(desc, sampler)

	return sampler
}

// purgeSamplers releases all cached samplers, they belong to a device
// that is about to go away.
func purgeSamplers() {
	samplerCache.Purge()
}
