package gpu

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/oliverbestmann/webgpu/wgpu"
)

// linkedPipeline is a render pipeline together with the bind group layouts
// requested from it so far.
type linkedPipeline struct {
	Pipeline *wgpu.RenderPipeline
	layouts  *lru.Cache[uint32, *wgpu.BindGroupLayout]
}

func (lp *linkedPipeline) BindGroupLayout(group uint32) *wgpu.BindGroupLayout {
	if layout, ok := lp.layouts.Get(group); ok {
		return layout
	}

	layout := lp.Pipeline.GetBindGroupLayout(group)
	lp.layouts.Add(group, layout)

	return layout
}

// pipelineCache holds one pipeline per linked program and surface format.
// Relinking or a surface format change adds an entry, older ones are evicted.
type pipelineCache struct {
	device *wgpu.Device
	cache  *lru.Cache[quadPipelineConfig, linkedPipeline]
}

func newPipelineCache(ctx *Context) *pipelineCache {
	cache, _ := lru.NewWithEvict[quadPipelineConfig, linkedPipeline](4, releasePipelineOnEviction)

	return &pipelineCache{
		device: ctx.Device,
		cache:  cache,
	}
}

func (p *pipelineCache) Get(conf quadPipelineConfig) (linkedPipeline, error) {
	if cached, ok := p.cache.Get(conf); ok {
		return cached, nil
	}

	pipeline, err := conf.Specialize(p.device)
	if err != nil {
		return linkedPipeline{}, fmt.Errorf("build pipeline: %w", err)
	}

	layouts, _ := lru.NewWithEvict[uint32, *wgpu.BindGroupLayout](4, releaseLayoutOnEviction)

	lp := linkedPipeline{Pipeline: pipeline, layouts: layouts}
	p.cache.Add(conf, lp)

	return lp, nil
}

// Purge releases every cached pipeline.
func (p *pipelineCache) Purge() {
	p.cache.Purge()
}

func releasePipelineOnEviction(_ quadPipelineConfig, lp linkedPipeline) {
	lp.layouts.Purge()
	lp.Pipeline.Release()
}

func releaseLayoutOnEviction(_ uint32, layout *wgpu.BindGroupLayout) {
	layout.Release()
}
