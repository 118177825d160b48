package gpu

import (
	"fmt"
	"log/slog"
	"unsafe"

	"github.com/oliverbestmann/pixl/gfxerr"
	"github.com/oliverbestmann/pixl/pulse"
	"github.com/oliverbestmann/webgpu/wgpu"
)

type quadPipelineConfig struct {
	TargetFormat   wgpu.TextureFormat
	VertexSource   string
	FragmentSource string
}

func (conf quadPipelineConfig) Specialize(dev *wgpu.Device) (*wgpu.RenderPipeline, error) {
	slog.Info(
		"Create RenderPipeline for quads",
		slog.Any("format", conf.TargetFormat),
	)

	vertexShader, err := dev.TryCreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:      "Quad.VertexShader",
		WGSLSource: &wgpu.ShaderSourceWGSL{Code: conf.VertexSource},
	})
	if err != nil {
		return nil, fmt.Errorf("create vertex module: %w: %w", gfxerr.Set(gfxerr.ProgramCreateError), err)
	}

	defer vertexShader.Release()

	fragmentShader, err := dev.TryCreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:      "Quad.FragmentShader",
		WGSLSource: &wgpu.ShaderSourceWGSL{Code: conf.FragmentSource},
	})
	if err != nil {
		return nil, fmt.Errorf("create fragment module: %w: %w", gfxerr.Set(gfxerr.ProgramCreateError), err)
	}

	defer fragmentShader.Release()

	desc := &wgpu.RenderPipelineDescriptor{
		Label: fmt.Sprintf("Quad.%s", conf.TargetFormat),
		Vertex: wgpu.VertexState{
			Module:     vertexShader,
			EntryPoint: vertexEntryPoint,
			Buffers: []wgpu.VertexBufferLayout{
				{
					StepMode:    wgpu.VertexStepModeVertex,
					ArrayStride: pulse.VertexSize,
					Attributes: []wgpu.VertexAttribute{
						{
							// position
							Format:         wgpu.VertexFormatFloat32x3,
							Offset:         uint64(unsafe.Offsetof(pulse.Vertex{}.Position)),
							ShaderLocation: 0,
						},
						{
							// uv
							Format:         wgpu.VertexFormatFloat32x2,
							Offset:         uint64(unsafe.Offsetof(pulse.Vertex{}.UV)),
							ShaderLocation: 1,
						},
						{
							// texture slot
							Format:         wgpu.VertexFormatUint32,
							Offset:         uint64(unsafe.Offsetof(pulse.Vertex{}.Slot)),
							ShaderLocation: 2,
						},
					},
				},
			},
		},
		Fragment: &wgpu.FragmentState{
			Module:     fragmentShader,
			EntryPoint: fragmentEntryPoint,
			Targets: []wgpu.ColorTargetState{
				{
					Format:    conf.TargetFormat,
					Blend:     &wgpu.BlendStateAlphaBlending,
					WriteMask: wgpu.ColorWriteMaskAll,
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		DepthStencil: nil,
		Multisample: wgpu.MultisampleState{
			Count:                  1,
			Mask:                   0xFFFFFFFF,
			AlphaToCoverageEnabled: false,
		},
	}

	pipeline, err := dev.TryCreateRenderPipeline(desc)
	if err != nil {
		return nil, fmt.Errorf("create render pipeline: %w: %w", gfxerr.Set(gfxerr.ProgramLinkError), err)
	}

	return pipeline, nil
}
