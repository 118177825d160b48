package gpu

import (
	_ "embed"
	"fmt"

	"github.com/gogpu/naga"
	"github.com/oliverbestmann/pixl/pulse"
)

//go:embed quad.vert.wgsl
var VertexShader string

//go:embed quad.frag.wgsl
var FragmentShader string

// entry points of the shader stages
const (
	vertexEntryPoint   = "vs_main"
	fragmentEntryPoint = "fs_main"
)

type shaderStage struct {
	stage  pulse.Stage
	source string
}

// validateShader runs the wgsl front end on source and checks that the
// stage's entry point exists. webgpu only reports shader errors
// asynchronously, this surfaces them per stage before any pipeline is built.
func validateShader(stage pulse.Stage, source string) error {
	spirv, err := naga.Compile(source)
	if err != nil {
		return fmt.Errorf("validate %s shader: %w", stage, err)
	}

	model, entryPoint := uint32(spirvModelVertex), vertexEntryPoint
	if stage == pulse.StageFragment {
		model, entryPoint = spirvModelFragment, fragmentEntryPoint
	}

	if !hasEntryPoint(spirv, model, entryPoint) {
		return fmt.Errorf("validate %s shader: no %s entry point %q", stage, stage, entryPoint)
	}

	return nil
}
