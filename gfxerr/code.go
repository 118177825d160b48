// Package gfxerr holds the error codes shared by every pixl package and the
// process wide slot that remembers the most recent failure.
package gfxerr

//go:generate go tool stringer -type=Code

// Code identifies a class of failure. Every Code is an error, so callers
// can match wrapped errors with errors.Is.
type Code int

const (
	Success Code = iota

	// AllocationError reports host memory exhaustion while growing an array
	// or allocating a pixel buffer.
	AllocationError

	// InvalidDimensions reports a zero width or height.
	InvalidDimensions

	// GPUInitError reports that no adapter or device could be acquired.
	GPUInitError

	VertexShaderError
	FragmentShaderError
	ProgramCreateError
	ProgramLinkError

	// WindowError reports that the window could not be created.
	WindowError
)

var messages = [...]string{
	Success:             "no error",
	AllocationError:     "failed to allocate memory",
	InvalidDimensions:   "invalid width or height",
	GPUInitError:        "failed to initialize the gpu device",
	VertexShaderError:   "failed to compile the vertex shader",
	FragmentShaderError: "failed to compile the fragment shader",
	ProgramCreateError:  "failed to create the shader program",
	ProgramLinkError:    "failed to link the shader program",
	WindowError:         "failed to create the window",
}

func (c Code) Error() string {
	if c < 0 || int(c) >= len(messages) {
		return c.String()
	}

	return messages[c]
}
