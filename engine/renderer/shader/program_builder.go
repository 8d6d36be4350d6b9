package shader

import (
	"fmt"
	"os"

	"github.com/rikool050/ogre-next/engine/params"
)

// ProgramOption is a functional option used to configure a Program during construction.
type ProgramOption func(*program)

// WithSource sets the GLSL source text for this program.
//
// Parameters:
//   - source: the GLSL source code
//
// Returns:
//   - ProgramOption: a function that sets the source for this program
func WithSource(source string) ProgramOption {
	return func(p *program) {
		p.source = source
	}
}

// WithSourceFromPath reads the GLSL source for this program from a file.
// Panics if the file cannot be read.
//
// Parameters:
//   - path: the file path to read GLSL source from
//
// Returns:
//   - ProgramOption: a function that sets the source for this program
func WithSourceFromPath(path string) ProgramOption {
	return func(p *program) {
		data, err := os.ReadFile(path)
		if err != nil {
			panic(fmt.Sprintf("shader: failed to read source file %q: %v", path, err))
		}
		p.source = string(data)
	}
}

// WithDevice sets the GPU device for this program.
//
// Parameters:
//   - device: the device used for shader module creation and alignment limits
//
// Returns:
//   - ProgramOption: a function that sets the device for this program
func WithDevice(device Device) ProgramOption {
	return func(p *program) {
		p.device = device
	}
}

// WithRegistry sets the shared parameter registry for this program. Programs
// sharing a registry pack their constants into the same category-separated
// physical buffers.
//
// Parameters:
//   - registry: the shared logical-to-physical parameter registry
//
// Returns:
//   - ProgramOption: a function that sets the registry for this program
func WithRegistry(registry *params.Registry) ProgramOption {
	return func(p *program) {
		p.registry = registry
	}
}

// WithDefine adds one preprocessor macro definition passed to the GLSL
// front-end. An empty value defines the macro without a value.
//
// Parameters:
//   - name: the macro name
//   - value: the macro value, may be ""
//
// Returns:
//   - ProgramOption: a function that adds the define for this program
func WithDefine(name, value string) ProgramOption {
	return func(p *program) {
		p.defines[name] = value
	}
}

// WithDefines adds a set of preprocessor macro definitions at once.
//
// Parameters:
//   - defines: macro definitions keyed by name, values may be ""
//
// Returns:
//   - ProgramOption: a function that adds the defines for this program
func WithDefines(defines map[string]string) ProgramOption {
	return func(p *program) {
		for name, value := range defines {
			p.defines[name] = value
		}
	}
}
