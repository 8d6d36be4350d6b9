package shader

import (
	"encoding/binary"
	"errors"
	"fmt"
	"log"
	"math"

	vk "github.com/goki/vulkan"

	"github.com/rikool050/ogre-next/engine/mesh"
	"github.com/rikool050/ogre-next/engine/params"
)

// ParameterSlot is the reserved binding slot for "loose" scalar/vector/matrix
// parameters. Uniform blocks bound there have their members reflected into
// individual named constant definitions; blocks on any other slot are left to
// the material system.
const ParameterSlot = 0

// entryPointName is the GLSL entry point every program compiles with. The
// trailing NUL terminates the string for the C side of the Vulkan binding.
const entryPointName = "main\x00"

// Device is the slice of the GPU device the shader layer needs: shader module
// lifetime and the uniform-buffer alignment limit used when packing parameter
// blocks.
type Device interface {
	// CreateShaderModule wraps SPIR-V words into a Vulkan shader module.
	//
	// Parameters:
	//   - code: the SPIR-V words, must be non-empty
	//
	// Returns:
	//   - vk.ShaderModule: the created module handle
	//   - error: the driver's failure, or nil
	CreateShaderModule(code []uint32) (vk.ShaderModule, error)

	// DestroyShaderModule destroys a shader module handle. Passing the null
	// handle is a no-op.
	//
	// Parameters:
	//   - module: the module handle to destroy
	DestroyShaderModule(module vk.ShaderModule)

	// MinUniformBufferOffsetAlignment returns the device's minimum uniform
	// buffer offset alignment limit in bytes.
	//
	// Returns:
	//   - uint64: the alignment in bytes
	MinUniformBufferOffsetAlignment() uint64
}

// program is the implementation of the Program interface.
// It holds the persistent per-shader state produced by compilation and
// reflection: the SPIR-V words, the Vulkan module handle, the binding range
// table, the named constant definitions and the reflected vertex inputs.
type program struct {
	name    string
	stage   Stage
	source  string
	defines map[string]string

	device   Device
	registry *params.Registry
	glsl     *compiler

	compiled     bool
	compileError bool

	bindingRanges BindingRangeTable

	spirv  []uint32
	module vk.ShaderModule

	constantsBuilt        bool
	constants             *params.NamedConstants
	constantsSorted       []params.ConstantDefinition
	constantsBytesToWrite uint32
	bindingParams         map[uint32]ConstantBindingParam

	vertexInputs       []vk.VertexInputAttributeDescription
	numSystemGenInputs int
}

// ConstantBindingParam records, per raw binding index, the byte offset and
// size of the block (or resource) bound there. Sizes are in 4-byte words for
// non-block resources and bytes for blocks, mirroring what reflection reports
// for each kind.
type ConstantBindingParam struct {
	// Offset is the binding's starting offset.
	Offset uint32

	// Size is the binding's extent.
	Size uint32
}

// Program defines the interface for one compiled GPU shader stage. It exposes
// compilation, the reflected constant definitions and vertex inputs, and the
// Vulkan objects pipeline construction consumes.
type Program interface {
	// Name retrieves the program's name, used for caching, lookups and error
	// messages.
	//
	// Returns:
	//   - string: the program name
	Name() string

	// Source retrieves the GLSL source code.
	//
	// Returns:
	//   - string: the GLSL source text
	Source() string

	// Stage returns the pipeline stage this program compiles for.
	//
	// Returns:
	//   - Stage: the program's stage
	Stage() Stage

	// Compile parses binding annotations, lowers the source to SPIR-V,
	// creates the Vulkan shader module and reflects the vertex inputs. Each
	// step is skipped once an earlier one has failed. With checkErrors true
	// a failed compilation returns a CompileError; with checkErrors false
	// the failure is logged, the program is flagged and the error return is
	// nil. Fatal device or reflection failures return an APIError regardless
	// of checkErrors.
	//
	// Parameters:
	//   - checkErrors: whether a compile failure is returned as an error
	//
	// Returns:
	//   - bool: true when compilation succeeded
	//   - error: the compile or API failure per the rules above, or nil
	Compile(checkErrors bool) (bool, error)

	// Compiled reports whether the last Compile succeeded.
	//
	// Returns:
	//   - bool: true when the program holds compiled SPIR-V
	Compiled() bool

	// CompileErrored reports whether the last Compile failed.
	//
	// Returns:
	//   - bool: true when the program is flagged with a compile error
	CompileErrored() bool

	// BindingRanges retrieves the binding range table collected from the
	// source's annotations during the last Compile. The table is diagnostic
	// state; the descriptor layout itself comes from SPIR-V reflection.
	//
	// Returns:
	//   - BindingRangeTable: the per-set, per-type slot ranges
	BindingRanges() BindingRangeTable

	// Module returns the Vulkan shader module handle, or the null handle
	// before a successful Compile or after Release.
	//
	// Returns:
	//   - vk.ShaderModule: the module handle
	Module() vk.ShaderModule

	// PipelineShaderStageInfo fills the pipeline shader stage description
	// for this program.
	//
	// Returns:
	//   - vk.PipelineShaderStageCreateInfo: the stage create info
	PipelineShaderStageInfo() vk.PipelineShaderStageCreateInfo

	// Constants retrieves the named constant definitions reflected from the
	// program's parameter block(s) and loose resources. Built on first call
	// after a successful Compile; returns an empty set when compilation
	// failed or produced no SPIR-V.
	//
	// Returns:
	//   - *params.NamedConstants: the program's constant definitions
	//   - error: an APIError when reflection fails, otherwise nil
	Constants() (*params.NamedConstants, error)

	// BindingParams retrieves the per-binding offset/size records collected
	// while building constant definitions.
	//
	// Returns:
	//   - map[uint32]ConstantBindingParam: records keyed by binding index
	BindingParams() map[uint32]ConstantBindingParam

	// BufferRequiredSize returns the byte size a destination buffer must
	// have for UpdateBuffers to write every constant.
	//
	// Returns:
	//   - uint32: the high-water byte extent across all definitions
	BufferRequiredSize() uint32

	// UpdateBuffers copies each constant definition's current value from the
	// given parameter values into dst at the definition's logical offset.
	// dst must be at least BufferRequiredSize bytes.
	//
	// Parameters:
	//   - values: the parameter value lists indexed by physical offsets
	//   - dst: the destination byte buffer
	UpdateBuffers(values *params.Values, dst []byte)

	// VertexInputs retrieves the reflected stage inputs sorted by location.
	//
	// Returns:
	//   - []vk.VertexInputAttributeDescription: the inputs sorted ascending by location
	VertexInputs() []vk.VertexInputAttributeDescription

	// NumSystemGeneratedInputs returns how many stage inputs are builtins
	// fed by the system rather than by mesh vertex data.
	//
	// Returns:
	//   - int: the system-generated input count
	NumSystemGeneratedInputs() int

	// LayoutForPso matches the program's reflected vertex inputs against a
	// mesh vertex declaration, producing the buffer binding and attribute
	// descriptions a pipeline state object needs.
	//
	// Parameters:
	//   - decl: the mesh's per-buffer vertex element lists
	//
	// Returns:
	//   - []vk.VertexInputBindingDescription: one entry per vertex buffer the shader reads
	//   - []vk.VertexInputAttributeDescription: the matched attributes
	//   - error: an APIError when the declaration cannot satisfy the shader
	LayoutForPso(decl mesh.Declaration) ([]vk.VertexInputBindingDescription, []vk.VertexInputAttributeDescription, error)

	// Release drops the compiled state: the SPIR-V words and the shader
	// module are cleared together, and the program reports not compiled.
	// Safe to call repeatedly.
	Release()
}

var _ Program = &program{}

// NewProgram creates a new Program with all specified options applied. A
// source (via WithSource or WithSourceFromPath) and a device (via WithDevice)
// are required. When no registry is supplied the program allocates a private
// one, which keeps its physical parameter buffers independent of every other
// program.
//
// Parameters:
//   - name: a unique identifier for the program, used for caching and error messages
//   - stage: the pipeline stage the program compiles for
//   - opts: functional options configuring source, device, registry and defines
//
// Returns:
//   - Program: the new Program instance
func NewProgram(name string, stage Stage, opts ...ProgramOption) Program {
	p := &program{
		name:          name,
		stage:         stage,
		glsl:          newCompiler(),
		bindingRanges: newBindingRangeTable(),
		defines:       make(map[string]string),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.source == "" {
		panic(fmt.Sprintf("shader: %s must have a source provided via WithSource or WithSourceFromPath", name))
	}
	if p.device == nil {
		panic(fmt.Sprintf("shader: %s must have a device provided via WithDevice", name))
	}
	if p.registry == nil {
		p.registry = params.NewRegistry()
	}
	return p
}

func (p *program) Name() string {
	return p.name
}

func (p *program) Source() string {
	return p.source
}

func (p *program) Stage() Stage {
	return p.stage
}

func (p *program) Compiled() bool {
	return p.compiled
}

func (p *program) CompileErrored() bool {
	return p.compileError
}

func (p *program) BindingRanges() BindingRangeTable {
	return p.bindingRanges
}

func (p *program) Module() vk.ShaderModule {
	return p.module
}

func (p *program) BindingParams() map[uint32]ConstantBindingParam {
	return p.bindingParams
}

func (p *program) BufferRequiredSize() uint32 {
	return p.constantsBytesToWrite
}

func (p *program) Compile(checkErrors bool) (bool, error) {
	p.compiled = false
	p.compileError = false
	p.resetDerivedState()

	var compileLog string

	ranges, err := parseBindingRanges(p.name, p.source)
	p.bindingRanges = ranges
	if err != nil {
		log.Printf("shader: %v", err)
		compileLog = err.Error()
		p.compileError = true
	}

	if !p.compileError {
		words, err := p.glsl.compile(p.stage, p.source, p.defines)
		if err != nil {
			var apiErr *APIError
			if errors.As(err, &apiErr) {
				return false, apiErr
			}
			log.Printf("shader: GLSL compiler error in %s:\n%v", p.name, err)
			compileLog = err.Error()
			p.compileError = true
		} else {
			p.spirv = words
		}
	}

	p.compiled = !p.compileError

	if !p.compileError {
		log.Printf("shader: %s compiled successfully", p.name)
	}

	if !p.compiled && checkErrors {
		return false, &CompileError{Name: p.name, Stage: p.stage, Log: compileLog}
	}

	if p.compiled && len(p.spirv) > 0 {
		module, err := p.device.CreateShaderModule(p.spirv)
		if err != nil {
			return false, err
		}
		p.module = module
	}

	if len(p.spirv) > 0 {
		if err := p.gatherVertexInputs(); err != nil {
			return false, err
		}
	}

	return p.compiled, nil
}

// resetDerivedState drops everything a previous compilation derived: the
// reflected constants and binding records, the module handle and its bytecode.
// The module and the SPIR-V words are torn down together, never independently.
func (p *program) resetDerivedState() {
	p.constantsBuilt = false
	p.constants = nil
	p.constantsSorted = nil
	p.constantsBytesToWrite = 0
	p.bindingParams = nil
	if p.module != vk.NullShaderModule {
		p.device.DestroyShaderModule(p.module)
		p.module = vk.NullShaderModule
	}
	p.spirv = nil
}

func (p *program) PipelineShaderStageInfo() vk.PipelineShaderStageCreateInfo {
	return vk.PipelineShaderStageCreateInfo{
		SType:  vk.StructureTypePipelineShaderStageCreateInfo,
		Stage:  p.stage.Flag(),
		Module: p.module,
		PName:  entryPointName,
	}
}

func (p *program) Constants() (*params.NamedConstants, error) {
	if !p.constantsBuilt {
		if err := p.buildConstantDefinitions(); err != nil {
			return nil, err
		}
		p.constantsBuilt = true
	}
	return p.constants, nil
}

func (p *program) UpdateBuffers(values *params.Values, dst []byte) {
	for _, def := range p.constantsSorted {
		count := def.ElementSize * def.ArraySize * 4
		switch {
		case def.Type.IsFloat():
			copyFloats(dst[def.LogicalIndex:], values.Float[def.PhysicalIndex:], count)
		case def.Type.IsUnsignedInt():
			copyUInts(dst[def.LogicalIndex:], values.UInt[def.PhysicalIndex:], count)
		default:
			copyInts(dst[def.LogicalIndex:], values.Int[def.PhysicalIndex:], count)
		}
	}
}

// copyFloats copies count bytes worth of float words into dst.
func copyFloats(dst []byte, src []float32, count int) {
	for i := 0; i < count/4 && i < len(src); i++ {
		binary.LittleEndian.PutUint32(dst[i*4:], math.Float32bits(src[i]))
	}
}

// copyInts copies count bytes worth of signed int words into dst.
func copyInts(dst []byte, src []int32, count int) {
	for i := 0; i < count/4 && i < len(src); i++ {
		binary.LittleEndian.PutUint32(dst[i*4:], uint32(src[i]))
	}
}

// copyUInts copies count bytes worth of unsigned int words into dst.
func copyUInts(dst []byte, src []uint32, count int) {
	for i := 0; i < count/4 && i < len(src); i++ {
		binary.LittleEndian.PutUint32(dst[i*4:], src[i])
	}
}

func (p *program) Release() {
	p.compiled = false
	p.spirv = nil
	if p.module != vk.NullShaderModule {
		p.device.DestroyShaderModule(p.module)
		p.module = vk.NullShaderModule
	}
}
