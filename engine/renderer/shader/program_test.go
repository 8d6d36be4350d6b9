package shader

import (
	"encoding/binary"
	"math"
	"testing"
	"unsafe"

	vk "github.com/goki/vulkan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rikool050/ogre-next/engine/params"
	"github.com/rikool050/ogre-next/engine/renderer/spirv"
)

// fakeDevice satisfies Device without touching a real GPU. Created module
// handles are distinct non-null markers so module lifetime can be asserted.
type fakeDevice struct {
	alignment uint64
	created   int
	destroyed int
	markers   []*int
}

func (d *fakeDevice) CreateShaderModule(code []uint32) (vk.ShaderModule, error) {
	d.created++
	return d.newModule(), nil
}

func (d *fakeDevice) DestroyShaderModule(module vk.ShaderModule) {
	if module != vk.NullShaderModule {
		d.destroyed++
	}
}

// newModule mints a unique non-null module handle. The markers keep the
// backing allocations reachable for as long as the device lives.
func (d *fakeDevice) newModule() vk.ShaderModule {
	marker := new(int)
	d.markers = append(d.markers, marker)
	return vk.ShaderModule(unsafe.Pointer(marker))
}

func (d *fakeDevice) MinUniformBufferOffsetAlignment() uint64 {
	return d.alignment
}

func newTestDevice() *fakeDevice {
	return &fakeDevice{alignment: 256}
}

// paramsBlockWords synthesizes a module with one uniform block on the given
// descriptor set at binding 0:
//
//	layout( std140, set=N, binding=0 ) uniform Params {
//	    float   time;      // offset 0
//	    vec4    color;     // offset 16
//	    mat4    world;     // offset 32
//	    ivec2   counts;    // offset 96
//	    float   weights[8]; // offset 112, stride 16
//	};
func paramsBlockWords(t *testing.T, set uint32) []uint32 {
	t.Helper()

	b := spirv.NewBuilder()
	f32 := b.AddTypeFloat(32)
	i32 := b.AddTypeInt(32, true)
	u32 := b.AddTypeInt(32, false)
	vec4 := b.AddTypeVector(f32, 4)
	ivec2 := b.AddTypeVector(i32, 2)
	mat4 := b.AddTypeMatrix(vec4, 4)
	eight := b.AddConstant(u32, 8)
	weights := b.AddTypeArray(f32, eight)
	b.AddDecorate(weights, spirv.DecorationArrayStride, 16)

	blk := b.AddTypeStruct(f32, vec4, mat4, ivec2, weights)
	b.AddName(blk, "Params")
	b.AddDecorate(blk, spirv.DecorationBlock)
	b.AddMemberName(blk, 0, "time")
	b.AddMemberName(blk, 1, "color")
	b.AddMemberName(blk, 2, "world")
	b.AddMemberName(blk, 3, "counts")
	b.AddMemberName(blk, 4, "weights")
	b.AddMemberDecorate(blk, 0, spirv.DecorationOffset, 0)
	b.AddMemberDecorate(blk, 1, spirv.DecorationOffset, 16)
	b.AddMemberDecorate(blk, 2, spirv.DecorationOffset, 32)
	b.AddMemberDecorate(blk, 2, spirv.DecorationMatrixStride, 16)
	b.AddMemberDecorate(blk, 3, spirv.DecorationOffset, 96)
	b.AddMemberDecorate(blk, 4, spirv.DecorationOffset, 112)

	ptr := b.AddTypePointer(spirv.StorageClassUniform, blk)
	v := b.AddVariable(ptr, spirv.StorageClassUniform)
	b.AddName(v, "params")
	b.AddDecorate(v, spirv.DecorationDescriptorSet, set)
	b.AddDecorate(v, spirv.DecorationBinding, 0)

	return b.Words()
}

// samplerWords synthesizes a module with one combined image sampler on the
// given set and binding.
func samplerWords(t *testing.T, name string, set, binding uint32) []uint32 {
	t.Helper()

	b := spirv.NewBuilder()
	f32 := b.AddTypeFloat(32)
	img := b.AddTypeImage(f32, spirv.Dim2D, 1)
	sampled := b.AddTypeSampledImage(img)
	ptr := b.AddTypePointer(spirv.StorageClassUniformConstant, sampled)
	v := b.AddVariable(ptr, spirv.StorageClassUniformConstant)
	b.AddName(v, name)
	b.AddDecorate(v, spirv.DecorationDescriptorSet, set)
	b.AddDecorate(v, spirv.DecorationBinding, binding)

	return b.Words()
}

// reflectedProgram builds a program whose SPIR-V is injected directly, so
// constant reflection can be exercised without the external GLSL compiler.
func reflectedProgram(t *testing.T, words []uint32) *program {
	t.Helper()

	p := NewProgram("test", StageVertex,
		WithSource("void main() {}"),
		WithDevice(newTestDevice()),
	).(*program)
	p.spirv = words
	return p
}

func TestConstantsFromUniformBlock(t *testing.T) {
	p := reflectedProgram(t, paramsBlockWords(t, 0))

	constants, err := p.Constants()
	require.NoError(t, err)

	tests := []struct {
		name         string
		wantType     params.ConstantType
		logicalIndex int
		elementSize  int
		arraySize    int
	}{
		{"time", params.TypeFloat1, 0, 1, 1},
		{"color", params.TypeFloat4, 16, 4, 1},
		{"world", params.TypeMatrix4x4, 32, 16, 1},
		{"counts", params.TypeInt2, 96, 2, 1},
		{"weights", params.TypeFloat1, 112, 4, 1},
	}
	for _, tt := range tests {
		def, ok := constants.Map[tt.name]
		require.True(t, ok, "missing constant %q", tt.name)
		assert.Equal(t, tt.wantType, def.Type, tt.name)
		assert.Equal(t, tt.logicalIndex, def.LogicalIndex, tt.name)
		assert.Equal(t, tt.elementSize, def.ElementSize, tt.name)
		assert.Equal(t, tt.arraySize, def.ArraySize, tt.name)
	}

	// Array members also get per-entry aliases.
	_, ok := constants.Map["weights[0]"]
	assert.True(t, ok)

	// Floats and ints land in separate physical buffers, appended in
	// declaration order.
	assert.Equal(t, 0, constants.Map["time"].PhysicalIndex)
	assert.Equal(t, 1, constants.Map["color"].PhysicalIndex)
	assert.Equal(t, 5, constants.Map["world"].PhysicalIndex)
	assert.Equal(t, 21, constants.Map["weights"].PhysicalIndex)
	assert.Equal(t, 0, constants.Map["counts"].PhysicalIndex)
	assert.Equal(t, 25, constants.FloatBufferSize)
	assert.Equal(t, 2, constants.IntBufferSize)
	assert.Equal(t, 0, constants.UIntBufferSize)

	// The upload extent covers the furthest written member.
	assert.Equal(t, uint32(128), p.BufferRequiredSize())

	param, ok := p.BindingParams()[0]
	require.True(t, ok)
	assert.Equal(t, uint32(0), param.Offset)
	assert.Equal(t, uint32(240), param.Size)
}

func TestConstantsRebuildIdempotent(t *testing.T) {
	words := paramsBlockWords(t, 0)
	p := reflectedProgram(t, words)

	first, err := p.Constants()
	require.NoError(t, err)

	// Recompiling unchanged source produces identical SPIR-V; rebuilding the
	// constants from it must reuse the registry placements rather than
	// appending fresh ones.
	p.resetDerivedState()
	p.spirv = words

	second, err := p.Constants()
	require.NoError(t, err)

	assert.Equal(t, first.Map, second.Map)
	assert.Equal(t, 0, second.Map["time"].PhysicalIndex)
	assert.Equal(t, 21, second.Map["weights"].PhysicalIndex)
	assert.Equal(t, first.FloatBufferSize, second.FloatBufferSize)
	assert.Equal(t, first.IntBufferSize, second.IntBufferSize)

	// The shared buffers did not grow across the rebuild.
	assert.Equal(t, 25, p.registry.Float.Size())
	assert.Equal(t, 2, p.registry.Int.Size())
	assert.Equal(t, uint32(128), p.BufferRequiredSize())
}

func TestConstantsLazyBuild(t *testing.T) {
	p := reflectedProgram(t, paramsBlockWords(t, 0))

	first, err := p.Constants()
	require.NoError(t, err)
	second, err := p.Constants()
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestConstantsFromSampler(t *testing.T) {
	p := reflectedProgram(t, samplerWords(t, "diffuseTex", 0, 0))

	constants, err := p.Constants()
	require.NoError(t, err)

	def, ok := constants.Map["diffuseTex"]
	require.True(t, ok)
	assert.Equal(t, params.TypeSampler2D, def.Type)
	assert.Equal(t, 0, def.LogicalIndex)
	assert.Equal(t, 1, def.ElementSize)
	assert.Equal(t, 1, def.ArraySize)
	assert.Equal(t, 0, def.PhysicalIndex)
	assert.Equal(t, 1, constants.IntBufferSize)

	param, ok := p.BindingParams()[0]
	require.True(t, ok)
	assert.Equal(t, uint32(0), param.Offset)
	assert.Equal(t, uint32(1), param.Size)
}

func TestConstantsIgnoreOtherSlots(t *testing.T) {
	p := reflectedProgram(t, samplerWords(t, "diffuseTex", 0, 1))

	constants, err := p.Constants()
	require.NoError(t, err)
	assert.Empty(t, constants.Map)
	assert.Empty(t, p.BindingParams())
	assert.Equal(t, uint32(0), p.BufferRequiredSize())
}

func TestConstantsEmptyWithoutSpirv(t *testing.T) {
	p := NewProgram("test", StageVertex,
		WithSource("void main() {}"),
		WithDevice(newTestDevice()),
	).(*program)

	constants, err := p.Constants()
	require.NoError(t, err)
	assert.Empty(t, constants.Map)
	assert.Equal(t, uint32(0), p.BufferRequiredSize())
}

func TestUpdateBuffers(t *testing.T) {
	p := reflectedProgram(t, paramsBlockWords(t, 0))
	_, err := p.Constants()
	require.NoError(t, err)

	values := params.NewValues(p.registry)
	values.SetFloat(0, 2.5)
	values.SetFloat(1, 1, 2, 3, 4)
	values.SetInt(0, 7, 9)
	values.SetFloat(21, 0.25, 0.5, 0.75, 1.0)

	dst := make([]byte, p.BufferRequiredSize())
	p.UpdateBuffers(values, dst)

	readFloat := func(off int) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(dst[off:]))
	}
	readInt := func(off int) int32 {
		return int32(binary.LittleEndian.Uint32(dst[off:]))
	}

	assert.Equal(t, float32(2.5), readFloat(0))
	assert.Equal(t, float32(1), readFloat(16))
	assert.Equal(t, float32(4), readFloat(28))
	assert.Equal(t, int32(7), readInt(96))
	assert.Equal(t, int32(9), readInt(100))
	assert.Equal(t, float32(0.25), readFloat(112))
	assert.Equal(t, float32(1.0), readFloat(124))
}

func TestCompileAnnotationError(t *testing.T) {
	device := newTestDevice()
	p := NewProgram("bad", StageFragment,
		WithSource("layout( ogre_set9, ogre_t0 ) uniform sampler2D tex;\nvoid main() {}\n"),
		WithDevice(device),
	)

	ok, err := p.Compile(true)
	assert.False(t, ok)
	var compileErr *CompileError
	require.ErrorAs(t, err, &compileErr)
	assert.Equal(t, "bad", compileErr.Name)
	assert.Equal(t, StageFragment, compileErr.Stage)
	assert.True(t, p.CompileErrored())
	assert.False(t, p.Compiled())
	assert.Equal(t, 0, device.created)
}

func TestCompileAnnotationErrorUnchecked(t *testing.T) {
	p := NewProgram("bad", StageFragment,
		WithSource("layout( ogre_set9, ogre_t0 ) uniform sampler2D tex;\nvoid main() {}\n"),
		WithDevice(newTestDevice()),
	)

	ok, err := p.Compile(false)
	assert.False(t, ok)
	assert.NoError(t, err)
	assert.True(t, p.CompileErrored())
}

func TestCompileMissingCompilerBinary(t *testing.T) {
	p := NewProgram("test", StageVertex,
		WithSource("void main() {}"),
		WithDevice(newTestDevice()),
	).(*program)
	p.glsl.bin = "no-such-glsl-compiler-binary"

	ok, err := p.Compile(true)
	assert.False(t, ok)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "no-such-glsl-compiler-binary", apiErr.Op)
}

func TestCompileDestroysPreviousModule(t *testing.T) {
	device := newTestDevice()
	p := NewProgram("bad", StageFragment,
		WithSource("layout( ogre_set9, ogre_t0 ) uniform sampler2D tex;\nvoid main() {}\n"),
		WithDevice(device),
	).(*program)
	p.module = device.newModule()
	p.spirv = []uint32{1}

	// A recompile drops the previous module and its bytecode together, even
	// when the new compilation fails before producing a replacement.
	ok, err := p.Compile(false)
	assert.False(t, ok)
	assert.NoError(t, err)
	assert.Equal(t, 1, device.destroyed)
	assert.Equal(t, 0, device.created)
	assert.Equal(t, vk.NullShaderModule, p.module)
	assert.Nil(t, p.spirv)

	// Nothing left to destroy the second time around.
	_, _ = p.Compile(false)
	assert.Equal(t, 1, device.destroyed)
}

func TestCompileResetsReflectedState(t *testing.T) {
	p := reflectedProgram(t, paramsBlockWords(t, 0))
	_, err := p.Constants()
	require.NoError(t, err)
	require.NotEmpty(t, p.BindingParams())
	p.glsl.bin = "no-such-glsl-compiler-binary"

	_, _ = p.Compile(false)
	assert.Empty(t, p.BindingParams())
	assert.Equal(t, uint32(0), p.BufferRequiredSize())
	assert.False(t, p.constantsBuilt)
}

func TestNewProgramPanics(t *testing.T) {
	assert.Panics(t, func() {
		NewProgram("no-source", StageVertex, WithDevice(newTestDevice()))
	})
	assert.Panics(t, func() {
		NewProgram("no-device", StageVertex, WithSource("void main() {}"))
	})
}

func TestPipelineShaderStageInfo(t *testing.T) {
	p := NewProgram("test", StageFragment,
		WithSource("void main() {}"),
		WithDevice(newTestDevice()),
	)

	info := p.PipelineShaderStageInfo()
	assert.Equal(t, vk.StructureTypePipelineShaderStageCreateInfo, info.SType)
	assert.Equal(t, StageFragment.Flag(), info.Stage)
	assert.Equal(t, "main\x00", info.PName)
}

func TestRelease(t *testing.T) {
	p := reflectedProgram(t, paramsBlockWords(t, 0))
	p.compiled = true

	p.Release()
	assert.False(t, p.Compiled())
	assert.Nil(t, p.spirv)

	// Safe to call again with nothing left to drop.
	p.Release()
}
