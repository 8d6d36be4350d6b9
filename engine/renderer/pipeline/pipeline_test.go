package pipeline

import (
	"testing"

	vk "github.com/goki/vulkan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rikool050/ogre-next/engine/mesh"
	"github.com/rikool050/ogre-next/engine/renderer/shader"
)

type fakeDevice struct{}

func (d *fakeDevice) CreateShaderModule(code []uint32) (vk.ShaderModule, error) {
	return vk.NullShaderModule, nil
}

func (d *fakeDevice) DestroyShaderModule(module vk.ShaderModule) {}

func (d *fakeDevice) MinUniformBufferOffsetAlignment() uint64 { return 256 }

func testProgram(t *testing.T, name string, stage shader.Stage, source string) shader.Program {
	t.Helper()
	return shader.NewProgram(name, stage,
		shader.WithSource(source),
		shader.WithDevice(&fakeDevice{}),
	)
}

func TestNewPipelineDefaults(t *testing.T) {
	vert := testProgram(t, "basic.vert", shader.StageVertex, "void main() {}")
	p := NewPipeline("basic", WithVertexProgram(vert))

	assert.Equal(t, "basic", p.Key())
	assert.True(t, p.DepthTestEnabled())
	assert.True(t, p.DepthWriteEnabled())
	assert.False(t, p.BlendEnabled())
	assert.Equal(t, vk.CullModeFlagBits(vk.CullModeNone), p.CullMode())
	assert.Equal(t, vk.PrimitiveTopologyTriangleList, p.Topology())
	assert.Equal(t, vk.FrontFaceCounterClockwise, p.FrontFace())
	assert.Same(t, vert, p.Program(shader.StageVertex))
	assert.Nil(t, p.Program(shader.StageFragment))
}

func TestNewPipelinePanicsWithoutVertexProgram(t *testing.T) {
	assert.Panics(t, func() {
		NewPipeline("broken")
	})
}

func TestShaderStages(t *testing.T) {
	vert := testProgram(t, "basic.vert", shader.StageVertex, "void main() {}")
	frag := testProgram(t, "basic.frag", shader.StageFragment, "void main() {}")

	p := NewPipeline("basic",
		WithVertexProgram(vert),
		WithFragmentProgram(frag),
	)

	stages := p.ShaderStages()
	require.Len(t, stages, 2)
	assert.Equal(t, vk.ShaderStageVertexBit, stages[0].Stage)
	assert.Equal(t, vk.ShaderStageFragmentBit, stages[1].Stage)
	for _, stage := range stages {
		assert.Equal(t, vk.StructureTypePipelineShaderStageCreateInfo, stage.SType)
		assert.Equal(t, "main\x00", stage.PName)
	}
}

func TestFixedFunctionState(t *testing.T) {
	vert := testProgram(t, "basic.vert", shader.StageVertex, "void main() {}")
	p := NewPipeline("shadow",
		WithVertexProgram(vert),
		WithDepthBias(1.25, 1.75),
		WithCullMode(vk.CullModeBackBit),
		WithFrontFace(vk.FrontFaceClockwise),
		WithBlendEnabled(true),
		WithDepthWriteEnabled(false),
	)

	raster := p.RasterizationState()
	assert.Equal(t, vk.Bool32(vk.True), raster.DepthBiasEnable)
	assert.Equal(t, float32(1.25), raster.DepthBiasConstantFactor)
	assert.Equal(t, float32(1.75), raster.DepthBiasSlopeFactor)
	assert.Equal(t, vk.CullModeFlags(vk.CullModeBackBit), raster.CullMode)
	assert.Equal(t, vk.FrontFaceClockwise, raster.FrontFace)

	depth := p.DepthStencilState()
	assert.Equal(t, vk.Bool32(vk.True), depth.DepthTestEnable)
	assert.Equal(t, vk.Bool32(vk.False), depth.DepthWriteEnable)

	blend := p.ColorBlendState()
	require.Len(t, blend.PAttachments, 1)
	assert.Equal(t, vk.Bool32(vk.True), blend.PAttachments[0].BlendEnable)
	assert.Equal(t, vk.BlendFactorSrcAlpha, blend.PAttachments[0].SrcColorBlendFactor)

	assembly := p.InputAssemblyState()
	assert.Equal(t, vk.PrimitiveTopologyTriangleList, assembly.Topology)
}

func TestVertexInputState(t *testing.T) {
	vert := testProgram(t, "mesh.vert", shader.StageVertex, `#version 450
layout( location = 0 ) in vec3 position;
layout( location = 1 ) in vec3 normal;
void main() { gl_Position = vec4( position + normal, 1.0 ); }
`)
	ok, err := vert.Compile(true)
	if err != nil {
		t.Skipf("GLSL front-end unavailable: %v", err)
	}
	require.True(t, ok)

	p := NewPipeline("mesh", WithVertexProgram(vert))
	decl := mesh.Declaration{
		{
			{Semantic: mesh.SemanticPosition, Type: mesh.TypeFloat3},
			{Semantic: mesh.SemanticNormal, Type: mesh.TypeFloat3},
		},
	}

	state, err := p.VertexInputState(decl)
	require.NoError(t, err)
	assert.Equal(t, vk.StructureTypePipelineVertexInputStateCreateInfo, state.SType)
	assert.Equal(t, uint32(1), state.VertexBindingDescriptionCount)
	assert.Equal(t, uint32(2), state.VertexAttributeDescriptionCount)
	assert.Equal(t, uint32(24), state.PVertexBindingDescriptions[0].Stride)
}

func TestVertexInputStateLayoutMismatch(t *testing.T) {
	vert := testProgram(t, "mesh.vert", shader.StageVertex, `#version 450
layout( location = 0 ) in vec3 position;
layout( location = 1 ) in vec3 normal;
void main() { gl_Position = vec4( position + normal, 1.0 ); }
`)
	if _, err := vert.Compile(true); err != nil {
		t.Skipf("GLSL front-end unavailable: %v", err)
	}

	p := NewPipeline("mesh", WithVertexProgram(vert))
	decl := mesh.Declaration{
		{{Semantic: mesh.SemanticPosition, Type: mesh.TypeFloat3}},
	}

	_, err := p.VertexInputState(decl)
	var apiErr *shader.APIError
	require.ErrorAs(t, err, &apiErr)
}
