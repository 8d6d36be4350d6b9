package pipeline

import (
	vk "github.com/goki/vulkan"

	"github.com/rikool050/ogre-next/engine/mesh"
	"github.com/rikool050/ogre-next/engine/renderer/shader"
)

// pipeline is the implementation of the Pipeline interface.
// It holds the shader programs and the fixed-function configuration a Vulkan
// graphics pipeline state object is created from, plus the created handle.
type pipeline struct {
	// key is the unique identifier for this pipeline, used for caching and lookups
	key string

	// the programs are required to be set before building pipeline state

	vertexProgram, fragmentProgram shader.Program

	// handle is the created Vulkan pipeline, the null handle until the caller creates it
	handle vk.Pipeline

	// The following properties configure the fixed-function state and can be
	// toggled/set with the builder options.

	depthTestEnabled  bool
	depthWriteEnabled bool
	depthBias         float32
	depthBiasSlope    float32
	blendEnabled      bool
	cullMode          vk.CullModeFlagBits
	topology          vk.PrimitiveTopology
	frontFace         vk.FrontFace
	writeMask         vk.ColorComponentFlags
	blendAttachment   vk.PipelineColorBlendAttachmentState
}

// Pipeline defines the interface for a graphics pipeline state description:
// the shader stage pair, the mesh-matched vertex input state, and the
// fixed-function create infos (input assembly, rasterization, depth/stencil,
// blending) a Vulkan PSO is assembled from.
type Pipeline interface {
	// Key returns the unique key associated with this pipeline, used for caching and lookups.
	//
	// Returns:
	//   - string: the unique key for this pipeline
	Key() string

	// Program retrieves the program compiled for the given stage, or nil when
	// the pipeline carries none for it.
	//
	// Parameters:
	//   - stage: the pipeline stage to retrieve the program for
	//
	// Returns:
	//   - shader.Program: the program for the stage, or nil
	Program(stage shader.Stage) shader.Program

	// ShaderStages fills the stage create infos for the pipeline's programs,
	// vertex first.
	//
	// Returns:
	//   - []vk.PipelineShaderStageCreateInfo: the stage create infos
	ShaderStages() []vk.PipelineShaderStageCreateInfo

	// VertexInputState matches the vertex program's reflected inputs against
	// the mesh declaration and fills the vertex input state create info.
	//
	// Parameters:
	//   - decl: the mesh's per-buffer vertex element lists
	//
	// Returns:
	//   - vk.PipelineVertexInputStateCreateInfo: the vertex input state
	//   - error: the layout matching failure, or nil
	VertexInputState(decl mesh.Declaration) (vk.PipelineVertexInputStateCreateInfo, error)

	// InputAssemblyState fills the input assembly create info from the
	// configured topology.
	//
	// Returns:
	//   - vk.PipelineInputAssemblyStateCreateInfo: the input assembly state
	InputAssemblyState() vk.PipelineInputAssemblyStateCreateInfo

	// RasterizationState fills the rasterization create info from the
	// configured cull mode, winding and depth bias.
	//
	// Returns:
	//   - vk.PipelineRasterizationStateCreateInfo: the rasterization state
	RasterizationState() vk.PipelineRasterizationStateCreateInfo

	// DepthStencilState fills the depth/stencil create info from the
	// configured depth test and write toggles.
	//
	// Returns:
	//   - vk.PipelineDepthStencilStateCreateInfo: the depth/stencil state
	DepthStencilState() vk.PipelineDepthStencilStateCreateInfo

	// ColorBlendState fills the single-attachment color blend create info
	// from the configured blend toggle, blend factors and write mask.
	//
	// Returns:
	//   - vk.PipelineColorBlendStateCreateInfo: the color blend state
	ColorBlendState() vk.PipelineColorBlendStateCreateInfo

	// DepthTestEnabled returns whether depth testing is enabled for this pipeline.
	//
	// Returns:
	//   - bool: true if depth testing is enabled, false otherwise
	DepthTestEnabled() bool

	// DepthWriteEnabled returns whether depth writing is enabled for this pipeline.
	//
	// Returns:
	//   - bool: true if depth writing is enabled, false otherwise
	DepthWriteEnabled() bool

	// BlendEnabled returns whether blending is enabled for this pipeline.
	//
	// Returns:
	//   - bool: true if blending is enabled, false otherwise
	BlendEnabled() bool

	// CullMode returns the cull mode configured for this pipeline.
	//
	// Returns:
	//   - vk.CullModeFlagBits: the cull mode for this pipeline
	CullMode() vk.CullModeFlagBits

	// Topology returns the primitive topology configured for this pipeline.
	//
	// Returns:
	//   - vk.PrimitiveTopology: the primitive topology for this pipeline
	Topology() vk.PrimitiveTopology

	// FrontFace returns the front face winding order configured for this pipeline.
	//
	// Returns:
	//   - vk.FrontFace: the front face winding order for this pipeline
	FrontFace() vk.FrontFace

	// Handle returns the created Vulkan pipeline, or the null handle before
	// SetHandle.
	//
	// Returns:
	//   - vk.Pipeline: the pipeline handle
	Handle() vk.Pipeline

	// SetHandle stores the created Vulkan pipeline.
	//
	// Parameters:
	//   - handle: the created pipeline handle
	SetHandle(handle vk.Pipeline)
}

var _ Pipeline = &pipeline{}

// NewPipeline creates a new Pipeline with all specified options applied. A
// vertex program (via WithVertexProgram) is required; the fragment program is
// optional for depth-only pipelines.
//
// Parameters:
//   - key: the unique key for this pipeline
//   - opts: a variadic list of PipelineOption functions configuring the pipeline
//
// Returns:
//   - Pipeline: a new Pipeline instance with the specified configuration
func NewPipeline(key string, opts ...PipelineOption) Pipeline {
	p := &pipeline{
		key:               key,
		depthTestEnabled:  true,
		depthWriteEnabled: true,
		blendEnabled:      false,
		cullMode:          vk.CullModeNone,
		topology:          vk.PrimitiveTopologyTriangleList,
		frontFace:         vk.FrontFaceCounterClockwise,
		writeMask: vk.ColorComponentFlags(
			vk.ColorComponentRBit | vk.ColorComponentGBit |
				vk.ColorComponentBBit | vk.ColorComponentABit),
		blendAttachment: vk.PipelineColorBlendAttachmentState{
			SrcColorBlendFactor: vk.BlendFactorSrcAlpha,
			DstColorBlendFactor: vk.BlendFactorOneMinusSrcAlpha,
			ColorBlendOp:        vk.BlendOpAdd,
			SrcAlphaBlendFactor: vk.BlendFactorOne,
			DstAlphaBlendFactor: vk.BlendFactorOneMinusSrcAlpha,
			AlphaBlendOp:        vk.BlendOpAdd,
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.vertexProgram == nil {
		panic("pipeline: " + key + " must have a vertex program provided via WithVertexProgram")
	}
	return p
}

func (p *pipeline) Key() string {
	return p.key
}

func (p *pipeline) Program(stage shader.Stage) shader.Program {
	switch stage {
	case shader.StageVertex:
		return p.vertexProgram
	case shader.StageFragment:
		return p.fragmentProgram
	default:
		return nil
	}
}

func (p *pipeline) ShaderStages() []vk.PipelineShaderStageCreateInfo {
	stages := []vk.PipelineShaderStageCreateInfo{p.vertexProgram.PipelineShaderStageInfo()}
	if p.fragmentProgram != nil {
		stages = append(stages, p.fragmentProgram.PipelineShaderStageInfo())
	}
	return stages
}

func (p *pipeline) VertexInputState(decl mesh.Declaration) (vk.PipelineVertexInputStateCreateInfo, error) {
	bindings, attrs, err := p.vertexProgram.LayoutForPso(decl)
	if err != nil {
		return vk.PipelineVertexInputStateCreateInfo{}, err
	}
	return vk.PipelineVertexInputStateCreateInfo{
		SType:                           vk.StructureTypePipelineVertexInputStateCreateInfo,
		VertexBindingDescriptionCount:   uint32(len(bindings)),
		PVertexBindingDescriptions:      bindings,
		VertexAttributeDescriptionCount: uint32(len(attrs)),
		PVertexAttributeDescriptions:    attrs,
	}, nil
}

func (p *pipeline) InputAssemblyState() vk.PipelineInputAssemblyStateCreateInfo {
	return vk.PipelineInputAssemblyStateCreateInfo{
		SType:                  vk.StructureTypePipelineInputAssemblyStateCreateInfo,
		Topology:               p.topology,
		PrimitiveRestartEnable: vk.False,
	}
}

func (p *pipeline) RasterizationState() vk.PipelineRasterizationStateCreateInfo {
	depthBiasEnable := vk.Bool32(vk.False)
	if p.depthBias != 0 || p.depthBiasSlope != 0 {
		depthBiasEnable = vk.True
	}
	return vk.PipelineRasterizationStateCreateInfo{
		SType:                   vk.StructureTypePipelineRasterizationStateCreateInfo,
		DepthClampEnable:        vk.False,
		RasterizerDiscardEnable: vk.False,
		PolygonMode:             vk.PolygonModeFill,
		CullMode:                vk.CullModeFlags(p.cullMode),
		FrontFace:               p.frontFace,
		DepthBiasEnable:         depthBiasEnable,
		DepthBiasConstantFactor: p.depthBias,
		DepthBiasSlopeFactor:    p.depthBiasSlope,
		LineWidth:               1.0,
	}
}

func (p *pipeline) DepthStencilState() vk.PipelineDepthStencilStateCreateInfo {
	return vk.PipelineDepthStencilStateCreateInfo{
		SType:                 vk.StructureTypePipelineDepthStencilStateCreateInfo,
		DepthTestEnable:       boolToVk(p.depthTestEnabled),
		DepthWriteEnable:      boolToVk(p.depthWriteEnabled),
		DepthCompareOp:        vk.CompareOpLessOrEqual,
		DepthBoundsTestEnable: vk.False,
		StencilTestEnable:     vk.False,
	}
}

func (p *pipeline) ColorBlendState() vk.PipelineColorBlendStateCreateInfo {
	attachment := p.blendAttachment
	attachment.BlendEnable = boolToVk(p.blendEnabled)
	attachment.ColorWriteMask = p.writeMask
	return vk.PipelineColorBlendStateCreateInfo{
		SType:           vk.StructureTypePipelineColorBlendStateCreateInfo,
		LogicOpEnable:   vk.False,
		AttachmentCount: 1,
		PAttachments:    []vk.PipelineColorBlendAttachmentState{attachment},
	}
}

func (p *pipeline) DepthTestEnabled() bool {
	return p.depthTestEnabled
}

func (p *pipeline) DepthWriteEnabled() bool {
	return p.depthWriteEnabled
}

func (p *pipeline) BlendEnabled() bool {
	return p.blendEnabled
}

func (p *pipeline) CullMode() vk.CullModeFlagBits {
	return p.cullMode
}

func (p *pipeline) Topology() vk.PrimitiveTopology {
	return p.topology
}

func (p *pipeline) FrontFace() vk.FrontFace {
	return p.frontFace
}

func (p *pipeline) Handle() vk.Pipeline {
	return p.handle
}

func (p *pipeline) SetHandle(handle vk.Pipeline) {
	p.handle = handle
}

func boolToVk(b bool) vk.Bool32 {
	if b {
		return vk.True
	}
	return vk.False
}
