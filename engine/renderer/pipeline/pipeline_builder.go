package pipeline

import (
	vk "github.com/goki/vulkan"

	"github.com/rikool050/ogre-next/engine/renderer/shader"
)

// PipelineOption is a functional option used to configure a Pipeline during construction.
type PipelineOption func(*pipeline)

// WithVertexProgram sets the vertex program for this pipeline.
//
// Parameters:
//   - prog: the vertex program to use for this pipeline
//
// Returns:
//   - PipelineOption: a function that sets the vertex program for this pipeline
func WithVertexProgram(prog shader.Program) PipelineOption {
	return func(p *pipeline) {
		p.vertexProgram = prog
	}
}

// WithFragmentProgram sets the fragment program for this pipeline.
//
// Parameters:
//   - prog: the fragment program to use for this pipeline
//
// Returns:
//   - PipelineOption: a function that sets the fragment program for this pipeline
func WithFragmentProgram(prog shader.Program) PipelineOption {
	return func(p *pipeline) {
		p.fragmentProgram = prog
	}
}

// WithDepthTestEnabled sets whether depth testing is enabled for this pipeline.
//
// Parameters:
//   - enabled: a boolean indicating whether depth testing should be enabled
//
// Returns:
//   - PipelineOption: a function that sets the depth test enabled state for this pipeline
func WithDepthTestEnabled(enabled bool) PipelineOption {
	return func(p *pipeline) {
		p.depthTestEnabled = enabled
	}
}

// WithDepthWriteEnabled sets whether depth writing is enabled for this pipeline.
//
// Parameters:
//   - enabled: a boolean indicating whether depth writing should be enabled
//
// Returns:
//   - PipelineOption: a function that sets the depth write enabled state for this pipeline
func WithDepthWriteEnabled(enabled bool) PipelineOption {
	return func(p *pipeline) {
		p.depthWriteEnabled = enabled
	}
}

// WithDepthBias sets the depth bias parameters for this pipeline.
//
// Parameters:
//   - bias: the constant depth bias to apply
//   - slope: the slope-scaled depth bias to apply
//
// Returns:
//   - PipelineOption: a function that sets the depth bias parameters for this pipeline
func WithDepthBias(bias, slope float32) PipelineOption {
	return func(p *pipeline) {
		p.depthBias = bias
		p.depthBiasSlope = slope
	}
}

// WithBlendEnabled sets whether blending is enabled for this pipeline.
//
// Parameters:
//   - enabled: a boolean indicating whether blending should be enabled
//
// Returns:
//   - PipelineOption: a function that sets the blend enabled state for this pipeline
func WithBlendEnabled(enabled bool) PipelineOption {
	return func(p *pipeline) {
		p.blendEnabled = enabled
	}
}

// WithBlendAttachment sets the full blend attachment state for this pipeline,
// replacing the default alpha-blend factors. BlendEnable and ColorWriteMask
// are still driven by WithBlendEnabled and WithWriteMask.
//
// Parameters:
//   - attachment: the blend attachment state to use
//
// Returns:
//   - PipelineOption: a function that sets the blend attachment for this pipeline
func WithBlendAttachment(attachment vk.PipelineColorBlendAttachmentState) PipelineOption {
	return func(p *pipeline) {
		p.blendAttachment = attachment
	}
}

// WithCullMode sets the cull mode for this pipeline.
//
// Parameters:
//   - mode: the cull mode to use (e.g., vk.CullModeNone, vk.CullModeBackBit)
//
// Returns:
//   - PipelineOption: a function that sets the cull mode for this pipeline
func WithCullMode(mode vk.CullModeFlagBits) PipelineOption {
	return func(p *pipeline) {
		p.cullMode = mode
	}
}

// WithTopology sets the primitive topology for this pipeline.
//
// Parameters:
//   - topology: the primitive topology to use (e.g., vk.PrimitiveTopologyTriangleList)
//
// Returns:
//   - PipelineOption: a function that sets the topology for this pipeline
func WithTopology(topology vk.PrimitiveTopology) PipelineOption {
	return func(p *pipeline) {
		p.topology = topology
	}
}

// WithFrontFace sets the front face winding order for this pipeline.
//
// Parameters:
//   - face: the winding order to use (e.g., vk.FrontFaceCounterClockwise)
//
// Returns:
//   - PipelineOption: a function that sets the front face for this pipeline
func WithFrontFace(face vk.FrontFace) PipelineOption {
	return func(p *pipeline) {
		p.frontFace = face
	}
}

// WithWriteMask sets the color write mask for this pipeline.
//
// Parameters:
//   - mask: the color component write mask to use
//
// Returns:
//   - PipelineOption: a function that sets the write mask for this pipeline
func WithWriteMask(mask vk.ColorComponentFlags) PipelineOption {
	return func(p *pipeline) {
		p.writeMask = mask
	}
}
