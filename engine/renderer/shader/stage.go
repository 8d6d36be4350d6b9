package shader

import (
	vk "github.com/goki/vulkan"
)

// Stage identifies which pipeline stage a program compiles for.
type Stage int

const (
	// StageVertex is the vertex shader stage, used for vertex processing in render pipelines.
	StageVertex Stage = iota

	// StageFragment is the fragment shader stage, used for fragment processing in pair with a vertex shader.
	StageFragment

	// StageGeometry is the geometry shader stage.
	StageGeometry

	// StageTessControl is the tessellation control (hull) shader stage.
	StageTessControl

	// StageTessEvaluation is the tessellation evaluation (domain) shader stage.
	StageTessEvaluation

	// StageCompute is the compute shader stage.
	StageCompute
)

// String returns the stage's human-readable name for logs and errors.
//
// Returns:
//   - string: the stage name
func (s Stage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	case StageGeometry:
		return "geometry"
	case StageTessControl:
		return "tessellation control"
	case StageTessEvaluation:
		return "tessellation evaluation"
	case StageCompute:
		return "compute"
	}
	return "unknown"
}

// toolName returns the stage identifier the external GLSL front-end expects.
//
// Returns:
//   - string: the front-end stage name
func (s Stage) toolName() string {
	switch s {
	case StageVertex:
		return "vert"
	case StageFragment:
		return "frag"
	case StageGeometry:
		return "geom"
	case StageTessControl:
		return "tesc"
	case StageTessEvaluation:
		return "tese"
	case StageCompute:
		return "comp"
	}
	return "vert"
}

// Flag returns the stage's Vulkan stage bit for pipeline creation.
//
// Returns:
//   - vk.ShaderStageFlagBits: the Vulkan stage bit
func (s Stage) Flag() vk.ShaderStageFlagBits {
	switch s {
	case StageVertex:
		return vk.ShaderStageVertexBit
	case StageFragment:
		return vk.ShaderStageFragmentBit
	case StageGeometry:
		return vk.ShaderStageGeometryBit
	case StageTessControl:
		return vk.ShaderStageTessellationControlBit
	case StageTessEvaluation:
		return vk.ShaderStageTessellationEvaluationBit
	case StageCompute:
		return vk.ShaderStageComputeBit
	}
	return vk.ShaderStageVertexBit
}
