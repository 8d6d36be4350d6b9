// limits.go holds the built-in resource limits handed to the GLSL front-end.
// The values are fixed and deliberately independent of the actual target
// device; they only exist to satisfy the front-end's validation pass, since
// the real limits are enforced by the driver at pipeline creation.
package shader

import (
	"strconv"
	"strings"
)

// builtInLimit is one named front-end resource limit.
type builtInLimit struct {
	name  string
	value int
}

// builtInLimits is the limit table in the order the front-end's configuration
// format lists them.
var builtInLimits = []builtInLimit{
	{"MaxLights", 32},
	{"MaxClipPlanes", 6},
	{"MaxTextureUnits", 32},
	{"MaxTextureCoords", 32},
	{"MaxVertexAttribs", 64},
	{"MaxVertexUniformComponents", 4096},
	{"MaxVaryingFloats", 64},
	{"MaxVertexTextureImageUnits", 32},
	{"MaxCombinedTextureImageUnits", 80},
	{"MaxTextureImageUnits", 32},
	{"MaxFragmentUniformComponents", 4096},
	{"MaxDrawBuffers", 32},
	{"MaxVertexUniformVectors", 128},
	{"MaxVaryingVectors", 8},
	{"MaxFragmentUniformVectors", 16},
	{"MaxVertexOutputVectors", 16},
	{"MaxFragmentInputVectors", 15},
	{"MinProgramTexelOffset", -8},
	{"MaxProgramTexelOffset", 7},
	{"MaxClipDistances", 8},
	{"MaxComputeWorkGroupCountX", 65535},
	{"MaxComputeWorkGroupCountY", 65535},
	{"MaxComputeWorkGroupCountZ", 65535},
	{"MaxComputeWorkGroupSizeX", 1024},
	{"MaxComputeWorkGroupSizeY", 1024},
	{"MaxComputeWorkGroupSizeZ", 64},
	{"MaxComputeUniformComponents", 1024},
	{"MaxComputeTextureImageUnits", 16},
	{"MaxComputeImageUniforms", 8},
	{"MaxComputeAtomicCounters", 8},
	{"MaxComputeAtomicCounterBuffers", 1},
	{"MaxVaryingComponents", 60},
	{"MaxVertexOutputComponents", 64},
	{"MaxGeometryInputComponents", 64},
	{"MaxGeometryOutputComponents", 128},
	{"MaxFragmentInputComponents", 128},
	{"MaxImageUnits", 8},
	{"MaxCombinedImageUnitsAndFragmentOutputs", 8},
	{"MaxCombinedShaderOutputResources", 8},
	{"MaxImageSamples", 0},
	{"MaxVertexImageUniforms", 0},
	{"MaxTessControlImageUniforms", 0},
	{"MaxTessEvaluationImageUniforms", 0},
	{"MaxGeometryImageUniforms", 0},
	{"MaxFragmentImageUniforms", 8},
	{"MaxCombinedImageUniforms", 8},
	{"MaxGeometryTextureImageUnits", 16},
	{"MaxGeometryOutputVertices", 256},
	{"MaxGeometryTotalOutputComponents", 1024},
	{"MaxGeometryUniformComponents", 1024},
	{"MaxGeometryVaryingComponents", 64},
	{"MaxTessControlInputComponents", 128},
	{"MaxTessControlOutputComponents", 128},
	{"MaxTessControlTextureImageUnits", 16},
	{"MaxTessControlUniformComponents", 1024},
	{"MaxTessControlTotalOutputComponents", 4096},
	{"MaxTessEvaluationInputComponents", 128},
	{"MaxTessEvaluationOutputComponents", 128},
	{"MaxTessEvaluationTextureImageUnits", 16},
	{"MaxTessEvaluationUniformComponents", 1024},
	{"MaxTessPatchComponents", 120},
	{"MaxPatchVertices", 32},
	{"MaxTessGenLevel", 64},
	{"MaxViewports", 16},
	{"MaxVertexAtomicCounters", 0},
	{"MaxTessControlAtomicCounters", 0},
	{"MaxTessEvaluationAtomicCounters", 0},
	{"MaxGeometryAtomicCounters", 0},
	{"MaxFragmentAtomicCounters", 8},
	{"MaxCombinedAtomicCounters", 8},
	{"MaxAtomicCounterBindings", 1},
	{"MaxVertexAtomicCounterBuffers", 0},
	{"MaxTessControlAtomicCounterBuffers", 0},
	{"MaxTessEvaluationAtomicCounterBuffers", 0},
	{"MaxGeometryAtomicCounterBuffers", 0},
	{"MaxFragmentAtomicCounterBuffers", 1},
	{"MaxCombinedAtomicCounterBuffers", 1},
	{"MaxAtomicCounterBufferSize", 16384},
	{"MaxTransformFeedbackBuffers", 4},
	{"MaxTransformFeedbackInterleavedComponents", 64},
	{"MaxCullDistances", 8},
	{"MaxCombinedClipAndCullDistances", 8},
	{"MaxSamples", 4},
	{"MaxMeshOutputVerticesNV", 256},
	{"MaxMeshOutputPrimitivesNV", 512},
	{"MaxMeshWorkGroupSizeX_NV", 32},
	{"MaxMeshWorkGroupSizeY_NV", 1},
	{"MaxMeshWorkGroupSizeZ_NV", 1},
	{"MaxTaskWorkGroupSizeX_NV", 32},
	{"MaxTaskWorkGroupSizeY_NV", 1},
	{"MaxTaskWorkGroupSizeZ_NV", 1},
	{"MaxMeshViewCountNV", 4},
	{"nonInductiveForLoops", 1},
	{"whileLoops", 1},
	{"doWhileLoops", 1},
	{"generalUniformIndexing", 1},
	{"generalAttributeMatrixVectorIndexing", 1},
	{"generalVaryingIndexing", 1},
	{"generalSamplerIndexing", 1},
	{"generalVariableIndexing", 1},
	{"generalConstantMatrixVectorIndexing", 1},
}

// limitsConfig renders the limit table in the external front-end's
// configuration file format, one "Name value" pair per line.
//
// Returns:
//   - string: the configuration file contents
func limitsConfig() string {
	var sb strings.Builder
	for _, limit := range builtInLimits {
		sb.WriteString(limit.name)
		sb.WriteByte(' ')
		sb.WriteString(strconv.Itoa(limit.value))
		sb.WriteByte('\n')
	}
	return sb.String()
}
