// mappings.go translates between the three type vocabularies the shader layer
// straddles: mesh vertex element types, reflected SPIR-V shapes, and Vulkan
// formats / engine constant types.
package shader

import (
	"fmt"

	vk "github.com/goki/vulkan"

	"github.com/rikool050/ogre-next/engine/mesh"
	"github.com/rikool050/ogre-next/engine/params"
	"github.com/rikool050/ogre-next/engine/renderer/spirv"
)

// elementTypeFormats maps mesh vertex element types to the Vulkan format used
// when the attribute is fed from a vertex buffer.
var elementTypeFormats = map[mesh.ElementType]vk.Format{
	mesh.TypeFloat1:     vk.FormatR32Sfloat,
	mesh.TypeFloat2:     vk.FormatR32g32Sfloat,
	mesh.TypeFloat3:     vk.FormatR32g32b32Sfloat,
	mesh.TypeFloat4:     vk.FormatR32g32b32a32Sfloat,
	mesh.TypeShort2:     vk.FormatR16g16Sint,
	mesh.TypeShort4:     vk.FormatR16g16b16a16Sint,
	mesh.TypeUShort2:    vk.FormatR16g16Uint,
	mesh.TypeUShort4:    vk.FormatR16g16b16a16Uint,
	mesh.TypeHalf2:      vk.FormatR16g16Sfloat,
	mesh.TypeHalf4:      vk.FormatR16g16b16a16Sfloat,
	mesh.TypeUByte4:     vk.FormatR8g8b8a8Uint,
	mesh.TypeUByte4Norm: vk.FormatR8g8b8a8Unorm,
	mesh.TypeInt1:       vk.FormatR32Sint,
	mesh.TypeInt2:       vk.FormatR32g32Sint,
	mesh.TypeInt4:       vk.FormatR32g32b32a32Sint,
	mesh.TypeUInt1:      vk.FormatR32Uint,
	mesh.TypeUInt2:      vk.FormatR32g32Uint,
	mesh.TypeUInt4:      vk.FormatR32g32b32a32Uint,
}

// elementTypeFormat returns the Vulkan format for an element type.
//
// Parameters:
//   - t: the mesh element type
//
// Returns:
//   - vk.Format: the matching Vulkan format, or vk.FormatUndefined
func elementTypeFormat(t mesh.ElementType) vk.Format {
	if format, ok := elementTypeFormats[t]; ok {
		return format
	}
	return vk.FormatUndefined
}

// inputFormat returns the Vulkan format a reflected stage input would consume
// when fed directly, before any mesh element type overrides it. Stage inputs
// are always 32-bit scalars or vectors.
//
// Parameters:
//   - base: the input's scalar category
//   - count: the input's component count (1 through 4)
//
// Returns:
//   - vk.Format: the matching Vulkan format, or vk.FormatUndefined
func inputFormat(base spirv.BaseType, count uint32) vk.Format {
	switch base {
	case spirv.BaseFloat:
		switch count {
		case 1:
			return vk.FormatR32Sfloat
		case 2:
			return vk.FormatR32g32Sfloat
		case 3:
			return vk.FormatR32g32b32Sfloat
		case 4:
			return vk.FormatR32g32b32a32Sfloat
		}
	case spirv.BaseInt:
		switch count {
		case 1:
			return vk.FormatR32Sint
		case 2:
			return vk.FormatR32g32Sint
		case 3:
			return vk.FormatR32g32b32Sint
		case 4:
			return vk.FormatR32g32b32a32Sint
		}
	case spirv.BaseUInt:
		switch count {
		case 1:
			return vk.FormatR32Uint
		case 2:
			return vk.FormatR32g32Uint
		case 3:
			return vk.FormatR32g32b32Uint
		case 4:
			return vk.FormatR32g32b32a32Uint
		}
	}
	return vk.FormatUndefined
}

// matrixConstantTypes maps row and column counts to matrix constant types.
var matrixConstantTypes = map[[2]uint32]params.ConstantType{
	{2, 2}: params.TypeMatrix2x2,
	{2, 3}: params.TypeMatrix2x3,
	{2, 4}: params.TypeMatrix2x4,
	{3, 2}: params.TypeMatrix3x2,
	{3, 3}: params.TypeMatrix3x3,
	{3, 4}: params.TypeMatrix3x4,
	{4, 2}: params.TypeMatrix4x2,
	{4, 3}: params.TypeMatrix4x3,
	{4, 4}: params.TypeMatrix4x4,
}

// matrixConstantType selects the engine constant type for a reflected matrix
// member from its row and column counts. Only 2 through 4 rows and columns are
// representable.
//
// Parameters:
//   - rows: the matrix row count
//   - cols: the matrix column count
//
// Returns:
//   - params.ConstantType: the matching matrix constant type
//   - error: an error when the shape is outside the supported set
func matrixConstantType(rows, cols uint32) (params.ConstantType, error) {
	if t, ok := matrixConstantTypes[[2]uint32{rows, cols}]; ok {
		return t, nil
	}
	return params.TypeUnknown, fmt.Errorf("invalid matrix shape %dx%d", rows, cols)
}

// vectorConstantType selects the engine constant type for a reflected scalar
// or vector member. Only 1 through 4 component float or integer vectors are
// representable.
//
// Parameters:
//   - isFloat: whether the member's scalar category is float
//   - count: the member's component count
//
// Returns:
//   - params.ConstantType: the matching vector constant type
//   - error: an error when the component count is not in [1;4]
func vectorConstantType(isFloat bool, count uint32) (params.ConstantType, error) {
	if count < 1 || count > 4 {
		kind := "int"
		if isFloat {
			kind = "float"
		}
		return params.TypeUnknown, fmt.Errorf("invalid component count %d for %s vector", count, kind)
	}
	if isFloat {
		return params.TypeFloat1 + params.ConstantType(count-1), nil
	}
	return params.TypeInt1 + params.ConstantType(count-1), nil
}
