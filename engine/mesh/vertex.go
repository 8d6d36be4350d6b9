// Package mesh defines the CPU-side vertex layout vocabulary shared between the mesh
// system and the shader subsystem. A mesh advertises its per-buffer element lists as
// Declaration values; the shader subsystem matches those against the vertex inputs it
// reflected from compiled SPIR-V when building pipeline state.
package mesh

// ElementSemantic identifies the meaning of a vertex element within a vertex buffer.
type ElementSemantic int

const (
	// SemanticPosition is the vertex position.
	SemanticPosition ElementSemantic = iota

	// SemanticNormal is the vertex normal.
	SemanticNormal

	// SemanticTangent is the tangent vector used with normal mapping.
	SemanticTangent

	// SemanticBinormal is the binormal (bitangent) vector used with normal mapping.
	SemanticBinormal

	// SemanticBlendWeights holds skinning blend weights.
	SemanticBlendWeights

	// SemanticBlendIndices holds skinning blend matrix indices.
	SemanticBlendIndices

	// SemanticDiffuse is the per-vertex diffuse color.
	SemanticDiffuse

	// SemanticSpecular is the per-vertex specular color.
	SemanticSpecular

	// SemanticTextureCoordinates is a texture coordinate set. A mesh may carry several;
	// each one consumes a successive shader input location starting at
	// TextureCoordinateLocationBase, accumulated across the whole mesh.
	SemanticTextureCoordinates
)

// TextureCoordinateLocationBase is the first shader input location assigned to
// texture-coordinate elements. Successive texture-coordinate elements across the whole
// mesh occupy successive locations from this base.
const TextureCoordinateLocationBase = 8

// attributeIndexes maps each non-texture-coordinate semantic to its fixed shader
// input location.
var attributeIndexes = map[ElementSemantic]int{
	SemanticPosition:           0,
	SemanticNormal:             1,
	SemanticTangent:            2,
	SemanticBinormal:           3,
	SemanticBlendWeights:       4,
	SemanticBlendIndices:       5,
	SemanticDiffuse:            6,
	SemanticSpecular:           7,
	SemanticTextureCoordinates: TextureCoordinateLocationBase,
}

// AttributeIndex returns the shader input location assigned to the given semantic.
// For SemanticTextureCoordinates this is the base location; the caller adds the
// running texture-coordinate count.
//
// Parameters:
//   - semantic: the vertex element semantic
//
// Returns:
//   - int: the shader input location for the semantic
func AttributeIndex(semantic ElementSemantic) int {
	return attributeIndexes[semantic]
}

// ElementType identifies the data format of a vertex element within a vertex buffer.
type ElementType int

const (
	// TypeFloat1 is a single 32-bit float.
	TypeFloat1 ElementType = iota

	// TypeFloat2 is a 2-component 32-bit float vector.
	TypeFloat2

	// TypeFloat3 is a 3-component 32-bit float vector.
	TypeFloat3

	// TypeFloat4 is a 4-component 32-bit float vector.
	TypeFloat4

	// TypeShort2 is a 2-component signed 16-bit integer vector.
	TypeShort2

	// TypeShort4 is a 4-component signed 16-bit integer vector.
	TypeShort4

	// TypeUShort2 is a 2-component unsigned 16-bit integer vector.
	TypeUShort2

	// TypeUShort4 is a 4-component unsigned 16-bit integer vector.
	TypeUShort4

	// TypeHalf2 is a 2-component 16-bit float vector.
	TypeHalf2

	// TypeHalf4 is a 4-component 16-bit float vector.
	TypeHalf4

	// TypeUByte4 is a 4-component unsigned 8-bit integer vector.
	TypeUByte4

	// TypeUByte4Norm is a 4-component unsigned normalized 8-bit vector (e.g. packed colors).
	TypeUByte4Norm

	// TypeInt1 is a single signed 32-bit integer.
	TypeInt1

	// TypeInt2 is a 2-component signed 32-bit integer vector.
	TypeInt2

	// TypeInt4 is a 4-component signed 32-bit integer vector.
	TypeInt4

	// TypeUInt1 is a single unsigned 32-bit integer.
	TypeUInt1

	// TypeUInt2 is a 2-component unsigned 32-bit integer vector.
	TypeUInt2

	// TypeUInt4 is a 4-component unsigned 32-bit integer vector.
	TypeUInt4
)

// typeSizes maps each element type to its size in bytes within a vertex buffer.
var typeSizes = map[ElementType]uint32{
	TypeFloat1:     4,
	TypeFloat2:     8,
	TypeFloat3:     12,
	TypeFloat4:     16,
	TypeShort2:     4,
	TypeShort4:     8,
	TypeUShort2:    4,
	TypeUShort4:    8,
	TypeHalf2:      4,
	TypeHalf4:      8,
	TypeUByte4:     4,
	TypeUByte4Norm: 4,
	TypeInt1:       4,
	TypeInt2:       8,
	TypeInt4:       16,
	TypeUInt1:      4,
	TypeUInt2:      8,
	TypeUInt4:      16,
}

// TypeSize returns the size in bytes one element of the given type occupies in a
// vertex buffer.
//
// Parameters:
//   - t: the element type
//
// Returns:
//   - uint32: the element size in bytes
func TypeSize(t ElementType) uint32 {
	return typeSizes[t]
}

// Element describes one vertex element within a vertex buffer: what it means, how it
// is stored, and how often it advances.
type Element struct {
	// Semantic is the meaning of this element (position, normal, texture coordinates, ...).
	Semantic ElementSemantic

	// Type is the storage format of this element.
	Type ElementType

	// InstancingStepRate is 0 for per-vertex data and 1 for per-instance data.
	// Values greater than 1 are not supported by the Vulkan backend.
	InstancingStepRate uint32
}

// Declaration is the ordered per-buffer vertex layout of a mesh: one element list per
// vertex buffer, elements in the order they are packed within that buffer.
type Declaration [][]Element
