// Package params holds the cross-program shader parameter state: the semantic
// constant types recovered by reflection, the per-program named constant definitions,
// the shared logical-to-physical parameter buffers, and the CPU-side parameter value
// lists consumed when filling GPU upload buffers.
package params

import "fmt"

// ConstantType is the semantic type of a reflected shader constant: a float, signed
// integer, or unsigned integer vector, a float matrix, or a sampler kind.
type ConstantType int

const (
	// TypeUnknown marks a constant whose shape reflection could not classify.
	TypeUnknown ConstantType = iota

	// TypeFloat1 through TypeFloat4 are float vectors of 1 to 4 components.
	TypeFloat1
	TypeFloat2
	TypeFloat3
	TypeFloat4

	// TypeInt1 through TypeInt4 are signed integer vectors of 1 to 4 components.
	TypeInt1
	TypeInt2
	TypeInt3
	TypeInt4

	// TypeUInt1 through TypeUInt4 are unsigned integer vectors of 1 to 4 components.
	TypeUInt1
	TypeUInt2
	TypeUInt3
	TypeUInt4

	// TypeMatrix2x2 through TypeMatrix4x4 are float matrices, including all
	// rectangular shapes.
	TypeMatrix2x2
	TypeMatrix2x3
	TypeMatrix2x4
	TypeMatrix3x2
	TypeMatrix3x3
	TypeMatrix3x4
	TypeMatrix4x2
	TypeMatrix4x3
	TypeMatrix4x4

	// TypeSampler1D is a buffer-dimension sampler (texel buffer access).
	TypeSampler1D

	// TypeSampler2D is a standard 2D sampler or combined image-sampler.
	TypeSampler2D

	// TypeSampler3D is a 3D sampler.
	TypeSampler3D

	// TypeSamplerCube is a cube-map sampler.
	TypeSamplerCube
)

// elementSizes maps each constant type to its unpadded size in 4-byte words.
// Samplers occupy one word, matching their legacy treatment as integer handles.
var elementSizes = map[ConstantType]int{
	TypeFloat1:      1,
	TypeFloat2:      2,
	TypeFloat3:      3,
	TypeFloat4:      4,
	TypeInt1:        1,
	TypeInt2:        2,
	TypeInt3:        3,
	TypeInt4:        4,
	TypeUInt1:       1,
	TypeUInt2:       2,
	TypeUInt3:       3,
	TypeUInt4:       4,
	TypeMatrix2x2:   4,
	TypeMatrix2x3:   6,
	TypeMatrix2x4:   8,
	TypeMatrix3x2:   6,
	TypeMatrix3x3:   9,
	TypeMatrix3x4:   12,
	TypeMatrix4x2:   8,
	TypeMatrix4x3:   12,
	TypeMatrix4x4:   16,
	TypeSampler1D:   1,
	TypeSampler2D:   1,
	TypeSampler3D:   1,
	TypeSamplerCube: 1,
}

// ElementSize returns the unpadded size in 4-byte words of one element of the given
// constant type. Unknown types report 1 so bookkeeping still advances.
//
// Parameters:
//   - t: the constant type
//
// Returns:
//   - int: the element size in words
func (t ConstantType) ElementSize() int {
	if s, ok := elementSizes[t]; ok {
		return s
	}
	return 1
}

// IsFloat reports whether the constant type belongs to the float parameter buffer
// (float vectors and all matrix shapes).
//
// Returns:
//   - bool: true for float vectors and matrices
func (t ConstantType) IsFloat() bool {
	return (t >= TypeFloat1 && t <= TypeFloat4) || t.IsMatrix()
}

// IsUnsignedInt reports whether the constant type belongs to the unsigned-int
// parameter buffer.
//
// Returns:
//   - bool: true for unsigned integer vectors
func (t ConstantType) IsUnsignedInt() bool {
	return t >= TypeUInt1 && t <= TypeUInt4
}

// IsMatrix reports whether the constant type is one of the matrix shapes.
//
// Returns:
//   - bool: true for all 2x2 through 4x4 matrix types
func (t ConstantType) IsMatrix() bool {
	return t >= TypeMatrix2x2 && t <= TypeMatrix4x4
}

// IsSampler reports whether the constant type is a sampler kind.
//
// Returns:
//   - bool: true for sampler types
func (t ConstantType) IsSampler() bool {
	return t >= TypeSampler1D && t <= TypeSamplerCube
}

// ConstantDefinition describes one reflected shader constant: its semantic type, the
// size of one element in words, its array length, and where it lives both in the
// source-level contiguous layout (logical) and inside its category's packed physical
// buffer.
type ConstantDefinition struct {
	// Type is the semantic type recovered from reflection.
	Type ConstantType

	// ElementSize is the size of one element in 4-byte words.
	ElementSize int

	// ArraySize is the array length; 1 for non-array constants.
	ArraySize int

	// LogicalIndex is the byte position of this constant in the source-level
	// contiguous parameter layout. Unique per named variable.
	LogicalIndex int

	// PhysicalIndex is the word position of this constant inside its category's
	// physical buffer (float, uint, or int).
	PhysicalIndex int
}

// WordCount returns the total number of 4-byte words this definition occupies.
//
// Returns:
//   - int: ElementSize * ArraySize
func (d ConstantDefinition) WordCount() int {
	return d.ElementSize * d.ArraySize
}

// NamedConstants is the per-program map of reflected constant definitions by variable
// name, together with the published sizes of the three physical parameter buffers as
// of this program's reflection pass.
type NamedConstants struct {
	// Map holds the definitions keyed by source variable name.
	Map map[string]ConstantDefinition

	// FloatBufferSize is the float physical buffer size in words after this
	// program's definitions were appended.
	FloatBufferSize int

	// IntBufferSize is the signed-int physical buffer size in words after this
	// program's definitions were appended.
	IntBufferSize int

	// UIntBufferSize is the unsigned-int physical buffer size in words after this
	// program's definitions were appended.
	UIntBufferSize int
}

// NewNamedConstants creates an empty NamedConstants with an initialized map.
//
// Returns:
//   - *NamedConstants: the new, empty instance
func NewNamedConstants() *NamedConstants {
	return &NamedConstants{Map: make(map[string]ConstantDefinition)}
}

// GenerateArrayEntries registers indexed aliases ("name[0]", "name[1]", ...) for an
// array constant so individual elements can be addressed by name. Each alias shares
// the base definition with its physical and logical positions advanced by whole
// elements.
//
// Parameters:
//   - name: the base variable name
//   - def: the array constant's definition
func (nc *NamedConstants) GenerateArrayEntries(name string, def ConstantDefinition) {
	entry := def
	entry.ArraySize = 1
	for i := 0; i < def.ArraySize; i++ {
		nc.Map[fmt.Sprintf("%s[%d]", name, i)] = entry
		entry.PhysicalIndex += entry.ElementSize
		entry.LogicalIndex += entry.ElementSize * 4
	}
}
