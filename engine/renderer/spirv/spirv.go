// Package spirv parses compiled SPIR-V binaries just far enough to answer the
// reflection questions the renderer asks: which descriptor bindings a shader
// declares, how the members of a uniform block are laid out, and which stage
// inputs the vertex shader consumes. It deliberately ignores function bodies;
// only the module-level sections (debug names, decorations, types, constants
// and global variables) are decoded.
package spirv

import (
	"fmt"
)

// MagicNumber is the first word of every valid SPIR-V binary.
const MagicNumber = 0x07230203

// headerWords is the fixed size of the SPIR-V module header
// (magic, version, generator, bound, schema).
const headerWords = 5

// OpCode represents a SPIR-V opcode.
type OpCode uint16

// Opcodes decoded by the parser. Everything else is skipped by word count.
const (
	OpName             OpCode = 5
	OpMemberName       OpCode = 6
	OpMemoryModel      OpCode = 14
	OpEntryPoint       OpCode = 15
	OpCapability       OpCode = 17
	OpTypeVoid         OpCode = 19
	OpTypeBool         OpCode = 20
	OpTypeInt          OpCode = 21
	OpTypeFloat        OpCode = 22
	OpTypeVector       OpCode = 23
	OpTypeMatrix       OpCode = 24
	OpTypeImage        OpCode = 25
	OpTypeSampler      OpCode = 26
	OpTypeSampledImage OpCode = 27
	OpTypeArray        OpCode = 28
	OpTypeRuntimeArray OpCode = 29
	OpTypeStruct       OpCode = 30
	OpTypePointer      OpCode = 32
	OpTypeFunction     OpCode = 33
	OpConstant         OpCode = 43
	OpVariable         OpCode = 59
	OpDecorate         OpCode = 71
	OpMemberDecorate   OpCode = 72
)

// Decoration represents a SPIR-V decoration.
type Decoration uint32

// Decorations the reflection layer cares about.
const (
	DecorationBlock         Decoration = 2
	DecorationBufferBlock   Decoration = 3
	DecorationRowMajor      Decoration = 4
	DecorationColMajor      Decoration = 5
	DecorationArrayStride   Decoration = 6
	DecorationMatrixStride  Decoration = 7
	DecorationBuiltIn       Decoration = 11
	DecorationLocation      Decoration = 30
	DecorationBinding       Decoration = 33
	DecorationDescriptorSet Decoration = 34
	DecorationOffset        Decoration = 35
)

// StorageClass represents a SPIR-V storage class.
type StorageClass uint32

// Storage classes the reflection layer cares about.
const (
	StorageClassUniformConstant StorageClass = 0
	StorageClassInput           StorageClass = 1
	StorageClassUniform         StorageClass = 2
	StorageClassOutput          StorageClass = 3
	StorageClassPushConstant    StorageClass = 9
	StorageClassStorageBuffer   StorageClass = 12
)

// Image dimensionalities from the OpTypeImage instruction.
const (
	Dim1D     uint32 = 0
	Dim2D     uint32 = 1
	Dim3D     uint32 = 2
	DimCube   uint32 = 3
	DimRect   uint32 = 4
	DimBuffer uint32 = 5
)

type typeKind int

const (
	kindUnknown typeKind = iota
	kindVoid
	kindBool
	kindInt
	kindFloat
	kindVector
	kindMatrix
	kindImage
	kindSampler
	kindSampledImage
	kindArray
	kindRuntimeArray
	kindStruct
	kindPointer
)

// typeInfo is the parser's record of one OpType* result. Which fields are
// meaningful depends on the kind.
type typeInfo struct {
	kind typeKind

	// width is the bit width of an int or float scalar.
	width uint32

	// signed reports whether an int scalar is signed.
	signed bool

	// component is the referenced type id: the scalar type of a vector, the
	// column type of a matrix, the element type of an array, the image type
	// of a sampled image, or the pointee of a pointer.
	component uint32

	// count is the component count of a vector or the column count of a matrix.
	count uint32

	// lengthID is the id of the OpConstant holding an array's length.
	lengthID uint32

	// members lists a struct's member type ids in declaration order.
	members []uint32

	// storageClass is a pointer's storage class.
	storageClass StorageClass

	// dim and sampled come from OpTypeImage: the dimensionality operand and
	// the "sampled" usage operand (1 sampled, 2 storage).
	dim     uint32
	sampled uint32
}

// varInfo is the parser's record of one module-level OpVariable.
type varInfo struct {
	id           uint32
	typeID       uint32
	storageClass StorageClass
}

// Module is a parsed SPIR-V binary. It holds the raw module-level tables the
// reflection queries in reflect.go are answered from.
type Module struct {
	// Bound is the id bound from the module header.
	Bound uint32

	names       map[uint32]string
	memberNames map[uint32]map[uint32]string

	decorations       map[uint32]map[Decoration][]uint32
	memberDecorations map[uint32]map[uint32]map[Decoration][]uint32

	types     map[uint32]typeInfo
	constants map[uint32]uint32
	variables []varInfo
}

// Parse decodes a SPIR-V word stream into a Module. The stream must start with
// the standard five-word header; instructions the reflection layer does not
// need are skipped using their word counts. A truncated instruction or a bad
// magic number is an error.
//
// Parameters:
//   - words: the SPIR-V binary as a little-endian word slice
//
// Returns:
//   - *Module: the parsed module
//   - error: an error if the stream is malformed, otherwise nil
func Parse(words []uint32) (*Module, error) {
	if len(words) < headerWords {
		return nil, fmt.Errorf("spirv: binary too short: %d words", len(words))
	}
	if words[0] != MagicNumber {
		return nil, fmt.Errorf("spirv: bad magic number 0x%08x", words[0])
	}

	m := &Module{
		Bound:             words[3],
		names:             make(map[uint32]string),
		memberNames:       make(map[uint32]map[uint32]string),
		decorations:       make(map[uint32]map[Decoration][]uint32),
		memberDecorations: make(map[uint32]map[uint32]map[Decoration][]uint32),
		types:             make(map[uint32]typeInfo),
		constants:         make(map[uint32]uint32),
	}

	pos := headerWords
	for pos < len(words) {
		first := words[pos]
		wordCount := int(first >> 16)
		op := OpCode(first & 0xFFFF)
		if wordCount == 0 || pos+wordCount > len(words) {
			return nil, fmt.Errorf("spirv: truncated instruction %d at word %d", op, pos)
		}
		operands := words[pos+1 : pos+wordCount]

		switch op {
		case OpName:
			if len(operands) >= 2 {
				m.names[operands[0]] = decodeString(operands[1:])
			}
		case OpMemberName:
			if len(operands) >= 3 {
				byMember := m.memberNames[operands[0]]
				if byMember == nil {
					byMember = make(map[uint32]string)
					m.memberNames[operands[0]] = byMember
				}
				byMember[operands[1]] = decodeString(operands[2:])
			}
		case OpDecorate:
			if len(operands) >= 2 {
				byDec := m.decorations[operands[0]]
				if byDec == nil {
					byDec = make(map[Decoration][]uint32)
					m.decorations[operands[0]] = byDec
				}
				byDec[Decoration(operands[1])] = append([]uint32(nil), operands[2:]...)
			}
		case OpMemberDecorate:
			if len(operands) >= 3 {
				byMember := m.memberDecorations[operands[0]]
				if byMember == nil {
					byMember = make(map[uint32]map[Decoration][]uint32)
					m.memberDecorations[operands[0]] = byMember
				}
				byDec := byMember[operands[1]]
				if byDec == nil {
					byDec = make(map[Decoration][]uint32)
					byMember[operands[1]] = byDec
				}
				byDec[Decoration(operands[2])] = append([]uint32(nil), operands[3:]...)
			}
		case OpTypeVoid:
			m.types[operands[0]] = typeInfo{kind: kindVoid}
		case OpTypeBool:
			m.types[operands[0]] = typeInfo{kind: kindBool}
		case OpTypeInt:
			m.types[operands[0]] = typeInfo{kind: kindInt, width: operands[1], signed: operands[2] == 1}
		case OpTypeFloat:
			m.types[operands[0]] = typeInfo{kind: kindFloat, width: operands[1]}
		case OpTypeVector:
			m.types[operands[0]] = typeInfo{kind: kindVector, component: operands[1], count: operands[2]}
		case OpTypeMatrix:
			m.types[operands[0]] = typeInfo{kind: kindMatrix, component: operands[1], count: operands[2]}
		case OpTypeImage:
			if len(operands) >= 7 {
				m.types[operands[0]] = typeInfo{
					kind:      kindImage,
					component: operands[1],
					dim:       operands[2],
					sampled:   operands[6],
				}
			}
		case OpTypeSampler:
			m.types[operands[0]] = typeInfo{kind: kindSampler}
		case OpTypeSampledImage:
			m.types[operands[0]] = typeInfo{kind: kindSampledImage, component: operands[1]}
		case OpTypeArray:
			m.types[operands[0]] = typeInfo{kind: kindArray, component: operands[1], lengthID: operands[2]}
		case OpTypeRuntimeArray:
			m.types[operands[0]] = typeInfo{kind: kindRuntimeArray, component: operands[1]}
		case OpTypeStruct:
			m.types[operands[0]] = typeInfo{kind: kindStruct, members: append([]uint32(nil), operands[1:]...)}
		case OpTypePointer:
			m.types[operands[0]] = typeInfo{
				kind:         kindPointer,
				storageClass: StorageClass(operands[1]),
				component:    operands[2],
			}
		case OpConstant:
			// Only the low word matters for array lengths.
			if len(operands) >= 3 {
				m.constants[operands[1]] = operands[2]
			}
		case OpVariable:
			// Function-local variables never appear before the first
			// OpFunction, and module parsing only ever walks the global
			// sections, so every OpVariable seen here is module scoped.
			if len(operands) >= 3 {
				m.variables = append(m.variables, varInfo{
					id:           operands[1],
					typeID:       operands[0],
					storageClass: StorageClass(operands[2]),
				})
			}
		}

		pos += wordCount
	}

	return m, nil
}

// ParseBytes decodes a SPIR-V binary given as bytes. The byte length must be a
// multiple of four.
//
// Parameters:
//   - data: the SPIR-V binary as little-endian bytes
//
// Returns:
//   - *Module: the parsed module
//   - error: an error if the stream is malformed, otherwise nil
func ParseBytes(data []byte) (*Module, error) {
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("spirv: binary length %d is not a multiple of 4", len(data))
	}
	words := make([]uint32, len(data)/4)
	for i := range words {
		words[i] = uint32(data[i*4]) | uint32(data[i*4+1])<<8 |
			uint32(data[i*4+2])<<16 | uint32(data[i*4+3])<<24
	}
	return Parse(words)
}

// decodeString reads a nul-terminated UTF-8 string packed little-endian into
// SPIR-V words.
func decodeString(words []uint32) string {
	buf := make([]byte, 0, len(words)*4)
	for _, w := range words {
		for shift := 0; shift < 32; shift += 8 {
			c := byte(w >> shift)
			if c == 0 {
				return string(buf)
			}
			buf = append(buf, c)
		}
	}
	return string(buf)
}

// name returns the debug name recorded for an id, or "".
func (m *Module) name(id uint32) string {
	return m.names[id]
}

// memberName returns the debug name recorded for a struct member, or "".
func (m *Module) memberName(structID, member uint32) string {
	if byMember := m.memberNames[structID]; byMember != nil {
		return byMember[member]
	}
	return ""
}

// decoration looks up a decoration on an id; ok reports whether it is present.
// value is the first operand, or zero for operand-less decorations.
func (m *Module) decoration(id uint32, dec Decoration) (value uint32, ok bool) {
	byDec := m.decorations[id]
	if byDec == nil {
		return 0, false
	}
	operands, ok := byDec[dec]
	if !ok {
		return 0, false
	}
	if len(operands) > 0 {
		return operands[0], true
	}
	return 0, true
}

// memberDecoration looks up a decoration on a struct member; ok reports
// whether it is present.
func (m *Module) memberDecoration(structID, member uint32, dec Decoration) (value uint32, ok bool) {
	byMember := m.memberDecorations[structID]
	if byMember == nil {
		return 0, false
	}
	byDec := byMember[member]
	if byDec == nil {
		return 0, false
	}
	operands, ok := byDec[dec]
	if !ok {
		return 0, false
	}
	if len(operands) > 0 {
		return operands[0], true
	}
	return 0, true
}
