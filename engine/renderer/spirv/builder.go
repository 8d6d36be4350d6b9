package spirv

// Builder assembles a minimal SPIR-V module word by word. It emits only the
// module-level sections the parser consumes, keeping them in the order the
// SPIR-V specification requires (debug names, annotations, types and
// constants, global variables). It exists so reflection behavior can be
// exercised against hand-built binaries without shelling out to a compiler.
type Builder struct {
	debugNames  []uint32
	annotations []uint32
	types       []uint32
	globalVars  []uint32

	nextID uint32
}

// NewBuilder creates an empty module builder.
//
// Returns:
//   - *Builder: the new builder with no instructions and id 1 unallocated
func NewBuilder() *Builder {
	return &Builder{nextID: 1}
}

// AllocID allocates the next unused result id.
//
// Returns:
//   - uint32: the allocated id
func (b *Builder) AllocID() uint32 {
	id := b.nextID
	b.nextID++
	return id
}

// encode appends one instruction to a section stream.
func encode(section []uint32, op OpCode, operands ...uint32) []uint32 {
	section = append(section, uint32(len(operands)+1)<<16|uint32(op))
	return append(section, operands...)
}

// encodeString packs a nul-terminated string into little-endian words.
func encodeString(s string) []uint32 {
	raw := append([]byte(s), 0)
	for len(raw)%4 != 0 {
		raw = append(raw, 0)
	}
	words := make([]uint32, len(raw)/4)
	for i := range words {
		words[i] = uint32(raw[i*4]) | uint32(raw[i*4+1])<<8 |
			uint32(raw[i*4+2])<<16 | uint32(raw[i*4+3])<<24
	}
	return words
}

// AddName records a debug name for an id.
func (b *Builder) AddName(id uint32, name string) {
	b.debugNames = encode(b.debugNames, OpName, append([]uint32{id}, encodeString(name)...)...)
}

// AddMemberName records a debug name for a struct member.
func (b *Builder) AddMemberName(structID, member uint32, name string) {
	operands := append([]uint32{structID, member}, encodeString(name)...)
	b.debugNames = encode(b.debugNames, OpMemberName, operands...)
}

// AddDecorate decorates an id.
func (b *Builder) AddDecorate(id uint32, dec Decoration, params ...uint32) {
	b.annotations = encode(b.annotations, OpDecorate, append([]uint32{id, uint32(dec)}, params...)...)
}

// AddMemberDecorate decorates a struct member.
func (b *Builder) AddMemberDecorate(structID, member uint32, dec Decoration, params ...uint32) {
	operands := append([]uint32{structID, member, uint32(dec)}, params...)
	b.annotations = encode(b.annotations, OpMemberDecorate, operands...)
}

// AddTypeFloat adds OpTypeFloat and returns its id.
func (b *Builder) AddTypeFloat(width uint32) uint32 {
	id := b.AllocID()
	b.types = encode(b.types, OpTypeFloat, id, width)
	return id
}

// AddTypeInt adds OpTypeInt and returns its id.
func (b *Builder) AddTypeInt(width uint32, signed bool) uint32 {
	id := b.AllocID()
	signedness := uint32(0)
	if signed {
		signedness = 1
	}
	b.types = encode(b.types, OpTypeInt, id, width, signedness)
	return id
}

// AddTypeVector adds OpTypeVector and returns its id.
func (b *Builder) AddTypeVector(componentType, count uint32) uint32 {
	id := b.AllocID()
	b.types = encode(b.types, OpTypeVector, id, componentType, count)
	return id
}

// AddTypeMatrix adds OpTypeMatrix and returns its id.
func (b *Builder) AddTypeMatrix(columnType, columnCount uint32) uint32 {
	id := b.AllocID()
	b.types = encode(b.types, OpTypeMatrix, id, columnType, columnCount)
	return id
}

// AddTypeSampler adds OpTypeSampler and returns its id.
func (b *Builder) AddTypeSampler() uint32 {
	id := b.AllocID()
	b.types = encode(b.types, OpTypeSampler, id)
	return id
}

// AddTypeImage adds OpTypeImage and returns its id. dim is one of the Dim*
// constants; sampled is 1 for sampled images and 2 for storage images. Depth,
// arrayed, multisample and format are fixed to the values GLSL single-sampled
// declarations compile to.
func (b *Builder) AddTypeImage(sampledType, dim, sampled uint32) uint32 {
	id := b.AllocID()
	b.types = encode(b.types, OpTypeImage, id, sampledType, dim, 0, 0, 0, sampled, 0)
	return id
}

// AddTypeSampledImage adds OpTypeSampledImage and returns its id.
func (b *Builder) AddTypeSampledImage(imageType uint32) uint32 {
	id := b.AllocID()
	b.types = encode(b.types, OpTypeSampledImage, id, imageType)
	return id
}

// AddTypeArray adds OpTypeArray and returns its id. length is a constant id.
func (b *Builder) AddTypeArray(elementType, length uint32) uint32 {
	id := b.AllocID()
	b.types = encode(b.types, OpTypeArray, id, elementType, length)
	return id
}

// AddTypeRuntimeArray adds OpTypeRuntimeArray and returns its id.
func (b *Builder) AddTypeRuntimeArray(elementType uint32) uint32 {
	id := b.AllocID()
	b.types = encode(b.types, OpTypeRuntimeArray, id, elementType)
	return id
}

// AddTypeStruct adds OpTypeStruct and returns its id.
func (b *Builder) AddTypeStruct(memberTypes ...uint32) uint32 {
	id := b.AllocID()
	b.types = encode(b.types, OpTypeStruct, append([]uint32{id}, memberTypes...)...)
	return id
}

// AddTypePointer adds OpTypePointer and returns its id.
func (b *Builder) AddTypePointer(storageClass StorageClass, baseType uint32) uint32 {
	id := b.AllocID()
	b.types = encode(b.types, OpTypePointer, id, uint32(storageClass), baseType)
	return id
}

// AddConstant adds a single-word OpConstant and returns its id.
func (b *Builder) AddConstant(typeID, value uint32) uint32 {
	id := b.AllocID()
	b.types = encode(b.types, OpConstant, typeID, id, value)
	return id
}

// AddVariable adds a module-level OpVariable and returns its id.
func (b *Builder) AddVariable(pointerType uint32, storageClass StorageClass) uint32 {
	id := b.AllocID()
	b.globalVars = encode(b.globalVars, OpVariable, pointerType, id, uint32(storageClass))
	return id
}

// Words assembles the module: the five-word header followed by the sections
// in specification order.
//
// Returns:
//   - []uint32: the complete module word stream
func (b *Builder) Words() []uint32 {
	words := []uint32{MagicNumber, 0x00010300, 0, b.nextID, 0}
	words = append(words, b.debugNames...)
	words = append(words, b.annotations...)
	words = append(words, b.types...)
	words = append(words, b.globalVars...)
	return words
}
