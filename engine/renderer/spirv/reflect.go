package spirv

import "sort"

// DescriptorType classifies a shader resource binding the same way Vulkan's
// descriptor types do, as far as SPIR-V alone can tell them apart.
type DescriptorType int

const (
	DescriptorSampler DescriptorType = iota
	DescriptorCombinedImageSampler
	DescriptorSampledImage
	DescriptorStorageImage
	DescriptorUniformTexelBuffer
	DescriptorStorageTexelBuffer
	DescriptorUniformBuffer
	DescriptorStorageBuffer
)

// String returns the descriptor type's name for log and error messages.
func (t DescriptorType) String() string {
	switch t {
	case DescriptorSampler:
		return "sampler"
	case DescriptorCombinedImageSampler:
		return "combined image sampler"
	case DescriptorSampledImage:
		return "sampled image"
	case DescriptorStorageImage:
		return "storage image"
	case DescriptorUniformTexelBuffer:
		return "uniform texel buffer"
	case DescriptorStorageTexelBuffer:
		return "storage texel buffer"
	case DescriptorUniformBuffer:
		return "uniform buffer"
	case DescriptorStorageBuffer:
		return "storage buffer"
	}
	return "unknown"
}

// Numeric describes the scalar/vector/matrix shape of a block member.
type Numeric struct {
	// ComponentCount is the vector component count, or 1 for scalars.
	ComponentCount uint32

	// MatrixRows, MatrixColumns and MatrixStride describe a matrix member.
	// All three are zero for non-matrix members; MatrixStride is the byte
	// stride between columns taken from the member's decoration.
	MatrixRows    uint32
	MatrixColumns uint32
	MatrixStride  uint32

	// IsFloat reports whether the underlying scalar is a float.
	IsFloat bool

	// Signed reports whether an integer scalar is signed.
	Signed bool
}

// BlockMember is one member of a uniform or storage block.
type BlockMember struct {
	// Name is the member's debug name, or "" when names were stripped.
	Name string

	// Offset is the member's byte offset inside the block.
	Offset uint32

	// Numeric is the member's scalar/vector/matrix shape after unwrapping
	// any array levels.
	Numeric Numeric

	// IsMatrix, IsVector and IsStruct classify the member's unwrapped type.
	IsMatrix bool
	IsVector bool
	IsStruct bool

	// ArrayDims is the number of array dimensions wrapping the member's
	// type, zero for non-array members.
	ArrayDims uint32

	// ArrayStride is the byte stride of the outermost array level, zero for
	// non-array members.
	ArrayStride uint32
}

// Block is the reflected layout of a uniform or storage block.
type Block struct {
	// Offset is the block's byte offset, zero for a top level block.
	Offset uint32

	// Size is the block's byte extent, the largest member offset plus that
	// member's byte size.
	Size uint32

	// Members lists the block's members in declaration order.
	Members []BlockMember
}

// DescriptorBinding is one reflected resource binding.
type DescriptorBinding struct {
	// Set and Binding are the binding's descriptor set and binding indices.
	Set     uint32
	Binding uint32

	// Name is the variable's debug name; TypeName is the debug name of the
	// block's struct type. For anonymous block instances Name is "".
	Name     string
	TypeName string

	// Type classifies the binding.
	Type DescriptorType

	// Block holds the member layout for buffer bindings; it is empty for
	// image and sampler bindings.
	Block Block

	// ArrayDims is the number of array dimensions on the binding itself
	// (arrays of descriptors), zero for single descriptors.
	ArrayDims uint32
}

// DescriptorSet groups the bindings declared in one descriptor set.
type DescriptorSet struct {
	// Set is the descriptor set index.
	Set uint32

	// Bindings lists the set's bindings ordered by binding index.
	Bindings []DescriptorBinding
}

// DescriptorSets enumerates every resource binding declared by the module,
// grouped by descriptor set. Sets are ordered by index, and within a set the
// bindings are ordered by binding index. Variables without a binding
// decoration (stage inputs, outputs, push constants) are not descriptors and
// are skipped.
//
// Returns:
//   - []DescriptorSet: the module's descriptor sets in ascending set order
func (m *Module) DescriptorSets() []DescriptorSet {
	bySet := make(map[uint32][]DescriptorBinding)
	for _, v := range m.variables {
		binding, ok := m.descriptorBinding(v)
		if !ok {
			continue
		}
		bySet[binding.Set] = append(bySet[binding.Set], binding)
	}

	sets := make([]DescriptorSet, 0, len(bySet))
	for set, bindings := range bySet {
		sort.SliceStable(bindings, func(i, j int) bool {
			return bindings[i].Binding < bindings[j].Binding
		})
		sets = append(sets, DescriptorSet{Set: set, Bindings: bindings})
	}
	sort.Slice(sets, func(i, j int) bool { return sets[i].Set < sets[j].Set })
	return sets
}

// descriptorBinding reflects a single module-level variable into a descriptor
// binding; ok is false when the variable is not a descriptor.
func (m *Module) descriptorBinding(v varInfo) (DescriptorBinding, bool) {
	ptr, ok := m.types[v.typeID]
	if !ok || ptr.kind != kindPointer {
		return DescriptorBinding{}, false
	}

	switch v.storageClass {
	case StorageClassUniformConstant, StorageClassUniform, StorageClassStorageBuffer:
	default:
		return DescriptorBinding{}, false
	}

	bindingIdx, hasBinding := m.decoration(v.id, DecorationBinding)
	if !hasBinding {
		return DescriptorBinding{}, false
	}
	setIdx, _ := m.decoration(v.id, DecorationDescriptorSet)

	// Arrays of descriptors wrap the resource type in array levels.
	pointeeID := ptr.component
	var arrayDims uint32
	for {
		t, ok := m.types[pointeeID]
		if !ok {
			return DescriptorBinding{}, false
		}
		if t.kind != kindArray && t.kind != kindRuntimeArray {
			break
		}
		arrayDims++
		pointeeID = t.component
	}
	pointee, ok := m.types[pointeeID]
	if !ok {
		return DescriptorBinding{}, false
	}

	binding := DescriptorBinding{
		Set:       setIdx,
		Binding:   bindingIdx,
		Name:      m.name(v.id),
		TypeName:  m.name(pointeeID),
		ArrayDims: arrayDims,
	}

	switch pointee.kind {
	case kindSampler:
		binding.Type = DescriptorSampler
	case kindSampledImage:
		image := m.types[pointee.component]
		if image.dim == DimBuffer {
			binding.Type = DescriptorUniformTexelBuffer
		} else {
			binding.Type = DescriptorCombinedImageSampler
		}
	case kindImage:
		switch {
		case pointee.sampled == 2 && pointee.dim == DimBuffer:
			binding.Type = DescriptorStorageTexelBuffer
		case pointee.sampled == 2:
			binding.Type = DescriptorStorageImage
		case pointee.dim == DimBuffer:
			binding.Type = DescriptorUniformTexelBuffer
		default:
			binding.Type = DescriptorSampledImage
		}
	case kindStruct:
		_, isBlock := m.decoration(pointeeID, DecorationBlock)
		_, isBufferBlock := m.decoration(pointeeID, DecorationBufferBlock)
		switch {
		case isBufferBlock || v.storageClass == StorageClassStorageBuffer:
			binding.Type = DescriptorStorageBuffer
		case isBlock:
			binding.Type = DescriptorUniformBuffer
		default:
			return DescriptorBinding{}, false
		}
		binding.Block = m.reflectBlock(pointeeID)
	default:
		return DescriptorBinding{}, false
	}

	return binding, true
}

// reflectBlock walks a block struct's members and computes the block's byte
// extent from the member offsets and sizes.
func (m *Module) reflectBlock(structID uint32) Block {
	info := m.types[structID]
	block := Block{Members: make([]BlockMember, 0, len(info.members))}

	for i, memberTypeID := range info.members {
		member := BlockMember{Name: m.memberName(structID, uint32(i))}
		member.Offset, _ = m.memberDecoration(structID, uint32(i), DecorationOffset)
		member.Numeric.MatrixStride, _ = m.memberDecoration(structID, uint32(i), DecorationMatrixStride)

		// Unwrap array levels, keeping the outermost stride.
		elemID := memberTypeID
		for {
			t, ok := m.types[elemID]
			if !ok || (t.kind != kindArray && t.kind != kindRuntimeArray) {
				break
			}
			if member.ArrayDims == 0 {
				member.ArrayStride, _ = m.decoration(elemID, DecorationArrayStride)
			}
			member.ArrayDims++
			elemID = t.component
		}

		elem := m.types[elemID]
		switch elem.kind {
		case kindMatrix:
			member.IsMatrix = true
			column := m.types[elem.component]
			scalar := m.types[column.component]
			member.Numeric.MatrixColumns = elem.count
			member.Numeric.MatrixRows = column.count
			member.Numeric.ComponentCount = column.count
			member.Numeric.IsFloat = scalar.kind == kindFloat
			member.Numeric.Signed = scalar.signed
		case kindVector:
			member.IsVector = true
			scalar := m.types[elem.component]
			member.Numeric.ComponentCount = elem.count
			member.Numeric.IsFloat = scalar.kind == kindFloat
			member.Numeric.Signed = scalar.signed
		case kindStruct:
			member.IsStruct = true
		default:
			member.Numeric.ComponentCount = 1
			member.Numeric.IsFloat = elem.kind == kindFloat
			member.Numeric.Signed = elem.signed
		}

		block.Members = append(block.Members, member)

		if extent := member.Offset + m.typeByteSize(memberTypeID); extent > block.Size {
			block.Size = extent
		}
	}
	return block
}

// typeByteSize computes a type's byte size from the module's layout
// decorations. Runtime arrays contribute nothing.
func (m *Module) typeByteSize(typeID uint32) uint32 {
	t, ok := m.types[typeID]
	if !ok {
		return 0
	}
	switch t.kind {
	case kindBool:
		return 4
	case kindInt, kindFloat:
		return t.width / 8
	case kindVector:
		return t.count * m.typeByteSize(t.component)
	case kindMatrix:
		return t.count * m.typeByteSize(t.component)
	case kindArray:
		length := m.constants[t.lengthID]
		if stride, ok := m.decoration(typeID, DecorationArrayStride); ok {
			return length * stride
		}
		return length * m.typeByteSize(t.component)
	case kindStruct:
		var size uint32
		for i, memberTypeID := range t.members {
			offset, _ := m.memberDecoration(typeID, uint32(i), DecorationOffset)
			if extent := offset + m.typeByteSize(memberTypeID); extent > size {
				size = extent
			}
		}
		return size
	}
	return 0
}

// LocationUndecorated marks a stage input that carries no location decoration,
// which in practice means a builtin the pipeline never feeds from a vertex
// buffer.
const LocationUndecorated = 0xFFFFFFFF

// BaseType is the scalar category of a stage input.
type BaseType int

const (
	BaseFloat BaseType = iota
	BaseInt
	BaseUInt
)

// InputVariable is one reflected stage input of the module.
type InputVariable struct {
	// Name is the input's debug name, or "".
	Name string

	// Location is the input's location decoration, or LocationUndecorated
	// for builtins.
	Location uint32

	// Base and ComponentCount give the input's scalar category and vector
	// width; Width is the scalar bit width.
	Base           BaseType
	ComponentCount uint32
	Width          uint32
}

// InputVariables enumerates the module's stage inputs in declaration order.
// Builtin inputs, including members of builtin interface blocks, report
// LocationUndecorated.
//
// Returns:
//   - []InputVariable: the stage inputs in declaration order
func (m *Module) InputVariables() []InputVariable {
	var inputs []InputVariable
	for _, v := range m.variables {
		if v.storageClass != StorageClassInput {
			continue
		}
		ptr, ok := m.types[v.typeID]
		if !ok || ptr.kind != kindPointer {
			continue
		}

		input := InputVariable{Name: m.name(v.id), Location: LocationUndecorated}
		if _, builtin := m.decoration(v.id, DecorationBuiltIn); !builtin {
			if loc, ok := m.decoration(v.id, DecorationLocation); ok {
				input.Location = loc
			}
		}

		pointee := m.types[ptr.component]
		scalarID := ptr.component
		input.ComponentCount = 1
		switch pointee.kind {
		case kindVector:
			input.ComponentCount = pointee.count
			scalarID = pointee.component
		case kindMatrix:
			column := m.types[pointee.component]
			input.ComponentCount = column.count
			scalarID = column.component
		case kindStruct:
			// Interface blocks on the input side are builtin blocks such as
			// gl_PerVertex; they never map to vertex attributes.
			inputs = append(inputs, input)
			continue
		}
		scalar := m.types[scalarID]
		input.Width = scalar.width
		switch {
		case scalar.kind == kindFloat:
			input.Base = BaseFloat
		case scalar.signed:
			input.Base = BaseInt
		default:
			input.Base = BaseUInt
		}

		inputs = append(inputs, input)
	}
	return inputs
}
