// reflect.go builds named constant definitions from compiled SPIR-V. Only the
// reserved parameter slot is reflected here; every other binding belongs to
// the material and texture systems, which consume the descriptor layout
// directly.
package shader

import (
	"github.com/rikool050/ogre-next/common"
	"github.com/rikool050/ogre-next/engine/params"
	"github.com/rikool050/ogre-next/engine/renderer/spirv"
)

// buildConstantDefinitions reflects the program's SPIR-V and fills the named
// constant set, the sorted definition list, the per-binding offset records
// and the upload high-water mark. A failed or SPIR-V-less compilation leaves
// the constant set empty without error.
//
// Uniform blocks on the parameter slot contribute one definition per member;
// nested struct members are skipped. Non-block bindings on the slot (pure
// samplers, texel buffers, combined image samplers) contribute one definition
// each, keyed by the variable name or, when blank, the block type name.
// Definitions are appended to the category buffers in discovery order: floats
// to the float buffer, unsigned ints to the unsigned buffer, everything else
// to the signed int buffer.
//
// Returns:
//   - error: an APIError when reflection fails, otherwise nil
func (p *program) buildConstantDefinitions() error {
	p.constants = params.NewNamedConstants()
	p.constantsSorted = nil
	p.bindingParams = make(map[uint32]ConstantBindingParam)

	if p.compileError || len(p.spirv) == 0 {
		return nil
	}

	module, err := spirv.Parse(p.spirv)
	if err != nil {
		return &APIError{Op: "spirv.Parse", Message: "failed on shader " + p.name + ": " + err.Error()}
	}

	alignment := p.device.MinUniformBufferOffsetAlignment()

	for _, set := range module.DescriptorSets() {
		prevSize := 0

		for _, binding := range set.Bindings {
			if binding.Binding != ParameterSlot {
				continue
			}

			if binding.Type == spirv.DescriptorUniformBuffer {
				for _, member := range binding.Block.Members {
					if member.IsStruct {
						continue
					}

					var constantType params.ConstantType
					if member.IsMatrix {
						constantType, err = matrixConstantType(
							member.Numeric.MatrixRows, member.Numeric.MatrixColumns)
					} else {
						constantType, err = vectorConstantType(
							member.Numeric.IsFloat, member.Numeric.ComponentCount)
					}
					if err != nil {
						return &APIError{
							Op:      "buildConstantDefinitions",
							Message: p.name + ": " + err.Error(),
						}
					}

					def := params.ConstantDefinition{
						Type:         constantType,
						LogicalIndex: prevSize + int(member.Offset),
					}
					if member.ArrayDims > 0 {
						def.ElementSize = int(member.ArrayStride / 4)
						def.ArraySize = int(member.ArrayDims)
					} else {
						def.ElementSize = constantType.ElementSize()
						def.ArraySize = 1
					}

					p.placeDefinition(&def)

					name := member.Name
					if member.ArrayDims > 0 {
						p.constants.GenerateArrayEntries(name, def)
					}
					p.constants.Map[name] = def
					p.constantsSorted = append(p.constantsSorted, def)

					extent := uint32(def.LogicalIndex + def.ArraySize*def.ElementSize*4)
					if extent > p.constantsBytesToWrite {
						p.constantsBytesToWrite = extent
					}
				}

				bindingParam := ConstantBindingParam{
					Offset: binding.Block.Offset,
					Size:   binding.Block.Size,
				}
				if _, seen := p.bindingParams[binding.Binding]; !seen {
					prevSize += int(common.Align(uint64(binding.Block.Size), alignment))
					p.bindingParams[binding.Binding] = bindingParam
				}
			} else {
				var def params.ConstantDefinition
				switch binding.Type {
				case spirv.DescriptorSampler:
					def.Type = params.TypeSampler2D
				case spirv.DescriptorUniformTexelBuffer:
					def.Type = params.TypeSampler1D
				case spirv.DescriptorCombinedImageSampler:
					def.Type = params.TypeSampler2D
				}
				def.ArraySize = 1
				def.LogicalIndex = prevSize
				def.ElementSize = 1

				p.placeDefinition(&def)

				name := binding.Name
				if name == "" {
					name = binding.TypeName
				}
				if binding.ArrayDims > 0 {
					p.constants.GenerateArrayEntries(name, def)
				}
				p.constants.Map[name] = def
				p.constantsSorted = append(p.constantsSorted, def)

				extent := uint32(def.PhysicalIndex + def.ArraySize*def.ElementSize*4)
				if extent > p.constantsBytesToWrite {
					p.constantsBytesToWrite = extent
				}

				bindingParam := ConstantBindingParam{
					Offset: uint32(def.LogicalIndex),
					Size:   uint32(def.ArraySize * def.ElementSize),
				}
				prevSize += int(bindingParam.Size)
				if _, seen := p.bindingParams[binding.Binding]; !seen {
					p.bindingParams[binding.Binding] = bindingParam
				}
			}
		}
	}

	return nil
}

// placeDefinition appends a definition to its category's physical buffer and
// mirrors the buffer's new size into the published per-category counters. The
// physical offset is the buffer's size before the append.
func (p *program) placeDefinition(def *params.ConstantDefinition) {
	size := def.ArraySize * def.ElementSize
	switch {
	case def.Type.IsFloat():
		physical, newSize := p.registry.Float.Allocate(def.LogicalIndex, size)
		def.PhysicalIndex = physical
		p.constants.FloatBufferSize = newSize
	case def.Type.IsUnsignedInt():
		physical, newSize := p.registry.UInt.Allocate(def.LogicalIndex, size)
		def.PhysicalIndex = physical
		p.constants.UIntBufferSize = newSize
	default:
		physical, newSize := p.registry.Int.Allocate(def.LogicalIndex, size)
		def.PhysicalIndex = physical
		p.constants.IntBufferSize = newSize
	}
}
