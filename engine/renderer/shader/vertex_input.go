// vertex_input.go reflects a program's stage inputs and matches them against
// mesh vertex declarations when a pipeline state object is built. Inputs are
// collected once per compile, sorted by location and binary-searched when
// matching.
package shader

import (
	"sort"

	vk "github.com/goki/vulkan"

	"github.com/rikool050/ogre-next/engine/mesh"
	"github.com/rikool050/ogre-next/engine/renderer/spirv"
)

// Draw-id data rides a dedicated per-instance buffer on its own fixed
// location and binding.
const (
	drawIDLocation uint32 = 15
	drawIDBinding  uint32 = 15
	drawIDStride   uint32 = 4
)

// gatherVertexInputs reflects the compiled SPIR-V's stage inputs into
// attribute descriptions sorted by location. Inputs at the undecorated
// location sentinel are counted as system generated; they stay in the list
// but never match a mesh element.
func (p *program) gatherVertexInputs() error {
	p.numSystemGenInputs = 0
	p.vertexInputs = nil

	module, err := spirv.Parse(p.spirv)
	if err != nil {
		return &APIError{Op: "spirv.Parse", Message: "failed on shader " + p.name + ": " + err.Error()}
	}

	inputs := module.InputVariables()
	if len(inputs) == 0 {
		return nil
	}

	p.vertexInputs = make([]vk.VertexInputAttributeDescription, 0, len(inputs))
	for _, in := range inputs {
		attr := vk.VertexInputAttributeDescription{
			Location: in.Location,
			Binding:  0,
			Format:   inputFormat(in.Base, in.ComponentCount),
			Offset:   0,
		}
		if attr.Location == spirv.LocationUndecorated {
			p.numSystemGenInputs++
		}
		p.vertexInputs = append(p.vertexInputs, attr)
	}

	sort.SliceStable(p.vertexInputs, func(i, j int) bool {
		return p.vertexInputs[i].Location < p.vertexInputs[j].Location
	})
	return nil
}

func (p *program) VertexInputs() []vk.VertexInputAttributeDescription {
	return p.vertexInputs
}

func (p *program) NumSystemGeneratedInputs() int {
	return p.numSystemGenInputs
}

// findVertexInput binary-searches the sorted inputs for a location.
func (p *program) findVertexInput(location uint32) (vk.VertexInputAttributeDescription, bool) {
	idx := sort.Search(len(p.vertexInputs), func(i int) bool {
		return p.vertexInputs[i].Location >= location
	})
	if idx < len(p.vertexInputs) && p.vertexInputs[idx].Location == location {
		return p.vertexInputs[idx], true
	}
	return vk.VertexInputAttributeDescription{}, false
}

func (p *program) LayoutForPso(decl mesh.Declaration) ([]vk.VertexInputBindingDescription, []vk.VertexInputAttributeDescription, error) {
	bindingDescs := make([]vk.VertexInputBindingDescription, 0, len(decl)+1)
	attrDescs := make([]vk.VertexInputAttributeDescription, 0, len(p.vertexInputs))

	numShaderInputs := len(p.vertexInputs)
	numShaderInputsFound := p.numSystemGenInputs

	// Texture coordinate sets share one semantic; their locations accumulate
	// across the whole declaration, not per buffer.
	uvCount := 0

	for bufferIdx, elements := range decl {
		hasInputRate := false
		var inputRate vk.VertexInputRate

		var bindAccumOffset uint32

		for _, element := range elements {
			locationIdx := uint32(mesh.AttributeIndex(element.Semantic))
			if element.Semantic == mesh.SemanticTextureCoordinates {
				locationIdx += uint32(uvCount)
				uvCount++
			}

			if attr, ok := p.findVertexInput(locationIdx); ok {
				if element.InstancingStepRate > 1 {
					return nil, nil, &APIError{
						Op:      "LayoutForPso",
						Message: "shader '" + p.name + "' only supports instancing step rates 0 and 1",
					}
				} else if !hasInputRate {
					hasInputRate = true
					if element.InstancingStepRate == 0 {
						inputRate = vk.VertexInputRateVertex
					} else {
						inputRate = vk.VertexInputRateInstance
					}
				} else if (element.InstancingStepRate == 0 && inputRate != vk.VertexInputRateVertex) ||
					(element.InstancingStepRate == 1 && inputRate != vk.VertexInputRateInstance) {
					return nil, nil, &APIError{
						Op: "LayoutForPso",
						Message: "shader '" + p.name + "' can only have all-instancing or all-vertex " +
							"rate semantics for the same vertex buffer, but it is mixing vertex and " +
							"instancing semantics for the same buffer idx",
					}
				}

				attr.Format = elementTypeFormat(element.Type)
				attr.Binding = uint32(bufferIdx)
				attr.Offset = bindAccumOffset
				attrDescs = append(attrDescs, attr)

				numShaderInputsFound++
			}

			bindAccumOffset += mesh.TypeSize(element.Type)
		}

		// Only bind this buffer's entry if the shader actually reads it.
		if hasInputRate {
			bindingDescs = append(bindingDescs, vk.VertexInputBindingDescription{
				Binding:   uint32(bufferIdx),
				Stride:    bindAccumOffset,
				InputRate: inputRate,
			})
		}
	}

	if attr, ok := p.findVertexInput(drawIDLocation); ok {
		attr.Format = vk.FormatR32Uint
		attr.Binding = drawIDBinding
		attr.Offset = 0
		attrDescs = append(attrDescs, attr)

		numShaderInputsFound++

		bindingDescs = append(bindingDescs, vk.VertexInputBindingDescription{
			Binding:   drawIDBinding,
			Stride:    drawIDStride,
			InputRate: vk.VertexInputRateInstance,
		})
	}

	if numShaderInputsFound < numShaderInputs {
		return nil, nil, &APIError{
			Op: "LayoutForPso",
			Message: "the shader requires more input attributes/semantics than the vertex " +
				"declaration has to offer, a component is missing",
		}
	}

	return bindingDescs, attrDescs, nil
}
