package mesh

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAttributeIndex(t *testing.T) {
	tests := []struct {
		semantic ElementSemantic
		want     int
	}{
		{SemanticPosition, 0},
		{SemanticNormal, 1},
		{SemanticTangent, 2},
		{SemanticBinormal, 3},
		{SemanticBlendWeights, 4},
		{SemanticBlendIndices, 5},
		{SemanticDiffuse, 6},
		{SemanticSpecular, 7},
		{SemanticTextureCoordinates, TextureCoordinateLocationBase},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, AttributeIndex(tt.semantic))
	}
}

func TestTypeSize(t *testing.T) {
	assert.Equal(t, uint32(4), TypeSize(TypeFloat1))
	assert.Equal(t, uint32(12), TypeSize(TypeFloat3))
	assert.Equal(t, uint32(16), TypeSize(TypeFloat4))
	assert.Equal(t, uint32(8), TypeSize(TypeShort4))
	assert.Equal(t, uint32(4), TypeSize(TypeHalf2))
	assert.Equal(t, uint32(4), TypeSize(TypeUByte4Norm))
	assert.Equal(t, uint32(16), TypeSize(TypeUInt4))
	assert.Equal(t, uint32(0), TypeSize(ElementType(-1)))
}

func TestDeclarationStride(t *testing.T) {
	decl := Declaration{
		{
			{Semantic: SemanticPosition, Type: TypeFloat3},
			{Semantic: SemanticNormal, Type: TypeFloat3},
			{Semantic: SemanticTextureCoordinates, Type: TypeFloat2},
		},
	}

	var stride uint32
	for _, el := range decl[0] {
		stride += TypeSize(el.Type)
	}
	assert.Equal(t, uint32(32), stride)
}
