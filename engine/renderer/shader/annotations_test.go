package shader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescBindingRangeMerge(t *testing.T) {
	r := NewDescBindingRange()
	assert.False(t, r.IsInUse())
	assert.Equal(t, uint16(0), r.Count())

	r.Merge(3)
	assert.True(t, r.IsInUse())
	assert.Equal(t, uint16(3), r.Start)
	assert.Equal(t, uint16(4), r.End)
	assert.Equal(t, uint16(1), r.Count())

	r.Merge(0)
	assert.Equal(t, uint16(0), r.Start)
	assert.Equal(t, uint16(4), r.End)
	assert.Equal(t, uint16(4), r.Count())

	r.Merge(7)
	assert.Equal(t, uint16(8), r.End)
}

func TestParseBindingRanges(t *testing.T) {
	source := `#version 450
layout( std140, ogre_set0, ogre_B0 ) uniform GlobalUniform { vec4 a; } globalUniform;
layout( ogre_set0, ogre_T0 ) uniform samplerBuffer texelBuffer;
layout( ogre_set0, ogre_t0 ) uniform sampler2D myTexture0;
layout( ogre_set0, ogre_t1 ) uniform sampler2D myTexture1;
layout( ogre_set0, ogre_u0 ) uniform image2D myImage0;
layout( std430, ogre_set0, ogre_U0 ) buffer MySsbo { float data[]; };
layout( ogre_set1, ogre_t2 ) uniform sampler2D anotherTex;
layout( ogre_set0, ogre_s0 ) uniform sampler mySampler;
void main() {}
`
	table, err := parseBindingRanges("test", source)
	require.NoError(t, err)

	assert.Equal(t, DescBindingRange{Start: 0, End: 1}, table[0][BindingTypeUniformBuffer])
	assert.Equal(t, DescBindingRange{Start: 0, End: 1}, table[0][BindingTypeUniformTexelBuffer])
	assert.Equal(t, DescBindingRange{Start: 0, End: 2}, table[0][BindingTypeTexture])
	assert.Equal(t, DescBindingRange{Start: 0, End: 1}, table[0][BindingTypeStorageTexelBuffer])
	assert.Equal(t, DescBindingRange{Start: 0, End: 1}, table[0][BindingTypeStorageBuffer])
	assert.Equal(t, DescBindingRange{Start: 0, End: 1}, table[0][BindingTypeSampler])
	assert.Equal(t, DescBindingRange{Start: 2, End: 3}, table[1][BindingTypeTexture])

	assert.False(t, table[2][BindingTypeTexture].IsInUse())
	assert.False(t, table[3][BindingTypeUniformBuffer].IsInUse())
}

func TestParseBindingRangesGaps(t *testing.T) {
	source := `layout( ogre_set0, ogre_t0 ) uniform sampler2D a;
layout( ogre_set0, ogre_t4 ) uniform sampler2D b;
`
	table, err := parseBindingRanges("test", source)
	require.NoError(t, err)
	assert.Equal(t, DescBindingRange{Start: 0, End: 5}, table[0][BindingTypeTexture])
	assert.Equal(t, uint16(5), table[0][BindingTypeTexture].Count())
}

func TestParseBindingRangesOnePairPerLine(t *testing.T) {
	// The search restarts after each annotation's line, so a second type tag
	// on the same line is ignored.
	source := "layout( ogre_set0, ogre_t0 ) uniform sampler2D a; // ogre_t9\n"
	table, err := parseBindingRanges("test", source)
	require.NoError(t, err)
	assert.Equal(t, DescBindingRange{Start: 0, End: 1}, table[0][BindingTypeTexture])
}

func TestParseBindingRangesErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{
			name:   "set out of range",
			source: "layout( ogre_set8, ogre_t0 ) uniform sampler2D a;\n",
		},
		{
			name:   "negative set",
			source: "layout( ogre_set-1, ogre_t0 ) uniform sampler2D a;\n",
		},
		{
			name:   "missing terminator",
			source: "layout( ogre_set0 uniform sampler2D a;",
		},
		{
			name:   "terminator on next line",
			source: "layout( ogre_set0\n, ogre_t0 ) uniform sampler2D a;\n",
		},
		{
			name:   "missing type tag",
			source: "layout( ogre_set0, binding = 0 ) uniform sampler2D a;\n",
		},
		{
			name:   "unknown type letter",
			source: "layout( ogre_set0, ogre_q0 ) uniform sampler2D a;\n",
		},
		{
			name:   "slot out of range",
			source: "layout( ogre_set0, ogre_t65535 ) uniform sampler2D a;\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseBindingRanges("test", tt.source)
			assert.Error(t, err)
		})
	}
}

func TestParseBindingRangesEmptySource(t *testing.T) {
	table, err := parseBindingRanges("test", "void main() {}\n")
	require.NoError(t, err)
	for set := range table {
		for _, r := range table[set] {
			assert.False(t, r.IsInUse())
		}
	}
}
