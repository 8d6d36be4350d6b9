package params

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogicalBufferAllocate(t *testing.T) {
	reg := NewRegistry()

	physical, size := reg.Float.Allocate(0, 4)
	assert.Equal(t, 0, physical)
	assert.Equal(t, 4, size)

	physical, size = reg.Float.Allocate(16, 16)
	assert.Equal(t, 4, physical)
	assert.Equal(t, 20, size)

	use, ok := reg.Float.Map[16]
	require.True(t, ok)
	assert.Equal(t, LogicalIndexUse{PhysicalIndex: 4, Size: 16}, use)

	// Categories keep independent running sizes.
	physical, _ = reg.Int.Allocate(0, 2)
	assert.Equal(t, 0, physical)
	assert.Equal(t, 20, reg.Float.Size())
	assert.Equal(t, 2, reg.Int.Size())
	assert.Equal(t, 0, reg.UInt.Size())
}

func TestLogicalBufferAllocateReuse(t *testing.T) {
	reg := NewRegistry()

	first, size := reg.Float.Allocate(16, 4)
	assert.Equal(t, 0, first)
	assert.Equal(t, 4, size)

	// The same logical offset at the same size keeps its placement, so
	// rebuilding a program's constants does not grow the shared buffer.
	again, size := reg.Float.Allocate(16, 4)
	assert.Equal(t, first, again)
	assert.Equal(t, 4, size)
	assert.Equal(t, 4, reg.Float.Size())

	// A size change is a different constant and appends fresh space.
	resized, size := reg.Float.Allocate(16, 8)
	assert.Equal(t, 4, resized)
	assert.Equal(t, 12, size)
}

func TestLogicalBufferAllocateConcurrent(t *testing.T) {
	reg := NewRegistry()

	const workers = 8
	const perWorker = 50

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				reg.Float.Allocate(w*perWorker+i, 1)
			}
		}(w)
	}
	wg.Wait()

	assert.Equal(t, workers*perWorker, reg.Float.Size())

	// Every placement is distinct: no two appends interleaved.
	seen := make(map[int]bool)
	for _, use := range reg.Float.Map {
		assert.False(t, seen[use.PhysicalIndex])
		seen[use.PhysicalIndex] = true
	}
	assert.Len(t, seen, workers*perWorker)
}

func TestValuesSizedFromRegistry(t *testing.T) {
	reg := NewRegistry()
	reg.Float.Allocate(0, 20)
	reg.Int.Allocate(0, 2)

	v := NewValues(reg)
	assert.Len(t, v.Float, 20)
	assert.Len(t, v.Int, 2)
	assert.Empty(t, v.UInt)
}

func TestValuesSetGrows(t *testing.T) {
	v := &Values{}

	v.SetFloat(2, 1.5, 2.5)
	require.Len(t, v.Float, 4)
	assert.Equal(t, []float32{0, 0, 1.5, 2.5}, v.Float)

	v.SetFloat(0, 9)
	assert.Equal(t, []float32{9, 0, 1.5, 2.5}, v.Float)

	v.SetInt(1, -3)
	assert.Equal(t, []int32{0, -3}, v.Int)

	v.SetUInt(0, 7, 8)
	assert.Equal(t, []uint32{7, 8}, v.UInt)
}

func TestConstantTypeCategories(t *testing.T) {
	assert.True(t, TypeFloat3.IsFloat())
	assert.True(t, TypeMatrix3x4.IsFloat())
	assert.True(t, TypeMatrix3x4.IsMatrix())
	assert.False(t, TypeInt2.IsFloat())
	assert.True(t, TypeUInt4.IsUnsignedInt())
	assert.False(t, TypeInt4.IsUnsignedInt())
	assert.True(t, TypeSamplerCube.IsSampler())
	assert.False(t, TypeFloat1.IsSampler())

	assert.Equal(t, 4, TypeFloat4.ElementSize())
	assert.Equal(t, 16, TypeMatrix4x4.ElementSize())
	assert.Equal(t, 1, TypeUnknown.ElementSize())
}

func TestGenerateArrayEntries(t *testing.T) {
	nc := NewNamedConstants()
	def := ConstantDefinition{
		Type:          TypeFloat4,
		ElementSize:   4,
		ArraySize:     3,
		LogicalIndex:  32,
		PhysicalIndex: 8,
	}
	nc.GenerateArrayEntries("weights", def)

	require.Len(t, nc.Map, 3)
	for i, want := range []struct{ physical, logical int }{
		{8, 32}, {12, 48}, {16, 64},
	} {
		entry, ok := nc.Map[fmt.Sprintf("weights[%d]", i)]
		require.True(t, ok)
		assert.Equal(t, 1, entry.ArraySize)
		assert.Equal(t, want.physical, entry.PhysicalIndex)
		assert.Equal(t, want.logical, entry.LogicalIndex)
	}
}
