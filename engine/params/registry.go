package params

import "sync"

// LogicalIndexUse records one constant's placement inside a physical parameter
// buffer: where it starts and how many words it occupies.
type LogicalIndexUse struct {
	// PhysicalIndex is the word offset of the constant inside the physical buffer.
	PhysicalIndex int

	// Size is the constant's total size in words (element size times array length).
	Size int
}

// LogicalBuffer is one category's shared logical-to-physical bookkeeping: a map from
// logical byte offsets to physical placements and the buffer's running size in words.
// Multiple programs may be compiled concurrently by the resource system, so the
// append-and-advance sequence is guarded by the buffer's mutex.
type LogicalBuffer struct {
	mu sync.Mutex

	// Map holds physical placements keyed by each constant's logical byte offset.
	Map map[int]LogicalIndexUse

	// BufferSize is the buffer's running size in words. The next appended constant's
	// physical offset equals this value before the append.
	BufferSize int
}

// Allocate reserves size words for the constant at the given logical offset. A
// logical offset already placed with the same size reuses its existing physical
// offset without growing the buffer, so recompiling unchanged source keeps
// identical placements. New or resized constants append at the end and advance
// the running size. The whole sequence holds the buffer's lock so concurrent
// compilations never interleave their appends.
//
// Parameters:
//   - logicalIndex: the constant's logical byte offset
//   - size: the constant's total size in words
//
// Returns:
//   - int: the constant's physical word offset (the buffer size before the append)
//   - int: the buffer's size in words after the append
func (b *LogicalBuffer) Allocate(logicalIndex, size int) (int, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if use, ok := b.Map[logicalIndex]; ok && use.Size == size {
		return use.PhysicalIndex, b.BufferSize
	}
	physical := b.BufferSize
	b.Map[logicalIndex] = LogicalIndexUse{PhysicalIndex: physical, Size: size}
	b.BufferSize += size
	return physical, b.BufferSize
}

// Size returns the buffer's current size in words under the lock.
//
// Returns:
//   - int: the running buffer size in words
func (b *LogicalBuffer) Size() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.BufferSize
}

// Registry is the explicit shared context for the three category-separated physical
// parameter buffers (float, unsigned-int, signed-int). One Registry is shared by every
// shader program compiled against the same parameter-management subsystem; it is
// passed by pointer rather than held as package state.
type Registry struct {
	// Float is the float-category buffer (float vectors and matrices).
	Float LogicalBuffer

	// UInt is the unsigned-int-category buffer.
	UInt LogicalBuffer

	// Int is the signed-int-category buffer (signed integer vectors, samplers, and
	// anything reflection could not classify).
	Int LogicalBuffer
}

// NewRegistry creates a Registry with all three buffers empty and initialized.
//
// Returns:
//   - *Registry: the new registry
func NewRegistry() *Registry {
	return &Registry{
		Float: LogicalBuffer{Map: make(map[int]LogicalIndexUse)},
		UInt:  LogicalBuffer{Map: make(map[int]LogicalIndexUse)},
		Int:   LogicalBuffer{Map: make(map[int]LogicalIndexUse)},
	}
}
