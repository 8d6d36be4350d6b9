package params

// Values holds the CPU-side parameter value lists for the three physical buffers.
// Constants read their current values from here, at their physical word offsets, when
// a program fills a GPU upload buffer.
type Values struct {
	// Float holds the float-category constant values, one float32 per word.
	Float []float32

	// Int holds the signed-int-category constant values, one int32 per word.
	Int []int32

	// UInt holds the unsigned-int-category constant values, one uint32 per word.
	UInt []uint32
}

// NewValues creates value storage sized to the given registry's current buffer sizes.
//
// Parameters:
//   - reg: the shared registry whose buffer sizes determine the list lengths
//
// Returns:
//   - *Values: zero-filled value lists matching the registry
func NewValues(reg *Registry) *Values {
	return &Values{
		Float: make([]float32, reg.Float.Size()),
		Int:   make([]int32, reg.Int.Size()),
		UInt:  make([]uint32, reg.UInt.Size()),
	}
}

// SetFloat writes consecutive float values starting at a physical word offset,
// growing the float list if needed.
//
// Parameters:
//   - physicalIndex: the word offset to write at
//   - vals: the values to write
func (v *Values) SetFloat(physicalIndex int, vals ...float32) {
	v.Float = growTo(v.Float, physicalIndex+len(vals))
	copy(v.Float[physicalIndex:], vals)
}

// SetInt writes consecutive signed integer values starting at a physical word offset,
// growing the int list if needed.
//
// Parameters:
//   - physicalIndex: the word offset to write at
//   - vals: the values to write
func (v *Values) SetInt(physicalIndex int, vals ...int32) {
	v.Int = growTo(v.Int, physicalIndex+len(vals))
	copy(v.Int[physicalIndex:], vals)
}

// SetUInt writes consecutive unsigned integer values starting at a physical word
// offset, growing the uint list if needed.
//
// Parameters:
//   - physicalIndex: the word offset to write at
//   - vals: the values to write
func (v *Values) SetUInt(physicalIndex int, vals ...uint32) {
	v.UInt = growTo(v.UInt, physicalIndex+len(vals))
	copy(v.UInt[physicalIndex:], vals)
}

// growTo extends s with zero values until it holds at least n elements.
func growTo[T any](s []T, n int) []T {
	for len(s) < n {
		s = append(s, *new(T))
	}
	return s
}
