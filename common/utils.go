package common

import "encoding/binary"

// Align rounds size up to the next multiple of alignment. An alignment of zero
// returns size unchanged.
//
// Parameters:
//   - size: the value to round up
//   - alignment: the required alignment in the same unit as size
//
// Returns:
//   - uint64: the smallest multiple of alignment that is >= size
func Align(size, alignment uint64) uint64 {
	if alignment == 0 {
		return size
	}
	return (size + alignment - 1) / alignment * alignment
}

// BytesToWords reinterprets a little-endian byte slice as a sequence of 32-bit words.
// Trailing bytes that do not fill a whole word are dropped.
//
// Parameters:
//   - data: the raw bytes, e.g. the contents of a .spv file
//
// Returns:
//   - []uint32: the decoded word sequence
func BytesToWords(data []byte) []uint32 {
	words := make([]uint32, len(data)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(data[i*4 : i*4+4])
	}
	return words
}

// WordsToBytes encodes a sequence of 32-bit words as little-endian bytes.
//
// Parameters:
//   - words: the word sequence, e.g. compiled SPIR-V
//
// Returns:
//   - []byte: the encoded bytes
func WordsToBytes(words []uint32) []byte {
	data := make([]byte, len(words)*4)
	for i, w := range words {
		binary.LittleEndian.PutUint32(data[i*4:i*4+4], w)
	}
	return data
}
