package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAlign(t *testing.T) {
	tests := []struct {
		size, alignment, want uint64
	}{
		{0, 256, 0},
		{1, 256, 256},
		{256, 256, 256},
		{257, 256, 512},
		{100, 16, 112},
		{100, 0, 100},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Align(tt.size, tt.alignment))
	}
}

func TestBytesToWords(t *testing.T) {
	words := BytesToWords([]byte{0x03, 0x02, 0x23, 0x07, 0x00, 0x01, 0x00, 0x00})
	assert.Equal(t, []uint32{0x07230203, 0x00000100}, words)

	// Trailing partial word is dropped.
	words = BytesToWords([]byte{1, 0, 0, 0, 0xFF, 0xFF})
	assert.Equal(t, []uint32{1}, words)

	assert.Empty(t, BytesToWords(nil))
}

func TestWordsToBytesRoundTrip(t *testing.T) {
	words := []uint32{0x07230203, 0x00010300, 0, 42, 0}
	assert.Equal(t, words, BytesToWords(WordsToBytes(words)))
}
