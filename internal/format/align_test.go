package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAlignWord(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{0, 0},
		{1, 4},
		{3, 4},
		{4, 4},
		{5, 8},
		{17, 20},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, AlignWord(tt.in), "AlignWord(%d)", tt.in)
	}
}

func TestWordsFor(t *testing.T) {
	assert.Equal(t, 0, WordsFor(0))
	assert.Equal(t, 1, WordsFor(1))
	assert.Equal(t, 2, WordsFor(8))
	assert.Equal(t, 3, WordsFor(9))
	assert.Equal(t, 12, WordsToBytes(3))
	assert.Equal(t, 2, FloorWords(11))
}

func TestCheckWordAligned(t *testing.T) {
	assert.NoError(t, CheckWordAligned(8, 12))
	assert.ErrorIs(t, CheckWordAligned(2, 4), ErrUnaligned)
	assert.ErrorIs(t, CheckWordAligned(4, 3), ErrUnaligned)
}
