package format

// Alignment utilities for the word layout.

// AlignWord returns n aligned up to the next word boundary.
//
// Example:
//
//	AlignWord(1) = 4
//	AlignWord(4) = 4
//	AlignWord(5) = 8
func AlignWord(n int) int {
	return (n + WordAlignmentMask) & ^WordAlignmentMask
}

// WordsFor returns the number of words needed to hold n bytes (ceil(n/4)).
//
// Example:
//
//	WordsFor(0) = 0
//	WordsFor(1) = 1
//	WordsFor(8) = 2
//	WordsFor(9) = 3
func WordsFor(n int) int {
	return AlignWord(n) / WordSize
}

// WordsToBytes converts a word count or word index to a byte count or offset.
func WordsToBytes(words int) int {
	return words * WordSize
}

// FloorWords returns the number of whole words contained in n bytes.
func FloorWords(n int) int {
	return n / WordSize
}
