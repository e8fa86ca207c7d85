// Package format houses the low-level word layout shared by the preference
// store and its media. Everything persisted is a flat sequence of
// little-endian 4-byte words; a region is its payload words followed by one
// checksum word. There is no self-describing header on the medium.
package format

const (
	// WordSize is the size of one storage word in bytes.
	WordSize = 4

	// WordAlignmentMask is used to round byte counts up to whole words.
	WordAlignmentMask = WordSize - 1

	// ChecksumWords is the number of trailing words a region reserves for its checksum.
	ChecksumWords = 1

	// ChecksumHeaderSize is the size of the {type, offset, length} prefix
	// folded into every region checksum.
	ChecksumHeaderSize = 3 * WordSize
)

// RTC user memory layout (battery-backed RAM).
//
//	0x000  eboot parameters (first 32 words, read by the update bootloader)
//	0x080  general purpose words
const (
	// RTCUserWords is the number of user words in battery-backed RAM.
	RTCUserWords = 128

	// RTCProtectedWords is the number of leading RTC words the update
	// bootloader reads while applying new firmware.
	RTCProtectedWords = 32
)

const (
	// ErasedByte is the value of every byte of an erased flash sector.
	ErasedByte = 0xFF

	// FlashSectorSize is the size of one emulated flash sector.
	FlashSectorSize = 4096
)
