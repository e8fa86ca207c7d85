package format

import "hash/crc32"

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

const (
	// checksumZero is what a zero-filled medium holds in a checksum word.
	checksumZero uint32 = 0x00000000
	// checksumErased is what an erased flash sector holds in a checksum word.
	checksumErased uint32 = 0xFFFFFFFF
)

// Checksum computes the integrity word for a region.
//
// The CRC-32C covers a 12-byte little-endian header {typeTag, offset,
// lengthWords} followed by the payload words, so the same bytes stored under
// a different type or at a different offset do not verify.
//
// The two values a blank medium contains (all zeros, all ones) are never
// returned: 0x00000000 becomes 0x00000001 and 0xFFFFFFFF becomes 0xFFFFFFFE.
// A region that was never written therefore always fails verification,
// whatever its payload decodes to.
func Checksum(typeTag uint32, offset, lengthWords int, payload []byte) uint32 {
	var hdr [ChecksumHeaderSize]byte
	PutU32(hdr[:], 0, typeTag)
	PutU32(hdr[:], 4, uint32(offset))
	PutU32(hdr[:], 8, uint32(lengthWords))

	crc := crc32.Update(0, castagnoli, hdr[:])
	crc = crc32.Update(crc, castagnoli, payload)

	switch crc {
	case checksumZero:
		return checksumZero + 1
	case checksumErased:
		return checksumErased - 1
	}
	return crc
}

// CRC32C returns the Castagnoli CRC of b. Used for whole-image trailers.
func CRC32C(b []byte) uint32 {
	return crc32.Checksum(b, castagnoli)
}
