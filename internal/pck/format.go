// Package pck implements the binary pack container: a header, a path-sorted
// directory, and concatenated file bodies with alignment padding and optional
// AES encryption at the file and directory level.
//
// All integers are little-endian. Layout:
//
//	offset  field
//	0       magic (4)
//	4       format version (4)
//	8       engine major/minor/patch (4 each)
//	20      flags (4), bit 0 = directory encrypted
//	24      body base offset (8)
//	32      reserved (16 x 4, zero)
//	96      entry count (4)
//	100     directory entries (variable)
//	...     random padding up to a 16-byte boundary
//	base    file bodies, each padded to a 16-byte boundary
//
// When embedded in a host binary the pack is followed by a trailer of an
// 8-byte total pack size and the 4-byte magic, positioned so the end of the
// trailer is 8-byte aligned relative to the embed start.
//
// Encrypted regions are stored as a 16-byte random IV followed by the
// AES-256-CTR ciphertext; ciphertext length equals plaintext length, so
// recorded entry sizes stay byte-accurate to the plaintext.
package pck

// Magic identifies a pack container ("FPCK" in little-endian byte order).
const Magic uint32 = 0x4b435046

// FormatVersion is the container format revision this package writes.
const FormatVersion uint32 = 2

// BodyAlign is the alignment of file bodies and of the body base offset.
const BodyAlign = 16

// EmbedAlign is the alignment of the embedded region within a host binary.
const EmbedAlign = 8

const (
	// flagDirEncrypted marks a pack whose directory region is encrypted.
	flagDirEncrypted uint32 = 1 << 0

	// EntryFlagEncrypted marks a directory entry whose body is encrypted.
	EntryFlagEncrypted uint32 = 1 << 0
)

const (
	headerReservedWords = 16
	trailerSize         = 12 // 8-byte size + 4-byte magic
)

// Version is the engine version recorded in the pack header.
type Version struct {
	Major uint32
	Minor uint32
	Patch uint32
}

// Entry describes one file in the pack directory.
type Entry struct {
	// Path is the virtual path of the file, UTF-8.
	Path string

	// Offset is the byte offset of the file body within the body region.
	Offset uint64

	// Size is the exact plaintext content length. Encryption and padding
	// change the on-disk footprint, never the recorded logical size.
	Size uint64

	// Hash is the MD5 digest of the plaintext content.
	Hash [16]byte

	// Encrypted reports whether the body is stored encrypted.
	Encrypted bool
}

// pad returns the number of padding bytes needed to lift n to the next
// multiple of align, zero when already aligned.
func pad(align, n uint64) uint64 {
	rem := n % align
	if rem == 0 {
		return 0
	}
	return align - rem
}
