// Package format holds the word-level layout constants and little-endian
// helpers shared by the heap region and the allocator. Everything that
// touches raw heap bytes goes through here so the on-region layout is defined
// in one place.
package format

// Magic identifies a region initialized by the allocator.
// Layout (little-endian):
//
//	0x00  'S' 'G' 'H' 'P'
var Magic = []byte{'S', 'G', 'H', 'P'}

const (
	// WordSize is the size of a boundary tag and of a free-list link.
	WordSize = 4

	// DoubleWordSize is the per-block overhead (header + footer) and the
	// payload alignment.
	DoubleWordSize = 8

	// Alignment is the required alignment of block sizes and payload offsets.
	Alignment = 8

	// AlignmentMask is used for rounding to Alignment.
	AlignmentMask = Alignment - 1

	// TagFlagMask covers the low bits of a tag that never carry size.
	TagFlagMask = 0x7

	// AllocatedBit marks a block as in use.
	AllocatedBit = 0x1

	// MinBlockSize is header + footer + pred/succ links.
	MinBlockSize = 16

	// MaxBlockSize is the largest size a 32-bit tag can carry.
	MaxBlockSize = 0xFFFFFFF8

	// MagicOffset is where Magic lives in the preamble.
	MagicOffset = 0x00

	// VersionOffset stores the preamble format version.
	VersionOffset = 0x04

	// PrologueOffset is the payload offset of the prologue block.
	// Its header sits at 0x0C and its footer at 0x10.
	PrologueOffset = 0x10

	// PrologueSize is the block size of the prologue (header + footer only).
	PrologueSize = DoubleWordSize

	// PreambleSize covers magic, version, padding, prologue and the first
	// epilogue header. The first real block's header replaces the epilogue
	// at 0x14 so its payload lands on 0x18.
	PreambleSize = 0x18

	// Version is the current preamble format version.
	Version = 1

	// PageSize is the page granularity used when flushing mapped regions.
	PageSize = 4096
)
