package alloc

// Ptr is a payload offset relative to the region base. Payload offsets are
// always multiples of 8; offset 0 lies in the preamble and is never a
// payload.
type Ptr uint32

// Null is the absent pointer.
const Null Ptr = 0

// Block describes one block found by a heap scan.
type Block struct {
	Off       Ptr // payload offset
	Size      int // total block size including header and footer
	Allocated bool
}

// Usable returns the payload bytes of the block.
func (b Block) Usable() int { return b.Size - overhead }
