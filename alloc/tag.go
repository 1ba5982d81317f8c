package alloc

import "github.com/joshuapare/heapkit/internal/format"

// Block layout, offsets relative to the payload offset bp:
//
//	bp-4          header  size | allocated
//	bp            payload (free blocks: pred link)
//	bp+4                  (free blocks: succ link)
//	bp+size-8     footer  size | allocated
//	bp+size       next block's payload
const (
	wsize    = format.WordSize
	dsize    = format.DoubleWordSize
	overhead = dsize
	minBlock = format.MinBlockSize
)

// pack combines a block size and its allocated flag into a tag word.
// size must already be 8-aligned.
func pack(size uint32, allocated bool) uint32 {
	if allocated {
		return size | format.AllocatedBit
	}
	return size
}

// unpack splits a tag word into size and allocated flag.
func unpack(tag uint32) (uint32, bool) {
	return tag &^ format.TagFlagMask, tag&format.AllocatedBit != 0
}

func hdrp(bp uint32) uint32 { return bp - wsize }

func (a *Allocator) ftrp(bp uint32) uint32 { return bp + a.blockSize(bp) - dsize }

func (a *Allocator) get(off uint32) uint32 {
	return format.ReadU32(a.r.Bytes(), int(off))
}

func (a *Allocator) put(off, v uint32) {
	format.PutU32(a.r.Bytes(), int(off), v)
	if a.dt != nil {
		a.dt.Add(int(off), wsize)
	}
}

func (a *Allocator) blockSize(bp uint32) uint32 {
	size, _ := unpack(a.get(hdrp(bp)))
	return size
}

func (a *Allocator) isAllocated(bp uint32) bool {
	_, allocated := unpack(a.get(hdrp(bp)))
	return allocated
}

// setTags writes matching header and footer words.
func (a *Allocator) setTags(bp, size uint32, allocated bool) {
	tag := pack(size, allocated)
	a.put(hdrp(bp), tag)
	a.put(bp+size-dsize, tag)
}

func (a *Allocator) nextBlock(bp uint32) uint32 { return bp + a.blockSize(bp) }

// prevBlock reads the previous block's footer, which ends right before bp's header.
func (a *Allocator) prevBlock(bp uint32) uint32 {
	size, _ := unpack(a.get(bp - dsize))
	return bp - size
}

// prevAllocated reports the allocated flag from the previous block's footer.
func (a *Allocator) prevAllocated(bp uint32) bool {
	_, allocated := unpack(a.get(bp - dsize))
	return allocated
}
