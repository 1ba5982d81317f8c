package alloc

// place carves an allocated block of asize bytes out of the free block bp
// and returns the allocated block's payload offset.
//
// A remainder smaller than the minimum block stays inside the allocation.
// Otherwise big requests take the right end of bp and small ones the left
// end, with the remainder filed as a new free block.
func (a *Allocator) place(bp, asize uint32) uint32 {
	size := a.blockSize(bp)
	remain := size - asize

	a.remove(bp)
	a.stats.LiveBlocks++

	switch {
	case remain < minBlock:
		a.setTags(bp, size, true)
		a.stats.LiveBytes += int64(size)
		return bp

	case asize > uint32(a.cfg.BigSize):
		a.setTags(bp, remain, false)
		next := a.nextBlock(bp)
		a.setTags(next, asize, true)
		a.insert(bp)
		a.stats.SplitRight++
		a.stats.LiveBytes += int64(asize)
		return next

	default:
		a.setTags(bp, asize, true)
		next := a.nextBlock(bp)
		a.setTags(next, remain, false)
		a.insert(next)
		a.stats.SplitLeft++
		a.stats.LiveBytes += int64(asize)
		return bp
	}
}
