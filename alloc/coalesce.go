package alloc

// coalesce merges the free block bp with whichever physical neighbours are
// free, files the result in its class list and returns its payload offset.
// bp's tags must already read free, and bp must not be on any list.
func (a *Allocator) coalesce(bp uint32) uint32 {
	prev := a.prevBlock(bp)
	next := a.nextBlock(bp)
	prevAlloc := a.prevAllocated(bp)
	nextAlloc := a.isAllocated(next)
	size := a.blockSize(bp)

	switch {
	case prevAlloc && nextAlloc:
		// nothing to merge

	case prevAlloc && !nextAlloc:
		a.remove(next)
		size += a.blockSize(next)
		a.setTags(bp, size, false)
		a.stats.CoalesceForward++

	case !prevAlloc && nextAlloc:
		a.remove(prev)
		size += a.blockSize(prev)
		a.setTags(prev, size, false)
		bp = prev
		a.stats.CoalesceBackward++

	default:
		a.remove(next)
		a.remove(prev)
		size += a.blockSize(next) + a.blockSize(prev)
		a.setTags(prev, size, false)
		bp = prev
		a.stats.CoalesceForward++
		a.stats.CoalesceBackward++
	}

	a.insert(bp)
	return bp
}
