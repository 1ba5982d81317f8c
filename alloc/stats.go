package alloc

// Stats holds allocator counters.
type Stats struct {
	AllocCalls    int // Alloc calls with size > 0, including Realloc fallbacks
	AllocFastPath int // Allocations served from the directory
	AllocSlowPath int // Allocations that grew the region first
	FreeCalls     int // Free calls with a non-null pointer

	ReallocCalls   int // Realloc calls that were neither alloc nor free
	ReallocInPlace int // Grows served by the following free block
	ReallocShrinks int // Shrinks that released a tail
	ReallocCopies  int // Grows that moved the payload

	GrowCalls int   // Region growth calls that succeeded
	GrowBytes int64 // Bytes added to the region

	SplitLeft        int // Placements that kept the allocation at the low end
	SplitRight       int // Placements that put the allocation at the high end
	CoalesceForward  int // Merges with the following block
	CoalesceBackward int // Merges with the preceding block

	LiveBlocks  int   // Allocated blocks
	LiveBytes   int64 // Bytes in allocated blocks, tags included
	LivePayload int64 // LiveBytes minus tags
	HeapSize    int   // Current region size
}

// Stats returns a snapshot of the counters.
func (a *Allocator) Stats() Stats {
	s := a.stats
	s.LivePayload = s.LiveBytes - int64(s.LiveBlocks*overhead)
	s.HeapSize = a.r.Len()
	return s
}

// FreeBytes returns the total size of all free blocks.
func (a *Allocator) FreeBytes() int {
	total := 0
	for _, head := range a.heads {
		for bp := head; bp != 0; bp = a.succOf(bp) {
			total += int(a.blockSize(bp))
		}
	}
	return total
}

// LargestFree returns the size of the largest free block, or 0.
func (a *Allocator) LargestFree() int {
	largest := uint32(0)
	for _, head := range a.heads {
		for bp := head; bp != 0; bp = a.succOf(bp) {
			largest = max(largest, a.blockSize(bp))
		}
	}
	return int(largest)
}

// ClassCounts returns the number of free blocks in each class list.
func (a *Allocator) ClassCounts() []int {
	counts := make([]int, len(a.heads))
	for i, head := range a.heads {
		for bp := head; bp != 0; bp = a.succOf(bp) {
			counts[i]++
		}
	}
	return counts
}
