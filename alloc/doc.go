// Package alloc implements a segregated free-list allocator over a growable
// byte region.
//
// # Overview
//
// The heap lives entirely inside a region.Region: a run of bytes that can
// only grow at its end. Every block carries a 4-byte boundary tag at each end
// (size | allocated bit), so both physical neighbours of any block can be
// found in O(1). Free blocks are threaded onto one of a fixed number of
// doubly linked lists chosen by size, and freeing merges a block with free
// neighbours immediately, so no two free blocks are ever adjacent.
//
// # Usage Example
//
//	r := region.NewMem(region.DefaultLimit)
//	a, err := alloc.New(r)
//	if err != nil {
//	    return err
//	}
//
//	p, err := a.Alloc(100)
//	if err != nil {
//	    return err
//	}
//	copy(a.Payload(p), data)
//
//	p, err = a.Realloc(p, 400)
//	if err != nil {
//	    return err
//	}
//	a.Free(p)
//
// # Region Layout
//
//	0x00  magic "SGHP"
//	0x04  version
//	0x08  padding
//	0x0C  prologue header  pack(8, 1)
//	0x10  prologue footer  pack(8, 1)
//	0x14  first block header
//	0x18  first payload
//	...
//	end-4 epilogue header  pack(0, 1)
//
// The prologue and epilogue are permanently allocated sentinels, so
// coalescing never needs a bounds check. Growing the region turns the old
// epilogue into the header of a new free block and writes a fresh epilogue
// after it.
//
// # Block Layout
//
//	bp-4        header   size | allocated
//	bp          payload  (free: pred offset)
//	bp+4                 (free: succ offset)
//	bp+size-8   footer   size | allocated
//
// Pointers handed out by the allocator (Ptr) are payload offsets relative
// to the region base, always 8-aligned. Links are 32-bit offsets, which caps
// the heap at 4 GiB and keeps the minimum block at 16 bytes.
//
// # Size Classes
//
// With the default Lab configuration (LinearBits 5, 16 classes):
//
//	Class 0:      16 bytes
//	Class 1:      24 bytes
//	Class 2:      32 bytes
//	Class 3:      40 -     64
//	Class 4:      72 -    128
//	...
//	Class 14:  65544 - 131072
//	Class 15: 131080+          (catch-all)
//
// Small blocks get one class per 8 bytes up to 1<<LinearBits, then one class
// per power of two. Allocator.Classes reports the exact ranges for any
// configuration.
//
// # Placement
//
// Alloc scans the request's own class first-fit, then every larger class.
// If the chosen block leaves at least 16 bytes over, it is split: requests
// above Config.BigSize take the high end and small ones the low end, which
// keeps small and large objects apart and helps later merges. A miss grows
// the region by max(request, Config.Chunk).
//
// # Persistence
//
// With a region.File and a dirty.Tracker passed through WithTracker, every
// tag and link write is recorded; Tracker.Flush then msyncs only the pages
// that changed. Open rebuilds the free lists of an existing file by a single
// scan.
//
// # Thread Safety
//
// An Allocator is NOT safe for concurrent use. Callers must serialize every
// method, including Payload, since growth can move the region.
//
// # Debugging
//
// Check verifies every structural property of the heap and returns all
// violations joined together. Dump prints the block sequence and the class
// lists. Set HEAPKIT_LOG_ALLOC=1 to log growth and realloc fallbacks at
// debug level.
package alloc
