// Package region provides the growable byte ranges a heap lives in.
//
// # Overview
//
// A Region is one contiguous run of bytes that only ever grows at its end,
// the way sbrk grows a process break. The allocator in package alloc calls
// Grow when it runs out of free blocks and addresses everything else by
// offset from the region base, so an implementation is free to move its
// bytes on growth.
//
// # Implementations
//
// Mem: a Go byte slice with a hard limit. Growth may relocate the slice.
//
// Mmap: a single anonymous mapping reserved up front (linux, darwin). Growth
// moves a break pointer inside the reservation so the base never moves.
//
// File: a shared file mapping (linux, darwin). Growth extends the file and
// remaps it; Sync and SyncRange flush with msync. Other platforms get a
// buffered implementation that writes through on Sync.
//
// # Usage
//
//	r := region.NewMem(20 << 20)
//	top, err := r.Grow(4096)
//	if err != nil {
//	    return err
//	}
//	b := r.Bytes()[top:]
//
// Slices returned by Bytes are invalidated by the next Grow.
//
// # Thread Safety
//
// Regions are not safe for concurrent use.
package region
