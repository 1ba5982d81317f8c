package alloc

import (
	"errors"
	"fmt"

	"github.com/joshuapare/heapkit/internal/format"
)

// maxCheckErrors bounds the number of violations Check reports.
const maxCheckErrors = 32

// Check walks the whole heap and every class list and reports every
// inconsistency it finds, joined into one error. Each violation wraps
// ErrCorrupt. It returns nil for a consistent heap.
//
// Checked:
//   - preamble, prologue and epilogue sentinels
//   - alignment and minimum size of every block
//   - header and footer agree
//   - no two physically adjacent free blocks
//   - every free block is on exactly the list of its class, and every list
//     node is a free block inside the heap
//   - pred/succ links are mutually consistent and acyclic
//
// Check is O(heap size) and meant for tests and debugging tools.
func (a *Allocator) Check() error {
	c := &checker{}

	data := a.r.Bytes()
	if err := format.CheckPreamble(data); err != nil {
		return fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	if tag := a.get(hdrp(format.PrologueOffset)); tag != pack(format.PrologueSize, true) {
		c.add("prologue header %#x", tag)
	}
	if tag := a.get(format.PrologueOffset); tag != pack(format.PrologueSize, true) {
		c.add("prologue footer %#x", tag)
	}

	free := make(map[uint32]bool)
	prevFree := false
	err := a.walk(func(b Block) error {
		bp := uint32(b.Off)
		if !format.IsAligned8(int(bp)) {
			c.add("block %d: payload not 8-aligned", bp)
		}
		if b.Size < minBlock || !format.IsAligned8(b.Size) {
			c.add("block %d: bad size %d", bp, b.Size)
			return nil
		}
		if hdr, ftr := a.get(hdrp(bp)), a.get(a.ftrp(bp)); hdr != ftr {
			c.add("block %d: header %#x != footer %#x", bp, hdr, ftr)
		}
		if !b.Allocated {
			if prevFree {
				c.add("block %d: adjacent free blocks not coalesced", bp)
			}
			free[bp] = false
		}
		prevFree = !b.Allocated
		return nil
	})
	if err != nil {
		c.errs = append(c.errs, err)
		return c.err()
	}

	for idx, head := range a.heads {
		if head != 0 && a.predOf(head) != 0 {
			c.add("class %d: head %d has pred %d", idx, head, a.predOf(head))
		}
		for bp := head; bp != 0; bp = a.succOf(bp) {
			listed, ok := free[bp]
			if !ok {
				c.add("class %d: node %d is not a free block", idx, bp)
				break
			}
			if listed {
				c.add("class %d: node %d listed twice or cycle", idx, bp)
				break
			}
			free[bp] = true
			if want := a.classes.index(a.blockSize(bp)); want != idx {
				c.add("class %d: node %d of size %d belongs in class %d", idx, bp, a.blockSize(bp), want)
			}
			if succ := a.succOf(bp); succ != 0 {
				if _, ok := free[succ]; ok && a.predOf(succ) != bp {
					c.add("class %d: node %d succ %d points back to %d", idx, bp, succ, a.predOf(succ))
				}
			}
		}
	}
	for bp, listed := range free {
		if !listed {
			c.add("block %d: free but on no list", bp)
		}
	}

	return c.err()
}

// Blocks returns every block between the prologue and the epilogue in
// address order.
func (a *Allocator) Blocks() ([]Block, error) {
	var out []Block
	err := a.walk(func(b Block) error {
		out = append(out, b)
		return nil
	})
	return out, err
}

// walk calls fn for every block in address order. It stops with an
// ErrCorrupt error when a tag would step outside the region or the epilogue
// is missing.
func (a *Allocator) walk(fn func(Block) error) error {
	end := uint32(a.r.Len())
	bp := uint32(format.PreambleSize)
	for {
		if uint64(bp) > uint64(end) {
			return fmt.Errorf("%w: block at %d past region end %d", ErrCorrupt, bp, end)
		}
		size, allocated := unpack(a.get(hdrp(bp)))
		if size == 0 {
			if !allocated {
				return fmt.Errorf("%w: epilogue at %d not allocated", ErrCorrupt, hdrp(bp))
			}
			if hdrp(bp) != end-wsize {
				return fmt.Errorf("%w: epilogue at %d, region ends at %d", ErrCorrupt, hdrp(bp), end)
			}
			return nil
		}
		if uint64(bp)+uint64(size) > uint64(end) || size < minBlock {
			return fmt.Errorf("%w: block at %d has size %d, region ends at %d", ErrCorrupt, bp, size, end)
		}
		if err := fn(Block{Off: Ptr(bp), Size: int(size), Allocated: allocated}); err != nil {
			return err
		}
		bp += size
	}
}

type checker struct {
	errs []error
}

func (c *checker) add(msg string, args ...any) {
	if len(c.errs) >= maxCheckErrors {
		return
	}
	c.errs = append(c.errs, fmt.Errorf("%w: "+msg, append([]any{ErrCorrupt}, args...)...))
}

func (c *checker) err() error {
	return errors.Join(c.errs...)
}
