package alloc

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/joshuapare/heapkit/internal/buf"
	"github.com/joshuapare/heapkit/internal/format"
	"github.com/joshuapare/heapkit/internal/logger"
	"github.com/joshuapare/heapkit/region"
	"github.com/joshuapare/heapkit/region/dirty"
)

// Allocator is a segregated free-list allocator over a single region.
//
// Not safe for concurrent use; callers that share one must serialize every
// call.
type Allocator struct {
	r   region.Region
	cfg Config
	dt  dirty.DirtyTracker
	log *slog.Logger

	classes classTable

	// heads is the free-list directory: the most recently freed block of
	// each class, or 0.
	heads []uint32

	stats Stats

	// Test hook: called after every successful region growth (nil in production)
	onGrow func(int)
}

// New initializes a heap in the empty region r: preamble, prologue and
// epilogue sentinels, then an initial free block of Config.InitChunk bytes.
func New(r region.Region, opts ...Option) (*Allocator, error) {
	a, err := newAllocator(r, opts)
	if err != nil {
		return nil, err
	}
	if r.Len() != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrNotEmpty, r.Len())
	}

	if _, err := r.Grow(format.PreambleSize); err != nil {
		return nil, fmt.Errorf("alloc: init: %w", err)
	}
	if err := format.WritePreamble(r.Bytes()); err != nil {
		return nil, fmt.Errorf("alloc: init: %w", err)
	}
	a.setTags(format.PrologueOffset, format.PrologueSize, true)
	a.put(hdrp(format.PreambleSize), pack(0, true))

	if a.cfg.InitChunk > 0 {
		if _, err := a.extendHeap(uint32(max(format.Align8(a.cfg.InitChunk), minBlock))); err != nil {
			return nil, fmt.Errorf("alloc: init: %w", err)
		}
	}
	return a, nil
}

// Open attaches to a heap previously built by New in r (typically a
// reopened file region) and rebuilds the free-list directory by scanning
// every block.
func Open(r region.Region, opts ...Option) (*Allocator, error) {
	a, err := newAllocator(r, opts)
	if err != nil {
		return nil, err
	}
	if err := format.CheckPreamble(r.Bytes()); err != nil {
		return nil, fmt.Errorf("alloc: open: %w", err)
	}
	if err := a.initializeFreeLists(); err != nil {
		return nil, err
	}
	return a, nil
}

func newAllocator(r region.Region, opts []Option) (*Allocator, error) {
	a := &Allocator{r: r, cfg: DefaultConfig}
	for _, opt := range opts {
		opt(a)
	}
	if err := a.cfg.Validate(); err != nil {
		return nil, err
	}
	if a.log == nil {
		a.log = logger.L
	}
	a.classes = newClassTable(a.cfg)
	a.heads = make([]uint32, a.cfg.NumClasses)
	return a, nil
}

// Config returns the tuning parameters in use.
func (a *Allocator) Config() Config { return a.cfg }

// Region returns the underlying region.
func (a *Allocator) Region() region.Region { return a.r }

// Close releases the region.
func (a *Allocator) Close() error {
	if a.r == nil {
		return nil
	}
	err := a.r.Close()
	a.r = nil
	a.heads = nil
	return err
}

// Alloc returns a block with at least size usable bytes. A zero size
// returns Null and no error. When no free block fits, the region grows by
// the larger of the request and Config.Chunk; if that fails the error wraps
// ErrNoSpace and no existing block is modified.
func (a *Allocator) Alloc(size int) (Ptr, error) {
	if size == 0 {
		return Null, nil
	}
	asize, err := adjustedSize(size)
	if err != nil {
		return Null, err
	}
	a.stats.AllocCalls++

	bp := a.findFit(asize)
	if bp == 0 {
		bp, err = a.growFor(asize)
		if err != nil {
			a.log.Debug("alloc failed", logger.Size(size), logger.Err(err))
			return Null, fmt.Errorf("%w: %w", ErrNoSpace, err)
		}
		a.stats.AllocSlowPath++
	} else {
		a.stats.AllocFastPath++
	}

	return Ptr(a.place(bp, asize)), nil
}

// Free returns p's block to the heap, merging it with free neighbours.
// Free(Null) does nothing. Freeing anything other than a live pointer from
// this allocator is undefined.
func (a *Allocator) Free(p Ptr) {
	if p == Null {
		return
	}
	a.stats.FreeCalls++

	bp := uint32(p)
	size := a.blockSize(bp)
	a.stats.LiveBlocks--
	a.stats.LiveBytes -= int64(size)
	a.setTags(bp, size, false)
	a.coalesce(bp)
}

// Realloc resizes p's block to hold at least size bytes and returns the
// (possibly moved) pointer. Realloc(Null, n) is Alloc(n); Realloc(p, 0)
// frees p and returns Null.
//
// Shrinking keeps p and releases the tail when it, together with any free
// block after it, makes a usable block. Growing first tries to absorb the
// following free block, extending the region when p's block or its free
// successor is last; only then does it allocate elsewhere, copy the old
// payload and free p. On error p is left untouched.
func (a *Allocator) Realloc(p Ptr, size int) (Ptr, error) {
	if p == Null {
		return a.Alloc(size)
	}
	if size == 0 {
		a.Free(p)
		return Null, nil
	}
	newsize, err := adjustedSize(size)
	if err != nil {
		return Null, err
	}
	a.stats.ReallocCalls++

	bp := uint32(p)
	oldsize := a.blockSize(bp)
	next := a.nextBlock(bp)
	remain := uint32(0)
	if !a.isAllocated(next) {
		remain = a.blockSize(next)
	}

	if newsize == oldsize {
		return p, nil
	}

	if newsize < oldsize {
		if oldsize-newsize+remain < minBlock {
			return p, nil
		}
		a.setTags(bp, newsize, true)
		tail := a.nextBlock(bp)
		a.setTags(tail, oldsize-newsize, false)
		a.coalesce(tail)
		a.stats.ReallocShrinks++
		a.stats.LiveBytes -= int64(oldsize - newsize)
		return p, nil
	}

	need := newsize - oldsize
	last := a.blockSize(next) == 0 || (remain > 0 && a.blockSize(a.nextBlock(next)) == 0)
	if remain < need && last {
		ext := max(need-remain, uint32(format.Align8(a.cfg.ReallocChunk)), minBlock)
		if _, err := a.extendHeap(ext); err != nil {
			a.log.Debug("realloc extend failed", logger.Offset(p), logger.Size(int(ext)), logger.Err(err))
		} else {
			remain = a.blockSize(a.nextBlock(bp))
		}
	}

	if remain >= need {
		next = a.nextBlock(bp)
		a.remove(next)
		total := oldsize + remain
		if total-newsize < minBlock {
			a.setTags(bp, total, true)
		} else {
			a.setTags(bp, newsize, true)
			tail := a.nextBlock(bp)
			a.setTags(tail, total-newsize, false)
			a.insert(tail)
			total = newsize
		}
		a.stats.ReallocInPlace++
		a.stats.LiveBytes += int64(total - oldsize)
		return p, nil
	}

	np, err := a.Alloc(size)
	if err != nil {
		return Null, err
	}
	data := a.r.Bytes()
	n := int(oldsize - overhead)
	copy(data[int(np):int(np)+n], data[int(bp):int(bp)+n])
	a.Free(p)
	a.stats.ReallocCopies++
	a.log.Debug("realloc moved", logger.Offset(p), logger.Offset(np), logger.Size(size))
	return np, nil
}

// Payload returns the usable bytes of p. The slice is invalidated by any
// call that grows the region.
func (a *Allocator) Payload(p Ptr) []byte {
	if p == Null {
		return nil
	}
	data := a.r.Bytes()
	if !buf.Has(data, int(p)-wsize, wsize) {
		return nil
	}
	b, _ := buf.Slice(data, int(p), int(a.blockSize(uint32(p)))-overhead)
	return b
}

// UsableSize returns the number of usable bytes in p's block.
func (a *Allocator) UsableSize(p Ptr) int {
	if p == Null {
		return 0
	}
	return int(a.blockSize(uint32(p))) - overhead
}

// adjustedSize converts a request into a block size: payload rounded up to
// 8 plus header and footer.
func adjustedSize(size int) (uint32, error) {
	if size < 0 {
		return 0, fmt.Errorf("%w: %d", ErrBadSize, size)
	}
	if int64(size) > format.MaxBlockSize-overhead {
		return 0, fmt.Errorf("%w: %d bytes", ErrTooLarge, size)
	}
	return uint32(format.Align8(size) + overhead), nil
}

// growFor extends the region so that a block of asize fits and returns that
// block. It asks for Config.Chunk at least; when the region cannot provide
// a full chunk it retries with only what the trailing free block lacks.
func (a *Allocator) growFor(asize uint32) (uint32, error) {
	ext := max(asize, uint32(format.Align8(a.cfg.Chunk)))
	bp, err := a.extendHeap(ext)
	if err == nil || !errors.Is(err, region.ErrExhausted) {
		return bp, err
	}

	short := asize - a.trailingFree()
	if short = max(short, minBlock); short >= ext {
		return 0, err
	}
	return a.extendHeap(short)
}

// trailingFree returns the size of the last block if it is free.
func (a *Allocator) trailingFree() uint32 {
	end := uint32(a.r.Len())
	size, allocated := unpack(a.get(end - dsize))
	if allocated {
		return 0
	}
	return size
}

// extendHeap grows the region by size bytes, turns the new space into a
// free block (its header replaces the old epilogue), writes a new epilogue
// and coalesces with a free block before it.
func (a *Allocator) extendHeap(size uint32) (uint32, error) {
	size = format.Align8U32(size)
	if uint64(a.r.Len())+uint64(size) > math.MaxUint32 {
		return 0, fmt.Errorf("%w: heap would exceed 4 GiB", ErrTooLarge)
	}

	top, err := a.r.Grow(int(size))
	if err != nil {
		return 0, err
	}
	a.stats.GrowCalls++
	a.stats.GrowBytes += int64(size)

	bp := uint32(top)
	a.setTags(bp, size, false)
	a.put(hdrp(a.nextBlock(bp)), pack(0, true))

	a.log.Debug("heap grown", logger.Size(int(size)), logger.Offset(bp), slog.Int("heap", a.r.Len()))
	if a.onGrow != nil {
		a.onGrow(int(size))
	}
	return a.coalesce(bp), nil
}

// initializeFreeLists rebuilds the directory from an existing heap by
// walking every block from the prologue to the epilogue.
func (a *Allocator) initializeFreeLists() error {
	if a.get(hdrp(format.PrologueOffset)) != pack(format.PrologueSize, true) {
		return fmt.Errorf("%w: bad prologue", ErrCorrupt)
	}
	return a.walk(func(b Block) error {
		if b.Allocated {
			a.stats.LiveBlocks++
			a.stats.LiveBytes += int64(b.Size)
			return nil
		}
		a.insert(uint32(b.Off))
		return nil
	})
}
