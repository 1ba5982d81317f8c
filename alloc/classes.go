package alloc

import (
	"fmt"
	"math/bits"

	"github.com/joshuapare/heapkit/internal/format"
)

// ClassRange is the inclusive range of block sizes mapped to one class.
type ClassRange struct {
	Index int
	Min   int
	Max   int
}

func (r ClassRange) String() string {
	return fmt.Sprintf("class %2d: %s", r.Index, r.span())
}

func (r ClassRange) span() string {
	switch {
	case r.Min == r.Max:
		return fmt.Sprint(r.Min)
	case r.Max == format.MaxBlockSize:
		return fmt.Sprintf("%d+", r.Min)
	default:
		return fmt.Sprintf("%d-%d", r.Min, r.Max)
	}
}

// classTable maps block sizes to directory slots.
type classTable struct {
	linearBits uint
	linearMax  int // number of linear classes
	numClasses int
}

func linearClasses(linearBits uint) int {
	return (1 << (linearBits - 3)) - 2
}

func newClassTable(c Config) classTable {
	return classTable{
		linearBits: c.LinearBits,
		linearMax:  linearClasses(c.LinearBits),
		numClasses: c.NumClasses,
	}
}

// index returns the class of a block of the given size. It is monotonic in
// size, which the fit finder's upward scan relies on.
func (t classTable) index(size uint32) int {
	if size < minBlock {
		return 0
	}
	if lin := int(size/dsize) - 2; lin < t.linearMax {
		return lin
	}
	idx := t.linearMax + bits.Len32((size-1)>>t.linearBits)
	return min(idx, t.numClasses-1)
}

// bounds returns the block size range of class i.
func (t classTable) bounds(i int) ClassRange {
	if i < t.linearMax {
		s := (i + 2) * dsize
		return ClassRange{Index: i, Min: s, Max: s}
	}
	k := i - t.linearMax
	lo := 1 << t.linearBits
	hi := lo
	if k > 0 {
		e := int(t.linearBits) + k
		if e > 32 {
			return ClassRange{Index: i, Min: format.MaxBlockSize, Max: format.MaxBlockSize}
		}
		lo = 1<<(e-1) + dsize
		hi = min(1<<e, format.MaxBlockSize)
	}
	if i == t.numClasses-1 {
		hi = format.MaxBlockSize
	}
	return ClassRange{Index: i, Min: lo, Max: hi}
}

// Classes returns the size range of every directory slot.
func (a *Allocator) Classes() []ClassRange {
	out := make([]ClassRange, a.classes.numClasses)
	for i := range out {
		out[i] = a.classes.bounds(i)
	}
	return out
}

// ClassOf returns the directory slot a free block of the given total size
// would be filed under.
func (a *Allocator) ClassOf(blockSize int) int {
	return a.classes.index(uint32(blockSize))
}
