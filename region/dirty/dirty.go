package dirty

import (
	"context"
	"sort"

	"github.com/joshuapare/heapkit/internal/format"
	"github.com/joshuapare/heapkit/region"
)

// defaultRangeCapacity is the pre-allocated capacity for dirty ranges.
const defaultRangeCapacity = 64

// Range is a dirty byte range in region offsets.
type Range struct {
	Off int
	Len int
}

// Tracker accumulates dirty ranges and flushes them through a region.Syncer.
type Tracker struct {
	target   region.Syncer
	ranges   []Range
	pageSize int
}

var _ DirtyTracker = (*Tracker)(nil)

// NewTracker creates a tracker flushing through target.
func NewTracker(target region.Syncer) *Tracker {
	return &Tracker{
		target:   target,
		ranges:   make([]Range, 0, defaultRangeCapacity),
		pageSize: format.PageSize,
	}
}

// Add records a dirty range. Zero-length ranges are ignored.
func (t *Tracker) Add(off, length int) {
	if length <= 0 {
		return
	}
	t.ranges = append(t.ranges, Range{Off: off, Len: length})
}

// Len returns the number of raw ranges recorded since the last flush.
func (t *Tracker) Len() int { return len(t.ranges) }

// Flush syncs every coalesced range and clears the tracker.
//
// The context is checked between ranges; if it is cancelled some ranges may
// already have been flushed and the remaining ones stay recorded.
func (t *Tracker) Flush(ctx context.Context) error {
	if len(t.ranges) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	merged := t.coalesce()
	for i, r := range merged {
		if err := ctx.Err(); err != nil {
			t.ranges = append(t.ranges[:0], merged[i:]...)
			return err
		}
		if err := t.target.SyncRange(r.Off, r.Len); err != nil {
			t.ranges = append(t.ranges[:0], merged[i:]...)
			return err
		}
	}

	t.ranges = t.ranges[:0]
	return nil
}

// Reset clears all tracked ranges.
func (t *Tracker) Reset() {
	t.ranges = t.ranges[:0]
}

// Ranges returns a copy of the raw, uncoalesced ranges.
func (t *Tracker) Ranges() []Range {
	result := make([]Range, len(t.ranges))
	copy(result, t.ranges)
	return result
}

// Coalesced returns the page-aligned, sorted, merged ranges Flush would sync.
func (t *Tracker) Coalesced() []Range {
	return t.coalesce()
}

// coalesce page-aligns all ranges, sorts them, and merges overlapping or
// adjacent ones.
func (t *Tracker) coalesce() []Range {
	if len(t.ranges) == 0 {
		return nil
	}

	aligned := make([]Range, len(t.ranges))
	for i, r := range t.ranges {
		start := (r.Off / t.pageSize) * t.pageSize
		end := r.Off + r.Len
		if end%t.pageSize != 0 {
			end = (end/t.pageSize + 1) * t.pageSize
		}
		aligned[i] = Range{Off: start, Len: end - start}
	}

	sort.Slice(aligned, func(i, j int) bool {
		return aligned[i].Off < aligned[j].Off
	})

	merged := make([]Range, 0, len(aligned))
	current := aligned[0]
	for _, next := range aligned[1:] {
		if next.Off <= current.Off+current.Len {
			current.Len = max(current.Off+current.Len, next.Off+next.Len) - current.Off
			continue
		}
		merged = append(merged, current)
		current = next
	}
	return append(merged, current)
}
