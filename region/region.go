package region

import (
	"fmt"

	"github.com/joshuapare/heapkit/internal/format"
)

// DefaultLimit is the default maximum region size (20 MiB).
const DefaultLimit = 20 << 20

// Region is a growable, never-shrinking run of bytes.
type Region interface {
	// Bytes returns the current contents. len(Bytes()) == Len().
	// The slice is invalidated by the next Grow.
	Bytes() []byte

	// Len returns the current size in bytes.
	Len() int

	// Grow extends the region by n zeroed bytes and returns the previous
	// size, which is the offset of the first new byte. n must be a positive
	// multiple of 8. On failure the region is unchanged.
	Grow(n int) (int, error)

	// Close releases the region. The region must not be used afterwards.
	Close() error
}

// Syncer is implemented by regions that persist their bytes.
type Syncer interface {
	// Sync flushes the whole region.
	Sync() error

	// SyncRange flushes [off, off+n). Implementations may round the range
	// out to page boundaries.
	SyncRange(off, n int) error
}

// checkGrow validates a growth request against the current size and limit.
func checkGrow(cur, n, limit int) error {
	if n <= 0 || !format.IsAligned8(n) {
		return fmt.Errorf("%w: %d", ErrBadGrow, n)
	}
	if n > limit-cur {
		return fmt.Errorf("%w: size=%d grow=%d limit=%d", ErrExhausted, cur, n, limit)
	}
	return nil
}
