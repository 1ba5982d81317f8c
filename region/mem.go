package region

import "slices"

// Mem is a heap-backed region with a hard byte limit.
type Mem struct {
	data   []byte
	limit  int
	closed bool
}

// NewMem creates an empty region that refuses to grow past limit bytes.
// A non-positive limit selects DefaultLimit.
func NewMem(limit int) *Mem {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Mem{limit: limit}
}

func (m *Mem) Bytes() []byte { return m.data }

func (m *Mem) Len() int { return len(m.data) }

// Limit returns the maximum size of the region.
func (m *Mem) Limit() int { return m.limit }

// Grow appends n zero bytes. The backing array may move.
func (m *Mem) Grow(n int) (int, error) {
	if m.closed {
		return 0, ErrClosed
	}
	old := len(m.data)
	if err := checkGrow(old, n, m.limit); err != nil {
		return 0, err
	}
	m.data = slices.Grow(m.data, n)[:old+n]
	clear(m.data[old:])
	return old, nil
}

func (m *Mem) Close() error {
	m.data = nil
	m.closed = true
	return nil
}
