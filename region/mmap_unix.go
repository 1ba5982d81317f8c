//go:build linux || darwin

package region

import (
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/joshuapare/heapkit/internal/format"
)

// Mmap is a region backed by one anonymous mapping reserved at creation.
// The base address never moves; Grow only advances the break.
type Mmap struct {
	mem []byte // whole reservation
	brk int
}

// NewMmap reserves limit bytes (rounded up to a page) of anonymous memory.
// A non-positive limit selects DefaultLimit.
func NewMmap(limit int) (*Mmap, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	limit = format.AlignPage(limit)

	mem, err := unix.Mmap(-1, 0, limit, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, fmt.Errorf("region: mmap reserve %d bytes: %w", limit, err)
	}
	return &Mmap{mem: mem}, nil
}

func (m *Mmap) Bytes() []byte { return m.mem[:m.brk:m.brk] }

func (m *Mmap) Len() int { return m.brk }

// Limit returns the size of the reservation.
func (m *Mmap) Limit() int { return len(m.mem) }

func (m *Mmap) Grow(n int) (int, error) {
	if m.mem == nil {
		return 0, ErrClosed
	}
	if err := checkGrow(m.brk, n, len(m.mem)); err != nil {
		return 0, err
	}
	old := m.brk
	m.brk += n
	return old, nil
}

func (m *Mmap) Close() error {
	if m.mem == nil {
		return nil
	}
	err := unix.Munmap(m.mem)
	m.mem = nil
	m.brk = 0
	return err
}
