//go:build !linux && !darwin

package region

import (
	"errors"
	"fmt"
	"os"
	"slices"
)

// File keeps the heap in memory and writes it through to a file on Sync.
type File struct {
	f     *os.File
	data  []byte
	limit int
}

// CreateFile creates (or truncates) path and returns an empty region backed by it.
func CreateFile(path string, limit int) (*File, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &File{f: f, limit: limit}, nil
}

// OpenFile reads an existing heap file so an allocator can be reattached to it.
func OpenFile(path string, limit int) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if len(data) > limit {
		return nil, fmt.Errorf("%w: file is %d bytes, limit %d", ErrExhausted, len(data), limit)
	}
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, err
	}
	return &File{f: f, data: data, limit: limit}, nil
}

func (r *File) Bytes() []byte { return r.data }

func (r *File) Len() int { return len(r.data) }

// Limit returns the maximum size of the region.
func (r *File) Limit() int { return r.limit }

// Name returns the backing file path.
func (r *File) Name() string {
	if r.f == nil {
		return ""
	}
	return r.f.Name()
}

func (r *File) Grow(n int) (int, error) {
	if r.f == nil {
		return 0, ErrClosed
	}
	old := len(r.data)
	if err := checkGrow(old, n, r.limit); err != nil {
		return 0, err
	}
	if err := r.f.Truncate(int64(old + n)); err != nil {
		return 0, fmt.Errorf("region: extend file: %w", err)
	}
	r.data = slices.Grow(r.data, n)[:old+n]
	clear(r.data[old:])
	return old, nil
}

func (r *File) Sync() error {
	return r.SyncRange(0, len(r.data))
}

func (r *File) SyncRange(off, n int) error {
	if r.f == nil || n <= 0 {
		return nil
	}
	end := min(off+n, len(r.data))
	if off >= end {
		return nil
	}
	_, err := r.f.WriteAt(r.data[off:end], int64(off))
	return err
}

func (r *File) Close() error {
	if r.f == nil {
		return nil
	}
	err := r.Sync()
	err = errors.Join(err, r.f.Close())
	r.f = nil
	r.data = nil
	return err
}
