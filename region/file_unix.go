//go:build linux || darwin

package region

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"github.com/joshuapare/heapkit/internal/format"
)

// File is a region backed by a shared mapping of a regular file.
// Growth extends the file and remaps it, so the base address may change.
type File struct {
	f     *os.File
	data  []byte
	size  int
	limit int
}

// CreateFile creates (or truncates) path and returns an empty region backed
// by it. A non-positive limit selects DefaultLimit.
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

// OpenFile maps an existing heap file read-write so an allocator can be
// reattached to it.
func OpenFile(path string, limit int) (*File, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, err
	}

	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	sz := int(st.Size())
	if limit <= 0 {
		limit = DefaultLimit
	}
	if sz > limit {
		_ = f.Close()
		return nil, fmt.Errorf("%w: file is %d bytes, limit %d", ErrExhausted, sz, limit)
	}

	r := &File{f: f, size: sz, limit: limit}
	if sz > 0 {
		if r.data, err = mapShared(f, sz); err != nil {
			_ = f.Close()
			return nil, err
		}
	}
	return r, nil
}

func (r *File) Bytes() []byte { return r.data }

func (r *File) Len() int { return r.size }

// Limit returns the maximum size of the region.
func (r *File) Limit() int { return r.limit }

// Name returns the backing file path.
func (r *File) Name() string {
	if r.f == nil {
		return ""
	}
	return r.f.Name()
}

// Grow extends the file by n bytes and remaps the memory mapping.
// The new bytes are zero-initialized by the OS.
func (r *File) Grow(n int) (int, error) {
	if r.f == nil {
		return 0, ErrClosed
	}
	if err := checkGrow(r.size, n, r.limit); err != nil {
		return 0, err
	}

	old := r.size
	newSize := old + n

	if r.data != nil {
		if err := unix.Munmap(r.data); err != nil {
			return 0, fmt.Errorf("region: unmap before grow: %w", err)
		}
		r.data = nil
	}

	if err := r.f.Truncate(int64(newSize)); err != nil {
		r.data, _ = mapShared(r.f, old)
		return 0, fmt.Errorf("region: extend file: %w", err)
	}

	data, err := mapShared(r.f, newSize)
	if err != nil {
		// Put the file back the way it was.
		_ = r.f.Truncate(int64(old))
		r.data, _ = mapShared(r.f, old)
		return 0, fmt.Errorf("region: remap after grow: %w", err)
	}

	r.data = data
	r.size = newSize
	return old, nil
}

// Sync flushes the whole mapping to the file.
func (r *File) Sync() error {
	if r.data == nil {
		return nil
	}
	return unix.Msync(r.data, unix.MS_SYNC)
}

// SyncRange flushes the pages covering [off, off+n).
func (r *File) SyncRange(off, n int) error {
	if r.data == nil || n <= 0 {
		return nil
	}
	start := format.AlignPageDown(off)
	end := min(format.AlignPage(off+n), len(r.data))
	if start >= end {
		return nil
	}
	return unix.Msync(r.data[start:end], unix.MS_SYNC)
}

func (r *File) Close() error {
	var errs []error
	if r.data != nil {
		errs = append(errs, unix.Munmap(r.data))
		r.data = nil
	}
	if r.f != nil {
		errs = append(errs, r.f.Close())
		r.f = nil
	}
	return errors.Join(errs...)
}

func mapShared(f *os.File, size int) ([]byte, error) {
	if size == 0 {
		return nil, nil
	}
	data, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("mmap failed: %w", err)
	}
	return data, nil
}
