//go:build linux || darwin

package alloc

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapkit/region"
	"github.com/joshuapare/heapkit/region/dirty"
)

func TestOpen_ReattachesFileHeap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "heap.bin")

	r, err := region.CreateFile(path, 1<<20)
	require.NoError(t, err)
	dt := dirty.NewTracker(r)

	a, err := New(r, WithTracker(dt))
	require.NoError(t, err)

	var ptrs []Ptr
	for i, n := range []int{10, 200, 33, 5000, 64} {
		p := mustAlloc(t, a, n)
		fill(a, p, n, byte(i*16))
		ptrs = append(ptrs, p)
	}
	a.Free(ptrs[1])
	a.Free(ptrs[3])
	requireConsistent(t, a)

	wantBlocks, err := a.Blocks()
	require.NoError(t, err)
	wantCounts := a.ClassCounts()

	require.NotZero(t, dt.Len())
	require.NoError(t, dt.Flush(t.Context()))
	require.Zero(t, dt.Len())
	require.NoError(t, a.Close())

	r2, err := region.OpenFile(path, 1<<20)
	require.NoError(t, err)
	b, err := Open(r2)
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })

	requireConsistent(t, b)
	gotBlocks, err := b.Blocks()
	require.NoError(t, err)
	require.Equal(t, wantBlocks, gotBlocks)
	require.Equal(t, wantCounts, b.ClassCounts())

	requirePattern(t, b, ptrs[0], 10, 0)
	requirePattern(t, b, ptrs[2], 33, 32)
	requirePattern(t, b, ptrs[4], 64, 64)

	// the reopened heap keeps working, including growth
	p := mustAlloc(t, b, 20000)
	fill(b, p, 20000, 1)
	requireConsistent(t, b)
}

func TestOpen_RejectsForeignFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junk.bin")
	r, err := region.CreateFile(path, 0)
	require.NoError(t, err)
	_, err = r.Grow(64)
	require.NoError(t, err)
	copy(r.Bytes(), "not a heap")
	require.NoError(t, r.Close())

	r2, err := region.OpenFile(path, 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = r2.Close() })

	_, err = Open(r2)
	require.Error(t, err)
}
