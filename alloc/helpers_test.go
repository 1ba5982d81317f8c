package alloc

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapkit/region"
)

// newTestAllocator creates an allocator over a fresh in-memory region.
func newTestAllocator(t testing.TB, opts ...Option) *Allocator {
	t.Helper()
	return newLimitedAllocator(t, region.DefaultLimit, opts...)
}

// newLimitedAllocator creates an allocator whose region refuses to grow past
// limit bytes.
func newLimitedAllocator(t testing.TB, limit int, opts ...Option) *Allocator {
	t.Helper()
	a, err := New(region.NewMem(limit), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

// requireConsistent fails the test if Check finds any violation.
func requireConsistent(t testing.TB, a *Allocator) {
	t.Helper()
	require.NoError(t, a.Check())
}

// mustAlloc allocates size bytes or fails the test.
func mustAlloc(t testing.TB, a *Allocator, size int) Ptr {
	t.Helper()
	p, err := a.Alloc(size)
	require.NoError(t, err)
	require.NotEqual(t, Null, p)
	return p
}

// blockAt returns the scanned block whose payload starts at p.
func blockAt(t testing.TB, a *Allocator, p Ptr) (Block, bool) {
	t.Helper()
	blocks, err := a.Blocks()
	require.NoError(t, err)
	for _, b := range blocks {
		if b.Off == p {
			return b, true
		}
	}
	return Block{}, false
}

// listOf returns the class list idx from head to tail.
func listOf(a *Allocator, idx int) []uint32 {
	var out []uint32
	for bp := a.heads[idx]; bp != 0; bp = a.succOf(bp) {
		out = append(out, bp)
	}
	return out
}

// fill writes a recognizable pattern derived from seed into p's payload.
func fill(a *Allocator, p Ptr, n int, seed byte) {
	b := a.Payload(p)
	for i := range n {
		b[i] = seed + byte(i)
	}
}

// requirePattern checks the pattern written by fill.
func requirePattern(t testing.TB, a *Allocator, p Ptr, n int, seed byte) {
	t.Helper()
	b := a.Payload(p)
	require.GreaterOrEqual(t, len(b), n)
	for i := range n {
		if b[i] != seed+byte(i) {
			t.Fatalf("payload %#x byte %d = %#x, want %#x", p, i, b[i], seed+byte(i))
		}
	}
}
