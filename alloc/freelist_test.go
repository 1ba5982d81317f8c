package alloc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPackUnpack(t *testing.T) {
	tag := pack(48, true)
	require.Equal(t, uint32(49), tag)

	size, allocated := unpack(tag)
	require.Equal(t, uint32(48), size)
	require.True(t, allocated)

	size, allocated = unpack(pack(4096, false))
	require.Equal(t, uint32(4096), size)
	require.False(t, allocated)

	// reserved low bits never leak into the size
	size, _ = unpack(48 | 0x6)
	require.Equal(t, uint32(48), size)
}

// threeFree leaves three free 32-byte blocks of the same class, separated by
// allocated blocks, and returns them in the order they were freed.
func threeFree(t *testing.T, a *Allocator) [3]uint32 {
	t.Helper()
	var ps [6]Ptr
	for i := range ps {
		ps[i] = mustAlloc(t, a, 24)
	}
	mustAlloc(t, a, 24) // keeps ps[5]'s neighbour allocated

	a.Free(ps[0])
	a.Free(ps[2])
	a.Free(ps[4])
	requireConsistent(t, a)
	return [3]uint32{uint32(ps[0]), uint32(ps[2]), uint32(ps[4])}
}

func TestInsert_LIFO(t *testing.T) {
	a := newTestAllocator(t)
	f := threeFree(t, a)

	idx := a.classes.index(32)
	require.Equal(t, []uint32{f[2], f[1], f[0]}, listOf(a, idx))
	require.Zero(t, a.predOf(f[2]))
	require.Equal(t, f[2], a.predOf(f[1]))
	require.Equal(t, f[1], a.predOf(f[0]))
	require.Zero(t, a.succOf(f[0]))
}

func TestRemove_Topologies(t *testing.T) {
	tests := []struct {
		name   string
		remove func(f [3]uint32) uint32
		want   func(f [3]uint32) []uint32
	}{
		{
			name:   "interior",
			remove: func(f [3]uint32) uint32 { return f[1] },
			want:   func(f [3]uint32) []uint32 { return []uint32{f[2], f[0]} },
		},
		{
			name:   "head with successor",
			remove: func(f [3]uint32) uint32 { return f[2] },
			want:   func(f [3]uint32) []uint32 { return []uint32{f[1], f[0]} },
		},
		{
			name:   "tail with predecessor",
			remove: func(f [3]uint32) uint32 { return f[0] },
			want:   func(f [3]uint32) []uint32 { return []uint32{f[2], f[1]} },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestAllocator(t)
			f := threeFree(t, a)
			idx := a.classes.index(32)

			a.remove(tt.remove(f))
			got := listOf(a, idx)
			require.Equal(t, tt.want(f), got)
			require.Zero(t, a.predOf(got[0]))
			require.Equal(t, got[0], a.predOf(got[1]))
			require.Zero(t, a.succOf(got[1]))

			a.insert(tt.remove(f))
			requireConsistent(t, a)
		})
	}

	t.Run("sole node", func(t *testing.T) {
		a := newTestAllocator(t)
		p := mustAlloc(t, a, 24)
		mustAlloc(t, a, 24)
		a.Free(p)
		idx := a.classes.index(32)
		require.Equal(t, []uint32{uint32(p)}, listOf(a, idx))

		a.remove(uint32(p))
		require.Zero(t, a.heads[idx])

		a.insert(uint32(p))
		requireConsistent(t, a)
	})
}

func TestCoalesce_FourCases(t *testing.T) {
	setup := func(t *testing.T) (*Allocator, Ptr, Ptr, Ptr) {
		a := newTestAllocator(t)
		x := mustAlloc(t, a, 24)
		y := mustAlloc(t, a, 24)
		z := mustAlloc(t, a, 24)
		mustAlloc(t, a, 24)
		requireConsistent(t, a)
		return a, x, y, z
	}

	t.Run("both neighbours allocated", func(t *testing.T) {
		a, _, y, _ := setup(t)
		a.Free(y)
		b, ok := blockAt(t, a, y)
		require.True(t, ok)
		require.False(t, b.Allocated)
		require.Equal(t, 32, b.Size)
		require.Zero(t, a.stats.CoalesceForward+a.stats.CoalesceBackward)
		requireConsistent(t, a)
	})

	t.Run("next free", func(t *testing.T) {
		a, _, y, z := setup(t)
		a.Free(z)
		a.Free(y)
		b, ok := blockAt(t, a, y)
		require.True(t, ok)
		require.False(t, b.Allocated)
		require.Equal(t, 64, b.Size)
		_, ok = blockAt(t, a, z)
		require.False(t, ok)
		require.Equal(t, 1, a.stats.CoalesceForward)
		requireConsistent(t, a)
	})

	t.Run("prev free", func(t *testing.T) {
		a, x, y, _ := setup(t)
		a.Free(x)
		a.Free(y)
		b, ok := blockAt(t, a, x)
		require.True(t, ok)
		require.Equal(t, 64, b.Size)
		require.Equal(t, 1, a.stats.CoalesceBackward)
		requireConsistent(t, a)
	})

	t.Run("both free", func(t *testing.T) {
		a, x, y, z := setup(t)
		a.Free(x)
		a.Free(z)
		a.Free(y)
		b, ok := blockAt(t, a, x)
		require.True(t, ok)
		require.False(t, b.Allocated)
		require.Equal(t, 96, b.Size)
		require.Equal(t, 1, a.stats.CoalesceForward)
		require.Equal(t, 1, a.stats.CoalesceBackward)
		require.Equal(t, []uint32{uint32(x)}, listOf(a, a.classes.index(96)))
		requireConsistent(t, a)
	})
}

func TestFindFit_FirstFitUpward(t *testing.T) {
	a := newTestAllocator(t)
	f := threeFree(t, a)

	// exact class, most recently freed first
	require.Equal(t, f[2], a.findFit(32))

	// smaller requests also land in the 32-byte class once lower ones are empty
	require.Equal(t, f[2], a.findFit(16))

	// nothing in the 32-byte class fits 40; the large trailing block does
	bp := a.findFit(40)
	require.NotZero(t, bp)
	require.GreaterOrEqual(t, a.blockSize(bp), uint32(40))
	require.NotContains(t, f, bp)

	require.Zero(t, a.findFit(1<<24))
}

func TestPlace_SplitSides(t *testing.T) {
	t.Run("small request takes the low end", func(t *testing.T) {
		a := newTestAllocator(t)
		p := mustAlloc(t, a, 8)
		require.Equal(t, Ptr(0x18), p)
		require.Equal(t, 8, a.UsableSize(p))

		rest, ok := blockAt(t, a, p+16)
		require.True(t, ok)
		require.False(t, rest.Allocated)
		require.Equal(t, 112, rest.Size)
		require.Equal(t, 1, a.stats.SplitLeft)
		requireConsistent(t, a)
	})

	t.Run("big request takes the high end", func(t *testing.T) {
		a := newTestAllocator(t)
		p := mustAlloc(t, a, 100)
		require.Equal(t, Ptr(0x18+16), p)
		require.Equal(t, 104, a.UsableSize(p))

		rest, ok := blockAt(t, a, 0x18)
		require.True(t, ok)
		require.False(t, rest.Allocated)
		require.Equal(t, 16, rest.Size)
		require.Equal(t, 1, a.stats.SplitRight)
		requireConsistent(t, a)
	})

	t.Run("small remainder is not split off", func(t *testing.T) {
		a := newTestAllocator(t)
		p := mustAlloc(t, a, 112)
		require.Equal(t, Ptr(0x18), p)
		require.Equal(t, 120, a.UsableSize(p))
		require.Zero(t, a.FreeBytes())
		require.Zero(t, a.stats.SplitLeft+a.stats.SplitRight)
		requireConsistent(t, a)
	})
}
