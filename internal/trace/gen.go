package trace

import (
	"fmt"
	"math/rand"
)

// GenOptions controls Generate.
type GenOptions struct {
	Name    string
	Ops     int   // requests before the final frees
	IDs     int   // slot count
	MaxSize int   // largest request in bytes
	Seed    int64 // same seed, same trace

	// ReallocPct is the share of requests on a live slot that resize it
	// instead of freeing it, in percent.
	ReallocPct int
}

// DefaultGenOptions returns a small mixed workload.
func DefaultGenOptions() GenOptions {
	return GenOptions{
		Name:       "random",
		Ops:        2000,
		IDs:        200,
		MaxSize:    4096,
		Seed:       1,
		ReallocPct: 20,
	}
}

// Generate builds a random valid trace. Every slot still live after
// opts.Ops requests is freed at the end, so a replay finishes with an empty
// heap.
func Generate(opts GenOptions) (*Trace, error) {
	if opts.Ops < 0 || opts.IDs <= 0 || opts.MaxSize <= 0 {
		return nil, fmt.Errorf("%w: ops=%d ids=%d max-size=%d", ErrBadTrace, opts.Ops, opts.IDs, opts.MaxSize)
	}
	if opts.ReallocPct < 0 || opts.ReallocPct > 100 {
		return nil, fmt.Errorf("%w: realloc percentage %d", ErrBadTrace, opts.ReallocPct)
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	t := &Trace{Name: opts.Name, NumIDs: opts.IDs, Weight: 1}

	var free, live []int
	for id := opts.IDs - 1; id >= 0; id-- {
		free = append(free, id)
	}

	size := func() int {
		// mostly small objects with an occasional large one
		if rng.Intn(8) == 0 {
			return 1 + rng.Intn(opts.MaxSize)
		}
		return 1 + rng.Intn(min(opts.MaxSize, 128))
	}

	peak, cur := 0, 0
	sizes := make([]int, opts.IDs)
	for range opts.Ops {
		if len(live) > 0 && (len(free) == 0 || rng.Intn(2) == 0) {
			i := rng.Intn(len(live))
			id := live[i]
			if rng.Intn(100) < opts.ReallocPct {
				n := size()
				t.Ops = append(t.Ops, Op{Kind: OpRealloc, ID: id, Size: n})
				cur += n - sizes[id]
				sizes[id] = n
			} else {
				t.Ops = append(t.Ops, Op{Kind: OpFree, ID: id})
				cur -= sizes[id]
				live[i] = live[len(live)-1]
				live = live[:len(live)-1]
				free = append(free, id)
			}
		} else {
			id := free[len(free)-1]
			free = free[:len(free)-1]
			n := size()
			t.Ops = append(t.Ops, Op{Kind: OpAlloc, ID: id, Size: n})
			sizes[id] = n
			cur += n
			live = append(live, id)
		}
		peak = max(peak, cur)
	}
	for _, id := range live {
		t.Ops = append(t.Ops, Op{Kind: OpFree, ID: id})
	}

	t.SuggestedHeap = peak
	return t, nil
}
