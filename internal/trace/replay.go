package trace

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/joshuapare/heapkit/alloc"
	"github.com/joshuapare/heapkit/internal/buf"
	"github.com/joshuapare/heapkit/internal/format"
	"github.com/joshuapare/heapkit/internal/logger"
	"github.com/joshuapare/heapkit/region"
)

// ReplayOptions controls Replay.
type ReplayOptions struct {
	// Config selects the allocator tuning. Zero value means alloc.DefaultConfig.
	Config alloc.Config

	// NewRegion creates the region to replay into. Default: an in-memory
	// region of region.DefaultLimit bytes.
	NewRegion func() (region.Region, error)

	// Check runs the allocator's consistency checker after every op.
	Check bool

	// Logger for per-trace progress. Default: logger.L.
	Logger *slog.Logger
}

// Result summarizes one replay.
type Result struct {
	Name        string        `json:"name"`
	Ops         int           `json:"ops"`
	Elapsed     time.Duration `json:"elapsed_ns"` // time spent inside allocator calls
	OpsPerSec   float64       `json:"ops_per_sec"`
	PeakPayload int           `json:"peak_payload"` // largest sum of live request sizes
	HeapSize    int           `json:"heap_size"`
	Utilization float64       `json:"utilization"` // PeakPayload / HeapSize
	Stats       alloc.Stats   `json:"stats"`
}

// Replay runs t against a fresh allocator and verifies every result.
func Replay(ctx context.Context, t *Trace, opts ReplayOptions) (Result, error) {
	newRegion := opts.NewRegion
	if newRegion == nil {
		newRegion = func() (region.Region, error) { return region.NewMem(region.DefaultLimit), nil }
	}
	r, err := newRegion()
	if err != nil {
		return Result{}, fmt.Errorf("trace: region: %w", err)
	}

	cfg := opts.Config
	if cfg.NumClasses == 0 {
		cfg = alloc.DefaultConfig
	}
	log := opts.Logger
	if log == nil {
		log = logger.L
	}

	a, err := alloc.New(r, alloc.WithConfig(cfg), alloc.WithLogger(log))
	if err != nil {
		_ = r.Close()
		return Result{}, err
	}
	defer a.Close()

	return Run(ctx, a, t, opts.Check)
}

type slot struct {
	p alloc.Ptr
	n int
}

// Run replays t against a, which may already hold other blocks. With check
// set, a.Check runs after every op.
//
// Every payload is filled with a pattern unique to its slot and verified
// before it is freed or resized and once more at the end. Any violation is
// returned as an error wrapping ErrCheck that names the failing op.
func Run(ctx context.Context, a *alloc.Allocator, t *Trace, check bool) (Result, error) {
	if err := t.Validate(); err != nil {
		return Result{}, err
	}

	res := Result{Name: t.Name}
	slots := make([]slot, t.NumIDs)
	cur := 0

	for i, op := range t.Ops {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		s := &slots[op.ID]
		switch op.Kind {
		case OpAlloc:
			start := time.Now()
			p, err := a.Alloc(op.Size)
			res.Elapsed += time.Since(start)
			if err != nil {
				return res, fmt.Errorf("op %d (%s %d %d): %w", i, op.Kind, op.ID, op.Size, err)
			}
			if err := verifyPlacement(a, slots, op.ID, p, op.Size); err != nil {
				return res, fmt.Errorf("%w: op %d (%s %d %d): %w", ErrCheck, i, op.Kind, op.ID, op.Size, err)
			}
			*s = slot{p: p, n: op.Size}
			fillPattern(a, op.ID, p, 0, op.Size)
			cur += op.Size

		case OpFree:
			if err := verifyPattern(a, op.ID, s.p, s.n); err != nil {
				return res, fmt.Errorf("%w: op %d (%s %d): %w", ErrCheck, i, op.Kind, op.ID, err)
			}
			start := time.Now()
			a.Free(s.p)
			res.Elapsed += time.Since(start)
			cur -= s.n
			*s = slot{}

		case OpRealloc:
			if err := verifyPattern(a, op.ID, s.p, s.n); err != nil {
				return res, fmt.Errorf("%w: op %d (%s %d %d): %w", ErrCheck, i, op.Kind, op.ID, op.Size, err)
			}
			start := time.Now()
			p, err := a.Realloc(s.p, op.Size)
			res.Elapsed += time.Since(start)
			if err != nil {
				return res, fmt.Errorf("op %d (%s %d %d): %w", i, op.Kind, op.ID, op.Size, err)
			}
			if err := verifyPlacement(a, slots, op.ID, p, op.Size); err != nil {
				return res, fmt.Errorf("%w: op %d (%s %d %d): %w", ErrCheck, i, op.Kind, op.ID, op.Size, err)
			}
			kept := min(s.n, op.Size)
			if err := verifyPattern(a, op.ID, p, kept); err != nil {
				return res, fmt.Errorf("%w: op %d (%s %d %d): content not preserved: %w", ErrCheck, i, op.Kind, op.ID, op.Size, err)
			}
			fillPattern(a, op.ID, p, kept, op.Size)
			cur += op.Size - s.n
			*s = slot{p: p, n: op.Size}
		}

		res.Ops++
		res.PeakPayload = max(res.PeakPayload, cur)

		if check {
			if err := a.Check(); err != nil {
				return res, fmt.Errorf("%w: after op %d (%s %d): %w", ErrCheck, i, op.Kind, op.ID, err)
			}
		}
	}

	for id, s := range slots {
		if err := verifyPattern(a, id, s.p, s.n); err != nil {
			return res, fmt.Errorf("%w: end of trace: %w", ErrCheck, err)
		}
	}

	res.Stats = a.Stats()
	res.HeapSize = res.Stats.HeapSize
	if res.HeapSize > 0 {
		res.Utilization = float64(res.PeakPayload) / float64(res.HeapSize)
	}
	if res.Elapsed > 0 {
		res.OpsPerSec = float64(res.Ops) / res.Elapsed.Seconds()
	}

	logger.L.Debug("trace replayed", logger.Trace(t.Name), slog.Int("ops", res.Ops),
		slog.Float64("util", res.Utilization), logger.Size(res.HeapSize))
	return res, nil
}

// verifyPlacement checks a fresh pointer for slot id: non-null when n > 0,
// 8-aligned, inside the heap and disjoint from every other live payload.
func verifyPlacement(a *alloc.Allocator, slots []slot, id int, p alloc.Ptr, n int) error {
	if n == 0 {
		if p != alloc.Null {
			return fmt.Errorf("zero-size request returned %#x", p)
		}
		return nil
	}
	if p == alloc.Null {
		return fmt.Errorf("null pointer for %d bytes", n)
	}
	if !format.IsAligned8(int(p)) {
		return fmt.Errorf("pointer %#x not 8-aligned", p)
	}
	if int(p) < format.PreambleSize || !buf.Has(a.Region().Bytes(), int(p), n) {
		return fmt.Errorf("payload [%#x, +%d) outside heap of %d bytes", p, n, a.Region().Len())
	}
	for other, s := range slots {
		if other == id || s.p == alloc.Null {
			continue
		}
		if buf.Overlaps(int(p), n, int(s.p), s.n) {
			return fmt.Errorf("payload [%#x, +%d) overlaps id %d at [%#x, +%d)", p, n, other, s.p, s.n)
		}
	}
	if a.UsableSize(p) < n {
		return fmt.Errorf("payload %#x has %d usable bytes, asked %d", p, a.UsableSize(p), n)
	}
	return nil
}

func patternByte(id, off int) byte {
	return byte(id*131+off) ^ byte(off>>8)
}

func fillPattern(a *alloc.Allocator, id int, p alloc.Ptr, from, to int) {
	if p == alloc.Null {
		return
	}
	b := a.Payload(p)
	for j := from; j < to; j++ {
		b[j] = patternByte(id, j)
	}
}

func verifyPattern(a *alloc.Allocator, id int, p alloc.Ptr, n int) error {
	if p == alloc.Null || n == 0 {
		return nil
	}
	b := a.Payload(p)
	if len(b) < n {
		return fmt.Errorf("id %d: payload %#x shorter than %d bytes", id, p, n)
	}
	for j := range n {
		if b[j] != patternByte(id, j) {
			return fmt.Errorf("id %d: payload %#x byte %d = %#x, want %#x", id, p, j, b[j], patternByte(id, j))
		}
	}
	return nil
}
