package alloc

import (
	"math/rand"
	"testing"

	"github.com/joshuapare/heapkit/region"
)

func newBenchAllocator(b *testing.B, cfg Config) *Allocator {
	b.Helper()
	a, err := New(region.NewMem(1<<30), WithConfig(cfg))
	if err != nil {
		b.Fatal(err)
	}
	b.Cleanup(func() { _ = a.Close() })
	return a
}

// Benchmark_AllocFree_Small measures the fast path: one class, LIFO reuse.
func Benchmark_AllocFree_Small(b *testing.B) {
	a := newBenchAllocator(b, ConfigLab)

	b.ResetTimer()
	b.ReportAllocs()

	for i := range b.N {
		p, err := a.Alloc(16 + (i%8)*8)
		if err != nil {
			b.Fatal(err)
		}
		a.Free(p)
	}
}

// Benchmark_Mixed runs a steady-state random workload per preset.
func Benchmark_Mixed(b *testing.B) {
	for _, cfg := range Presets() {
		b.Run(cfg.Name, func(b *testing.B) {
			a := newBenchAllocator(b, cfg)
			rng := rand.New(rand.NewSource(42))
			live := make([]Ptr, 0, 1024)

			b.ResetTimer()
			b.ReportAllocs()

			for range b.N {
				if len(live) < 1024 && (len(live) == 0 || rng.Intn(2) == 0) {
					p, err := a.Alloc(randomSize(rng))
					if err != nil {
						b.Fatal(err)
					}
					live = append(live, p)
					continue
				}
				i := rng.Intn(len(live))
				a.Free(live[i])
				live[i] = live[len(live)-1]
				live = live[:len(live)-1]
			}
		})
	}
}

// Benchmark_Realloc_Grow measures growing one block step by step.
func Benchmark_Realloc_Grow(b *testing.B) {
	a := newBenchAllocator(b, ConfigLab)

	b.ResetTimer()
	b.ReportAllocs()

	for range b.N {
		p, err := a.Alloc(8)
		if err != nil {
			b.Fatal(err)
		}
		for n := 16; n <= 2048; n *= 2 {
			if p, err = a.Realloc(p, n); err != nil {
				b.Fatal(err)
			}
		}
		a.Free(p)
	}
}

func Benchmark_Check(b *testing.B) {
	a := newBenchAllocator(b, ConfigLab)
	rng := rand.New(rand.NewSource(42))
	for i := range 2000 {
		p, err := a.Alloc(randomSize(rng))
		if err != nil {
			b.Fatal(err)
		}
		if i%2 == 0 {
			a.Free(p)
		}
	}

	b.ResetTimer()
	for range b.N {
		if err := a.Check(); err != nil {
			b.Fatal(err)
		}
	}
}
