//go:build !linux && !darwin

package region

// Mmap falls back to a heap-backed region where anonymous mappings are not
// wired up.
type Mmap struct {
	Mem
}

// NewMmap returns a Mem-backed region with the given limit.
func NewMmap(limit int) (*Mmap, error) {
	return &Mmap{Mem: *NewMem(limit)}, nil
}
