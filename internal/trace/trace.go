// Package trace reads, writes, generates and replays allocation traces.
//
// A trace is a text script of allocator requests against numbered slots:
//
//	# optional comments
//	20000        suggested heap size
//	2            number of ids
//	3            number of ops
//	1            weight
//	a 0 512      allocate 512 bytes into slot 0
//	r 0 1024     resize slot 0 to 1024 bytes
//	f 0          free slot 0
//
// Replay runs a trace against an allocator and verifies every result:
// alignment, bounds, overlap with other live blocks and payload contents.
package trace

import (
	"errors"
	"fmt"
)

// OpKind is the request type of one trace line.
type OpKind byte

const (
	OpAlloc   OpKind = 'a'
	OpFree    OpKind = 'f'
	OpRealloc OpKind = 'r'
)

func (k OpKind) String() string {
	switch k {
	case OpAlloc:
		return "alloc"
	case OpFree:
		return "free"
	case OpRealloc:
		return "realloc"
	default:
		return fmt.Sprintf("OpKind(%q)", byte(k))
	}
}

// Op is one request. Size is unused for OpFree.
type Op struct {
	Kind OpKind `json:"kind"`
	ID   int    `json:"id"`
	Size int    `json:"size,omitempty"`
}

// Trace is a parsed trace file.
type Trace struct {
	Name          string `json:"name"`
	SuggestedHeap int    `json:"suggested_heap"`
	NumIDs        int    `json:"num_ids"`
	Weight        int    `json:"weight"`
	Ops           []Op   `json:"ops"`
}

var (
	// ErrSyntax indicates a malformed trace file.
	ErrSyntax = errors.New("trace: syntax error")

	// ErrBadTrace indicates a well-formed trace with impossible requests,
	// such as freeing a slot that holds nothing.
	ErrBadTrace = errors.New("trace: invalid trace")

	// ErrCheck is wrapped by every correctness violation found during replay.
	ErrCheck = errors.New("trace: allocator check failed")
)

// Validate checks that every op refers to an id in range and that slots are
// used in order: allocated before being freed or resized, and not allocated
// twice without a free in between. Resizing an empty slot is allowed and
// behaves like an allocation.
func (t *Trace) Validate() error {
	live := make([]bool, t.NumIDs)
	for i, op := range t.Ops {
		if op.ID < 0 || op.ID >= t.NumIDs {
			return fmt.Errorf("%w: op %d: id %d out of range [0, %d)", ErrBadTrace, i, op.ID, t.NumIDs)
		}
		if op.Size < 0 {
			return fmt.Errorf("%w: op %d: negative size %d", ErrBadTrace, i, op.Size)
		}
		switch op.Kind {
		case OpAlloc:
			if live[op.ID] {
				return fmt.Errorf("%w: op %d: id %d allocated twice", ErrBadTrace, i, op.ID)
			}
			live[op.ID] = true
		case OpFree:
			if !live[op.ID] {
				return fmt.Errorf("%w: op %d: id %d freed while empty", ErrBadTrace, i, op.ID)
			}
			live[op.ID] = false
		case OpRealloc:
			live[op.ID] = op.Size > 0
		default:
			return fmt.Errorf("%w: op %d: unknown kind %q", ErrBadTrace, i, byte(op.Kind))
		}
	}
	return nil
}
