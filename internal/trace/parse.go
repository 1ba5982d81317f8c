package trace

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joshuapare/heapkit/internal/mmfile"
)

// Parse reads a trace. Blank lines and lines starting with '#' are
// skipped. The op count in the header must match the ops that follow.
func Parse(r io.Reader) (*Trace, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)

	var (
		t      Trace
		header [4]int
		nhdr   int
		numOps int
		lineNo int
	)

	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || line[0] == '#' {
			continue
		}

		if nhdr < len(header) {
			v, err := strconv.Atoi(line)
			if err != nil || v < 0 {
				return nil, fmt.Errorf("%w: line %d: header value %q", ErrSyntax, lineNo, line)
			}
			header[nhdr] = v
			nhdr++
			if nhdr == len(header) {
				t.SuggestedHeap, t.NumIDs, numOps, t.Weight = header[0], header[1], header[2], header[3]
				t.Ops = make([]Op, 0, min(numOps, 1<<20))
			}
			continue
		}

		op, err := parseOp(line)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrSyntax, lineNo, err)
		}
		t.Ops = append(t.Ops, op)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("trace: read: %w", err)
	}

	if nhdr < len(header) {
		return nil, fmt.Errorf("%w: header has %d of 4 values", ErrSyntax, nhdr)
	}
	if len(t.Ops) != numOps {
		return nil, fmt.Errorf("%w: header declares %d ops, found %d", ErrSyntax, numOps, len(t.Ops))
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

func parseOp(line string) (Op, error) {
	fields := strings.Fields(line)
	if len(fields[0]) != 1 {
		return Op{}, fmt.Errorf("unknown op %q", fields[0])
	}

	op := Op{Kind: OpKind(fields[0][0])}
	want := 3
	switch op.Kind {
	case OpAlloc, OpRealloc:
	case OpFree:
		want = 2
	default:
		return Op{}, fmt.Errorf("unknown op %q", fields[0])
	}
	if len(fields) != want {
		return Op{}, fmt.Errorf("%s takes %d fields, got %d", op.Kind, want-1, len(fields)-1)
	}

	var err error
	if op.ID, err = strconv.Atoi(fields[1]); err != nil {
		return Op{}, fmt.Errorf("bad id %q", fields[1])
	}
	if want == 3 {
		if op.Size, err = strconv.Atoi(fields[2]); err != nil {
			return Op{}, fmt.Errorf("bad size %q", fields[2])
		}
	}
	return op, nil
}

// Load maps the trace file at path and parses it. The trace is named after
// the file.
func Load(path string) (*Trace, error) {
	m, err := mmfile.Open(path)
	if err != nil {
		return nil, fmt.Errorf("trace: open: %w", err)
	}
	defer m.Close()

	t, err := Parse(bytes.NewReader(m.Bytes()))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	t.Name = filepath.Base(path)
	return t, nil
}

// Write writes t in the format Parse reads.
func Write(w io.Writer, t *Trace) error {
	bw := bufio.NewWriter(w)
	if t.Name != "" {
		fmt.Fprintf(bw, "# %s\n", t.Name)
	}
	fmt.Fprintf(bw, "%d\n%d\n%d\n%d\n", t.SuggestedHeap, t.NumIDs, len(t.Ops), t.Weight)
	for _, op := range t.Ops {
		if op.Kind == OpFree {
			fmt.Fprintf(bw, "%c %d\n", op.Kind, op.ID)
			continue
		}
		fmt.Fprintf(bw, "%c %d %d\n", op.Kind, op.ID, op.Size)
	}
	return bw.Flush()
}
