package trace

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapkit/alloc"
	"github.com/joshuapare/heapkit/region"
)

const tinyTrace = `# comment
100
2
4
1

a 0 8
a 1 24
r 0 64
f 1
`

func TestParse(t *testing.T) {
	tr, err := Parse(strings.NewReader(tinyTrace))
	require.NoError(t, err)

	require.Equal(t, 100, tr.SuggestedHeap)
	require.Equal(t, 2, tr.NumIDs)
	require.Equal(t, 1, tr.Weight)
	require.Equal(t, []Op{
		{Kind: OpAlloc, ID: 0, Size: 8},
		{Kind: OpAlloc, ID: 1, Size: 24},
		{Kind: OpRealloc, ID: 0, Size: 64},
		{Kind: OpFree, ID: 1},
	}, tr.Ops)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"short header", "100\n2\n", ErrSyntax},
		{"bad header", "100\nx\n1\n1\na 0 1\n", ErrSyntax},
		{"op count mismatch", "100\n1\n2\n1\na 0 8\n", ErrSyntax},
		{"unknown op", "100\n1\n1\n1\nz 0 8\n", ErrSyntax},
		{"missing size", "100\n1\n1\n1\na 0\n", ErrSyntax},
		{"extra field on free", "100\n1\n2\n1\na 0 8\nf 0 8\n", ErrSyntax},
		{"id out of range", "100\n1\n1\n1\na 3 8\n", ErrBadTrace},
		{"double alloc", "100\n1\n2\n1\na 0 8\na 0 8\n", ErrBadTrace},
		{"free of empty slot", "100\n1\n1\n1\nf 0\n", ErrBadTrace},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input))
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestWriteParse_RoundTrip(t *testing.T) {
	tr, err := Parse(strings.NewReader(tinyTrace))
	require.NoError(t, err)
	tr.Name = "tiny"

	var out bytes.Buffer
	require.NoError(t, Write(&out, tr))
	require.True(t, strings.HasPrefix(out.String(), "# tiny\n100\n2\n4\n1\n"))

	back, err := Parse(&out)
	require.NoError(t, err)
	back.Name = tr.Name
	require.Equal(t, tr, back)
}

func TestLoad(t *testing.T) {
	tr, err := Load(filepath.Join("testdata", "traces", "short1.rep"))
	require.NoError(t, err)
	require.Equal(t, "short1.rep", tr.Name)
	require.Len(t, tr.Ops, 12)

	_, err = Load(filepath.Join("testdata", "traces", "bad_free.rep"))
	require.ErrorIs(t, err, ErrBadTrace)

	_, err = Load(filepath.Join("testdata", "traces", "missing.rep"))
	require.Error(t, err)
}

func TestGenerate(t *testing.T) {
	opts := DefaultGenOptions()
	tr, err := Generate(opts)
	require.NoError(t, err)
	require.NoError(t, tr.Validate())
	require.GreaterOrEqual(t, len(tr.Ops), opts.Ops)
	require.Positive(t, tr.SuggestedHeap)

	again, err := Generate(opts)
	require.NoError(t, err)
	require.Equal(t, tr, again, "same seed must give the same trace")

	opts.Seed = 2
	other, err := Generate(opts)
	require.NoError(t, err)
	require.NotEqual(t, tr.Ops, other.Ops)

	_, err = Generate(GenOptions{Ops: 10, IDs: 0, MaxSize: 10})
	require.ErrorIs(t, err, ErrBadTrace)
}

func TestReplay_Testdata(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("testdata", "traces", "*.rep"))
	require.NoError(t, err)

	for _, path := range paths {
		if strings.HasPrefix(filepath.Base(path), "bad_") {
			continue
		}
		t.Run(filepath.Base(path), func(t *testing.T) {
			tr, err := Load(path)
			require.NoError(t, err)

			res, err := Replay(t.Context(), tr, ReplayOptions{Check: true})
			require.NoError(t, err)
			assert.Equal(t, len(tr.Ops), res.Ops)
			assert.Positive(t, res.PeakPayload)
			assert.Greater(t, res.Utilization, 0.0)
			assert.LessOrEqual(t, res.Utilization, 1.0)
			assert.Zero(t, res.Stats.LiveBytes)
		})
	}
}

func TestReplay_GeneratedAllPresets(t *testing.T) {
	tr, err := Generate(GenOptions{Name: "gen", Ops: 3000, IDs: 300, MaxSize: 8192, Seed: 7, ReallocPct: 30})
	require.NoError(t, err)

	for _, cfg := range alloc.Presets() {
		t.Run(cfg.Name, func(t *testing.T) {
			res, err := Replay(t.Context(), tr, ReplayOptions{Config: cfg, Check: true})
			require.NoError(t, err)
			require.Equal(t, len(tr.Ops), res.Ops)
			require.Zero(t, res.Stats.LiveBytes)
		})
	}
}

func TestReplay_Cancelled(t *testing.T) {
	tr, err := Generate(DefaultGenOptions())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	_, err = Replay(ctx, tr, ReplayOptions{})
	require.ErrorIs(t, err, context.Canceled)
}

func TestReplay_OutOfSpace(t *testing.T) {
	tr, err := Parse(strings.NewReader("100\n1\n1\n1\na 0 100000\n"))
	require.NoError(t, err)

	_, err = Replay(t.Context(), tr, ReplayOptions{
		NewRegion: func() (region.Region, error) { return region.NewMem(8192), nil },
	})
	require.ErrorIs(t, err, alloc.ErrNoSpace)
}

func TestVerify_DetectsViolations(t *testing.T) {
	a, err := alloc.New(region.NewMem(0))
	require.NoError(t, err)
	defer a.Close()

	p, err := a.Alloc(32)
	require.NoError(t, err)
	fillPattern(a, 0, p, 0, 32)
	require.NoError(t, verifyPattern(a, 0, p, 32))

	a.Payload(p)[3] ^= 0xFF
	require.ErrorContains(t, verifyPattern(a, 0, p, 32), "byte 3")

	slots := []slot{{p: p, n: 32}, {}}
	require.ErrorContains(t, verifyPlacement(a, slots, 1, p+8, 16), "overlaps id 0")
	require.ErrorContains(t, verifyPlacement(a, slots, 1, p+4, 16), "not 8-aligned")
	require.ErrorContains(t, verifyPlacement(a, slots, 1, alloc.Null, 16), "null pointer")
	require.ErrorContains(t, verifyPlacement(a, slots, 1, alloc.Ptr(a.Region().Len()), 16), "outside heap")
	require.NoError(t, verifyPlacement(a, slots, 0, p, 32))
}

func TestRun_SharedAllocator(t *testing.T) {
	a, err := alloc.New(region.NewMem(0))
	require.NoError(t, err)
	defer a.Close()

	keep, err := a.Alloc(64)
	require.NoError(t, err)
	copy(a.Payload(keep), "survives the replay")

	tr, err := Load(filepath.Join("testdata", "traces", "realloc.rep"))
	require.NoError(t, err)
	res, err := Run(t.Context(), a, tr, true)
	require.NoError(t, err)
	require.Equal(t, len(tr.Ops), res.Ops)
	require.Equal(t, "survives the replay", string(a.Payload(keep)[:19]))
}
