package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInitDisabledDiscards(t *testing.T) {
	old := L
	t.Cleanup(func() { L = old })

	Init(Options{Enabled: false})
	require.False(t, L.Enabled(t.Context(), slog.LevelError))
}

func TestInitJSON(t *testing.T) {
	old := L
	t.Cleanup(func() { L = old })

	var out bytes.Buffer
	Init(Options{Enabled: true, JSON: true, Output: &out, Level: slog.LevelDebug})

	Debug("grow", Size(4096), Offset(uint32(24)), Class(3), Err(errors.New("boom")))

	var rec map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &rec))
	require.Equal(t, "grow", rec["msg"])
	require.EqualValues(t, 4096, rec[SizeKey])
	require.EqualValues(t, 24, rec[OffsetKey])
	require.EqualValues(t, 3, rec[ClassKey])
	require.Equal(t, "boom", rec[ErrorKey])
}

func TestErrNilIsEmpty(t *testing.T) {
	require.True(t, Err(nil).Equal(slog.Attr{}))
}
