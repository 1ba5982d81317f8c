package logger

import "log/slog"

/*
Log attribute keys shared by more than one package. Use the constructor
functions below rather than the raw keys.
*/
const (
	ErrorKey  = "err"
	SizeKey   = "size"
	OffsetKey = "off"
	ClassKey  = "class"
	TraceKey  = "trace"
)

// Err adds an "err" attribute; a nil error yields an empty attribute which
// slog drops.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any(ErrorKey, err)
}

// Size adds a byte count attribute.
func Size(n int) slog.Attr {
	return slog.Int(SizeKey, n)
}

// Offset adds a region offset attribute.
func Offset[T ~uint32 | ~int](off T) slog.Attr {
	return slog.Int(OffsetKey, int(off))
}

// Class adds a size class attribute.
func Class(idx int) slog.Attr {
	return slog.Int(ClassKey, idx)
}

// Trace adds the name of the trace being replayed.
func Trace(name string) slog.Attr {
	return slog.String(TraceKey, name)
}
