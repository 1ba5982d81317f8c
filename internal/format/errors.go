package format

import "errors"

var (
	// ErrSignatureMismatch indicates the preamble magic did not match.
	ErrSignatureMismatch = errors.New("format: signature mismatch")
	// ErrTruncated indicates the buffer lacked the bytes required for a structure.
	ErrTruncated = errors.New("format: truncated buffer")
	// ErrUnsupported indicates an unknown preamble version.
	ErrUnsupported = errors.New("format: unsupported version")
)
