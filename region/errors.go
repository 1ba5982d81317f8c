package region

import "errors"

var (
	// ErrExhausted indicates that growing would exceed the region's limit.
	ErrExhausted = errors.New("region: limit exhausted")

	// ErrBadGrow indicates a non-positive or misaligned growth request.
	ErrBadGrow = errors.New("region: bad grow size")

	// ErrClosed indicates use of a region after Close.
	ErrClosed = errors.New("region: closed")
)
