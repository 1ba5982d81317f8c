package alloc

import "errors"

var (
	// ErrNoSpace indicates that no free block was large enough and growing the
	// region failed. It wraps the region error.
	ErrNoSpace = errors.New("alloc: no free block large enough")

	// ErrTooLarge indicates a request whose block size cannot be encoded in a
	// 32-bit tag, or growth past the 4 GiB offset space.
	ErrTooLarge = errors.New("alloc: request too large")

	// ErrBadSize indicates a negative size.
	ErrBadSize = errors.New("alloc: negative size")

	// ErrBadConfig indicates invalid tuning parameters.
	ErrBadConfig = errors.New("alloc: bad config")

	// ErrNotEmpty indicates New was given a region that already holds data.
	ErrNotEmpty = errors.New("alloc: region not empty")

	// ErrCorrupt is wrapped by every consistency-check violation and by Open
	// when the existing heap cannot be scanned.
	ErrCorrupt = errors.New("alloc: heap corrupt")
)
