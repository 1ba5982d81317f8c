package format

import "fmt"

// WritePreamble stamps the magic and version into the first bytes of b.
// The caller writes the prologue and epilogue tags.
func WritePreamble(b []byte) error {
	if len(b) < PreambleSize {
		return fmt.Errorf("preamble: %w (have %d, need %d)", ErrTruncated, len(b), PreambleSize)
	}
	copy(b[MagicOffset:MagicOffset+4], Magic)
	PutU32(b, VersionOffset, Version)
	PutU32(b, VersionOffset+WordSize, 0)
	return nil
}

// CheckPreamble validates the magic and version at the start of b.
func CheckPreamble(b []byte) error {
	if len(b) < PreambleSize {
		return fmt.Errorf("preamble: %w (have %d, need %d)", ErrTruncated, len(b), PreambleSize)
	}
	for i, c := range Magic {
		if b[MagicOffset+i] != c {
			return fmt.Errorf("preamble: %w: got %q", ErrSignatureMismatch, b[MagicOffset:MagicOffset+4])
		}
	}
	if v := ReadU32(b, VersionOffset); v != Version {
		return fmt.Errorf("preamble: %w: %d", ErrUnsupported, v)
	}
	return nil
}
