package format

import "encoding/binary"

// Binary encoding utilities for little-endian words.
//
// Tags and links are stored little-endian regardless of host byte order so a
// file-backed heap can be reattached on any machine.

// PutU32 writes a uint32 value to the buffer at the specified offset in little-endian format.
func PutU32(b []byte, off int, v uint32) {
	binary.LittleEndian.PutUint32(b[off:off+4], v)
}

// ReadU32 reads a uint32 value from the buffer at the specified offset in little-endian format.
func ReadU32(b []byte, off int) uint32 {
	return binary.LittleEndian.Uint32(b[off : off+4])
}
