package format

// Align8 returns n aligned up to the next 8-byte boundary.
//
// Example:
//
//	Align8(1)  = 8
//	Align8(8)  = 8
//	Align8(9)  = 16
func Align8(n int) int {
	return (n + AlignmentMask) & ^AlignmentMask
}

// Align8U32 is the uint32 variant used on tag values.
func Align8U32(n uint32) uint32 {
	return (n + AlignmentMask) & ^uint32(AlignmentMask)
}

// AlignPage returns n aligned up to the next PageSize boundary.
func AlignPage(n int) int {
	return (n + PageSize - 1) & ^(PageSize - 1)
}

// AlignPageDown returns n aligned down to a PageSize boundary.
func AlignPageDown(n int) int {
	return n & ^(PageSize - 1)
}

// IsAligned8 reports whether n is a multiple of 8.
func IsAligned8(n int) bool {
	return n&AlignmentMask == 0
}
