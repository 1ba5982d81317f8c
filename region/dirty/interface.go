package dirty

// DirtyTracker is the minimal interface for components that only report
// modified ranges (the allocator). Flushing is left to the owner.
type DirtyTracker interface {
	// Add marks [off, off+length) as dirty.
	Add(off, length int)
}
