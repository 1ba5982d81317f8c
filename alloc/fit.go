package alloc

// findFit returns the first free block of at least asize bytes, scanning
// asize's own class in list order and then every larger class. It returns 0
// when nothing fits.
func (a *Allocator) findFit(asize uint32) uint32 {
	for i := a.classes.index(asize); i < len(a.heads); i++ {
		for bp := a.heads[i]; bp != 0; bp = a.succOf(bp) {
			if a.blockSize(bp) >= asize {
				return bp
			}
		}
	}
	return 0
}
