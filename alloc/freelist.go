package alloc

// Free blocks carry two links at the start of their payload, stored as
// region offsets so a pair fits in 8 bytes: pred at bp, succ at bp+4.
// 0 means "none"; it can never be a payload offset.

func (a *Allocator) predOf(bp uint32) uint32 { return a.get(bp) }

func (a *Allocator) succOf(bp uint32) uint32 { return a.get(bp + wsize) }

// insert pushes a free block onto the head of its class list (LIFO).
func (a *Allocator) insert(bp uint32) {
	idx := a.classes.index(a.blockSize(bp))
	head := a.heads[idx]

	a.put(bp, 0)
	a.put(bp+wsize, head)
	if head != 0 {
		a.put(head, bp)
	}
	a.heads[idx] = bp
}

// remove unlinks a free block from its class list. The four topologies
// (interior, head with successor, tail with predecessor, sole node) reduce
// to fixing whichever neighbours exist; a missing predecessor means bp was
// the head and the directory slot moves to the successor.
func (a *Allocator) remove(bp uint32) {
	idx := a.classes.index(a.blockSize(bp))
	pred, succ := a.predOf(bp), a.succOf(bp)

	if pred != 0 {
		a.put(pred+wsize, succ)
	} else {
		a.heads[idx] = succ
	}
	if succ != 0 {
		a.put(succ, pred)
	}
}
