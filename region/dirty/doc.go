// Package dirty tracks which byte ranges of a persistent region have been
// modified and flushes only those pages.
//
// # Usage
//
//	r, _ := region.CreateFile(path, 0)
//	t := dirty.NewTracker(r)
//	a, _ := alloc.New(r, alloc.WithTracker(t))
//	...
//	if err := t.Flush(ctx); err != nil {
//	    return err
//	}
//
// Ranges are recorded raw by Add and page-aligned, sorted and merged at
// flush time, so Add stays a slice append.
//
// The tracker is not thread-safe.
package dirty
