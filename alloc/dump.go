package alloc

import (
	"fmt"
	"io"
	"text/tabwriter"
)

// Dump writes a human-readable picture of the heap to w: every block in
// address order, then every non-empty class list from head to tail.
func (a *Allocator) Dump(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "heap %d bytes, config %s\n\n", a.r.Len(), a.cfg.Name)
	fmt.Fprintln(tw, "#\tOFFSET\tSIZE\tSTATE\tCLASS\tPRED\tSUCC")
	n := 0
	walkErr := a.walk(func(b Block) error {
		n++
		if b.Allocated {
			fmt.Fprintf(tw, "%d\t%#x\t%d\talloc\t-\t-\t-\n", n, uint32(b.Off), b.Size)
			return nil
		}
		bp := uint32(b.Off)
		fmt.Fprintf(tw, "%d\t%#x\t%d\tfree\t%d\t%#x\t%#x\n",
			n, bp, b.Size, a.classes.index(uint32(b.Size)), a.predOf(bp), a.succOf(bp))
		return nil
	})
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "CLASS\tRANGE\tLIST")
	for i, head := range a.heads {
		if head == 0 {
			continue
		}
		fmt.Fprintf(tw, "%d\t%s\t", i, a.classes.bounds(i).span())
		// bounded so a corrupted cycle cannot loop forever
		limit := a.r.Len() / minBlock
		for bp := head; bp != 0 && limit > 0; bp = a.succOf(bp) {
			fmt.Fprintf(tw, "%#x(%d) ", bp, a.blockSize(bp))
			limit--
		}
		fmt.Fprintln(tw)
	}

	if err := tw.Flush(); err != nil {
		return err
	}
	return walkErr
}
