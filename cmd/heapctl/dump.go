package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/heapkit/alloc"
	"github.com/joshuapare/heapkit/internal/trace"
	"github.com/joshuapare/heapkit/region"
)

var dumpOps int

func init() {
	cmd := newDumpCmd()
	cmd.Flags().IntVar(&dumpOps, "ops", -1, "Stop after this many ops (default: whole trace)")
	rootCmd.AddCommand(cmd)
}

func newDumpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump <trace>",
		Short: "Replay a trace and print the resulting heap",
		Long: `The dump command replays a trace (or its first --ops requests) and
prints every block of the heap and every free list.

Example:
  heapctl dump short1.rep
  heapctl dump short1.rep --ops 5
  heapctl dump short1.rep --ops 5 --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(cmd.Context(), args)
		},
	}
	return cmd
}

type dumpOutput struct {
	Trace  string      `json:"trace"`
	Ops    int         `json:"ops"`
	Blocks []blockJSON `json:"blocks"`
	Stats  alloc.Stats `json:"stats"`
}

type blockJSON struct {
	Offset    uint32 `json:"offset"`
	Size      int    `json:"size"`
	Allocated bool   `json:"allocated"`
	Class     int    `json:"class,omitempty"`
}

func runDump(ctx context.Context, args []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	tr, err := trace.Load(args[0])
	if err != nil {
		return err
	}
	if dumpOps >= 0 && dumpOps < len(tr.Ops) {
		tr.Ops = tr.Ops[:dumpOps]
	}

	a, err := alloc.New(region.NewMem(region.DefaultLimit), alloc.WithConfig(activeConfig))
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := trace.Run(ctx, a, tr, true)
	if err != nil {
		return fmt.Errorf("%s: %w", tr.Name, err)
	}

	if jsonOut {
		blocks, err := a.Blocks()
		if err != nil {
			return err
		}
		out := dumpOutput{Trace: tr.Name, Ops: res.Ops, Stats: res.Stats}
		for _, b := range blocks {
			bj := blockJSON{Offset: uint32(b.Off), Size: b.Size, Allocated: b.Allocated}
			if !b.Allocated {
				bj.Class = a.ClassOf(b.Size)
			}
			out.Blocks = append(out.Blocks, bj)
		}
		return printJSON(out)
	}

	printInfo("%s after %d ops\n", tr.Name, res.Ops)
	if quiet {
		return nil
	}
	return a.Dump(os.Stdout)
}
