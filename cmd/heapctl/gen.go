package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/heapkit/internal/trace"
)

var (
	genOpts = trace.DefaultGenOptions()
	genOut  string
)

func init() {
	cmd := newGenCmd()
	cmd.Flags().IntVar(&genOpts.Ops, "ops", genOpts.Ops, "Number of requests before the final frees")
	cmd.Flags().IntVar(&genOpts.IDs, "ids", genOpts.IDs, "Number of slots")
	cmd.Flags().IntVar(&genOpts.MaxSize, "max-size", genOpts.MaxSize, "Largest request in bytes")
	cmd.Flags().Int64Var(&genOpts.Seed, "seed", genOpts.Seed, "Random seed")
	cmd.Flags().IntVar(&genOpts.ReallocPct, "realloc-pct", genOpts.ReallocPct, "Percentage of live-slot requests that resize")
	cmd.Flags().StringVarP(&genOut, "out", "o", "", "Output file (default: stdout)")
	rootCmd.AddCommand(cmd)
}

func newGenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate a random trace",
		Long: `The gen command writes a random but valid trace. The same seed always
produces the same trace.

Example:
  heapctl gen --ops 10000 --ids 500 --seed 7 -o random.rep`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGen()
		},
	}
	return cmd
}

func runGen() error {
	tr, err := trace.Generate(genOpts)
	if err != nil {
		return err
	}

	if genOut == "" {
		return trace.Write(os.Stdout, tr)
	}

	f, err := os.Create(genOut)
	if err != nil {
		return err
	}
	if err := trace.Write(f, tr); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	printVerbose("Wrote %d ops to %s\n", len(tr.Ops), genOut)
	return nil
}
