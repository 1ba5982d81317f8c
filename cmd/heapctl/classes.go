package main

import (
	"github.com/spf13/cobra"

	"github.com/joshuapare/heapkit/alloc"
	"github.com/joshuapare/heapkit/region"
)

func init() {
	rootCmd.AddCommand(newClassesCmd())
}

func newClassesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classes",
		Short: "Print the size-class table",
		Long: `The classes command prints the block size range of every free list for
the active configuration.

Example:
  heapctl classes
  heapctl classes --preset FineGrained
  heapctl classes --config tuned.yaml --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClasses()
		},
	}
	return cmd
}

func runClasses() error {
	a, err := alloc.New(region.NewMem(0), alloc.WithConfig(activeConfig))
	if err != nil {
		return err
	}
	defer a.Close()

	classes := a.Classes()
	if jsonOut {
		return printJSON(struct {
			Config  alloc.Config       `json:"config"`
			Classes []alloc.ClassRange `json:"classes"`
		}{activeConfig, classes})
	}

	printInfo("Config %s: linear up to %d bytes, %d classes, big size %d\n",
		activeConfig.Name, 1<<activeConfig.LinearBits, activeConfig.NumClasses, activeConfig.BigSize)
	for _, c := range classes {
		printInfo("%s\n", c)
	}
	printVerbose("chunk %d, init chunk %d, realloc chunk %d\n",
		activeConfig.Chunk, activeConfig.InitChunk, activeConfig.ReallocChunk)
	return nil
}
