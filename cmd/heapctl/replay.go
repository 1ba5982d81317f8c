package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/joshuapare/heapkit/internal/trace"
	"github.com/joshuapare/heapkit/region"
)

var (
	replayCheck  bool
	replayRegion string
	replayLimit  int
)

func init() {
	cmd := newReplayCmd()
	cmd.Flags().BoolVar(&replayCheck, "check", false, "Run the heap consistency checker after every op")
	cmd.Flags().StringVar(&replayRegion, "region", "mem", "Region backing the heap: mem, mmap or file")
	cmd.Flags().IntVar(&replayLimit, "limit", region.DefaultLimit, "Maximum heap size in bytes")
	rootCmd.AddCommand(cmd)
}

func newReplayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay <trace>...",
		Short: "Replay traces and report utilization and throughput",
		Long: `The replay command runs each trace against a fresh allocator, checking
alignment, bounds, overlap and payload contents of every result.

Example:
  heapctl replay traces/*.rep
  heapctl replay --check --region file short1.rep
  heapctl replay --preset Coarse --json short1.rep`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(cmd.Context(), args)
		},
	}
	return cmd
}

type replaySummary struct {
	Config      string         `json:"config"`
	Results     []trace.Result `json:"results"`
	Ops         int            `json:"ops"`
	Elapsed     time.Duration  `json:"elapsed_ns"`
	OpsPerSec   float64        `json:"ops_per_sec"`
	Utilization float64        `json:"avg_utilization"`
}

func runReplay(ctx context.Context, args []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	newRegion, err := newRegionFunc(replayRegion, replayLimit)
	if err != nil {
		return err
	}

	sum := replaySummary{Config: activeConfig.Name}
	for _, path := range args {
		printVerbose("Replaying %s\n", path)

		tr, err := trace.Load(path)
		if err != nil {
			return err
		}
		res, err := trace.Replay(ctx, tr, trace.ReplayOptions{
			Config:    activeConfig,
			NewRegion: newRegion,
			Check:     replayCheck,
		})
		if err != nil {
			return fmt.Errorf("%s: %w", tr.Name, err)
		}

		sum.Results = append(sum.Results, res)
		sum.Ops += res.Ops
		sum.Elapsed += res.Elapsed
		sum.Utilization += res.Utilization
	}
	sum.Utilization /= float64(len(sum.Results))
	if sum.Elapsed > 0 {
		sum.OpsPerSec = float64(sum.Ops) / sum.Elapsed.Seconds()
	}

	if jsonOut {
		return printJSON(sum)
	}
	if quiet {
		return nil
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "TRACE\tOPS\tUTIL\tHEAP\tSECS\tKOPS/S\t")
	for _, r := range sum.Results {
		fmt.Fprintf(tw, "%s\t%d\t%.1f%%\t%d\t%.6f\t%.0f\t\n",
			r.Name, r.Ops, r.Utilization*100, r.HeapSize, r.Elapsed.Seconds(), r.OpsPerSec/1000)
	}
	fmt.Fprintf(tw, "total\t%d\t%.1f%%\t\t%.6f\t%.0f\t\n",
		sum.Ops, sum.Utilization*100, sum.Elapsed.Seconds(), sum.OpsPerSec/1000)
	if err := tw.Flush(); err != nil {
		return err
	}

	printVerbose("Config: %+v\n", activeConfig)
	return nil
}
