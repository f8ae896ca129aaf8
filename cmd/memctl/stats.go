package main

import (
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var statsWorkload workload

func init() {
	cmd := newStatsCmd()
	addWorkloadFlags(cmd, &statsWorkload)
	rootCmd.AddCommand(cmd)
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Report live and peak bytes for a workload",
		Long: `The stats command runs a workload through a counted allocator stack and
reports the bytes requested, the peak consumed by the stack including
per-layer overhead, and the bytes still live once everything was released.

Example:
  memctl stats --size 1000 --count 100
  memctl stats --size 64 --align 4096 --pages --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(statsWorkload)
		},
	}
	return cmd
}

func runStats(w workload) error {
	if err := w.validate(); err != nil {
		return err
	}
	printVerbose("Running %d allocations of %d bytes\n", w.count, w.size)

	res, err := w.run(w.stack())
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(res)
	}

	p := message.NewPrinter(language.English)
	printInfo("%s", p.Sprintf("Blocks:     %d x %d bytes\n", res.Blocks, res.Size))
	printInfo("%s", p.Sprintf("Requested:  %d bytes\n", res.Requested))
	printInfo("%s", p.Sprintf("Peak:       %d bytes\n", res.Peak))
	printInfo("%s", p.Sprintf("Overhead:   %d bytes per block\n", res.Overhead))
	printInfo("%s", p.Sprintf("Live:       %d bytes\n", res.Live))
	return nil
}
