package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/joshuapare/memkit/alloc"
)

var traceWorkload workload

func init() {
	cmd := newTraceCmd()
	addWorkloadFlags(cmd, &traceWorkload)
	rootCmd.AddCommand(cmd)
}

func newTraceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Trace every allocation and release of a workload",
		Long: `The trace command runs a workload through a traced allocator stack and
prints one line per allocation and release. With --json each line is emitted
as a structured log entry instead.

Example:
  memctl trace --size 100 --count 4
  memctl trace --size 48 --align 64 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(traceWorkload)
		},
	}
	return cmd
}

func runTrace(w workload) error {
	if err := w.validate(); err != nil {
		return err
	}

	s := w.stack()
	if jsonOut {
		l, err := traceLogger()
		if err != nil {
			return err
		}
		defer l.Sync()
		s.Traced = alloc.NewTracedLogger(s.Allocator, l)
	} else {
		s.Traced = alloc.NewTracedStdout(s.Allocator)
	}
	s.Allocator = s.Traced

	_, err := w.run(s)
	return err
}

// traceLogger writes debug entries as JSON to stdout.
func traceLogger() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	cfg.OutputPaths = []string{"stdout"}
	cfg.Sampling = nil
	return cfg.Build(zap.ErrorOutput(zapcore.Lock(os.Stderr)))
}
