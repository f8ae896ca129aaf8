package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/memkit/alloc"
)

// workload describes a batch of same-sized allocations.
type workload struct {
	size  int
	count int
	align int
	guard bool
	pages bool
}

var errBadWorkload = errors.New("invalid workload")

// addWorkloadFlags binds the shared workload flags to cmd.
func addWorkloadFlags(cmd *cobra.Command, w *workload) {
	cmd.Flags().IntVar(&w.size, "size", 64, "Bytes per allocation")
	cmd.Flags().IntVar(&w.count, "count", 8, "Number of allocations")
	cmd.Flags().IntVar(&w.align, "align", 0, "Align each block to this many bytes (0 disables)")
	cmd.Flags().BoolVar(&w.guard, "guard", true, "Surround each block with guard words")
	cmd.Flags().BoolVar(&w.pages, "pages", false, "Draw memory from the page allocator")
}

func (w workload) validate() error {
	if w.size <= 0 {
		return fmt.Errorf("%w: size must be positive, got %d", errBadWorkload, w.size)
	}
	if w.count <= 0 {
		return fmt.Errorf("%w: count must be positive, got %d", errBadWorkload, w.count)
	}
	if w.align < 0 {
		return fmt.Errorf("%w: alignment must not be negative, got %d", errBadWorkload, w.align)
	}
	return nil
}

// parent returns the root allocator of the stack.
func (w workload) parent() alloc.Allocator {
	if w.pages {
		return alloc.Pages()
	}
	return alloc.Default()
}

// stack builds the allocator stack the workload runs through. The stack is
// always counted so that live and peak bytes can be reported.
func (w workload) stack() *alloc.Stack {
	return alloc.NewStack(w.parent(), &alloc.StackConfig{
		Counted:   true,
		Guarded:   w.guard,
		Alignment: w.align,
	})
}

// workloadResult summarises a completed run.
type workloadResult struct {
	Blocks    int `json:"blocks"`
	Size      int `json:"size"`
	Requested int `json:"requested"`
	Peak      int `json:"peak"`
	Live      int `json:"live"`
	Overhead  int `json:"overhead_per_block"`
}

// run allocates every block, fills it, then releases the odd-indexed blocks
// followed by the rest. Blocks already allocated are released on failure.
func (w workload) run(s *alloc.Stack) (workloadResult, error) {
	if err := w.validate(); err != nil {
		return workloadResult{}, err
	}

	blocks := make([]alloc.Block, 0, w.count)
	release := func() {
		for i := 1; i < len(blocks); i += 2 {
			s.Release(blocks[i])
		}
		for i := 0; i < len(blocks); i += 2 {
			s.Release(blocks[i])
		}
	}

	for i := 0; i < w.count; i++ {
		b := s.Allocate(w.size)
		if b.IsZero() {
			release()
			return workloadResult{}, fmt.Errorf("allocation %d of %d bytes: %w", i, w.size, alloc.ErrNoMemory)
		}
		if w.align > 0 && b.Addr()%uintptr(w.align) != 0 {
			blocks = append(blocks, b)
			release()
			return workloadResult{}, fmt.Errorf("block %s is not aligned to %d", b, w.align)
		}
		p := b.Bytes()
		for j := range p {
			p[j] = byte(i)
		}
		blocks = append(blocks, b)
	}
	printVerbose("Allocated %d blocks\n", len(blocks))

	release()
	printVerbose("Released %d blocks\n", len(blocks))

	peak := s.Counted.Peak()
	return workloadResult{
		Blocks:    w.count,
		Size:      w.size,
		Requested: w.size * w.count,
		Peak:      peak,
		Live:      s.Counted.Current(),
		Overhead:  peak/w.count - w.size,
	}, nil
}
