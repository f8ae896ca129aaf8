package alloc

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zapio"
)

// Traced forwards every call to its parent and writes one line describing it
// to a sink. Tracing never changes what the parent returns.
//
// Line formats:
//
//	Allocated <n> bytes in block <addr|(nil)>
//	Released block <addr>
type Traced struct {
	parent Allocator
	w      io.Writer
}

// NewTraced returns a tracing allocator over parent writing to w.
// A nil w discards trace output.
func NewTraced(parent Allocator, w io.Writer) *Traced {
	if w == nil {
		w = io.Discard
	}
	return &Traced{parent: parent, w: w}
}

// NewTracedStdout traces to standard output.
func NewTracedStdout(parent Allocator) *Traced {
	return NewTraced(parent, os.Stdout)
}

// NewTracedStderr traces to standard error.
func NewTracedStderr(parent Allocator) *Traced {
	return NewTraced(parent, os.Stderr)
}

// NewTracedLogger emits each trace line as a debug-level entry on l.
func NewTracedLogger(parent Allocator, l *zap.Logger) *Traced {
	if l == nil {
		l = zap.NewNop()
	}
	return NewTraced(parent, &zapio.Writer{Log: l, Level: zapcore.DebugLevel})
}

// Parent returns the allocator that backs t.
func (t *Traced) Parent() Allocator {
	if t == nil {
		return nil
	}
	return t.parent
}

// Allocate forwards to the parent and records the request and its result.
func (t *Traced) Allocate(n int) Block {
	if t == nil {
		return Block{}
	}
	b := Allocate(n, t.parent)
	fmt.Fprintf(t.w, "Allocated %d bytes in block %s\n", n, b)
	return b
}

// Release forwards to the parent and records the released block.
func (t *Traced) Release(b Block) {
	if t == nil {
		return
	}
	Release(b, t.parent)
	fmt.Fprintf(t.w, "Released block %s\n", b)
}
