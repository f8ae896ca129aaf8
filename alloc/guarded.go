package alloc

import (
	"math"

	"go.uber.org/zap"

	"github.com/joshuapare/memkit/internal/buf"
)

// Sentinel is the guard value written on both sides of a guarded allocation.
const Sentinel uint64 = 0xBAADF00D

// guardOverhead is the two-word header plus the two-word footer.
const guardOverhead = 4 * WordSize

// Guarded pads the beginning and end of each allocation with a length word
// and a Sentinel word. The guards are validated on Release. Blocks with
// invalid guards are never handed back to the parent: they stay allocated so
// that memory checkers can flag them.
type Guarded struct {
	parent Allocator
}

// NewGuarded returns a guarded allocator over parent.
func NewGuarded(parent Allocator) *Guarded {
	return &Guarded{parent: parent}
}

// NewGuardedDefault is NewGuarded over the Default allocator.
func NewGuardedDefault() *Guarded {
	return NewGuarded(Default())
}

// Parent returns the allocator that backs g.
func (g *Guarded) Parent() Allocator {
	if g == nil {
		return nil
	}
	return g.parent
}

// Allocate draws n + 4 words from the parent and lays out
// [len][sentinel][n user bytes][sentinel][len].
func (g *Guarded) Allocate(n int) Block {
	if g == nil || n <= 0 {
		return Block{}
	}
	total, ok := buf.AddOverflowSafe(n, guardOverhead)
	if !ok {
		return Block{}
	}
	block := Allocate(total, g.parent)
	if block.IsZero() {
		return Block{}
	}
	user := block.Sub(2*WordSize, n)
	if user.IsZero() {
		Release(block, g.parent)
		return Block{}
	}

	block.putWord(0, uint64(n))
	block.putWord(WordSize, Sentinel)
	block.putWord(total-2*WordSize, Sentinel)
	block.putWord(total-WordSize, uint64(n))
	return user
}

// GuardedLength returns the length requested for a guarded block, excluding
// the guard words. It returns 0 when b is not a valid guarded block: it was
// released already, was not produced by a Guarded allocator, or one of its
// guards has been overwritten.
func GuardedLength(b Block) int {
	if b.IsZero() {
		return 0
	}
	length, ok := b.word(-2 * WordSize)
	if !ok || length == 0 {
		return 0
	}
	if s, ok := b.word(-WordSize); !ok || s != Sentinel {
		return 0
	}
	if length > uint64(math.MaxInt-2*WordSize) {
		return 0
	}

	n := int(length)
	if s, ok := b.word(n); !ok || s != Sentinel {
		return 0
	}
	if tail, ok := b.word(n + WordSize); !ok || tail != length {
		return 0
	}
	return n
}

// Release validates the guards around b. On success the guard words are
// zeroed and the whole block is released to the parent. On failure the block
// is left allocated.
func (g *Guarded) Release(b Block) {
	if g == nil || g.parent == nil || b.IsZero() {
		return
	}

	n := GuardedLength(b)
	if n == 0 {
		Logger().Warn("guarded: leaking block with invalid guards",
			zap.Stringer("block", b),
			zap.Int("len", b.Len()),
		)
		return
	}

	block, ok := b.span(-2*WordSize, n+guardOverhead)
	if !ok {
		return
	}
	block.putWord(0, 0)
	block.putWord(WordSize, 0)
	block.putWord(n+2*WordSize, 0)
	block.putWord(n+3*WordSize, 0)

	Release(block, g.parent)
}
