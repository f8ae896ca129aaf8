package buffer

import "github.com/joshuapare/memkit/alloc"

// Allocator presents a Buffer as a bump allocator: Allocate(n) is exactly
// Reserve(n). Individual blocks cannot be released; the buffer gives all of
// its memory back at once on Cleanup.
//
// Blocks handed out earlier are invalidated whenever the buffer grows, so
// callers normally Grow the buffer to its final size up front.
type Allocator struct {
	buf *Buffer
}

var _ alloc.Allocator = (*Allocator)(nil)

// NewAllocator returns an allocator that carves blocks out of b.
func NewAllocator(b *Buffer) *Allocator {
	return &Allocator{buf: b}
}

// Buffer returns the buffer blocks are taken from.
func (a *Allocator) Buffer() *Buffer {
	if a == nil {
		return nil
	}
	return a.buf
}

func (a *Allocator) Allocate(n int) alloc.Block {
	if a == nil {
		return alloc.Block{}
	}
	return a.buf.reserve(n)
}

// Release is a no-op.
func (a *Allocator) Release(alloc.Block) {}
