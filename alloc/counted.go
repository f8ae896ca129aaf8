package alloc

import (
	"math"

	"github.com/joshuapare/memkit/internal/buf"
)

// Counted maintains the number of bytes currently consumed through it and the
// peak number of bytes ever consumed through it.
//
// Each allocation carries a one-word header holding its length, so Release
// subtracts exactly what Allocate added.
type Counted struct {
	parent  Allocator
	current int
	peak    int
}

// NewCounted returns a counting allocator over parent.
func NewCounted(parent Allocator) *Counted {
	return &Counted{parent: parent}
}

// NewCountedDefault is NewCounted over the Default allocator.
func NewCountedDefault() *Counted {
	return NewCounted(Default())
}

// Parent returns the allocator that backs c.
func (c *Counted) Parent() Allocator {
	if c == nil {
		return nil
	}
	return c.parent
}

// Current returns the sum of lengths of allocations not yet released.
func (c *Counted) Current() int {
	if c == nil {
		return 0
	}
	return c.current
}

// Peak returns the highest value Current has ever reached.
func (c *Counted) Peak() int {
	if c == nil {
		return 0
	}
	return c.peak
}

// Allocate draws n bytes plus a length header from the parent and adds n to
// Current.
func (c *Counted) Allocate(n int) Block {
	if c == nil || n <= 0 {
		return Block{}
	}
	total, ok := buf.AddOverflowSafe(n, WordSize)
	if !ok {
		return Block{}
	}
	block := Allocate(total, c.parent)
	if block.IsZero() {
		return Block{}
	}
	user := block.Sub(WordSize, n)
	if user.IsZero() {
		Release(block, c.parent)
		return Block{}
	}

	block.putWord(0, uint64(n))
	c.current += n
	if c.current > c.peak {
		c.peak = c.current
	}
	return user
}

// Release subtracts the length recorded in front of b from Current and
// releases the whole block to the parent.
func (c *Counted) Release(b Block) {
	if c == nil || b.IsZero() {
		return
	}
	length, ok := b.word(-WordSize)
	if !ok || length > uint64(math.MaxInt-WordSize) {
		return
	}
	n := int(length)
	block, ok := b.span(-WordSize, n+WordSize)
	if !ok {
		return
	}
	c.current -= n
	Release(block, c.parent)
}
