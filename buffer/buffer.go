// Package buffer implements a growable, append-only byte buffer on top of the
// alloc.Allocator abstraction.
//
// A Buffer starts empty with zero capacity and only ever grows forward.
// Cleanup returns its storage to the allocator; calling Grow, Reserve or
// Append afterwards reinitialises the buffer, which must then be cleaned up
// again.
//
// Growing moves the data to a new block, so slices returned by Reserve or
// Bytes are invalidated by any later Grow, Cleanup or Delete.
package buffer

import (
	"unsafe"

	"github.com/joshuapare/memkit/alloc"
	"github.com/joshuapare/memkit/internal/buf"
)

// handleSize is drawn from the allocator by New to account for the Buffer itself.
var handleSize = int(unsafe.Sizeof(Buffer{}))

// Buffer is a growable memory buffer. The zero value is an uninitialised
// buffer with no allocator; use Init or New before writing to it.
type Buffer struct {
	// capacity is the length of storage in bytes.
	capacity int

	// storage is the block currently holding the data.
	storage alloc.Block

	// pos is the write position, relative to the start of storage.
	pos int

	// allocator is used for every grow and release. It survives Cleanup so
	// that Delete can still release the handle.
	allocator alloc.Allocator

	// handle accounts for a Buffer created by New.
	handle alloc.Block
}

// New creates an empty buffer that allocates from a. The buffer should be
// released with Delete once it is no longer needed.
func New(a alloc.Allocator) (*Buffer, error) {
	if a == nil {
		return nil, alloc.ErrNilAllocator
	}
	h := alloc.Allocate(handleSize, a)
	if h.IsZero() {
		return nil, alloc.ErrNoMemory
	}
	b := &Buffer{handle: h}
	b.Init(a)
	return b, nil
}

// Delete releases the buffer's storage and the handle drawn by New.
func (b *Buffer) Delete() {
	if b == nil {
		return
	}
	a := b.allocator
	b.Cleanup()
	alloc.Release(b.handle, a)
	b.handle = alloc.Block{}
}

// Init resets b to an empty buffer with zero capacity that allocates from a.
// It does not release storage from a previous use; call Cleanup first.
func (b *Buffer) Init(a alloc.Allocator) {
	if b == nil {
		return
	}
	b.allocator = a
	b.storage = alloc.Block{}
	b.pos = 0
	b.capacity = 0
}

// Cleanup releases the buffer's storage. The buffer itself stays usable.
func (b *Buffer) Cleanup() {
	if b == nil {
		return
	}
	if !b.storage.IsZero() && b.allocator != nil {
		alloc.Release(b.storage, b.allocator)
	}
	b.storage = alloc.Block{}
	b.pos = 0
	b.capacity = 0
}

// Capacity returns the number of bytes allocated for the buffer.
func (b *Buffer) Capacity() int {
	if b == nil || b.storage.IsZero() {
		return 0
	}
	return b.capacity
}

// DataLength returns the number of bytes written to the buffer.
func (b *Buffer) DataLength() int {
	if b == nil || b.storage.IsZero() {
		return 0
	}
	return b.pos
}

// Bytes returns the written bytes, or nil when the buffer has no storage.
func (b *Buffer) Bytes() []byte {
	if b == nil || b.storage.IsZero() {
		return nil
	}
	return b.storage.Bytes()[:b.pos]
}

// Rewind moves the write position back to the start. Capacity and storage
// are kept, so subsequent writes reuse the allocation.
func (b *Buffer) Rewind() {
	if b == nil {
		return
	}
	b.pos = 0
}

// Grow increases the capacity by amount bytes and returns the new total
// capacity. An amount of 0 returns the current capacity. On allocation
// failure Grow returns 0 and the buffer is unchanged; if the new capacity
// would overflow, the unchanged capacity is returned.
func (b *Buffer) Grow(amount int) int {
	if b == nil || b.allocator == nil {
		return 0
	}
	if amount <= 0 {
		return b.Capacity()
	}

	if b.storage.IsZero() {
		// First allocation.
		block := alloc.Allocate(amount, b.allocator)
		if block.IsZero() {
			return 0
		}
		b.storage = block
		b.capacity = amount
		b.pos = 0
		return amount
	}

	newCapacity, ok := buf.AddOverflowSafe(b.capacity, amount)
	if !ok {
		return b.capacity
	}
	block := alloc.Allocate(newCapacity, b.allocator)
	if block.IsZero() {
		return 0
	}

	n := b.DataLength()
	copy(block.Bytes(), b.storage.Bytes()[:n])
	alloc.Release(b.storage, b.allocator)

	b.storage = block
	b.capacity = newCapacity
	b.pos = n
	return newCapacity
}

// Reserve claims length bytes at the write position, growing the buffer if
// needed, and returns them for the caller to fill in later. It returns nil,
// leaving the buffer untouched, when length is 0 or growth fails.
func (b *Buffer) Reserve(length int) []byte {
	return b.reserve(length).Bytes()
}

func (b *Buffer) reserve(length int) alloc.Block {
	if b == nil || length <= 0 || b.allocator == nil {
		return alloc.Block{}
	}

	size, ok := buf.AddOverflowSafe(b.DataLength(), length)
	if !ok {
		return alloc.Block{}
	}
	if capacity := b.Capacity(); size > capacity {
		if b.Grow(size-capacity) < size {
			return alloc.Block{}
		}
	}

	result := b.storage.Sub(b.pos, length)
	b.pos += length
	return result
}

// Append copies data to the end of the buffer and returns the number of
// bytes appended: len(data) on success, 0 when data is empty or growth fails.
func (b *Buffer) Append(data []byte) int {
	if len(data) == 0 {
		return 0
	}
	dst := b.Reserve(len(data))
	if dst == nil {
		return 0
	}
	return copy(dst, data)
}

// Write implements io.Writer on top of Append.
func (b *Buffer) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if b.Append(p) == 0 {
		return 0, alloc.ErrNoMemory
	}
	return len(p), nil
}

// WriteString appends s without converting it to a byte slice first.
func (b *Buffer) WriteString(s string) (int, error) {
	if len(s) == 0 {
		return 0, nil
	}
	dst := b.Reserve(len(s))
	if dst == nil {
		return 0, alloc.ErrNoMemory
	}
	return copy(dst, s), nil
}

// WriteByte appends a single byte.
func (b *Buffer) WriteByte(c byte) error {
	dst := b.Reserve(1)
	if dst == nil {
		return alloc.ErrNoMemory
	}
	dst[0] = c
	return nil
}
