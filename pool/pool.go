package pool

import (
	"unsafe"

	"go.uber.org/zap"

	"github.com/joshuapare/memkit/alloc"
	"github.com/joshuapare/memkit/internal/buf"
)

// handleSize is drawn from the allocator by New to account for the Pool itself.
var handleSize = int(unsafe.Sizeof(Pool{}))

// Pool is a fixed number of fixed-size slots carved from a single block.
type Pool struct {
	// storage holds every slot back to back.
	storage alloc.Block

	// next is the address of the first free slot, or 0 when none are free.
	next uintptr

	slotSize int
	size     int

	// allocator survives Cleanup so that Delete can still release the handle.
	allocator alloc.Allocator

	// handle accounts for a Pool created by New.
	handle alloc.Block
}

// New creates a pool of count slots able to hold elementSize bytes each. The
// pool should be released with Delete once it is no longer needed.
func New(elementSize, count int, a alloc.Allocator) (*Pool, error) {
	if a == nil {
		return nil, alloc.ErrNilAllocator
	}
	h := alloc.Allocate(handleSize, a)
	if h.IsZero() {
		return nil, alloc.ErrNoMemory
	}
	p := &Pool{handle: h}
	p.Init(elementSize, count, a)
	return p, nil
}

// Delete releases the pool's storage and the handle drawn by New.
func (p *Pool) Delete() {
	if p == nil {
		return
	}
	a := p.allocator
	p.Cleanup()
	alloc.Release(p.handle, a)
	p.handle = alloc.Block{}
}

// Init prepares count slots of max(elementSize, alloc.WordSize) bytes each,
// drawn from a as one block.
//
// A zero element size or count yields a valid, empty pool. So does a failed
// storage allocation; the two cases are indistinguishable afterwards except
// through Size. Init does not release storage from a previous use; call
// Cleanup first.
func (p *Pool) Init(elementSize, count int, a alloc.Allocator) {
	if p == nil {
		return
	}
	p.storage = alloc.Block{}
	p.next = 0
	p.slotSize = 0
	p.size = 0
	p.allocator = a

	if a == nil || elementSize <= 0 || count <= 0 {
		return
	}

	slot := max(elementSize, alloc.WordSize)
	size, ok := buf.MulOverflowSafe(slot, count)
	if !ok {
		return
	}
	storage := alloc.Allocate(size, a)
	if storage.IsZero() {
		return
	}

	p.storage = storage
	p.slotSize = slot
	p.size = size

	// Link every slot to its successor; the last one terminates the list.
	base := storage.Addr()
	region := storage.Bytes()
	last := size - slot
	for off := 0; off < last; off += slot {
		buf.PutWord(region, off, uint64(base+uintptr(off+slot)))
	}
	buf.PutWord(region, last, 0)
	p.next = base
}

// Cleanup releases the pool's storage. The allocator is kept so that Delete
// still works afterwards.
func (p *Pool) Cleanup() {
	if p == nil {
		return
	}
	if !p.storage.IsZero() && p.allocator != nil {
		alloc.Release(p.storage, p.allocator)
	}
	p.storage = alloc.Block{}
	p.next = 0
	p.size = 0
}

// Take pops a free slot, or returns the zero Block when the pool is empty.
func (p *Pool) Take() alloc.Block {
	if p == nil || p.next == 0 {
		return alloc.Block{}
	}
	off, ok := p.offset(p.next)
	if !ok {
		p.next = 0
		return alloc.Block{}
	}

	link, _ := buf.Word(p.storage.Bytes(), off)
	p.next = uintptr(link)
	if link != 0 {
		if _, ok := p.offset(p.next); !ok {
			// A free slot was written to after being returned.
			Logger().Warn("pool: free list corrupted, dropping remaining slots",
				zap.Uint64("link", link),
			)
			p.next = 0
		}
	}
	return p.storage.Sub(off, p.slotSize)
}

// Return pushes b back onto the free list. Blocks outside the pool's storage
// are ignored.
//
// Return is stricter than a plain range check: an address inside the storage
// that does not start a slot is ignored as well, so Take never hands out a
// block that straddles two slots or runs past the end of storage.
func (p *Pool) Return(b alloc.Block) {
	if p == nil || b.IsZero() {
		return
	}
	off, ok := p.offset(b.Addr())
	if !ok {
		Logger().Debug("pool: ignoring block outside storage", zap.Stringer("block", b))
		return
	}
	buf.PutWord(p.storage.Bytes(), off, uint64(p.next))
	p.next = b.Addr()
}

// IsEmpty reports whether no free slots remain.
func (p *Pool) IsEmpty() bool {
	return p == nil || p.next == 0
}

// SlotSize returns the size of each slot in bytes, or 0 for an empty pool.
func (p *Pool) SlotSize() int {
	if p == nil || p.storage.IsZero() {
		return 0
	}
	return p.slotSize
}

// Size returns the total storage size in bytes.
func (p *Pool) Size() int {
	if p == nil {
		return 0
	}
	return p.size
}

// Available walks the free list and returns the number of free slots. The
// walk never visits more nodes than the pool has slots.
func (p *Pool) Available() int {
	if p == nil || p.storage.IsZero() {
		return 0
	}
	limit := p.size / p.slotSize
	region := p.storage.Bytes()
	n := 0
	for addr := p.next; addr != 0 && n < limit; n++ {
		off, ok := p.offset(addr)
		if !ok {
			break
		}
		link, _ := buf.Word(region, off)
		addr = uintptr(link)
	}
	return n
}

// offset maps an address to its slot offset within storage.
func (p *Pool) offset(addr uintptr) (int, bool) {
	if p.storage.IsZero() {
		return 0, false
	}
	base := p.storage.Addr()
	if addr < base || addr >= base+uintptr(p.size) {
		return 0, false
	}
	off := int(addr - base)
	if off%p.slotSize != 0 {
		return 0, false
	}
	return off, true
}
