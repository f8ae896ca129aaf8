package alloc

import (
	"sync"

	"github.com/joshuapare/memkit/internal/mmap"
)

// pages keeps released mappings instead of unmapping them. A released block
// stays readable (as zeros) so that a second release through a decorator
// finds invalid metadata rather than faulting on unmapped memory.
type pages struct {
	mu sync.Mutex

	// free holds parked mappings keyed by length.
	free map[int][][]byte

	// parked records the start address of every parked mapping.
	parked map[uintptr]struct{}
}

var pageHeap = &pages{
	free:   make(map[int][][]byte),
	parked: make(map[uintptr]struct{}),
}

// Pages returns an allocator that maps every allocation as its own anonymous
// memory region outside the Go heap.
//
// Release discards the pages and parks the mapping for reuse by a later
// Allocate of the same length. Parked mappings are never unmapped, so a
// block that was already released still reads back as zeros: a Guarded or
// Counted layer over Pages sees a zero header and leaves it alone. Releasing
// the same block twice is a no-op.
//
// On platforms without anonymous mappings Pages falls back to the Go heap.
func Pages() Allocator {
	return pageHeap
}

func (p *pages) Allocate(n int) Block {
	if n <= 0 {
		return Block{}
	}

	p.mu.Lock()
	if cached := p.free[n]; len(cached) > 0 {
		data := cached[len(cached)-1]
		p.free[n] = cached[:len(cached)-1]
		delete(p.parked, Wrap(data).Addr())
		p.mu.Unlock()
		return Block{region: data, n: n}
	}
	p.mu.Unlock()

	data, err := mmap.Map(n)
	if err != nil {
		return Block{}
	}
	return Block{region: data, n: n}
}

func (p *pages) Release(b Block) {
	// Only whole mappings can be returned.
	if b.IsZero() || b.off != 0 || b.n != len(b.region) {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	addr := b.Addr()
	if _, ok := p.parked[addr]; ok {
		return
	}
	if err := mmap.Discard(b.region); err != nil {
		// Zero by hand so stale metadata never survives.
		clear(b.region)
	}
	p.parked[addr] = struct{}{}
	p.free[b.n] = append(p.free[b.n], b.region)
}

// parkedLen returns how many mappings of length n are waiting for reuse.
func (p *pages) parkedLen(n int) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.free[n])
}
