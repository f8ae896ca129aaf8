package alloc

import "github.com/joshuapare/memkit/internal/buf"

// Aligned is an allocator whose allocations start on a fixed byte boundary.
//
// Each allocation draws n + alignment + WordSize bytes from the parent. The
// returned address is the highest multiple of alignment at or below
// parent + alignment + WordSize, which always leaves room for one word in
// front of it; that word records the parent block's address so Release can
// recover it. An alignment of 0 forwards every call verbatim.
type Aligned struct {
	parent    Allocator
	alignment int
}

// NewAligned returns an allocator aligning to alignment bytes on top of parent.
// A negative alignment is treated as 0.
func NewAligned(parent Allocator, alignment int) *Aligned {
	if alignment < 0 {
		alignment = 0
	}
	return &Aligned{parent: parent, alignment: alignment}
}

// NewAlignedDefault is NewAligned over the Default allocator.
func NewAlignedDefault(alignment int) *Aligned {
	return NewAligned(Default(), alignment)
}

// Parent returns the allocator that backs a.
func (a *Aligned) Parent() Allocator {
	if a == nil {
		return nil
	}
	return a.parent
}

// Alignment returns the configured boundary in bytes.
func (a *Aligned) Alignment() int {
	if a == nil {
		return 0
	}
	return a.alignment
}

// Allocate returns n bytes whose address is a multiple of the alignment.
func (a *Aligned) Allocate(n int) Block {
	if a == nil || n <= 0 {
		return Block{}
	}
	if a.alignment == 0 {
		return Allocate(n, a.parent)
	}

	total, ok := buf.AddAll(n, a.alignment, WordSize)
	if !ok {
		return Block{}
	}
	block := Allocate(total, a.parent)
	if block.IsZero() {
		return Block{}
	}

	base := block.Addr()
	unaligned := base + uintptr(a.alignment) + WordSize
	aligned := unaligned - unaligned%uintptr(a.alignment)
	shift := int(aligned - base)

	user := block.Sub(shift, n)
	if user.IsZero() || !user.putWord(-WordSize, uint64(base)) {
		// Parent handed back less than requested.
		Release(block, a.parent)
		return Block{}
	}
	return user
}

// Release recovers the parent block recorded in front of b and releases it.
// Blocks whose back-pointer does not describe a plausible parent block are
// ignored.
func (a *Aligned) Release(b Block) {
	if a == nil || b.IsZero() {
		return
	}
	if a.alignment == 0 {
		Release(b, a.parent)
		return
	}

	stored, ok := b.word(-WordSize)
	if !ok {
		return
	}
	addr := uint64(b.Addr())
	if stored > addr {
		return
	}
	shift := addr - stored
	if shift < WordSize || shift > uint64(a.alignment)+WordSize {
		return
	}

	total, ok := buf.AddAll(b.n, a.alignment, WordSize)
	if !ok {
		return
	}
	block, ok := b.span(-int(shift), total)
	if !ok {
		return
	}
	Release(block, a.parent)
}
