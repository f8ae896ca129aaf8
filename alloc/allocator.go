package alloc

// Allocator is the capability pair shared by every allocator variant.
//
// Implementations must return the zero Block for n <= 0 and treat Release of
// the zero Block as a no-op. Release must be given a Block exactly as this
// allocator returned it.
type Allocator interface {
	Allocate(n int) Block
	Release(b Block)
}

// Allocate uses a to allocate n bytes. It returns the zero Block when a is
// nil, n <= 0, or the allocation fails.
func Allocate(n int, a Allocator) Block {
	if a == nil || n <= 0 {
		return Block{}
	}
	return a.Allocate(n)
}

// Release returns b to a. It is a no-op when a is nil or b is the zero Block.
func Release(b Block, a Allocator) {
	if a == nil || b.IsZero() {
		return
	}
	a.Release(b)
}

// Funcs adapts a pair of functions to the Allocator interface. Either
// function may be nil, in which case that capability is absent: Allocate
// yields the zero Block and Release does nothing.
type Funcs struct {
	AllocateFunc func(n int) Block
	ReleaseFunc  func(b Block)
}

// Allocate calls AllocateFunc if present.
func (f Funcs) Allocate(n int) Block {
	if f.AllocateFunc == nil || n <= 0 {
		return Block{}
	}
	return f.AllocateFunc(n)
}

// Release calls ReleaseFunc if present.
func (f Funcs) Release(b Block) {
	if f.ReleaseFunc == nil || b.IsZero() {
		return
	}
	f.ReleaseFunc(b)
}

type heap struct{}

var defaultHeap = &heap{}

// Default returns the allocator backed by the Go heap.
func Default() Allocator {
	return defaultHeap
}

func (*heap) Allocate(n int) Block {
	if n <= 0 {
		return Block{}
	}
	return Block{region: make([]byte, n), n: n}
}

// Release drops the block; the garbage collector reclaims it once the caller
// lets go of every view into it.
func (*heap) Release(Block) {}

type alwaysFail struct{}

var failing = &alwaysFail{}

// AlwaysFail returns an allocator whose every Allocate yields the zero Block.
// Release is a no-op. Useful for exercising out-of-memory paths.
func AlwaysFail() Allocator {
	return failing
}

func (*alwaysFail) Allocate(int) Block { return Block{} }

func (*alwaysFail) Release(Block) {}
