package alloc

import "errors"

var (
	// ErrNoMemory indicates the allocator could not satisfy a request.
	ErrNoMemory = errors.New("alloc: out of memory")

	// ErrNilAllocator indicates a constructor was given no allocator to draw from.
	ErrNilAllocator = errors.New("alloc: nil allocator")
)
