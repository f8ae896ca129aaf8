// Package alloc provides a swappable allocator abstraction and a set of
// decorator allocators that layer behaviour on top of any parent allocator.
//
// # Overview
//
// Every allocator hands out Blocks: opaque views of a run of bytes inside a
// backing region. The zero Block means "no allocation". Callers hold one
// Allocator and pass it uniformly to Allocate and Release:
//
//	a := alloc.NewCountedDefault()
//	b := alloc.Allocate(1024, a)
//	if b.IsZero() {
//	    // out of memory
//	}
//	copy(b.Bytes(), payload)
//	alloc.Release(b, a)
//
// Allocate(0, a) always yields the zero Block, and releasing the zero Block is
// a no-op, for every allocator in this package.
//
// # Root Allocators
//
//   - Default: the Go heap. Release drops the block and leaves reclamation to
//     the garbage collector.
//   - Pages: anonymous memory mappings outside the Go heap; Release discards
//     the pages and parks the mapping for reuse.
//   - AlwaysFail: every Allocate fails. Used to drive out-of-memory paths in
//     tests.
//   - Funcs: an allocator assembled from a pair of functions. A nil function
//     is a missing capability.
//
// # Decorators
//
// A decorator wraps a parent and forwards the underlying operation to it. The
// parent is never owned and must outlive the decorator; one parent may be
// shared by any number of decorators.
//
//   - Aligned: returns addresses aligned to N bytes by over-allocating and
//     recording the parent block's address in the word preceding the result.
//   - Guarded: brackets each allocation with length and sentinel words,
//     detects overrun on release and refuses to return corrupted blocks to the
//     parent. Such blocks are leaked on purpose so memory checkers see them.
//   - Traced: writes one line per Allocate / Release to a sink.
//   - Counted: keeps live and peak byte totals.
//
// # Metadata Layout
//
// All stored metadata uses 8-byte little-endian words (WordSize):
//
//	Aligned:  [padding][word: parent block address][user bytes]
//	Guarded:  [word: len][word: sentinel][user bytes][word: sentinel][word: len]
//	Counted:  [word: len][user bytes]
//
// Decorator blocks share their parent block's region, so metadata reads and
// writes are bounds-checked offsets into that region.
//
// # Failure Semantics
//
// Nothing here returns an error or panics on bad input. Out-of-memory, size
// overflow, zero lengths and absent allocators all surface as the zero Block.
// This keeps the package usable from allocation-failure paths.
//
// # Thread Safety
//
// Allocator instances are not thread-safe. Callers must synchronize access
// externally.
package alloc
