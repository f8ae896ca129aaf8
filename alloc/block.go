package alloc

import (
	"fmt"
	"unsafe"

	"github.com/joshuapare/memkit/internal/buf"
)

// WordSize is the width in bytes of every metadata word written by the
// decorators in this package (lengths, sentinels, back-pointers).
const WordSize = buf.WordSize

// Block is a run of bytes handed out by an Allocator.
//
// A Block produced by a decorator shares the backing region of the parent's
// block; off and n select the caller-visible bytes inside it.
type Block struct {
	region []byte
	off    int
	n      int
}

// Wrap returns a Block viewing p. The caller keeps ownership of p.
func Wrap(p []byte) Block {
	if len(p) == 0 {
		return Block{}
	}
	return Block{region: p, n: len(p)}
}

// IsZero reports whether b is "no allocation".
func (b Block) IsZero() bool {
	return b.region == nil || b.n <= 0
}

// Len returns the number of caller-visible bytes.
func (b Block) Len() int {
	if b.IsZero() {
		return 0
	}
	return b.n
}

// Bytes returns the caller-visible bytes. len and cap both equal Len.
func (b Block) Bytes() []byte {
	if b.IsZero() {
		return nil
	}
	p, _ := buf.Slice(b.region, b.off, b.n)
	return p
}

// Addr returns the address of the first caller-visible byte, or 0 for the
// zero Block.
func (b Block) Addr() uintptr {
	if b.IsZero() {
		return 0
	}
	return uintptr(unsafe.Pointer(unsafe.SliceData(b.region))) + uintptr(b.off)
}

// Sub returns the n bytes of b starting at off, or the zero Block when the
// range does not fit inside b.
func (b Block) Sub(off, n int) Block {
	if b.IsZero() || off < 0 || n <= 0 {
		return Block{}
	}
	end, ok := buf.AddOverflowSafe(off, n)
	if !ok || end > b.n {
		return Block{}
	}
	return Block{region: b.region, off: b.off + off, n: n}
}

// String formats the block address the way trace lines print it.
func (b Block) String() string {
	if b.IsZero() {
		return "(nil)"
	}
	return fmt.Sprintf("%#x", b.Addr())
}

// span returns the n bytes starting delta bytes from the start of b. The
// range may extend before or past b but must stay within b's region.
func (b Block) span(delta, n int) (Block, bool) {
	if b.IsZero() || n <= 0 {
		return Block{}, false
	}
	start, ok := buf.AddOverflowSafe(b.off, delta)
	if !ok || !buf.Has(b.region, start, n) {
		return Block{}, false
	}
	return Block{region: b.region, off: start, n: n}, true
}

// word reads the metadata word rel bytes from the start of b.
func (b Block) word(rel int) (uint64, bool) {
	if b.region == nil {
		return 0, false
	}
	at, ok := buf.AddOverflowSafe(b.off, rel)
	if !ok {
		return 0, false
	}
	return buf.Word(b.region, at)
}

// putWord writes the metadata word rel bytes from the start of b.
func (b Block) putWord(rel int, v uint64) bool {
	if b.region == nil {
		return false
	}
	at, ok := buf.AddOverflowSafe(b.off, rel)
	if !ok {
		return false
	}
	return buf.PutWord(b.region, at, v)
}
