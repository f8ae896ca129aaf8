// Package buf contains bounds-checked helpers for reading and writing the
// fixed-width metadata words that allocators place next to user memory.
package buf

import "encoding/binary"

// WordSize is the width in bytes of every stored metadata word.
const WordSize = 8

// U64LE reads a little-endian uint64 from b. Returns 0 when b is too short.
func U64LE(b []byte) uint64 {
	if len(b) < 8 {
		return 0
	}
	return binary.LittleEndian.Uint64(b)
}

// PutU64LE writes v little-endian into b. Returns false when b is too short.
func PutU64LE(b []byte, v uint64) bool {
	if len(b) < 8 {
		return false
	}
	binary.LittleEndian.PutUint64(b, v)
	return true
}

// Word reads the word stored at b[off:off+WordSize].
// ok is false when the word does not lie entirely within b.
func Word(b []byte, off int) (uint64, bool) {
	w, ok := Slice(b, off, WordSize)
	if !ok {
		return 0, false
	}
	return U64LE(w), true
}

// PutWord stores v at b[off:off+WordSize]. Returns false when out of bounds.
func PutWord(b []byte, off int, v uint64) bool {
	w, ok := Slice(b, off, WordSize)
	if !ok {
		return false
	}
	return PutU64LE(w, v)
}
