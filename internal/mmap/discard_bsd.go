//go:build darwin || dragonfly || freebsd || netbsd || openbsd

package mmap

import "golang.org/x/sys/unix"

// Discard zeroes a mapping returned by Map and lets the kernel reclaim its
// pages. MADV_DONTNEED does not guarantee zero-fill here, so the bytes are
// cleared first.
func Discard(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	clear(data)
	return unix.Madvise(data, unix.MADV_DONTNEED)
}
