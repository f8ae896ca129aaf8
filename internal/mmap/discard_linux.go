//go:build linux

package mmap

import "golang.org/x/sys/unix"

// Discard drops the physical pages behind a mapping returned by Map. The
// mapping stays valid and reads back as zeros.
func Discard(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	return unix.Madvise(data, unix.MADV_DONTNEED)
}
