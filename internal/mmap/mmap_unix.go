//go:build unix

// Package mmap provides platform-specific helpers for mapping anonymous,
// page-backed memory outside the Go heap.
package mmap

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Map returns n bytes of zeroed, private, read-write anonymous memory.
func Map(n int) ([]byte, error) {
	if n <= 0 {
		return nil, fmt.Errorf("mmap: invalid length %d", n)
	}
	data, err := unix.Mmap(-1, 0, n, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, err
	}
	return data, nil
}
