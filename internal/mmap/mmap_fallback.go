//go:build !unix && !windows

// Package mmap provides platform-specific helpers for mapping anonymous,
// page-backed memory outside the Go heap.
package mmap

import "fmt"

// Map falls back to the Go heap when anonymous mappings are not available.
func Map(n int) ([]byte, error) {
	if n <= 0 {
		return nil, fmt.Errorf("mmap: invalid length %d", n)
	}
	return make([]byte, n), nil
}
