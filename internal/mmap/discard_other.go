//go:build !linux && !darwin && !dragonfly && !freebsd && !netbsd && !openbsd

package mmap

// Discard zeroes a mapping returned by Map. The mapping stays valid.
func Discard(data []byte) error {
	clear(data)
	return nil
}
