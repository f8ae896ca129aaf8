//go:build windows

package mmap

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

// Map returns n bytes of zeroed, committed read-write memory.
func Map(n int) ([]byte, error) {
	if n <= 0 {
		return nil, fmt.Errorf("mmap: invalid length %d", n)
	}
	addr, err := windows.VirtualAlloc(0, uintptr(n), windows.MEM_COMMIT|windows.MEM_RESERVE, windows.PAGE_READWRITE)
	if err != nil {
		return nil, err
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(addr)), n), nil
}
