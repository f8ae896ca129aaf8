// Package pool implements a fixed-size pool of fixed-size, fixed-address
// slots with O(1) take and return.
//
// The pool draws one contiguous block from its allocator and threads an
// intrusive singly-linked free list through it: the first word of every free
// slot holds the address of the next free slot, and 0 terminates the list.
// Once taken, a slot's bytes belong entirely to the caller.
//
// Returning the same slot twice in a row turns the free list into a loop.
// The pool does not detect this; callers must not double-return.
package pool
