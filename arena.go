// SPDX-License-Identifier: Apache-2.0

package arena

import (
	"unsafe"
)

// Arena is the contract shared by Resource and its wrappers.
//
// Memory handed out by an Arena is invisible to the garbage collector's
// pointer scan. Store only pointer-free values in it.
type Arena interface {
	// Allocate returns n bytes, or an error if the strategy cannot satisfy
	// the request within its budget.
	Allocate(n uintptr) (unsafe.Pointer, error)

	// Deallocate hands back a block previously returned by Allocate.
	// What is accepted depends on the strategy.
	Deallocate(p unsafe.Pointer, n uintptr) error

	// Reset rewinds the arena to empty without releasing its memory.
	// After invoking this method any pointer previously returned by Allocate becomes immediately invalid.
	Reset()

	// Release drops the caller's reference. The last reference gives the
	// memory back to the system.
	Release()

	// Len returns the total number of bytes currently allocated in the arena.
	Len() int

	// Cap returns the byte budget of the arena.
	Cap() int

	// Peak returns the peak number of bytes that have been allocated in the arena.
	// This value is not reset when Reset is called, allowing tracking of maximum usage.
	Peak() int
}

// Allocate allocates memory for a value of type T using the provided Arena.
// If the arena is non-nil, it returns a zeroed *T allocated from the arena,
// which must be aligned for T. If passed arena is nil, it allocates memory
// using Go's built-in new function.
func Allocate[T any](a Arena) (*T, error) {
	if a == nil {
		return new(T), nil
	}
	var x T
	ptr, err := a.Allocate(unsafe.Sizeof(x))
	if err != nil {
		return nil, err
	}
	p := (*T)(ptr)
	*p = x
	return p, nil
}

// New allocates one zeroed T from a.
func New[T any](a *Allocator[T]) (*T, error) {
	if a == nil {
		return new(T), nil
	}
	p, err := a.Allocate(1)
	if err != nil {
		return nil, err
	}
	var zero T
	*p = zero
	return p, nil
}
