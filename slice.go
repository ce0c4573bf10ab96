// SPDX-License-Identifier: Apache-2.0

package arena

import (
	"unsafe"
)

const growThreshold = 256

// AllocateSlice creates a slice of type T with a given length and capacity,
// using the provided Allocator for memory allocation.
// If the allocator is nil, it returns a slice using Go's built-in make function.
func AllocateSlice[T any](a *Allocator[T], len, cap int) ([]T, error) {
	if a == nil {
		return make([]T, len, cap), nil
	}
	if cap == 0 {
		return []T{}, nil
	}
	ptr, err := a.Allocate(cap)
	if err != nil {
		return nil, err
	}
	s := unsafe.Slice(ptr, cap)
	clear(s)
	return s[:len], nil
}

// FreeSlice returns the storage of s, which must come from AllocateSlice on a.
func FreeSlice[T any](a *Allocator[T], s []T) error {
	if a == nil || cap(s) == 0 {
		return nil
	}
	return a.Deallocate(unsafe.SliceData(s[:1]), cap(s))
}

// SliceAppend appends elements to a slice of type T using a provided
// Allocator for memory allocation if needed. s must be empty or come from a.
// When the slice has to grow, the old storage is handed back to the
// allocator after copying, except under the Stack strategy where it is no
// longer the most recent allocation.
func SliceAppend[T any](a *Allocator[T], s []T, data ...T) ([]T, error) {
	if a == nil {
		return append(s, data...), nil
	}
	s, err := growSlice(a, s, len(data))
	if err != nil {
		return s, err
	}
	return append(s, data...), nil
}

func growSlice[T any](a *Allocator[T], s []T, dataLen int) ([]T, error) {
	newLen := len(s) + dataLen
	newCap := cap(s)

	if newCap > 0 {
		for newLen > newCap {
			if newCap < growThreshold {
				newCap *= 2
			} else {
				newCap += newCap / 4
			}
		}
	} else {
		newCap = dataLen
	}
	if newCap == cap(s) {
		return s, nil
	}
	s2, err := AllocateSlice(a, len(s), newCap)
	if err != nil {
		return s, err
	}
	copy(s2, s)
	if a == nil || a.res.Strategy() == Stack {
		return s2, nil
	}
	if err := FreeSlice(a, s); err != nil {
		return s2, err
	}
	return s2, nil
}
