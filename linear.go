// SPDX-License-Identifier: Apache-2.0

package arena

import (
	"unsafe"
)

// linearEngine is a bump allocator over a fixed block. Individual blocks are
// never reclaimed; the whole block goes away with its Resource.
type linearEngine struct {
	base     unsafe.Pointer
	next     uintptr // offset of the next allocation
	busy     uintptr
	capacity uintptr
}

func newLinearEngine(base unsafe.Pointer, capacity uintptr) *linearEngine {
	return &linearEngine{base: base, capacity: capacity}
}

func (l *linearEngine) allocate(n uintptr) (unsafe.Pointer, error) {
	if n > l.capacity-l.busy {
		return nil, ErrOverflow
	}
	ptr := unsafe.Add(l.base, l.next)
	l.next += n
	l.busy += n
	return ptr, nil
}

func (l *linearEngine) deallocate(unsafe.Pointer, uintptr) error {
	return nil
}

func (l *linearEngine) reset() {
	l.next = 0
	l.busy = 0
}

func (l *linearEngine) inUse() uintptr {
	return l.busy
}
