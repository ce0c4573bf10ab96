// SPDX-License-Identifier: Apache-2.0

package arena

import (
	"strconv"
	"unsafe"
)

// maxHeapRequest is the largest request handed to make. Anything above it
// would be rejected by the Go allocator on at least one supported platform.
const maxHeapRequest = 1<<min(47, strconv.IntSize-1) - 1

// heapEngine forwards to the Go allocator. Live blocks are kept by address so
// that Deallocate drops the last reference the engine holds.
type heapEngine struct {
	live map[uintptr][]byte
	busy uintptr
}

func newHeapEngine() *heapEngine {
	return &heapEngine{live: make(map[uintptr][]byte)}
}

func (h *heapEngine) allocate(n uintptr) (unsafe.Pointer, error) {
	if n > maxHeapRequest {
		return nil, ErrOverflow
	}
	if n == 0 {
		n = 1
	}
	buf := make([]byte, n)
	ptr := unsafe.Pointer(unsafe.SliceData(buf))
	h.live[uintptr(ptr)] = buf
	h.busy += n
	return ptr, nil
}

func (h *heapEngine) deallocate(p unsafe.Pointer, _ uintptr) error {
	buf, ok := h.live[uintptr(p)]
	if !ok {
		return ErrDisposedPointer
	}
	delete(h.live, uintptr(p))
	h.busy -= uintptr(len(buf))
	return nil
}

func (h *heapEngine) reset() {
	clear(h.live)
	h.busy = 0
}

func (h *heapEngine) inUse() uintptr {
	return h.busy
}
