// SPDX-License-Identifier: Apache-2.0

package arena

import (
	"unsafe"
)

// stackFrame records one outstanding allocation: its offset in the block
// and its size.
type stackFrame struct {
	off  uintptr
	size uintptr
}

// stackEngine hands out memory like linearEngine but records every
// allocation so that Deallocate can rewind in LIFO order. Callers must free
// in exact reverse order; only freeing an empty stack is detected.
type stackEngine struct {
	base     unsafe.Pointer
	frames   []stackFrame // fixed capacity, sized from the meta budget
	next     uintptr
	busy     uintptr
	capacity uintptr
}

func newStackEngine(base unsafe.Pointer, capacity, metaCapacity uintptr) (*stackEngine, error) {
	entries := metaCapacity / unsafe.Sizeof(stackFrame{})
	if entries == 0 {
		return nil, ErrMetaOutOfRange
	}
	return &stackEngine{
		base:     base,
		frames:   make([]stackFrame, 0, entries),
		capacity: capacity,
	}, nil
}

func (s *stackEngine) allocate(n uintptr) (unsafe.Pointer, error) {
	if n > s.capacity-s.busy {
		return nil, ErrOverflow
	}
	if len(s.frames) == cap(s.frames) {
		return nil, ErrMetaOutOfRange
	}
	s.frames = append(s.frames, stackFrame{off: s.next, size: n})
	ptr := unsafe.Add(s.base, s.next)
	s.next += n
	s.busy += n
	return ptr, nil
}

// deallocate ignores its arguments and pops the most recent allocation.
func (s *stackEngine) deallocate(unsafe.Pointer, uintptr) error {
	top := len(s.frames) - 1
	if top < 0 {
		return ErrEmptyStack
	}
	f := s.frames[top]
	s.frames = s.frames[:top]
	s.next = f.off
	s.busy -= f.size
	return nil
}

func (s *stackEngine) reset() {
	s.frames = s.frames[:0]
	s.next = 0
	s.busy = 0
}

func (s *stackEngine) inUse() uintptr {
	return s.busy
}

func (s *stackEngine) depth() int {
	return len(s.frames)
}
