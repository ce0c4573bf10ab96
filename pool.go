// SPDX-License-Identifier: Apache-2.0

package arena

import (
	"math"
	"unsafe"
)

const (
	// uncarved marks the frontier slot: the first slot past every slot that
	// has ever been handed out.
	uncarved int32 = -1
	// taken marks a slot that is currently allocated.
	taken int32 = -2
)

// poolSlot is one entry of the pool's index-based free list. The slot at
// index i covers bytes [i*h, (i+1)*h) of the block.
type poolSlot struct {
	link   int32 // next free slot, uncarved or taken
	locked bool
}

// poolEngine manages a block sliced into fixed-width slots. Freed slots are
// pushed onto the head of the free list, so the most recently freed slot is
// reused first.
type poolEngine struct {
	base     unsafe.Pointer
	slots    []poolSlot // grows as slots are carved, up to limit entries
	limit    uintptr
	nextFree int32
	busy     uintptr
	capacity uintptr
	h        uintptr
}

func newPoolEngine(base unsafe.Pointer, capacity, h, metaCapacity uintptr) (*poolEngine, error) {
	if h == 0 {
		h = 1
	}
	entries := metaCapacity / unsafe.Sizeof(poolSlot{})
	if entries == 0 {
		return nil, ErrMetaOutOfRange
	}
	// One slot per h bytes plus the frontier is all the table can ever need.
	if need := capacity/h + 1; need < entries {
		entries = need
	}
	// slot indices are int32
	entries = min(entries, math.MaxInt32)
	return &poolEngine{
		base:     base,
		slots:    []poolSlot{{link: uncarved}},
		limit:    entries,
		capacity: capacity,
		h:        h,
	}, nil
}

// allocate returns one slot. Requests wider than the slot width fail.
func (p *poolEngine) allocate(n uintptr) (unsafe.Pointer, error) {
	if n > p.h || p.h > p.capacity-p.busy {
		return nil, ErrOverflow
	}
	i := p.nextFree
	if p.slots[i].link == uncarved {
		if uintptr(len(p.slots)) >= p.limit {
			return nil, ErrMetaOutOfRange
		}
		p.slots = append(p.slots, poolSlot{link: uncarved})
		p.nextFree = int32(len(p.slots) - 1)
	} else {
		p.nextFree = p.slots[i].link
	}
	p.slots[i] = poolSlot{link: taken, locked: true}
	p.busy += p.h
	return unsafe.Add(p.base, uintptr(i)*p.h), nil
}

func (p *poolEngine) deallocate(ptr unsafe.Pointer, _ uintptr) error {
	i, ok := p.slotIndex(ptr)
	if !ok {
		return ErrDisposedPointer
	}
	p.slots[i] = poolSlot{link: p.nextFree}
	p.nextFree = i
	p.busy -= p.h
	return nil
}

// slotIndex translates ptr into the index of a live slot of this pool.
func (p *poolEngine) slotIndex(ptr unsafe.Pointer) (int32, bool) {
	addr, start := uintptr(ptr), uintptr(p.base)
	if addr < start {
		return 0, false
	}
	off := addr - start
	if off >= p.capacity || off%p.h != 0 {
		return 0, false
	}
	i := off / p.h
	if i >= uintptr(len(p.slots)) || !p.slots[i].locked {
		return 0, false
	}
	return int32(i), true
}

func (p *poolEngine) reset() {
	p.slots = p.slots[:1]
	p.slots[0] = poolSlot{link: uncarved}
	p.nextFree = 0
	p.busy = 0
}

func (p *poolEngine) inUse() uintptr {
	return p.busy
}
