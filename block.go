// SPDX-License-Identifier: Apache-2.0

package arena

import (
	"fmt"
	"unsafe"
)

// Backing selects where a Resource's block comes from.
type Backing uint8

const (
	// GoHeap blocks are ordinary Go byte slices.
	GoHeap Backing = iota
	// Mmap blocks are anonymous private mappings, unmapped when the Resource
	// is destroyed. Platforms without mmap fall back to GoHeap.
	Mmap
)

func (b Backing) String() string {
	switch b {
	case GoHeap:
		return "goheap"
	case Mmap:
		return "mmap"
	default:
		return fmt.Sprintf("backing(%d)", uint8(b))
	}
}

// block is the backing memory of one Resource. base is aligned to align and
// has at least size usable bytes after it.
type block struct {
	buf     []byte
	base    unsafe.Pointer
	size    uintptr
	align   uintptr
	backing Backing
}

func newBlock(size, align uintptr, backing Backing) (*block, error) {
	if align == 0 {
		align = 1
	}
	var (
		buf []byte
		err error
	)
	switch backing {
	case Mmap:
		buf, err = mapBlock(size + align)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrResourceUninitialized, err)
		}
	default:
		backing = GoHeap
		buf = make([]byte, size+align)
	}
	b := &block{buf: buf, size: size, align: align, backing: backing}
	b.base = alignUp(unsafe.Pointer(unsafe.SliceData(buf)), align)
	return b, nil
}

func (b *block) free() error {
	buf := b.buf
	b.buf, b.base = nil, nil
	if b.backing == Mmap && buf != nil {
		return unmapBlock(buf)
	}
	return nil
}

func (b *block) zero() {
	clear(b.buf)
}

func alignUp(p unsafe.Pointer, align uintptr) unsafe.Pointer {
	pad := (align - uintptr(p)%align) % align
	return unsafe.Add(p, pad)
}
