// SPDX-License-Identifier: Apache-2.0

package arena

import (
	"errors"
	"io"
)

const readChunkSize = 4 * 1024

// Buffer is a variable-sized byte buffer whose storage comes from an
// Allocator[byte]. It implements io.Reader, io.Writer, io.ReaderFrom and
// io.WriterTo. Allocation failures are returned from the write methods
// instead of panicking, so a Buffer over a bounded strategy reports
// ErrOverflow once the Resource is exhausted.
//
// A nil allocator makes Buffer fall back to Go allocation.
type Buffer struct {
	alloc *Allocator[byte]
	buf   []byte // written data; buf[r:] is unread
	r     int
	chunk []byte // scratch space for ReadFrom, allocated on first use

	chunkOwned bool // chunk came from alloc rather than the Go heap
	frames     int  // allocations taken from alloc, all still live under Stack
}

// NewBuffer creates an empty Buffer drawing from alloc.
func NewBuffer(alloc *Allocator[byte]) *Buffer {
	return &Buffer{alloc: alloc}
}

// Grow makes room for n more bytes without another allocation.
func (b *Buffer) Grow(n int) error {
	if n < 0 {
		panic("arena: negative Buffer.Grow count")
	}
	return b.reserve(n)
}

// reserve compacts unread data to the front when that makes room, and
// otherwise grows the storage through the allocator.
func (b *Buffer) reserve(n int) error {
	if len(b.buf)+n <= cap(b.buf) {
		return nil
	}
	if b.r > 0 && b.Len()+n <= cap(b.buf) {
		m := copy(b.buf, b.buf[b.r:])
		b.buf, b.r = b.buf[:m], 0
		return nil
	}
	grown, err := growSlice(b.alloc, b.buf, n)
	if err != nil {
		return err
	}
	b.buf = grown
	if b.alloc != nil {
		b.frames++
	}
	return nil
}

func (b *Buffer) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if err := b.reserve(len(p)); err != nil {
		return 0, err
	}
	b.buf = append(b.buf, p...)
	return len(p), nil
}

func (b *Buffer) WriteByte(c byte) error {
	if err := b.reserve(1); err != nil {
		return err
	}
	b.buf = append(b.buf, c)
	return nil
}

func (b *Buffer) WriteString(s string) (int, error) {
	if len(s) == 0 {
		return 0, nil
	}
	if err := b.reserve(len(s)); err != nil {
		return 0, err
	}
	b.buf = append(b.buf, s...)
	return len(s), nil
}

// WriteTo drains the unread portion into w.
func (b *Buffer) WriteTo(w io.Writer) (int64, error) {
	if b.Len() == 0 {
		return 0, nil
	}
	m, err := w.Write(b.buf[b.r:])
	b.advance(m)
	return int64(m), err
}

// Read reads up to len(p) bytes. It returns io.EOF when the buffer runs dry
// before p is filled.
func (b *Buffer) Read(p []byte) (int, error) {
	if b.Len() == 0 {
		return 0, io.EOF
	}
	n := copy(p, b.buf[b.r:])
	b.advance(n)
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (b *Buffer) ReadByte() (byte, error) {
	if b.Len() == 0 {
		return 0, io.EOF
	}
	c := b.buf[b.r]
	b.advance(1)
	return c, nil
}

// Next returns a copy of the next n unread bytes, or fewer if the buffer
// holds less.
func (b *Buffer) Next(n int) []byte {
	n = min(max(n, 0), b.Len())
	out := make([]byte, n)
	copy(out, b.buf[b.r:])
	b.advance(n)
	return out
}

// advance consumes n bytes and rewinds to the start of the storage once
// everything has been read.
func (b *Buffer) advance(n int) {
	b.r += n
	if b.r == len(b.buf) {
		b.buf, b.r = b.buf[:0], 0
	}
}

// Bytes returns the unread portion. It aliases the storage until the next
// modification.
func (b *Buffer) Bytes() []byte {
	if b.Len() == 0 {
		return []byte{}
	}
	return b.buf[b.r:]
}

func (b *Buffer) String() string {
	return string(b.buf[b.r:])
}

// Len returns the number of unread bytes.
func (b *Buffer) Len() int {
	return len(b.buf) - b.r
}

// Cap returns the capacity of the storage.
func (b *Buffer) Cap() int {
	return cap(b.buf)
}

// Reset empties the buffer and keeps the storage.
func (b *Buffer) Reset() {
	b.buf, b.r = b.buf[:0], 0
}

// Truncate keeps the first n unread bytes. It panics if n is negative or
// larger than Len.
func (b *Buffer) Truncate(n int) {
	if n < 0 || n > b.Len() {
		panic("arena: truncation out of range")
	}
	b.buf = b.buf[:b.r+n]
}

// ReadFrom reads r until EOF. The scratch chunk it reads into comes from the
// allocator when there is room, and from the Go heap otherwise.
func (b *Buffer) ReadFrom(r io.Reader) (int64, error) {
	if b.chunk == nil {
		chunk, err := AllocateSlice(b.alloc, readChunkSize, readChunkSize)
		switch {
		case err != nil:
			chunk = make([]byte, readChunkSize)
		case b.alloc != nil:
			b.chunkOwned = true
			b.frames++
		}
		b.chunk = chunk
	}

	var total int64
	for {
		nr, er := r.Read(b.chunk)
		if nr > 0 {
			if _, ew := b.Write(b.chunk[:nr]); ew != nil {
				return total, ew
			}
			total += int64(nr)
		}
		if er == io.EOF {
			return total, nil
		}
		if er != nil {
			return total, er
		}
	}
}

// Free hands the storage and the ReadFrom chunk back to the allocator. The
// Buffer is empty and usable afterwards.
//
// Under Stack every allocation the Buffer ever made is still live, growth
// included, and Free pops that many frames. It is only correct when nothing
// else was allocated from the Resource since the Buffer's first allocation.
func (b *Buffer) Free() error {
	var err error
	if res := b.alloc.Resource(); res != nil && res.Strategy() == Stack {
		for ; b.frames > 0; b.frames-- {
			if err = b.alloc.Deallocate(nil, 0); err != nil {
				break
			}
		}
	} else {
		err = FreeSlice(b.alloc, b.buf)
		if b.chunkOwned {
			err = errors.Join(err, FreeSlice(b.alloc, b.chunk))
		}
	}
	b.buf, b.r = nil, 0
	b.chunk, b.chunkOwned, b.frames = nil, false, 0
	return err
}
