// SPDX-License-Identifier: Apache-2.0

package arena

import (
	"log/slog"
	"unsafe"
)

// Resource owns one backing block and the strategy engine working over it.
// Both are created together on the first Allocate, never at construction,
// so Resources and the Allocators wrapping them are cheap to create and copy.
//
// A Resource is reference counted. NewResource returns one reference; every
// Allocator that wraps the Resource holds another. The last Release destroys
// the block and the engine.
//
// Resources are not safe for concurrent use. See NewConcurrentArena.
type Resource struct {
	cfg   Config
	state resourceState
	refs  int

	peak     uintptr
	allocs   uint64
	deallocs uint64
	blocks   int // backing block acquisitions
}

var _ Arena = (*Resource)(nil)

// resourceState is one of uninitialized, *initialized or released.
type resourceState interface {
	isResourceState()
}

type uninitialized struct{}

type initialized struct {
	block  *block // nil for Heap
	engine engine
}

type released struct{}

func (uninitialized) isResourceState() {}
func (*initialized) isResourceState()  {}
func (released) isResourceState()      {}

// ResourceStats is a snapshot of a Resource's counters.
type ResourceStats struct {
	InUse       int // bytes currently handed out
	Capacity    int // byte budget
	Peak        int // high-water mark of InUse
	Allocs      uint64
	Deallocs    uint64
	Blocks      int // backing blocks acquired over the lifetime
	Initialized bool
}

// NewResource creates a Resource for elements of the given layout. No memory
// is committed until the first Allocate.
func NewResource(strategy Strategy, layout Layout, opts ...Option) (*Resource, error) {
	cfg := DefaultConfig(strategy, layout)
	for _, opt := range opts {
		opt(&cfg)
	}
	return newResource(cfg)
}

func newResource(cfg Config) (*Resource, error) {
	if !cfg.Strategy.Valid() {
		return nil, ErrUnknownStrategy
	}
	if cfg.Logger == nil {
		cfg.Logger = discardLogger
	}
	if cfg.Layout.Align == 0 {
		cfg.Layout.Align = 1
	}
	return &Resource{cfg: cfg, state: uninitialized{}, refs: 1}, nil
}

// Allocate returns n bytes from the active strategy, initializing the
// Resource first if needed.
func (r *Resource) Allocate(n uintptr) (unsafe.Pointer, error) {
	var live *initialized
	switch st := r.state.(type) {
	case uninitialized:
		var err error
		if live, err = r.initialize(); err != nil {
			return nil, err
		}
		r.state = live
	case *initialized:
		live = st
	default:
		return nil, ErrResourceUninitialized
	}

	ptr, err := live.engine.allocate(n)
	if err != nil {
		r.cfg.Logger.Debug("arena: allocate failed", slog.Uint64("size", uint64(n)), slog.Any("error", err))
		return nil, err
	}
	r.allocs++
	if used := live.engine.inUse(); used > r.peak {
		r.peak = used
	}
	return ptr, nil
}

// Deallocate hands p back to the active strategy. It fails with
// ErrResourceUninitialized if nothing was ever allocated.
func (r *Resource) Deallocate(p unsafe.Pointer, n uintptr) error {
	live, ok := r.state.(*initialized)
	if !ok {
		return ErrResourceUninitialized
	}
	if err := live.engine.deallocate(p, n); err != nil {
		r.cfg.Logger.Debug("arena: deallocate failed", slog.Uint64("size", uint64(n)), slog.Any("error", err))
		return err
	}
	r.deallocs++
	return nil
}

// initialize acquires the block and builds the engine. On failure nothing
// is kept, so the Resource stays uninitialized.
func (r *Resource) initialize() (*initialized, error) {
	live := &initialized{}
	if r.cfg.Strategy != Heap {
		b, err := r.acquireBlock()
		if err != nil {
			return nil, err
		}
		live.block = b
	}

	var base unsafe.Pointer
	if live.block != nil {
		base = live.block.base
	}
	eng, err := newEngine(&r.cfg, base)
	if err != nil {
		if live.block != nil {
			r.dropBlock(live.block)
		}
		return nil, err
	}
	live.engine = eng
	r.cfg.Logger.Debug("arena: resource initialized", r.cfg.logAttrs()...)
	return live, nil
}

func (r *Resource) acquireBlock() (*block, error) {
	size, align := r.cfg.Capacity, r.cfg.Layout.Align
	if r.cfg.Blocks != nil && r.cfg.Backing == GoHeap {
		if b := r.cfg.Blocks.acquire(size, align); b != nil {
			r.blocks++
			return b, nil
		}
	}
	b, err := newBlock(size, align, r.cfg.Backing)
	if err != nil {
		return nil, err
	}
	r.blocks++
	return b, nil
}

func (r *Resource) dropBlock(b *block) {
	if r.cfg.Blocks != nil && r.cfg.Blocks.park(b) {
		return
	}
	if err := b.free(); err != nil {
		r.cfg.Logger.Warn("arena: releasing block", slog.Any("error", err))
	}
}

// Retain adds a reference to r.
func (r *Resource) Retain() {
	r.refs++
}

// Release drops a reference. The last reference destroys the block and the
// engine; any later Allocate or Deallocate fails with
// ErrResourceUninitialized.
func (r *Resource) Release() {
	if r.refs == 0 {
		return
	}
	r.refs--
	if r.refs > 0 {
		return
	}
	if live, ok := r.state.(*initialized); ok && live.block != nil {
		r.dropBlock(live.block)
	}
	r.state = released{}
	r.cfg.Logger.Debug("arena: resource released", r.cfg.logAttrs()...)
}

// Reset rewinds the strategy to empty while keeping the block. Any pointer
// previously returned by Allocate becomes invalid.
func (r *Resource) Reset() {
	if live, ok := r.state.(*initialized); ok {
		live.engine.reset()
	}
}

// Len returns the number of bytes currently handed out.
func (r *Resource) Len() int {
	if live, ok := r.state.(*initialized); ok {
		return int(live.engine.inUse())
	}
	return 0
}

// Cap returns the byte budget.
func (r *Resource) Cap() int {
	return int(r.cfg.Capacity)
}

// Peak returns the high-water mark of Len. It survives Reset.
func (r *Resource) Peak() int {
	return int(r.peak)
}

// Stats returns a snapshot of the Resource's counters.
func (r *Resource) Stats() ResourceStats {
	return ResourceStats{
		InUse:       r.Len(),
		Capacity:    r.Cap(),
		Peak:        r.Peak(),
		Allocs:      r.allocs,
		Deallocs:    r.deallocs,
		Blocks:      r.blocks,
		Initialized: r.Initialized(),
	}
}

// Initialized reports whether the block and engine exist.
func (r *Resource) Initialized() bool {
	_, ok := r.state.(*initialized)
	return ok
}

// Refs returns the number of live references.
func (r *Resource) Refs() int { return r.refs }

func (r *Resource) Capacity() uintptr     { return r.cfg.Capacity }
func (r *Resource) MetaCapacity() uintptr { return r.cfg.MetaCapacity }
func (r *Resource) PoolSlotSize() uintptr { return r.cfg.PoolSlotSize }
func (r *Resource) Strategy() Strategy    { return r.cfg.Strategy }
func (r *Resource) Layout() Layout        { return r.cfg.Layout }
func (r *Resource) ShareOnCopy() bool     { return r.cfg.ShareOnCopy }

// Config returns a copy of the configuration r was built from.
func (r *Resource) Config() Config { return r.cfg }

func (r *Resource) String() string { return r.cfg.String() }
