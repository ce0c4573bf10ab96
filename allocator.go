// SPDX-License-Identifier: Apache-2.0

package arena

import (
	"unsafe"
)

// Allocator is a lightweight handle to a shared Resource, typed by the
// element it allocates. Containers built over an Allocator obtain memory for
// their internal node types with Rebind.
//
// A root Allocator (one not produced by Rebind) owns a small cache of sibling
// Resources created on behalf of rebind requests. Rebound Allocators keep a
// back-reference to the Allocator they were rebound from; walking it always
// ends at a root.
type Allocator[T any] struct {
	res    *Resource
	parent node
	side   rebindCache // populated on roots only
}

// Allocators always propagate on container copy assignment, move assignment
// and swap.
const (
	PropagateOnCopyAssignment = true
	PropagateOnMoveAssignment = true
	PropagateOnSwap           = true
)

// Handle is anything that exposes the Resource it allocates from. Every
// Allocator is a Handle, whatever its element type.
type Handle interface {
	Resource() *Resource
}

// node is the type-erased view of an Allocator used to walk rebind chains.
type node interface {
	parentNode() node
	resource() *Resource
	cache() *rebindCache
}

// NewAllocator creates a root Allocator over a fresh Resource laid out for T.
// Under Pool the slot width defaults to the wider of DefaultPoolSlotSize and
// the size of T; WithPoolSlotSize overrides it.
func NewAllocator[T any](strategy Strategy, opts ...Option) (*Allocator[T], error) {
	layout := LayoutOf[T]()
	opts = append([]Option{WithPoolSlotSize(max(DefaultPoolSlotSize, layout.Size))}, opts...)
	res, err := NewResource(strategy, layout, opts...)
	if err != nil {
		return nil, err
	}
	return &Allocator[T]{res: res}, nil
}

// NewAllocatorFrom creates a root Allocator over an existing Resource. The
// Allocator takes its own reference; the caller keeps theirs.
func NewAllocatorFrom[T any](res *Resource) *Allocator[T] {
	res.Retain()
	return &Allocator[T]{res: res}
}

// Allocate returns storage for n contiguous elements. A negative n, or one
// whose byte size does not fit in a uintptr, fails with ErrOverflow.
func (a *Allocator[T]) Allocate(n int) (*T, error) {
	if a.res == nil {
		return nil, ErrResourceUninitialized
	}
	size, err := byteCount[T](n)
	if err != nil {
		return nil, err
	}
	ptr, err := a.res.Allocate(size)
	if err != nil {
		return nil, err
	}
	return (*T)(ptr), nil
}

// Deallocate returns storage for n elements obtained from Allocate.
func (a *Allocator[T]) Deallocate(p *T, n int) error {
	if a.res == nil {
		return ErrResourceUninitialized
	}
	size, err := byteCount[T](n)
	if err != nil {
		return err
	}
	return a.res.Deallocate(unsafe.Pointer(p), size)
}

// byteCount returns the size of n elements of T.
func byteCount[T any](n int) (uintptr, error) {
	var x T
	elem := unsafe.Sizeof(x)
	if n < 0 || (elem != 0 && uintptr(n) > ^uintptr(0)/elem) {
		return 0, ErrOverflow
	}
	return uintptr(n) * elem, nil
}

// Resource returns the Resource a allocates from.
func (a *Allocator[T]) Resource() *Resource {
	if a == nil {
		return nil
	}
	return a.res
}

// Equal reports whether a and other allocate from the same Resource. Storage
// obtained from one can then be freed through the other.
func (a *Allocator[T]) Equal(other Handle) bool {
	if a == nil || a.res == nil || other == nil {
		return false
	}
	return a.res == other.Resource()
}

// IsRoot reports whether a was not produced by Rebind.
func (a *Allocator[T]) IsRoot() bool {
	return a.parent == nil
}

// Clone copies a. When the Resource allows sharing on copy the clone shares
// it; otherwise the clone gets a fresh Resource with the same configuration.
// The clone is always a root.
func (a *Allocator[T]) Clone() (*Allocator[T], error) {
	res, err := a.adopt()
	if err != nil {
		return nil, err
	}
	return &Allocator[T]{res: res}, nil
}

// SelectOnCopyConstruction returns the allocator a container copy should use.
func (a *Allocator[T]) SelectOnCopyConstruction() *Allocator[T] {
	return a
}

// Assign makes a use src's backing store, shared or cloned following src's
// sharing policy. a's previous Resource and its rebind cache are released,
// and a becomes a root, so later rebinds from a are cached on a itself.
func (a *Allocator[T]) Assign(src *Allocator[T]) error {
	res, err := src.adopt()
	if err != nil {
		return err
	}
	a.releaseRefs()
	a.res, a.parent = res, nil
	return nil
}

// Move transfers src's Resource, rebind cache and parent to a, releasing
// what a held before. src is left empty. Allocators previously rebound from
// src still name src as their parent; rebinding from them fails with
// ErrResourceUninitialized when src was a root, so rebind from a instead.
func (a *Allocator[T]) Move(src *Allocator[T]) {
	if a == src {
		return
	}
	a.releaseRefs()
	a.res, a.parent, a.side = src.res, src.parent, src.side
	src.res, src.parent, src.side = nil, nil, rebindCache{}
}

// Swap exchanges the backing stores of a and other.
func (a *Allocator[T]) Swap(other *Allocator[T]) {
	a.res, other.res = other.res, a.res
	a.parent, other.parent = other.parent, a.parent
	a.side, other.side = other.side, a.side
}

// Release drops a's reference to its Resource and, on a root, the
// references held by its rebind cache. a must not be used afterwards, but
// Allocators rebound from it can still reach their root through it.
func (a *Allocator[T]) Release() {
	a.releaseRefs()
}

func (a *Allocator[T]) releaseRefs() {
	if a.res != nil {
		a.res.Release()
		a.res = nil
	}
	a.side.release()
}

// adopt returns the Resource a copy of a should hold, with a reference
// taken for the copy.
func (a *Allocator[T]) adopt() (*Resource, error) {
	if a.res == nil {
		return nil, ErrResourceUninitialized
	}
	if a.res.ShareOnCopy() {
		a.res.Retain()
		return a.res, nil
	}
	cfg := a.res.Config()
	cfg.Layout = LayoutOf[T]()
	return newResource(cfg)
}

func (a *Allocator[T]) parentNode() node    { return a.parent }
func (a *Allocator[T]) resource() *Resource { return a.res }
func (a *Allocator[T]) cache() *rebindCache { return &a.side }
