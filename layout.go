// SPDX-License-Identifier: Apache-2.0

package arena

import (
	"fmt"
	"unsafe"
)

// Layout describes the footprint of an element type. Two element types may
// share a Resource only when their layouts are equal.
type Layout struct {
	Size  uintptr
	Align uintptr
}

// LayoutOf returns the layout of T.
func LayoutOf[T any]() Layout {
	var x T
	return Layout{Size: unsafe.Sizeof(x), Align: unsafe.Alignof(x)}
}

// MaxAlignLayout is the layout used when no element type is known.
var MaxAlignLayout = Layout{Size: DefaultPoolSlotSize, Align: DefaultPoolSlotSize}

func (l Layout) String() string {
	return fmt.Sprintf("{size:%d align:%d}", l.Size, l.Align)
}

// Container is implemented by element types that are themselves containers.
// Rebinding to such a type sizes the new Resource with the root's meta
// capacity instead of the capacity of the allocator being rebound.
type Container interface {
	ElementLayout() Layout
}

func isContainer[T any]() bool {
	var x T
	_, ok := any(x).(Container)
	if !ok {
		_, ok = any(&x).(Container)
	}
	return ok
}
