// SPDX-License-Identifier: Apache-2.0

package arena

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

func newTestResource(t *testing.T, strategy Strategy, opts ...Option) *Resource {
	t.Helper()
	res, err := NewResource(strategy, Layout{Size: 8, Align: 8}, opts...)
	require.NoError(t, err)
	t.Cleanup(res.Release)
	return res
}

func TestLinearAddressesIncrease(t *testing.T) {
	res := newTestResource(t, Linear, WithCapacity(100))

	sizes := []uintptr{10, 1, 33, 7, 49}
	var prevEnd uintptr
	for i, n := range sizes {
		ptr, err := res.Allocate(n)
		require.NoError(t, err)
		if i > 0 {
			// strictly increasing and non-overlapping
			require.Equal(t, prevEnd, uintptr(ptr))
		}
		prevEnd = uintptr(ptr) + n
	}
	require.Equal(t, 100, res.Len())

	_, err := res.Allocate(1)
	require.ErrorIs(t, err, ErrOverflow)
	require.Equal(t, 100, res.Len())
}

func TestLinearOverflowLeavesStateUntouched(t *testing.T) {
	res := newTestResource(t, Linear, WithCapacity(64))

	p1, err := res.Allocate(40)
	require.NoError(t, err)

	_, err = res.Allocate(30)
	require.ErrorIs(t, err, ErrOverflow)

	// the failed request consumed nothing
	p2, err := res.Allocate(24)
	require.NoError(t, err)
	require.Equal(t, uintptr(p1)+40, uintptr(p2))
}

func TestLinearDeallocateIsNoop(t *testing.T) {
	a := newTestResource(t, Linear, WithCapacity(64))
	b := newTestResource(t, Linear, WithCapacity(64))

	pa1, err := a.Allocate(16)
	require.NoError(t, err)
	pb1, err := b.Allocate(16)
	require.NoError(t, err)

	require.NoError(t, a.Deallocate(pa1, 16))
	require.Equal(t, 16, a.Len())

	pa2, err := a.Allocate(16)
	require.NoError(t, err)
	pb2, err := b.Allocate(16)
	require.NoError(t, err)

	// same offsets with or without the deallocate in between
	require.Equal(t, uintptr(pb2)-uintptr(pb1), uintptr(pa2)-uintptr(pa1))
}

func TestLinearReset(t *testing.T) {
	res := newTestResource(t, Linear, WithCapacity(32))

	p1, err := res.Allocate(32)
	require.NoError(t, err)
	require.Equal(t, 32, res.Peak())

	res.Reset()
	require.Equal(t, 0, res.Len())
	require.Equal(t, 32, res.Peak())

	p2, err := res.Allocate(8)
	require.NoError(t, err)
	require.Equal(t, p1, p2)
}

func TestLinearBlockAlignment(t *testing.T) {
	for _, align := range []uintptr{1, 8, 64, 4096} {
		res, err := NewResource(Linear, Layout{Size: align, Align: align}, WithCapacity(256))
		require.NoError(t, err)

		ptr, err := res.Allocate(1)
		require.NoError(t, err)
		require.Zero(t, uintptr(ptr)%align, "align %d", align)
		res.Release()
	}
}

func TestLinearWithTypes(t *testing.T) {
	type TestStruct struct {
		a int64
		b int32
		c int16
	}

	alloc, err := NewAllocator[TestStruct](Linear, WithCapacity(1024))
	require.NoError(t, err)
	defer alloc.Release()

	ptr, err := New(alloc)
	require.NoError(t, err)
	require.NotNil(t, ptr)
	ptr.a, ptr.b, ptr.c = 1, 2, 3

	expectedSize := unsafe.Sizeof(TestStruct{})
	require.Equal(t, int(expectedSize), alloc.Resource().Len())

	slice, err := AllocateSlice(alloc, 10, 20)
	require.NoError(t, err)
	require.Len(t, slice, 10)
	require.Equal(t, 20, cap(slice))

	expectedSize += unsafe.Sizeof(TestStruct{}) * 20
	require.Equal(t, int(expectedSize), alloc.Resource().Len())
	require.Equal(t, int64(1), ptr.a)
}

func TestLinearHugeRequest(t *testing.T) {
	res := newTestResource(t, Linear, WithCapacity(64))

	p1, err := res.Allocate(8)
	require.NoError(t, err)

	for _, n := range []uintptr{^uintptr(0), ^uintptr(0) - 7, 57} {
		_, err = res.Allocate(n)
		require.ErrorIs(t, err, ErrOverflow, "size %d", n)
		require.Equal(t, 8, res.Len())
	}

	// the cursor did not move
	p2, err := res.Allocate(8)
	require.NoError(t, err)
	require.Equal(t, uintptr(p1)+8, uintptr(p2))
}

func BenchmarkLinearAllocate(b *testing.B) {
	res, _ := NewResource(Linear, Layout{Size: 8, Align: 8}, WithCapacity(Size(4, MiB)))
	defer res.Release()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := res.Allocate(8); err != nil {
			res.Reset()
		}
	}
}
