// SPDX-License-Identifier: Apache-2.0

package arena

import (
	"math"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

func TestPoolSixteenByFour(t *testing.T) {
	res := newTestResource(t, Pool, WithCapacity(16), WithPoolSlotSize(4))

	ptrs := make([]unsafe.Pointer, 0, 4)
	for i := 0; i < 4; i++ {
		ptr, err := res.Allocate(4)
		require.NoError(t, err)
		ptrs = append(ptrs, ptr)
	}
	for i := 1; i < 4; i++ {
		require.Equal(t, uintptr(ptrs[0])+uintptr(i)*4, uintptr(ptrs[i]))
	}

	_, err := res.Allocate(4)
	require.ErrorIs(t, err, ErrOverflow)

	require.NoError(t, res.Deallocate(ptrs[1], 4))
	ptr, err := res.Allocate(4)
	require.NoError(t, err)
	require.Equal(t, ptrs[1], ptr)
}

func TestPoolFreeListIsLIFO(t *testing.T) {
	res := newTestResource(t, Pool, WithCapacity(64), WithPoolSlotSize(8))

	ptrs := make([]unsafe.Pointer, 0, 6)
	for i := 0; i < 6; i++ {
		ptr, err := res.Allocate(8)
		require.NoError(t, err)
		ptrs = append(ptrs, ptr)
	}

	for _, p := range ptrs {
		require.NoError(t, res.Deallocate(p, 8))
		again, err := res.Allocate(8)
		require.NoError(t, err)
		require.Equal(t, p, again)
	}

	require.NoError(t, res.Deallocate(ptrs[0], 8))
	require.NoError(t, res.Deallocate(ptrs[3], 8))
	require.NoError(t, res.Deallocate(ptrs[5], 8))

	for _, want := range []unsafe.Pointer{ptrs[5], ptrs[3], ptrs[0]} {
		got, err := res.Allocate(8)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}

	// free list drained, the next slot is carved fresh
	got, err := res.Allocate(8)
	require.NoError(t, err)
	require.Equal(t, uintptr(ptrs[0])+6*8, uintptr(got))
}

func TestPoolDisposedPointer(t *testing.T) {
	// the pool works over the middle of buf so every probe stays inside it
	buf := make([]byte, 128)
	base := unsafe.Pointer(&buf[32])
	pool, err := newPoolEngine(base, 32, 8, DefaultMetaCapacity)
	require.NoError(t, err)

	p, err := pool.allocate(8)
	require.NoError(t, err)
	require.Equal(t, base, p)

	tests := []struct {
		name string
		ptr  unsafe.Pointer
	}{
		{"before block", unsafe.Add(base, -8)},
		{"not slot aligned", unsafe.Add(base, 3)},
		{"at capacity", unsafe.Add(base, 32)},
		{"past capacity", unsafe.Add(base, 64)},
		{"frontier slot", unsafe.Add(base, 8)},
		{"never carved", unsafe.Add(base, 16)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := pool.deallocate(tt.ptr, 8)
			require.ErrorIs(t, err, ErrDisposedPointer)
		})
	}

	require.NoError(t, pool.deallocate(p, 8))
	// double free
	require.ErrorIs(t, pool.deallocate(p, 8), ErrDisposedPointer)
	require.Zero(t, pool.inUse())
}

func TestPoolRequestWiderThanSlot(t *testing.T) {
	res := newTestResource(t, Pool, WithCapacity(64), WithPoolSlotSize(8))

	_, err := res.Allocate(9)
	require.ErrorIs(t, err, ErrOverflow)

	// smaller requests still take a whole slot
	_, err = res.Allocate(1)
	require.NoError(t, err)
	require.Equal(t, 8, res.Len())
}

func TestPoolMetaBudget(t *testing.T) {
	slot := unsafe.Sizeof(poolSlot{})

	res := newTestResource(t, Pool, WithMetaCapacity(slot-1))
	_, err := res.Allocate(1)
	require.ErrorIs(t, err, ErrMetaOutOfRange)
	require.False(t, res.Initialized())

	// room for two carved slots plus the frontier
	res = newTestResource(t, Pool, WithCapacity(64), WithPoolSlotSize(8), WithMetaCapacity(3*slot))
	p1, err := res.Allocate(8)
	require.NoError(t, err)
	_, err = res.Allocate(8)
	require.NoError(t, err)
	_, err = res.Allocate(8)
	require.ErrorIs(t, err, ErrMetaOutOfRange)

	// freed slots do not need new table entries
	require.NoError(t, res.Deallocate(p1, 8))
	again, err := res.Allocate(8)
	require.NoError(t, err)
	require.Equal(t, p1, again)
}

func TestPoolReset(t *testing.T) {
	res := newTestResource(t, Pool, WithCapacity(16), WithPoolSlotSize(4))

	first, err := res.Allocate(4)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err = res.Allocate(4)
		require.NoError(t, err)
	}
	res.Reset()
	require.Equal(t, 0, res.Len())
	require.Equal(t, 16, res.Peak())

	again, err := res.Allocate(4)
	require.NoError(t, err)
	require.Equal(t, first, again)
}

func BenchmarkPoolAllocateFree(b *testing.B) {
	res, _ := NewResource(Pool, Layout{Size: 16, Align: 16}, WithCapacity(Size(64, KiB)))
	defer res.Release()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p, err := res.Allocate(16)
		if err != nil {
			b.Fatal(err)
		}
		if err := res.Deallocate(p, 16); err != nil {
			b.Fatal(err)
		}
	}
}

func TestPoolHugeSlotWidth(t *testing.T) {
	res := newTestResource(t, Pool, WithCapacity(64), WithPoolSlotSize(^uintptr(0)))

	_, err := res.Allocate(1)
	require.ErrorIs(t, err, ErrOverflow)
	require.Equal(t, 0, res.Len())
}

func TestPoolEntryLimitFitsSlotIndex(t *testing.T) {
	buf := make([]byte, 64)
	pool, err := newPoolEngine(unsafe.Pointer(&buf[0]), ^uintptr(0)/2, 1, ^uintptr(0))
	require.NoError(t, err)
	require.LessOrEqual(t, pool.limit, uintptr(math.MaxInt32))
	// the table only grows as slots are carved
	require.Len(t, pool.slots, 1)
}
