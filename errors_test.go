// SPDX-License-Identifier: Apache-2.0

package arena

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorKinds(t *testing.T) {
	tests := []struct {
		err  error
		kind Kind
		name string
		msg  string
	}{
		{ErrOverflow, Overflow, "Overflow", "arena: resource overflow"},
		{ErrMetaOutOfRange, MetaOutOfRange, "MetaOutOfRange", "arena: bookkeeping table out of range"},
		{ErrEmptyStack, EmptyStack, "EmptyStack", "arena: deallocate on empty stack"},
		{ErrDisposedPointer, DisposedPointer, "DisposedPointer", "arena: pointer not owned by this pool"},
		{ErrResourceUninitialized, ResourceUninitialized, "ResourceUninitialized", "arena: resource not initialized"},
		{ErrUnknownStrategy, UnknownStrategy, "UnknownStrategy", "arena: unknown strategy"},
		{ErrRebindLimit, RebindLimit, "RebindLimit", "arena: rebind cache is full"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.name, tt.kind.String())
			require.EqualError(t, tt.err, tt.msg)

			kind, ok := KindOf(tt.err)
			require.True(t, ok)
			require.Equal(t, tt.kind, kind)

			// a fresh value of the same kind matches the sentinel
			require.ErrorIs(t, &Error{Kind: tt.kind}, tt.err)
		})
	}
}

func TestErrorWrapping(t *testing.T) {
	wrapped := fmt.Errorf("allocating frame: %w", ErrOverflow)
	require.ErrorIs(t, wrapped, ErrOverflow)
	require.NotErrorIs(t, wrapped, ErrEmptyStack)

	kind, ok := KindOf(wrapped)
	require.True(t, ok)
	require.Equal(t, Overflow, kind)

	_, ok = KindOf(errors.New("unrelated"))
	require.False(t, ok)
	_, ok = KindOf(nil)
	require.False(t, ok)
}

func TestErrorUnknownKind(t *testing.T) {
	require.Equal(t, "Unknown", Kind(99).String())
	require.EqualError(t, &Error{Kind: 99}, "arena: undefined error")
}
