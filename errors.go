// SPDX-License-Identifier: Apache-2.0

package arena

import "errors"

// Kind classifies the failures raised by strategies, Resources and Allocators.
type Kind uint8

const (
	// Overflow means an allocation would exceed the configured byte budget.
	Overflow Kind = iota
	// MetaOutOfRange means the Stack or Pool bookkeeping table cannot hold
	// what is asked of it.
	MetaOutOfRange
	// EmptyStack means Deallocate was called on a Stack with nothing allocated.
	EmptyStack
	// DisposedPointer means the pointer handed to Deallocate was not issued
	// by this strategy or is no longer live.
	DisposedPointer
	// ResourceUninitialized means the Resource has no backing block yet, or
	// has already released it.
	ResourceUninitialized
	// UnknownStrategy means a Resource was configured with an invalid Strategy.
	UnknownStrategy
	// RebindLimit means a root Allocator has no free rebind cache slot left.
	RebindLimit
)

var kindNames = [...]string{
	Overflow:              "Overflow",
	MetaOutOfRange:        "MetaOutOfRange",
	EmptyStack:            "EmptyStack",
	DisposedPointer:       "DisposedPointer",
	ResourceUninitialized: "ResourceUninitialized",
	UnknownStrategy:       "UnknownStrategy",
	RebindLimit:           "RebindLimit",
}

var kindMessages = [...]string{
	Overflow:              "arena: resource overflow",
	MetaOutOfRange:        "arena: bookkeeping table out of range",
	EmptyStack:            "arena: deallocate on empty stack",
	DisposedPointer:       "arena: pointer not owned by this pool",
	ResourceUninitialized: "arena: resource not initialized",
	UnknownStrategy:       "arena: unknown strategy",
	RebindLimit:           "arena: rebind cache is full",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Unknown"
}

// Error is the error type returned by this package. It carries only its Kind.
type Error struct {
	Kind Kind
}

func (e *Error) Error() string {
	if int(e.Kind) < len(kindMessages) {
		return kindMessages[e.Kind]
	}
	return "arena: undefined error"
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrOverflow              = &Error{Kind: Overflow}
	ErrMetaOutOfRange        = &Error{Kind: MetaOutOfRange}
	ErrEmptyStack            = &Error{Kind: EmptyStack}
	ErrDisposedPointer       = &Error{Kind: DisposedPointer}
	ErrResourceUninitialized = &Error{Kind: ResourceUninitialized}
	ErrUnknownStrategy       = &Error{Kind: UnknownStrategy}
	ErrRebindLimit           = &Error{Kind: RebindLimit}
)

// KindOf extracts the Kind of an error returned by this package.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}
