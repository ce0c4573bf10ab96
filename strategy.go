// SPDX-License-Identifier: Apache-2.0

package arena

import (
	"fmt"
	"strings"
	"unsafe"
)

// Strategy selects how a Resource hands out memory. It is fixed when the
// Resource is constructed.
type Strategy uint8

const (
	// Heap forwards every request to the Go allocator.
	Heap Strategy = iota
	// Linear is a bump allocator that never reclaims individual blocks.
	Linear
	// Stack reclaims blocks in strict LIFO order.
	Stack
	// Pool hands out fixed-width slots from a free list.
	Pool
)

var strategyNames = [...]string{
	Heap:   "heap",
	Linear: "linear",
	Stack:  "stack",
	Pool:   "pool",
}

func (s Strategy) String() string {
	if s.Valid() {
		return strategyNames[s]
	}
	return fmt.Sprintf("strategy(%d)", uint8(s))
}

// Valid reports whether s is one of the known strategies.
func (s Strategy) Valid() bool {
	return int(s) < len(strategyNames)
}

// ParseStrategy maps a strategy name to its Strategy.
func ParseStrategy(name string) (Strategy, error) {
	for i, n := range strategyNames {
		if strings.EqualFold(n, name) {
			return Strategy(i), nil
		}
	}
	return 0, ErrUnknownStrategy
}

// engine is the capability set shared by all strategies. Engines work over a
// block they do not own and are never copied once constructed.
type engine interface {
	allocate(n uintptr) (unsafe.Pointer, error)
	deallocate(p unsafe.Pointer, n uintptr) error
	reset()
	inUse() uintptr
}

func newEngine(cfg *Config, base unsafe.Pointer) (engine, error) {
	switch cfg.Strategy {
	case Heap:
		return newHeapEngine(), nil
	case Linear:
		return newLinearEngine(base, cfg.Capacity), nil
	case Stack:
		return newStackEngine(base, cfg.Capacity, cfg.MetaCapacity)
	case Pool:
		return newPoolEngine(base, cfg.Capacity, cfg.PoolSlotSize, cfg.MetaCapacity)
	default:
		return nil, ErrUnknownStrategy
	}
}
