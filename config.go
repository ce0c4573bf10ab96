// SPDX-License-Identifier: Apache-2.0

package arena

import (
	"fmt"
	"io"
	"log/slog"
)

// Config holds everything a Resource is built from. It is fixed once the
// Resource exists.
type Config struct {
	// Strategy selects the allocation engine.
	Strategy Strategy
	// Capacity is the byte budget of the backing block.
	Capacity uintptr
	// MetaCapacity is the byte budget of the Stack and Pool bookkeeping
	// tables. Rebinding to a Container type also sizes the new Resource with it.
	MetaCapacity uintptr
	// PoolSlotSize is the slot width of the Pool strategy.
	PoolSlotSize uintptr
	// Layout is the element layout the Resource serves; the block is aligned
	// to Layout.Align.
	Layout Layout
	// ShareOnCopy makes copies of an Allocator share this Resource instead of
	// cloning it.
	ShareOnCopy bool
	// Backing selects where the block comes from.
	Backing Backing
	// RebindSlots bounds the rebind cache of a root Allocator.
	RebindSlots int
	// Logger receives debug records about the Resource lifecycle.
	Logger *slog.Logger
	// Blocks, when set, recycles Go-heap blocks between Resources.
	Blocks *BlockCache
}

// Option configures a Resource.
type Option func(*Config)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// DefaultConfig returns the configuration used when no options are given.
func DefaultConfig(strategy Strategy, layout Layout) Config {
	return Config{
		Strategy:     strategy,
		Capacity:     DefaultCapacity,
		MetaCapacity: DefaultMetaCapacity,
		PoolSlotSize: DefaultPoolSlotSize,
		Layout:       layout,
		Backing:      GoHeap,
		RebindSlots:  DefaultRebindSlots,
		Logger:       discardLogger,
	}
}

// WithCapacity sets the byte budget of the backing block.
func WithCapacity(n uintptr) Option {
	return func(c *Config) {
		c.Capacity = n
	}
}

// WithMetaCapacity sets the byte budget of the bookkeeping tables.
func WithMetaCapacity(n uintptr) Option {
	return func(c *Config) {
		c.MetaCapacity = n
	}
}

// WithPoolSlotSize sets the slot width of the Pool strategy.
func WithPoolSlotSize(h uintptr) Option {
	return func(c *Config) {
		c.PoolSlotSize = h
	}
}

// WithShareOnCopy controls whether copied Allocators share the Resource.
func WithShareOnCopy(share bool) Option {
	return func(c *Config) {
		c.ShareOnCopy = share
	}
}

// WithBacking selects where the backing block is allocated.
func WithBacking(b Backing) Option {
	return func(c *Config) {
		c.Backing = b
	}
}

// WithRebindSlots bounds the number of sibling Resources a root Allocator
// caches for rebind requests.
func WithRebindSlots(n int) Option {
	return func(c *Config) {
		c.RebindSlots = n
	}
}

// WithLogger sets the logger for lifecycle records.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) {
		if l != nil {
			c.Logger = l
		}
	}
}

// WithBlockCache lets the Resource recycle its block through cache.
func WithBlockCache(cache *BlockCache) Option {
	return func(c *Config) {
		c.Blocks = cache
	}
}

func (c Config) String() string {
	s := fmt.Sprintf("%s capacity=%s layout=%s", c.Strategy, FormatSize(c.Capacity), c.Layout)
	if c.Strategy == Pool {
		s += fmt.Sprintf(" slot=%d", c.PoolSlotSize)
	}
	if c.ShareOnCopy {
		s += " shared"
	}
	return s
}

func (c Config) logAttrs() []any {
	return []any{
		slog.String("strategy", c.Strategy.String()),
		slog.String("capacity", FormatSize(c.Capacity)),
		slog.String("layout", c.Layout.String()),
		slog.String("backing", c.Backing.String()),
	}
}
