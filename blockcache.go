// SPDX-License-Identifier: Apache-2.0

package arena

import (
	"sync"
	"weak"
)

// BlockCache recycles the Go-heap blocks of destroyed Resources so that the
// next Resource with the same size and alignment can skip a fresh allocation.
//
// Blocks are parked as weak pointers: the GC may reclaim any of them at any
// time, which lets memory pressure decide how many idle blocks survive.
// A BlockCache may be shared by Resources owned by different goroutines.
type BlockCache struct {
	mu     sync.Mutex
	blocks map[blockKey][]weak.Pointer[block]
	hits   int
	misses int
}

type blockKey struct {
	size  uintptr
	align uintptr
}

// BlockCacheStats reports how often acquisitions were served from the cache.
type BlockCacheStats struct {
	Hits   int
	Misses int
	Parked int
}

// NewBlockCache creates an empty BlockCache.
func NewBlockCache() *BlockCache {
	return &BlockCache{
		blocks: make(map[blockKey][]weak.Pointer[block]),
	}
}

// acquire pops a parked block of the given shape, or returns nil.
func (c *BlockCache) acquire(size, align uintptr) *block {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := blockKey{size: size, align: align}
	parked := c.blocks[key]
	for len(parked) > 0 {
		last := len(parked) - 1
		wp := parked[last]
		parked = parked[:last]

		if b := wp.Value(); b != nil {
			c.blocks[key] = parked
			c.hits++
			b.zero()
			return b
		}
		// collected by the GC, try the next one
	}
	delete(c.blocks, key)
	c.misses++
	return nil
}

// park hands a block back for reuse. Only Go-heap blocks are parked.
func (c *BlockCache) park(b *block) bool {
	if b.backing != GoHeap || b.buf == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	key := blockKey{size: b.size, align: b.align}
	c.blocks[key] = append(c.blocks[key], weak.Make(b))
	return true
}

// Stats returns a snapshot of the cache counters. Parked counts entries that
// may already have been collected.
func (c *BlockCache) Stats() BlockCacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := BlockCacheStats{Hits: c.hits, Misses: c.misses}
	for _, parked := range c.blocks {
		s.Parked += len(parked)
	}
	return s
}
