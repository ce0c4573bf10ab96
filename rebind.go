// SPDX-License-Identifier: Apache-2.0

package arena

import (
	"log/slog"
)

// cacheEntry is a sibling Resource created for one element layout.
type cacheEntry struct {
	layout Layout
	res    *Resource
}

// rebindCache is the side table of a root Allocator. Each entry holds one
// reference to its Resource.
type rebindCache struct {
	entries []cacheEntry
}

func (c *rebindCache) find(l Layout) *Resource {
	for _, e := range c.entries {
		if e.layout == l {
			return e.res
		}
	}
	return nil
}

func (c *rebindCache) release() {
	for _, e := range c.entries {
		e.res.Release()
	}
	c.entries = nil
}

// Rebind returns an Allocator for U drawing from a Resource laid out for U.
//
// The rebind chain of from is walked to its root. The root's own Resource is
// reused when it already serves U's layout and allows sharing; otherwise the
// root's cache is searched for a Resource of U's layout, and on a miss a new
// one is created with from's strategy and capacity and cached on the root.
// A new Resource for a Container type gets the root's meta capacity instead.
// The cache holds at most Config.RebindSlots entries; a miss on a full cache
// fails with ErrRebindLimit.
func Rebind[U, T any](from *Allocator[T]) (*Allocator[U], error) {
	if from.res == nil {
		return nil, ErrResourceUninitialized
	}
	target := LayoutOf[U]()

	var root node = from
	for root.parentNode() != nil {
		root = root.parentNode()
	}
	rootRes := root.resource()
	if rootRes == nil {
		return nil, ErrResourceUninitialized
	}

	res, err := lookupOrCreate[U](root.cache(), rootRes, from.res, target)
	if err != nil {
		return nil, err
	}
	res.Retain()
	return &Allocator[U]{res: res, parent: from}, nil
}

func lookupOrCreate[U any](side *rebindCache, rootRes, fromRes *Resource, target Layout) (*Resource, error) {
	if rootRes.Layout() == target && rootRes.ShareOnCopy() {
		return rootRes, nil
	}
	if res := side.find(target); res != nil {
		return res, nil
	}

	limit := rootRes.Config().RebindSlots
	if len(side.entries) >= limit {
		return nil, ErrRebindLimit
	}

	cfg := fromRes.Config()
	cfg.Layout = target
	cfg.ShareOnCopy = false
	cfg.PoolSlotSize = target.Size
	if isContainer[U]() {
		cfg.Capacity = rootRes.MetaCapacity()
	}
	res, err := newResource(cfg)
	if err != nil {
		return nil, err
	}
	side.entries = append(side.entries, cacheEntry{layout: target, res: res})
	cfg.Logger.Debug("arena: rebind resource created",
		slog.String("layout", target.String()),
		slog.Int("cached", len(side.entries)))
	return res, nil
}

// CachedLayouts returns the layouts held in a's rebind cache, in insertion
// order. Only roots have a cache.
func (a *Allocator[T]) CachedLayouts() []Layout {
	out := make([]Layout, 0, len(a.side.entries))
	for _, e := range a.side.entries {
		out = append(out, e.layout)
	}
	return out
}
