// SPDX-License-Identifier: Apache-2.0

package arena

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// Unit is a memory size unit expressed in bytes.
type Unit uint64

const (
	Byte Unit = 1
	KB   Unit = 1000
	KiB  Unit = 1024
	MB   Unit = 1000 * KB
	MiB  Unit = 1024 * KiB
	GB   Unit = 1000 * MB
	GiB  Unit = 1024 * MiB
)

const (
	// DefaultCapacity is the byte budget of a Resource when none is configured.
	DefaultCapacity = uintptr(20 * KiB)

	// DefaultMetaCapacity is the byte budget of the bookkeeping tables used by
	// the Stack and Pool strategies.
	DefaultMetaCapacity = DefaultCapacity

	// DefaultPoolSlotSize is the width of the largest standard scalar type.
	DefaultPoolSlotSize = uintptr(16)

	// DefaultRebindSlots is the number of sibling Resources a root Allocator
	// caches for rebind requests.
	DefaultRebindSlots = 5
)

// Quantity is a count of some Unit, convertible to any other unit.
type Quantity struct {
	Count uint64
	Unit  Unit
}

func (q Quantity) in(u Unit) uint64 { return q.Count * uint64(q.Unit) / uint64(u) }

func (q Quantity) Bytes() uint64     { return q.in(Byte) }
func (q Quantity) Kibibytes() uint64 { return q.in(KiB) }
func (q Quantity) Kilobytes() uint64 { return q.in(KB) }
func (q Quantity) Mebibytes() uint64 { return q.in(MiB) }
func (q Quantity) Megabytes() uint64 { return q.in(MB) }
func (q Quantity) Gibibytes() uint64 { return q.in(GiB) }
func (q Quantity) Gigabytes() uint64 { return q.in(GB) }

// Size returns count units as a byte count.
func Size(count uint64, unit Unit) uintptr {
	return uintptr(Quantity{Count: count, Unit: unit}.Bytes())
}

// ParseSize parses a human readable size such as "20 KiB", "4MiB" or "1.5GB".
func ParseSize(s string) (uintptr, error) {
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("arena: parse size %q: %w", s, err)
	}
	return uintptr(n), nil
}

// FormatSize renders n using IEC units.
func FormatSize(n uintptr) string {
	return humanize.IBytes(uint64(n))
}
