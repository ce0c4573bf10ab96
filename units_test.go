// SPDX-License-Identifier: Apache-2.0

package arena

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestQuantityConversions(t *testing.T) {
	q := Quantity{Count: 3, Unit: GiB}
	require.Equal(t, uint64(3*1024*1024*1024), q.Bytes())
	require.Equal(t, uint64(3*1024*1024), q.Kibibytes())
	require.Equal(t, uint64(3*1024), q.Mebibytes())
	require.Equal(t, uint64(3), q.Gibibytes())
	require.Equal(t, uint64(3221225), q.Kilobytes())
	require.Equal(t, uint64(3221), q.Megabytes())
	require.Equal(t, uint64(3), q.Gigabytes())

	// conversions truncate toward zero
	require.Zero(t, Quantity{Count: 1023, Unit: Byte}.Kibibytes())
	require.Equal(t, uint64(1), Quantity{Count: 1, Unit: KiB}.Kilobytes())
}

func TestSize(t *testing.T) {
	require.Equal(t, uintptr(20480), Size(20, KiB))
	require.Equal(t, uintptr(2_000_000), Size(2, MB))
	require.Equal(t, DefaultCapacity, Size(20, KiB))
	require.Equal(t, DefaultMetaCapacity, DefaultCapacity)
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		in   string
		want uintptr
	}{
		{"20 KiB", 20 * 1024},
		{"4MiB", 4 * 1024 * 1024},
		{"1.5GB", 1_500_000_000},
		{"512", 512},
		{"16 b", 16},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSize(tt.in)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}

	_, err := ParseSize("twenty kilobytes")
	require.ErrorContains(t, err, `arena: parse size "twenty kilobytes"`)
}

func TestFormatSize(t *testing.T) {
	require.Equal(t, "512 B", FormatSize(512))
	require.Equal(t, "20 KiB", FormatSize(DefaultCapacity))
	require.Equal(t, "1.0 MiB", FormatSize(Size(1, MiB)))

	n, err := ParseSize(FormatSize(Size(64, KiB)))
	require.NoError(t, err)
	require.Equal(t, Size(64, KiB), n)
}
