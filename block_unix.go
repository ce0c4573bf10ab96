// SPDX-License-Identifier: Apache-2.0

//go:build unix

package arena

import (
	"errors"

	"golang.org/x/sys/unix"
)

func mapBlock(size uintptr) ([]byte, error) {
	return unix.Mmap(-1, 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
}

func unmapBlock(buf []byte) error {
	err := unix.Munmap(buf)
	if errors.Is(err, unix.EINVAL) {
		// already unmapped
		return nil
	}
	return err
}
