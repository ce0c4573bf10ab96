// SPDX-License-Identifier: Apache-2.0

//go:build !unix

package arena

func mapBlock(size uintptr) ([]byte, error) {
	return make([]byte, size), nil
}

func unmapBlock([]byte) error {
	return nil
}
