//go:build unix

package slab

import (
	"errors"

	"golang.org/x/sys/unix"
)

var errNoMmap = errors.New("slab: mmap not supported")

// mapAnon maps size bytes of private anonymous memory. The kernel zero-fills it.
func mapAnon(size int) ([]byte, error) {
	return unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
}

func unmap(data []byte) error {
	err := unix.Munmap(data)
	if errors.Is(err, unix.EINVAL) {
		// Treat double-unmap as no-op for callers.
		return nil
	}
	return err
}
