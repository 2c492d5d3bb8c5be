//go:build !unix

package slab

import "errors"

var errNoMmap = errors.New("slab: mmap not supported")

// mapAnon is unavailable; callers fall back to Go-allocated chunks.
func mapAnon(int) ([]byte, error) { return nil, errNoMmap }

func unmap([]byte) error { return nil }
