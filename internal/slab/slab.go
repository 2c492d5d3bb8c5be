// Package slab carves fixed-size byte payloads out of large chunks so that a
// collector's objects do not each cost a separate heap allocation.
package slab

import (
	"errors"
	"fmt"
)

// DefaultChunkSize is the chunk size used when New is given a non-positive size.
const DefaultChunkSize = 64 << 10

// ErrReleased indicates use of an arena after Release.
var ErrReleased = errors.New("slab: arena released")

// Arena hands out zeroed byte slices from chunks it owns. Chunks are either anonymous
// memory mappings or ordinary Go slices, and are only returned all at once by Release.
type Arena struct {
	chunkSize int
	useMmap   bool

	chunks   []chunk
	cur      []byte // unused tail of the newest chunk
	taken    int64
	released bool
}

type chunk struct {
	data   []byte
	mapped bool
}

// New returns an arena that allocates chunkSize bytes at a time. When useMmap is set
// and the platform supports it, chunks are mapped anonymously.
func New(chunkSize int, useMmap bool) *Arena {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &Arena{chunkSize: chunkSize, useMmap: useMmap}
}

// Take returns n zeroed bytes. Requests larger than the chunk size get a chunk of
// their own.
func (a *Arena) Take(n int) ([]byte, error) {
	if a.released {
		return nil, ErrReleased
	}
	if n <= 0 {
		return []byte{}, nil
	}
	if len(a.cur) < n {
		size := max(a.chunkSize, n)
		c, err := a.newChunk(size)
		if err != nil {
			return nil, fmt.Errorf("slab: chunk of %d bytes: %w", size, err)
		}
		a.chunks = append(a.chunks, c)
		a.cur = c.data
	}
	b := a.cur[:n:n]
	a.cur = a.cur[n:]
	a.taken += int64(n)
	return b, nil
}

func (a *Arena) newChunk(size int) (chunk, error) {
	if a.useMmap {
		data, err := mapAnon(size)
		if err == nil {
			return chunk{data: data, mapped: true}, nil
		}
		if !errors.Is(err, errNoMmap) {
			return chunk{}, err
		}
	}
	return chunk{data: make([]byte, size)}, nil
}

// Chunks returns the number of chunks the arena holds.
func (a *Arena) Chunks() int { return len(a.chunks) }

// Mapped returns the number of chunks backed by a memory mapping.
func (a *Arena) Mapped() int {
	n := 0
	for _, c := range a.chunks {
		if c.mapped {
			n++
		}
	}
	return n
}

// Taken returns the number of bytes handed out so far.
func (a *Arena) Taken() int64 { return a.taken }

// Release returns every chunk. Slices handed out by Take must not be used afterwards.
// Releasing twice is a no-op.
func (a *Arena) Release() error {
	if a.released {
		return nil
	}
	a.released = true

	var errs []error
	for _, c := range a.chunks {
		if c.mapped {
			if err := unmap(c.data); err != nil {
				errs = append(errs, err)
			}
		}
	}
	a.chunks = nil
	a.cur = nil
	return errors.Join(errs...)
}
