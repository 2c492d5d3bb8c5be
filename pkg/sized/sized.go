// Package sized is a malloc-style allocator built from one collector per request size.
//
// Every distinct size gets its own gc.Collector whose objects are byte payloads of
// exactly that size, carved from a shared slab arena. Rooted blocks live until
// Release; unrooted blocks may be reclaimed by any later Malloc of the same size.
//
// Allocator instances are not thread-safe.
package sized

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/joshuapare/gckit/gc"
	"github.com/joshuapare/gckit/internal/logger"
	"github.com/joshuapare/gckit/internal/slab"
)

var (
	// ErrZeroSize indicates a request for zero (or negative) bytes.
	ErrZeroSize = errors.New("sized: size must be positive")

	// ErrClosed indicates use of an allocator after Close.
	ErrClosed = errors.New("sized: allocator closed")
)

// Config controls per-size collectors and their backing memory.
type Config struct {
	InitialObjects int          // Objects per size class on first use, and growth step
	ChunkSize      int          // Slab chunk size in bytes
	UseMmap        bool         // Back slab chunks with anonymous mappings where supported
	Logger         *slog.Logger // Defaults to the package logger
}

// DefaultConfig matches the original 1024-objects-per-size behaviour.
var DefaultConfig = Config{
	InitialObjects: 1024,
	ChunkSize:      slab.DefaultChunkSize,
	UseMmap:        true,
}

// Block is the payload of one sized object.
type Block struct {
	data []byte
}

// Handle names a block: the size class it lives in and its ref there.
type Handle struct {
	Size int
	Ref  gc.Ref
}

// SizeStats pairs a size class with its collector counters.
type SizeStats struct {
	Size int `json:"size"`
	gc.Stats
}

// Allocator owns one collector per request size.
type Allocator struct {
	cfg    Config
	arena  *slab.Arena
	heaps  map[int]*gc.Collector[Block]
	sizes  []int
	log    *slog.Logger
	take   func(n int) ([]byte, error)
	closed bool
}

// New returns an empty allocator. Non-positive InitialObjects and ChunkSize and a nil
// Logger take their DefaultConfig values; UseMmap is used as given.
func New(cfg Config) *Allocator {
	if cfg.InitialObjects <= 0 {
		cfg.InitialObjects = DefaultConfig.InitialObjects
	}
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = DefaultConfig.ChunkSize
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.L
	}
	a := &Allocator{
		cfg:   cfg,
		arena: slab.New(cfg.ChunkSize, cfg.UseMmap),
		heaps: make(map[int]*gc.Collector[Block]),
		log:   cfg.Logger,
	}
	a.take = a.arena.Take
	return a
}

// heap returns the collector for size, creating it on first use.
func (a *Allocator) heap(size int) *gc.Collector[Block] {
	if c, ok := a.heaps[size]; ok {
		return c
	}
	c := gc.New(a.cfg.InitialObjects,
		gc.WithInit(func(b *Block) {
			// Blocks left empty here are filled by Malloc.
			data, err := a.take(size)
			if err != nil {
				a.log.Debug("sized: deferred block", "size", size, "error", err)
				return
			}
			b.data = data
		}),
		gc.WithGrowBy[Block](a.cfg.InitialObjects),
		gc.WithLogger[Block](a.log.With("size", size)),
	)
	a.heaps[size] = c
	a.sizes = append(a.sizes, size)
	a.log.Debug("sized: new size class", "size", size, "objects", a.cfg.InitialObjects)
	return c
}

// Malloc returns a zeroed block of size bytes. With root set the block stays alive
// until Release; otherwise the caller must keep it reachable some other way or accept
// that the next Malloc of this size may reclaim it.
func (a *Allocator) Malloc(size int, root bool) (Handle, []byte, error) {
	if a.closed {
		return Handle{}, nil, ErrClosed
	}
	if size <= 0 {
		return Handle{}, nil, ErrZeroSize
	}

	c := a.heap(size)
	ref := c.MustAlloc()
	b := c.Get(ref)
	if b.data == nil {
		data, err := a.take(size)
		if err != nil {
			return Handle{}, nil, fmt.Errorf("sized: malloc %d: %w", size, err)
		}
		b.data = data
	}
	clear(b.data)
	if root {
		c.Root(ref)
	}
	return Handle{Size: size, Ref: ref}, b.data, nil
}

// Strdup copies s into a new block.
func (a *Allocator) Strdup(s string, root bool) (Handle, error) {
	h, buf, err := a.Malloc(len(s), root)
	if err != nil {
		return Handle{}, err
	}
	copy(buf, s)
	return h, nil
}

// Bytes returns the payload of a live block, or nil.
func (a *Allocator) Bytes(h Handle) []byte {
	if a.closed {
		return nil
	}
	c, ok := a.heaps[h.Size]
	if !ok {
		return nil
	}
	b := c.Get(h.Ref)
	if b == nil {
		return nil
	}
	return b.data
}

// String returns the payload of a live block as a string.
func (a *Allocator) String(h Handle) string {
	return string(a.Bytes(h))
}

// Root keeps h alive until Release.
func (a *Allocator) Root(h Handle) {
	if c, ok := a.heaps[h.Size]; ok && !a.closed {
		c.Root(h.Ref)
	}
}

// Release drops every root entry for h.
func (a *Allocator) Release(h Handle) {
	if c, ok := a.heaps[h.Size]; ok && !a.closed {
		c.Unroot(h.Ref)
	}
}

// Collect runs a pass on every size class and returns the number of blocks reclaimed.
func (a *Allocator) Collect() int {
	if a.closed {
		return 0
	}
	swept := 0
	for _, size := range a.sizes {
		swept += a.heaps[size].Collect().Swept
	}
	return swept
}

// Stats returns counters per size class, smallest size first.
func (a *Allocator) Stats() []SizeStats {
	if a.closed {
		return nil
	}
	sizes := slices.Sorted(slices.Values(a.sizes))
	out := make([]SizeStats, 0, len(sizes))
	for _, size := range sizes {
		out = append(out, SizeStats{Size: size, Stats: a.heaps[size].Stats()})
	}
	return out
}

// Arena exposes the backing slab for inspection.
func (a *Allocator) Arena() *slab.Arena { return a.arena }

// Close frees every collector and then the slab memory behind them.
func (a *Allocator) Close() error {
	if a.closed {
		return nil
	}
	a.closed = true
	for _, size := range a.sizes {
		c := a.heaps[size]
		gc.Free(&c)
	}
	a.heaps = nil
	a.sizes = nil
	return a.arena.Release()
}
