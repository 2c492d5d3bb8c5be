package gc

import "fmt"

const (
	chunkShift = 8
	chunkSize  = 1 << chunkShift
	chunkMask  = chunkSize - 1
)

// grow appends n zeroed slots to the arena and prepends each to the free chain.
func (c *Collector[T]) grow(n int) {
	if n <= 0 {
		return
	}
	if n > MaxObjects-c.nslots {
		panic(fmt.Errorf("%w: have %d, adding %d (max %d)", ErrTooManyObjects, c.nslots, n, MaxObjects))
	}

	for range n {
		i := c.nslots
		if i&chunkMask == 0 {
			c.chunks = append(c.chunks, make([]slot[T], chunkSize))
		}
		s := &c.chunks[i>>chunkShift][i&chunkMask]
		c.nslots++

		if c.cfg.init != nil {
			c.cfg.init(&s.value)
		}
		s.next = c.free
		c.free = refAt(i)
		c.nfree++
	}

	c.stats.Grows++
	c.log.Debug("gc: grow", "added", n, "objects", c.nslots)
}

// slot returns the slot for a ref known to be in range.
func (c *Collector[T]) slot(ref Ref) *slot[T] {
	i := ref.index()
	return &c.chunks[i>>chunkShift][i&chunkMask]
}

// lookup returns the slot for ref, or nil if ref is Nil or out of range.
func (c *Collector[T]) lookup(ref Ref) *slot[T] {
	if ref == Nil || int(ref) > c.nslots {
		return nil
	}
	return c.slot(ref)
}
