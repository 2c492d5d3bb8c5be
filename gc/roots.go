package gc

// Root records ref as permanently reachable. Rooting the same ref twice creates two
// independent entries.
func (c *Collector[T]) Root(ref Ref) {
	c.enter("root")
	c.roots.push(ref)
}

// Unroot removes every root entry for ref. Unrooting a ref with no entries is a no-op.
func (c *Collector[T]) Unroot(ref Ref) {
	c.enter("unroot")
	if n := c.roots.removeAll(ref); n > 0 {
		c.log.Debug("gc: unroot", "ref", ref, "entries", n)
	}
}

// Roots returns the number of root entries in use.
func (c *Collector[T]) Roots() int {
	c.live()
	return c.roots.len()
}
