package gc

// Marker is passed to trace hooks during the mark phase.
type Marker struct {
	c shader
}

type shader interface {
	shade(ref Ref)
}

// Mark marks the object named by ref as reachable and queues it for tracing. Nil,
// already marked objects and refs that do not name an active object are ignored, which
// is what makes cyclic graphs safe to trace. Mark panics with ErrNotMarking outside
// of a collection.
func (m *Marker) Mark(ref Ref) {
	if m == nil || m.c == nil {
		panic(ErrNotMarking)
	}
	m.c.shade(ref)
}

// Collect runs one full mark-sweep pass: every object reachable from a root or a
// protected variable survives, every other active object is finalized and returned
// to the free chain.
func (c *Collector[T]) Collect() CollectResult {
	c.enter("collect")
	return c.collect()
}

func (c *Collector[T]) collect() CollectResult {
	c.pass = CollectResult{}
	defer c.abort()

	c.phase = phaseMarking
	c.roots.each(c.shade)
	c.protected.each(func(p *Ref) {
		if p != nil {
			c.shade(*p)
		}
	})
	c.drain()

	c.phase = phaseSweeping
	c.sweep()
	c.phase = phaseIdle

	c.stats.Collections++
	c.stats.Marked += c.pass.Marked
	c.stats.Swept += c.pass.Swept
	c.log.Debug("gc: collect",
		"marked", c.pass.Marked,
		"swept", c.pass.Swept,
		"active", c.nactive,
		"free", c.nfree,
	)
	return c.pass
}

func (c *Collector[T]) shade(ref Ref) {
	if c.phase != phaseMarking {
		panic(ErrNotMarking)
	}
	s := c.lookup(ref)
	if s == nil || s.state != slotActive || s.marked {
		return
	}
	s.marked = true
	c.pass.Marked++
	if c.cfg.trace != nil {
		c.gray = append(c.gray, ref)
	}
}

// drain traces queued objects until the gray stack is empty.
func (c *Collector[T]) drain() {
	for len(c.gray) > 0 {
		ref := c.gray[len(c.gray)-1]
		c.gray = c.gray[:len(c.gray)-1]
		c.cfg.trace(&c.marker, &c.slot(ref).value)
	}
}

// sweep walks the active chain once, unmarking survivors and moving every unmarked
// object to the free chain after its collect hook ran.
func (c *Collector[T]) sweep() {
	prev := Nil
	for ref := c.active; ref != Nil; {
		s := c.slot(ref)
		next := s.next

		if s.marked {
			s.marked = false
			prev = ref
			ref = next
			continue
		}

		if c.cfg.collect != nil {
			c.cfg.collect(&s.value)
		}
		if prev == Nil {
			c.active = next
		} else {
			c.slot(prev).next = next
		}
		s.next = c.free
		s.state = slotFree
		c.free = ref
		c.nactive--
		c.nfree++
		c.pass.Swept++

		ref = next
	}
}

// abort restores the idle state when a hook panicked mid-collection. Marks are
// cleared so the next pass starts from a clean slate.
func (c *Collector[T]) abort() {
	if c.phase != phaseMarking && c.phase != phaseSweeping {
		return
	}
	for ref := c.active; ref != Nil; ref = c.slot(ref).next {
		c.slot(ref).marked = false
	}
	c.gray = c.gray[:0]
	c.phase = phaseIdle
}
