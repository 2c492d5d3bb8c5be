package gc

import (
	"fmt"
	"log/slog"
	"unsafe"
)

// Collector is a mark-and-sweep collector for objects of type T.
type Collector[T any] struct {
	// Slot arena. Chunks never move, so payload pointers stay valid while the
	// collector grows.
	chunks [][]slot[T]
	nslots int

	// Free and active chains, threaded through slot.next.
	free    Ref
	active  Ref
	nfree   int
	nactive int

	roots     registry[Ref]
	protected registry[*Ref]

	cfg    config[T]
	phase  phase
	gray   []Ref
	marker Marker
	pass   CollectResult

	stats Stats
	log   *slog.Logger
}

// New creates a collector owning n zeroed free objects.
func New[T any](n int, opts ...Option[T]) *Collector[T] {
	c := &Collector[T]{}
	for _, opt := range opts {
		opt(&c.cfg)
	}
	c.cfg.resolve()
	c.log = c.cfg.log
	c.marker.c = c
	c.grow(n)
	c.log.Debug("gc: created", "objects", n, "size", c.Size())
	return c
}

// Size returns the payload size of one object in bytes.
func (c *Collector[T]) Size() int {
	var zero T
	return int(unsafe.Sizeof(zero))
}

// Add grows the free chain by n zeroed objects.
func (c *Collector[T]) Add(n int) {
	c.enter("add")
	c.grow(n)
}

// Alloc moves a free object to the active chain and returns its ref. When no object
// is free it runs one collection first; if that reclaims nothing Alloc returns
// ErrExhausted.
func (c *Collector[T]) Alloc() (Ref, error) {
	c.enter("alloc")

	if c.free == Nil {
		c.stats.ImplicitCollections++
		c.collect()
	}
	if c.free == Nil {
		c.stats.Exhausted++
		c.log.Debug("gc: exhausted", "objects", c.nslots, "active", c.nactive)
		return Nil, ErrExhausted
	}

	ref := c.free
	s := c.slot(ref)
	c.free = s.next
	c.nfree--

	s.next = c.active
	c.active = ref
	c.nactive++

	s.marked = false
	s.state = slotActive
	c.stats.Allocs++
	return ref, nil
}

// MustAlloc is Alloc that grows the collector by the WithGrowBy step when exhausted.
func (c *Collector[T]) MustAlloc() Ref {
	ref, err := c.Alloc()
	if err == nil {
		return ref
	}
	c.grow(c.cfg.growBy)
	ref, err = c.Alloc()
	if err != nil {
		// grow added at least one free slot, so this cannot happen.
		panic(fmt.Errorf("gc: alloc after grow: %w", err))
	}
	return ref
}

// Get returns the payload of an active object, or nil if ref is Nil, out of range or
// names a free slot. The pointer stays valid until the object is swept.
func (c *Collector[T]) Get(ref Ref) *T {
	c.live()
	s := c.lookup(ref)
	if s == nil || s.state != slotActive {
		return nil
	}
	return &s.value
}

// Valid reports whether ref names an object on the active chain.
func (c *Collector[T]) Valid(ref Ref) bool {
	c.live()
	s := c.lookup(ref)
	return s != nil && s.state == slotActive
}

// Active returns the refs on the active chain, most recently allocated first.
func (c *Collector[T]) Active() []Ref {
	c.live()
	refs := make([]Ref, 0, c.nactive)
	for ref := c.active; ref != Nil; ref = c.slot(ref).next {
		refs = append(refs, ref)
	}
	return refs
}

// Stats returns a snapshot of the collector counters.
func (c *Collector[T]) Stats() Stats {
	c.live()
	st := c.stats
	st.Objects = c.nslots
	st.Free = c.nfree
	st.Active = c.nactive
	st.Roots = c.roots.len()
	st.RootEntries = c.roots.capacity()
	st.Protected = c.protected.len()
	st.ProtectedEntries = c.protected.capacity()
	return st
}

// Free destroys the collector behind *cp and sets *cp to nil. It is a no-op when cp or
// *cp is nil.
func Free[T any](cp **Collector[T]) {
	if cp == nil || *cp == nil {
		return
	}
	(*cp).Close()
	*cp = nil
}

// Close runs the destroy hook for every object on the free chain and then the active
// chain, and releases the arena and both registries. Closing twice is a no-op; any
// other call afterwards panics with ErrFreed. If a destroy hook panics, the collector
// returns to idle with the objects not yet destroyed still owned, and a later Close
// resumes the teardown from there.
func (c *Collector[T]) Close() {
	if c == nil || c.phase == phaseFreed {
		return
	}
	c.enter("close")
	c.phase = phaseDestroying
	defer func() {
		if c.phase == phaseDestroying {
			c.phase = phaseIdle
		}
	}()

	destroyed := 0
	if c.cfg.destroy != nil {
		for _, head := range []*Ref{&c.free, &c.active} {
			for *head != Nil {
				ref := *head
				s := c.slot(ref)
				*head = s.next
				if head == &c.free {
					c.nfree--
				} else {
					c.nactive--
				}
				s.next = Nil
				s.marked = false
				s.state = slotFree
				c.cfg.destroy(&s.value)
				destroyed++
			}
		}
	}

	c.log.Debug("gc: destroyed", "objects", c.nslots, "finalized", destroyed)

	c.chunks = nil
	c.nslots = 0
	c.free, c.active = Nil, Nil
	c.nfree, c.nactive = 0, 0
	c.roots.reset()
	c.protected.reset()
	c.gray = nil
	c.phase = phaseFreed
}

// enter guards every mutating entry point.
func (c *Collector[T]) enter(op string) {
	c.live()
	if c.phase != phaseIdle {
		panic(fmt.Errorf("%w: %s while %s", ErrReentrant, op, c.phase))
	}
}

func (c *Collector[T]) live() {
	if c == nil || c.phase == phaseFreed {
		panic(ErrFreed)
	}
}
