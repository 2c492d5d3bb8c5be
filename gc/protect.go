package gc

// Protect treats the ref stored in *p as a root on every collection until the entry
// is exposed. p is read at collection time, so later assignments to *p are seen.
func (c *Collector[T]) Protect(p *Ref) {
	c.enter("protect")
	c.protected.push(p)
}

// Expose drops the n most recently protected entries, or all of them if fewer are
// protected. Protect and Expose must pair up like nested scopes.
func (c *Collector[T]) Expose(n int) {
	c.enter("expose")
	c.protected.pop(n)
}

// Protected returns the number of protected entries in use.
func (c *Collector[T]) Protected() int {
	c.live()
	return c.protected.len()
}

// Scope returns a guard that exposes everything protected through it on Close.
//
//	s := c.Scope()
//	defer s.Close()
//	s.Protect(&head)
func (c *Collector[T]) Scope() *Scope {
	c.live()
	return &Scope{c: c}
}

type protector interface {
	Protect(p *Ref)
	Expose(n int)
}

// Scope counts the variables protected through it. Scopes nest: an inner scope must
// be closed before the outer one.
type Scope struct {
	c protector
	n int
}

// Protect protects p on the scope's collector.
func (s *Scope) Protect(p *Ref) {
	s.c.Protect(p)
	s.n++
}

// Len returns the number of entries the scope still holds.
func (s *Scope) Len() int { return s.n }

// Close exposes every entry protected through s. Closing twice is a no-op.
func (s *Scope) Close() {
	if s.n == 0 {
		return
	}
	n := s.n
	s.n = 0
	s.c.Expose(n)
}
