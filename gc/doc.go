// Package gc provides a fixed-object-size mark-and-sweep garbage collector.
//
// # Overview
//
// A Collector owns an arena of slots that all hold the same payload type T, so every
// object in one collector has the same size. Reachability is never discovered by
// scanning memory: callers register roots, protect the variables that hold refs
// across a collection, and describe object graphs through a trace hook.
//
// Objects are named by Ref, a slot index. Each slot carries a hidden header (successor
// link, mark bit, state) and is always on exactly one of two chains: free or active.
//
// # Collector Interface
//
//   - New(n, opts...): Create a collector with n free slots
//   - Add(n): Grow the free chain by n zeroed slots
//   - Alloc(): Move a free slot to the active chain (collects once when empty)
//   - Root(ref) / Unroot(ref): Register or drop permanent roots
//   - Protect(&ref) / Expose(n): Treat the current contents of a variable as a root
//   - Collect(): Run one full mark-sweep pass
//   - Free(&c) / Close(): Finalize every object and release the arena
//
// # Usage Example
//
//	type node struct {
//	    value int
//	    next  gc.Ref
//	}
//
//	func (n *node) Trace(m *gc.Marker) { m.Mark(n.next) }
//
//	c := gc.New[node](10)
//	defer gc.Free(&c)
//
//	var head gc.Ref
//	s := c.Scope()
//	defer s.Close()
//	s.Protect(&head)
//
//	for i := 1; i <= 3; i++ {
//	    ref, err := c.Alloc()
//	    if err != nil {
//	        return err
//	    }
//	    *c.Get(ref) = node{value: i, next: head}
//	    head = ref
//	}
//
//	c.Collect() // all three nodes survive through head
//
// # Hooks
//
// Three optional hooks mirror the lifecycle of an object:
//
//	trace    WithTrace(fn)    or (*T).Trace(*Marker)   mark every ref the object holds
//	collect  WithCollect(fn)  or (*T).Finalize()       object swept as unreachable
//	destroy  WithDestroy(fn)  or (*T).Destroy()        collector torn down
//
// Collect and destroy hooks release resources owned by the payload. They never release
// the slot itself. An explicit option always takes precedence over the method form.
//
// # Exhaustion
//
// When the free chain is empty, Alloc runs one collection and retries. If the chain is
// still empty it returns ErrExhausted; grow with Add and retry, or use MustAlloc.
// Growing a collector past MaxObjects panics with ErrTooManyObjects: there is no
// recoverable out-of-memory path.
//
// # Thread Safety
//
// Collector instances are not thread-safe. Callers must serialize access externally.
// Hooks must not call back into the collector (Alloc, Add, Collect, Root, Unroot,
// Protect, Expose, Close); doing so panics with ErrReentrant.
package gc
