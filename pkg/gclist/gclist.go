// Package gclist is a singly linked list of ints whose nodes live in a gc.Collector.
//
// The list head is a protected variable, so every node reachable from it survives a
// collection and everything else is reclaimed.
package gclist

import (
	"fmt"

	"github.com/joshuapare/gckit/gc"
)

// Node is one list cell.
type Node struct {
	Value int
	Next  gc.Ref
}

// Trace marks the successor.
func (n *Node) Trace(m *gc.Marker) { m.Mark(n.Next) }

// List owns a collector and the protected head variable.
type List struct {
	c    *gc.Collector[Node]
	head gc.Ref
	n    int
}

// New returns an empty list with room for n nodes.
func New(n int, opts ...gc.Option[Node]) *List {
	l := &List{c: gc.New(n, opts...)}
	l.c.Protect(&l.head)
	return l
}

// Push prepends v. It fails with gc.ErrExhausted when every node is in use.
func (l *List) Push(v int) error {
	ref, err := l.c.Alloc()
	if err != nil {
		return fmt.Errorf("gclist: push %d: %w", v, err)
	}
	*l.c.Get(ref) = Node{Value: v, Next: l.head}
	l.head = ref
	l.n++
	return nil
}

// Pop removes and returns the first value. The node becomes garbage.
func (l *List) Pop() (int, bool) {
	n := l.c.Get(l.head)
	if n == nil {
		return 0, false
	}
	l.head = n.Next
	l.n--
	return n.Value, true
}

// Head returns the ref of the first node.
func (l *List) Head() gc.Ref { return l.head }

// Len returns the number of nodes in the list.
func (l *List) Len() int { return l.n }

// Values returns the list contents from head to tail.
func (l *List) Values() []int {
	out := make([]int, 0, l.n)
	for ref := l.head; ref != gc.Nil; {
		n := l.c.Get(ref)
		out = append(out, n.Value)
		ref = n.Next
	}
	return out
}

// Collect runs a pass on the list's collector.
func (l *List) Collect() gc.CollectResult { return l.c.Collect() }

// Collector exposes the underlying collector.
func (l *List) Collector() *gc.Collector[Node] { return l.c }

// Close releases the collector.
func (l *List) Close() {
	if l.c == nil {
		return
	}
	l.c.Expose(1)
	gc.Free(&l.c)
	l.head = gc.Nil
	l.n = 0
}
