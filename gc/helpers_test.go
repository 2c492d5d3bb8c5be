package gc

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

// node is a singly linked list cell that traces its successor.
type node struct {
	value int
	next  Ref
}

func (n *node) Trace(m *Marker) { m.Mark(n.next) }

// requirePanicIs runs fn and requires it to panic with an error matching target.
func requirePanicIs(t *testing.T, target error, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		require.NotNil(t, r, "expected panic matching %v", target)
		err, ok := r.(error)
		require.True(t, ok, "panic value %v is not an error", r)
		require.True(t, errors.Is(err, target), "panic %v does not match %v", err, target)
	}()
	fn()
}

// allocN allocates n objects and fails the test on exhaustion.
func allocN[T any](t *testing.T, c *Collector[T], n int) []Ref {
	t.Helper()
	refs := make([]Ref, 0, n)
	for range n {
		ref, err := c.Alloc()
		require.NoError(t, err)
		refs = append(refs, ref)
	}
	return refs
}

// pushNode allocates a node holding value in front of head.
func pushNode(t *testing.T, c *Collector[node], head Ref, value int) Ref {
	t.Helper()
	ref, err := c.Alloc()
	require.NoError(t, err)
	*c.Get(ref) = node{value: value, next: head}
	return ref
}

func listValues(c *Collector[node], head Ref) []int {
	var out []int
	for ref := head; ref != Nil; ref = c.Get(ref).next {
		out = append(out, c.Get(ref).value)
	}
	return out
}
