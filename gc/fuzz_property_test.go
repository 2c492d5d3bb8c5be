package gc

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
)

// model is a reference implementation of reachability kept next to a Collector.
type model struct {
	active    map[Ref]bool
	free      int
	next      map[Ref]Ref // payload links survive reuse, like the arena
	roots     map[Ref]int
	protected []int // indexes into vars, most recent last
}

func (m *model) collect(vars []Ref) int {
	reached := map[Ref]bool{}
	var stack []Ref
	visit := func(r Ref) {
		if r != Nil && m.active[r] && !reached[r] {
			reached[r] = true
			stack = append(stack, r)
		}
	}
	for r, n := range m.roots {
		if n > 0 {
			visit(r)
		}
	}
	for _, i := range m.protected {
		visit(vars[i])
	}
	for len(stack) > 0 {
		r := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		visit(m.next[r])
	}

	swept := 0
	for r := range m.active {
		if !reached[r] {
			delete(m.active, r)
			m.free++
			swept++
		}
	}
	return swept
}

func (m *model) pick(rng *rand.Rand) Ref {
	if len(m.active) == 0 {
		return Nil
	}
	k := rng.IntN(len(m.active))
	for r := range m.active {
		if k == 0 {
			return r
		}
		k--
	}
	return Nil
}

// Test_RandomOperationsMatchModel drives random operation sequences and checks the
// surviving set against the model after every pass.
func Test_RandomOperationsMatchModel(t *testing.T) {
	for seed := uint64(1); seed <= 20; seed++ {
		rng := rand.New(rand.NewPCG(seed, seed*7919))
		c := New[node](8)
		m := &model{
			active: map[Ref]bool{},
			free:   8,
			next:   map[Ref]Ref{},
			roots:  map[Ref]int{},
		}
		vars := make([]Ref, 6)

		for step := range 2000 {
			switch op := rng.IntN(10); op {
			case 0, 1, 2:
				var wantSwept int
				implicit := m.free == 0
				if implicit {
					wantSwept = m.collect(vars)
				}
				before := c.Stats().Swept
				ref, err := c.Alloc()
				if implicit {
					require.Equal(t, wantSwept, c.Stats().Swept-before, "seed %d step %d", seed, step)
				}
				if m.free == 0 {
					require.ErrorIs(t, err, ErrExhausted)
					break
				}
				require.NoError(t, err)
				require.False(t, m.active[ref], "seed %d step %d: live ref reused", seed, step)
				m.active[ref] = true
				m.free--
				vars[rng.IntN(len(vars))] = ref
			case 3:
				a, b := m.pick(rng), m.pick(rng)
				if a != Nil {
					c.Get(a).next = b
					m.next[a] = b
				}
			case 4:
				if r := m.pick(rng); r != Nil {
					c.Root(r)
					m.roots[r]++
				}
			case 5:
				if r := m.pick(rng); r != Nil {
					c.Unroot(r)
					delete(m.roots, r)
				}
			case 6:
				i := rng.IntN(len(vars))
				c.Protect(&vars[i])
				m.protected = append(m.protected, i)
			case 7:
				n := rng.IntN(3)
				c.Expose(n)
				m.protected = m.protected[:max(0, len(m.protected)-n)]
			case 8:
				c.Add(1)
				m.free++
			case 9:
				res := c.Collect()
				require.Equal(t, m.collect(vars), res.Swept, "seed %d step %d", seed, step)
			}

			st := c.Stats()
			require.Equal(t, len(m.active), st.Active, "seed %d step %d", seed, step)
			require.Equal(t, m.free, st.Free, "seed %d step %d", seed, step)
			require.Equal(t, len(m.protected), st.Protected)
		}

		for _, r := range c.Active() {
			require.True(t, m.active[r])
		}
		Free(&c)
	}
}
