package gc

// registry is the bookkeeping behind roots and protected variables: an arena of
// entries threaded onto a used chain and a free chain by 1-based index. Entries are
// recycled through the free chain and only released with the registry.
type registry[E comparable] struct {
	nodes []entry[E]
	used  int32
	free  int32
	n     int
}

type entry[E comparable] struct {
	data E
	next int32
}

func (r *registry[E]) at(i int32) *entry[E] { return &r.nodes[i-1] }

// push records data at the head of the used chain, reusing a free entry if any.
func (r *registry[E]) push(data E) {
	var i int32
	if r.free != 0 {
		i = r.free
		r.free = r.at(i).next
	} else {
		r.nodes = append(r.nodes, entry[E]{})
		i = int32(len(r.nodes))
	}
	e := r.at(i)
	e.data = data
	e.next = r.used
	r.used = i
	r.n++
}

// removeAll moves every used entry holding data to the free chain and reports how
// many were removed.
func (r *registry[E]) removeAll(data E) int {
	removed := 0
	prev := int32(0)
	for cur := r.used; cur != 0; {
		e := r.at(cur)
		next := e.next
		if e.data == data {
			if prev == 0 {
				r.used = next
			} else {
				r.at(prev).next = next
			}
			r.release(cur)
			removed++
		} else {
			prev = cur
		}
		cur = next
	}
	r.n -= removed
	return removed
}

// pop moves up to n entries from the head of the used chain to the free chain.
func (r *registry[E]) pop(n int) int {
	popped := 0
	for ; popped < n && r.used != 0; popped++ {
		cur := r.used
		r.used = r.at(cur).next
		r.release(cur)
	}
	r.n -= popped
	return popped
}

// release clears entry i and prepends it to the free chain.
func (r *registry[E]) release(i int32) {
	var zero E
	e := r.at(i)
	e.data = zero
	e.next = r.free
	r.free = i
}

func (r *registry[E]) each(fn func(E)) {
	for cur := r.used; cur != 0; cur = r.at(cur).next {
		fn(r.at(cur).data)
	}
}

func (r *registry[E]) len() int { return r.n }

func (r *registry[E]) capacity() int { return len(r.nodes) }

func (r *registry[E]) reset() {
	r.nodes = nil
	r.used, r.free, r.n = 0, 0, 0
}
