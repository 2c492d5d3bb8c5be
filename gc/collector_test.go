package gc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	c := New[int64](10)
	defer c.Close()

	st := c.Stats()
	assert.Equal(t, 10, st.Objects)
	assert.Equal(t, 10, st.Free)
	assert.Equal(t, 0, st.Active)
	assert.Equal(t, 8, c.Size())
	assert.Empty(t, c.Active())
}

func TestNewZeroObjects(t *testing.T) {
	c := New[int](0)
	defer c.Close()

	_, err := c.Alloc()
	require.ErrorIs(t, err, ErrExhausted)
	assert.Equal(t, 1, c.Stats().Exhausted)
	assert.Equal(t, 1, c.Stats().ImplicitCollections)
}

func TestAdd(t *testing.T) {
	c := New[int](1)
	defer c.Close()

	allocN(t, c, 1)
	c.Add(3)

	st := c.Stats()
	assert.Equal(t, 4, st.Objects)
	assert.Equal(t, 3, st.Free)
	assert.Equal(t, 1, st.Active)

	c.Add(0)
	c.Add(-2)
	assert.Equal(t, 4, c.Stats().Objects)
}

// Rooting the only object makes the next Alloc fail; unrooting makes it succeed.
func TestAllocRootedExhaustion(t *testing.T) {
	c := New[int](1)

	o, err := c.Alloc()
	require.NoError(t, err)
	require.NotEqual(t, Nil, o)
	c.Root(o)

	b, err := c.Alloc()
	require.ErrorIs(t, err, ErrExhausted)
	require.Equal(t, Nil, b)

	c.Unroot(o)
	b, err = c.Alloc()
	require.NoError(t, err)
	require.NotEqual(t, Nil, b)

	Free(&c)
	require.Nil(t, c)
}

// Exhausting the pool with nothing reachable makes the next Alloc collect everything.
func TestAllocImplicitCollection(t *testing.T) {
	collected := 0
	c := New[int](4, WithCollect(func(*int) { collected++ }))
	defer c.Close()

	allocN(t, c, 4)
	require.Equal(t, 0, c.Stats().Collections)

	ref, err := c.Alloc()
	require.NoError(t, err)
	require.True(t, c.Valid(ref))

	st := c.Stats()
	assert.Equal(t, 1, st.Collections)
	assert.Equal(t, 1, st.ImplicitCollections)
	assert.Equal(t, 4, st.Swept)
	assert.Equal(t, 4, collected)
	assert.Equal(t, 1, st.Active)
	assert.Equal(t, 3, st.Free)
}

func TestMustAllocGrows(t *testing.T) {
	c := New[int](0, WithGrowBy[int](8))
	defer c.Close()

	ref := c.MustAlloc()
	require.True(t, c.Valid(ref))
	assert.Equal(t, 8, c.Stats().Objects)

	c.Root(ref)
	for range 7 {
		c.Root(c.MustAlloc())
	}
	assert.Equal(t, 8, c.Stats().Objects)

	c.MustAlloc()
	assert.Equal(t, 16, c.Stats().Objects)
}

func TestMustAllocDefaultStep(t *testing.T) {
	c := New[int](0)
	defer c.Close()

	c.Root(c.MustAlloc())
	c.Root(c.MustAlloc())
	assert.Equal(t, 2, c.Stats().Objects)
}

func TestGet(t *testing.T) {
	c := New[int](2)
	defer c.Close()

	ref, err := c.Alloc()
	require.NoError(t, err)

	p := c.Get(ref)
	require.NotNil(t, p)
	*p = 42
	assert.Equal(t, 42, *c.Get(ref))

	assert.Nil(t, c.Get(Nil))
	assert.Nil(t, c.Get(Ref(99)))

	// The other slot exists but is free.
	other := Ref(1)
	if other == ref {
		other = 2
	}
	assert.Nil(t, c.Get(other))
	assert.False(t, c.Valid(other))
}

func TestGetStableAcrossGrowth(t *testing.T) {
	c := New[int](1)
	defer c.Close()

	ref, err := c.Alloc()
	require.NoError(t, err)
	p := c.Get(ref)

	c.Add(3 * chunkSize)

	require.Same(t, p, c.Get(ref))
}

func TestActiveOrder(t *testing.T) {
	c := New[int](3)
	defer c.Close()

	refs := allocN(t, c, 3)
	assert.Equal(t, []Ref{refs[2], refs[1], refs[0]}, c.Active())
}

func TestFreeChainOrder(t *testing.T) {
	c := New[int](3)
	defer c.Close()

	// The most recently created slot is handed out first.
	refs := allocN(t, c, 3)
	assert.Equal(t, []Ref{3, 2, 1}, refs)
}

func TestWithInitRunsPerCreatedSlot(t *testing.T) {
	calls := 0
	c := New[[]byte](3, WithInit(func(b *[]byte) {
		calls++
		*b = make([]byte, 16)
	}))
	defer c.Close()
	require.Equal(t, 3, calls)

	c.Add(2)
	require.Equal(t, 5, calls)

	ref, err := c.Alloc()
	require.NoError(t, err)
	require.Len(t, *c.Get(ref), 16)
	require.Equal(t, 5, calls)
}

// Payloads are not reset when a slot is reused.
func TestPayloadSurvivesReuse(t *testing.T) {
	c := New[int](1)
	defer c.Close()

	ref, err := c.Alloc()
	require.NoError(t, err)
	*c.Get(ref) = 7

	c.Collect()
	again, err := c.Alloc()
	require.NoError(t, err)
	require.Equal(t, ref, again)
	require.Equal(t, 7, *c.Get(again))
}

func TestTooManyObjects(t *testing.T) {
	c := New[byte](1)
	defer c.Close()

	requirePanicIs(t, ErrTooManyObjects, func() { c.Add(MaxObjects) })
	assert.Equal(t, 1, c.Stats().Objects)
}

func TestCloseRunsDestroyForEveryObject(t *testing.T) {
	destroyed := 0
	collected := 0
	c := New[int](5,
		WithCollect(func(*int) { collected++ }),
		WithDestroy(func(*int) { destroyed++ }),
	)

	refs := allocN(t, c, 2)
	c.Root(refs[0])
	var p Ref = refs[1]
	c.Protect(&p)

	c.Close()
	assert.Equal(t, 5, destroyed)
	assert.Equal(t, 0, collected)

	// Closing twice is harmless.
	c.Close()
	assert.Equal(t, 5, destroyed)
}

func TestCloseResumesAfterDestroyPanic(t *testing.T) {
	calls := 0
	c := New[int](3, WithDestroy(func(*int) {
		calls++
		if calls == 2 {
			panic("boom")
		}
	}))

	require.PanicsWithValue(t, "boom", func() { c.Close() })
	assert.Equal(t, 2, calls)
	assert.Equal(t, 1, c.Stats().Free)

	require.NotPanics(t, func() { c.Close() })
	assert.Equal(t, 3, calls, "each object is destroyed once")

	requirePanicIs(t, ErrFreed, func() { _, _ = c.Alloc() })
}

func TestFreeNilsHandle(t *testing.T) {
	c := New[int](1)
	Free(&c)
	require.Nil(t, c)

	// Freeing again, or freeing nothing, is a no-op.
	Free(&c)
	Free[int](nil)
}

func TestUseAfterFree(t *testing.T) {
	c := New[int](1)
	c.Close()

	requirePanicIs(t, ErrFreed, func() { _, _ = c.Alloc() })
	requirePanicIs(t, ErrFreed, func() { c.Collect() })
	requirePanicIs(t, ErrFreed, func() { c.Add(1) })
	requirePanicIs(t, ErrFreed, func() { c.Root(1) })
	requirePanicIs(t, ErrFreed, func() { c.Get(1) })
	requirePanicIs(t, ErrFreed, func() { c.Stats() })

	var nilc *Collector[int]
	requirePanicIs(t, ErrFreed, func() { _, _ = nilc.Alloc() })
}

func TestStats(t *testing.T) {
	c := New[int](4)
	defer c.Close()

	refs := allocN(t, c, 3)
	c.Root(refs[0])
	c.Root(refs[0])
	var v Ref = refs[1]
	c.Protect(&v)

	res := c.Collect()
	assert.Equal(t, CollectResult{Marked: 2, Swept: 1}, res)

	st := c.Stats()
	assert.Equal(t, Stats{
		Objects:          4,
		Free:             2,
		Active:           2,
		Roots:            2,
		RootEntries:      2,
		Protected:        1,
		ProtectedEntries: 1,
		Allocs:           3,
		Grows:            1,
		Collections:      1,
		Marked:           2,
		Swept:            1,
	}, st)
}
