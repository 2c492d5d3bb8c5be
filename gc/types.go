package gc

import "math"

// Ref names an object slot in a collector. Refs are slot indexes offset by one, so the
// zero value is Nil.
type Ref uint32

// Nil is the absent ref.
const Nil Ref = 0

// MaxObjects is the largest number of slots a single collector can own.
const MaxObjects = math.MaxInt32

func (r Ref) index() int { return int(r) - 1 }

func refAt(i int) Ref { return Ref(i + 1) }

// Traceable is implemented by payloads that hold refs to other objects of the same
// collector. Trace must mark each of them with m.Mark.
type Traceable interface {
	Trace(m *Marker)
}

// Finalizable is implemented by payloads that own resources to release when the
// object is swept.
type Finalizable interface {
	Finalize()
}

// Destroyable is implemented by payloads that own resources to release when the
// collector is destroyed.
type Destroyable interface {
	Destroy()
}

type slotState uint8

const (
	slotFree slotState = iota
	slotActive
)

// slot is one arena cell: the hidden header plus the payload.
type slot[T any] struct {
	value  T
	next   Ref
	marked bool
	state  slotState
}

// phase is the collector state machine: idle -> marking -> sweeping -> idle.
type phase uint8

const (
	phaseIdle phase = iota
	phaseMarking
	phaseSweeping
	phaseDestroying
	phaseFreed
)

func (p phase) String() string {
	switch p {
	case phaseIdle:
		return "idle"
	case phaseMarking:
		return "marking"
	case phaseSweeping:
		return "sweeping"
	case phaseDestroying:
		return "destroying"
	case phaseFreed:
		return "freed"
	default:
		return "unknown"
	}
}
