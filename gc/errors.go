package gc

import "errors"

var (
	// ErrExhausted indicates that no free object was left, even after a collection.
	ErrExhausted = errors.New("gc: no free object after collection")

	// ErrTooManyObjects indicates that growing the arena would exceed MaxObjects.
	ErrTooManyObjects = errors.New("gc: too many objects")

	// ErrReentrant indicates a collector call from inside one of its own hooks.
	ErrReentrant = errors.New("gc: reentrant call during collection")

	// ErrNotMarking indicates Marker.Mark was called outside a mark phase.
	ErrNotMarking = errors.New("gc: mark outside of a collection")

	// ErrFreed indicates use of a collector after Free or Close.
	ErrFreed = errors.New("gc: collector already freed")
)
