package gc

import (
	"log/slog"

	"github.com/joshuapare/gckit/internal/logger"
)

// DefaultGrowBy is the number of slots MustAlloc adds when the collector is exhausted.
const DefaultGrowBy = 1

// Option configures a Collector.
type Option[T any] func(*config[T])

type config[T any] struct {
	trace   func(m *Marker, obj *T)
	collect func(obj *T)
	destroy func(obj *T)
	init    func(obj *T)
	log     *slog.Logger
	growBy  int
}

// WithTrace sets the trace hook. fn must mark every ref obj holds.
func WithTrace[T any](fn func(m *Marker, obj *T)) Option[T] {
	return func(c *config[T]) { c.trace = fn }
}

// WithCollect sets the hook run for every object swept as unreachable.
func WithCollect[T any](fn func(obj *T)) Option[T] {
	return func(c *config[T]) { c.collect = fn }
}

// WithDestroy sets the hook run for every object, free or active, when the collector
// is destroyed.
func WithDestroy[T any](fn func(obj *T)) Option[T] {
	return func(c *config[T]) { c.destroy = fn }
}

// WithInit sets a hook run once for each slot when it is created by New or Add.
func WithInit[T any](fn func(obj *T)) Option[T] {
	return func(c *config[T]) { c.init = fn }
}

// WithLogger routes debug output to l instead of the package logger.
func WithLogger[T any](l *slog.Logger) Option[T] {
	return func(c *config[T]) { c.log = l }
}

// WithGrowBy sets how many slots MustAlloc adds on exhaustion.
func WithGrowBy[T any](n int) Option[T] {
	return func(c *config[T]) { c.growBy = n }
}

// resolve fills unset hooks from the methods *T implements.
func (c *config[T]) resolve() {
	var probe any = new(T)
	if c.trace == nil {
		if _, ok := probe.(Traceable); ok {
			c.trace = func(m *Marker, obj *T) { any(obj).(Traceable).Trace(m) }
		}
	}
	if c.collect == nil {
		if _, ok := probe.(Finalizable); ok {
			c.collect = func(obj *T) { any(obj).(Finalizable).Finalize() }
		}
	}
	if c.destroy == nil {
		if _, ok := probe.(Destroyable); ok {
			c.destroy = func(obj *T) { any(obj).(Destroyable).Destroy() }
		}
	}
	if c.log == nil {
		c.log = logger.L
	}
	if c.growBy <= 0 {
		c.growBy = DefaultGrowBy
	}
}
