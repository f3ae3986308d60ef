// Package pool provides typed object pools for zero-allocation queries.
// It wraps sync.Pool so callers get back their own type and every object is
// reset before reuse.
package pool

import "sync"

// Pool is a typed sync.Pool with a reset hook.
type Pool[T any] struct {
	p     sync.Pool
	reset func(T)
	keep  func(T) bool
}

// New creates a pool. newFn builds fresh objects, reset clears an object
// before it is handed out again. keep, if non-nil, decides whether a returned
// object is worth retaining; oversized buffers can be dropped that way.
func New[T any](newFn func() T, reset func(T), keep func(T) bool) *Pool[T] {
	return &Pool[T]{
		p:     sync.Pool{New: func() any { return newFn() }},
		reset: reset,
		keep:  keep,
	}
}

// Get retrieves an object from the pool.
func (p *Pool[T]) Get() T {
	v := p.p.Get().(T)
	if p.reset != nil {
		p.reset(v)
	}
	return v
}

// Put returns an object to the pool for reuse.
func (p *Pool[T]) Put(v T) {
	if p.keep != nil && !p.keep(v) {
		return
	}
	p.p.Put(v)
}
