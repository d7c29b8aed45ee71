// Package cache provides a single-slot expiring cache over a supplier function.
// At most one value is resident; expiry is checked lazily on Get. Two concurrent
// misses may both invoke the supplier and both store (last writer wins) - the
// guarantee is "at most one cached value", not "at most one concurrent load".
package cache

import (
	"context"
	"sync"
	"time"

	perr "vfaq/internal/platform/errors"
)

// Supplier produces a fresh value for the slot. Errors are propagated to the
// caller and nothing is cached.
type Supplier[T any] func(ctx context.Context) (T, error)

// Option tweaks cache behavior
type Option[T any] func(*Single[T])

// Reject marks supplied values that must not be cached (e.g. a nil snapshot).
// A rejected value fails the Get with an unavailable error.
func Reject[T any](fn func(T) bool) Option[T] {
	return func(s *Single[T]) { s.reject = fn }
}

// WithClock swaps the time source (tests)
func WithClock[T any](now func() time.Time) Option[T] {
	return func(s *Single[T]) { s.now = now }
}

// Single holds zero-or-one value of T, valid for a fixed TTL
type Single[T any] struct {
	mu       sync.RWMutex
	supplier Supplier[T]
	ttl      time.Duration
	now      func() time.Time
	reject   func(T) bool

	value   T
	expires time.Time
	filled  bool
}

// New builds a Single backed by supplier, with values valid for ttl
func New[T any](supplier Supplier[T], ttl time.Duration, opts ...Option[T]) *Single[T] {
	if supplier == nil {
		panic("cache.Single requires a non nil supplier")
	}
	s := &Single[T]{supplier: supplier, ttl: ttl, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Get returns the cached value if present and unexpired; otherwise it invokes
// the supplier synchronously, stores the result, and returns it
func (s *Single[T]) Get(ctx context.Context) (T, error) {
	s.mu.RLock()
	if s.filled && s.now().Before(s.expires) {
		v := s.value
		s.mu.RUnlock()
		return v, nil
	}
	s.mu.RUnlock()

	var zero T
	v, err := s.supplier(ctx)
	if err != nil {
		return zero, err
	}
	if s.reject != nil && s.reject(v) {
		return zero, perr.Unavailablef("cache supplier returned an empty result")
	}

	s.mu.Lock()
	s.value = v
	s.expires = s.now().Add(s.ttl)
	s.filled = true
	s.mu.Unlock()
	return v, nil
}

// Invalidate unconditionally discards any cached value without invoking the supplier
func (s *Single[T]) Invalidate() {
	s.mu.Lock()
	var zero T
	s.value = zero
	s.filled = false
	s.mu.Unlock()
}

// InvalidateAndGet discards the slot then loads fresh; use when freshness
// matters more than latency (e.g. before a duplicate-name check)
func (s *Single[T]) InvalidateAndGet(ctx context.Context) (T, error) {
	s.Invalidate()
	return s.Get(ctx)
}
