// Package lockreg provides a registry of per-key exclusive locks.
//
// Every key gets its own lock, created lazily on first reference. Callers
// that reference the same key contend on the same lock; callers with
// different keys never block each other.
//
// Entries are reference counted: an entry lives while at least one caller
// holds or waits for it, and is evicted once the last holder releases it.
// This keeps the registry bounded by the number of concurrently active keys
// rather than the number of keys ever seen.
package lockreg

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrAcquire is returned when a lock could not be obtained before the
// caller's context was done.
var ErrAcquire = errors.New("acquire lock")

type entry struct {
	// sem is a one-slot semaphore: a successful send means ownership.
	sem chan struct{}
	// refs counts holders plus waiters. Guarded by Registry.mu.
	refs int
}

// Registry maps keys to exclusive locks. The zero value is not usable;
// construct with New.
type Registry[K comparable] struct {
	mu      sync.Mutex
	entries map[K]*entry
}

// New returns an empty registry.
func New[K comparable]() *Registry[K] {
	return &Registry[K]{entries: make(map[K]*entry)}
}

// Acquire blocks until the caller owns the lock for key or ctx is done.
//
// The lock for a new key is created under the registry mutex, so concurrent
// first-time callers always end up on the same lock. On failure the error
// wraps both ErrAcquire and ctx.Err().
func (r *Registry[K]) Acquire(ctx context.Context, key K) error {
	e := r.ref(key)

	select {
	case e.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		r.unref(key, e)

		return fmt.Errorf("%w: %w", ErrAcquire, ctx.Err())
	}
}

// TryAcquire takes the lock for key only if it is free right now.
func (r *Registry[K]) TryAcquire(key K) bool {
	e := r.ref(key)

	select {
	case e.sem <- struct{}{}:
		return true
	default:
		r.unref(key, e)

		return false
	}
}

// Release gives up ownership of key.
//
// Releasing a key that is not held is a programming error and panics, the
// same way sync.Mutex does on unlock of an unlocked mutex.
func (r *Registry[K]) Release(key K) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[key]
	if !ok {
		panic(fmt.Sprintf("lockreg: release of unheld key %v", key))
	}

	select {
	case <-e.sem:
	default:
		panic(fmt.Sprintf("lockreg: release of unheld key %v", key))
	}

	e.refs--
	if e.refs == 0 {
		delete(r.entries, key)
	}
}

// Do runs fn while holding the lock for key. The lock is released on every
// exit path of fn, including panics.
func (r *Registry[K]) Do(ctx context.Context, key K, fn func() error) error {
	err := r.Acquire(ctx, key)
	if err != nil {
		return err
	}
	defer r.Release(key)

	return fn()
}

// Len reports the number of live entries (keys currently held or awaited).
func (r *Registry[K]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.entries)
}

func (r *Registry[K]) ref(key K) *entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[key]
	if !ok {
		e = &entry{sem: make(chan struct{}, 1)}
		r.entries[key] = e
	}
	e.refs++

	return e
}

func (r *Registry[K]) unref(key K, e *entry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e.refs--
	if e.refs == 0 {
		delete(r.entries, key)
	}
}
