// Package objpool implements a fixed-capacity object pool that supports
// concurrent acquire/release.
//
// Unlike sync.Pool, a Pool never discards slots under memory pressure and
// never fabricates new ones beyond its capacity: Acquire fails rather than
// allocates once every slot is handed out. This is the shape the task queue
// and thread pool need for bounded, predictable allocation under churn,
// rather than the "best effort cache" shape sync.Pool offers.
package objpool

import (
	"sync"

	"golang.org/x/sync/semaphore"
)

// Pool is a generic, fixed-capacity slab of T, handed out as *T via Acquire
// and returned via Release. It is safe for concurrent use.
type Pool[T any] struct {
	mu       sync.Mutex
	storage  []T
	free     []*T
	sem      *semaphore.Weighted
	capacity int64
}

// New allocates a Pool with room for capacity elements of type T. It returns
// ErrInvalidCapacity if capacity <= 0.
func New[T any](capacity int) (*Pool[T], error) {
	if capacity <= 0 {
		return nil, ErrInvalidCapacity
	}

	p := &Pool[T]{
		storage:  make([]T, capacity),
		free:     make([]*T, 0, capacity),
		sem:      semaphore.NewWeighted(int64(capacity)),
		capacity: int64(capacity),
	}
	p.tile()

	return p, nil
}

// tile re-populates the free stack with a pointer to every slot in storage.
// Caller must hold mu.
func (p *Pool[T]) tile() {
	p.free = p.free[:0]
	for i := range p.storage {
		p.free = append(p.free, &p.storage[i])
	}
}

// Acquire removes one slot from the pool. It returns (nil, false) rather
// than blocking when the pool is exhausted — the pool is not a semaphore
// that callers wait on, it is a bounded allocator that tells callers to back
// off.
func (p *Pool[T]) Acquire() (*T, bool) {
	if !p.sem.TryAcquire(1) {
		return nil, false
	}

	p.mu.Lock()
	n := len(p.free)
	e := p.free[n-1]
	p.free = p.free[:n-1]
	p.mu.Unlock()

	return e, true
}

// Release returns a slot previously obtained from Acquire back to the pool.
// It returns ErrUnderflow if the pool is already full — a programming error,
// since it implies a slot was released twice or a foreign pointer was passed
// in.
func (p *Pool[T]) Release(v *T) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if int64(len(p.free)) == p.capacity {
		return ErrUnderflow
	}

	p.free = append(p.free, v)
	p.sem.Release(1)

	return nil
}

// ReleaseAll returns every slot to the pool at once, regardless of how many
// are currently acquired. This invalidates every outstanding pointer handed
// out by a prior Acquire — callers must not touch them afterward. It exists
// for the "wipe a generation of entries cheaply" use case described in the
// data model, not for routine bookkeeping.
func (p *Pool[T]) ReleaseAll() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.tile()
	p.sem = semaphore.NewWeighted(p.capacity)
}

// Acquired returns the number of slots currently handed out.
func (p *Pool[T]) Acquired() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return int(p.capacity) - len(p.free)
}

// Capacity returns the maximum number of slots the pool can hand out at once.
func (p *Pool[T]) Capacity() int {
	return int(p.capacity)
}
