// Package taskqueue implements the bounded, FIFO, cancellable task queue at
// the center of a thread pool: a single mutex, a single condition variable,
// and a singly-linked FIFO of tasks whose nodes come from a bounded object
// pool rather than the heap directly, so a queue can never grow past the
// capacity it was built with.
package taskqueue

import (
	"context"
	"sync"

	"github.com/forgepool/ctpool/internal/objpool"
	"github.com/forgepool/ctpool/internal/task"
)

// entry is one FIFO node. It is allocated from a bounded objpool.Pool and
// returned to it as soon as its task is popped, before that task executes.
// It holds a task.Task directly rather than an interface{} payload.
type entry struct {
	t    task.Task
	next *entry
}

// Queue is a bounded, thread-safe FIFO of tasks, guarded by one mutex and
// one condition variable broadcast on every state change (push, pop,
// completion, explicit Notify). Workers block in WaitForWork; callers
// draining a batch block in WaitForComplete. Both accept a context and
// return promptly when it is canceled, via a short-lived watcher goroutine
// that rebroadcasts the condition on ctx.Done().
type Queue struct {
	mu   sync.Mutex
	cond *sync.Cond

	entries *objpool.Pool[entry]

	head, tail *entry
	pending    int // enqueued, not yet popped
	running    int // popped, not yet marked complete

	destroyed bool
}

// New creates a Queue whose FIFO storage holds at most entryCapacity
// pending tasks at once — tasks enqueued but not yet picked up by a pop.
// A popped entry's storage is returned to the pool immediately, before the
// task runs, so entryCapacity does not bound the number of tasks running
// concurrently, only the number waiting in line. entryCapacity must be
// positive.
func New(entryCapacity int) (*Queue, error) {
	pool, err := objpool.New[entry](entryCapacity)
	if err != nil {
		return nil, ErrInvalidCapacity
	}
	q := &Queue{entries: pool}
	q.cond = sync.NewCond(&q.mu)
	return q, nil
}

// Push enqueues a single task, freezing its argument if it is owned. It
// returns ErrAlloc if the queue is already at capacity, or ErrDestroyed if
// the queue has been torn down.
func (q *Queue) Push(t task.Task) error {
	n, err := q.PushN(t, 1)
	if err != nil {
		return err
	}
	if n != 1 {
		return ErrAlloc
	}
	return nil
}

// PushN enqueues n copies of t as distinct tasks, each independently frozen
// if owned — the idiomatic way to fan the same entry point out to a barrier
// rendezvous's N parties, or to broadcast identical work to every worker.
// It returns the number actually enqueued before the pool ran out of room;
// a short count is not itself an error unless it is zero, in which case
// ErrAlloc is returned.
func (q *Queue) PushN(t task.Task, n int) (int, error) {
	if n <= 0 {
		return 0, nil
	}

	q.mu.Lock()
	if q.destroyed {
		q.mu.Unlock()
		return 0, ErrDestroyed
	}

	pushed := 0
	for i := 0; i < n; i++ {
		slot, ok := q.entries.Acquire()
		if !ok {
			break
		}
		cp := t
		cp.Freeze()
		slot.t = cp
		slot.next = nil

		if q.tail == nil {
			q.head, q.tail = slot, slot
		} else {
			q.tail.next = slot
			q.tail = slot
		}
		q.pending++
		pushed++
	}
	q.mu.Unlock()

	if pushed > 0 {
		q.cond.Broadcast()
	}
	if pushed == 0 {
		return 0, ErrAlloc
	}
	return pushed, nil
}

// popLocked removes and returns the head entry, or reports an empty queue.
// Callers must hold q.mu.
func (q *Queue) popLocked() (task.Task, bool) {
	if q.head == nil {
		return task.Task{}, false
	}
	slot := q.head
	q.head = slot.next
	if q.head == nil {
		q.tail = nil
	}
	t := slot.t
	slot.t = task.Task{}
	slot.next = nil
	_ = q.entries.Release(slot)

	q.pending--
	q.running++
	return t, true
}

// Pop removes and returns the head task without blocking. It returns
// ErrQueueEmpty if there is nothing pending.
func (q *Queue) Pop() (task.Task, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.destroyed {
		return task.Task{}, ErrDestroyed
	}
	t, ok := q.popLocked()
	if !ok {
		return task.Task{}, ErrQueueEmpty
	}
	return t, nil
}

// WaitForWork blocks until a task is available, the queue is destroyed, or
// ctx is canceled, whichever comes first. A worker's main loop is simply:
//
//	for {
//	    t, err := q.WaitForWork(ctx)
//	    if err != nil { return }
//	    t.Execute()
//	    q.TaskComplete()
//	}
func (q *Queue) WaitForWork(ctx context.Context) (task.Task, error) {
	stop := q.watch(ctx)
	defer stop()

	q.mu.Lock()
	defer q.mu.Unlock()
	for {
		if q.destroyed {
			return task.Task{}, ErrDestroyed
		}
		if t, ok := q.popLocked(); ok {
			return t, nil
		}
		if err := ctx.Err(); err != nil {
			return task.Task{}, err
		}
		q.cond.Wait()
	}
}

// WaitForComplete blocks until both pending and running reach zero — the
// queue is fully quiescent — or ctx is canceled. It is the mechanism behind
// ThreadPool.Wait: a caller that pushed a batch of tasks uses this to block
// until every one of them has finished executing.
func (q *Queue) WaitForComplete(ctx context.Context) error {
	stop := q.watch(ctx)
	defer stop()

	q.mu.Lock()
	defer q.mu.Unlock()
	for q.pending != 0 || q.running != 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		q.cond.Wait()
	}
	return nil
}

// TaskComplete marks one previously popped task as finished. Workers call
// this exactly once after a task's entry function returns, whether
// normally or via a recovered panic.
func (q *Queue) TaskComplete() {
	q.mu.Lock()
	q.running--
	q.mu.Unlock()
	q.cond.Broadcast()
}

// Notify wakes every goroutine blocked in WaitForWork or WaitForComplete
// without changing any queue state, so they can re-evaluate their
// predicate (and, typically, their context) immediately rather than
// waiting for the next state change.
func (q *Queue) Notify() {
	q.cond.Broadcast()
}

// Count returns the number of tasks currently enqueued (pending, not yet
// popped by a worker).
func (q *Queue) Count() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.pending
}

// Pending and Running expose the two halves of quiescence separately, so a
// caller can distinguish "nothing queued yet" from "workers still busy."
func (q *Queue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.pending
}

func (q *Queue) Running() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.running
}

// Quiescent reads pending and running under a single lock acquisition, so a
// caller deciding whether the queue is safe to tear down sees one consistent
// snapshot rather than two counters that could each change between separate
// Pending/Running calls.
func (q *Queue) Quiescent() (pending, running int) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.pending, q.running
}

// Destroy tears the queue down, releasing every task argument still held
// by a pending entry and waking every blocked waiter; a goroutine in
// WaitForWork then returns ErrDestroyed, while WaitForComplete does not
// check for destruction and keeps waiting for running to reach zero. It is
// idempotent.
func (q *Queue) Destroy() error {
	q.mu.Lock()
	if q.destroyed {
		q.mu.Unlock()
		return nil
	}
	q.destroyed = true
	for slot := q.head; slot != nil; {
		next := slot.next
		slot.t.Destroy()
		slot.t = task.Task{}
		slot.next = nil
		slot = next
	}
	q.head, q.tail = nil, nil
	q.pending = 0
	q.entries.ReleaseAll()
	q.mu.Unlock()
	q.cond.Broadcast()
	return nil
}

// watch starts a goroutine that broadcasts q.cond when ctx is done, so a
// blocked sync.Cond.Wait — which cannot observe a context directly — wakes
// up promptly on cancellation instead of only on the next real state
// change. The returned func must be called to stop the watcher once the
// caller is done waiting.
func (q *Queue) watch(ctx context.Context) (stop func()) {
	if ctx.Done() == nil {
		return func() {}
	}
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			q.cond.Broadcast()
		case <-done:
		}
	}()
	return func() { close(done) }
}
