// Package barrier implements a one-shot N-party rendezvous.
//
// A Barrier is born for a single generation and buried by whichever thread
// departs last; it is not designed to be reused across multiple rounds of
// synchronization, since Wait never resets its arrival count or its done
// flag. Only Reset prepares it for another generation.
package barrier

import "sync"

// Result reports a thread's distinguished role on return from Wait.
//
// Serial is true for the exact thread whose arrival completed the
// rendezvous (num_arrived == num_parties); a caller may use this to run
// single-threaded cleanup before other threads resume.
//
// Final is true for the exact thread that is the last to leave Wait
// (decrementing the departure count to zero); a caller may use this to
// release the Barrier's own resources without racing a thread still inside
// Wait.
//
// With one party, a single call to Wait satisfies both conditions at once —
// both fields are true simultaneously. The original C implementation behind
// this design encodes Serial/Final as a single overriding return code, which
// silently drops the serial signal in that exact case; Result avoids that by
// keeping the two independent.
type Result struct {
	Serial bool
	Final  bool
}

// Barrier is an N-party, one-shot rendezvous point.
type Barrier struct {
	mu      sync.Mutex
	cond    *sync.Cond
	parties int
	arrived int
	left    int
	done    bool
}

// New creates a Barrier for the given number of parties. It returns
// ErrInvalidParties if parties <= 0.
func New(parties int) (*Barrier, error) {
	b := &Barrier{}
	if err := b.Reset(parties); err != nil {
		return nil, err
	}
	return b, nil
}

// Reset (re)initializes b in place for a fresh generation of parties
// goroutines. It exists so a Barrier allocated from a bounded pool can be
// reinitialized without reallocating — the pool hands back the same *Barrier
// it acquired, and Reset rebuilds its condition variable bound to that same
// address rather than a copy's, which a plain struct-literal assignment
// would get wrong. It returns ErrInvalidParties if parties <= 0. Reset must
// only be called when no goroutine holds a reference to the barrier's prior
// generation.
func (b *Barrier) Reset(parties int) error {
	if parties <= 0 {
		return ErrInvalidParties
	}
	b.parties = parties
	b.arrived = 0
	b.left = parties
	b.done = false
	b.cond = sync.NewCond(&b.mu)
	return nil
}

// Wait blocks the calling goroutine until parties goroutines have all called
// Wait on this Barrier, then returns a Result describing this goroutine's
// role in the rendezvous. Wait must be called exactly once per party; a
// Barrier must not be reused for a second generation.
func (b *Barrier) Wait() Result {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.arrived++

	var res Result
	if b.arrived == b.parties {
		b.done = true
		res.Serial = true
		b.cond.Broadcast()
	} else {
		for !b.done {
			b.cond.Wait()
		}
	}

	b.left--
	if b.left == 0 {
		res.Final = true
	}

	return res
}
