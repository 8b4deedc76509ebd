// Package ctpool implements a reusable, bounded thread pool for CPU-bound
// parallel work: a fixed set of worker goroutines draining a FIFO task
// queue, with an optional barrier rendezvous so a caller can express
// "every worker reaches this point before any of them continues" — the
// building block underneath bulk-synchronous algorithms like a parallel
// prefix sum.
//
// A minimal use looks like:
//
//	pool, err := ctpool.NewPool(ctpool.Config{Workers: 4})
//	if err != nil {
//	    return err
//	}
//	defer pool.Destroy()
//
//	for _, chunk := range chunks {
//	    chunk := chunk
//	    if err := pool.PushTask(ctpool.New(func(any) { process(chunk) }, nil)); err != nil {
//	        return err
//	    }
//	}
//	if err := pool.Wait(context.Background()); err != nil {
//	    return err
//	}
//
// Task arguments fall into two categories. A "borrowed" task (built with
// New) simply holds a reference to data the caller guarantees will outlive
// execution — the typical case for a shared input slice. An "owned" task
// (built with NewOwned) copies its argument at enqueue time, which is the
// right choice whenever the argument is a stack-local value built fresh on
// each loop iteration and the caller cannot guarantee it survives until a
// worker gets around to it.
package ctpool
