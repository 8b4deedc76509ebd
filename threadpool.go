package ctpool

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/forgepool/ctpool/internal/barrier"
	"github.com/forgepool/ctpool/internal/objpool"
	"github.com/forgepool/ctpool/internal/task"
	"github.com/forgepool/ctpool/internal/taskqueue"
)

// ThreadPool runs tasks on a fixed set of worker goroutines, in the order
// they are pushed, with an optional barrier rendezvous that every worker
// must reach before any of them proceeds past it.
type ThreadPool interface {
	// PushTask enqueues a single task for execution by some worker.
	PushTask(t Task) error

	// PushBarrier enqueues a rendezvous point: every worker must reach it
	// before any of them continues to tasks pushed after it. It is
	// implemented as one barrier-wait task per worker, so it only makes
	// progress once workers free up to run them — callers should not rely
	// on PushBarrier itself blocking, only on tasks pushed afterward
	// waiting their turn behind it.
	PushBarrier() error

	// Wait blocks until every task pushed so far — including barriers —
	// has finished running, or until ctx is done.
	Wait(ctx context.Context) error

	// Notify wakes any goroutine blocked in Wait without otherwise
	// changing pool state.
	Notify()

	// NumThreads reports the configured worker count.
	NumThreads() int

	// NumPending reports how many tasks are enqueued but not yet picked
	// up by a worker.
	NumPending() int

	// Destroy shuts the pool down. It fails with ErrPendingTasks or
	// ErrRunningTasks if work is still outstanding, and leaves the pool
	// running in that case; there is no call that abandons outstanding
	// work.
	Destroy() error
}

type threadPool struct {
	cfg     Config
	queue   *taskqueue.Queue
	barrier *objpool.Pool[barrier.Barrier]

	cancel  context.CancelFunc
	workers errgroup.Group
}

var _ ThreadPool = (*threadPool)(nil)

// NewPool builds a ThreadPool and immediately spawns cfg.Workers goroutines
// to service it — unlike a two-phase build-then-Run API, there is no
// separate start step, since a pool with no workers running is never useful
// on its own.
func NewPool(cfg Config, opts ...Option) (ThreadPool, error) {
	cfg = cfg.normalize()
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg = cfg.normalize()

	q, err := taskqueue.New(cfg.QueueCapacity)
	if err != nil {
		return nil, ErrInvalidConfig
	}

	barriers, err := objpool.New[barrier.Barrier](cfg.BarrierPoolSize)
	if err != nil {
		return nil, ErrInvalidConfig
	}

	ctx, cancel := context.WithCancel(context.Background())
	tp := &threadPool{
		cfg:     cfg,
		queue:   q,
		barrier: barriers,
		cancel:  cancel,
	}

	for i := 0; i < cfg.Workers; i++ {
		tp.workers.Go(func() error {
			tp.runWorker(ctx)
			return nil
		})
	}

	return tp, nil
}

// runWorker is the body of a single worker goroutine: pop, execute, mark
// complete, repeat, until the queue is destroyed or ctx is canceled.
func (tp *threadPool) runWorker(ctx context.Context) {
	for {
		t, err := tp.queue.WaitForWork(ctx)
		if err != nil {
			return
		}
		tp.runTask(t)
		tp.queue.TaskComplete()
	}
}

// runTask executes one task, recovering and logging a panic rather than
// letting it take the whole worker goroutine down — there is no analog to
// this in the original single-threaded cancellation model, since a Go
// panic unwinding an uncontrolled goroutine is a program-ending event the
// original's OS-thread cancellation never had to guard against. Destroy
// runs on every path out of Execute, normal return or recovered panic, so
// an owned task's frozen argument storage is always released exactly once.
func (tp *threadPool) runTask(t Task) {
	defer t.Destroy()
	defer func() {
		if r := recover(); r != nil {
			tp.cfg.logger().Error("recovered panic in task entry", "panic", r)
		}
	}()
	t.Execute()
}

func (tp *threadPool) PushTask(t Task) error {
	if err := tp.queue.Push(t); err != nil {
		return translateQueueErr(err)
	}
	return nil
}

// PushBarrier enqueues one barrier-wait task per worker. Each worker that
// picks one up blocks inside Barrier.Wait until every other worker has also
// picked one up, so no task pushed after PushBarrier starts running until
// every worker that was busy with earlier work has drained down to the
// barrier. The worker observing Final returns the barrier instance to its
// pool.
func (tp *threadPool) PushBarrier() error {
	b, ok := tp.barrier.Acquire()
	if !ok {
		return ErrAlloc
	}
	if err := b.Reset(tp.cfg.Workers); err != nil {
		_ = tp.barrier.Release(b)
		return err
	}

	bt := task.New(func(arg any) {
		bp := arg.(*barrier.Barrier)
		res := bp.Wait()
		if res.Final {
			_ = tp.barrier.Release(bp)
		}
	}, b)

	n, err := tp.queue.PushN(bt, tp.cfg.Workers)
	if err != nil {
		return translateQueueErr(err)
	}
	if n != tp.cfg.Workers {
		return ErrAlloc
	}
	return nil
}

func (tp *threadPool) Wait(ctx context.Context) error {
	return tp.queue.WaitForComplete(ctx)
}

func (tp *threadPool) Notify() {
	tp.queue.Notify()
}

func (tp *threadPool) NumThreads() int {
	return tp.cfg.Workers
}

func (tp *threadPool) NumPending() int {
	return tp.queue.Pending()
}

func (tp *threadPool) Destroy() error {
	pending, running := tp.queue.Quiescent()
	if pending > 0 {
		return ErrPendingTasks
	}
	if running > 0 {
		return ErrRunningTasks
	}
	tp.cancel()
	_ = tp.workers.Wait()
	return tp.queue.Destroy()
}

func translateQueueErr(err error) error {
	switch err {
	case taskqueue.ErrAlloc:
		return ErrAlloc
	case taskqueue.ErrDestroyed:
		return ErrClosed
	case taskqueue.ErrQueueEmpty:
		return ErrQueueEmpty
	default:
		return err
	}
}
