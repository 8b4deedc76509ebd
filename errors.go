package ctpool

// Error is an immutable error type backed by a string constant. Unlike
// errors.New, which must be stored in a var, Error values can be declared as
// const, preventing reassignment; errors.Is still works through wrapped
// error chains because Error is a comparable type and Go's default ==
// comparison applies. Grounded on giantswarm-k8senv's internal/sentinel
// package.
type Error string

// Error implements the error interface.
func (e Error) Error() string { return string(e) }

// Sentinel errors, one per entry in the error taxonomy.
const (
	// ErrAlloc is returned when an underlying allocation failed — acquiring
	// a task-queue entry or a barrier instance from a full object pool.
	ErrAlloc = Error("ctpool: allocation failed")

	// ErrQueueEmpty corresponds to a pop from a task queue with no pending
	// tasks. No ThreadPool method returns it.
	ErrQueueEmpty = Error("ctpool: queue is empty")

	// ErrPendingTasks is returned by Destroy when the queue still has
	// enqueued-but-not-started tasks.
	ErrPendingTasks = Error("ctpool: pending tasks remain")

	// ErrRunningTasks is returned by Destroy when workers are still
	// executing tasks.
	ErrRunningTasks = Error("ctpool: running tasks remain")

	// ErrClosed is returned by PushTask and PushBarrier once Destroy has
	// completed.
	ErrClosed = Error("ctpool: thread pool is closed")

	// ErrInvalidConfig is returned by NewPool when the task queue or the
	// barrier pool cannot be built from the normalized Config. Every Config
	// field is clamped to a positive value before that (see Config's doc
	// comment), so no field value is rejected outright.
	ErrInvalidConfig = Error("ctpool: invalid configuration")
)
