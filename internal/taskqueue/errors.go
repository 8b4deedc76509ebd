package taskqueue

type sentinelError string

func (e sentinelError) Error() string { return string(e) }

const (
	// ErrInvalidCapacity is returned by New when entryCapacity <= 0.
	ErrInvalidCapacity = sentinelError("taskqueue: entry capacity must be greater than zero")

	// ErrAlloc is returned by Push/PushN when the bounded entry pool is
	// exhausted — entryCapacity tasks are already enqueued and unconsumed.
	ErrAlloc = sentinelError("taskqueue: entry pool exhausted")

	// ErrQueueEmpty is returned by Pop when there is no pending task.
	ErrQueueEmpty = sentinelError("taskqueue: queue is empty")

	// ErrDestroyed is returned by Push, PushN, Pop and WaitForWork once
	// Destroy has completed.
	ErrDestroyed = sentinelError("taskqueue: queue is destroyed")
)
