package ctpool

import "github.com/forgepool/ctpool/internal/task"

// Entry is the function a worker calls to execute a task.
type Entry = task.Entry

// Task is a one-shot unit of work submitted to a ThreadPool. Build one with
// New or NewOwned.
type Task = task.Task

// New creates a borrowed Task: arg is not copied, and the caller guarantees
// it remains valid and unmodified for as long as the task may still be
// pending or running inside a ThreadPool. Use this for read-only references
// to long-lived data, such as a shared input slice, where a per-enqueue copy
// would be wasted work.
func New(fn Entry, arg any) Task {
	return task.New(fn, arg)
}

// NewOwned creates an owned Task: arg is copied into a fresh allocation when
// the task is enqueued, so the caller's own copy — typically a stack-local
// value built fresh inside a loop — may be freely reused or let go out of
// scope immediately after PushTask returns.
func NewOwned[T any](fn func(*T), arg T) Task {
	return task.NewOwned(fn, arg)
}

// FrozenArgCount and DestroyedArgCount report the number of owned-task
// argument allocations made and released so far, across every ThreadPool in
// the process. They exist to make the allocation/release invariant of owned
// tasks directly observable in tests.
func FrozenArgCount() int64    { return task.FrozenArgCount() }
func DestroyedArgCount() int64 { return task.DestroyedArgCount() }
