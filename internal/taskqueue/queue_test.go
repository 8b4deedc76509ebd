package taskqueue_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgepool/ctpool/internal/task"
	"github.com/forgepool/ctpool/internal/taskqueue"
)

func TestNewRejectsNonPositiveCapacity(t *testing.T) {
	_, err := taskqueue.New(0)
	require.Error(t, err)
}

func TestPushPopFIFOOrder(t *testing.T) {
	q, err := taskqueue.New(8)
	require.NoError(t, err)

	var order []int
	for i := 0; i < 5; i++ {
		n := i
		require.NoError(t, q.Push(task.New(func(a any) { order = append(order, a.(int)) }, n)))
	}
	assert.Equal(t, 5, q.Count())

	for i := 0; i < 5; i++ {
		popped, err := q.Pop()
		require.NoError(t, err)
		popped.Execute()
	}
	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)

	_, err = q.Pop()
	assert.ErrorIs(t, err, taskqueue.ErrQueueEmpty)
}

func TestPushBeyondCapacityFails(t *testing.T) {
	q, err := taskqueue.New(2)
	require.NoError(t, err)

	require.NoError(t, q.Push(task.New(func(any) {}, nil)))
	require.NoError(t, q.Push(task.New(func(any) {}, nil)))

	err = q.Push(task.New(func(any) {}, nil))
	assert.ErrorIs(t, err, taskqueue.ErrAlloc)
}

func TestPushNPartialFill(t *testing.T) {
	q, err := taskqueue.New(3)
	require.NoError(t, err)

	n, err := q.PushN(task.New(func(any) {}, nil), 10)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestWaitForWorkUnblocksOnPush(t *testing.T) {
	q, err := taskqueue.New(4)
	require.NoError(t, err)

	results := make(chan int, 1)
	go func() {
		tk, err := q.WaitForWork(context.Background())
		if err != nil {
			return
		}
		tk.Execute()
	}()

	require.NoError(t, q.Push(task.New(func(any) { results <- 1 }, nil)))

	select {
	case <-results:
	case <-time.After(2 * time.Second):
		t.Fatal("WaitForWork never delivered the pushed task")
	}
}

func TestWaitForWorkRespectsContextCancellation(t *testing.T) {
	q, err := taskqueue.New(4)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := q.WaitForWork(ctx)
		done <- err
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("WaitForWork did not observe context cancellation")
	}
}

func TestWaitForCompleteBlocksUntilQuiescent(t *testing.T) {
	q, err := taskqueue.New(8)
	require.NoError(t, err)

	var executed int32
	const n = 10
	for i := 0; i < n; i++ {
		require.NoError(t, q.Push(task.New(func(any) { atomic.AddInt32(&executed, 1) }, nil)))
	}

	var wg sync.WaitGroup
	wg.Add(2)
	for w := 0; w < 2; w++ {
		go func() {
			defer wg.Done()
			for {
				tk, err := q.WaitForWork(context.Background())
				if err != nil {
					return
				}
				tk.Execute()
				q.TaskComplete()
			}
		}()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, q.WaitForComplete(ctx))
	assert.EqualValues(t, n, atomic.LoadInt32(&executed))

	q.Destroy()
	wg.Wait()
}

func TestDestroyReleasesFrozenArguments(t *testing.T) {
	q, err := taskqueue.New(4)
	require.NoError(t, err)

	before := task.DestroyedArgCount()
	require.NoError(t, q.Push(task.NewOwned(func(*int) {}, 42)))
	require.NoError(t, q.Push(task.NewOwned(func(*int) {}, 43)))

	require.NoError(t, q.Destroy())
	assert.Equal(t, before+2, task.DestroyedArgCount())

	_, err = q.Pop()
	assert.ErrorIs(t, err, taskqueue.ErrDestroyed)
}

func TestDestroyIsIdempotent(t *testing.T) {
	q, err := taskqueue.New(1)
	require.NoError(t, err)

	require.NoError(t, q.Destroy())
	require.NoError(t, q.Destroy())
}
