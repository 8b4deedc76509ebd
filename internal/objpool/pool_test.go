package objpool_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgepool/ctpool/internal/objpool"
)

func TestNewRejectsNonPositiveCapacity(t *testing.T) {
	_, err := objpool.New[int](0)
	require.ErrorIs(t, err, objpool.ErrInvalidCapacity)

	_, err = objpool.New[int](-1)
	require.ErrorIs(t, err, objpool.ErrInvalidCapacity)
}

func TestCapacityOneAcquireReleaseCycle(t *testing.T) {
	p, err := objpool.New[int](1)
	require.NoError(t, err)

	v, ok := p.Acquire()
	require.True(t, ok)
	require.NotNil(t, v)

	_, ok = p.Acquire()
	assert.False(t, ok, "pool of capacity 1 must fail a second acquire")

	require.NoError(t, p.Release(v))

	_, ok = p.Acquire()
	assert.True(t, ok, "pool must accept acquire again after release")
}

func TestReleaseIntoFullPoolUnderflows(t *testing.T) {
	p, err := objpool.New[int](2)
	require.NoError(t, err)

	v, ok := p.Acquire()
	require.True(t, ok)
	require.NoError(t, p.Release(v))

	err = p.Release(v)
	assert.ErrorIs(t, err, objpool.ErrUnderflow)
}

func TestReleaseAllThenCAcquiresYieldDistinctSlots(t *testing.T) {
	const capacity = 64

	p, err := objpool.New[int](capacity)
	require.NoError(t, err)

	for i := 0; i < capacity; i++ {
		_, ok := p.Acquire()
		require.True(t, ok)
	}
	_, ok := p.Acquire()
	require.False(t, ok)

	p.ReleaseAll()
	assert.Equal(t, 0, p.Acquired())

	seen := make(map[*int]struct{}, capacity)
	for i := 0; i < capacity; i++ {
		v, ok := p.Acquire()
		require.True(t, ok)
		_, dup := seen[v]
		assert.False(t, dup, "ReleaseAll followed by capacity acquires must yield distinct slots")
		seen[v] = struct{}{}
	}
	assert.Len(t, seen, capacity)
}

// TestConcurrentAcquireRelease has many goroutines repeatedly acquire and
// then release against a bounded pool, and checks that no two goroutines
// ever observe the same slot pointer simultaneously.
func TestConcurrentAcquireRelease(t *testing.T) {
	const (
		capacity    = 256
		goroutines  = 8
		iterations  = 10_000
	)

	p, err := objpool.New[int](capacity)
	require.NoError(t, err)

	var held sync.Map // map[*int]struct{} of currently-held slots

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for g := 0; g < goroutines; g++ {
		go func(seed int) {
			defer wg.Done()
			r := seed + 1
			for i := 0; i < iterations; i++ {
				r = r*1103515245 + 12345
				if r < 0 {
					r = -r
				}

				v, ok := p.Acquire()
				if !ok {
					continue
				}
				if _, dup := held.LoadOrStore(v, struct{}{}); dup {
					t.Errorf("slot %p acquired twice concurrently", v)
				}
				held.Delete(v)
				require.NoError(t, p.Release(v))
			}
		}(g)
	}
	wg.Wait()

	assert.Equal(t, 0, p.Acquired())
}
