package parallel_test

import (
	"context"
	"runtime"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sameerraj-blip/MaricoShareAnalysisFeature-sub004/internal/parallel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWorkerPool(t *testing.T) {
	for _, workers := range []int{0, -3, 4} {
		pool := parallel.NewWorkerPool(t.Context(), workers)
		results := parallel.ProcessIndexed(pool, []int{1, 2, 3, 4, 5}, func(_ int, x int) int {
			return x * x
		})
		assert.Equal(t, []int{1, 4, 9, 16, 25}, results, "workers=%d", workers)
		assert.NoError(t, pool.Err())
		pool.Close()
	}
}

func TestProcessEmpty(t *testing.T) {
	pool := parallel.NewWorkerPool(t.Context(), 2)
	defer pool.Close()

	assert.Nil(t, parallel.ProcessIndexed(pool, []string{}, func(_ int, v string) string { return v }))
}

func TestProcessIndexed(t *testing.T) {
	pool := parallel.NewWorkerPool(t.Context(), 2)
	defer pool.Close()

	results := parallel.ProcessIndexed(pool, []string{"a", "b", "c", "d"}, func(index int, value string) string {
		return value + string(rune('0'+index))
	})

	assert.Equal(t, []string{"a0", "b1", "c2", "d3"}, results)
}

func TestProcessConcurrency(t *testing.T) {
	pool := parallel.NewWorkerPool(t.Context(), 4)
	defer pool.Close()

	var concurrent, maxConcurrent int64
	input := make([]int, 20)
	for i := range input {
		input[i] = i
	}

	results := parallel.ProcessIndexed(pool, input, func(_ int, x int) int {
		current := atomic.AddInt64(&concurrent, 1)
		for {
			seen := atomic.LoadInt64(&maxConcurrent)
			if current <= seen || atomic.CompareAndSwapInt64(&maxConcurrent, seen, current) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		atomic.AddInt64(&concurrent, -1)
		return x * 2
	})

	assert.Len(t, results, 20)
	assert.Greater(t, maxConcurrent, int64(1), "expected concurrent execution")
}

func TestProcessCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	pool := parallel.NewWorkerPool(ctx, 2)
	defer pool.Close()

	var calls int64
	results := parallel.ProcessIndexed(pool, []int{1, 2, 3}, func(_ int, x int) int {
		atomic.AddInt64(&calls, 1)
		return x
	})

	require.Len(t, results, 3)
	require.ErrorIs(t, pool.Err(), context.Canceled)
	for i, r := range results {
		if r != 0 {
			assert.Equal(t, i+1, r)
		}
	}
	assert.LessOrEqual(t, atomic.LoadInt64(&calls), int64(3))
}

func TestWorkerPoolClose(t *testing.T) {
	pool := parallel.NewWorkerPool(t.Context(), 2)

	results := parallel.ProcessIndexed(pool, []int{1, 2, 3}, func(_ int, x int) int { return x })
	assert.Len(t, results, 3)

	pool.Close()
	require.ErrorIs(t, pool.Err(), context.Canceled)
	assert.NotPanics(t, pool.Close)
}

func TestLargeDataset(t *testing.T) {
	pool := parallel.NewWorkerPool(t.Context(), runtime.NumCPU())
	defer pool.Close()

	size := 1000
	input := make([]int, size)
	for i := range size {
		input[i] = i
	}

	results := parallel.ProcessIndexed(pool, input, func(_ int, x int) int {
		return x*x + x + 1
	})

	require.Len(t, results, size)
	assert.Equal(t, 1, results[0])
	assert.Equal(t, 3, results[1])
	assert.Equal(t, 7, results[2])
	assert.Equal(t, 999*999+999+1, results[999])
}
