package pdfmerge

import (
	"context"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Compile-time interface check.
var _ interface {
	Acquire(context.Context) (*Merger, error)
	Release(*Merger)
	Size() int
	Close() error
} = (*MergerPool)(nil)

func newTestPool(t *testing.T, n int) *MergerPool {
	t.Helper()
	pool := NewMergerPool(n, WithStrategies(&fakeStrategy{name: "fake"}))
	t.Cleanup(func() { _ = pool.Close() })
	return pool
}

func mustAcquire(t *testing.T, pool *MergerPool) *Merger {
	t.Helper()
	m, err := pool.Acquire(context.Background())
	require.NoError(t, err)
	require.NotNil(t, m)
	return m
}

func TestResolvePoolSize(t *testing.T) {
	t.Parallel()

	gomaxprocs := runtime.GOMAXPROCS(0)

	tests := []struct {
		name    string
		workers int
		want    int
	}{
		{
			name:    "explicit takes priority",
			workers: 4,
			want:    4,
		},
		{
			name:    "explicit=1 for sequential",
			workers: 1,
			want:    1,
		},
		{
			name:    "zero uses auto calculation",
			workers: 0,
			want:    min(max(gomaxprocs/cpuDivisor, MinPoolSize), MaxPoolSize),
		},
		{
			name:    "explicit can exceed max",
			workers: 100,
			want:    100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, ResolvePoolSize(tt.workers))
		})
	}
}

func TestResolvePoolSize_NegativeWorkers(t *testing.T) {
	t.Parallel()

	// Negative workers are treated as 0 (auto-calculate)
	got := ResolvePoolSize(-5)
	assert.GreaterOrEqual(t, got, MinPoolSize)
	assert.LessOrEqual(t, got, MaxPoolSize)
}

func TestMergerPool_AcquireRelease(t *testing.T) {
	t.Parallel()

	pool := newTestPool(t, 2)

	m1 := mustAcquire(t, pool)
	m2 := mustAcquire(t, pool)

	assert.NotSame(t, m1, m2, "different merger instances")

	// Release and re-acquire
	pool.Release(m1)
	m3 := mustAcquire(t, pool)
	assert.Same(t, m1, m3, "the released merger comes back")

	pool.Release(m2)
	pool.Release(m3)
}

func TestMergerPool_Size(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		size int
		want int
	}{
		{"size 1", 1, 1},
		{"size 4", 4, 4},
		{"size 0 becomes 1", 0, 1},
		{"negative becomes 1", -1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, newTestPool(t, tt.size).Size())
		})
	}
}

func TestMergerPool_AcquireBlocksUntilContextDone(t *testing.T) {
	t.Parallel()

	pool := newTestPool(t, 1)
	m := mustAcquire(t, pool)
	defer pool.Release(m)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := pool.Acquire(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestMergerPool_AcquireAfterClose(t *testing.T) {
	t.Parallel()

	pool := newTestPool(t, 2)
	m := mustAcquire(t, pool)
	pool.Release(m)

	require.NoError(t, pool.Close())

	_, err := pool.Acquire(context.Background())
	assert.ErrorIs(t, err, ErrPoolClosed)
}

func TestMergerPool_CloseWakesWaiters(t *testing.T) {
	t.Parallel()

	pool := newTestPool(t, 1)
	_ = mustAcquire(t, pool)

	errc := make(chan error, 1)
	go func() {
		_, err := pool.Acquire(context.Background())
		errc <- err
	}()

	time.Sleep(10 * time.Millisecond)
	_ = pool.Close()

	select {
	case err := <-errc:
		assert.ErrorIs(t, err, ErrPoolClosed)
	case <-time.After(5 * time.Second):
		require.FailNow(t, "waiting Acquire() was not woken by Close")
	}
}

func TestMergerPool_ReleaseAfterCloseIsNoop(t *testing.T) {
	t.Parallel()

	pool := newTestPool(t, 2)
	m := mustAcquire(t, pool)
	_ = pool.Close()

	// Release after close should not panic
	pool.Release(m)
	pool.Release(nil)
}

func TestMergerPool_DoubleClose(t *testing.T) {
	t.Parallel()

	pool := NewMergerPool(1)
	assert.NoError(t, pool.Close(), "first Close")
	assert.NoError(t, pool.Close(), "second Close")
}

func TestMergerPool_InvalidOptionsFailAcquire(t *testing.T) {
	t.Parallel()

	pool := NewMergerPool(1, WithTempDir("/nonexistent/pdfmerge-test-dir"))
	defer pool.Close()

	_, err := pool.Acquire(context.Background())
	require.ErrorIs(t, err, ErrInvalidTempDir)

	// The failed creation frees its slot.
	_, err = pool.Acquire(context.Background())
	assert.ErrorIs(t, err, ErrInvalidTempDir)
}

// TestMergerPool_HighContention verifies the pool remains deadlock-free under
// heavy concurrent access.
func TestMergerPool_HighContention(t *testing.T) {
	t.Parallel()

	pool := newTestPool(t, 2)

	var wg sync.WaitGroup
	goroutines := 50
	iterations := 10

	var mu sync.Mutex
	seen := make(map[*Merger]bool)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				m, err := pool.Acquire(context.Background())
				if !assert.NoError(t, err) {
					return
				}
				mu.Lock()
				seen[m] = true
				mu.Unlock()
				time.Sleep(time.Duration(j%3) * time.Millisecond)
				pool.Release(m)
			}
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(30 * time.Second):
		require.FailNow(t, "high contention test timed out - possible deadlock")
	}

	assert.LessOrEqual(t, len(seen), pool.Size(), "mergers created beyond capacity")
}
