package pdfmerge

import (
	"context"
	"errors"
	"runtime"
	"sync"
)

// Pool sizing constants.
const (
	// MinPoolSize ensures at least one worker is available.
	MinPoolSize = 1

	// MaxPoolSize caps concurrent merges; each may run an office suite or
	// a browser (~200MB each).
	MaxPoolSize = 8

	// cpuDivisor leaves headroom for office and Chrome child processes.
	cpuDivisor = 2
)

// ErrPoolClosed is returned by Acquire once the pool is closed.
var ErrPoolClosed = errors.New("merger pool is closed")

// MergerPool bounds the number of merges running at once.
// Mergers are created lazily on first acquire, all with the same options.
type MergerPool struct {
	size    int
	opts    []Option
	sem     chan *Merger
	mu      sync.Mutex
	created int
	closed  bool
}

// NewMergerPool creates a pool with capacity for n Merger instances.
// Mergers are created lazily when acquired, not at pool creation.
func NewMergerPool(n int, opts ...Option) *MergerPool {
	if n < 1 {
		n = 1
	}

	return &MergerPool{
		size: n,
		opts: opts,
		sem:  make(chan *Merger, n),
	}
}

// Acquire gets a merger from the pool, creating one if needed.
// Blocks while all mergers are in use, until ctx is done.
func (p *MergerPool) Acquire(ctx context.Context) (*Merger, error) {
	p.mu.Lock()
	closed := p.closed
	p.mu.Unlock()
	if closed {
		return nil, ErrPoolClosed
	}

	// Try to get an existing merger (non-blocking)
	select {
	case m, ok := <-p.sem:
		if !ok {
			return nil, ErrPoolClosed
		}
		return m, nil
	default:
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrPoolClosed
	}
	if p.created < p.size {
		p.created++
		p.mu.Unlock()

		// Create new merger outside the lock
		m, err := NewMerger(p.opts...)
		if err != nil {
			p.mu.Lock()
			p.created--
			p.mu.Unlock()
			return nil, err
		}
		return m, nil
	}
	p.mu.Unlock()

	// All mergers created, wait for one to be released
	select {
	case m, ok := <-p.sem:
		if !ok {
			return nil, ErrPoolClosed
		}
		return m, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Release returns a merger to the pool. Releasing after Close is a no-op.
func (p *MergerPool) Release(m *Merger) {
	if m == nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}

	select {
	case p.sem <- m:
	default:
		// More releases than acquires; drop the extra merger.
	}
}

// Close stops the pool. Pending and future Acquire calls fail with ErrPoolClosed.
func (p *MergerPool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	close(p.sem)
	return nil
}

// Size returns the pool capacity.
func (p *MergerPool) Size() int {
	return p.size
}

// ResolvePoolSize determines the optimal pool size.
// Priority: explicit workers > GOMAXPROCS-based calculation.
// Exported for use by servers and CLIs.
func ResolvePoolSize(workers int) int {
	// Explicit value takes priority
	if workers > 0 {
		return workers
	}

	// Auto-calculate based on GOMAXPROCS (adjusted by automaxprocs for containers)
	available := runtime.GOMAXPROCS(0)
	n := available / cpuDivisor

	if n < MinPoolSize {
		return MinPoolSize
	}
	if n > MaxPoolSize {
		return MaxPoolSize
	}
	return n
}
