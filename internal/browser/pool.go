package browser

import (
	"errors"
	"runtime"
	"sync"
)

// Pool sizing constants.
const (
	// MinPoolSize ensures at least one worker is available.
	MinPoolSize = 1

	// MaxPoolSize caps browser instances to limit memory (~200MB each).
	MaxPoolSize = 8

	// cpuDivisor leaves headroom for Chrome child processes.
	cpuDivisor = 2
)

// Pool hands out at most size browsers. Browsers are created on demand and
// reused; each runs its own Chrome, so workers render in parallel.
type Pool struct {
	size    int
	opts    Options
	newFunc func(Options) *Browser

	mu       sync.Mutex
	browsers []*Browser
	idle     chan *Browser
	created  int
	closed   bool
}

// NewPool creates a pool with capacity for n browsers.
func NewPool(n int, opts Options) *Pool {
	if n < MinPoolSize {
		n = MinPoolSize
	}
	return &Pool{
		size:    n,
		opts:    opts,
		newFunc: New,
		idle:    make(chan *Browser, n),
	}
}

// Acquire returns an idle browser, creating one while under capacity.
// It blocks when all browsers are in use, and returns ErrClosed once the
// pool is closed.
func (p *Pool) Acquire() (*Browser, error) {
	select {
	case b, ok := <-p.idle:
		if !ok {
			return nil, ErrClosed
		}
		return b, nil
	default:
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrClosed
	}
	if p.created < p.size {
		p.created++
		b := p.newFunc(p.opts)
		p.browsers = append(p.browsers, b)
		p.mu.Unlock()
		return b, nil
	}
	p.mu.Unlock()

	b, ok := <-p.idle
	if !ok {
		return nil, ErrClosed
	}
	return b, nil
}

// Release returns a browser to the pool. Releasing after Close is a no-op.
func (p *Pool) Release(b *Browser) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed || b == nil {
		return
	}
	p.idle <- b
}

// Close shuts every created browser down and joins their errors.
func (p *Pool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.idle)
	browsers := p.browsers
	p.mu.Unlock()

	var errs []error
	for _, b := range browsers {
		if err := b.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Size returns the pool capacity.
func (p *Pool) Size() int {
	return p.size
}

// ResolvePoolSize determines the pool size.
// Priority: explicit workers > GOMAXPROCS-based calculation.
func ResolvePoolSize(workers int) int {
	if workers > 0 {
		return workers
	}

	// GOMAXPROCS is container-aware once automaxprocs has run.
	n := runtime.GOMAXPROCS(0) / cpuDivisor
	if n < MinPoolSize {
		return MinPoolSize
	}
	if n > MaxPoolSize {
		return MaxPoolSize
	}
	return n
}
