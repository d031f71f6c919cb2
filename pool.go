package cheatmark

import (
	"context"
	"runtime"
	"sync"
)

// Pool sizing constants.
const (
	// MinPoolSize ensures at least one conversion can run.
	MinPoolSize = 1

	// MaxPoolSize caps concurrent pdflatex processes.
	MaxPoolSize = 8
)

// ConverterPool bounds the number of concurrent conversions.
// All slots share one Converter, which is safe for concurrent use;
// the pool only limits how many pdflatex processes run at once.
type ConverterPool struct {
	size   int
	conv   *Converter
	sem    chan struct{}
	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// NewConverterPool creates a pool running at most n conversions at once.
// The options configure the shared Converter.
func NewConverterPool(n int, opts ...Option) (*ConverterPool, error) {
	if n < 1 {
		n = 1
	}

	conv, err := NewConverter(opts...)
	if err != nil {
		return nil, err
	}

	return &ConverterPool{
		size: n,
		conv: conv,
		sem:  make(chan struct{}, n),
	}, nil
}

// Convert waits for a free slot, then converts input.
// Returns ctx.Err() if the context ends while waiting and ErrPoolClosed
// once Close has been called.
func (p *ConverterPool) Convert(ctx context.Context, input Input) (*ConvertResult, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrPoolClosed
	}
	p.wg.Add(1)
	p.mu.Unlock()
	defer p.wg.Done()

	select {
	case p.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	defer func() { <-p.sem }()

	return p.conv.Convert(ctx, input)
}

// Converter returns the shared converter.
func (p *ConverterPool) Converter() *Converter {
	return p.conv
}

// Close waits for running conversions and releases the converter.
// Safe to call more than once.
func (p *ConverterPool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.mu.Unlock()

	p.wg.Wait()
	return p.conv.Close()
}

// Size returns the pool capacity.
func (p *ConverterPool) Size() int {
	return p.size
}

// ResolvePoolSize determines the pool size.
// Priority: explicit workers > GOMAXPROCS-based calculation.
// Exported for use by servers and CLIs.
func ResolvePoolSize(workers int) int {
	// Explicit value takes priority
	if workers > 0 {
		return workers
	}

	// pdflatex is single-threaded, so one process per available CPU
	// (adjusted by automaxprocs for containers).
	n := runtime.GOMAXPROCS(0)

	if n < MinPoolSize {
		return MinPoolSize
	}
	if n > MaxPoolSize {
		return MaxPoolSize
	}
	return n
}
