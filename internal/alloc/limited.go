package alloc

import (
	"fmt"
	"sync/atomic"
)

// Limited is an Allocator that refuses requests once the bytes it has
// handed out would exceed a fixed budget.
type Limited struct {
	delegate Allocator
	budget   uint64
	used     atomic.Uint64
}

// NewLimited returns an allocator that serves at most budget bytes at a
// time from delegate. A nil delegate means System.
func NewLimited(delegate Allocator, budget uint64) *Limited {
	if delegate == nil {
		delegate = System{}
	}

	return &Limited{delegate: delegate, budget: budget}
}

// Alloc implements Allocator.
func (l *Limited) Alloc(size int) ([]byte, error) {
	n := uint64(max(size, 0))

	for {
		used := l.used.Load()
		if used+n > l.budget || used+n < used {
			return nil, fmt.Errorf("%w: %d of %d bytes in use, %d requested", ErrBudgetExceeded, used, l.budget, n)
		}

		if l.used.CompareAndSwap(used, used+n) {
			break
		}
	}

	b, err := l.delegate.Alloc(size)
	if err != nil {
		l.used.Add(^(n - 1))
		return nil, err
	}

	return b, nil
}

// Free implements Allocator.
func (l *Limited) Free(b []byte) {
	n := uint64(cap(b))

	l.delegate.Free(b)
	l.used.Add(^(n - 1))
}

// Budget returns the configured budget in bytes.
func (l *Limited) Budget() uint64 {
	return l.budget
}
