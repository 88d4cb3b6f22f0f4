// Package alloc counts the bytes that are currently allocated through an
// Allocator.
//
// Global is the process-wide counter. It is created when the package is
// initialized and lives for the lifetime of the process; every buffer the
// program wants accounted for is obtained from it.
package alloc

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/dennisklein/memtally/internal/bytesize"
)

// ErrBudgetExceeded is returned by a Limited allocator that cannot satisfy
// a request.
var ErrBudgetExceeded = errors.New("allocation budget exceeded")

// Allocator hands out and takes back byte buffers. Free must be given a
// buffer previously returned by Alloc with its capacity unchanged.
type Allocator interface {
	Alloc(size int) ([]byte, error)
	Free(b []byte)
}

// System allocates from the Go heap.
type System struct{}

// Alloc implements Allocator.
func (System) Alloc(size int) ([]byte, error) {
	if size < 0 {
		return nil, fmt.Errorf("negative allocation size %d", size)
	}

	return make([]byte, size), nil
}

// Free implements Allocator. The garbage collector reclaims the buffer.
func (System) Free([]byte) {}

// Tracking wraps an Allocator and keeps a running total of live bytes.
// It is safe for concurrent use and never blocks.
type Tracking struct {
	delegate Allocator
	size     atomic.Uint64
}

// NewTracking returns a counter in front of delegate.
func NewTracking(delegate Allocator) *Tracking {
	return &Tracking{delegate: delegate}
}

// NewSystemTracking returns a counter in front of the heap.
func NewSystemTracking() *Tracking {
	return NewTracking(System{})
}

// Alloc counts size and delegates. If the delegate fails the count is
// restored and its error returned unchanged.
func (t *Tracking) Alloc(size int) ([]byte, error) {
	n := uint64(max(size, 0))
	t.size.Add(n)

	b, err := t.delegate.Alloc(size)
	if err != nil {
		t.size.Add(^(n - 1))
		return nil, err
	}

	return b, nil
}

// Free releases b through the delegate, then uncounts cap(b).
func (t *Tracking) Free(b []byte) {
	n := uint64(cap(b))

	t.delegate.Free(b)

	if n > 0 {
		t.size.Add(^(n - 1))
	}
}

// Load returns the number of live bytes. Concurrent Alloc and Free calls
// may or may not be reflected.
func (t *Tracking) Load() uint64 {
	return t.size.Load()
}

// Reset forces the count to zero without touching live allocations.
func (t *Tracking) Reset() {
	t.size.Store(0)
}

// Bytes returns Load as a decimal byte quantity.
func (t *Tracking) Bytes() bytesize.Decimal {
	return bytesize.FromBytesDecimal(t.Load())
}

// Global is the process-wide allocation counter.
var Global = NewSystemTracking()

// Alloc allocates size bytes through Global.
func Alloc(size int) ([]byte, error) { return Global.Alloc(size) }

// Free releases b through Global.
func Free(b []byte) { Global.Free(b) }

// Load returns the live byte count of Global.
func Load() uint64 { return Global.Load() }

// Reset zeroes the live byte count of Global.
func Reset() { Global.Reset() }

// Bytes returns the live byte count of Global as a decimal quantity.
func Bytes() bytesize.Decimal { return Global.Bytes() }
