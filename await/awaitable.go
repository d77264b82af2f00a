package await

import (
	"context"
	"fmt"
	"sync"
)

// Awaitable is a typed result gated by the completion of a pending
// operation. The factory producing the result runs at most once, after
// settlement, and its outcome is memoized for the lifetime of the instance.
//
// Instances are created per call site and consumed by a single caller; they
// are not meant to be shared or stored.
type Awaitable[T any] struct {
	completion *Completion
	factory    func() (T, error)
	once       sync.Once
	value      T
	err        error
}

// NewAwaitable builds an awaitable whose result becomes available once
// completion settles. A nil completion means no operation is outstanding
// and the factory may run immediately on first read.
func NewAwaitable[T any](completion *Completion, factory func() (T, error)) *Awaitable[T] {
	return &Awaitable[T]{completion: completion, factory: factory}
}

// Resolved wraps an immediately available value.
func Resolved[T any](v T) *Awaitable[T] {
	return &Awaitable[T]{factory: func() (T, error) { return v, nil }}
}

// Completed reports whether the gating operation has finished. It is true
// when no operation is outstanding.
func (a *Awaitable[T]) Completed() bool {
	return a.completion == nil || a.completion.IsSettled()
}

// OnCompleted arranges for fn to run once the gating operation finishes,
// inline when it already has.
func (a *Awaitable[T]) OnCompleted(fn func()) {
	if a.completion == nil {
		fn()
		return
	}
	a.completion.OnSettled(func(error) { fn() })
}

// Await blocks until the gating operation settles, then resolves and
// returns the result. A settlement failure surfaces as the error without
// running the factory. Cancellation of ctx interrupts the wait and leaves
// the instance untouched, so a later call can still resolve it.
func (a *Awaitable[T]) Await(ctx context.Context) (T, error) {
	var zero T
	if a.completion != nil {
		if err := a.completion.Wait(ctx); err != nil {
			return zero, err
		}
	}
	return a.resolve()
}

// Value returns the result without waiting. On an instance whose gating
// operation is still pending it fails with ErrPending instead of running
// the factory against unsettled state.
func (a *Awaitable[T]) Value() (T, error) {
	var zero T
	if a.completion != nil {
		if !a.completion.IsSettled() {
			return zero, fmt.Errorf("%w: result not ready", ErrPending)
		}
		if err := a.completion.Err(); err != nil {
			return zero, err
		}
	}
	return a.resolve()
}

// MustValue is Value for call sites that know the operation has settled.
// It panics on any error.
func (a *Awaitable[T]) MustValue() T {
	v, err := a.Value()
	if err != nil {
		panic(err)
	}
	return v
}

func (a *Awaitable[T]) resolve() (T, error) {
	a.once.Do(func() {
		a.value, a.err = a.factory()
	})
	return a.value, a.err
}
