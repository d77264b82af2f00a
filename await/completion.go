// Package await provides the settlement primitives behind deferred path
// evaluation: Completion, the write-once handle for a pending operation,
// and Awaitable, a typed result gated by one.
//
// A Completion settles exactly once, successfully or with an error, and
// never reopens. Settlement is observable three ways: polling (IsSettled),
// blocking (Wait), and registration (OnSettled). Errors ride the handle to
// whoever observes it; nothing in this package translates or logs them.
package await

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
)

// ErrPending reports a read that requires settlement before the pending
// operation has settled.
var ErrPending = errors.New("pending operation has not settled")

// Completion is the handle for an in-flight or finished operation.
// Create instances with NewCompletion; the zero value is not usable.
type Completion struct {
	token string
	done  chan struct{}
	once  sync.Once
	err   error // written once, before done closes
}

// NewCompletion creates an unsettled completion handle.
func NewCompletion() *Completion {
	return &Completion{
		token: uuid.New().String(),
		done:  make(chan struct{}),
	}
}

var settledSentinel = func() *Completion {
	c := NewCompletion()
	c.Settle(nil)
	return c
}()

// Settled returns the shared, already-settled handle used for values that
// are complete at construction time.
func Settled() *Completion {
	return settledSentinel
}

// Token returns the operation token assigned to this handle, used in traces
// and error decoration.
func (c *Completion) Token() string {
	return c.token
}

// Settle marks the operation finished. A non-nil err records a failure.
// Only the first call has any effect; later calls are ignored.
func (c *Completion) Settle(err error) {
	c.once.Do(func() {
		c.err = err
		close(c.done)
	})
}

// Done returns a channel that is closed once the operation settles.
func (c *Completion) Done() <-chan struct{} {
	return c.done
}

// IsSettled reports whether the operation has finished.
func (c *Completion) IsSettled() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

// Err returns the settlement error. Before settlement it returns nil, so
// callers must check IsSettled first when the distinction matters.
func (c *Completion) Err() error {
	select {
	case <-c.done:
		return c.err
	default:
		return nil
	}
}

// Wait blocks until the operation settles or ctx is canceled. It returns
// the settlement error, or the context's error on cancellation.
func (c *Completion) Wait(ctx context.Context) error {
	select {
	case <-c.done:
		return c.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// OnSettled arranges for fn to run exactly once with the settlement error.
// When the operation has already settled, fn runs inline; otherwise it runs
// from a watcher goroutine after settlement.
func (c *Completion) OnSettled(fn func(error)) {
	select {
	case <-c.done:
		fn(c.err)
	default:
		go func() {
			<-c.done
			fn(c.err)
		}()
	}
}
