package seq

import "context"

// Deferred postpones choosing the underlying sequence until the first pull.
// The factory runs exactly once, before the first item is delivered, and
// must return a non-nil sequence or an error; afterwards every pull
// delegates to the sequence it produced. A factory failure is sticky: the
// factory is never retried and every later pull returns the same error.
func Deferred[T any](factory func(context.Context) (Sequence[T], error)) Sequence[T] {
	return &deferredSequence[T]{factory: factory}
}

type deferredSequence[T any] struct {
	factory func(context.Context) (Sequence[T], error)
	inner   Sequence[T]
	err     error
	closed  bool
}

func (s *deferredSequence[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	if s.closed {
		return zero, false, nil
	}
	if s.factory != nil {
		inner, err := s.factory(ctx)
		s.factory = nil
		if err != nil {
			s.err = err
		} else {
			s.inner = inner
		}
	}
	if s.err != nil {
		return zero, false, s.err
	}
	return s.inner.Next(ctx)
}

func (s *deferredSequence[T]) Close() error {
	s.closed = true
	s.factory = nil
	if s.inner == nil {
		return nil
	}
	return s.inner.Close()
}
