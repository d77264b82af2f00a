// Package seq implements lazy, cooperatively cancellable sequences: a
// pull-based stream abstraction with transformation combinators, a
// memoizing cache, and deferred construction.
//
// Sequences are single-consumer cursors. Producers do no work until pulled,
// check the consumer's context between items, and surface its error
// unchanged on cancellation. Combinators compose without materializing:
// each pull on a derived sequence performs the minimum upstream work needed
// for one item.
package seq

import "context"

// Sequence is a lazily produced, pull-based stream of items.
//
// Next returns the next item. ok is false once the stream is exhausted, and
// every later call reports exhaustion again. A non-nil error aborts the
// stream: implementations check ctx between items and return its error on
// cancellation rather than stopping silently.
//
// Close releases the underlying source before exhaustion. It is idempotent
// and safe to call after the stream has ended.
type Sequence[T any] interface {
	Next(ctx context.Context) (item T, ok bool, err error)
	Close() error
}

type emptySequence[T any] struct{}

func (emptySequence[T]) Next(context.Context) (T, bool, error) {
	var zero T
	return zero, false, nil
}

func (emptySequence[T]) Close() error { return nil }

// Empty returns a sequence with no items.
func Empty[T any]() Sequence[T] {
	return emptySequence[T]{}
}

// sliceSequence adapts an already-materialized slice to the pull interface.
// Delivery is immediate; no suspension is involved.
type sliceSequence[T any] struct {
	items []T
	pos   int
}

// FromSlice wraps a materialized slice so it can be consumed through the
// Sequence interface. The slice is not copied: callers must not mutate it
// while the sequence is live.
func FromSlice[T any](items []T) Sequence[T] {
	return &sliceSequence[T]{items: items}
}

func (s *sliceSequence[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, false, err
	}
	if s.pos >= len(s.items) {
		return zero, false, nil
	}
	item := s.items[s.pos]
	s.pos++
	return item, true, nil
}

func (s *sliceSequence[T]) Close() error {
	s.pos = len(s.items)
	return nil
}

// Collect drains s into a slice and closes it. The first error aborts the
// drain and is returned instead of a partial result.
func Collect[T any](ctx context.Context, s Sequence[T]) ([]T, error) {
	defer s.Close()

	var out []T
	for {
		item, ok, err := s.Next(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, item)
	}
}
