package seq

import "context"

// Map derives a sequence by applying fn to every item of src, one to one
// and in order.
func Map[T, U any](src Sequence[T], fn func(T) U) Sequence[U] {
	return &mapSequence[T, U]{src: src, fn: fn}
}

type mapSequence[T, U any] struct {
	src Sequence[T]
	fn  func(T) U
}

func (s *mapSequence[T, U]) Next(ctx context.Context) (U, bool, error) {
	var zero U
	item, ok, err := s.src.Next(ctx)
	if err != nil || !ok {
		return zero, false, err
	}
	return s.fn(item), true, nil
}

func (s *mapSequence[T, U]) Close() error { return s.src.Close() }

// MapErr is Map for transforms that suspend or fail. fn receives the
// consumer's context; its error aborts the sequence.
func MapErr[T, U any](src Sequence[T], fn func(context.Context, T) (U, error)) Sequence[U] {
	return &mapErrSequence[T, U]{src: src, fn: fn}
}

type mapErrSequence[T, U any] struct {
	src Sequence[T]
	fn  func(context.Context, T) (U, error)
}

func (s *mapErrSequence[T, U]) Next(ctx context.Context) (U, bool, error) {
	var zero U
	item, ok, err := s.src.Next(ctx)
	if err != nil || !ok {
		return zero, false, err
	}
	mapped, err := s.fn(ctx, item)
	if err != nil {
		return zero, false, err
	}
	return mapped, true, nil
}

func (s *mapErrSequence[T, U]) Close() error { return s.src.Close() }

// MapSkip applies fn to every item and drops those for which fn reports
// ok false, pulling upstream until it finds a kept item or the source ends.
func MapSkip[T, U any](src Sequence[T], fn func(T) (U, bool)) Sequence[U] {
	return &mapSkipSequence[T, U]{src: src, fn: fn}
}

type mapSkipSequence[T, U any] struct {
	src Sequence[T]
	fn  func(T) (U, bool)
}

func (s *mapSkipSequence[T, U]) Next(ctx context.Context) (U, bool, error) {
	var zero U
	for {
		item, ok, err := s.src.Next(ctx)
		if err != nil || !ok {
			return zero, false, err
		}
		if mapped, keep := s.fn(item); keep {
			return mapped, true, nil
		}
	}
}

func (s *mapSkipSequence[T, U]) Close() error { return s.src.Close() }

// Filter derives the subsequence of items for which pred holds, preserving
// order.
func Filter[T any](src Sequence[T], pred func(T) bool) Sequence[T] {
	return FilterErr(src, func(_ context.Context, item T) (bool, error) {
		return pred(item), nil
	})
}

// FilterErr is Filter for predicates that suspend or fail. pred receives
// the consumer's context; its error aborts the sequence.
func FilterErr[T any](src Sequence[T], pred func(context.Context, T) (bool, error)) Sequence[T] {
	return &filterSequence[T]{src: src, pred: pred}
}

type filterSequence[T any] struct {
	src  Sequence[T]
	pred func(context.Context, T) (bool, error)
}

func (s *filterSequence[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	for {
		item, ok, err := s.src.Next(ctx)
		if err != nil || !ok {
			return zero, false, err
		}
		keep, err := s.pred(ctx, item)
		if err != nil {
			return zero, false, err
		}
		if keep {
			return item, true, nil
		}
	}
}

func (s *filterSequence[T]) Close() error { return s.src.Close() }

// Flatten concatenates the inner sequences produced by src, depth first:
// each inner sequence drains completely before the next upstream item is
// requested.
func Flatten[T any](src Sequence[Sequence[T]]) Sequence[T] {
	return &flattenSequence[T]{src: src}
}

type flattenSequence[T any] struct {
	src   Sequence[Sequence[T]]
	inner Sequence[T]
}

func (s *flattenSequence[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	for {
		if s.inner == nil {
			inner, ok, err := s.src.Next(ctx)
			if err != nil || !ok {
				return zero, false, err
			}
			s.inner = inner
		}
		item, ok, err := s.inner.Next(ctx)
		if err != nil {
			return zero, false, err
		}
		if ok {
			return item, true, nil
		}
		s.inner.Close()
		s.inner = nil
	}
}

func (s *flattenSequence[T]) Close() error {
	if s.inner != nil {
		s.inner.Close()
		s.inner = nil
	}
	return s.src.Close()
}

// Tap re-yields every item unchanged after running fn on it.
func Tap[T any](src Sequence[T], fn func(T)) Sequence[T] {
	return Map(src, func(item T) T {
		fn(item)
		return item
	})
}

// Take bounds src to its first n items. Once the bound is met the upstream
// is closed and never pulled again.
func Take[T any](src Sequence[T], n int) Sequence[T] {
	return &takeSequence[T]{src: src, left: n}
}

type takeSequence[T any] struct {
	src      Sequence[T]
	left     int
	released bool
}

func (s *takeSequence[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	if s.left <= 0 {
		s.release()
		return zero, false, nil
	}
	item, ok, err := s.src.Next(ctx)
	if err != nil || !ok {
		return zero, false, err
	}
	s.left--
	if s.left == 0 {
		s.release()
	}
	return item, true, nil
}

func (s *takeSequence[T]) release() {
	if !s.released {
		s.released = true
		s.src.Close()
	}
}

func (s *takeSequence[T]) Close() error {
	if s.released {
		return nil
	}
	s.released = true
	return s.src.Close()
}

// Skip discards the first n items of src and yields the remainder, in a
// single pass over the source.
func Skip[T any](src Sequence[T], n int) Sequence[T] {
	return &skipSequence[T]{src: src, left: n}
}

type skipSequence[T any] struct {
	src  Sequence[T]
	left int
}

func (s *skipSequence[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	for s.left > 0 {
		_, ok, err := s.src.Next(ctx)
		if err != nil || !ok {
			return zero, false, err
		}
		s.left--
	}
	return s.src.Next(ctx)
}

func (s *skipSequence[T]) Close() error { return s.src.Close() }

// Concat yields every item of first, then every item of second. The second
// sequence is not pulled until the first is exhausted.
func Concat[T any](first, second Sequence[T]) Sequence[T] {
	return &concatSequence[T]{seqs: [2]Sequence[T]{first, second}}
}

type concatSequence[T any] struct {
	seqs [2]Sequence[T]
	pos  int
}

func (s *concatSequence[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	for s.pos < len(s.seqs) {
		item, ok, err := s.seqs[s.pos].Next(ctx)
		if err != nil {
			return zero, false, err
		}
		if ok {
			return item, true, nil
		}
		s.seqs[s.pos].Close()
		s.pos++
	}
	return zero, false, nil
}

func (s *concatSequence[T]) Close() error {
	var first error
	for i := s.pos; i < len(s.seqs); i++ {
		if err := s.seqs[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	s.pos = len(s.seqs)
	return first
}

// All reports whether pred holds for every item of s. It short-circuits on
// the first counterexample and closes the sequence.
func All[T any](ctx context.Context, s Sequence[T], pred func(T) bool) (bool, error) {
	defer s.Close()

	for {
		item, ok, err := s.Next(ctx)
		if err != nil {
			return false, err
		}
		if !ok {
			return true, nil
		}
		if !pred(item) {
			return false, nil
		}
	}
}

// Any reports whether pred holds for at least one item of s. It
// short-circuits on the first witness and closes the sequence.
func Any[T any](ctx context.Context, s Sequence[T], pred func(T) bool) (bool, error) {
	defer s.Close()

	for {
		item, ok, err := s.Next(ctx)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
		if pred(item) {
			return true, nil
		}
	}
}
