package seq_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
)

// countingSource is an instrumented source for asserting pull and release
// behavior. It yields items in order, optionally sleeping per pull, and
// optionally failing at a fixed position.
type countingSource[T any] struct {
	items  []T
	delay  time.Duration
	failAt int // position that fails, -1 for none
	fail   error

	pos    int
	nexts  int
	closes int
}

func newCountingSource[T any](items ...T) *countingSource[T] {
	return &countingSource[T]{items: items, failAt: -1}
}

func (s *countingSource[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	s.nexts++
	if err := ctx.Err(); err != nil {
		return zero, false, err
	}
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	if s.failAt >= 0 && s.pos == s.failAt {
		return zero, false, s.fail
	}
	if s.pos >= len(s.items) {
		return zero, false, nil
	}
	item := s.items[s.pos]
	s.pos++
	return item, true, nil
}

func (s *countingSource[T]) Close() error {
	s.closes++
	return nil
}

// MockSource is a testify mock implementing Sequence[string], for tests
// that assert exact interaction counts.
type MockSource struct {
	mock.Mock
}

// NewMockSource creates a mock source.
func NewMockSource(t *testing.T) *MockSource {
	t.Helper()
	m := &MockSource{}
	m.Test(t)
	return m
}

// Next implements Sequence.
func (m *MockSource) Next(ctx context.Context) (string, bool, error) {
	args := m.Called(ctx)
	return args.String(0), args.Bool(1), args.Error(2)
}

// Close implements Sequence.
func (m *MockSource) Close() error {
	args := m.Called()
	return args.Error(0)
}
