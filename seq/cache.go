package seq

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/bleroy/fluentpath/internal/id"
)

// ErrConcurrentEnumeration reports a consumption starting while the first
// one is still draining the source.
var ErrConcurrentEnumeration = errors.New("sequence is already being enumerated")

// State tracks the consumption lifecycle of a Cached sequence.
type State int

const (
	// StateNotStarted means the source has not been pulled yet.
	StateNotStarted State = iota
	// StateInProgress means the first consumption is draining the source.
	StateInProgress
	// StateDone means the source drained completely and the recording is
	// authoritative.
	StateDone
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not_started"
	case StateInProgress:
		return "in_progress"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// Cached memoizes one full consumption of a source sequence and replays
// the recording afterward. The source is pulled at most once end to end;
// replays deliver recorded items immediately, in original order.
//
// Cached itself is safe for concurrent use. The first, recording
// consumption must still belong to a single consumer: a second Iterate
// while it is in progress fails with ErrConcurrentEnumeration rather than
// silently re-pulling the source. A recording consumption abandoned before
// its natural end leaves the cache in progress; release the whole Cached
// value instead of reusing it.
type Cached[T any] struct {
	mu     sync.Mutex
	id     string
	src    Sequence[T]
	record []T
	state  State
}

// NewCached wraps src in a memoizing sequence factory.
func NewCached[T any](src Sequence[T]) *Cached[T] {
	return &Cached[T]{
		id:  id.NewSequenceID(),
		src: src,
	}
}

// State returns the current consumption state.
func (c *Cached[T]) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Iterate starts a consumption. The first call returns a sequence that
// drains the source while recording it; once that consumption ends
// naturally, every later call returns an immediate replay of the recording.
func (c *Cached[T]) Iterate() (Sequence[T], error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case StateNotStarted:
		c.state = StateInProgress
		return &recordingSequence[T]{cache: c}, nil
	case StateInProgress:
		return nil, fmt.Errorf("%w: %s", ErrConcurrentEnumeration, c.id)
	default:
		// Replays share the recording; each gets its own cursor.
		return FromSlice(c.record), nil
	}
}

// recordingSequence is the first consumption: it pulls the source, appends
// every item to the recording, and flips the cache to done when the source
// ends naturally.
type recordingSequence[T any] struct {
	cache *Cached[T]
	done  bool
}

func (s *recordingSequence[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	if s.done {
		return zero, false, nil
	}

	item, ok, err := s.cache.src.Next(ctx)
	if err != nil {
		return zero, false, err
	}
	if !ok {
		s.finish()
		return zero, false, nil
	}

	s.cache.mu.Lock()
	s.cache.record = append(s.cache.record, item)
	s.cache.mu.Unlock()
	return item, true, nil
}

func (s *recordingSequence[T]) finish() {
	s.done = true
	s.cache.mu.Lock()
	s.cache.state = StateDone
	s.cache.mu.Unlock()
	s.cache.src.Close()
}

// Close releases the source. Closing before the source is drained keeps
// the cache in progress rather than publishing a partial recording.
func (s *recordingSequence[T]) Close() error {
	if s.done {
		return nil
	}
	s.done = true
	return s.cache.src.Close()
}
