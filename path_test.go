package fluentpath_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bleroy/fluentpath"
	"github.com/bleroy/fluentpath/seq"
)

// pendingPath derives a value from base that stays pending until the
// returned settle function is called, optionally with a failure.
func pendingPath(base *fluentpath.Path) (*fluentpath.Path, func(error)) {
	gate := make(chan struct{})
	var failure error
	p := base.ChainDoAsync(func(context.Context) error {
		<-gate
		return failure
	}, nil, nil)
	return p, func(err error) {
		failure = err
		close(gate)
	}
}

func awaited(t *testing.T, p *fluentpath.Path) *fluentpath.Path {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	out, err := p.Await(ctx)
	require.NoError(t, err)
	return out
}

func TestNewIsSettledImmediately(t *testing.T) {
	p := fluentpath.New("a", "b")
	assert.True(t, p.Settled())
	assert.True(t, p.Completion().IsSettled())
	assert.Equal(t, []string{"a", "b"}, paths(t, p))
	assert.NotEmpty(t, p.ID())
}

func TestPathsReturnsACopy(t *testing.T) {
	p := fluentpath.New("a", "b")
	out := paths(t, p)
	out[0] = "mutated"
	assert.Equal(t, []string{"a", "b"}, paths(t, p))
}

func TestReadsFailUntilSettled(t *testing.T) {
	p, settle := pendingPath(fluentpath.New("a"))
	assert.False(t, p.Settled())

	_, err := p.Paths()
	assert.ErrorIs(t, err, fluentpath.ErrPendingOperation)

	_, err = p.Equal(fluentpath.New("a"))
	assert.ErrorIs(t, err, fluentpath.ErrPendingOperation)

	_, err = p.Hash()
	assert.ErrorIs(t, err, fluentpath.ErrPendingOperation)

	_, _, err = p.Sequence().Next(context.Background())
	assert.ErrorIs(t, err, fluentpath.ErrPendingOperation)

	settle(nil)
	awaited(t, p)
	assert.Equal(t, []string{"a"}, paths(t, p))
}

func TestEqualAgainstPendingOperandFails(t *testing.T) {
	settled := fluentpath.New("a")
	pending, settle := pendingPath(settled)
	defer settle(nil)

	_, err := settled.Equal(pending)
	assert.ErrorIs(t, err, fluentpath.ErrPendingOperation)
}

func TestAwaitBlocksUntilSettlement(t *testing.T) {
	p, settle := pendingPath(fluentpath.New("a"))
	go func() {
		time.Sleep(10 * time.Millisecond)
		settle(nil)
	}()

	out := awaited(t, p)
	assert.Same(t, p, out)
	assert.True(t, p.Settled())
}

func TestAwaitHonorsContext(t *testing.T) {
	p, settle := pendingPath(fluentpath.New("a"))
	defer settle(nil)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := p.Await(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestAwaitIsIdempotent(t *testing.T) {
	p, settle := pendingPath(fluentpath.New("a", "b"))
	settle(nil)

	for i := 0; i < 3; i++ {
		awaited(t, p)
		assert.Equal(t, []string{"a", "b"}, paths(t, p))
	}
}

func TestEqualIgnoresOrderAndDuplicates(t *testing.T) {
	a := fluentpath.New("x", "y")
	b := fluentpath.New("y", "x", "X ")

	eq, err := a.Equal(b)
	require.NoError(t, err)
	assert.True(t, eq)

	c := fluentpath.New("x")
	eq, err = a.Equal(c)
	require.NoError(t, err)
	assert.False(t, eq)
}

func TestEqualRespectsCaseSensitivity(t *testing.T) {
	opts := slash()
	opts.CaseSensitive = true
	a := fluentpath.NewWith(opts, "Foo")
	b := fluentpath.NewWith(opts, "foo")

	eq, err := a.Equal(b)
	require.NoError(t, err)
	assert.False(t, eq)

	insensitiveA := fluentpath.NewWith(slash(), "Foo")
	insensitiveB := fluentpath.NewWith(slash(), "foo")
	eq, err = insensitiveA.Equal(insensitiveB)
	require.NoError(t, err)
	assert.True(t, eq)
}

func TestHashAgreesWithEqual(t *testing.T) {
	a := fluentpath.New("x", "y", "y/")
	b := fluentpath.New("Y", "x")

	hashA, err := a.Hash()
	require.NoError(t, err)
	hashB, err := b.Hash()
	require.NoError(t, err)

	eq, err := a.Equal(b)
	require.NoError(t, err)
	if eq {
		assert.Equal(t, hashA, hashB)
	}

	c := fluentpath.New("z")
	hashC, err := c.Hash()
	require.NoError(t, err)
	assert.NotEqual(t, hashA, hashC)
}

func TestHashIsStableAcrossCalls(t *testing.T) {
	p := fluentpath.New("a", "b")
	first, err := p.Hash()
	require.NoError(t, err)
	second, err := p.Hash()
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestEmptySentinel(t *testing.T) {
	e := fluentpath.Empty()
	assert.Same(t, e, fluentpath.Empty())
	assert.True(t, e.Settled())
	assert.Empty(t, paths(t, e))
	assert.Same(t, e, e.Previous(), "the empty value is its own previous")
}

func TestPreviousWalksLinearHistory(t *testing.T) {
	p1 := fluentpath.New("a")
	p2 := p1.Chain(func() ([]string, error) { return []string{"b"}, nil }, nil)
	p3 := p2.Chain(func() ([]string, error) { return []string{"c"}, nil }, nil)

	assert.Same(t, p2, p3.Previous())
	assert.Same(t, p1, p2.Previous())
	assert.Same(t, fluentpath.Empty(), p1.Previous())
}

func TestSequenceYieldsIterationOrder(t *testing.T) {
	p := fluentpath.New("c", "a", "b")

	items, err := seq.Collect(context.Background(), p.Sequence())
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a", "b"}, items)
}

func TestSequenceViewsAreIndependent(t *testing.T) {
	p := fluentpath.New("a", "b")
	first := p.Sequence()
	second := p.Sequence()

	ctx := context.Background()
	item, ok, err := first.Next(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "a", item)

	item, ok, err = second.Next(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "a", item, "each view starts at the beginning")
}

func TestFromSequenceDrainsExactlyOnce(t *testing.T) {
	pulls := 0
	src := seq.Tap(seq.FromSlice([]string{" a ", "A", "b"}), func(string) { pulls++ })

	p := fluentpath.FromSequence(src)
	awaited(t, p)

	assert.Equal(t, []string{"a", "b"}, paths(t, p))
	assert.Equal(t, 3, pulls)

	// Re-reads hit the memoized set, not the source.
	paths(t, p)
	assert.Equal(t, 3, pulls)
}

func TestFromSequenceCarriesSourceFailure(t *testing.T) {
	src := seq.MapErr(seq.FromSlice([]string{"a", "b"}), func(_ context.Context, item string) (string, error) {
		if item == "b" {
			return "", assert.AnError
		}
		return item, nil
	})

	p := fluentpath.FromSequence(src)
	_, err := p.Await(context.Background())
	assert.ErrorIs(t, err, assert.AnError)

	_, err = p.Paths()
	assert.ErrorIs(t, err, assert.AnError)
}

func TestStringRendersSettledSet(t *testing.T) {
	p := fluentpath.New("a", "b")
	assert.Equal(t, "a, b", p.String())
}

func TestStringShowsPendingPlaceholder(t *testing.T) {
	p, settle := pendingPath(fluentpath.New("a"))
	defer settle(nil)
	assert.Contains(t, p.String(), "pending")
}

func TestOptionsAreInherited(t *testing.T) {
	opts := backslash()
	opts.CaseSensitive = true
	base := fluentpath.NewWith(opts, "a")
	derived := base.Chain(func() ([]string, error) { return []string{"B", "b"}, nil }, nil)

	assert.Equal(t, []string{"B", "b"}, paths(t, derived))
	assert.True(t, derived.Options().CaseSensitive)
}
