package await_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bleroy/fluentpath/await"
)

func TestCompletionSettlesExactlyOnce(t *testing.T) {
	c := await.NewCompletion()
	assert.False(t, c.IsSettled())
	assert.NoError(t, c.Err())

	c.Settle(nil)
	assert.True(t, c.IsSettled())
	assert.NoError(t, c.Err())

	// Later settlements are ignored.
	c.Settle(errors.New("too late"))
	assert.NoError(t, c.Err())
}

func TestCompletionCarriesError(t *testing.T) {
	boom := errors.New("boom")
	c := await.NewCompletion()
	c.Settle(boom)

	assert.True(t, c.IsSettled())
	assert.Equal(t, boom, c.Err())
	assert.Equal(t, boom, c.Wait(context.Background()))
}

func TestCompletionWaitHonorsContext(t *testing.T) {
	c := await.NewCompletion()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.Wait(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, c.IsSettled())
}

func TestCompletionWaitUnblocksOnSettle(t *testing.T) {
	c := await.NewCompletion()
	go func() {
		time.Sleep(10 * time.Millisecond)
		c.Settle(nil)
	}()

	require.NoError(t, c.Wait(context.Background()))
	assert.True(t, c.IsSettled())
}

func TestCompletionOnSettledRunsInlineWhenSettled(t *testing.T) {
	c := await.NewCompletion()
	c.Settle(nil)

	ran := false
	c.OnSettled(func(err error) {
		ran = true
		assert.NoError(t, err)
	})
	assert.True(t, ran, "continuation on a settled handle must run inline")
}

func TestCompletionOnSettledRunsAfterSettlement(t *testing.T) {
	c := await.NewCompletion()
	done := make(chan error, 1)
	c.OnSettled(func(err error) { done <- err })

	select {
	case <-done:
		t.Fatal("continuation ran before settlement")
	case <-time.After(10 * time.Millisecond):
	}

	boom := errors.New("boom")
	c.Settle(boom)

	select {
	case err := <-done:
		assert.Equal(t, boom, err)
	case <-time.After(time.Second):
		t.Fatal("continuation never ran")
	}
}

func TestSettledSentinelIsShared(t *testing.T) {
	a := await.Settled()
	b := await.Settled()
	assert.Same(t, a, b)
	assert.True(t, a.IsSettled())
	assert.NoError(t, a.Err())
	assert.NotEmpty(t, a.Token())
}

func TestAwaitableResolvedValue(t *testing.T) {
	a := await.Resolved(42)
	assert.True(t, a.Completed())

	v, err := a.Value()
	require.NoError(t, err)
	assert.Equal(t, 42, v)
	assert.Equal(t, 42, a.MustValue())
}

func TestAwaitableValueFailsWhilePending(t *testing.T) {
	c := await.NewCompletion()
	a := await.NewAwaitable(c, func() (string, error) { return "ready", nil })

	assert.False(t, a.Completed())
	_, err := a.Value()
	assert.ErrorIs(t, err, await.ErrPending)

	c.Settle(nil)
	v, err := a.Value()
	require.NoError(t, err)
	assert.Equal(t, "ready", v)
}

func TestAwaitableAwaitBlocksUntilSettled(t *testing.T) {
	c := await.NewCompletion()
	a := await.NewAwaitable(c, func() (int, error) { return 7, nil })

	go func() {
		time.Sleep(10 * time.Millisecond)
		c.Settle(nil)
	}()

	v, err := a.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}

func TestAwaitableFactoryRunsAtMostOnce(t *testing.T) {
	var calls atomic.Int32
	a := await.NewAwaitable(await.Settled(), func() (int, error) {
		return int(calls.Add(1)), nil
	})

	first, err := a.Value()
	require.NoError(t, err)
	second, err := a.Await(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), calls.Load())
}

func TestAwaitableSettlementErrorSkipsFactory(t *testing.T) {
	boom := errors.New("boom")
	c := await.NewCompletion()
	c.Settle(boom)

	ran := false
	a := await.NewAwaitable(c, func() (int, error) {
		ran = true
		return 1, nil
	})

	_, err := a.Value()
	assert.Equal(t, boom, err)
	_, err = a.Await(context.Background())
	assert.Equal(t, boom, err)
	assert.False(t, ran, "factory must not run when the operation failed")
}

func TestAwaitableAwaitHonorsContext(t *testing.T) {
	c := await.NewCompletion()
	a := await.NewAwaitable(c, func() (int, error) { return 1, nil })

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := a.Await(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	// The instance stays usable after an interrupted wait.
	c.Settle(nil)
	v, err := a.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, v)
}

func TestAwaitableOnCompleted(t *testing.T) {
	c := await.NewCompletion()
	a := await.NewAwaitable(c, func() (int, error) { return 1, nil })

	done := make(chan struct{})
	a.OnCompleted(func() { close(done) })

	c.Settle(nil)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("continuation never ran")
	}
}

func TestMustValuePanicsWhilePending(t *testing.T) {
	c := await.NewCompletion()
	a := await.NewAwaitable(c, func() (int, error) { return 1, nil })

	assert.Panics(t, func() { a.MustValue() })
}
