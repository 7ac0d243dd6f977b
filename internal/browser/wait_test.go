package browser_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"manuscript-gen/internal/browser"
)

func TestWaitUntil(t *testing.T) {
	t.Run("satisfied after a few polls", func(t *testing.T) {
		var calls atomic.Int32
		err := browser.WaitUntil(context.Background(), time.Millisecond, time.Second, func(context.Context) (bool, error) {
			return calls.Add(1) >= 3, nil
		})
		require.NoError(t, err)
		assert.GreaterOrEqual(t, calls.Load(), int32(3))
	})

	t.Run("times out", func(t *testing.T) {
		start := time.Now()
		err := browser.WaitUntil(context.Background(), 5*time.Millisecond, 40*time.Millisecond, func(context.Context) (bool, error) {
			return false, nil
		})
		require.Error(t, err)
		assert.True(t, browser.IsTimeout(err))
		assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
	})

	t.Run("condition error stops waiting", func(t *testing.T) {
		boom := errors.New("boom")
		err := browser.WaitUntil(context.Background(), time.Millisecond, time.Second, func(context.Context) (bool, error) {
			return false, boom
		})
		assert.ErrorIs(t, err, boom)
	})

	t.Run("context cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		time.AfterFunc(10*time.Millisecond, cancel)
		err := browser.WaitUntil(ctx, time.Millisecond, time.Minute, func(context.Context) (bool, error) {
			return false, nil
		})
		assert.ErrorIs(t, err, context.Canceled)
		assert.False(t, browser.IsTimeout(err))
	})
}

func TestSleep_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, browser.Sleep(ctx, time.Minute), context.Canceled)
	assert.NoError(t, browser.Sleep(context.Background(), time.Millisecond))
}
