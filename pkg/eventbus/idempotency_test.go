package eventbus

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/amirasaad/accounts/pkg/domain/account"
	"github.com/amirasaad/accounts/pkg/domain/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type keylessEvent struct{}

func (keylessEvent) Type() string { return "Keyless" }

func TestWithIdempotency(t *testing.T) {
	t.Parallel()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()

	t.Run("executes handler when key is empty", func(t *testing.T) {
		t.Parallel()
		var calls int
		h := WithIdempotency(func(context.Context, events.Event) error {
			calls++
			return nil
		}, NewIdempotencyTracker(), EventIDKey, "test", logger)

		require.NoError(t, h(ctx, keylessEvent{}))
		require.NoError(t, h(ctx, keylessEvent{}))
		assert.Equal(t, 2, calls)
	})

	t.Run("skips redelivered events", func(t *testing.T) {
		t.Parallel()
		tracker := NewIdempotencyTracker()
		var calls int
		h := WithIdempotency(func(context.Context, events.Event) error {
			calls++
			return nil
		}, tracker, EventIDKey, "test", logger)

		evt := events.NewAccountCreated(account.Account{ID: 1})
		require.NoError(t, h(ctx, evt))
		require.NoError(t, h(ctx, evt))
		assert.Equal(t, 1, calls)
		assert.True(t, tracker.Seen(evt.ID.String()))

		require.NoError(t, h(ctx, events.NewAccountCreated(account.Account{ID: 1})))
		assert.Equal(t, 2, calls)
	})

	t.Run("failed events are retried", func(t *testing.T) {
		t.Parallel()
		tracker := NewIdempotencyTracker()
		boom := errors.New("boom")
		var calls int
		h := WithIdempotency(func(context.Context, events.Event) error {
			calls++
			if calls == 1 {
				return boom
			}
			return nil
		}, tracker, EventIDKey, "test", logger)

		evt := events.NewAccountCreated(account.Account{ID: 2})
		require.ErrorIs(t, h(ctx, evt), boom)
		assert.False(t, tracker.Seen(evt.ID.String()))
		require.NoError(t, h(ctx, evt))
		assert.Equal(t, 2, calls)
	})

	t.Run("concurrent deliveries run once", func(t *testing.T) {
		t.Parallel()
		var calls atomic.Int32
		release := make(chan struct{})
		h := WithIdempotency(func(context.Context, events.Event) error {
			calls.Add(1)
			<-release
			return nil
		}, NewIdempotencyTracker(), EventIDKey, "test", logger)

		evt := events.NewAccountCreated(account.Account{ID: 3})
		var wg sync.WaitGroup
		for range 5 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				assert.NoError(t, h(ctx, evt))
			}()
		}
		time.Sleep(50 * time.Millisecond)
		close(release)
		wg.Wait()
		assert.Equal(t, int32(1), calls.Load())
	})
}
