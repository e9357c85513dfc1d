package eventbus

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/amirasaad/accounts/pkg/domain/account"
	"github.com/amirasaad/accounts/pkg/domain/events"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedisBus(t *testing.T) (*RedisEventBus, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	bus, err := NewWithRedis(client, "accounts:events", nil)
	require.NoError(t, err)
	bus.block = 50 * time.Millisecond
	t.Cleanup(func() {
		_ = bus.Close()
		_ = client.Close()
	})
	return bus, client
}

func TestRedisBusHandlerReceivesEvent(t *testing.T) {
	bus, _ := setupRedisBus(t)

	received := make(chan account.Account, 1)
	bus.Register(events.EventTypeAccountCreated, func(_ context.Context, e events.Event) error {
		received <- e.(*events.AccountCreated).Account
		return nil
	})

	acc := account.Account{ID: 1, Name: "Nicolas", Email: "nicolas@domain.com"}
	require.NoError(t, bus.Emit(context.Background(), events.NewAccountCreated(acc)))

	select {
	case got := <-received:
		assert.Equal(t, acc, got)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestRedisBusHandlerErrorGoesToDLQ(t *testing.T) {
	bus, client := setupRedisBus(t)

	bus.Register(events.EventTypeAccountCreated, func(context.Context, events.Event) error {
		return errors.New("handler failed")
	})
	require.NoError(t, bus.Emit(context.Background(), events.NewAccountCreated(account.Account{ID: 2})))

	require.Eventually(t, func() bool {
		n, err := client.XLen(context.Background(), "accounts:events-DLQ").Result()
		return err == nil && n == 1
	}, 5*time.Second, 20*time.Millisecond)
}

func TestRedisBusMalformedEntryGoesToDLQ(t *testing.T) {
	bus, client := setupRedisBus(t)
	ctx := context.Background()

	bus.Register(events.EventTypeAccountCreated, func(context.Context, events.Event) error {
		t.Error("handler must not be called")
		return nil
	})
	require.NoError(t, client.XAdd(ctx, &redis.XAddArgs{
		Stream: "accounts:events",
		Values: map[string]any{"event": "not json"},
	}).Err())

	require.Eventually(t, func() bool {
		n, err := client.XLen(ctx, "accounts:events-DLQ").Result()
		return err == nil && n == 1
	}, 5*time.Second, 20*time.Millisecond)
}

func TestNewWithRedis_Errors(t *testing.T) {
	_, err := NewWithRedis(nil, "accounts:events", nil)
	assert.Error(t, err)

	_, err = NewWithRedisURL("://bad", "accounts:events", nil)
	assert.ErrorContains(t, err, "invalid URL")

	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond})
	defer client.Close() //nolint:errcheck
	_, err = NewWithRedis(client, "accounts:events", nil)
	assert.ErrorContains(t, err, "connection failed")
}
