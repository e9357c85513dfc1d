package eventbus

import (
	"context"
	"log/slog"
	"sync"

	"github.com/amirasaad/accounts/pkg/domain/events"
	"golang.org/x/sync/singleflight"
)

// KeyExtractor extracts an idempotency key from an event. An empty key
// disables the check for that event.
type KeyExtractor func(events.Event) string

// IdempotencyTracker tracks processed events by key
type IdempotencyTracker struct {
	processed sync.Map
	inflight  singleflight.Group
}

// NewIdempotencyTracker creates a new idempotency tracker
func NewIdempotencyTracker() *IdempotencyTracker {
	return &IdempotencyTracker{}
}

// Seen reports whether key was processed successfully.
func (t *IdempotencyTracker) Seen(key string) bool {
	_, ok := t.processed.Load(key)
	return ok
}

// WithIdempotency wraps handler so that redelivered events (Redis streams
// and Kafka both deliver at least once) are handled a single time.
// A key is recorded only after the handler succeeds; concurrent deliveries
// of one key share a single handler call and its result.
func WithIdempotency(
	handler HandlerFunc,
	tracker *IdempotencyTracker,
	keyExtractor KeyExtractor,
	handlerName string,
	logger *slog.Logger,
) HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(ctx context.Context, e events.Event) error {
		key := keyExtractor(e)
		if key == "" {
			return handler(ctx, e)
		}

		if tracker.Seen(key) {
			logger.Debug("Event already processed",
				"handler", handlerName,
				"event_type", e.Type(),
				"idempotency_key", key,
			)
			return nil
		}

		_, err, _ := tracker.inflight.Do(key, func() (any, error) {
			if tracker.Seen(key) {
				return nil, nil
			}
			if err := handler(ctx, e); err != nil {
				return nil, err
			}
			tracker.processed.Store(key, struct{}{})
			return nil, nil
		})
		return err
	}
}

// EventIDKey keys events by their event id.
func EventIDKey(e events.Event) string {
	if ac, ok := e.(*events.AccountCreated); ok {
		return ac.ID.String()
	}
	return ""
}
