package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/amirasaad/accounts/pkg/domain/events"
	"github.com/amirasaad/accounts/pkg/eventbus"
)

// setupEventBus registers the application's event handlers.
func (a *App) setupEventBus() {
	bus := a.Deps.EventBus
	if bus == nil {
		return
	}
	logger := a.Deps.Logger.With("component", "eventbus")
	tracker := eventbus.NewIdempotencyTracker()
	bus.Register(events.EventTypeAccountCreated, eventbus.WithIdempotency(
		AccountCreatedAudit(logger),
		tracker,
		eventbus.EventIDKey,
		"account_created_audit",
		logger,
	))
	logger.Info("Registered event handlers", "event_types", []string{events.EventTypeAccountCreated.String()})
}

// AccountCreatedAudit logs every committed account.
func AccountCreatedAudit(logger *slog.Logger) eventbus.HandlerFunc {
	return func(ctx context.Context, e events.Event) error {
		evt, ok := e.(*events.AccountCreated)
		if !ok {
			return fmt.Errorf("unexpected event %T for %s", e, events.EventTypeAccountCreated)
		}
		logger.InfoContext(ctx, "Account created",
			"event_id", evt.ID,
			"account_id", evt.Account.ID,
			"name", evt.Account.Name,
			"occurred_at", evt.OccurredAt,
		)
		return nil
	}
}
