package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	infra_eventbus "github.com/amirasaad/accounts/infra/eventbus"
	"github.com/amirasaad/accounts/pkg/domain/account"
	"github.com/amirasaad/accounts/pkg/domain/events"
)

// RunSmokeTest emits an AccountCreated event through the Kafka event bus
// and waits for the registered handler to receive it, verifying a local
// Kafka cluster end to end.
func RunSmokeTest() error {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	brokers := strings.TrimSpace(os.Getenv("KAFKA_BROKERS"))
	if brokers == "" {
		brokers = "localhost:9092"
	}
	groupID := strings.TrimSpace(os.Getenv("KAFKA_GROUP_ID"))
	if groupID == "" {
		groupID = fmt.Sprintf("accounts-smoketest-%d", time.Now().UnixNano())
	}

	bus, err := infra_eventbus.NewWithKafka([]string{brokers}, logger, &infra_eventbus.KafkaEventBusConfig{
		GroupID:     groupID,
		TopicPrefix: "accounts.smoketest",
	})
	if err != nil {
		logger.Error("kafka unavailable", "brokers", brokers, "error", err)
		return err
	}
	defer func() { _ = bus.Close() }()

	evt := events.NewAccountCreated(account.Account{ID: 1, Name: "Nicolas", Email: "nicolas@domain.com"})
	received := make(chan *events.AccountCreated, 1)
	bus.Register(events.EventTypeAccountCreated, func(_ context.Context, e events.Event) error {
		if ac, ok := e.(*events.AccountCreated); ok && ac.ID == evt.ID {
			select {
			case received <- ac:
			default:
			}
		}
		return nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := bus.Emit(ctx, evt); err != nil {
		logger.Error("emit failed", "error", err)
		return err
	}
	logger.Info("produced", "event_id", evt.ID)

	select {
	case got := <-received:
		logger.Info("consumed", "event_id", got.ID, "account_id", got.Account.ID)
	case <-ctx.Done():
		logger.Error("timed out waiting for event", "event_id", evt.ID)
		return ctx.Err()
	}

	logger.Info("kafka smoke test passed")
	return nil
}

// main runs the smoke test and exits non-zero on failure.
func main() {
	if err := RunSmokeTest(); err != nil {
		os.Exit(1)
	}
}
