package eventbus

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/amirasaad/accounts/pkg/domain/account"
	"github.com/amirasaad/accounts/pkg/domain/events"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	mu   sync.Mutex
	msgs []kafka.Message
	err  error
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error { return nil }

func TestKafkaEventBus_Emit(t *testing.T) {
	w := &recordingWriter{}
	bus := newKafkaEventBus([]string{"localhost:9092"}, w, nil, nil)
	defer bus.Close() //nolint:errcheck

	evt := events.NewAccountCreated(account.Account{ID: 1, Name: "Nicolas"})
	require.NoError(t, bus.Emit(context.Background(), evt))

	require.Len(t, w.msgs, 1)
	msg := w.msgs[0]
	assert.Equal(t, "accounts.events.account.created", msg.Topic)
	assert.Equal(t, []byte("Account.Created"), msg.Key)

	decoded, err := decodeEnvelope(msg.Value)
	require.NoError(t, err)
	assert.Equal(t, evt.Account, decoded.(*events.AccountCreated).Account)

	w.err = errors.New("broker down")
	assert.ErrorContains(t, bus.Emit(context.Background(), evt), "broker down")
}

func TestKafkaEventBus_ProcessMessage(t *testing.T) {
	w := &recordingWriter{}
	bus := newKafkaEventBus([]string{"localhost:9092"}, w, nil, &KafkaEventBusConfig{TopicPrefix: "test.events"})
	defer bus.Close() //nolint:errcheck

	evt := events.NewAccountCreated(account.Account{ID: 2, Name: "Nicolas"})
	raw, err := buildEnvelope(evt)
	require.NoError(t, err)

	var got []int64
	var mu sync.Mutex
	bus.handlersMtx.Lock()
	bus.handlers[events.EventTypeAccountCreated] = append(bus.handlers[events.EventTypeAccountCreated],
		func(_ context.Context, e events.Event) error {
			mu.Lock()
			defer mu.Unlock()
			got = append(got, e.(*events.AccountCreated).Account.ID)
			return nil
		})
	bus.handlersMtx.Unlock()

	ctx := context.Background()
	require.NoError(t, bus.processMessage(ctx, events.EventTypeAccountCreated, kafka.Message{Value: raw}))
	assert.Equal(t, []int64{2}, got)
	assert.Empty(t, w.msgs)

	// undecodable messages are dropped
	require.NoError(t, bus.processMessage(ctx, events.EventTypeAccountCreated, kafka.Message{Value: []byte("{")}))
	assert.Empty(t, w.msgs)

	bus.handlersMtx.Lock()
	bus.handlers[events.EventTypeAccountCreated] = append(bus.handlers[events.EventTypeAccountCreated],
		func(context.Context, events.Event) error { return errors.New("handler failed") })
	bus.handlersMtx.Unlock()

	require.NoError(t, bus.processMessage(ctx, events.EventTypeAccountCreated, kafka.Message{Value: raw}))
	require.Len(t, w.msgs, 1)
	assert.Equal(t, "test.events.dlq.account.created", w.msgs[0].Topic)
	assert.Equal(t, raw, w.msgs[0].Value)

	w.err = errors.New("broker down")
	assert.Error(t, bus.processMessage(ctx, events.EventTypeAccountCreated, kafka.Message{Value: raw}))
}

func TestParseBrokers(t *testing.T) {
	assert.Equal(t,
		[]string{"a:9092", "b:9092", "c:9092"},
		parseBrokers([]string{" a:9092, b:9092", "", "c:9092"}),
	)
	assert.Empty(t, parseBrokers(nil))

	_, err := NewWithKafka([]string{" "}, nil, nil)
	assert.Error(t, err)
}

func TestNames(t *testing.T) {
	assert.Equal(t, "accounts.events.account.created", topicNameFor("", events.EventTypeAccountCreated))
	assert.Equal(t, "accounts.events.dlq.account.created", dlqTopicNameFor(" ", events.EventTypeAccountCreated))
	assert.Equal(t, "group:account:created", groupNameFor(events.EventTypeAccountCreated))
	assert.Equal(t, "consumer:account:created", consumerNameFor(events.EventTypeAccountCreated))
	assert.Equal(t, "group:single", groupNameFor("Single"))
	assert.Equal(t, "accounts:events-DLQ", dlqStreamName("accounts:events"))
}

func TestDecodeEnvelope_Errors(t *testing.T) {
	_, err := decodeEnvelope([]byte(`{"payload":{}}`))
	assert.ErrorContains(t, err, "missing event type")

	_, err = decodeEnvelope([]byte(`{"type":"Nope.Event","payload":{}}`))
	assert.ErrorContains(t, err, "unknown event type")

	_, err = decodeEnvelope([]byte(`{"type":"Account.Created","payload":"x"}`))
	assert.ErrorContains(t, err, "payload unmarshal failed")
}
