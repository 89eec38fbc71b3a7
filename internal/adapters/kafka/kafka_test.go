package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	kgo "github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reybrally/pedidos-service/internal/domain/order"
)

type capturedMessage struct {
	topic   string
	key     string
	value   []byte
	headers map[string]string
}

type fakeProducer struct {
	sent []capturedMessage
	err  error
}

func (f *fakeProducer) Publish(_ context.Context, topic string, key, value []byte, headers map[string]string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, capturedMessage{topic: topic, key: string(key), value: value, headers: headers})
	return nil
}

func (f *fakeProducer) PublishJSON(ctx context.Context, topic string, key []byte, value any, headers map[string]string) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return f.Publish(ctx, topic, key, data, headers)
}

func (f *fakeProducer) Close() error { return nil }

func sampleOrder() order.Order {
	return order.Order{
		ID:       42,
		ClientID: 7,
		Date:     time.Date(2025, 5, 24, 0, 0, 0, 0, time.UTC),
		Total:    decimal.RequireFromString("150.25"),
		Items: []order.LineItem{
			{Key: order.LineItemKey{OrderID: 42, ProductID: 8}, Quantity: 2},
		},
	}
}

func TestNewOrderSaved_BuildsEnvelope(t *testing.T) {
	env := NewOrderSaved(sampleOrder(), "http-api")

	_, err := uuid.Parse(env.EventID)
	require.NoError(t, err)
	assert.Equal(t, EventOrderSaved, env.EventType)
	assert.Equal(t, 1, env.Version)
	assert.Equal(t, "42", env.EntityID)
	assert.Equal(t, time.UTC, env.OccurredAt.Location())
	assert.Equal(t, Meta{Producer: "pedidos-service", Source: "http-api"}, env.Meta)
	assert.Equal(t, OrderSavedPayload{
		ID:        42,
		ClientID:  7,
		Date:      "2025-05-24",
		Total:     "150.25",
		Productos: []ItemPayload{{ProductID: 8, Quantity: 2}},
	}, env.Payload)
}

func TestNewOrderDeleted_UniqueEventIDs(t *testing.T) {
	a := NewOrderDeleted(3, "http-api")
	b := NewOrderDeleted(3, "http-api")
	assert.NotEqual(t, a.EventID, b.EventID)
	assert.Equal(t, OrderDeletedPayload{ID: 3}, a.Payload)
	assert.Equal(t, EventOrderDeleted, a.EventType)
}

func TestOrderEvents_PublishesKeyedJSON(t *testing.T) {
	p := &fakeProducer{}
	events := NewOrderEvents(p, "pedidos-events", "http-api")

	require.NoError(t, events.OrderSaved(context.Background(), sampleOrder()))
	require.NoError(t, events.OrderDeleted(context.Background(), 42))
	require.Len(t, p.sent, 2)

	saved := p.sent[0]
	assert.Equal(t, "pedidos-events", saved.topic)
	assert.Equal(t, "42", saved.key)
	assert.Equal(t, EventOrderSaved, saved.headers[headerEventType])

	var env Envelope[OrderSavedPayload]
	require.NoError(t, json.Unmarshal(saved.value, &env))
	assert.Equal(t, int64(7), env.Payload.ClientID)

	assert.Equal(t, EventOrderDeleted, p.sent[1].headers[headerEventType])
	assert.JSONEq(t, `{"id":42}`, string(mustPayload(t, p.sent[1].value)))
}

func TestOrderEvents_WrapsProducerError(t *testing.T) {
	boom := errors.New("broker down")
	events := NewOrderEvents(&fakeProducer{err: boom}, "t", "http-api")

	err := events.OrderDeleted(context.Background(), 5)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "pedido.deleted")
}

func TestToMessage_DecodesEnvelope(t *testing.T) {
	value, err := json.Marshal(NewOrderDeleted(9, "seeder"))
	require.NoError(t, err)

	msg := toMessage("pedidos-events", kgo.Message{
		Key:     []byte("9"),
		Value:   value,
		Headers: []kgo.Header{{Key: headerEventType, Value: []byte(EventOrderDeleted)}},
	})

	assert.Equal(t, "pedidos-events", msg.Topic)
	assert.Equal(t, EventOrderDeleted, msg.Envelope.EventType)
	assert.Equal(t, EventOrderDeleted, msg.Headers[headerEventType])
	assert.JSONEq(t, `{"id":9}`, string(msg.Envelope.Payload))
}

func TestToMessage_BadValueKeepsRaw(t *testing.T) {
	msg := toMessage("t", kgo.Message{Value: []byte("not json")})
	assert.Empty(t, msg.Envelope.EventType)
	assert.Equal(t, []byte("not json"), msg.Raw.Value)
}

func TestDeliver_RetriesThenGivesUp(t *testing.T) {
	c := &readerConsumer{cfg: ConsumerConfig{MaxRetries: 2, Backoff: time.Millisecond}}
	msg := toMessage("t", kgo.Message{})

	calls := 0
	err := c.deliver(context.Background(), msg, func(context.Context, Message) error {
		calls++
		return errors.New("boom")
	})
	assert.EqualError(t, err, "boom")
	assert.Equal(t, 3, calls)

	calls = 0
	err = c.deliver(context.Background(), msg, func(context.Context, Message) error {
		calls++
		if calls < 2 {
			return errors.New("transient")
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestDeliver_StopsWhenContextEnds(t *testing.T) {
	c := &readerConsumer{cfg: ConsumerConfig{MaxRetries: 5, Backoff: time.Hour}}
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	err := c.deliver(ctx, Message{}, func(context.Context, Message) error {
		calls++
		cancel()
		return errors.New("boom")
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestEventFields_NamesThePedido(t *testing.T) {
	value, err := json.Marshal(NewOrderDeleted(42, "seeder"))
	require.NoError(t, err)

	fields := eventFields(toMessage("pedidos-events", kgo.Message{Offset: 7, Value: value}))
	assert.Equal(t, "42", fields["pedido_id"])
	assert.Equal(t, EventOrderDeleted, fields["event_type"])
	assert.Equal(t, int64(7), fields["offset"])
	assert.NotEmpty(t, fields["event_id"])
}

func mustPayload(t *testing.T, value []byte) json.RawMessage {
	t.Helper()
	var env Envelope[json.RawMessage]
	require.NoError(t, json.Unmarshal(value, &env))
	return env.Payload
}
