package kafka

import (
	"context"
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/reybrally/pedidos-service/internal/domain/order"
	"github.com/reybrally/pedidos-service/internal/logging"
)

const headerEventType = "event_type"

// OrderEvents publishes order lifecycle events keyed by order id, so every
// event of one order lands on the same partition.
type OrderEvents struct {
	producer Producer
	topic    string
	source   string
}

func NewOrderEvents(p Producer, topic, source string) *OrderEvents {
	return &OrderEvents{producer: p, topic: topic, source: source}
}

func (e *OrderEvents) OrderSaved(ctx context.Context, o order.Order) error {
	env := NewOrderSaved(o, e.source)
	return e.publish(ctx, o.ID, env.EventType, env)
}

func (e *OrderEvents) OrderDeleted(ctx context.Context, id int64) error {
	env := NewOrderDeleted(id, e.source)
	return e.publish(ctx, id, env.EventType, env)
}

func (e *OrderEvents) publish(ctx context.Context, id int64, eventType string, env any) error {
	key := []byte(strconv.FormatInt(id, 10))
	if err := e.producer.PublishJSON(ctx, e.topic, key, env, map[string]string{headerEventType: eventType}); err != nil {
		return fmt.Errorf("publish %s for pedido %d: %w", eventType, id, err)
	}
	logging.LogDebug("Event published", logrus.Fields{"event_type": eventType, "id": id, "topic": e.topic})
	return nil
}
