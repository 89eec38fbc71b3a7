package kafka

import (
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/reybrally/pedidos-service/internal/domain/order"
)

const (
	EventOrderSaved   = "pedido.saved"
	EventOrderDeleted = "pedido.deleted"

	envelopeVersion = 1
	producerName    = "pedidos-service"
)

type Envelope[T any] struct {
	EventID    string    `json:"event_id"`
	EventType  string    `json:"event_type"`
	Version    int       `json:"version"`
	OccurredAt time.Time `json:"occurred_at"` // UTC
	EntityID   string    `json:"entity_id"`   // same as the message key
	Payload    T         `json:"payload"`
	Meta       Meta      `json:"meta"`
}

type Meta struct {
	Producer string `json:"producer"`
	Source   string `json:"source"` // "http-api" | "seeder"
}

type ItemPayload struct {
	ProductID int64 `json:"productoId"`
	Quantity  int   `json:"cantidad"`
}

type OrderSavedPayload struct {
	ID        int64         `json:"id"`
	ClientID  int64         `json:"clienteId"`
	Date      string        `json:"fecha"`
	Total     string        `json:"total"`
	Productos []ItemPayload `json:"productos"`
}

type OrderDeletedPayload struct {
	ID int64 `json:"id"`
}

func newEnvelope[T any](eventType string, id int64, source string, payload T) Envelope[T] {
	return Envelope[T]{
		EventID:    uuid.NewString(),
		EventType:  eventType,
		Version:    envelopeVersion,
		OccurredAt: time.Now().UTC(),
		EntityID:   strconv.FormatInt(id, 10),
		Payload:    payload,
		Meta:       Meta{Producer: producerName, Source: source},
	}
}

func NewOrderSaved(o order.Order, source string) Envelope[OrderSavedPayload] {
	items := make([]ItemPayload, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, ItemPayload{ProductID: it.Key.ProductID, Quantity: it.Quantity})
	}
	return newEnvelope(EventOrderSaved, o.ID, source, OrderSavedPayload{
		ID:        o.ID,
		ClientID:  o.ClientID,
		Date:      order.FormatDate(o.Date),
		Total:     o.Total.String(),
		Productos: items,
	})
}

func NewOrderDeleted(id int64, source string) Envelope[OrderDeletedPayload] {
	return newEnvelope(EventOrderDeleted, id, source, OrderDeletedPayload{ID: id})
}
