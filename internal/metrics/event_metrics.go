package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/reybrally/pedidos-service/internal/app/orders"
	domain "github.com/reybrally/pedidos-service/internal/domain/order"
)

const (
	resultOK    = "ok"
	resultError = "error"
)

// InstrumentedPublisher counts publish attempts by event type and result.
type InstrumentedPublisher struct {
	next      orders.EventPublisher
	published *prometheus.CounterVec
}

func NewInstrumentedPublisher(next orders.EventPublisher, registerer prometheus.Registerer) *InstrumentedPublisher {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	return &InstrumentedPublisher{
		next: next,
		published: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "pedidos_events_published_total",
			Help: "Total number of order events handed to the broker",
		}, []string{"event_type", "result"}),
	}
}

func (p *InstrumentedPublisher) OrderSaved(ctx context.Context, o domain.Order) error {
	err := p.next.OrderSaved(ctx, o)
	p.observe("pedido.saved", err)
	return err
}

func (p *InstrumentedPublisher) OrderDeleted(ctx context.Context, id int64) error {
	err := p.next.OrderDeleted(ctx, id)
	p.observe("pedido.deleted", err)
	return err
}

func (p *InstrumentedPublisher) observe(eventType string, err error) {
	result := resultOK
	if err != nil {
		result = resultError
	}
	p.published.WithLabelValues(eventType, result).Inc()
}
