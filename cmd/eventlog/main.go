// Command eventlog tails the pedido events topic and logs every event.
package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	kaf "github.com/reybrally/pedidos-service/internal/adapters/kafka"
	"github.com/reybrally/pedidos-service/internal/config"
	"github.com/reybrally/pedidos-service/internal/logging"
)

func main() {
	cfg := config.Load()
	logging.InitLogger(cfg.App.LogLevel)

	if !cfg.Kafka.Enabled() {
		logging.LogError("eventlog: KAFKA_BROKERS is not set", nil, logrus.Fields{})
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group := os.Getenv("EVENTLOG_GROUP")
	if group == "" {
		group = "pedidos-eventlog"
	}

	consumer := kaf.NewConsumer(kaf.DefaultConsumerConfig(cfg.Kafka.Brokers))
	defer consumer.Close()

	logging.LogInfo("eventlog subscribing", logrus.Fields{"topic": cfg.Kafka.Topic, "group": group, "brokers": cfg.Kafka.Brokers})
	if err := consumer.Subscribe(ctx, cfg.Kafka.Topic, group, logEvent); err != nil {
		logging.LogError("eventlog consumer stopped", err, logrus.Fields{"topic": cfg.Kafka.Topic})
		os.Exit(1)
	}
	logging.LogInfo("eventlog exited gracefully", logrus.Fields{})
}

func logEvent(_ context.Context, msg kaf.Message) error {
	env := msg.Envelope
	fields := logrus.Fields{
		"event_id":    env.EventID,
		"event_type":  env.EventType,
		"entity_id":   env.EntityID,
		"occurred_at": env.OccurredAt,
		"source":      env.Meta.Source,
	}

	switch env.EventType {
	case kaf.EventOrderSaved:
		var p kaf.OrderSavedPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			logging.LogError("eventlog: bad pedido.saved payload", err, fields)
			return nil
		}
		fields["cliente_id"] = p.ClientID
		fields["fecha"] = p.Date
		fields["total"] = p.Total
		fields["items"] = len(p.Productos)
	case kaf.EventOrderDeleted:
	default:
		logging.LogWarn("eventlog: unknown event type", fields)
		return nil
	}

	logging.LogInfo("pedido event", fields)
	return nil
}
