package kafka

import (
	"context"
	"encoding/json"
	"time"

	kgo "github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"github.com/reybrally/pedidos-service/internal/logging"
)

// Message is a fetched record with its envelope already decoded. The payload
// stays raw so the handler can pick a type by EventType.
type Message struct {
	Topic    string
	Key      []byte
	Headers  map[string]string
	Raw      kgo.Message
	Envelope Envelope[json.RawMessage]
}

type Handler func(ctx context.Context, msg Message) error

type Consumer interface {
	Subscribe(ctx context.Context, topic string, groupID string, handler Handler) error
	Close() error
}

type ConsumerConfig struct {
	Brokers           []string
	MinBytes          int           // 1<<10
	MaxBytes          int           // 10<<20
	MaxWait           time.Duration // 100 * time.Millisecond
	SessionTimeout    time.Duration // 10 * time.Second
	RebalanceTimeout  time.Duration // 10 * time.Second
	HeartbeatInterval time.Duration // 3 * time.Second
	StartOffset       int64         // kgo.FirstOffset / kgo.LastOffset
	MaxRetries        int
	Backoff           time.Duration
}

func DefaultConsumerConfig(brokers []string) ConsumerConfig {
	return ConsumerConfig{
		Brokers:           brokers,
		MinBytes:          1 << 10,
		MaxBytes:          10 << 20,
		MaxWait:           100 * time.Millisecond,
		SessionTimeout:    10 * time.Second,
		RebalanceTimeout:  10 * time.Second,
		HeartbeatInterval: 3 * time.Second,
		StartOffset:       kgo.FirstOffset,
		MaxRetries:        3,
		Backoff:           200 * time.Millisecond,
	}
}

type readerConsumer struct {
	cfg    ConsumerConfig
	reader *kgo.Reader
}

func NewConsumer(cfg ConsumerConfig) Consumer {
	return &readerConsumer{cfg: cfg}
}

// Subscribe blocks until ctx is done. A pedido event is committed once the
// handler accepts it or its retries run out, so one bad record cannot stall
// the group.
func (c *readerConsumer) Subscribe(ctx context.Context, topic string, groupID string, handler Handler) error {
	r := kgo.NewReader(kgo.ReaderConfig{
		Brokers:           c.cfg.Brokers,
		GroupID:           groupID,
		Topic:             topic,
		MinBytes:          c.cfg.MinBytes,
		MaxBytes:          c.cfg.MaxBytes,
		MaxWait:           c.cfg.MaxWait,
		StartOffset:       c.cfg.StartOffset,
		SessionTimeout:    c.cfg.SessionTimeout,
		RebalanceTimeout:  c.cfg.RebalanceTimeout,
		HeartbeatInterval: c.cfg.HeartbeatInterval,
	})
	c.reader = r
	defer r.Close()

	for {
		m, err := r.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			logging.LogWarn("Fetch from kafka failed, retrying", logrus.Fields{"topic": topic, "error": err.Error()})
			if !sleepCtx(ctx, c.cfg.Backoff) {
				return nil
			}
			continue
		}

		msg := toMessage(topic, m)
		if err := c.deliver(ctx, msg, handler); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			logging.LogError("Dropping pedido event after retries", err, eventFields(msg))
		}

		if err := r.CommitMessages(ctx, m); err != nil {
			logging.LogWarn("Commit failed", logrus.Fields{"topic": topic, "offset": m.Offset, "error": err.Error()})
		}
	}
}

// deliver runs handler up to MaxRetries+1 times with linear backoff.
func (c *readerConsumer) deliver(ctx context.Context, msg Message, handler Handler) error {
	var err error
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if err = handler(ctx, msg); err == nil {
			return nil
		}
		logging.LogDebug("Pedido event handler failed", logrus.Fields{"attempt": attempt + 1, "pedido_id": msg.Envelope.EntityID})
		if attempt < c.cfg.MaxRetries && !sleepCtx(ctx, c.cfg.Backoff*time.Duration(attempt+1)) {
			return ctx.Err()
		}
	}
	return err
}

func eventFields(msg Message) logrus.Fields {
	return logrus.Fields{
		"topic":      msg.Topic,
		"offset":     msg.Raw.Offset,
		"event_id":   msg.Envelope.EventID,
		"event_type": msg.Envelope.EventType,
		"pedido_id":  msg.Envelope.EntityID,
	}
}

// sleepCtx reports false when ctx ends before d elapses.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func (c *readerConsumer) Close() error {
	if c.reader != nil {
		return c.reader.Close()
	}
	return nil
}

// toMessage ignores envelope decode errors; the handler still gets Raw.
func toMessage(topic string, m kgo.Message) Message {
	hdrs := make(map[string]string, len(m.Headers))
	for _, h := range m.Headers {
		hdrs[h.Key] = string(h.Value)
	}
	var env Envelope[json.RawMessage]
	_ = json.Unmarshal(m.Value, &env)
	return Message{
		Topic:    topic,
		Key:      m.Key,
		Headers:  hdrs,
		Raw:      m,
		Envelope: env,
	}
}
