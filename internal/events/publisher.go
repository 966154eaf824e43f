package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/prompt-general/knowledgehub/internal/config"
)

// ErrPublisherClosed is returned when publishing after Close.
var ErrPublisherClosed = errors.New("events: publisher is closed")

// Publisher publishes lifecycle events.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// KafkaPublisher implements Publisher on a single Kafka topic, keyed by
// entity id so events for one entity stay ordered within a partition.
type KafkaPublisher struct {
	writer *kafka.Writer
	log    *zap.Logger

	mu     sync.Mutex
	closed bool
}

// NewKafkaPublisher creates a publisher for the configured brokers and topic.
func NewKafkaPublisher(cfg config.EventsConfig, log *zap.Logger) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.LeastBytes{},
		Compression:  kafka.Gzip,
		RequiredAcks: kafka.RequireAll,
	}

	return &KafkaPublisher{
		writer: writer,
		log:    log,
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event Event) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrPublisherClosed
	}
	p.mu.Unlock()

	message, err := marshalMessage(event)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, message)
}

func (p *KafkaPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true
	return p.writer.Close()
}

func marshalMessage(event Event) (kafka.Message, error) {
	value, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, err
	}
	return kafka.Message{
		Key:   []byte(event.EntityID),
		Value: value,
	}, nil
}

// NoopPublisher discards events. Wired when no brokers are configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) error { return nil }
func (NoopPublisher) Close() error                         { return nil }
