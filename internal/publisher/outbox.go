package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	d "github.com/Abu-Issam/buyshea-connect/internal/domain"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const (
	EventCheckoutCompleted = "checkout.completed"
	DefaultTopic           = "checkout-completed"
	DefaultCapacity        = 1000
	batchSize              = 100
)

var ErrOutboxFull = errors.New("outbox is full")

// MessageWriter is the part of kafka.Writer the outbox needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

func NewKafkaWriter(topic string, brokers ...string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
}

type OutboxEvent struct {
	ID          int
	AggregateID string
	EventType   string
	Payload     []byte
	CreatedAt   time.Time
	Attempts    int
}

// Outbox buffers completed checkouts in memory and publishes them from Run.
// Failed writes stay queued and are retried on the next tick.
type Outbox struct {
	writer    MessageWriter
	eventTick time.Duration
	timeout   time.Duration
	capacity  int
	logger    *zap.Logger

	mu      sync.Mutex
	nextID  int
	pending []*OutboxEvent
}

func NewOutbox(writer MessageWriter, logger *zap.Logger) *Outbox {
	return &Outbox{
		writer:    writer,
		eventTick: time.Second,
		timeout:   5 * time.Second,
		capacity:  DefaultCapacity,
		logger:    logger,
	}
}

// HandOff queues the order for publishing.
func (o *Outbox) HandOff(_ context.Context, order d.CompletedCheckout) error {
	payload, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("failed to marshal checkout payload: %w", err)
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.pending) >= o.capacity {
		return ErrOutboxFull
	}
	o.nextID++
	o.pending = append(o.pending, &OutboxEvent{
		ID:          o.nextID,
		AggregateID: order.OrderID,
		EventType:   EventCheckoutCompleted,
		Payload:     payload,
		CreatedAt:   time.Now(),
	})
	return nil
}

func (o *Outbox) Pending() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.pending)
}

// Run publishes on every tick until ctx ends, then makes one last attempt.
func (o *Outbox) Run(ctx context.Context) {
	eventTicker := time.NewTicker(o.eventTick)
	defer eventTicker.Stop()

	for {
		select {
		case <-eventTicker.C:
			o.processUnpublishedEvents(ctx)
		case <-ctx.Done():
			flushCtx, cancel := context.WithTimeout(context.Background(), o.timeout)
			o.processUnpublishedEvents(flushCtx)
			cancel()
			if n := o.Pending(); n > 0 {
				o.logger.Warn("outbox stopped with unpublished events", zap.Int("pending", n))
			}
			return
		}
	}
}

func (o *Outbox) Close() error {
	return o.writer.Close()
}

func (o *Outbox) processUnpublishedEvents(ctx context.Context) {
	o.mu.Lock()
	n := min(len(o.pending), batchSize)
	events := make([]*OutboxEvent, n)
	copy(events, o.pending[:n])
	o.mu.Unlock()

	for _, event := range events {
		if err := o.publishToKafka(ctx, event); err != nil {
			o.mu.Lock()
			event.Attempts++
			attempts := event.Attempts
			o.mu.Unlock()
			o.logger.Warn("failed to publish event",
				zap.Int("event_id", event.ID),
				zap.String("order_id", event.AggregateID),
				zap.Int("attempts", attempts),
				zap.Error(err))
			// keep order: later events wait for this one
			return
		}
		o.markProcessed(event.ID)
	}
}

func (o *Outbox) publishToKafka(ctx context.Context, event *OutboxEvent) error {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	msg := kafka.Message{
		Key:   []byte(event.AggregateID),
		Value: event.Payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
		},
	}
	return o.writer.WriteMessages(ctx, msg)
}

func (o *Outbox) markProcessed(id int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for i, e := range o.pending {
		if e.ID == id {
			o.pending = append(o.pending[:i], o.pending[i+1:]...)
			return
		}
	}
}
