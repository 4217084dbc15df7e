package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/IBM/sarama"
	"github.com/canoasgas/pedidos-api/models"
)

// Order event types
const (
	EventOrderCreated = "order.created"
	EventOrderDeleted = "order.deleted"
)

// OrderEvent is published after an order change has been committed
type OrderEvent struct {
	Type           string    `json:"type"`
	OrderID        uint      `json:"order_id"`
	ClientID       uint      `json:"client_id,omitempty"`
	ClientName     string    `json:"client_name,omitempty"`
	Address        string    `json:"address,omitempty"`
	Product        string    `json:"product,omitempty"`
	DeliveryPerson string    `json:"delivery_person,omitempty"`
	Value          string    `json:"value,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// NewOrderCreatedEvent builds the event for a freshly submitted order
func NewOrderCreatedEvent(order *models.Order) OrderEvent {
	return OrderEvent{
		Type:           EventOrderCreated,
		OrderID:        order.ID,
		ClientID:       order.ClientID,
		ClientName:     order.SnapshotName,
		Address:        order.SnapshotAddress,
		Product:        order.Product,
		DeliveryPerson: order.DeliveryPerson,
		Value:          order.Value.StringFixed(2),
		OccurredAt:     time.Now().UTC(),
	}
}

// EventPublisher delivers order events to interested systems
type EventPublisher interface {
	Publish(ctx context.Context, event OrderEvent) error
	Close() error
}

// NoopPublisher drops every event; used when no broker is configured
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, event OrderEvent) error { return nil }
func (NoopPublisher) Close() error                                        { return nil }

// KafkaPublisher publishes order events as JSON, keyed by order id
type KafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
}

// NewKafkaPublisher connects a synchronous producer to brokers
func NewKafkaPublisher(brokers []string, topic string) (*KafkaPublisher, error) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.RequiredAcks = sarama.WaitForLocal
	config.Producer.Timeout = 5 * time.Second

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}
	return NewKafkaPublisherWithProducer(producer, topic), nil
}

// NewKafkaPublisherWithProducer wraps an existing producer (primarily for testing)
func NewKafkaPublisherWithProducer(producer sarama.SyncProducer, topic string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

// Publish sends the event and waits for the broker acknowledgement
func (p *KafkaPublisher) Publish(ctx context.Context, event OrderEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode %s event: %w", event.Type, err)
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(strconv.FormatUint(uint64(event.OrderID), 10)),
		Value: sarama.ByteEncoder(payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event-type"), Value: []byte(event.Type)},
		},
	}
	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("failed to publish %s event: %w", event.Type, err)
	}
	log.Printf("Published %s for order %d to %s/%d@%d", event.Type, event.OrderID, p.topic, partition, offset)
	return nil
}

// Close flushes and closes the producer
func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}
