package event

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/khoahotran/photo-gallery/internal/config"
)

const (
	TopicPhotoEvents = "photo.events"
)

type PhotoEventType string

const (
	PhotoEventTypeUploaded PhotoEventType = "photo.uploaded"
	PhotoEventTypeMainSet  PhotoEventType = "photo.main_set"
	PhotoEventTypeDeleted  PhotoEventType = "photo.deleted"
	// PhotoEventTypeOrphaned marks a record whose remote asset is already
	// gone but whose row could not be deleted. The worker prunes these.
	PhotoEventTypeOrphaned PhotoEventType = "photo.orphaned"
)

type PhotoEventPayload struct {
	EventType PhotoEventType `json:"event_type"`
	PhotoID   uuid.UUID      `json:"photo_id"`
	UserID    uuid.UUID      `json:"user_id"`
	PublicID  string         `json:"public_id,omitempty"`
}

// PhotoEventPublisher lets use cases publish without holding the concrete
// Kafka client, so tests can record published events in memory.
type PhotoEventPublisher interface {
	PublishPhotoEvent(ctx context.Context, payload PhotoEventPayload) error
}

type KafkaProducerClient struct {
	PhotoEventsWriter *kafka.Writer
}

func NewKafkaProducerClient(cfg config.Config) (*KafkaProducerClient, error) {
	brokers := cfg.Kafka.Brokers
	if len(brokers) == 0 {
		return nil, fmt.Errorf("config Kafka brokers not found")
	}

	// writer 'photo.events'
	photoWriter := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    TopicPhotoEvents,
		Balancer: &kafka.LeastBytes{},
	}

	fmt.Println("Initialize Kafka Producers successfully.")

	return &KafkaProducerClient{
		PhotoEventsWriter: photoWriter,
	}, nil
}

func (c *KafkaProducerClient) PublishPhotoEvent(ctx context.Context, payload PhotoEventPayload) error {
	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("cannot marshal photo event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(payload.PhotoID.String()),
		Value: value,
	}
	if err := c.PhotoEventsWriter.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("cannot write photo event to kafka: %w", err)
	}
	return nil
}

func (c *KafkaProducerClient) Close() {
	if c.PhotoEventsWriter != nil {
		c.PhotoEventsWriter.Close()
	}
	fmt.Println("Closed Kafka Producers")
}
