package store

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"

	"qrmenu-backend/models"
)

type KafkaPublisher struct {
	Writer *kafka.Writer
}

func NewKafkaPublisher(writer *kafka.Writer) *KafkaPublisher {
	return &KafkaPublisher{Writer: writer}
}

// Publish keys messages by tenant so one restaurant's events stay ordered.
func (p *KafkaPublisher) Publish(ctx context.Context, event models.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.Writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.TenantID),
		Value: payload,
	})
}

func (p *KafkaPublisher) Close() error {
	return p.Writer.Close()
}
