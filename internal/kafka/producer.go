package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// TicketRef identifies one claimed seat inside an order event.
type TicketRef struct {
	TripID int64 `json:"trip_id"`
	Seat   int   `json:"seat"`
}

// OrderEvent is published after an order commits.
type OrderEvent struct {
	Type      string      `json:"type"`
	Reference string      `json:"reference"`
	OrderID   int64       `json:"order_id"`
	UserID    int64       `json:"user_id"`
	Tickets   []TicketRef `json:"tickets"`
	CreatedAt time.Time   `json:"created_at"`
}

type Producer struct {
	writer *kafka.Writer
}

func NewProducer(brokers []string) *Producer {
	return &Producer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: 50 * time.Millisecond,
			RequiredAcks: kafka.RequireOne,
		},
	}
}

func (p *Producer) Publish(ctx context.Context, topic, key string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
		Time:  time.Now(),
	})
}

func (p *Producer) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}
