package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// SolicitationMessage asks the worker to proactively solicit a review.
type SolicitationMessage struct {
	ID          string    `json:"id"`
	PersonID    int64     `json:"person_id"`
	RequestedAt time.Time `json:"requested_at"`
}

type SolicitationPublisher interface {
	PublishSolicitation(ctx context.Context, personID int64) error
}

type publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type RabbitMQProducer struct {
	Ch    publisher
	Clock func() time.Time
}

func NewProducer(ch *amqp.Channel) *RabbitMQProducer {
	return &RabbitMQProducer{Ch: ch, Clock: time.Now}
}

func (p *RabbitMQProducer) PublishSolicitation(ctx context.Context, personID int64) error {
	msg := SolicitationMessage{
		ID:          uuid.New().String(),
		PersonID:    personID,
		RequestedAt: p.Clock().UTC(),
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode solicitation: %w", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			MessageId:    msg.ID,
			Timestamp:    msg.RequestedAt,
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("publish solicitation for person %d: %w", personID, err)
	}
	return nil
}
