package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// RabbitPublisher publishes persistent booking events to RabbitMQ. Publishing
// is best-effort by contract: callers log failures and carry on, a booking is
// never rolled back because the broker was down.
type RabbitPublisher struct {
	logger  *slog.Logger
	conn    *amqp.Connection
	channel *amqp.Channel
}

func NewRabbitPublisher(logger *slog.Logger, url string) (*RabbitPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq dial failed: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("rabbitmq channel open failed: %w", err)
	}

	// Durable so messages survive broker restarts.
	_, err = ch.QueueDeclare(BookingConfirmedQueue, true, false, false, false, nil)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("rabbitmq queue declare failed: %w", err)
	}

	return &RabbitPublisher{
		logger:  logger,
		conn:    conn,
		channel: ch,
	}, nil
}

func (p *RabbitPublisher) PublishBookingConfirmed(ctx context.Context, event BookingConfirmedEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = p.channel.PublishWithContext(ctx,
		"",
		BookingConfirmedQueue,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", BookingConfirmedQueue, err)
	}

	return nil
}

func (p *RabbitPublisher) Close() {
	if err := p.channel.Close(); err != nil {
		p.logger.Warn("failed to close rabbitmq channel", "error", err)
	}
	if err := p.conn.Close(); err != nil {
		p.logger.Warn("failed to close rabbitmq connection", "error", err)
	}
}

// NopPublisher is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) PublishBookingConfirmed(context.Context, BookingConfirmedEvent) error {
	return nil
}
