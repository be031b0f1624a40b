package events

import (
	"context"
	"fmt"
	"time"

	"storefront/internal/model"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

// Publisher delivers relayed outbox events to their consumers.
type Publisher interface {
	Publish(ctx context.Context, event model.OutboxEvent) error
	Close() error
}

// amqpChannel is the part of *amqp.Channel the publisher uses.
type amqpChannel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// RabbitPublisher publishes events to a topic exchange, routed by event type.
type RabbitPublisher struct {
	conn     *amqp.Connection
	ch       amqpChannel
	exchange string
	timeout  time.Duration
	logger   zerolog.Logger
}

// DialRabbit connects to the broker and declares the events exchange.
func DialRabbit(url, exchange string, logger zerolog.Logger) (*RabbitPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	p, err := newRabbitPublisher(ch, exchange, logger)
	if err != nil {
		conn.Close()
		return nil, err
	}
	p.conn = conn

	return p, nil
}

func newRabbitPublisher(ch amqpChannel, exchange string, logger zerolog.Logger) (*RabbitPublisher, error) {
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}

	return &RabbitPublisher{
		ch:       ch,
		exchange: exchange,
		timeout:  3 * time.Second,
		logger:   logger.With().Str("component", "rabbit-publisher").Logger(),
	}, nil
}

// Publish sends one event as a persistent JSON message.
func (p *RabbitPublisher) Publish(ctx context.Context, event model.OutboxEvent) error {
	pubCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	err := p.ch.PublishWithContext(
		pubCtx,
		p.exchange,
		event.EventType,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    event.ID.String(),
			Timestamp:    event.CreatedAt,
			Type:         event.EventType,
			Headers:      amqp.Table{"aggregate_id": event.AggregateID},
			Body:         event.Payload,
		},
	)
	if err != nil {
		return fmt.Errorf("publish %s: %w", event.EventType, err)
	}

	p.logger.Debug().
		Str("event_id", event.ID.String()).
		Str("event_type", event.EventType).
		Msg("event published")

	return nil
}

// Close closes the channel and, when owned, the connection.
func (p *RabbitPublisher) Close() error {
	err := p.ch.Close()
	if p.conn != nil {
		if cerr := p.conn.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// LogPublisher writes events to the log. It stands in for the broker when
// messaging is disabled so the outbox still drains.
type LogPublisher struct {
	logger zerolog.Logger
}

// NewLogPublisher creates a LogPublisher.
func NewLogPublisher(logger zerolog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger.With().Str("component", "log-publisher").Logger()}
}

func (p *LogPublisher) Publish(_ context.Context, event model.OutboxEvent) error {
	p.logger.Info().
		Str("event_id", event.ID.String()).
		Str("event_type", event.EventType).
		Str("aggregate_id", event.AggregateID).
		RawJSON("payload", event.Payload).
		Msg("event")
	return nil
}

func (p *LogPublisher) Close() error {
	return nil
}
