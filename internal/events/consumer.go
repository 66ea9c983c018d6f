package events

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Handler processes one decoded menu item event.
type Handler func(Event) error

// Consumer follows menu item events on the restaurant exchange through a
// private queue that disappears with the connection.
type Consumer struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	tag     string
	log     *zap.Logger
}

// NewConsumer creates a new event consumer
func NewConsumer(url, tag string, log *zap.Logger) (*Consumer, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(
		exchangeName,
		exchangeType,
		true,
		false,
		false,
		false,
		nil,
	); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	log.Info("Consumer connected to RabbitMQ", zap.String("exchange", exchangeName))

	return &Consumer{
		conn:    conn,
		channel: ch,
		tag:     tag,
		log:     log,
	}, nil
}

// Consume hands every menu item event to handle until ctx is done or the
// broker closes the channel.
func (c *Consumer) Consume(ctx context.Context, handle Handler) error {
	queue, err := c.channel.QueueDeclare(
		"",    // server-named
		false, // durable
		true,  // delete when unused
		true,  // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	if err := c.channel.QueueBind(queue.Name, "menuitem.*", exchangeName, false, nil); err != nil {
		return fmt.Errorf("failed to bind queue: %w", err)
	}

	msgs, err := c.channel.Consume(
		queue.Name,
		c.tag, // consumer tag
		false, // auto-ack
		true,  // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}
			c.handleMessage(msg, handle)
		}
	}
}

// handleMessage acks handled events and drops anything undecodable or
// rejected by the handler without requeueing it.
func (c *Consumer) handleMessage(msg amqp.Delivery, handle Handler) {
	switch msg.RoutingKey {
	case EventTypeMenuItemAdded, EventTypeMenuItemUpdated, EventTypeMenuItemDeleted:
	default:
		c.log.Warn("Unknown event type", zap.String("routing_key", msg.RoutingKey))
		msg.Nack(false, false)
		return
	}

	var event Event
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		c.log.Error("Failed to decode event", zap.String("routing_key", msg.RoutingKey), zap.Error(err))
		msg.Nack(false, false)
		return
	}

	if err := handle(event); err != nil {
		c.log.Error("Failed to handle event",
			zap.String("event_id", event.EventID),
			zap.String("event_type", event.EventType),
			zap.Error(err),
		)
		msg.Nack(false, false)
		return
	}

	msg.Ack(false)
}

// Close closes the consumer connection
func (c *Consumer) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
