package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/restaurant/services/menu/internal/entity"
	"go.uber.org/zap"
)

const (
	exchangeName = "restaurant.events"
	exchangeType = "topic"

	// Event types, also used as routing keys
	EventTypeMenuItemAdded   = "menuitem.added"
	EventTypeMenuItemUpdated = "menuitem.updated"
	EventTypeMenuItemDeleted = "menuitem.deleted"

	eventVersion = "1.0.0"

	// Retry configuration
	maxRetries     = 3
	initialBackoff = 100 * time.Millisecond
	maxBackoff     = 5 * time.Second
	confirmTimeout = 5 * time.Second
)

// Publisher handles event publishing to RabbitMQ
type Publisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	log     *zap.Logger
	send    sendFunc
}

// Event represents a domain event
type Event struct {
	EventID       string                 `json:"event_id"`
	EventType     string                 `json:"event_type"`
	EventVersion  string                 `json:"event_version"`
	Timestamp     string                 `json:"timestamp"`
	CorrelationID string                 `json:"correlation_id,omitempty"`
	Payload       map[string]interface{} `json:"payload"`
}

// NewPublisher creates a new event publisher
func NewPublisher(url string, log *zap.Logger) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := channel.ExchangeDeclare(
		exchangeName,
		exchangeType,
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,   // arguments
	); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	if err := channel.Confirm(false); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to enable publisher confirms: %w", err)
	}

	log.Info("Connected to RabbitMQ", zap.String("exchange", exchangeName))

	p := &Publisher{
		conn:    conn,
		channel: channel,
		log:     log,
	}
	p.send = p.publishConfirmed
	return p, nil
}

// NewEvent builds an envelope for eventType carrying payload, stamped with
// the correlation id found in ctx.
func NewEvent(ctx context.Context, eventType string, payload map[string]interface{}) Event {
	return Event{
		EventID:       uuid.New().String(),
		EventType:     eventType,
		EventVersion:  eventVersion,
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		CorrelationID: CorrelationID(ctx),
		Payload:       payload,
	}
}

// ItemPayload is the payload of added and updated events.
func ItemPayload(item entity.MenuItem) map[string]interface{} {
	return map[string]interface{}{
		"id":          item.ID(),
		"category":    item.Category(),
		"description": item.Description(),
		"price":       item.Price(),
		"vegetarian":  item.Vegetarian(),
	}
}

// PublishItemAdded publishes a menu item added event
func (p *Publisher) PublishItemAdded(ctx context.Context, item entity.MenuItem) error {
	return p.publishWithRetry(ctx, NewEvent(ctx, EventTypeMenuItemAdded, ItemPayload(item)))
}

// PublishItemUpdated publishes a menu item updated event
func (p *Publisher) PublishItemUpdated(ctx context.Context, item entity.MenuItem) error {
	return p.publishWithRetry(ctx, NewEvent(ctx, EventTypeMenuItemUpdated, ItemPayload(item)))
}

// PublishItemDeleted publishes a menu item deleted event
func (p *Publisher) PublishItemDeleted(ctx context.Context, id int) error {
	return p.publishWithRetry(ctx, NewEvent(ctx, EventTypeMenuItemDeleted, map[string]interface{}{"id": id}))
}

var errNotAcked = errors.New("event not acknowledged")

// sendFunc publishes one message and waits for the broker's verdict on it.
type sendFunc func(ctx context.Context, routingKey string, msg amqp.Publishing) error

// publishConfirmed publishes msg and waits for the confirmation of that
// delivery tag alone, so concurrent publishes never see each other's acks.
func (p *Publisher) publishConfirmed(ctx context.Context, routingKey string, msg amqp.Publishing) error {
	ctx, cancel := context.WithTimeout(ctx, confirmTimeout)
	defer cancel()

	confirmation, err := p.channel.PublishWithDeferredConfirmWithContext(
		ctx,
		exchangeName,
		routingKey,
		false, // mandatory
		false, // immediate
		msg,
	)
	if err != nil {
		return err
	}

	acked, err := confirmation.WaitContext(ctx)
	if err != nil {
		return fmt.Errorf("confirmation: %w", err)
	}
	if !acked {
		return errNotAcked
	}
	return nil
}

// publishWithRetry publishes an event with exponential backoff retry
func (p *Publisher) publishWithRetry(ctx context.Context, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		p.log.Error("Failed to marshal event", zap.Error(err))
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := amqp.Publishing{
		ContentType:   "application/json",
		DeliveryMode:  amqp.Persistent,
		Timestamp:     time.Now(),
		MessageId:     event.EventID,
		CorrelationId: event.CorrelationID,
		Body:          body,
		Headers: amqp.Table{
			"event_type":    event.EventType,
			"event_version": event.EventVersion,
		},
	}

	backoff := initialBackoff
	var lastErr error

	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
				backoff = nextBackoff(backoff)
			}
		}

		lastErr = p.send(ctx, event.EventType, msg)
		if lastErr == nil {
			p.log.Info("Event published",
				zap.String("event_id", event.EventID),
				zap.String("event_type", event.EventType),
				zap.String("correlation_id", event.CorrelationID),
			)
			return nil
		}

		p.log.Warn("Failed to publish event, retrying",
			zap.Int("attempt", attempt+1),
			zap.Error(lastErr),
		)
	}

	p.log.Error("Failed to publish event after retries",
		zap.String("event_id", event.EventID),
		zap.String("event_type", event.EventType),
		zap.Int("attempts", maxRetries),
		zap.Error(lastErr),
	)
	return fmt.Errorf("failed to publish event after %d attempts: %w", maxRetries, lastErr)
}

func nextBackoff(d time.Duration) time.Duration {
	d *= 2
	if d > maxBackoff {
		return maxBackoff
	}
	return d
}

// IsHealthy checks if the publisher connection is healthy
func (p *Publisher) IsHealthy() bool {
	return p.conn != nil && !p.conn.IsClosed()
}

// Close closes the publisher connection
func (p *Publisher) Close() error {
	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			p.log.Error("Failed to close channel", zap.Error(err))
		}
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil {
			p.log.Error("Failed to close connection", zap.Error(err))
			return err
		}
	}
	p.log.Info("Publisher closed")
	return nil
}
