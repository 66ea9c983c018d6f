// Package events announces menu changes on the restaurant event bus.
package events

import (
	"context"

	"github.com/restaurant/services/menu/internal/entity"
)

// EventPublisher is what the HTTP layer needs from a publisher.
type EventPublisher interface {
	PublishItemAdded(ctx context.Context, item entity.MenuItem) error
	PublishItemUpdated(ctx context.Context, item entity.MenuItem) error
	PublishItemDeleted(ctx context.Context, id int) error
	IsHealthy() bool
	Close() error
}

var (
	_ EventPublisher = (*Publisher)(nil)
	_ EventPublisher = NopPublisher{}
)

// NopPublisher drops every event. It stands in when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) PublishItemAdded(context.Context, entity.MenuItem) error   { return nil }
func (NopPublisher) PublishItemUpdated(context.Context, entity.MenuItem) error { return nil }
func (NopPublisher) PublishItemDeleted(context.Context, int) error             { return nil }
func (NopPublisher) IsHealthy() bool                                           { return true }
func (NopPublisher) Close() error                                              { return nil }

type correlationKey struct{}

// WithCorrelationID returns a context carrying id, which NewEvent copies
// into every event it builds.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationKey{}, id)
}

// CorrelationID returns the id stored by WithCorrelationID, or "".
func CorrelationID(ctx context.Context) string {
	id, _ := ctx.Value(correlationKey{}).(string)
	return id
}
