package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// recordingAcker captures how a delivery was settled.
type recordingAcker struct {
	acked   int
	nacked  int
	requeue bool
}

func (a *recordingAcker) Ack(tag uint64, multiple bool) error {
	a.acked++
	return nil
}

func (a *recordingAcker) Nack(tag uint64, multiple, requeue bool) error {
	a.nacked++
	a.requeue = requeue
	return nil
}

func (a *recordingAcker) Reject(tag uint64, requeue bool) error {
	return a.Nack(tag, false, requeue)
}

func delivery(t *testing.T, acker *recordingAcker, routingKey string, event any) amqp.Delivery {
	body, err := json.Marshal(event)
	require.NoError(t, err)
	return amqp.Delivery{Acknowledger: acker, RoutingKey: routingKey, Body: body}
}

func TestHandleMessageAcksHandledEvents(t *testing.T) {
	c := &Consumer{log: zap.NewNop()}
	acker := &recordingAcker{}
	sent := NewEvent(WithCorrelationID(context.Background(), "req-7"), EventTypeMenuItemDeleted, map[string]interface{}{"id": 101})

	var got Event
	c.handleMessage(delivery(t, acker, EventTypeMenuItemDeleted, sent), func(e Event) error {
		got = e
		return nil
	})

	assert.Equal(t, 1, acker.acked)
	assert.Zero(t, acker.nacked)
	assert.Equal(t, sent.EventID, got.EventID)
	assert.Equal(t, "req-7", got.CorrelationID)
	assert.Equal(t, 101.0, got.Payload["id"])
}

func TestHandleMessageDropsBadDeliveries(t *testing.T) {
	c := &Consumer{log: zap.NewNop()}
	never := func(Event) error {
		t.Fatal("handler must not run")
		return nil
	}

	t.Run("unknown routing key", func(t *testing.T) {
		acker := &recordingAcker{}
		c.handleMessage(delivery(t, acker, "order.created", map[string]string{}), never)
		assert.Equal(t, 1, acker.nacked)
		assert.False(t, acker.requeue)
	})

	t.Run("undecodable body", func(t *testing.T) {
		acker := &recordingAcker{}
		c.handleMessage(amqp.Delivery{Acknowledger: acker, RoutingKey: EventTypeMenuItemAdded, Body: []byte("{")}, never)
		assert.Equal(t, 1, acker.nacked)
		assert.Zero(t, acker.acked)
	})
}

func TestHandleMessageHandlerFailure(t *testing.T) {
	c := &Consumer{log: zap.NewNop()}
	acker := &recordingAcker{}

	c.handleMessage(delivery(t, acker, EventTypeMenuItemAdded, NewEvent(context.Background(), EventTypeMenuItemAdded, nil)),
		func(Event) error { return errors.New("sink full") })

	assert.Equal(t, 1, acker.nacked)
	assert.False(t, acker.requeue)
	assert.Zero(t, acker.acked)
}
