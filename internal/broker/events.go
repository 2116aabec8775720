package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"pos-service/internal/models"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// Notifier is implemented by anything that can announce a table change.
// Repositories hold the interface so tests can swap in a recorder and so the
// channel is optional in degraded setups.
type Notifier interface {
	NotifyTableChanged(ctx context.Context, table string) error
}

// EventPublisher publishes change notifications, keyed by table name so
// consumers see per-table ordering
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

// NotifyTableChanged publishes a TableChanged event
func (ep *EventPublisher) NotifyTableChanged(ctx context.Context, table string) error {
	event := &models.TableChangedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeTableChanged,
			Timestamp: time.Now(),
		},
		Table: table,
	}
	return ep.producer.PublishEvent(ctx, "table-"+table, event)
}

// EventHandler routes change notifications to a registered callback
type EventHandler struct {
	onTableChanged func(context.Context, *models.TableChangedEvent) error
}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{}
}

// OnTableChanged registers a handler for TableChanged events
func (eh *EventHandler) OnTableChanged(handler func(context.Context, *models.TableChangedEvent) error) {
	eh.onTableChanged = handler
}

// HandleMessage routes messages to appropriate handlers
func (eh *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var baseEvent models.BaseEvent
	if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
		return fmt.Errorf("failed to unmarshal base event: %w", err)
	}

	if baseEvent.EventType == models.EventTypeTableChanged && eh.onTableChanged != nil {
		var event models.TableChangedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			return fmt.Errorf("failed to unmarshal TableChanged event: %w", err)
		}
		return eh.onTableChanged(ctx, &event)
	}

	return nil
}
