package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"
)

const (
	TypeJobCreated         = "job.created"
	TypeJobsBulkCreated    = "job.bulk_created"
	TypeJobDeleted         = "job.deleted"
	TypeWorkerCreated      = "worker.created"
	TypeWorkersBulkCreated = "worker.bulk_created"
	TypeWorkersAssigned    = "job.workers_assigned"

	EntityJob    = "job"
	EntityWorker = "worker"
)

// Event is the message published for every record mutation. Consumers (the
// audit service) treat Data as opaque JSON.
type Event struct {
	Type       string          `json:"type"`
	Entity     string          `json:"entity"`
	EntityID   int64           `json:"entity_id"`
	OccurredAt time.Time       `json:"occurred_at"`
	Data       json.RawMessage `json:"data,omitempty"`
}

// Sink is the transport the publisher writes to. Satisfied by
// *rabbitmq.Client.
type Sink interface {
	PublishWithRetry(ctx context.Context, body []byte, contentType string) error
}

// Publisher emits record-mutation events. A nil Publisher is valid and drops
// every event, so the API runs without a broker configured.
type Publisher struct {
	sink   Sink
	logger *slog.Logger
}

func NewPublisher(sink Sink, logger *slog.Logger) *Publisher {
	return &Publisher{
		sink:   sink,
		logger: logger,
	}
}

// Emit publishes one event. Publish failures are logged and swallowed: the
// mutation already committed, so the request must not fail after the fact.
func (p *Publisher) Emit(ctx context.Context, eventType, entity string, entityID int64, data interface{}) {
	if p == nil || p.sink == nil {
		return
	}

	event := Event{
		Type:       eventType,
		Entity:     entity,
		EntityID:   entityID,
		OccurredAt: time.Now().UTC(),
	}

	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			p.logger.Error("Failed to marshal event data",
				slog.String("type", eventType),
				slog.Any("error", err),
			)
			return
		}
		event.Data = raw
	}

	body, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("Failed to marshal event",
			slog.String("type", eventType),
			slog.Any("error", err),
		)
		return
	}

	if err := p.sink.PublishWithRetry(ctx, body, "application/json"); err != nil {
		p.logger.Error("Failed to publish event",
			slog.String("type", eventType),
			slog.String("entity", entity),
			slog.Int64("entity_id", entityID),
			slog.Any("error", err),
		)
		return
	}

	p.logger.Debug("Event published",
		slog.String("type", eventType),
		slog.String("entity", entity),
		slog.Int64("entity_id", entityID),
	)
}

// Decode parses an event payload received from the queue.
func Decode(body []byte) (*Event, error) {
	var event Event
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, fmt.Errorf("failed to decode event: %w", err)
	}
	if event.Type == "" {
		return nil, fmt.Errorf("event has no type")
	}
	return &event, nil
}
