package auditor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	auditstorage "github.com/crewtrackhq/crewtrack-be/internal/auditor/storage"
	"github.com/crewtrackhq/crewtrack-be/internal/events"
	amqp "github.com/rabbitmq/amqp091-go"
)

// ErrMalformedEvent marks deliveries that can never be recorded. They are
// dropped instead of requeued.
var ErrMalformedEvent = errors.New("malformed event")

// recordDelivery decodes one delivery and writes it to the audit log.
func (a *Auditor) recordDelivery(ctx context.Context, delivery *amqp.Delivery) error {
	event, err := events.Decode(delivery.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}

	a.logger.Debug("Recording event",
		slog.String("type", event.Type),
		slog.String("entity", event.Entity),
		slog.Int64("entity_id", event.EntityID),
	)

	entry := entryFromEvent(event)
	if err := a.storage.InsertEntry(ctx, entry); err != nil {
		return err
	}

	a.logger.Info("Event recorded",
		slog.String("type", event.Type),
		slog.Int64("entry_id", entry.ID),
	)

	return nil
}

// entryFromEvent maps a queue event onto an audit-log row.
func entryFromEvent(event *events.Event) *auditstorage.Entry {
	return &auditstorage.Entry{
		EventType:  event.Type,
		Entity:     event.Entity,
		EntityID:   event.EntityID,
		Payload:    event.Data,
		OccurredAt: event.OccurredAt,
	}
}

// shouldRequeue decides the NACK requeue flag. Malformed events would fail
// forever, so they are dropped.
func shouldRequeue(err error) bool {
	return !errors.Is(err, ErrMalformedEvent)
}
