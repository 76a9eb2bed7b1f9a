package events

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSink struct {
	bodies       [][]byte
	contentTypes []string
	err          error
}

func (f *fakeSink) PublishWithRetry(ctx context.Context, body []byte, contentType string) error {
	if f.err != nil {
		return f.err
	}
	f.bodies = append(f.bodies, body)
	f.contentTypes = append(f.contentTypes, contentType)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPublisher_Emit(t *testing.T) {
	sink := &fakeSink{}
	publisher := NewPublisher(sink, discardLogger())

	publisher.Emit(context.Background(), TypeJobCreated, EntityJob, 7, map[string]string{"name": "Roof A"})

	require.Len(t, sink.bodies, 1)
	assert.Equal(t, "application/json", sink.contentTypes[0])

	var event Event
	require.NoError(t, json.Unmarshal(sink.bodies[0], &event))
	assert.Equal(t, TypeJobCreated, event.Type)
	assert.Equal(t, EntityJob, event.Entity)
	assert.Equal(t, int64(7), event.EntityID)
	assert.False(t, event.OccurredAt.IsZero())
	assert.WithinDuration(t, time.Now().UTC(), event.OccurredAt, time.Minute)

	var data map[string]string
	require.NoError(t, json.Unmarshal(event.Data, &data))
	assert.Equal(t, "Roof A", data["name"])
}

func TestPublisher_EmitWithoutData(t *testing.T) {
	sink := &fakeSink{}
	publisher := NewPublisher(sink, discardLogger())

	publisher.Emit(context.Background(), TypeJobDeleted, EntityJob, 3, nil)

	require.Len(t, sink.bodies, 1)

	var event Event
	require.NoError(t, json.Unmarshal(sink.bodies[0], &event))
	assert.Equal(t, TypeJobDeleted, event.Type)
	assert.Empty(t, event.Data)
}

func TestPublisher_NilIsSafe(t *testing.T) {
	var publisher *Publisher

	// Must not panic
	publisher.Emit(context.Background(), TypeJobCreated, EntityJob, 1, nil)
}

func TestPublisher_SinkFailureIsSwallowed(t *testing.T) {
	sink := &fakeSink{err: errors.New("broker down")}
	publisher := NewPublisher(sink, discardLogger())

	// The mutation already committed; Emit must not propagate the failure
	publisher.Emit(context.Background(), TypeWorkerCreated, EntityWorker, 2, nil)

	assert.Empty(t, sink.bodies)
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{
			name: "valid event",
			body: `{"type":"job.created","entity":"job","entity_id":1,"occurred_at":"2024-01-01T10:00:00Z"}`,
		},
		{
			name:    "missing type",
			body:    `{"entity":"job","entity_id":1}`,
			wantErr: true,
		},
		{
			name:    "malformed json",
			body:    `{"type":`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event, err := Decode([]byte(tt.body))

			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, event)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "job.created", event.Type)
				assert.Equal(t, int64(1), event.EntityID)
			}
		})
	}
}
