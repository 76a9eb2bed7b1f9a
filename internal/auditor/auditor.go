package auditor

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/crewtrackhq/crewtrack-be/internal/auditor/storage"
	"github.com/crewtrackhq/crewtrack-be/shared/postgresql"
	"github.com/crewtrackhq/crewtrack-be/shared/rabbitmq"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Config holds auditor configuration
type Config struct {
	Logger        *slog.Logger
	DBClient      *postgresql.Client
	RabbitClient  *rabbitmq.Client
	Concurrency   int
	PrefetchCount int
}

// Auditor consumes record-mutation events from the queue and writes them to
// the audit log.
type Auditor struct {
	logger        *slog.Logger
	storage       *storage.Storage
	rabbitClient  *rabbitmq.Client
	concurrency   int
	prefetchCount int
	consumerID    string
	wg            sync.WaitGroup
}

// New creates a new Auditor instance
func New(cfg *Config) *Auditor {
	consumerID := fmt.Sprintf("auditor-%s", uuid.New().String()[:8])

	return &Auditor{
		logger:        cfg.Logger,
		storage:       storage.NewStorage(cfg.DBClient.GetDB(), cfg.Logger),
		rabbitClient:  cfg.RabbitClient,
		concurrency:   cfg.Concurrency,
		prefetchCount: cfg.PrefetchCount,
		consumerID:    consumerID,
	}
}

// Start consumes events until ctx is canceled, dispatching deliveries to a
// pool of recorder goroutines.
func (a *Auditor) Start(ctx context.Context) error {
	if err := a.storage.EnsureSchema(ctx); err != nil {
		return err
	}

	deliveries, err := a.setupConsumer()
	if err != nil {
		return err
	}

	a.logger.Info("Spawning auditor pool",
		slog.Int("concurrency", a.concurrency),
		slog.String("consumer_id", a.consumerID),
	)

	for i := 0; i < a.concurrency; i++ {
		a.wg.Add(1)
		go a.recorderLoop(ctx, i, deliveries)
	}

	poolDone := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(poolDone)
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("Auditor context canceled, waiting for recorders to drain")
		<-poolDone
	case <-poolDone:
		// All recorders exited without a shutdown signal, which means the
		// delivery channel closed underneath us
		a.logger.Warn("Delivery channel closed, auditor stopping")
	}

	return nil
}

// setupConsumer configures QoS and starts consuming from the event queue.
func (a *Auditor) setupConsumer() (<-chan amqp.Delivery, error) {
	if err := a.rabbitClient.Qos(a.prefetchCount); err != nil {
		return nil, err
	}

	a.logger.Info("RabbitMQ QoS configured",
		slog.Int("prefetch_count", a.prefetchCount),
	)

	deliveries, err := a.rabbitClient.Consume(a.consumerID)
	if err != nil {
		return nil, fmt.Errorf("failed to start consuming: %w", err)
	}

	return deliveries, nil
}

// recorderLoop is the main processing loop for each recorder goroutine
func (a *Auditor) recorderLoop(ctx context.Context, recorderNum int, deliveries <-chan amqp.Delivery) {
	defer a.wg.Done()

	recorderName := fmt.Sprintf("%s-%d", a.consumerID, recorderNum)
	a.logger.Info("Recorder goroutine started",
		slog.String("recorder", recorderName),
	)

	for {
		select {
		case <-ctx.Done():
			a.logger.Info("Recorder goroutine stopping - context canceled",
				slog.String("recorder", recorderName),
			)
			return

		case delivery, ok := <-deliveries:
			if !ok {
				a.logger.Info("Recorder goroutine stopping - delivery channel closed",
					slog.String("recorder", recorderName),
				)
				return
			}

			err := a.recordDelivery(ctx, &delivery)
			if err != nil {
				a.logger.Error("Failed to record event",
					slog.String("recorder", recorderName),
					slog.String("error", err.Error()),
				)

				// Malformed events are dropped; storage failures requeue
				if nackErr := delivery.Nack(false, shouldRequeue(err)); nackErr != nil {
					a.logger.Error("Failed to NACK delivery",
						slog.String("recorder", recorderName),
						slog.Any("error", nackErr),
					)
				}
				continue
			}

			if ackErr := delivery.Ack(false); ackErr != nil {
				a.logger.Error("Failed to ACK delivery",
					slog.String("recorder", recorderName),
					slog.Any("error", ackErr),
				)
			}
		}
	}
}
