package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/HexHunters/Tickr-sub000/internal/domain"
	"github.com/HexHunters/Tickr-sub000/internal/repository"
	"github.com/HexHunters/Tickr-sub000/pkg/kafka"
	"github.com/HexHunters/Tickr-sub000/pkg/logger"
	"github.com/HexHunters/Tickr-sub000/pkg/retry"
)

// MessagePublisher publishes Kafka messages. Implemented by kafka.Producer.
type MessagePublisher interface {
	Produce(ctx context.Context, msg *kafka.Message) error
}

// OutboxWorkerConfig contains configuration for the outbox worker
type OutboxWorkerConfig struct {
	// PollInterval is the interval between polling for pending messages
	PollInterval time.Duration
	// BatchSize is the number of messages to fetch in each poll
	BatchSize int
	// RetryInterval is the interval between retrying failed messages
	RetryInterval time.Duration
	// CleanupInterval is the interval between cleanup of old published messages
	CleanupInterval time.Duration
	// CleanupRetentionDays is the number of days to retain published messages
	CleanupRetentionDays int
}

// DefaultOutboxWorkerConfig returns default configuration
func DefaultOutboxWorkerConfig() *OutboxWorkerConfig {
	return &OutboxWorkerConfig{
		PollInterval:         1 * time.Second,
		BatchSize:            100,
		RetryInterval:        5 * time.Second,
		CleanupInterval:      1 * time.Hour,
		CleanupRetentionDays: 7,
	}
}

// OutboxWorker polls the outbox table and publishes messages to Kafka.
// Messages that exhaust their retries are moved to the dead letter queue.
type OutboxWorker struct {
	outboxRepo repository.OutboxRepository
	producer   MessagePublisher
	dlq        retry.DLQPublisher
	config     *OutboxWorkerConfig
	log        *zap.Logger
	stopCh     chan struct{}
	wg         sync.WaitGroup
	mu         sync.Mutex
	running    bool
}

// NewOutboxWorker creates a new outbox worker
func NewOutboxWorker(
	outboxRepo repository.OutboxRepository,
	producer MessagePublisher,
	dlq retry.DLQPublisher,
	config *OutboxWorkerConfig,
) *OutboxWorker {
	if config == nil {
		config = DefaultOutboxWorkerConfig()
	}
	if dlq == nil {
		dlq = retry.NewNoOpDLQPublisher()
	}

	return &OutboxWorker{
		outboxRepo: outboxRepo,
		producer:   producer,
		dlq:        dlq,
		config:     config,
		log:        logger.Get(),
		stopCh:     make(chan struct{}),
	}
}

// Start starts the outbox worker
func (w *OutboxWorker) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("outbox worker already running")
	}
	w.running = true
	w.mu.Unlock()

	w.log.Info("starting outbox worker",
		zap.Duration("poll_interval", w.config.PollInterval),
		zap.Int("batch_size", w.config.BatchSize),
	)

	w.wg.Add(3)
	go w.pollPendingMessages(ctx)
	go w.retryFailedMessages(ctx)
	go w.cleanupOldMessages(ctx)

	return nil
}

// Stop stops the outbox worker and waits for in-flight batches to finish
func (w *OutboxWorker) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	w.wg.Wait()
	w.log.Info("outbox worker stopped")
}

func (w *OutboxWorker) pollPendingMessages(ctx context.Context) {
	defer w.wg.Done()

	ticker := time.NewTicker(w.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.ProcessPendingMessages(ctx)
		}
	}
}

// ProcessPendingMessages fetches a batch of pending messages and publishes them
func (w *OutboxWorker) ProcessPendingMessages(ctx context.Context) {
	messages, err := w.outboxRepo.GetPendingMessages(ctx, w.config.BatchSize)
	if err != nil {
		w.log.Error("failed to get pending outbox messages", zap.Error(err))
		return
	}

	for _, msg := range messages {
		w.publishAndMark(ctx, msg)
	}
}

func (w *OutboxWorker) retryFailedMessages(ctx context.Context) {
	defer w.wg.Done()

	ticker := time.NewTicker(w.config.RetryInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.ProcessFailedMessages(ctx)
		}
	}
}

// ProcessFailedMessages fetches failed messages and retries them. A message
// whose last retry budget is spent by this attempt is moved to the DLQ.
func (w *OutboxWorker) ProcessFailedMessages(ctx context.Context) {
	messages, err := w.outboxRepo.GetFailedMessages(ctx, w.config.BatchSize)
	if err != nil {
		w.log.Error("failed to get failed outbox messages", zap.Error(err))
		return
	}

	for _, msg := range messages {
		w.publishAndMark(ctx, msg)
	}
}

// publishAndMark publishes one message and records the outcome.
func (w *OutboxWorker) publishAndMark(ctx context.Context, msg *domain.OutboxMessage) {
	if err := w.publishMessage(ctx, msg); err != nil {
		w.log.Error("failed to publish outbox message",
			zap.String("message_id", msg.ID),
			zap.String("event_type", msg.EventType),
			zap.Int("retry_count", msg.RetryCount),
			zap.Error(err),
		)
		if markErr := w.outboxRepo.MarkAsFailed(ctx, msg.ID, err.Error()); markErr != nil {
			w.log.Error("failed to mark outbox message as failed",
				zap.String("message_id", msg.ID),
				zap.Error(markErr),
			)
		}

		// retry_count was just incremented by MarkAsFailed
		if msg.RetryCount+1 >= msg.MaxRetries {
			w.moveToDLQ(ctx, msg, err)
		}
		return
	}

	if markErr := w.outboxRepo.MarkAsPublished(ctx, msg.ID); markErr != nil {
		w.log.Error("failed to mark outbox message as published",
			zap.String("message_id", msg.ID),
			zap.Error(markErr),
		)
	}
}

// moveToDLQ publishes an exhausted message to the dead letter topic so it can
// be inspected and replayed manually.
func (w *OutboxWorker) moveToDLQ(ctx context.Context, msg *domain.OutboxMessage, cause error) {
	dlqMsg := &retry.DLQMessage{
		ID:             msg.ID,
		OriginalTopic:  msg.Topic,
		OriginalKey:    msg.PartitionKey,
		Payload:        msg.Payload,
		Error:          cause.Error(),
		Attempts:       msg.RetryCount + 1,
		FirstAttemptAt: msg.CreatedAt,
		LastAttemptAt:  time.Now(),
	}

	if err := w.dlq.PublishToDLQ(ctx, dlqMsg); err != nil {
		w.log.Error("failed to move outbox message to DLQ",
			zap.String("message_id", msg.ID),
			zap.String("dlq_topic", w.dlq.GetDLQTopic(msg.Topic)),
			zap.Error(err),
		)
		return
	}

	w.log.Warn("outbox message moved to DLQ",
		zap.String("message_id", msg.ID),
		zap.String("event_type", msg.EventType),
		zap.String("dlq_topic", w.dlq.GetDLQTopic(msg.Topic)),
		zap.Int("attempts", msg.RetryCount+1),
	)
}

func (w *OutboxWorker) cleanupOldMessages(ctx context.Context) {
	defer w.wg.Done()

	ticker := time.NewTicker(w.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case <-ticker.C:
			deleted, err := w.outboxRepo.DeletePublished(ctx, w.config.CleanupRetentionDays)
			if err != nil {
				w.log.Error("failed to cleanup published outbox messages", zap.Error(err))
			} else if deleted > 0 {
				w.log.Info("cleaned up published outbox messages", zap.Int64("deleted", deleted))
			}
		}
	}
}

// publishMessage publishes a message to Kafka keyed by the aggregate id so
// all events of one aggregate land on the same partition.
func (w *OutboxWorker) publishMessage(ctx context.Context, msg *domain.OutboxMessage) error {
	return w.producer.Produce(ctx, &kafka.Message{
		Topic: msg.Topic,
		Key:   []byte(msg.PartitionKey),
		Value: msg.Payload,
		Headers: map[string]string{
			"event_type":     msg.EventType,
			"aggregate_type": msg.AggregateType,
			"aggregate_id":   msg.AggregateID,
			"content_type":   "application/json",
			"source":         "outbox-worker",
		},
	})
}
