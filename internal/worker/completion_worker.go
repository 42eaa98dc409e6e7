package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/HexHunters/Tickr-sub000/internal/service"
	"github.com/HexHunters/Tickr-sub000/pkg/logger"
)

// CompletionWorkerConfig contains configuration for the completion worker
type CompletionWorkerConfig struct {
	// Interval is how often to sweep for ended events
	Interval time.Duration
}

// DefaultCompletionWorkerConfig returns default configuration
func DefaultCompletionWorkerConfig() *CompletionWorkerConfig {
	return &CompletionWorkerConfig{
		Interval: 1 * time.Minute,
	}
}

// CompletionWorker periodically transitions published events whose end date
// has passed to the completed status.
type CompletionWorker struct {
	eventService service.EventService
	config       *CompletionWorkerConfig
	log          *zap.Logger
	stopCh       chan struct{}
	wg           sync.WaitGroup
	mu           sync.Mutex
	running      bool
}

// NewCompletionWorker creates a new completion worker
func NewCompletionWorker(eventService service.EventService, config *CompletionWorkerConfig) *CompletionWorker {
	if config == nil {
		config = DefaultCompletionWorkerConfig()
	}

	return &CompletionWorker{
		eventService: eventService,
		config:       config,
		log:          logger.Get(),
		stopCh:       make(chan struct{}),
	}
}

// Start starts the completion worker
func (w *CompletionWorker) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("completion worker already running")
	}
	w.running = true
	w.mu.Unlock()

	w.log.Info("starting completion worker", zap.Duration("interval", w.config.Interval))

	w.wg.Add(1)
	go w.run(ctx)

	return nil
}

// Stop stops the completion worker
func (w *CompletionWorker) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	w.wg.Wait()
	w.log.Info("completion worker stopped")
}

func (w *CompletionWorker) run(ctx context.Context) {
	defer w.wg.Done()

	ticker := time.NewTicker(w.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.Sweep(ctx)
		}
	}
}

// Sweep completes ended events once. Exposed for tests and manual runs.
func (w *CompletionWorker) Sweep(ctx context.Context) {
	completed, err := w.eventService.CompleteEndedEvents(ctx)
	if err != nil {
		w.log.Error("failed to complete ended events", zap.Error(err))
		return
	}
	if completed > 0 {
		w.log.Info("completed ended events", zap.Int("count", completed))
	}
}
