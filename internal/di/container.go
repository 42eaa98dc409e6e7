package di

import (
	"github.com/HexHunters/Tickr-sub000/internal/handler"
	"github.com/HexHunters/Tickr-sub000/internal/repository"
	"github.com/HexHunters/Tickr-sub000/internal/service"
	"github.com/HexHunters/Tickr-sub000/internal/worker"
	"github.com/HexHunters/Tickr-sub000/pkg/config"
	"github.com/HexHunters/Tickr-sub000/pkg/database"
	"github.com/HexHunters/Tickr-sub000/pkg/kafka"
	"github.com/HexHunters/Tickr-sub000/pkg/redis"
	"github.com/HexHunters/Tickr-sub000/pkg/retry"
)

// Container holds all dependencies for the event service
type Container struct {
	// Infrastructure
	DB       *database.PostgresDB
	Redis    *redis.Client
	Producer *kafka.Producer

	// Repositories
	EventRepo  repository.EventRepository
	OutboxRepo repository.OutboxRepository

	// Services
	EventService service.EventService

	// Handlers
	HealthHandler *handler.HealthHandler
	EventHandler  *handler.EventHandler

	// Workers
	OutboxWorker     *worker.OutboxWorker
	CompletionWorker *worker.CompletionWorker
}

// ContainerConfig contains configuration for building the container
type ContainerConfig struct {
	Config   *config.Config
	DB       *database.PostgresDB
	Redis    *redis.Client
	Producer *kafka.Producer
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *ContainerConfig) *Container {
	c := &Container{
		DB:       cfg.DB,
		Redis:    cfg.Redis,
		Producer: cfg.Producer,
	}

	// Initialize repositories
	pgEventRepo := repository.NewPostgresEventRepository(c.DB.Pool())

	// Wrap with cache if Redis is available
	if c.Redis != nil {
		c.EventRepo = repository.NewCachedEventRepository(pgEventRepo, c.Redis)
	} else {
		c.EventRepo = pgEventRepo
	}
	c.OutboxRepo = repository.NewPostgresOutboxRepository(c.DB.Pool())

	// Initialize services
	c.EventService = service.NewEventService(c.EventRepo)

	// Initialize handlers
	c.HealthHandler = handler.NewHealthHandler(c.DB, c.Redis, c.Producer)
	c.EventHandler = handler.NewEventHandler(c.EventService)

	// Initialize workers
	dlq := retry.NewKafkaDLQPublisher(c.Producer, &retry.DLQConfig{
		TopicSuffix: ".dlq",
		Source:      cfg.Config.App.Name,
	})
	c.OutboxWorker = worker.NewOutboxWorker(c.OutboxRepo, c.Producer, dlq, &worker.OutboxWorkerConfig{
		PollInterval:         cfg.Config.Worker.OutboxPollInterval,
		BatchSize:            cfg.Config.Worker.OutboxBatchSize,
		RetryInterval:        cfg.Config.Worker.OutboxPollInterval * 5,
		CleanupInterval:      cfg.Config.Worker.OutboxCleanupInterval,
		CleanupRetentionDays: cfg.Config.Worker.OutboxRetentionDays,
	})
	c.CompletionWorker = worker.NewCompletionWorker(c.EventService, &worker.CompletionWorkerConfig{
		Interval: cfg.Config.Worker.CompletionInterval,
	})

	return c
}
