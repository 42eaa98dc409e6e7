package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/HexHunters/Tickr-sub000/internal/domain"
)

// EventRepository defines the interface for event aggregate data access.
// FindByID returns (nil, nil) when no event exists with the given id.
type EventRepository interface {
	// Save persists the aggregate and its ticket types, writing the given
	// outbox messages in the same transaction.
	Save(ctx context.Context, event *domain.Event, outbox []*domain.OutboxMessage) error
	// FindByID retrieves an event with its ticket types by ID
	FindByID(ctx context.Context, id string) (*domain.Event, error)
	// List lists events with filters and pagination
	List(ctx context.Context, filter *EventFilter, limit, offset int) ([]*domain.Event, int, error)
	// ListEndedPublished lists published events whose end date has passed
	ListEndedPublished(ctx context.Context, limit int) ([]*domain.Event, error)
}

// EventFilter contains filter options for listing events
type EventFilter struct {
	Status      string
	Category    string
	City        string
	OrganizerID string
}

// OutboxRepository defines the interface for outbox message data access
type OutboxRepository interface {
	// Create creates a new outbox message
	Create(ctx context.Context, msg *domain.OutboxMessage) error
	// CreateTx creates a new outbox message within a transaction
	CreateTx(ctx context.Context, tx pgx.Tx, msg *domain.OutboxMessage) error
	// GetPendingMessages gets pending messages to be published
	GetPendingMessages(ctx context.Context, limit int) ([]*domain.OutboxMessage, error)
	// GetFailedMessages gets failed messages that can be retried
	GetFailedMessages(ctx context.Context, limit int) ([]*domain.OutboxMessage, error)
	// MarkAsPublished marks a message as successfully published
	MarkAsPublished(ctx context.Context, id string) error
	// MarkAsFailed marks a message as failed
	MarkAsFailed(ctx context.Context, id string, errMsg string) error
	// DeletePublished deletes old published messages for cleanup
	DeletePublished(ctx context.Context, olderThanDays int) (int64, error)
}
