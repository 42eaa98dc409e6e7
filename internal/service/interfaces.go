package service

import (
	"context"

	"github.com/HexHunters/Tickr-sub000/internal/domain"
	"github.com/HexHunters/Tickr-sub000/internal/dto"
)

// EventService defines the interface for event business logic. Organizer-
// scoped operations take the acting organizer's id and reject callers that
// do not own the event.
type EventService interface {
	// CreateEvent creates a new draft event
	CreateEvent(ctx context.Context, req *dto.CreateEventRequest) (*domain.Event, error)
	// GetEventByID retrieves an event by ID
	GetEventByID(ctx context.Context, id string) (*domain.Event, error)
	// ListEvents lists events with filters and pagination
	ListEvents(ctx context.Context, filter *dto.EventListFilter) ([]*domain.Event, int, error)
	// UpdateEvent updates event details
	UpdateEvent(ctx context.Context, id, organizerID string, req *dto.UpdateEventRequest) (*domain.Event, error)
	// PublishEvent publishes a draft event
	PublishEvent(ctx context.Context, id, organizerID string) (*domain.Event, error)
	// CancelEvent cancels an event
	CancelEvent(ctx context.Context, id, organizerID, reason string) (*domain.Event, error)
	// AddTicketType adds a ticket type to an event
	AddTicketType(ctx context.Context, eventID, organizerID string, req *dto.AddTicketTypeRequest) (*domain.Event, error)
	// UpdateTicketType updates a ticket type
	UpdateTicketType(ctx context.Context, eventID, ticketTypeID, organizerID string, req *dto.UpdateTicketTypeRequest) (*domain.Event, error)
	// RemoveTicketType removes a ticket type from a draft event
	RemoveTicketType(ctx context.Context, eventID, ticketTypeID, organizerID string) (*domain.Event, error)
	// RecordSale records sold tickets against a ticket type
	RecordSale(ctx context.Context, eventID, ticketTypeID string, quantity int) (*domain.Event, error)
	// ReleaseSale releases previously sold tickets
	ReleaseSale(ctx context.Context, eventID, ticketTypeID string, quantity int) (*domain.Event, error)
	// CompleteEndedEvents marks ended published events as completed and
	// returns how many were completed
	CompleteEndedEvents(ctx context.Context) (int, error)
}
