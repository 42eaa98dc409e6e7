package service

import (
	"context"
	"errors"

	"github.com/HexHunters/Tickr-sub000/internal/domain"
	"github.com/HexHunters/Tickr-sub000/internal/dto"
	"github.com/HexHunters/Tickr-sub000/internal/repository"
)

// Common errors
var (
	ErrEventNotFound    = errors.New("event not found")
	ErrUnauthorized     = errors.New("unauthorized to perform this action")
	ErrValidationFailed = errors.New("validation failed")
)

const completionBatchSize = 100

// eventService implements EventService. Every mutation loads the aggregate,
// applies one aggregate method, and persists the result together with the
// drained domain events as outbox rows.
type eventService struct {
	eventRepo repository.EventRepository
}

// NewEventService creates a new EventService
func NewEventService(eventRepo repository.EventRepository) EventService {
	return &eventService{eventRepo: eventRepo}
}

// CreateEvent creates a new draft event
func (s *eventService) CreateEvent(ctx context.Context, req *dto.CreateEventRequest) (*domain.Event, error) {
	if valid, msg := req.Validate(); !valid {
		return nil, validationError(msg)
	}

	category, err := domain.ParseEventCategory(req.Category)
	if err != nil {
		return nil, err
	}
	location, err := domain.NewLocation(req.Address, req.City, req.Country, req.Latitude, req.Longitude)
	if err != nil {
		return nil, err
	}
	dateRange, err := domain.NewDateRange(req.StartDate, req.EndDate, true)
	if err != nil {
		return nil, err
	}

	event, err := domain.NewEvent(domain.NewEventProps{
		OrganizerID: req.OrganizerID,
		Title:       req.Title,
		Description: req.Description,
		Category:    category,
		Location:    location,
		DateRange:   dateRange,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		return nil, err
	}

	if err := s.persist(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// GetEventByID retrieves an event by ID
func (s *eventService) GetEventByID(ctx context.Context, id string) (*domain.Event, error) {
	event, err := s.eventRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, ErrEventNotFound
	}
	return event, nil
}

// ListEvents lists events with filters and pagination
func (s *eventService) ListEvents(ctx context.Context, filter *dto.EventListFilter) ([]*domain.Event, int, error) {
	filter.SetDefaults()

	repoFilter := &repository.EventFilter{
		Status:      filter.Status,
		Category:    filter.Category,
		City:        filter.City,
		OrganizerID: filter.OrganizerID,
	}
	return s.eventRepo.List(ctx, repoFilter, filter.Limit, filter.Offset)
}

// UpdateEvent updates event details
func (s *eventService) UpdateEvent(ctx context.Context, id, organizerID string, req *dto.UpdateEventRequest) (*domain.Event, error) {
	if valid, msg := req.Validate(); !valid {
		return nil, validationError(msg)
	}

	event, err := s.loadOwned(ctx, id, organizerID)
	if err != nil {
		return nil, err
	}

	upd := domain.EventUpdate{
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	}
	if req.Category != nil {
		category, err := domain.ParseEventCategory(*req.Category)
		if err != nil {
			return nil, err
		}
		upd.Category = &category
	}
	if req.HasLocation() {
		address := ""
		if req.Address != nil {
			address = *req.Address
		}
		location, err := domain.NewLocation(address, *req.City, *req.Country, req.Latitude, req.Longitude)
		if err != nil {
			return nil, err
		}
		upd.Location = &location
	}
	if req.StartDate != nil {
		dateRange, err := domain.NewDateRange(*req.StartDate, *req.EndDate, true)
		if err != nil {
			return nil, err
		}
		upd.DateRange = &dateRange
	}

	if err := event.UpdateDetails(upd); err != nil {
		return nil, err
	}
	if err := s.persist(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// PublishEvent publishes a draft event
func (s *eventService) PublishEvent(ctx context.Context, id, organizerID string) (*domain.Event, error) {
	event, err := s.loadOwned(ctx, id, organizerID)
	if err != nil {
		return nil, err
	}
	if err := event.Publish(); err != nil {
		return nil, err
	}
	if err := s.persist(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// CancelEvent cancels an event
func (s *eventService) CancelEvent(ctx context.Context, id, organizerID, reason string) (*domain.Event, error) {
	event, err := s.loadOwned(ctx, id, organizerID)
	if err != nil {
		return nil, err
	}
	if err := event.Cancel(reason); err != nil {
		return nil, err
	}
	if err := s.persist(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// AddTicketType adds a ticket type to an event
func (s *eventService) AddTicketType(ctx context.Context, eventID, organizerID string, req *dto.AddTicketTypeRequest) (*domain.Event, error) {
	if valid, msg := req.Validate(); !valid {
		return nil, validationError(msg)
	}

	event, err := s.loadOwned(ctx, eventID, organizerID)
	if err != nil {
		return nil, err
	}

	currency, err := domain.ParseCurrency(req.Currency)
	if err != nil {
		return nil, err
	}
	price, err := domain.NewTicketPrice(req.PriceAmount, currency)
	if err != nil {
		return nil, err
	}
	period, err := domain.NewSalesPeriod(req.SalesStart, req.SalesEnd)
	if err != nil {
		return nil, err
	}
	ticketType, err := domain.NewTicketType(event.ID(), req.Name, req.Description, price, req.Quantity, period)
	if err != nil {
		return nil, err
	}

	if err := event.AddTicketType(ticketType); err != nil {
		return nil, err
	}
	if err := s.persist(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// UpdateTicketType updates a ticket type
func (s *eventService) UpdateTicketType(ctx context.Context, eventID, ticketTypeID, organizerID string, req *dto.UpdateTicketTypeRequest) (*domain.Event, error) {
	if valid, msg := req.Validate(); !valid {
		return nil, validationError(msg)
	}

	event, err := s.loadOwned(ctx, eventID, organizerID)
	if err != nil {
		return nil, err
	}

	upd := domain.TicketTypeUpdate{
		Name:        req.Name,
		Description: req.Description,
		Quantity:    req.Quantity,
		IsActive:    req.IsActive,
	}
	if req.PriceAmount != nil {
		currency, err := domain.ParseCurrency(*req.Currency)
		if err != nil {
			return nil, err
		}
		price, err := domain.NewTicketPrice(*req.PriceAmount, currency)
		if err != nil {
			return nil, err
		}
		upd.Price = &price
	}
	if req.SalesStart != nil {
		period, err := domain.NewSalesPeriod(*req.SalesStart, *req.SalesEnd)
		if err != nil {
			return nil, err
		}
		upd.SalesPeriod = &period
	}

	if err := event.UpdateTicketType(ticketTypeID, upd); err != nil {
		return nil, err
	}
	if err := s.persist(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// RemoveTicketType removes a ticket type from a draft event
func (s *eventService) RemoveTicketType(ctx context.Context, eventID, ticketTypeID, organizerID string) (*domain.Event, error) {
	event, err := s.loadOwned(ctx, eventID, organizerID)
	if err != nil {
		return nil, err
	}
	if err := event.RemoveTicketType(ticketTypeID); err != nil {
		return nil, err
	}
	if err := s.persist(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// RecordSale records sold tickets against a ticket type. Called by the
// booking flow, so it is not organizer-scoped.
func (s *eventService) RecordSale(ctx context.Context, eventID, ticketTypeID string, quantity int) (*domain.Event, error) {
	event, err := s.GetEventByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if err := event.IncrementSoldTickets(ticketTypeID, quantity); err != nil {
		return nil, err
	}
	if err := s.persist(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// ReleaseSale releases previously sold tickets
func (s *eventService) ReleaseSale(ctx context.Context, eventID, ticketTypeID string, quantity int) (*domain.Event, error) {
	event, err := s.GetEventByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if err := event.DecrementSoldTickets(ticketTypeID, quantity); err != nil {
		return nil, err
	}
	if err := s.persist(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// CompleteEndedEvents marks ended published events as completed
func (s *eventService) CompleteEndedEvents(ctx context.Context) (int, error) {
	events, err := s.eventRepo.ListEndedPublished(ctx, completionBatchSize)
	if err != nil {
		return 0, err
	}

	completed := 0
	for _, event := range events {
		if event.MarkAsCompleted() != domain.EventStatusCompleted {
			continue
		}
		if err := s.persist(ctx, event); err != nil {
			return completed, err
		}
		completed++
	}
	return completed, nil
}

// loadOwned loads the aggregate and verifies the caller owns it.
func (s *eventService) loadOwned(ctx context.Context, id, organizerID string) (*domain.Event, error) {
	event, err := s.GetEventByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if event.OrganizerID() != organizerID {
		return nil, ErrUnauthorized
	}
	return event, nil
}

// persist saves the aggregate and turns its drained domain events into
// outbox rows written in the same transaction.
func (s *eventService) persist(ctx context.Context, event *domain.Event) error {
	outbox, err := domain.EventOutboxMessages(event.PullEvents())
	if err != nil {
		return err
	}
	return s.eventRepo.Save(ctx, event, outbox)
}

func validationError(msg string) error {
	return errors.Join(ErrValidationFailed, errors.New(msg))
}
