package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/HexHunters/Tickr-sub000/internal/domain"
	"github.com/HexHunters/Tickr-sub000/internal/dto"
	"github.com/HexHunters/Tickr-sub000/internal/repository"
)

// MockEventRepository is an in-memory implementation of EventRepository.
// It stores persisted aggregate state and keeps every outbox message it was
// asked to write, so tests can assert on the transactional cascade.
type MockEventRepository struct {
	states  map[string]domain.EventState
	outbox  []*domain.OutboxMessage
	saveErr error
}

func NewMockEventRepository() *MockEventRepository {
	return &MockEventRepository{states: make(map[string]domain.EventState)}
}

func (m *MockEventRepository) Save(ctx context.Context, event *domain.Event, outbox []*domain.OutboxMessage) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.states[event.ID()] = event.State()
	m.outbox = append(m.outbox, outbox...)
	return nil
}

func (m *MockEventRepository) FindByID(ctx context.Context, id string) (*domain.Event, error) {
	state, ok := m.states[id]
	if !ok {
		return nil, nil
	}
	return domain.RehydrateEvent(state), nil
}

func (m *MockEventRepository) List(ctx context.Context, filter *repository.EventFilter, limit, offset int) ([]*domain.Event, int, error) {
	var events []*domain.Event
	for _, s := range m.states {
		if filter != nil && filter.Status != "" && string(s.Status) != filter.Status {
			continue
		}
		if filter != nil && filter.OrganizerID != "" && s.OrganizerID != filter.OrganizerID {
			continue
		}
		events = append(events, domain.RehydrateEvent(s))
	}
	return events, len(events), nil
}

func (m *MockEventRepository) ListEndedPublished(ctx context.Context, limit int) ([]*domain.Event, error) {
	var events []*domain.Event
	for _, s := range m.states {
		if s.Status == domain.EventStatusPublished && s.EndDate.Before(time.Now().UTC()) {
			events = append(events, domain.RehydrateEvent(s))
		}
	}
	return events, nil
}

func (m *MockEventRepository) outboxTypes() []string {
	types := make([]string, 0, len(m.outbox))
	for _, msg := range m.outbox {
		types = append(types, msg.EventType)
	}
	return types
}

func newCreateRequest() *dto.CreateEventRequest {
	now := time.Now().UTC()
	return &dto.CreateEventRequest{
		Title:       "Jazz Night",
		Description: "An evening of live jazz",
		Category:    "concert",
		City:        "Tunis",
		Country:     "Tunisia",
		StartDate:   now.Add(48 * time.Hour),
		EndDate:     now.Add(52 * time.Hour),
		OrganizerID: "org-1",
	}
}

func addTicketTypeRequest(amount float64, currency string, qty int, eventStart time.Time) *dto.AddTicketTypeRequest {
	return &dto.AddTicketTypeRequest{
		Name:        "Standard",
		PriceAmount: amount,
		Currency:    currency,
		Quantity:    qty,
		SalesStart:  time.Now().UTC().Add(-time.Hour),
		SalesEnd:    eventStart.Add(-time.Hour),
	}
}

func TestEventService_CreateEvent(t *testing.T) {
	ctx := context.Background()
	repo := NewMockEventRepository()
	svc := NewEventService(repo)

	event, err := svc.CreateEvent(ctx, newCreateRequest())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if event.Status() != domain.EventStatusDraft {
		t.Errorf("Expected draft status, got %s", event.Status())
	}
	if _, ok := repo.states[event.ID()]; !ok {
		t.Error("Event should be persisted")
	}
	if len(repo.outbox) != 1 || repo.outbox[0].EventType != "event.created" {
		t.Errorf("Expected one event.created outbox row, got %v", repo.outboxTypes())
	}
	if repo.outbox[0].PartitionKey != event.ID() {
		t.Error("Outbox messages should partition by aggregate id")
	}

	got, err := svc.GetEventByID(ctx, event.ID())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got.Title() != "Jazz Night" {
		t.Errorf("Unexpected title: %s", got.Title())
	}

	if _, err := svc.GetEventByID(ctx, "missing"); !errors.Is(err, ErrEventNotFound) {
		t.Errorf("Expected not found error, got %v", err)
	}
}

func TestEventService_CreateEventValidation(t *testing.T) {
	ctx := context.Background()
	svc := NewEventService(NewMockEventRepository())

	req := newCreateRequest()
	req.EndDate = req.StartDate
	if _, err := svc.CreateEvent(ctx, req); !errors.Is(err, ErrValidationFailed) {
		t.Errorf("Expected validation error, got %v", err)
	}

	req = newCreateRequest()
	req.Category = "rave"
	if _, err := svc.CreateEvent(ctx, req); !errors.Is(err, domain.ErrInvalidCategory) {
		t.Errorf("Expected category error, got %v", err)
	}

	req = newCreateRequest()
	req.StartDate = time.Now().UTC().Add(10 * time.Minute)
	req.EndDate = req.StartDate.Add(time.Hour)
	if _, err := svc.CreateEvent(ctx, req); !errors.Is(err, domain.ErrDateRangeInPast) {
		t.Errorf("Expected date range error, got %v", err)
	}
}

func TestEventService_PublishFlow(t *testing.T) {
	ctx := context.Background()
	repo := NewMockEventRepository()
	svc := NewEventService(repo)

	event, err := svc.CreateEvent(ctx, newCreateRequest())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// Publishing without ticket types fails.
	if _, err := svc.PublishEvent(ctx, event.ID(), "org-1"); !errors.Is(err, domain.ErrEventMissingTickets) {
		t.Errorf("Expected missing tickets error, got %v", err)
	}

	if _, err := svc.AddTicketType(ctx, event.ID(), "org-1", addTicketTypeRequest(50, "TND", 100, event.DateRange().Start())); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// Only the owner may publish.
	if _, err := svc.PublishEvent(ctx, event.ID(), "org-2"); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("Expected unauthorized error, got %v", err)
	}

	published, err := svc.PublishEvent(ctx, event.ID(), "org-1")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if published.Status() != domain.EventStatusPublished {
		t.Errorf("Expected published status, got %s", published.Status())
	}

	types := repo.outboxTypes()
	want := []string{"event.created", "event.ticket_type_added", "event.published"}
	if len(types) != len(want) {
		t.Fatalf("Expected outbox %v, got %v", want, types)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Errorf("Expected outbox %v, got %v", want, types)
			break
		}
	}
}

func TestEventService_SalesFlow(t *testing.T) {
	ctx := context.Background()
	repo := NewMockEventRepository()
	svc := NewEventService(repo)

	event, err := svc.CreateEvent(ctx, newCreateRequest())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	withType, err := svc.AddTicketType(ctx, event.ID(), "org-1", addTicketTypeRequest(50, "TND", 10, event.DateRange().Start()))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	ticketTypeID := withType.TicketTypes()[0].ID()

	sold, err := svc.RecordSale(ctx, event.ID(), ticketTypeID, 10)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if sold.SoldTickets() != 10 || sold.RevenueAmount() != 500 {
		t.Errorf("Expected 10 sold and revenue 500, got %d and %v", sold.SoldTickets(), sold.RevenueAmount())
	}

	types := repo.outboxTypes()
	if types[len(types)-1] != "event.ticket_type_sold_out" {
		t.Errorf("Expected a sold-out outbox row, got %v", types)
	}

	if _, err := svc.RecordSale(ctx, event.ID(), ticketTypeID, 1); !errors.Is(err, domain.ErrInvalidSoldQuantity) {
		t.Errorf("Expected sold quantity error, got %v", err)
	}

	released, err := svc.ReleaseSale(ctx, event.ID(), ticketTypeID, 4)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if released.SoldTickets() != 6 || released.RevenueAmount() != 300 {
		t.Errorf("Expected 6 sold and revenue 300, got %d and %v", released.SoldTickets(), released.RevenueAmount())
	}
}

func TestEventService_UpdateTicketType(t *testing.T) {
	ctx := context.Background()
	repo := NewMockEventRepository()
	svc := NewEventService(repo)

	event, err := svc.CreateEvent(ctx, newCreateRequest())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	withType, err := svc.AddTicketType(ctx, event.ID(), "org-1", addTicketTypeRequest(50, "TND", 10, event.DateRange().Start()))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	ticketTypeID := withType.TicketTypes()[0].ID()

	if _, err := svc.RecordSale(ctx, event.ID(), ticketTypeID, 5); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	qty := 3
	_, err = svc.UpdateTicketType(ctx, event.ID(), ticketTypeID, "org-1", &dto.UpdateTicketTypeRequest{Quantity: &qty})
	if !errors.Is(err, domain.ErrCannotReduceQuantity) {
		t.Errorf("Expected reduce quantity error, got %v", err)
	}

	// Persisted state must be unchanged after the failed update.
	got, err := svc.GetEventByID(ctx, event.ID())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	tt, ok := got.TicketType(ticketTypeID)
	if !ok || tt.Quantity() != 10 {
		t.Error("Failed update should leave persisted quantity at 10")
	}

	grow := 25
	updated, err := svc.UpdateTicketType(ctx, event.ID(), ticketTypeID, "org-1", &dto.UpdateTicketTypeRequest{Quantity: &grow})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if updated.TotalCapacity() != 25 {
		t.Errorf("Expected capacity 25, got %d", updated.TotalCapacity())
	}

	off := false
	toggled, err := svc.UpdateTicketType(ctx, event.ID(), ticketTypeID, "org-1", &dto.UpdateTicketTypeRequest{IsActive: &off})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	tt, ok = toggled.TicketType(ticketTypeID)
	if !ok || tt.IsActive() {
		t.Error("Ticket type should be off sale after the update")
	}
}

func TestEventService_CancelEvent(t *testing.T) {
	ctx := context.Background()
	repo := NewMockEventRepository()
	svc := NewEventService(repo)

	event, err := svc.CreateEvent(ctx, newCreateRequest())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if _, err := svc.CancelEvent(ctx, event.ID(), "org-2", "not mine"); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("Expected unauthorized error, got %v", err)
	}

	cancelled, err := svc.CancelEvent(ctx, event.ID(), "org-1", "venue flooded")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cancelled.Status() != domain.EventStatusCancelled {
		t.Errorf("Expected cancelled status, got %s", cancelled.Status())
	}

	if _, err := svc.CancelEvent(ctx, event.ID(), "org-1", "again"); !errors.Is(err, domain.ErrEventAlreadyCancelled) {
		t.Errorf("Expected already cancelled error, got %v", err)
	}
}

func TestEventService_CompleteEndedEvents(t *testing.T) {
	ctx := context.Background()
	repo := NewMockEventRepository()
	svc := NewEventService(repo)

	// Seed a published event whose dates have passed.
	now := time.Now().UTC()
	dr, _ := domain.NewDateRange(now.Add(48*time.Hour), now.Add(52*time.Hour), true)
	loc, _ := domain.NewLocation("", "Tunis", "Tunisia", nil, nil)
	event, err := domain.NewEvent(domain.NewEventProps{
		OrganizerID: "org-1", Title: "Jazz Night",
		Category: domain.CategoryConcert, Location: loc, DateRange: dr,
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	price, _ := domain.NewTicketPrice(50, domain.CurrencyTND)
	period, _ := domain.NewSalesPeriod(now, dr.Start().Add(-time.Hour))
	tkt, _ := domain.NewTicketType(event.ID(), "Standard", "", price, 10, period)
	if err := event.AddTicketType(tkt); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if err := event.Publish(); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	state := event.State()
	state.StartDate = now.Add(-4 * time.Hour)
	state.EndDate = now.Add(-2 * time.Hour)
	repo.states[state.ID] = state

	completed, err := svc.CompleteEndedEvents(ctx)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if completed != 1 {
		t.Errorf("Expected 1 completed event, got %d", completed)
	}
	got, err := svc.GetEventByID(ctx, state.ID)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got.Status() != domain.EventStatusCompleted {
		t.Errorf("Expected completed status, got %s", got.Status())
	}

	// Second run finds nothing to do.
	completed, err = svc.CompleteEndedEvents(ctx)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if completed != 0 {
		t.Errorf("Expected 0 completed events, got %d", completed)
	}
}
