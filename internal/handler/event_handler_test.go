package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/HexHunters/Tickr-sub000/internal/domain"
	"github.com/HexHunters/Tickr-sub000/internal/dto"
	"github.com/HexHunters/Tickr-sub000/internal/service"
	"github.com/HexHunters/Tickr-sub000/pkg/middleware"
)

// MockEventService is a mock implementation of EventService
type MockEventService struct {
	events   map[string]*domain.Event
	failWith error
}

func NewMockEventService() *MockEventService {
	return &MockEventService{
		events: make(map[string]*domain.Event),
	}
}

// AddEvent adds an event to the mock service
func (m *MockEventService) AddEvent(event *domain.Event) {
	m.events[event.ID()] = event
}

func (m *MockEventService) lookup(id string) (*domain.Event, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	event, ok := m.events[id]
	if !ok {
		return nil, service.ErrEventNotFound
	}
	return event, nil
}

func (m *MockEventService) CreateEvent(ctx context.Context, req *dto.CreateEventRequest) (*domain.Event, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	event := newTestEvent(req.OrganizerID, req.Title)
	m.events[event.ID()] = event
	return event, nil
}

func (m *MockEventService) GetEventByID(ctx context.Context, id string) (*domain.Event, error) {
	return m.lookup(id)
}

func (m *MockEventService) ListEvents(ctx context.Context, filter *dto.EventListFilter) ([]*domain.Event, int, error) {
	filter.SetDefaults()
	var events []*domain.Event
	for _, e := range m.events {
		if filter.OrganizerID != "" && e.OrganizerID() != filter.OrganizerID {
			continue
		}
		events = append(events, e)
	}
	return events, len(events), nil
}

func (m *MockEventService) UpdateEvent(ctx context.Context, id, organizerID string, req *dto.UpdateEventRequest) (*domain.Event, error) {
	return m.lookup(id)
}

func (m *MockEventService) PublishEvent(ctx context.Context, id, organizerID string) (*domain.Event, error) {
	return m.lookup(id)
}

func (m *MockEventService) CancelEvent(ctx context.Context, id, organizerID, reason string) (*domain.Event, error) {
	return m.lookup(id)
}

func (m *MockEventService) AddTicketType(ctx context.Context, eventID, organizerID string, req *dto.AddTicketTypeRequest) (*domain.Event, error) {
	return m.lookup(eventID)
}

func (m *MockEventService) UpdateTicketType(ctx context.Context, eventID, ticketTypeID, organizerID string, req *dto.UpdateTicketTypeRequest) (*domain.Event, error) {
	return m.lookup(eventID)
}

func (m *MockEventService) RemoveTicketType(ctx context.Context, eventID, ticketTypeID, organizerID string) (*domain.Event, error) {
	return m.lookup(eventID)
}

func (m *MockEventService) RecordSale(ctx context.Context, eventID, ticketTypeID string, quantity int) (*domain.Event, error) {
	return m.lookup(eventID)
}

func (m *MockEventService) ReleaseSale(ctx context.Context, eventID, ticketTypeID string, quantity int) (*domain.Event, error) {
	return m.lookup(eventID)
}

func (m *MockEventService) CompleteEndedEvents(ctx context.Context) (int, error) {
	if m.failWith != nil {
		return 0, m.failWith
	}
	return 0, nil
}

// Ensure MockEventService implements EventService
var _ service.EventService = (*MockEventService)(nil)

// newTestEvent builds a real draft aggregate for handler tests
func newTestEvent(organizerID, title string) *domain.Event {
	location, _ := domain.NewLocation("12 Avenue Habib Bourguiba", "Tunis", "Tunisia", nil, nil)
	dateRange, _ := domain.NewDateRange(time.Now().Add(48*time.Hour), time.Now().Add(52*time.Hour), true)
	event, _ := domain.NewEvent(domain.NewEventProps{
		OrganizerID: organizerID,
		Title:       title,
		Category:    domain.CategoryConcert,
		Location:    location,
		DateRange:   dateRange,
	})
	event.PullEvents()
	return event
}

func setupRouter(h *EventHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	// Simulate JWT middleware setting the user identity
	authed := func(c *gin.Context) {
		c.Set(middleware.ContextKeyUserID, "org-1")
		c.Set(middleware.ContextKeyRole, "organizer")
		c.Next()
	}

	events := router.Group("/events")
	{
		events.GET("", h.List)
		events.GET("/:id", h.GetByID)
		events.GET("/my", authed, h.ListMyEvents)
		events.POST("", authed, h.Create)
		events.PUT("/:id", authed, h.Update)
		events.POST("/:id/publish", authed, h.Publish)
		events.POST("/:id/cancel", authed, h.Cancel)
		events.POST("/:id/ticket-types", authed, h.AddTicketType)
		events.PUT("/:id/ticket-types/:ticketTypeId", authed, h.UpdateTicketType)
		events.DELETE("/:id/ticket-types/:ticketTypeId", authed, h.RemoveTicketType)
		events.POST("/:id/ticket-types/:ticketTypeId/sales", h.RecordSale)
		events.POST("/:id/ticket-types/:ticketTypeId/releases", h.ReleaseSale)
	}

	return router
}

func TestEventHandler_List(t *testing.T) {
	mockSvc := NewMockEventService()
	handler := NewEventHandler(mockSvc)
	router := setupRouter(handler)

	mockSvc.AddEvent(newTestEvent("org-1", "Jazz Night"))

	req, _ := http.NewRequest(http.MethodGet, "/events", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, resp.Code)
	}

	var body struct {
		Success bool                 `json:"success"`
		Data    []*dto.EventResponse `json:"data"`
		Meta    struct {
			Total int `json:"total"`
		} `json:"meta"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !body.Success {
		t.Error("expected success=true")
	}
	if len(body.Data) != 1 || body.Meta.Total != 1 {
		t.Errorf("expected 1 event with total=1, got %d events total=%d", len(body.Data), body.Meta.Total)
	}
	if body.Data[0].Title != "Jazz Night" {
		t.Errorf("expected title 'Jazz Night', got %q", body.Data[0].Title)
	}
}

func TestEventHandler_GetByID(t *testing.T) {
	mockSvc := NewMockEventService()
	handler := NewEventHandler(mockSvc)
	router := setupRouter(handler)

	event := newTestEvent("org-1", "Jazz Night")
	mockSvc.AddEvent(event)

	tests := []struct {
		name       string
		id         string
		wantStatus int
	}{
		{
			name:       "existing event",
			id:         event.ID(),
			wantStatus: http.StatusOK,
		},
		{
			name:       "non-existent event",
			id:         "non-existent",
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest(http.MethodGet, "/events/"+tt.id, nil)
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, req)

			if resp.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, resp.Code)
			}
		})
	}
}

func TestEventHandler_Create(t *testing.T) {
	mockSvc := NewMockEventService()
	handler := NewEventHandler(mockSvc)
	router := setupRouter(handler)

	tests := []struct {
		name       string
		body       map[string]interface{}
		wantStatus int
	}{
		{
			name: "valid request",
			body: map[string]interface{}{
				"title":      "New Event",
				"category":   "concert",
				"city":       "Tunis",
				"country":    "Tunisia",
				"start_date": time.Now().Add(48 * time.Hour).Format(time.RFC3339),
				"end_date":   time.Now().Add(52 * time.Hour).Format(time.RFC3339),
			},
			wantStatus: http.StatusCreated,
		},
		{
			name: "missing title",
			body: map[string]interface{}{
				"category":   "concert",
				"city":       "Tunis",
				"country":    "Tunisia",
				"start_date": time.Now().Add(48 * time.Hour).Format(time.RFC3339),
				"end_date":   time.Now().Add(52 * time.Hour).Format(time.RFC3339),
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "missing city",
			body: map[string]interface{}{
				"title":      "New Event",
				"category":   "concert",
				"country":    "Tunisia",
				"start_date": time.Now().Add(48 * time.Hour).Format(time.RFC3339),
				"end_date":   time.Now().Add(52 * time.Hour).Format(time.RFC3339),
			},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, _ := json.Marshal(tt.body)
			req, _ := http.NewRequest(http.MethodPost, "/events", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, req)

			if resp.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d: %s", tt.wantStatus, resp.Code, resp.Body.String())
			}
		})
	}
}

func TestEventHandler_CreateWithoutAuth(t *testing.T) {
	mockSvc := NewMockEventService()
	handler := NewEventHandler(mockSvc)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/events", handler.Create)

	body, _ := json.Marshal(map[string]interface{}{
		"title":      "New Event",
		"category":   "concert",
		"city":       "Tunis",
		"country":    "Tunisia",
		"start_date": time.Now().Add(48 * time.Hour).Format(time.RFC3339),
		"end_date":   time.Now().Add(52 * time.Hour).Format(time.RFC3339),
	})
	req, _ := http.NewRequest(http.MethodPost, "/events", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, resp.Code)
	}
}

func TestEventHandler_Publish(t *testing.T) {
	mockSvc := NewMockEventService()
	handler := NewEventHandler(mockSvc)
	router := setupRouter(handler)

	event := newTestEvent("org-1", "Jazz Night")
	mockSvc.AddEvent(event)

	req, _ := http.NewRequest(http.MethodPost, "/events/"+event.ID()+"/publish", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d: %s", http.StatusOK, resp.Code, resp.Body.String())
	}
}

func TestEventHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		failWith   error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "not found",
			failWith:   service.ErrEventNotFound,
			wantStatus: http.StatusNotFound,
			wantCode:   "NOT_FOUND",
		},
		{
			name:       "not owner",
			failWith:   service.ErrUnauthorized,
			wantStatus: http.StatusForbidden,
			wantCode:   "FORBIDDEN",
		},
		{
			name:       "wrong status",
			failWith:   domain.ErrEventWrongStatus,
			wantStatus: http.StatusConflict,
			wantCode:   "EVENT_WRONG_STATUS",
		},
		{
			name:       "already started",
			failWith:   domain.ErrEventAlreadyStarted,
			wantStatus: http.StatusConflict,
			wantCode:   "EVENT_ALREADY_STARTED",
		},
		{
			name:       "missing ticket types",
			failWith:   domain.ErrEventMissingTickets,
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "EVENT_MISSING_TICKET_TYPES",
		},
		{
			name:       "ticket type not found",
			failWith:   domain.ErrTicketTypeNotFound,
			wantStatus: http.StatusNotFound,
			wantCode:   "NOT_FOUND",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := NewMockEventService()
			mockSvc.failWith = tt.failWith
			handler := NewEventHandler(mockSvc)
			router := setupRouter(handler)

			req, _ := http.NewRequest(http.MethodPost, "/events/event-1/publish", nil)
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, req)

			if resp.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d: %s", tt.wantStatus, resp.Code, resp.Body.String())
			}

			var body struct {
				Error struct {
					Code string `json:"code"`
				} `json:"error"`
			}
			if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if body.Error.Code != tt.wantCode {
				t.Errorf("expected error code %q, got %q", tt.wantCode, body.Error.Code)
			}
		})
	}
}

func TestEventHandler_Cancel(t *testing.T) {
	mockSvc := NewMockEventService()
	handler := NewEventHandler(mockSvc)
	router := setupRouter(handler)

	event := newTestEvent("org-1", "Jazz Night")
	mockSvc.AddEvent(event)

	tests := []struct {
		name       string
		body       []byte
		wantStatus int
	}{
		{
			name:       "with reason",
			body:       []byte(`{"reason": "venue unavailable"}`),
			wantStatus: http.StatusOK,
		},
		{
			name:       "without body",
			body:       nil,
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest(http.MethodPost, "/events/"+event.ID()+"/cancel", bytes.NewBuffer(tt.body))
			req.Header.Set("Content-Type", "application/json")
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, req)

			if resp.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d: %s", tt.wantStatus, resp.Code, resp.Body.String())
			}
		})
	}
}

func TestEventHandler_AddTicketType(t *testing.T) {
	mockSvc := NewMockEventService()
	handler := NewEventHandler(mockSvc)
	router := setupRouter(handler)

	event := newTestEvent("org-1", "Jazz Night")
	mockSvc.AddEvent(event)

	tests := []struct {
		name       string
		body       map[string]interface{}
		wantStatus int
	}{
		{
			name: "valid request",
			body: map[string]interface{}{
				"name":         "VIP",
				"price_amount": 120.0,
				"currency":     "TND",
				"quantity":     50,
				"sales_start":  time.Now().Format(time.RFC3339),
				"sales_end":    time.Now().Add(24 * time.Hour).Format(time.RFC3339),
			},
			wantStatus: http.StatusCreated,
		},
		{
			name: "missing price",
			body: map[string]interface{}{
				"name":        "VIP",
				"currency":    "TND",
				"quantity":    50,
				"sales_start": time.Now().Format(time.RFC3339),
				"sales_end":   time.Now().Add(24 * time.Hour).Format(time.RFC3339),
			},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, _ := json.Marshal(tt.body)
			req, _ := http.NewRequest(http.MethodPost, "/events/"+event.ID()+"/ticket-types", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, req)

			if resp.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d: %s", tt.wantStatus, resp.Code, resp.Body.String())
			}
		})
	}
}

func TestEventHandler_RecordSale(t *testing.T) {
	mockSvc := NewMockEventService()
	handler := NewEventHandler(mockSvc)
	router := setupRouter(handler)

	event := newTestEvent("org-1", "Jazz Night")
	mockSvc.AddEvent(event)

	tests := []struct {
		name       string
		body       []byte
		wantStatus int
	}{
		{
			name:       "valid sale",
			body:       []byte(`{"quantity": 2}`),
			wantStatus: http.StatusOK,
		},
		{
			name:       "zero quantity",
			body:       []byte(`{"quantity": 0}`),
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest(http.MethodPost, "/events/"+event.ID()+"/ticket-types/tt-1/sales", bytes.NewBuffer(tt.body))
			req.Header.Set("Content-Type", "application/json")
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, req)

			if resp.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d: %s", tt.wantStatus, resp.Code, resp.Body.String())
			}
		})
	}
}

func TestEventHandler_ListMyEvents(t *testing.T) {
	mockSvc := NewMockEventService()
	handler := NewEventHandler(mockSvc)
	router := setupRouter(handler)

	mockSvc.AddEvent(newTestEvent("org-1", "Mine"))
	mockSvc.AddEvent(newTestEvent("org-2", "Someone else's"))

	req, _ := http.NewRequest(http.MethodGet, "/events/my", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.Code)
	}

	var body struct {
		Data []*dto.EventResponse `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(body.Data) != 1 {
		t.Fatalf("expected 1 event, got %d", len(body.Data))
	}
	if body.Data[0].Title != "Mine" {
		t.Errorf("expected title 'Mine', got %q", body.Data[0].Title)
	}
}
