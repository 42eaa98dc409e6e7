package dto

import (
	"time"

	"github.com/HexHunters/Tickr-sub000/internal/domain"
)

// CreateEventRequest represents the request to create a new event
type CreateEventRequest struct {
	Title       string    `json:"title" binding:"required,min=1,max=200"`
	Description string    `json:"description" binding:"max=5000"`
	Category    string    `json:"category" binding:"required"`
	Address     string    `json:"address" binding:"max=500"`
	City        string    `json:"city" binding:"required,max=100"`
	Country     string    `json:"country" binding:"required,max=100"`
	Latitude    *float64  `json:"latitude"`
	Longitude   *float64  `json:"longitude"`
	StartDate   time.Time `json:"start_date" binding:"required"`
	EndDate     time.Time `json:"end_date" binding:"required"`
	ImageURL    string    `json:"image_url"`
	OrganizerID string    `json:"-"` // Set from context
}

// Validate validates the CreateEventRequest
func (r *CreateEventRequest) Validate() (bool, string) {
	if r.Title == "" {
		return false, "Event title is required"
	}
	if !r.EndDate.After(r.StartDate) {
		return false, "End date must be after start date"
	}
	if (r.Latitude == nil) != (r.Longitude == nil) {
		return false, "Latitude and longitude must be provided together"
	}
	return true, ""
}

// UpdateEventRequest represents the request to update event details
type UpdateEventRequest struct {
	Title       *string    `json:"title" binding:"omitempty,min=1,max=200"`
	Description *string    `json:"description" binding:"omitempty,max=5000"`
	Category    *string    `json:"category"`
	Address     *string    `json:"address" binding:"omitempty,max=500"`
	City        *string    `json:"city" binding:"omitempty,max=100"`
	Country     *string    `json:"country" binding:"omitempty,max=100"`
	Latitude    *float64   `json:"latitude"`
	Longitude   *float64   `json:"longitude"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	ImageURL    *string    `json:"image_url"`
}

// Validate validates the UpdateEventRequest
func (r *UpdateEventRequest) Validate() (bool, string) {
	if (r.StartDate == nil) != (r.EndDate == nil) {
		return false, "Start date and end date must be updated together"
	}
	if r.StartDate != nil && !r.EndDate.After(*r.StartDate) {
		return false, "End date must be after start date"
	}
	hasLocation := r.City != nil || r.Country != nil || r.Address != nil
	if hasLocation && (r.City == nil || r.Country == nil) {
		return false, "City and country are required when updating the location"
	}
	return true, ""
}

// HasLocation reports whether the request carries a location change.
func (r *UpdateEventRequest) HasLocation() bool {
	return r.City != nil && r.Country != nil
}

// CancelEventRequest represents the request to cancel an event
type CancelEventRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// EventResponse represents the response for an event
type EventResponse struct {
	ID                 string                `json:"id"`
	OrganizerID        string                `json:"organizer_id"`
	Title              string                `json:"title"`
	Description        string                `json:"description"`
	Category           string                `json:"category"`
	Address            string                `json:"address"`
	City               string                `json:"city"`
	Country            string                `json:"country"`
	Latitude           *float64              `json:"latitude,omitempty"`
	Longitude          *float64              `json:"longitude,omitempty"`
	StartDate          string                `json:"start_date"`
	EndDate            string                `json:"end_date"`
	ImageURL           string                `json:"image_url,omitempty"`
	Status             string                `json:"status"`
	TotalCapacity      int                   `json:"total_capacity"`
	AvailableCapacity  int                   `json:"available_capacity"`
	SoldTickets        int                   `json:"sold_tickets"`
	SalesProgress      int                   `json:"sales_progress"`
	RevenueAmount      float64               `json:"revenue_amount"`
	RevenueCurrency    string                `json:"revenue_currency,omitempty"`
	TicketTypes        []*TicketTypeResponse `json:"ticket_types"`
	PublishedAt        *string               `json:"published_at,omitempty"`
	CancelledAt        *string               `json:"cancelled_at,omitempty"`
	CancellationReason string                `json:"cancellation_reason,omitempty"`
	CreatedAt          string                `json:"created_at"`
	UpdatedAt          string                `json:"updated_at"`
}

// EventListResponse represents a paginated list of events
type EventListResponse struct {
	Events []*EventResponse `json:"events"`
	Total  int              `json:"total"`
	Limit  int              `json:"limit"`
	Offset int              `json:"offset"`
}

// EventListFilter represents filters for listing events
type EventListFilter struct {
	Status      string `form:"status"`
	Category    string `form:"category"`
	City        string `form:"city"`
	OrganizerID string `form:"-"`
	Limit       int    `form:"limit"`
	Offset      int    `form:"offset"`
}

// SetDefaults sets default values for pagination
func (f *EventListFilter) SetDefaults() {
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 20
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
}

// ToEventResponse maps the aggregate to its API representation.
func ToEventResponse(e *domain.Event) *EventResponse {
	loc := e.Location()
	var latp, lonp *float64
	if lat, lon, ok := loc.Coordinates(); ok {
		latp, lonp = &lat, &lon
	}

	resp := &EventResponse{
		ID:                 e.ID(),
		OrganizerID:        e.OrganizerID(),
		Title:              e.Title(),
		Description:        e.Description(),
		Category:           string(e.Category()),
		Address:            loc.Address(),
		City:               loc.City(),
		Country:            loc.Country(),
		Latitude:           latp,
		Longitude:          lonp,
		StartDate:          e.DateRange().Start().Format(time.RFC3339),
		EndDate:            e.DateRange().End().Format(time.RFC3339),
		ImageURL:           e.ImageURL(),
		Status:             string(e.Status()),
		TotalCapacity:      e.TotalCapacity(),
		AvailableCapacity:  e.AvailableCapacity(),
		SoldTickets:        e.SoldTickets(),
		SalesProgress:      e.SalesProgress(),
		RevenueAmount:      e.RevenueAmount(),
		RevenueCurrency:    string(e.RevenueCurrency()),
		CancellationReason: e.CancellationReason(),
		CreatedAt:          e.CreatedAt().Format(time.RFC3339),
		UpdatedAt:          e.UpdatedAt().Format(time.RFC3339),
		TicketTypes:        make([]*TicketTypeResponse, 0, len(e.TicketTypes())),
	}
	if at := e.PublishedAt(); at != nil {
		s := at.Format(time.RFC3339)
		resp.PublishedAt = &s
	}
	if at := e.CancelledAt(); at != nil {
		s := at.Format(time.RFC3339)
		resp.CancelledAt = &s
	}
	for _, t := range e.TicketTypes() {
		resp.TicketTypes = append(resp.TicketTypes, ToTicketTypeResponse(t))
	}
	return resp
}
