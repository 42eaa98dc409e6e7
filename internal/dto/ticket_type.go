package dto

import (
	"time"

	"github.com/HexHunters/Tickr-sub000/internal/domain"
)

// AddTicketTypeRequest represents the request to add a ticket type to an event
type AddTicketTypeRequest struct {
	Name        string    `json:"name" binding:"required,min=1,max=100"`
	Description string    `json:"description" binding:"max=500"`
	PriceAmount float64   `json:"price_amount" binding:"required,gt=0"`
	Currency    string    `json:"currency" binding:"required"`
	Quantity    int       `json:"quantity" binding:"required,gt=0"`
	SalesStart  time.Time `json:"sales_start" binding:"required"`
	SalesEnd    time.Time `json:"sales_end" binding:"required"`
}

// Validate validates the AddTicketTypeRequest
func (r *AddTicketTypeRequest) Validate() (bool, string) {
	if r.Name == "" {
		return false, "Ticket type name is required"
	}
	if r.PriceAmount <= 0 {
		return false, "Price must be positive"
	}
	if r.Quantity <= 0 {
		return false, "Quantity must be positive"
	}
	if !r.SalesEnd.After(r.SalesStart) {
		return false, "Sales end must be after sales start"
	}
	return true, ""
}

// UpdateTicketTypeRequest represents the request to update a ticket type.
// Nil fields are left untouched.
type UpdateTicketTypeRequest struct {
	Name        *string    `json:"name" binding:"omitempty,min=1,max=100"`
	Description *string    `json:"description" binding:"omitempty,max=500"`
	PriceAmount *float64   `json:"price_amount" binding:"omitempty,gt=0"`
	Currency    *string    `json:"currency"`
	Quantity    *int       `json:"quantity" binding:"omitempty,gt=0"`
	SalesStart  *time.Time `json:"sales_start"`
	SalesEnd    *time.Time `json:"sales_end"`
	IsActive    *bool      `json:"is_active"`
}

// Validate validates the UpdateTicketTypeRequest
func (r *UpdateTicketTypeRequest) Validate() (bool, string) {
	if (r.PriceAmount == nil) != (r.Currency == nil) {
		return false, "Price amount and currency must be updated together"
	}
	if (r.SalesStart == nil) != (r.SalesEnd == nil) {
		return false, "Sales start and sales end must be updated together"
	}
	if r.SalesStart != nil && !r.SalesEnd.After(*r.SalesStart) {
		return false, "Sales end must be after sales start"
	}
	return true, ""
}

// RecordSaleRequest represents the request to record or release sold tickets
type RecordSaleRequest struct {
	Quantity int `json:"quantity" binding:"required,gt=0"`
}

// TicketTypeResponse represents the response for a ticket type
type TicketTypeResponse struct {
	ID                string  `json:"id"`
	EventID           string  `json:"event_id"`
	Name              string  `json:"name"`
	Description       string  `json:"description,omitempty"`
	PriceAmount       float64 `json:"price_amount"`
	Currency          string  `json:"currency"`
	Quantity          int     `json:"quantity"`
	SoldQuantity      int     `json:"sold_quantity"`
	AvailableQuantity int     `json:"available_quantity"`
	SalesStart        string  `json:"sales_start"`
	SalesEnd          string  `json:"sales_end"`
	IsActive          bool    `json:"is_active"`
	IsOnSale          bool    `json:"is_on_sale"`
	IsSoldOut         bool    `json:"is_sold_out"`
	CreatedAt         string  `json:"created_at"`
	UpdatedAt         string  `json:"updated_at"`
}

// ToTicketTypeResponse maps the entity to its API representation.
func ToTicketTypeResponse(t *domain.TicketType) *TicketTypeResponse {
	return &TicketTypeResponse{
		ID:                t.ID(),
		EventID:           t.EventID(),
		Name:              t.Name(),
		Description:       t.Description(),
		PriceAmount:       t.Price().Amount(),
		Currency:          string(t.Price().Currency()),
		Quantity:          t.Quantity(),
		SoldQuantity:      t.SoldQuantity(),
		AvailableQuantity: t.AvailableQuantity(),
		SalesStart:        t.SalesPeriod().Start().Format(time.RFC3339),
		SalesEnd:          t.SalesPeriod().End().Format(time.RFC3339),
		IsActive:          t.IsActive(),
		IsOnSale:          t.IsOnSale(),
		IsSoldOut:         t.IsSoldOut(),
		CreatedAt:         t.CreatedAt().Format(time.RFC3339),
		UpdatedAt:         t.UpdatedAt().Format(time.RFC3339),
	}
}
