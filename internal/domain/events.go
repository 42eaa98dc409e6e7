package domain

import "time"

// DomainEvent is an immutable fact emitted by an aggregate mutation. Events
// are buffered on the aggregate and drained by the caller after a successful
// persist, so state changes and event visibility are only observable together.
type DomainEvent interface {
	EventType() string
	AggregateID() string
	OccurredAt() time.Time
}

// Change is a before/after pair for one field in an update diff.
type Change struct {
	From interface{} `json:"from"`
	To   interface{} `json:"to"`
}

// EventCreated is emitted when a draft event is created.
type EventCreated struct {
	EventID     string        `json:"event_id"`
	OrganizerID string        `json:"organizer_id"`
	Title       string        `json:"title"`
	Category    EventCategory `json:"category"`
	At          time.Time     `json:"occurred_at"`
}

func (e EventCreated) EventType() string { return "event.created" }
func (e EventCreated) AggregateID() string { return e.EventID }
func (e EventCreated) OccurredAt() time.Time { return e.At }

// EventPublished is emitted when a draft event goes on sale.
type EventPublished struct {
	EventID         string    `json:"event_id"`
	OrganizerID     string    `json:"organizer_id"`
	Title           string    `json:"title"`
	PublishedAt     time.Time `json:"published_at"`
	TicketTypeCount int       `json:"ticket_type_count"`
	TotalCapacity   int       `json:"total_capacity"`
}

func (e EventPublished) EventType() string { return "event.published" }
func (e EventPublished) AggregateID() string { return e.EventID }
func (e EventPublished) OccurredAt() time.Time { return e.PublishedAt }

// EventCancelled is emitted when an event is cancelled. It carries the sold
// tickets and accumulated revenue so a downstream collaborator can decide
// whether refunds are owed.
type EventCancelled struct {
	EventID         string    `json:"event_id"`
	OrganizerID     string    `json:"organizer_id"`
	Title           string    `json:"title"`
	Reason          string    `json:"reason"`
	CancelledAt     time.Time `json:"cancelled_at"`
	SoldTickets     int       `json:"sold_tickets"`
	RevenueAmount   float64   `json:"revenue_amount"`
	RevenueCurrency Currency  `json:"revenue_currency"`
}

func (e EventCancelled) EventType() string { return "event.cancelled" }
func (e EventCancelled) AggregateID() string { return e.EventID }
func (e EventCancelled) OccurredAt() time.Time { return e.CancelledAt }

// NeedsRefunds reports whether any tickets were sold before cancellation.
func (e EventCancelled) NeedsRefunds() bool {
	return e.SoldTickets > 0
}

// EventUpdated is emitted when event details change, with a field-level diff.
type EventUpdated struct {
	EventID     string            `json:"event_id"`
	OrganizerID string            `json:"organizer_id"`
	Changes     map[string]Change `json:"changes"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

func (e EventUpdated) EventType() string { return "event.updated" }
func (e EventUpdated) AggregateID() string { return e.EventID }
func (e EventUpdated) OccurredAt() time.Time { return e.UpdatedAt }

// TicketTypeAdded is emitted when a ticket type joins an event.
type TicketTypeAdded struct {
	EventID      string    `json:"event_id"`
	TicketTypeID string    `json:"ticket_type_id"`
	Name         string    `json:"name"`
	PriceAmount  float64   `json:"price_amount"`
	Currency     Currency  `json:"currency"`
	Quantity     int       `json:"quantity"`
	SalesStart   time.Time `json:"sales_start"`
	SalesEnd     time.Time `json:"sales_end"`
	At           time.Time `json:"occurred_at"`
}

func (e TicketTypeAdded) EventType() string { return "event.ticket_type_added" }
func (e TicketTypeAdded) AggregateID() string { return e.EventID }
func (e TicketTypeAdded) OccurredAt() time.Time { return e.At }

// TicketTypeUpdated is emitted when a ticket type changes, with a diff.
type TicketTypeUpdated struct {
	EventID      string            `json:"event_id"`
	TicketTypeID string            `json:"ticket_type_id"`
	Name         string            `json:"name"`
	Changes      map[string]Change `json:"changes"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

func (e TicketTypeUpdated) EventType() string { return "event.ticket_type_updated" }
func (e TicketTypeUpdated) AggregateID() string { return e.EventID }
func (e TicketTypeUpdated) OccurredAt() time.Time { return e.UpdatedAt }

// TicketTypeSoldOut is emitted when a sale exhausts a ticket type's inventory.
type TicketTypeSoldOut struct {
	EventID       string    `json:"event_id"`
	TicketTypeID  string    `json:"ticket_type_id"`
	Name          string    `json:"name"`
	TotalQuantity int       `json:"total_quantity"`
	At            time.Time `json:"occurred_at"`
}

func (e TicketTypeSoldOut) EventType() string { return "event.ticket_type_sold_out" }
func (e TicketTypeSoldOut) AggregateID() string { return e.EventID }
func (e TicketTypeSoldOut) OccurredAt() time.Time { return e.At }
