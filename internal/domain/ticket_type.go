package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// TicketType is one priced inventory line within an event. It is owned by
// the Event aggregate and only mutated through it; the eventID field is a
// plain back-reference, never an owning pointer.
type TicketType struct {
	id           string
	eventID      string
	name         string
	description  string
	price        TicketPrice
	quantity     int
	soldQuantity int
	salesPeriod  SalesPeriod
	isActive     bool
	createdAt    time.Time
	updatedAt    time.Time
}

// NewTicketType validates and builds a ticket type with zero sold tickets.
func NewTicketType(eventID, name, description string, price TicketPrice, quantity int, salesPeriod SalesPeriod) (*TicketType, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 100 {
		return nil, ErrInvalidTicketTypeName
	}
	if len(description) > 500 {
		return nil, ErrInvalidTicketTypeDescription
	}
	if price.IsZero() {
		return nil, ErrInvalidPrice
	}
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if salesPeriod == (SalesPeriod{}) {
		return nil, ErrInvalidSalesPeriod
	}

	now := time.Now().UTC()
	return &TicketType{
		id:          uuid.New().String(),
		eventID:     eventID,
		name:        name,
		description: description,
		price:       price,
		quantity:    quantity,
		salesPeriod: salesPeriod,
		isActive:    true,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

func (t *TicketType) ID() string { return t.id }
func (t *TicketType) EventID() string { return t.eventID }
func (t *TicketType) Name() string { return t.name }
func (t *TicketType) Description() string { return t.description }
func (t *TicketType) Price() TicketPrice { return t.price }
func (t *TicketType) Quantity() int { return t.quantity }
func (t *TicketType) SoldQuantity() int { return t.soldQuantity }
func (t *TicketType) SalesPeriod() SalesPeriod { return t.salesPeriod }
func (t *TicketType) IsActive() bool { return t.isActive }
func (t *TicketType) CreatedAt() time.Time { return t.createdAt }
func (t *TicketType) UpdatedAt() time.Time { return t.updatedAt }

// UpdateName renames the ticket type.
func (t *TicketType) UpdateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 100 {
		return ErrInvalidTicketTypeName
	}
	t.name = name
	t.touch()
	return nil
}

// UpdateDescription replaces the description; empty clears it.
func (t *TicketType) UpdateDescription(description string) error {
	if len(description) > 500 {
		return ErrInvalidTicketTypeDescription
	}
	t.description = description
	t.touch()
	return nil
}

// UpdatePrice replaces the price. Locked once any ticket has been sold.
func (t *TicketType) UpdatePrice(price TicketPrice) error {
	if t.soldQuantity > 0 {
		return ErrCannotModifyAfterSales
	}
	if price.IsZero() {
		return ErrInvalidPrice
	}
	t.price = price
	t.touch()
	return nil
}

// UpdateQuantity changes the inventory size; it may never drop below the
// already sold quantity.
func (t *TicketType) UpdateQuantity(quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if quantity < t.soldQuantity {
		return ErrCannotReduceQuantity.withf("quantity %d is below sold quantity %d", quantity, t.soldQuantity)
	}
	t.quantity = quantity
	t.touch()
	return nil
}

// UpdateSalesPeriod replaces the sales window. Locked once any ticket has
// been sold.
func (t *TicketType) UpdateSalesPeriod(period SalesPeriod) error {
	if t.soldQuantity > 0 {
		return ErrCannotModifyAfterSales
	}
	t.salesPeriod = period
	t.touch()
	return nil
}

// IncrementSold records qty sold tickets.
func (t *TicketType) IncrementSold(qty int) error {
	if qty <= 0 || t.soldQuantity+qty > t.quantity {
		return ErrInvalidSoldQuantity.withf("cannot sell %d tickets: %d of %d already sold", qty, t.soldQuantity, t.quantity)
	}
	t.soldQuantity += qty
	t.touch()
	return nil
}

// DecrementSold releases qty previously sold tickets.
func (t *TicketType) DecrementSold(qty int) error {
	if qty <= 0 || t.soldQuantity-qty < 0 {
		return ErrInvalidSoldQuantity.withf("cannot release %d tickets: only %d sold", qty, t.soldQuantity)
	}
	t.soldQuantity -= qty
	t.touch()
	return nil
}

// IsSoldOut reports whether the inventory is exhausted.
func (t *TicketType) IsSoldOut() bool {
	return t.soldQuantity >= t.quantity
}

// IsOnSale reports whether tickets can be purchased right now.
func (t *TicketType) IsOnSale() bool {
	return t.isActive && t.salesPeriod.Includes(time.Now().UTC()) && !t.IsSoldOut()
}

// AvailableQuantity returns the remaining sellable inventory.
func (t *TicketType) AvailableQuantity() int {
	return t.quantity - t.soldQuantity
}

// Deactivate takes the ticket type off sale.
func (t *TicketType) Deactivate() {
	t.isActive = false
	t.touch()
}

// Reactivate puts the ticket type back on sale; not possible once the sales
// window has closed.
func (t *TicketType) Reactivate() error {
	if t.salesPeriod.HasElapsed() {
		return ErrSalesPeriodElapsed
	}
	t.isActive = true
	t.touch()
	return nil
}

func (t *TicketType) touch() {
	t.updatedAt = time.Now().UTC()
}

// TicketTypeState is the flat snapshot used to persist and rehydrate a
// ticket type without bypassing the aggregate's invariants in live code.
type TicketTypeState struct {
	ID           string
	EventID      string
	Name         string
	Description  string
	PriceAmount  float64
	Currency     Currency
	Quantity     int
	SoldQuantity int
	SalesStart   time.Time
	SalesEnd     time.Time
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// RehydrateTicketType rebuilds a ticket type from its persisted state.
func RehydrateTicketType(s TicketTypeState) *TicketType {
	return &TicketType{
		id:           s.ID,
		eventID:      s.EventID,
		name:         s.Name,
		description:  s.Description,
		price:        TicketPrice{amount: s.PriceAmount, currency: s.Currency},
		quantity:     s.Quantity,
		soldQuantity: s.SoldQuantity,
		salesPeriod:  SalesPeriod{start: s.SalesStart, end: s.SalesEnd},
		isActive:     s.IsActive,
		createdAt:    s.CreatedAt,
		updatedAt:    s.UpdatedAt,
	}
}

// State snapshots the ticket type for persistence.
func (t *TicketType) State() TicketTypeState {
	return TicketTypeState{
		ID:           t.id,
		EventID:      t.eventID,
		Name:         t.name,
		Description:  t.description,
		PriceAmount:  t.price.amount,
		Currency:     t.price.currency,
		Quantity:     t.quantity,
		SoldQuantity: t.soldQuantity,
		SalesStart:   t.salesPeriod.start,
		SalesEnd:     t.salesPeriod.end,
		IsActive:     t.isActive,
		CreatedAt:    t.createdAt,
		UpdatedAt:    t.updatedAt,
	}
}
