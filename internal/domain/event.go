package domain

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MaxTicketTypes caps how many ticket types one event may carry.
const MaxTicketTypes = 10

const defaultCancelReason = "cancelled by organizer"

// Event is the aggregate root for a sellable event and its ticket-type
// inventory. All mutations go through its methods; a failed call leaves the
// aggregate unmodified. The aggregate performs no I/O and no locking;
// callers must guarantee one in-flight mutation per event id.
type Event struct {
	id                 string
	organizerID        string
	title              string
	description        string
	category           EventCategory
	location           Location
	dateRange          DateRange
	imageURL           string
	status             EventStatus
	ticketTypes        []*TicketType
	totalCapacity      int
	soldTickets        int
	revenueAmount      float64
	revenueCurrency    Currency
	createdAt          time.Time
	updatedAt          time.Time
	publishedAt        *time.Time
	cancelledAt        *time.Time
	cancellationReason string

	events []DomainEvent
}

// NewEventProps carries the input for creating a draft event.
type NewEventProps struct {
	OrganizerID string
	Title       string
	Description string
	Category    EventCategory
	Location    Location
	DateRange   DateRange
	ImageURL    string
}

// NewEvent validates and creates a draft event, emitting EventCreated.
func NewEvent(props NewEventProps) (*Event, error) {
	title := strings.TrimSpace(props.Title)
	if strings.TrimSpace(props.OrganizerID) == "" {
		return nil, ErrInvalidOrganizer
	}
	if title == "" || len(title) > 200 {
		return nil, ErrInvalidTitle
	}
	if len(props.Description) > 5000 {
		return nil, ErrInvalidDescription
	}
	if !props.Category.IsValid() {
		return nil, ErrInvalidCategory
	}
	if props.Location.IsZero() {
		return nil, ErrInvalidLocation
	}
	if props.DateRange.IsZero() {
		return nil, ErrInvalidDateRange
	}

	now := time.Now().UTC()
	e := &Event{
		id:          uuid.New().String(),
		organizerID: props.OrganizerID,
		title:       title,
		description: props.Description,
		category:    props.Category,
		location:    props.Location,
		dateRange:   props.DateRange,
		imageURL:    props.ImageURL,
		status:      EventStatusDraft,
		createdAt:   now,
		updatedAt:   now,
	}
	e.record(EventCreated{
		EventID:     e.id,
		OrganizerID: e.organizerID,
		Title:       e.title,
		Category:    e.category,
		At:          now,
	})
	return e, nil
}

func (e *Event) ID() string { return e.id }
func (e *Event) OrganizerID() string { return e.organizerID }
func (e *Event) Title() string { return e.title }
func (e *Event) Description() string { return e.description }
func (e *Event) Category() EventCategory { return e.category }
func (e *Event) Location() Location { return e.location }
func (e *Event) DateRange() DateRange { return e.dateRange }
func (e *Event) ImageURL() string { return e.imageURL }
func (e *Event) Status() EventStatus { return e.status }
func (e *Event) TotalCapacity() int { return e.totalCapacity }
func (e *Event) SoldTickets() int { return e.soldTickets }
func (e *Event) RevenueAmount() float64 { return e.revenueAmount }
func (e *Event) RevenueCurrency() Currency { return e.revenueCurrency }
func (e *Event) CreatedAt() time.Time { return e.createdAt }
func (e *Event) UpdatedAt() time.Time { return e.updatedAt }
func (e *Event) PublishedAt() *time.Time { return e.publishedAt }
func (e *Event) CancelledAt() *time.Time { return e.cancelledAt }
func (e *Event) CancellationReason() string { return e.cancellationReason }

// TicketTypes returns the owned ticket types. The slice is a copy; the
// entities themselves are shared and must not be mutated by callers.
func (e *Event) TicketTypes() []*TicketType {
	out := make([]*TicketType, len(e.ticketTypes))
	copy(out, e.ticketTypes)
	return out
}

// TicketType looks up an owned ticket type by id.
func (e *Event) TicketType(id string) (*TicketType, bool) {
	for _, t := range e.ticketTypes {
		if t.id == id {
			return t, true
		}
	}
	return nil, false
}

// PullEvents drains the buffered domain events. The caller dispatches them
// only after the aggregate has been persisted.
func (e *Event) PullEvents() []DomainEvent {
	out := e.events
	e.events = nil
	return out
}

func (e *Event) record(ev DomainEvent) {
	e.events = append(e.events, ev)
}

// AddTicketType attaches a new ticket type to the event. Allowed while the
// event is draft or published.
func (e *Event) AddTicketType(t *TicketType) error {
	if e.status != EventStatusDraft && e.status != EventStatusPublished {
		return ErrEventTicketTypesClosed
	}
	if len(e.ticketTypes) >= MaxTicketTypes {
		return ErrMaxTicketTypesReached
	}
	if e.hasTicketTypeNamed(t.name, "") {
		return ErrDuplicateTicketType.withf("ticket type name %q already used in this event", t.name)
	}
	if err := t.salesPeriod.ValidateForEvent(e.dateRange.start); err != nil {
		return err
	}

	t.eventID = e.id
	e.ticketTypes = append(e.ticketTypes, t)
	e.recomputeCapacity()
	e.touch()
	e.record(TicketTypeAdded{
		EventID:      e.id,
		TicketTypeID: t.id,
		Name:         t.name,
		PriceAmount:  t.price.amount,
		Currency:     t.price.currency,
		Quantity:     t.quantity,
		SalesStart:   t.salesPeriod.start,
		SalesEnd:     t.salesPeriod.end,
		At:           e.updatedAt,
	})
	return nil
}

// TicketTypeUpdate carries the optional fields of a ticket type update; nil
// fields are left untouched.
type TicketTypeUpdate struct {
	Name        *string
	Description *string
	Price       *TicketPrice
	Quantity    *int
	SalesPeriod *SalesPeriod
	IsActive    *bool
}

// UpdateTicketType applies the provided fields through the entity's own
// update methods. The first failing field aborts the whole update and leaves
// the aggregate untouched. Emits TicketTypeUpdated with a before/after diff
// when anything changed.
func (e *Event) UpdateTicketType(id string, upd TicketTypeUpdate) error {
	target, ok := e.TicketType(id)
	if !ok {
		return ErrTicketTypeNotFound
	}

	// Work on a copy so a failing field cannot leave a half-applied update.
	next := *target
	changes := make(map[string]Change)

	if upd.Name != nil && *upd.Name != target.name {
		if e.hasTicketTypeNamed(*upd.Name, id) {
			return ErrDuplicateTicketType.withf("ticket type name %q already used in this event", *upd.Name)
		}
		before := next.name
		if err := next.UpdateName(*upd.Name); err != nil {
			return err
		}
		changes["name"] = Change{From: before, To: next.name}
	}
	if upd.Description != nil && *upd.Description != target.description {
		before := next.description
		if err := next.UpdateDescription(*upd.Description); err != nil {
			return err
		}
		changes["description"] = Change{From: before, To: next.description}
	}
	if upd.Price != nil && *upd.Price != target.price {
		before := next.price.amount
		if err := next.UpdatePrice(*upd.Price); err != nil {
			return err
		}
		changes["price"] = Change{From: before, To: next.price.amount}
	}
	if upd.Quantity != nil && *upd.Quantity != target.quantity {
		before := next.quantity
		if err := next.UpdateQuantity(*upd.Quantity); err != nil {
			return err
		}
		changes["quantity"] = Change{From: before, To: next.quantity}
	}
	if upd.SalesPeriod != nil && *upd.SalesPeriod != target.salesPeriod {
		if err := upd.SalesPeriod.ValidateForEvent(e.dateRange.start); err != nil {
			return err
		}
		before := next.salesPeriod
		if err := next.UpdateSalesPeriod(*upd.SalesPeriod); err != nil {
			return err
		}
		changes["sales_period"] = Change{
			From: map[string]time.Time{"start": before.start, "end": before.end},
			To:   map[string]time.Time{"start": next.salesPeriod.start, "end": next.salesPeriod.end},
		}
	}
	if upd.IsActive != nil && *upd.IsActive != target.isActive {
		before := next.isActive
		if *upd.IsActive {
			if err := next.Reactivate(); err != nil {
				return err
			}
		} else {
			next.Deactivate()
		}
		changes["is_active"] = Change{From: before, To: next.isActive}
	}

	if len(changes) == 0 {
		return nil
	}

	*target = next
	e.recomputeCapacity()
	e.touch()
	e.record(TicketTypeUpdated{
		EventID:      e.id,
		TicketTypeID: target.id,
		Name:         target.name,
		Changes:      changes,
		UpdatedAt:    e.updatedAt,
	})
	return nil
}

// RemoveTicketType detaches a ticket type. Only possible while the event is
// draft and nothing has been sold.
func (e *Event) RemoveTicketType(id string) error {
	if e.status != EventStatusDraft {
		return ErrEventWrongStatus.withf("ticket types can only be removed from a draft event")
	}
	for i, t := range e.ticketTypes {
		if t.id != id {
			continue
		}
		if t.soldQuantity > 0 {
			return ErrTicketTypeHasSales
		}
		e.ticketTypes = append(e.ticketTypes[:i], e.ticketTypes[i+1:]...)
		e.recomputeCapacity()
		e.touch()
		return nil
	}
	return ErrTicketTypeNotFound
}

// Publish moves a draft event on sale. Requires a title, a location, a
// future start date and at least one active ticket type.
func (e *Event) Publish() error {
	if !e.status.CanTransitionTo(EventStatusPublished) {
		return ErrEventWrongStatus.withf("cannot publish an event in status %s", e.status)
	}
	if e.title == "" {
		return ErrEventMissingTitle
	}
	if e.location.IsZero() {
		return ErrEventMissingLocation
	}
	if e.dateRange.HasStarted() {
		return ErrEventDateInPast
	}
	if e.activeTicketTypeCount() == 0 {
		return ErrEventMissingTickets
	}

	now := time.Now().UTC()
	e.status = EventStatusPublished
	e.publishedAt = &now
	e.updatedAt = now
	e.record(EventPublished{
		EventID:         e.id,
		OrganizerID:     e.organizerID,
		Title:           e.title,
		PublishedAt:     now,
		TicketTypeCount: len(e.ticketTypes),
		TotalCapacity:   e.totalCapacity,
	})
	return nil
}

// Cancel moves the event to the terminal cancelled state. Only possible
// before the event has started. A blank reason gets a default.
func (e *Event) Cancel(reason string) error {
	switch e.status {
	case EventStatusCancelled:
		return ErrEventAlreadyCancelled
	case EventStatusCompleted:
		return ErrEventAlreadyCompleted
	}
	if !e.status.CanTransitionTo(EventStatusCancelled) {
		return ErrEventWrongStatus.withf("cannot cancel an event in status %s", e.status)
	}
	if e.dateRange.HasStarted() {
		return ErrEventAlreadyStarted
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = defaultCancelReason
	}

	now := time.Now().UTC()
	e.status = EventStatusCancelled
	e.cancelledAt = &now
	e.cancellationReason = reason
	e.updatedAt = now
	e.record(EventCancelled{
		EventID:         e.id,
		OrganizerID:     e.organizerID,
		Title:           e.title,
		Reason:          reason,
		CancelledAt:     now,
		SoldTickets:     e.soldTickets,
		RevenueAmount:   e.revenueAmount,
		RevenueCurrency: e.revenueCurrency,
	})
	return nil
}

// MarkAsCompleted completes a published event whose end date has passed.
// Scheduler-driven and idempotent: when preconditions are unmet it is a
// silent no-op and emits nothing.
func (e *Event) MarkAsCompleted() EventStatus {
	if e.status != EventStatusPublished || !e.dateRange.HasEnded() {
		return e.status
	}
	e.status = EventStatusCompleted
	e.touch()
	return e.status
}

// EventUpdate carries the optional fields of an event details update; nil
// fields are left untouched.
type EventUpdate struct {
	Title       *string
	Description *string
	Category    *EventCategory
	Location    *Location
	DateRange   *DateRange
	ImageURL    *string
}

// UpdateDetails changes event details. Title, description, category and
// image are always updatable; location and dates are locked once published.
// Emits EventUpdated with a diff when anything changed.
func (e *Event) UpdateDetails(upd EventUpdate) error {
	if e.status.IsTerminal() {
		return ErrEventWrongStatus.withf("cannot modify an event in status %s", e.status)
	}
	if (upd.Location != nil || upd.DateRange != nil) && e.status == EventStatusPublished {
		return ErrEventCannotBeModified
	}

	changes := make(map[string]Change)

	if upd.Title != nil {
		title := strings.TrimSpace(*upd.Title)
		if title == "" || len(title) > 200 {
			return ErrInvalidTitle
		}
		if title != e.title {
			changes["title"] = Change{From: e.title, To: title}
		}
		upd.Title = &title
	}
	if upd.Description != nil {
		if len(*upd.Description) > 5000 {
			return ErrInvalidDescription
		}
		if *upd.Description != e.description {
			changes["description"] = Change{From: e.description, To: *upd.Description}
		}
	}
	if upd.Category != nil {
		if !upd.Category.IsValid() {
			return ErrInvalidCategory
		}
		if *upd.Category != e.category {
			changes["category"] = Change{From: e.category, To: *upd.Category}
		}
	}
	if upd.Location != nil {
		if upd.Location.IsZero() {
			return ErrInvalidLocation
		}
		if !upd.Location.Equals(e.location) {
			changes["location"] = Change{From: e.location.City(), To: upd.Location.City()}
		}
	}
	if upd.DateRange != nil {
		if upd.DateRange.IsZero() {
			return ErrInvalidDateRange
		}
		for _, t := range e.ticketTypes {
			if err := t.salesPeriod.ValidateForEvent(upd.DateRange.start); err != nil {
				return err
			}
		}
		if *upd.DateRange != e.dateRange {
			changes["date_range"] = Change{
				From: map[string]time.Time{"start": e.dateRange.start, "end": e.dateRange.end},
				To:   map[string]time.Time{"start": upd.DateRange.start, "end": upd.DateRange.end},
			}
		}
	}
	if upd.ImageURL != nil && *upd.ImageURL != e.imageURL {
		changes["image_url"] = Change{From: e.imageURL, To: *upd.ImageURL}
	}

	if len(changes) == 0 {
		return nil
	}

	if upd.Title != nil {
		e.title = *upd.Title
	}
	if upd.Description != nil {
		e.description = *upd.Description
	}
	if upd.Category != nil {
		e.category = *upd.Category
	}
	if upd.Location != nil {
		e.location = *upd.Location
	}
	if upd.DateRange != nil {
		e.dateRange = *upd.DateRange
	}
	if upd.ImageURL != nil {
		e.imageURL = *upd.ImageURL
	}
	e.touch()
	e.record(EventUpdated{
		EventID:     e.id,
		OrganizerID: e.organizerID,
		Changes:     changes,
		UpdatedAt:   e.updatedAt,
	})
	return nil
}

// IncrementSoldTickets records qty sold tickets against the named ticket
// type, keeping the aggregate's sold count and revenue in lock-step. Emits
// TicketTypeSoldOut when the sale exhausts the inventory.
func (e *Event) IncrementSoldTickets(ticketTypeID string, qty int) error {
	t, ok := e.TicketType(ticketTypeID)
	if !ok {
		return ErrTicketTypeNotFound
	}
	if err := t.IncrementSold(qty); err != nil {
		return err
	}

	e.soldTickets += qty
	// Single reporting currency per event: the first sale fixes it and later
	// amounts accumulate without conversion.
	if e.revenueCurrency == "" {
		e.revenueCurrency = t.price.currency
	}
	e.revenueAmount = e.revenueCurrency.Round(e.revenueAmount + t.price.amount*float64(qty))
	e.touch()

	if t.IsSoldOut() {
		e.record(TicketTypeSoldOut{
			EventID:       e.id,
			TicketTypeID:  t.id,
			Name:          t.name,
			TotalQuantity: t.quantity,
			At:            e.updatedAt,
		})
	}
	return nil
}

// DecrementSoldTickets releases qty previously sold tickets, rolling the
// aggregate's sold count and revenue back. Both floor at zero.
func (e *Event) DecrementSoldTickets(ticketTypeID string, qty int) error {
	t, ok := e.TicketType(ticketTypeID)
	if !ok {
		return ErrTicketTypeNotFound
	}
	if err := t.DecrementSold(qty); err != nil {
		return err
	}

	e.soldTickets -= qty
	if e.soldTickets < 0 {
		e.soldTickets = 0
	}
	if e.revenueCurrency != "" {
		e.revenueAmount = e.revenueCurrency.Round(e.revenueAmount - t.price.amount*float64(qty))
		if e.revenueAmount < 0 {
			e.revenueAmount = 0
		}
	}
	e.touch()
	return nil
}

// AvailableCapacity returns the unsold inventory across all ticket types.
func (e *Event) AvailableCapacity() int {
	return e.totalCapacity - e.soldTickets
}

// SalesProgress returns the sold percentage rounded to the nearest integer,
// 0 when there is no capacity.
func (e *Event) SalesProgress() int {
	if e.totalCapacity == 0 {
		return 0
	}
	return int(math.Round(float64(e.soldTickets) / float64(e.totalCapacity) * 100))
}

// IsSoldOut reports whether every ticket is sold.
func (e *Event) IsSoldOut() bool {
	return e.totalCapacity > 0 && e.soldTickets >= e.totalCapacity
}

// CanBeCancelled reports whether Cancel would be permitted right now.
func (e *Event) CanBeCancelled() bool {
	return e.status.CanTransitionTo(EventStatusCancelled) && !e.dateRange.HasStarted()
}

// CanBeModified reports whether location and dates may still change.
func (e *Event) CanBeModified() bool {
	return e.status == EventStatusDraft
}

func (e *Event) HasStarted() bool { return e.dateRange.HasStarted() }
func (e *Event) HasEnded() bool { return e.dateRange.HasEnded() }
func (e *Event) IsOngoing() bool { return e.dateRange.IsOngoing() }

func (e *Event) hasTicketTypeNamed(name, excludeID string) bool {
	for _, t := range e.ticketTypes {
		if t.id != excludeID && strings.EqualFold(t.name, name) {
			return true
		}
	}
	return false
}

func (e *Event) activeTicketTypeCount() int {
	count := 0
	for _, t := range e.ticketTypes {
		if t.isActive {
			count++
		}
	}
	return count
}

// recomputeCapacity re-derives totalCapacity from the owned ticket types.
// Called after every ticket-type mutation; the value is never trusted across
// calls.
func (e *Event) recomputeCapacity() {
	total := 0
	for _, t := range e.ticketTypes {
		total += t.quantity
	}
	e.totalCapacity = total
}

func (e *Event) touch() {
	e.updatedAt = time.Now().UTC()
}

// EventState is the flat snapshot used to persist and rehydrate an event.
type EventState struct {
	ID                 string
	OrganizerID        string
	Title              string
	Description        string
	Category           EventCategory
	Address            string
	City               string
	Country            string
	Latitude           *float64
	Longitude          *float64
	StartDate          time.Time
	EndDate            time.Time
	ImageURL           string
	Status             EventStatus
	SoldTickets        int
	RevenueAmount      float64
	RevenueCurrency    Currency
	CreatedAt          time.Time
	UpdatedAt          time.Time
	PublishedAt        *time.Time
	CancelledAt        *time.Time
	CancellationReason string
	TicketTypes        []TicketTypeState
}

// RehydrateEvent rebuilds an aggregate from its persisted state. Capacity is
// re-derived rather than read back.
func RehydrateEvent(s EventState) *Event {
	e := &Event{
		id:          s.ID,
		organizerID: s.OrganizerID,
		title:       s.Title,
		description: s.Description,
		category:    s.Category,
		location: Location{
			address:   s.Address,
			city:      s.City,
			country:   s.Country,
			latitude:  s.Latitude,
			longitude: s.Longitude,
		},
		dateRange:          DateRange{start: s.StartDate, end: s.EndDate},
		imageURL:           s.ImageURL,
		status:             s.Status,
		soldTickets:        s.SoldTickets,
		revenueAmount:      s.RevenueAmount,
		revenueCurrency:    s.RevenueCurrency,
		createdAt:          s.CreatedAt,
		updatedAt:          s.UpdatedAt,
		publishedAt:        s.PublishedAt,
		cancelledAt:        s.CancelledAt,
		cancellationReason: s.CancellationReason,
	}
	for _, ts := range s.TicketTypes {
		e.ticketTypes = append(e.ticketTypes, RehydrateTicketType(ts))
	}
	e.recomputeCapacity()
	return e
}

// State snapshots the aggregate for persistence.
func (e *Event) State() EventState {
	lat, lon, hasCoords := e.location.Coordinates()
	var latp, lonp *float64
	if hasCoords {
		latp, lonp = &lat, &lon
	}
	s := EventState{
		ID:                 e.id,
		OrganizerID:        e.organizerID,
		Title:              e.title,
		Description:        e.description,
		Category:           e.category,
		Address:            e.location.address,
		City:               e.location.city,
		Country:            e.location.country,
		Latitude:           latp,
		Longitude:          lonp,
		StartDate:          e.dateRange.start,
		EndDate:            e.dateRange.end,
		ImageURL:           e.imageURL,
		Status:             e.status,
		SoldTickets:        e.soldTickets,
		RevenueAmount:      e.revenueAmount,
		RevenueCurrency:    e.revenueCurrency,
		CreatedAt:          e.createdAt,
		UpdatedAt:          e.updatedAt,
		PublishedAt:        e.publishedAt,
		CancelledAt:        e.cancelledAt,
		CancellationReason: e.cancellationReason,
	}
	for _, t := range e.ticketTypes {
		s.TicketTypes = append(s.TicketTypes, t.State())
	}
	return s
}
