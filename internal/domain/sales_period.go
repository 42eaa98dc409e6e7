package domain

import "time"

// SalesPeriod is the immutable window during which a ticket type can be sold.
// It is distinct from the event's own date range.
type SalesPeriod struct {
	start time.Time
	end   time.Time
}

// NewSalesPeriod validates and builds a SalesPeriod.
func NewSalesPeriod(start, end time.Time) (SalesPeriod, error) {
	if !end.After(start) {
		return SalesPeriod{}, ErrInvalidSalesPeriod
	}
	return SalesPeriod{start: start.UTC(), end: end.UTC()}, nil
}

func (p SalesPeriod) Start() time.Time { return p.start }
func (p SalesPeriod) End() time.Time { return p.end }

// ValidateForEvent checks that sales close strictly before the event starts.
func (p SalesPeriod) ValidateForEvent(eventStart time.Time) error {
	if !p.end.Before(eventStart) {
		return ErrSalesPeriodAfterStart
	}
	return nil
}

// Includes reports whether t falls inside the window.
func (p SalesPeriod) Includes(t time.Time) bool {
	return !t.Before(p.start) && !t.After(p.end)
}

// HasElapsed reports whether the window has already closed.
func (p SalesPeriod) HasElapsed() bool {
	return time.Now().UTC().After(p.end)
}
