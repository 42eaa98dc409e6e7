package domain

import "time"

// minFutureLead is how far in the future a newly scheduled event must start.
const minFutureLead = time.Hour

// DateRange is the immutable [start, end) window an event runs in.
type DateRange struct {
	start time.Time
	end   time.Time
}

// NewDateRange validates and builds a DateRange. When validateFuture is set,
// the start must be at least one hour from now.
func NewDateRange(start, end time.Time, validateFuture bool) (DateRange, error) {
	if !end.After(start) {
		return DateRange{}, ErrInvalidDateRange
	}
	if validateFuture && start.Before(time.Now().UTC().Add(minFutureLead)) {
		return DateRange{}, ErrDateRangeInPast
	}
	return DateRange{start: start.UTC(), end: end.UTC()}, nil
}

func (r DateRange) Start() time.Time { return r.start }
func (r DateRange) End() time.Time { return r.end }

// Duration returns the length of the range.
func (r DateRange) Duration() time.Duration {
	return r.end.Sub(r.start)
}

// Contains reports whether t falls within the range.
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.start) && !t.After(r.end)
}

// Overlaps reports whether two ranges share any instant.
func (r DateRange) Overlaps(other DateRange) bool {
	return r.start.Before(other.end) && other.start.Before(r.end)
}

// HasStarted reports whether the range start has passed.
func (r DateRange) HasStarted() bool {
	return !time.Now().UTC().Before(r.start)
}

// HasEnded reports whether the range end has passed.
func (r DateRange) HasEnded() bool {
	return time.Now().UTC().After(r.end)
}

// IsOngoing reports whether now falls inside the range.
func (r DateRange) IsOngoing() bool {
	return r.HasStarted() && !r.HasEnded()
}

// IsValidSalesPeriod reports whether a sales window is coherent and closes
// strictly before the event starts.
func (r DateRange) IsValidSalesPeriod(salesStart, salesEnd time.Time) bool {
	return salesEnd.Before(r.start) && salesStart.Before(salesEnd)
}

// IsZero reports whether the range was never set.
func (r DateRange) IsZero() bool {
	return r.start.IsZero() && r.end.IsZero()
}
