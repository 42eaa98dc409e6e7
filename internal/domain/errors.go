package domain

import "fmt"

// Error is a domain rule violation. Each rule has a stable code so callers
// can branch on the failure kind without matching message strings.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches errors by code, so errors.Is(err, ErrDuplicateTicketTypeName)
// works even when the message carries request-specific detail.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

func (e *Error) withf(format string, args ...interface{}) *Error {
	return &Error{Code: e.Code, Message: fmt.Sprintf(format, args...)}
}

// Value object errors
var (
	ErrInvalidCurrency    = &Error{Code: "INVALID_CURRENCY", Message: "unsupported currency"}
	ErrInvalidCategory    = &Error{Code: "INVALID_CATEGORY", Message: "unknown event category"}
	ErrInvalidPrice       = &Error{Code: "INVALID_PRICE", Message: "price amount must be positive"}
	ErrCurrencyMismatch   = &Error{Code: "CURRENCY_MISMATCH", Message: "price currencies do not match"}
	ErrNegativePrice      = &Error{Code: "NEGATIVE_PRICE", Message: "price arithmetic result would be negative"}
	ErrInvalidDateRange   = &Error{Code: "INVALID_DATE_RANGE", Message: "end date must be after start date"}
	ErrDateRangeInPast    = &Error{Code: "DATE_RANGE_IN_PAST", Message: "start date must be at least one hour in the future"}
	ErrInvalidSalesPeriod = &Error{Code: "INVALID_SALES_PERIOD", Message: "sales period end must be after its start"}
	ErrInvalidLocation    = &Error{Code: "INVALID_LOCATION", Message: "location requires a city and a country"}
	ErrInvalidCoordinates = &Error{Code: "INVALID_COORDINATES", Message: "latitude and longitude must be provided together and within range"}
)

// Ticket type errors
var (
	ErrInvalidTicketTypeName        = &Error{Code: "INVALID_TICKET_TYPE_NAME", Message: "ticket type name must be 1-100 characters"}
	ErrInvalidTicketTypeDescription = &Error{Code: "INVALID_TICKET_TYPE_DESCRIPTION", Message: "ticket type description must be at most 500 characters"}
	ErrInvalidQuantity              = &Error{Code: "INVALID_QUANTITY", Message: "quantity must be positive"}
	ErrCannotModifyAfterSales       = &Error{Code: "CANNOT_MODIFY_AFTER_SALES", Message: "ticket type cannot change once tickets have been sold"}
	ErrCannotReduceQuantity         = &Error{Code: "CANNOT_REDUCE_QUANTITY", Message: "quantity cannot drop below the sold quantity"}
	ErrInvalidSoldQuantity          = &Error{Code: "INVALID_SOLD_QUANTITY", Message: "sold quantity would leave the valid range"}
	ErrSalesPeriodElapsed           = &Error{Code: "SALES_PERIOD_ELAPSED", Message: "sales period has already ended"}
)

// Event aggregate errors
var (
	ErrInvalidOrganizer       = &Error{Code: "INVALID_ORGANIZER", Message: "organizer id is required"}
	ErrInvalidTitle           = &Error{Code: "INVALID_TITLE", Message: "title must be 1-200 characters"}
	ErrInvalidDescription     = &Error{Code: "INVALID_DESCRIPTION", Message: "description must be at most 5000 characters"}
	ErrMaxTicketTypesReached  = &Error{Code: "MAX_TICKET_TYPES_REACHED", Message: "an event can hold at most 10 ticket types"}
	ErrDuplicateTicketType    = &Error{Code: "DUPLICATE_TICKET_TYPE_NAME", Message: "ticket type name already used in this event"}
	ErrTicketTypeNotFound     = &Error{Code: "TICKET_TYPE_NOT_FOUND", Message: "ticket type not found in this event"}
	ErrTicketTypeHasSales     = &Error{Code: "TICKET_TYPE_HAS_SALES", Message: "ticket type with sold tickets cannot be removed"}
	ErrSalesPeriodAfterStart  = &Error{Code: "SALES_PERIOD_AFTER_START", Message: "sales period must end before the event starts"}
	ErrEventWrongStatus       = &Error{Code: "EVENT_WRONG_STATUS", Message: "operation not allowed in the current event status"}
	ErrEventMissingTitle      = &Error{Code: "EVENT_MISSING_TITLE", Message: "event cannot be published without a title"}
	ErrEventMissingLocation   = &Error{Code: "EVENT_MISSING_LOCATION", Message: "event cannot be published without a location"}
	ErrEventMissingTickets    = &Error{Code: "EVENT_MISSING_TICKET_TYPES", Message: "event needs at least one active ticket type to publish"}
	ErrEventDateInPast        = &Error{Code: "EVENT_DATE_IN_PAST", Message: "event start date must be in the future to publish"}
	ErrEventAlreadyCancelled  = &Error{Code: "EVENT_ALREADY_CANCELLED", Message: "event is already cancelled"}
	ErrEventAlreadyCompleted  = &Error{Code: "EVENT_ALREADY_COMPLETED", Message: "event is already completed"}
	ErrEventAlreadyStarted    = &Error{Code: "EVENT_ALREADY_STARTED", Message: "event has already started"}
	ErrEventCannotBeModified  = &Error{Code: "EVENT_CANNOT_BE_MODIFIED", Message: "location and dates are locked once the event is published"}
	ErrEventTicketTypesClosed = &Error{Code: "EVENT_TICKET_TYPES_CLOSED", Message: "ticket types can only change while the event is draft or published"}
)
