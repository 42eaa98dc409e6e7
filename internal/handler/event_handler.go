package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/HexHunters/Tickr-sub000/internal/domain"
	"github.com/HexHunters/Tickr-sub000/internal/dto"
	"github.com/HexHunters/Tickr-sub000/internal/service"
	"github.com/HexHunters/Tickr-sub000/pkg/middleware"
	"github.com/HexHunters/Tickr-sub000/pkg/response"
)

// EventHandler handles event-related HTTP requests
type EventHandler struct {
	eventService service.EventService
}

// NewEventHandler creates a new EventHandler
func NewEventHandler(eventService service.EventService) *EventHandler {
	return &EventHandler{
		eventService: eventService,
	}
}

// List handles GET /events - lists events with pagination and filters
func (h *EventHandler) List(c *gin.Context) {
	var filter dto.EventListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	events, total, err := h.eventService.ListEvents(c.Request.Context(), &filter)
	if err != nil {
		response.InternalError(c, err)
		return
	}

	eventResponses := make([]*dto.EventResponse, len(events))
	for i, event := range events {
		eventResponses[i] = dto.ToEventResponse(event)
	}

	response.Paginated(c, eventResponses, total, filter.Limit, filter.Offset)
}

// ListMyEvents handles GET /events/my - lists the caller's events
func (h *EventHandler) ListMyEvents(c *gin.Context) {
	organizerID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "User ID not found in token")
		return
	}

	var filter dto.EventListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}
	filter.OrganizerID = organizerID

	events, total, err := h.eventService.ListEvents(c.Request.Context(), &filter)
	if err != nil {
		response.InternalError(c, err)
		return
	}

	eventResponses := make([]*dto.EventResponse, len(events))
	for i, event := range events {
		eventResponses[i] = dto.ToEventResponse(event)
	}

	response.Paginated(c, eventResponses, total, filter.Limit, filter.Offset)
}

// GetByID handles GET /events/:id - retrieves an event by ID
func (h *EventHandler) GetByID(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, "ID is required")
		return
	}

	event, err := h.eventService.GetEventByID(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, dto.ToEventResponse(event))
}

// Create handles POST /events - creates a new draft event (Organizer only)
func (h *EventHandler) Create(c *gin.Context) {
	var req dto.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	organizerID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "User ID not found in token")
		return
	}
	req.OrganizerID = organizerID

	event, err := h.eventService.CreateEvent(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Created(c, dto.ToEventResponse(event))
}

// Update handles PUT /events/:id - updates event details
func (h *EventHandler) Update(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, "ID is required")
		return
	}

	var req dto.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	organizerID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "User ID not found in token")
		return
	}

	event, err := h.eventService.UpdateEvent(c.Request.Context(), id, organizerID, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, dto.ToEventResponse(event))
}

// Publish handles POST /events/:id/publish - publishes a draft event
func (h *EventHandler) Publish(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, "ID is required")
		return
	}

	organizerID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "User ID not found in token")
		return
	}

	event, err := h.eventService.PublishEvent(c.Request.Context(), id, organizerID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, dto.ToEventResponse(event))
}

// Cancel handles POST /events/:id/cancel - cancels an event
func (h *EventHandler) Cancel(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, "ID is required")
		return
	}

	var req dto.CancelEventRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		response.BadRequest(c, "Invalid request body")
		return
	}

	organizerID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "User ID not found in token")
		return
	}

	event, err := h.eventService.CancelEvent(c.Request.Context(), id, organizerID, req.Reason)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, dto.ToEventResponse(event))
}

// AddTicketType handles POST /events/:id/ticket-types
func (h *EventHandler) AddTicketType(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, "ID is required")
		return
	}

	var req dto.AddTicketTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	organizerID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "User ID not found in token")
		return
	}

	event, err := h.eventService.AddTicketType(c.Request.Context(), id, organizerID, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Created(c, dto.ToEventResponse(event))
}

// UpdateTicketType handles PUT /events/:id/ticket-types/:ticketTypeId
func (h *EventHandler) UpdateTicketType(c *gin.Context) {
	id := c.Param("id")
	ticketTypeID := c.Param("ticketTypeId")
	if id == "" || ticketTypeID == "" {
		response.BadRequest(c, "ID is required")
		return
	}

	var req dto.UpdateTicketTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	organizerID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "User ID not found in token")
		return
	}

	event, err := h.eventService.UpdateTicketType(c.Request.Context(), id, ticketTypeID, organizerID, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, dto.ToEventResponse(event))
}

// RemoveTicketType handles DELETE /events/:id/ticket-types/:ticketTypeId
func (h *EventHandler) RemoveTicketType(c *gin.Context) {
	id := c.Param("id")
	ticketTypeID := c.Param("ticketTypeId")
	if id == "" || ticketTypeID == "" {
		response.BadRequest(c, "ID is required")
		return
	}

	organizerID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "User ID not found in token")
		return
	}

	event, err := h.eventService.RemoveTicketType(c.Request.Context(), id, ticketTypeID, organizerID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, dto.ToEventResponse(event))
}

// RecordSale handles POST /events/:id/ticket-types/:ticketTypeId/sales.
// Used by the booking flow to record sold tickets.
func (h *EventHandler) RecordSale(c *gin.Context) {
	id := c.Param("id")
	ticketTypeID := c.Param("ticketTypeId")
	if id == "" || ticketTypeID == "" {
		response.BadRequest(c, "ID is required")
		return
	}

	var req dto.RecordSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	event, err := h.eventService.RecordSale(c.Request.Context(), id, ticketTypeID, req.Quantity)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, dto.ToEventResponse(event))
}

// ReleaseSale handles POST /events/:id/ticket-types/:ticketTypeId/releases.
// Used by the booking flow to return tickets after a refund or failed payment.
func (h *EventHandler) ReleaseSale(c *gin.Context) {
	id := c.Param("id")
	ticketTypeID := c.Param("ticketTypeId")
	if id == "" || ticketTypeID == "" {
		response.BadRequest(c, "ID is required")
		return
	}

	var req dto.RecordSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	event, err := h.eventService.ReleaseSale(c.Request.Context(), id, ticketTypeID, req.Quantity)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, dto.ToEventResponse(event))
}

// handleError maps service and domain errors to HTTP responses.
func (h *EventHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEventNotFound):
		response.NotFound(c, "Event not found")
	case errors.Is(err, service.ErrUnauthorized):
		response.Forbidden(c, "You do not own this event")
	case errors.Is(err, service.ErrValidationFailed):
		response.BadRequest(c, err.Error())
	default:
		var domainErr *domain.Error
		if errors.As(err, &domainErr) {
			h.handleDomainError(c, domainErr)
			return
		}
		response.InternalError(c, err)
	}
}

// handleDomainError translates domain rule violations: unknown references
// become 404, state conflicts 409, everything else 422.
func (h *EventHandler) handleDomainError(c *gin.Context, err *domain.Error) {
	switch err.Code {
	case domain.ErrTicketTypeNotFound.Code:
		response.NotFound(c, err.Message)
	case domain.ErrEventWrongStatus.Code,
		domain.ErrEventAlreadyCancelled.Code,
		domain.ErrEventAlreadyCompleted.Code,
		domain.ErrEventAlreadyStarted.Code,
		domain.ErrEventCannotBeModified.Code,
		domain.ErrEventTicketTypesClosed.Code,
		domain.ErrCannotModifyAfterSales.Code,
		domain.ErrCannotReduceQuantity.Code,
		domain.ErrTicketTypeHasSales.Code,
		domain.ErrDuplicateTicketType.Code,
		domain.ErrInvalidSoldQuantity.Code,
		domain.ErrSalesPeriodElapsed.Code,
		domain.ErrMaxTicketTypesReached.Code:
		response.Conflict(c, err.Code, err.Message)
	default:
		response.UnprocessableEntity(c, err.Code, err.Message)
	}
}
