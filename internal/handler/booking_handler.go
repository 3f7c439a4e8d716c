package handler

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/teranga-tours/service-booking/internal/application"
	"github.com/teranga-tours/service-booking/internal/response"
)

// BookingHandler handles HTTP requests for quotes and bookings.
type BookingHandler struct {
	service *application.BookingService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(service *application.BookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

// RegisterRoutes registers public booking routes and admin routes.
func (h *BookingHandler) RegisterRoutes(r *gin.RouterGroup, adminAuth gin.HandlerFunc) {
	bookings := r.Group("/bookings")
	{
		bookings.POST("/quote", h.Quote)
		bookings.POST("", h.Submit)
		bookings.GET("/:reference", h.GetByReference)
	}

	admin := r.Group("/admin/bookings")
	admin.Use(adminAuth)
	{
		admin.GET("", h.ListBookings)
		admin.POST("/:id/cancel", h.CancelBooking)
	}
}

// Quote handles POST /api/v1/bookings/quote.
func (h *BookingHandler) Quote(c *gin.Context) {
	var req application.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	quote, err := h.service.Quote(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, quote)
}

// Submit handles POST /api/v1/bookings.
func (h *BookingHandler) Submit(c *gin.Context) {
	var req application.SubmitBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	booking, err := h.service.Submit(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, booking)
}

// GetByReference handles GET /api/v1/bookings/:reference.
func (h *BookingHandler) GetByReference(c *gin.Context) {
	booking, err := h.service.GetByReference(c.Request.Context(), c.Param("reference"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, booking)
}

// ListBookings handles GET /api/v1/admin/bookings.
func (h *BookingHandler) ListBookings(c *gin.Context) {
	page, limit := pagination(c)

	bookings, total, err := h.service.ListBookings(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, bookings, total, page, limit)
}

type cancelBookingRequest struct {
	Reason string `json:"reason"`
}

// CancelBooking handles POST /api/v1/admin/bookings/:id/cancel.
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	// An empty body means cancelling without a reason.
	var req cancelBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(c, err.Error())
		return
	}

	booking, err := h.service.CancelBooking(c.Request.Context(), id, req.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, booking)
}
