package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/teranga-tours/service-booking/internal/application"
	"github.com/teranga-tours/service-booking/internal/response"
)

// MessageHandler handles HTTP requests for contact messages.
type MessageHandler struct {
	service *application.MessageService
}

// NewMessageHandler creates a new MessageHandler.
func NewMessageHandler(service *application.MessageService) *MessageHandler {
	return &MessageHandler{service: service}
}

// RegisterRoutes registers the public contact route and the admin inbox.
func (h *MessageHandler) RegisterRoutes(r *gin.RouterGroup, adminAuth gin.HandlerFunc) {
	r.POST("/messages", h.CreateMessage)

	admin := r.Group("/admin/messages")
	admin.Use(adminAuth)
	{
		admin.GET("", h.ListMessages)
		admin.POST("/:id/read", h.MarkMessageRead)
		admin.DELETE("/:id", h.DeleteMessage)
	}
}

// CreateMessage handles POST /api/v1/messages.
func (h *MessageHandler) CreateMessage(c *gin.Context) {
	var req application.CreateMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	dto, err := h.service.CreateMessage(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto)
}

// ListMessages handles GET /api/v1/admin/messages.
func (h *MessageHandler) ListMessages(c *gin.Context) {
	page, limit := pagination(c)

	messages, total, err := h.service.ListMessages(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, messages, total, page, limit)
}

// MarkMessageRead handles POST /api/v1/admin/messages/:id/read.
func (h *MessageHandler) MarkMessageRead(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid message ID")
		return
	}

	dto, err := h.service.MarkMessageRead(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto)
}

// DeleteMessage handles DELETE /api/v1/admin/messages/:id.
func (h *MessageHandler) DeleteMessage(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid message ID")
		return
	}

	if err := h.service.DeleteMessage(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
