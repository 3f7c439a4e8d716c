package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/teranga-tours/service-booking/internal/application"
	"github.com/teranga-tours/service-booking/internal/response"
)

// CircuitHandler handles HTTP requests for the circuit catalogue.
type CircuitHandler struct {
	service *application.CircuitService
}

// NewCircuitHandler creates a new CircuitHandler.
func NewCircuitHandler(service *application.CircuitService) *CircuitHandler {
	return &CircuitHandler{service: service}
}

// RegisterRoutes registers public circuit routes and admin CRUD routes.
func (h *CircuitHandler) RegisterRoutes(r *gin.RouterGroup, adminAuth gin.HandlerFunc) {
	circuits := r.Group("/circuits")
	{
		circuits.GET("", h.ListCircuits)
		circuits.GET("/:slug", h.GetCircuit)
		circuits.GET("/:slug/itinerary", h.GetItinerary)
	}

	admin := r.Group("/admin/circuits")
	admin.Use(adminAuth)
	{
		admin.GET("", h.ListAllCircuits)
		admin.POST("", h.CreateCircuit)
		admin.PUT("/:id", h.UpdateCircuit)
		admin.POST("/:id/deactivate", h.DeactivateCircuit)
		admin.DELETE("/:id", h.DeleteCircuit)
		admin.POST("/:id/stages", h.AddStage)
		admin.PUT("/:id/stages/:stageId", h.UpdateStage)
		admin.DELETE("/:id/stages/:stageId", h.DeleteStage)
	}
}

// ListCircuits handles GET /api/v1/circuits.
func (h *CircuitHandler) ListCircuits(c *gin.Context) {
	page, limit := pagination(c)

	circuits, total, err := h.service.ListCircuits(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, circuits, total, page, limit)
}

// GetCircuit handles GET /api/v1/circuits/:slug.
func (h *CircuitHandler) GetCircuit(c *gin.Context) {
	detail, err := h.service.GetCircuitDetail(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, detail)
}

// GetItinerary handles GET /api/v1/circuits/:slug/itinerary.
func (h *CircuitHandler) GetItinerary(c *gin.Context) {
	groups, err := h.service.GetItinerary(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, groups)
}

// ListAllCircuits handles GET /api/v1/admin/circuits.
func (h *CircuitHandler) ListAllCircuits(c *gin.Context) {
	page, limit := pagination(c)

	circuits, total, err := h.service.ListAllCircuits(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, circuits, total, page, limit)
}

// CreateCircuit handles POST /api/v1/admin/circuits.
func (h *CircuitHandler) CreateCircuit(c *gin.Context) {
	var req application.CreateCircuitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	dto, err := h.service.CreateCircuit(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto)
}

// UpdateCircuit handles PUT /api/v1/admin/circuits/:id.
func (h *CircuitHandler) UpdateCircuit(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid circuit ID")
		return
	}

	var req application.UpdateCircuitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	dto, err := h.service.UpdateCircuit(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto)
}

// DeactivateCircuit handles POST /api/v1/admin/circuits/:id/deactivate.
func (h *CircuitHandler) DeactivateCircuit(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid circuit ID")
		return
	}

	dto, err := h.service.DeactivateCircuit(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto)
}

// DeleteCircuit handles DELETE /api/v1/admin/circuits/:id.
func (h *CircuitHandler) DeleteCircuit(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid circuit ID")
		return
	}

	if err := h.service.DeleteCircuit(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// AddStage handles POST /api/v1/admin/circuits/:id/stages.
func (h *CircuitHandler) AddStage(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid circuit ID")
		return
	}

	var req application.StageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	stage, err := h.service.AddStage(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, stage)
}

// UpdateStage handles PUT /api/v1/admin/circuits/:id/stages/:stageId.
func (h *CircuitHandler) UpdateStage(c *gin.Context) {
	circuitID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid circuit ID")
		return
	}
	stageID, err := uuid.Parse(c.Param("stageId"))
	if err != nil {
		response.BadRequest(c, "invalid stage ID")
		return
	}

	var req application.StageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	stage, err := h.service.UpdateStage(c.Request.Context(), circuitID, stageID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, stage)
}

// DeleteStage handles DELETE /api/v1/admin/circuits/:id/stages/:stageId.
func (h *CircuitHandler) DeleteStage(c *gin.Context) {
	circuitID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid circuit ID")
		return
	}
	stageID, err := uuid.Parse(c.Param("stageId"))
	if err != nil {
		response.BadRequest(c, "invalid stage ID")
		return
	}

	if err := h.service.DeleteStage(c.Request.Context(), circuitID, stageID); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
