package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/teranga-tours/service-booking/internal/application"
	"github.com/teranga-tours/service-booking/internal/response"
)

// PromotionHandler handles HTTP requests for promotions.
type PromotionHandler struct {
	service *application.PromotionService
}

// NewPromotionHandler creates a new PromotionHandler.
func NewPromotionHandler(service *application.PromotionService) *PromotionHandler {
	return &PromotionHandler{service: service}
}

// RegisterRoutes registers the public validation route and admin CRUD routes.
func (h *PromotionHandler) RegisterRoutes(r *gin.RouterGroup, adminAuth gin.HandlerFunc) {
	r.POST("/promotions/validate", h.ValidatePromotion)

	admin := r.Group("/admin/promotions")
	admin.Use(adminAuth)
	{
		admin.GET("", h.ListPromotions)
		admin.POST("", h.CreatePromotion)
		admin.POST("/:id/deactivate", h.DeactivatePromotion)
		admin.DELETE("/:id", h.DeletePromotion)
	}
}

// ValidatePromotion handles POST /api/v1/promotions/validate.
func (h *PromotionHandler) ValidatePromotion(c *gin.Context) {
	var req application.ValidatePromotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.Validate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ListPromotions handles GET /api/v1/admin/promotions.
func (h *PromotionHandler) ListPromotions(c *gin.Context) {
	promotions, err := h.service.ListPromotions(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, promotions)
}

// CreatePromotion handles POST /api/v1/admin/promotions.
func (h *PromotionHandler) CreatePromotion(c *gin.Context) {
	var req application.CreatePromotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	dto, err := h.service.CreatePromotion(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto)
}

// DeactivatePromotion handles POST /api/v1/admin/promotions/:id/deactivate.
func (h *PromotionHandler) DeactivatePromotion(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid promotion ID")
		return
	}

	dto, err := h.service.DeactivatePromotion(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto)
}

// DeletePromotion handles DELETE /api/v1/admin/promotions/:id.
func (h *PromotionHandler) DeletePromotion(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid promotion ID")
		return
	}

	if err := h.service.DeletePromotion(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
