package healthplan

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/multiclinicas/clinic-api/internal/handler"
	"github.com/multiclinicas/clinic-api/internal/middleware"
	"github.com/multiclinicas/clinic-api/internal/model"
	healthplanService "github.com/multiclinicas/clinic-api/internal/service/healthplan"
	apperrors "github.com/multiclinicas/clinic-api/pkg/errors"
)

type Handler struct {
	service healthplanService.HealthPlanServicer
}

func NewHandler(service healthplanService.HealthPlanServicer) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	plans := r.Group("/health-plans")
	{
		plans.POST("", h.Create)
		plans.GET("", h.List)
		plans.GET("/:id", h.Get)
		plans.PUT("/:id", h.Update)
		plans.DELETE("/:id", h.Delete)
	}
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreateHealthPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BindError(c, err)
		return
	}

	plan, err := h.service.Create(c.Request.Context(), middleware.ClinicID(c), req.Name, req.Active)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(plan))
}

// List returns every plan for the clinic; ?active=true narrows to active ones.
func (h *Handler) List(c *gin.Context) {
	clinicID := middleware.ClinicID(c)

	var (
		plans []*model.HealthPlan
		err   error
	)
	if c.Query("active") == "true" {
		plans, err = h.service.ListActiveByClinic(c.Request.Context(), clinicID)
	} else {
		plans, err = h.service.ListByClinic(c.Request.Context(), clinicID)
	}
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(plans))
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.Error(c, apperrors.BadRequest("invalid health plan ID", err))
		return
	}

	plan, err := h.service.GetByIDAndClinic(c.Request.Context(), id, middleware.ClinicID(c))
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(plan))
}

func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.Error(c, apperrors.BadRequest("invalid health plan ID", err))
		return
	}

	var req model.UpdateHealthPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BindError(c, err)
		return
	}

	plan, err := h.service.Update(c.Request.Context(), id, middleware.ClinicID(c), req.Name, req.Active)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(plan))
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.Error(c, apperrors.BadRequest("invalid health plan ID", err))
		return
	}

	if err := h.service.Delete(c.Request.Context(), id, middleware.ClinicID(c)); err != nil {
		handler.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
