package specialty

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/multiclinicas/clinic-api/internal/handler"
	"github.com/multiclinicas/clinic-api/internal/middleware"
	"github.com/multiclinicas/clinic-api/internal/model"
	specialtyService "github.com/multiclinicas/clinic-api/internal/service/specialty"
	apperrors "github.com/multiclinicas/clinic-api/pkg/errors"
)

type Handler struct {
	service specialtyService.SpecialtyServicer
}

func NewHandler(service specialtyService.SpecialtyServicer) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	specialties := r.Group("/specialties")
	{
		specialties.POST("", h.Create)
		specialties.GET("", h.List)
		specialties.GET("/:id", h.Get)
		specialties.PUT("/:id", h.Update)
		specialties.DELETE("/:id", h.Delete)
	}
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreateSpecialtyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BindError(c, err)
		return
	}

	sp, err := h.service.Create(c.Request.Context(), middleware.ClinicID(c), req.Name)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(sp))
}

func (h *Handler) List(c *gin.Context) {
	specialties, err := h.service.ListByClinic(c.Request.Context(), middleware.ClinicID(c))
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(specialties))
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.Error(c, apperrors.BadRequest("invalid specialty ID", err))
		return
	}

	sp, err := h.service.GetByIDAndClinic(c.Request.Context(), id, middleware.ClinicID(c))
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(sp))
}

func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.Error(c, apperrors.BadRequest("invalid specialty ID", err))
		return
	}

	var req model.UpdateSpecialtyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BindError(c, err)
		return
	}

	sp, err := h.service.Update(c.Request.Context(), id, middleware.ClinicID(c), req.Name)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(sp))
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.Error(c, apperrors.BadRequest("invalid specialty ID", err))
		return
	}

	if err := h.service.Delete(c.Request.Context(), id, middleware.ClinicID(c)); err != nil {
		handler.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
