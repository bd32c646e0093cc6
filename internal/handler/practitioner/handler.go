package practitioner

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/multiclinicas/clinic-api/internal/handler"
	"github.com/multiclinicas/clinic-api/internal/middleware"
	"github.com/multiclinicas/clinic-api/internal/model"
	practitionerService "github.com/multiclinicas/clinic-api/internal/service/practitioner"
	apperrors "github.com/multiclinicas/clinic-api/pkg/errors"
)

type Handler struct {
	service practitionerService.PractitionerServicer
}

func NewHandler(service practitionerService.PractitionerServicer) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	practitioners := r.Group("/practitioners")
	{
		practitioners.POST("", h.Create)
		practitioners.GET("", h.List)
		practitioners.GET("/:id", h.Get)
		practitioners.PUT("/:id", h.Update)
		practitioners.DELETE("/:id", h.Delete)
	}
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreatePractitionerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BindError(c, err)
		return
	}

	p, err := h.service.Create(c.Request.Context(), middleware.ClinicID(c), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(p))
}

// List returns every practitioner for the clinic; ?active=true narrows to
// active ones.
func (h *Handler) List(c *gin.Context) {
	clinicID := middleware.ClinicID(c)

	var (
		practitioners []*model.Practitioner
		err           error
	)
	if c.Query("active") == "true" {
		practitioners, err = h.service.ListActiveByClinic(c.Request.Context(), clinicID)
	} else {
		practitioners, err = h.service.ListByClinic(c.Request.Context(), clinicID)
	}
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(practitioners))
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.Error(c, apperrors.BadRequest("invalid practitioner ID", err))
		return
	}

	p, err := h.service.GetByIDAndClinic(c.Request.Context(), id, middleware.ClinicID(c))
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(p))
}

func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.Error(c, apperrors.BadRequest("invalid practitioner ID", err))
		return
	}

	var req model.UpdatePractitionerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BindError(c, err)
		return
	}

	p, err := h.service.Update(c.Request.Context(), id, middleware.ClinicID(c), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(p))
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.Error(c, apperrors.BadRequest("invalid practitioner ID", err))
		return
	}

	if err := h.service.Delete(c.Request.Context(), id, middleware.ClinicID(c)); err != nil {
		handler.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
