package clinic

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/multiclinicas/clinic-api/internal/handler"
	"github.com/multiclinicas/clinic-api/internal/model"
	clinicService "github.com/multiclinicas/clinic-api/internal/service/clinic"
	apperrors "github.com/multiclinicas/clinic-api/pkg/errors"
)

// Handler exposes the clinic provisioning surface. These routes are not
// tenant scoped; they create and inspect the tenants themselves.
type Handler struct {
	service clinicService.ClinicServicer
}

func NewHandler(service clinicService.ClinicServicer) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	clinics := r.Group("/clinics")
	{
		clinics.POST("", h.Create)
		clinics.GET("", h.List)
		clinics.GET("/:id", h.Get)
	}
}

type createClinicRequest struct {
	Name   string `json:"name" binding:"required,max=150"`
	Status string `json:"status" binding:"omitempty,oneof=active inactive"`
}

func (h *Handler) Create(c *gin.Context) {
	var req createClinicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BindError(c, err)
		return
	}

	if req.Status == "" {
		req.Status = "active"
	}

	clinic := &model.Clinic{
		Name:   req.Name,
		Status: req.Status,
	}
	if err := h.service.CreateClinic(c.Request.Context(), clinic); err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(clinic))
}

func (h *Handler) List(c *gin.Context) {
	clinics, err := h.service.ListClinics(c.Request.Context())
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(clinics))
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.Error(c, apperrors.BadRequest("invalid clinic ID", err))
		return
	}

	clinic, err := h.service.GetClinic(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(clinic))
}
