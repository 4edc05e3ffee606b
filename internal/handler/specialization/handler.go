package specialization

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/aarogyahq/booking-api/internal/handler"
	"github.com/aarogyahq/booking-api/internal/middleware"
	"github.com/aarogyahq/booking-api/internal/model"
	specsvc "github.com/aarogyahq/booking-api/internal/service/specialization"
	apperrors "github.com/aarogyahq/booking-api/pkg/errors"
)

type Handler struct {
	svc    *specsvc.Service
	authMW *middleware.AuthMiddleware
}

func NewHandler(svc *specsvc.Service, authMW *middleware.AuthMiddleware) *Handler {
	return &Handler{svc: svc, authMW: authMW}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	specializations := rg.Group("/specializations")
	{
		specializations.GET("", h.List)
		specializations.GET("/:id", h.Get)

		manage := specializations.Group("")
		manage.Use(h.authMW.RequireRole(model.RoleAdmin))
		{
			manage.POST("", h.Create)
			manage.PUT("/:id", h.Update)
			manage.DELETE("/:id", h.Delete)
			manage.POST("/attach/doctor", h.AttachToDoctor)
			manage.DELETE("/attach/doctor", h.DetachFromDoctor)
			manage.POST("/attach/hospital", h.AttachToHospital)
			manage.DELETE("/attach/hospital", h.DetachFromHospital)
		}
	}
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreateSpecializationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperrors.BadRequest(err.Error(), err))
		return
	}

	sp, err := h.svc.Create(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(sp))
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(apperrors.BadRequest("invalid specialization ID", err))
		return
	}

	sp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(sp))
}

func (h *Handler) List(c *gin.Context) {
	specializations, err := h.svc.List(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(specializations))
}

func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(apperrors.BadRequest("invalid specialization ID", err))
		return
	}

	var req model.UpdateSpecializationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperrors.BadRequest(err.Error(), err))
		return
	}

	sp, err := h.svc.Update(c.Request.Context(), id, &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(sp))
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(apperrors.BadRequest("invalid specialization ID", err))
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

type doctorAttachRequest struct {
	DoctorID         uuid.UUID `json:"doctor_id" binding:"required"`
	SpecializationID uuid.UUID `json:"specialization_id" binding:"required"`
}

type hospitalAttachRequest struct {
	HospitalID       uuid.UUID `json:"hospital_id" binding:"required"`
	SpecializationID uuid.UUID `json:"specialization_id" binding:"required"`
}

func (h *Handler) AttachToDoctor(c *gin.Context) {
	var req doctorAttachRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperrors.BadRequest(err.Error(), err))
		return
	}

	if err := h.svc.AttachToDoctor(c.Request.Context(), req.DoctorID, req.SpecializationID); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(nil))
}

func (h *Handler) DetachFromDoctor(c *gin.Context) {
	var req doctorAttachRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperrors.BadRequest(err.Error(), err))
		return
	}

	if err := h.svc.DetachFromDoctor(c.Request.Context(), req.DoctorID, req.SpecializationID); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) AttachToHospital(c *gin.Context) {
	var req hospitalAttachRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperrors.BadRequest(err.Error(), err))
		return
	}

	if err := h.svc.AttachToHospital(c.Request.Context(), req.HospitalID, req.SpecializationID); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(nil))
}

func (h *Handler) DetachFromHospital(c *gin.Context) {
	var req hospitalAttachRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperrors.BadRequest(err.Error(), err))
		return
	}

	if err := h.svc.DetachFromHospital(c.Request.Context(), req.HospitalID, req.SpecializationID); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}
