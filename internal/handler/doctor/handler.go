package doctor

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/aarogyahq/booking-api/internal/handler"
	"github.com/aarogyahq/booking-api/internal/middleware"
	"github.com/aarogyahq/booking-api/internal/model"
	doctorsvc "github.com/aarogyahq/booking-api/internal/service/doctor"
	apperrors "github.com/aarogyahq/booking-api/pkg/errors"
)

type Handler struct {
	svc    *doctorsvc.Service
	authMW *middleware.AuthMiddleware
}

func NewHandler(svc *doctorsvc.Service, authMW *middleware.AuthMiddleware) *Handler {
	return &Handler{svc: svc, authMW: authMW}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	doctors := rg.Group("/doctors")
	{
		doctors.GET("/unassigned", h.ListUnassigned)
		doctors.GET("/responders", h.Responders)
		doctors.GET("/my-doctors", h.MyDoctors)
		doctors.GET("/info/:userId", h.GetInfo)

		manage := doctors.Group("")
		manage.Use(h.authMW.RequireRole(model.RoleAdmin, model.RoleDoctor, model.RoleHospitalAdmin))
		{
			manage.POST("/info", h.UpsertInfo)
			manage.POST("/responders", h.AssignResponder)
			manage.DELETE("/responders", h.RemoveResponder)
		}
	}
}

func (h *Handler) UpsertInfo(c *gin.Context) {
	var req model.UpsertDoctorInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperrors.BadRequest(err.Error(), err))
		return
	}

	info, err := h.svc.UpsertInfo(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(info))
}

func (h *Handler) GetInfo(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		c.Error(apperrors.BadRequest("invalid user ID", err))
		return
	}

	info, err := h.svc.GetInfo(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(info))
}

func (h *Handler) ListUnassigned(c *gin.Context) {
	doctors, err := h.svc.ListUnassigned(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(doctors))
}

func (h *Handler) Responders(c *gin.Context) {
	doctorID, err := uuid.Parse(c.Query("doctor_id"))
	if err != nil {
		c.Error(apperrors.BadRequest("invalid doctor ID", err))
		return
	}

	resp, err := h.svc.Responders(c.Request.Context(), doctorID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(resp))
}

func (h *Handler) MyDoctors(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	if userID == uuid.Nil {
		c.Error(apperrors.Unauthorized(nil))
		return
	}

	doctors, err := h.svc.MyDoctors(c.Request.Context(), userID, middleware.CurrentRoles(c))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(doctors))
}

type responderRequest struct {
	DoctorID    uuid.UUID `json:"doctor_id" binding:"required"`
	SecretaryID uuid.UUID `json:"secretary_id" binding:"required"`
}

func (h *Handler) AssignResponder(c *gin.Context) {
	var req responderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperrors.BadRequest(err.Error(), err))
		return
	}

	if err := h.svc.AssignSecretary(c.Request.Context(), req.DoctorID, req.SecretaryID); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(nil))
}

func (h *Handler) RemoveResponder(c *gin.Context) {
	var req responderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperrors.BadRequest(err.Error(), err))
		return
	}

	if err := h.svc.RemoveSecretary(c.Request.Context(), req.DoctorID, req.SecretaryID); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}
