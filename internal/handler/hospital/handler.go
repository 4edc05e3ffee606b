package hospital

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/aarogyahq/booking-api/internal/handler"
	"github.com/aarogyahq/booking-api/internal/middleware"
	"github.com/aarogyahq/booking-api/internal/model"
	hospitalsvc "github.com/aarogyahq/booking-api/internal/service/hospital"
	apperrors "github.com/aarogyahq/booking-api/pkg/errors"
)

type Handler struct {
	svc    *hospitalsvc.Service
	authMW *middleware.AuthMiddleware
}

func NewHandler(svc *hospitalsvc.Service, authMW *middleware.AuthMiddleware) *Handler {
	return &Handler{svc: svc, authMW: authMW}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	hospitals := rg.Group("/hospitals")
	{
		hospitals.GET("", h.List)
		hospitals.GET("/:id", h.Get)
		hospitals.GET("/:id/doctors", h.ListDoctors)

		dashboard := hospitals.Group("")
		dashboard.Use(h.authMW.RequireCapability(func(caps model.Capabilities) bool {
			return caps.ViewAdminDashboard
		}))
		dashboard.GET("/admin-dashboard/:hospitalId", h.AdminDashboard)

		manage := hospitals.Group("")
		manage.Use(h.authMW.RequireRole(model.RoleAdmin))
		{
			manage.POST("", h.Create)
			manage.PUT("/:id", h.Update)
			manage.DELETE("/:id", h.Delete)
		}
	}
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreateHospitalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperrors.BadRequest(err.Error(), err))
		return
	}

	hospital, err := h.svc.Create(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(hospital))
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(apperrors.BadRequest("invalid hospital ID", err))
		return
	}

	hospital, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(hospital))
}

func (h *Handler) List(c *gin.Context) {
	hospitals, err := h.svc.List(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(hospitals))
}

func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(apperrors.BadRequest("invalid hospital ID", err))
		return
	}

	var req model.UpdateHospitalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperrors.BadRequest(err.Error(), err))
		return
	}

	hospital, err := h.svc.Update(c.Request.Context(), id, &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(hospital))
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(apperrors.BadRequest("invalid hospital ID", err))
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) ListDoctors(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(apperrors.BadRequest("invalid hospital ID", err))
		return
	}

	doctors, err := h.svc.ListDoctors(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(doctors))
}

func (h *Handler) AdminDashboard(c *gin.Context) {
	id, err := uuid.Parse(c.Param("hospitalId"))
	if err != nil {
		c.Error(apperrors.BadRequest("invalid hospital ID", err))
		return
	}

	dashboard, err := h.svc.AdminDashboard(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(dashboard))
}
