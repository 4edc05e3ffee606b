package token

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/aarogyahq/booking-api/internal/handler"
	"github.com/aarogyahq/booking-api/internal/middleware"
	"github.com/aarogyahq/booking-api/internal/model"
	"github.com/aarogyahq/booking-api/internal/service/availability"
	"github.com/aarogyahq/booking-api/internal/service/booking"
	apperrors "github.com/aarogyahq/booking-api/pkg/errors"
)

type Handler struct {
	bookingSvc      *booking.Service
	availabilitySvc *availability.Service
}

func NewHandler(bookingSvc *booking.Service, availabilitySvc *availability.Service) *Handler {
	return &Handler{bookingSvc: bookingSvc, availabilitySvc: availabilitySvc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	tokens := rg.Group("/tokens")
	{
		tokens.POST("/book", h.BookToken)
		tokens.GET("/token/:id", h.GetToken)
		tokens.GET("/my", h.ListMyTokens)
		tokens.GET("/doctor/:doctorId", h.ListDoctorTokens)

		tokens.POST("/doctor-availability", h.UpsertAvailability)
		tokens.PATCH("/doctor-availability/counters", h.AdjustCounters)
		tokens.GET("/doctor-availability/next-days", h.NextDays)
	}
}

func (h *Handler) BookToken(c *gin.Context) {
	var req model.BookTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperrors.BadRequest(err.Error(), err))
		return
	}

	resp, err := h.bookingSvc.BookToken(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(resp))
}

func (h *Handler) GetToken(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(apperrors.BadRequest("invalid token ID", err))
		return
	}

	token, err := h.bookingSvc.GetToken(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(token))
}

// ListMyTokens returns the caller's bookings; ?upcoming=true limits to
// today and later.
func (h *Handler) ListMyTokens(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	if userID == uuid.Nil {
		c.Error(apperrors.Unauthorized(nil))
		return
	}

	upcoming := c.Query("upcoming") == "true"
	tokens, err := h.bookingSvc.ListUserTokens(c.Request.Context(), userID, upcoming)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(tokens))
}

func (h *Handler) ListDoctorTokens(c *gin.Context) {
	doctorID, err := uuid.Parse(c.Param("doctorId"))
	if err != nil {
		c.Error(apperrors.BadRequest("invalid doctor ID", err))
		return
	}

	date := c.Query("date")
	if date == "" {
		date = model.Today()
	}

	tokens, err := h.bookingSvc.ListDoctorTokens(c.Request.Context(), doctorID, date)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(tokens))
}

func (h *Handler) UpsertAvailability(c *gin.Context) {
	var req model.UpsertAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperrors.BadRequest(err.Error(), err))
		return
	}

	avail, err := h.availabilitySvc.Upsert(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(avail.View()))
}

func (h *Handler) AdjustCounters(c *gin.Context) {
	var req model.AdjustCountersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperrors.BadRequest(err.Error(), err))
		return
	}

	avail, err := h.availabilitySvc.AdjustCounters(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(avail.View()))
}

func (h *Handler) NextDays(c *gin.Context) {
	doctorID, err := uuid.Parse(c.Query("doctor_id"))
	if err != nil {
		c.Error(apperrors.BadRequest("invalid doctor ID", err))
		return
	}

	days, err := h.availabilitySvc.NextDays(c.Request.Context(), doctorID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{
		"doctor_id":      doctorID,
		"availabilities": days,
	}))
}
