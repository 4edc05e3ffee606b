package dashboard

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/aarogyahq/booking-api/internal/handler"
	dashboardsvc "github.com/aarogyahq/booking-api/internal/service/dashboard"
)

type Handler struct {
	svc *dashboardsvc.Service
}

func NewHandler(svc *dashboardsvc.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	dashboard := rg.Group("/dashboard")
	{
		dashboard.GET("/featured-doctors", h.FeaturedDoctors)
		dashboard.GET("/featured-hospitals", h.FeaturedHospitals)
	}
}

func (h *Handler) FeaturedDoctors(c *gin.Context) {
	doctors, err := h.svc.FeaturedDoctors(c.Request.Context(), limitParam(c))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(doctors))
}

func (h *Handler) FeaturedHospitals(c *gin.Context) {
	hospitals, err := h.svc.FeaturedHospitals(c.Request.Context(), limitParam(c))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(hospitals))
}

// limitParam returns the limit query value; the service clamps it.
func limitParam(c *gin.Context) int {
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil {
		return 0
	}
	return limit
}
