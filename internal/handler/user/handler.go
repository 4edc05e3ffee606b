package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/aarogyahq/booking-api/internal/handler"
	"github.com/aarogyahq/booking-api/internal/middleware"
	"github.com/aarogyahq/booking-api/internal/model"
	authsvc "github.com/aarogyahq/booking-api/internal/service/auth"
	usersvc "github.com/aarogyahq/booking-api/internal/service/user"
	apperrors "github.com/aarogyahq/booking-api/pkg/errors"
)

type Handler struct {
	authSvc *authsvc.Service
	userSvc *usersvc.Service
	authMW  *middleware.AuthMiddleware
}

func NewHandler(authSvc *authsvc.Service, userSvc *usersvc.Service, authMW *middleware.AuthMiddleware) *Handler {
	return &Handler{authSvc: authSvc, userSvc: userSvc, authMW: authMW}
}

// RegisterPublicRoutes mounts the unauthenticated auth endpoints.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	users := rg.Group("/users")
	{
		users.POST("/signup", h.Signup)
		users.POST("/login", h.Login)
		users.POST("/refresh", h.Refresh)
	}
}

// RegisterRoutes mounts the authenticated user endpoints.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	users := rg.Group("/users")
	{
		users.GET("/user/:userId", h.GetUser)
		users.PUT("/:userId", h.UpdateUser)
		users.GET("/responsibilities/:userId", h.GetResponsibilities)

		admin := users.Group("")
		admin.Use(h.authMW.RequireCapability(func(caps model.Capabilities) bool {
			return caps.ManageBusinessUsers
		}))
		{
			admin.POST("/business-user", h.CreateBusinessUser)
			admin.GET("/business-users", h.ListBusinessUsers)
			admin.GET("/potential-hospital-admins", h.ListPotentialHospitalAdmins)
		}
	}
}

func (h *Handler) Signup(c *gin.Context) {
	var req model.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperrors.BadRequest(err.Error(), err))
		return
	}

	resp, err := h.authSvc.Signup(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(resp))
}

func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperrors.BadRequest(err.Error(), err))
		return
	}

	resp, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(resp))
}

func (h *Handler) Refresh(c *gin.Context) {
	var req model.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperrors.BadRequest(err.Error(), err))
		return
	}

	tokens, err := h.authSvc.Refresh(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(tokens))
}

func (h *Handler) GetUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		c.Error(apperrors.BadRequest("invalid user ID", err))
		return
	}

	user, err := h.userSvc.Get(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(user))
}

// UpdateUser edits a profile. Callers may only edit themselves unless they
// hold the admin role.
func (h *Handler) UpdateUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		c.Error(apperrors.BadRequest("invalid user ID", err))
		return
	}

	if id != middleware.CurrentUserID(c) && !model.HasRole(middleware.CurrentRoles(c), model.RoleAdmin) {
		c.Error(apperrors.Forbidden("cannot update another user's profile"))
		return
	}

	var req model.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperrors.BadRequest(err.Error(), err))
		return
	}

	user, err := h.userSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(user))
}

func (h *Handler) GetResponsibilities(c *gin.Context) {
	id, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		c.Error(apperrors.BadRequest("invalid user ID", err))
		return
	}

	resp, err := h.userSvc.GetResponsibilities(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(resp))
}

func (h *Handler) CreateBusinessUser(c *gin.Context) {
	var req model.BusinessUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperrors.BadRequest(err.Error(), err))
		return
	}

	user, err := h.userSvc.CreateBusinessUser(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(user))
}

func (h *Handler) ListBusinessUsers(c *gin.Context) {
	users, err := h.userSvc.ListBusinessUsers(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(users))
}

func (h *Handler) ListPotentialHospitalAdmins(c *gin.Context) {
	users, err := h.userSvc.ListPotentialHospitalAdmins(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(users))
}
