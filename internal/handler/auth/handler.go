package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/irisclinic/clinic-api/internal/authz"
	"github.com/irisclinic/clinic-api/internal/handler"
	"github.com/irisclinic/clinic-api/internal/middleware"
	"github.com/irisclinic/clinic-api/internal/model"
	"github.com/irisclinic/clinic-api/internal/service/auth"
)

type Handler struct {
	svc    *auth.Service
	policy *authz.Policy
}

func NewHandler(svc *auth.Service, policy *authz.Policy) *Handler {
	return &Handler{svc: svc, policy: policy}
}

// RegisterRoutes wires the public endpoints; registration and user
// administration require an authenticated admin.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup, authMW *middleware.AuthMiddleware) {
	users := r.Group("/users")
	{
		users.POST("/login", h.Login)
		users.POST("/refresh-token", h.RefreshToken)
		users.POST("/logout", h.Logout)
		users.POST("/forgot-password", h.ForgotPassword)
		users.POST("/reset-password", h.ResetPassword)

		protected := users.Group("")
		protected.Use(authMW.Authenticate())
		{
			protected.POST("/register", h.Register)
			protected.GET("/admin/users", h.ListUsers)
			protected.DELETE("/:id", h.DeleteUser)
		}
	}
}

func (h *Handler) Register(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok || !h.policy.CanManageUsers(actor) {
		c.JSON(http.StatusForbidden, handler.NewErrorResponse("access denied, admins only"))
		return
	}

	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	user, err := h.svc.Register(c.Request.Context(), &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(gin.H{"user": user}))
}

func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	resp, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(resp))
}

func (h *Handler) RefreshToken(c *gin.Context) {
	var req model.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusForbidden, handler.NewErrorResponse("access denied"))
		return
	}

	accessToken, err := h.svc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"accessToken": accessToken}))
}

func (h *Handler) Logout(c *gin.Context) {
	var req model.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	if err := h.svc.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"message": "logged out successfully"}))
}

func (h *Handler) ForgotPassword(c *gin.Context) {
	var req model.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	if err := h.svc.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"message": "if the email exists, a reset link will be sent"}))
}

func (h *Handler) ResetPassword(c *gin.Context) {
	var req model.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	if err := h.svc.ResetPassword(c.Request.Context(), req.Token, req.NewPassword); err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"message": "password reset successfully"}))
}

func (h *Handler) ListUsers(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok || !h.policy.CanManageUsers(actor) {
		c.JSON(http.StatusForbidden, handler.NewErrorResponse("access denied, admins only"))
		return
	}

	users, err := h.svc.ListUsers(c.Request.Context(), actor.UserID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"users": users}))
}

func (h *Handler) DeleteUser(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok || !h.policy.CanManageUsers(actor) {
		c.JSON(http.StatusForbidden, handler.NewErrorResponse("access denied, admins only"))
		return
	}

	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid user ID"))
		return
	}

	if err := h.svc.DeleteUser(c.Request.Context(), actor.UserID, targetID); err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"message": "user account deleted successfully"}))
}
