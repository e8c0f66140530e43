package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yingxuHou/MeiHuaXinYi/domain"
	"github.com/yingxuHou/MeiHuaXinYi/internal/http/middleware"
	"github.com/yingxuHou/MeiHuaXinYi/internal/http/response"
)

// AuthHandlers handles authentication HTTP requests
type AuthHandlers struct {
	authSvc domain.AuthService
}

// NewAuthHandlers creates new auth handlers
func NewAuthHandlers(authSvc domain.AuthService) *AuthHandlers {
	return &AuthHandlers{authSvc: authSvc}
}

// RegisterRequest represents registration request
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Nickname string `json:"nickname,omitempty"`
}

// LoginRequest represents login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest represents token refresh request
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// Register handles user registration
func (h *AuthHandlers) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}

	result, err := h.authSvc.Register(c.Request.Context(), req.Email, req.Password, req.Nickname)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusCreated, gin.H{
		"user":   userJSON(result.User),
		"tokens": tokensJSON(result),
	})
}

// Login handles user login
func (h *AuthHandlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, gin.H{
		"user":   userJSON(result.User),
		"tokens": tokensJSON(result),
	})
}

// Refresh exchanges a refresh token for a fresh token pair
func (h *AuthHandlers) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}

	result, err := h.authSvc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, gin.H{
		"tokens": tokensJSON(result),
	})
}

// Verify reports whether the presented token resolves to an active user.
// Runs behind AuthRequired, so reaching it means the token held up.
func (h *AuthHandlers) Verify(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, response.CodeUnauthorized, "authentication required", nil)
		return
	}

	response.OK(c, http.StatusOK, gin.H{
		"valid": true,
		"user":  userJSON(user),
	})
}

// Logout is a no-op success: tokens are stateless and there is no
// revocation list, so the client simply discards its pair.
func (h *AuthHandlers) Logout(c *gin.Context) {
	response.OK(c, http.StatusOK, gin.H{
		"message": "logged out",
	})
}
