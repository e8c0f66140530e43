package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yingxuHou/MeiHuaXinYi/domain"
	"github.com/yingxuHou/MeiHuaXinYi/internal/http/middleware"
	"github.com/yingxuHou/MeiHuaXinYi/internal/http/response"
)

// UserHandlers handles profile and balance HTTP requests
type UserHandlers struct {
	userSvc domain.UserService
}

// NewUserHandlers creates new user handlers
func NewUserHandlers(userSvc domain.UserService) *UserHandlers {
	return &UserHandlers{userSvc: userSvc}
}

// UpdateProfileRequest represents a partial profile update. Omitted fields
// leave the stored value untouched.
type UpdateProfileRequest struct {
	Nickname  *string `json:"nickname,omitempty"`
	Gender    *string `json:"gender,omitempty"`
	BirthDate *string `json:"birthDate,omitempty"`
}

// Profile returns the caller's profile with record counts
func (h *UserHandlers) Profile(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, response.CodeUnauthorized, "authentication required", nil)
		return
	}

	profile, counts, err := h.userSvc.Profile(c.Request.Context(), user.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, gin.H{
		"user":    userJSON(profile),
		"records": counts,
	})
}

// UpdateProfile applies a partial profile update
func (h *UserHandlers) UpdateProfile(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, response.CodeUnauthorized, "authentication required", nil)
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}

	upd := domain.ProfileUpdate{
		Nickname: req.Nickname,
		Gender:   req.Gender,
	}
	if req.BirthDate != nil {
		t, err := time.Parse("2006-01-02", *req.BirthDate)
		if err != nil {
			response.Fail(c, http.StatusUnprocessableEntity, response.CodeValidationError,
				"validation failed", []domain.FieldError{{Field: "birthDate", Message: "must be YYYY-MM-DD"}})
			return
		}
		upd.BirthDate = &t
	}

	updated, err := h.userSvc.UpdateProfile(c.Request.Context(), user.ID, upd)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, gin.H{
		"user": userJSON(updated),
	})
}

// Stats aggregates the caller's divination activity
func (h *UserHandlers) Stats(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, response.CodeUnauthorized, "authentication required", nil)
		return
	}

	stats, recent, err := h.userSvc.Stats(c.Request.Context(), user)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, gin.H{
		"stats":  stats,
		"recent": recordListJSON(recent),
		"userBalance": gin.H{
			"freeCount":   user.FreeCount,
			"totalCount":  user.TotalCount,
			"memberSince": user.CreatedAt.UTC().Format(time.RFC3339),
		},
	})
}

// DecrementFree charges one free submission and echoes the stored balance
func (h *UserHandlers) DecrementFree(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, response.CodeUnauthorized, "authentication required", nil)
		return
	}

	freeCount, err := h.userSvc.DecrementFree(c.Request.Context(), user.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, gin.H{
		"freeCount": freeCount,
	})
}

// IncrementTotal bumps the lifetime paid counter and echoes the stored value
func (h *UserHandlers) IncrementTotal(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, response.CodeUnauthorized, "authentication required", nil)
		return
	}

	totalCount, err := h.userSvc.IncrementTotal(c.Request.Context(), user.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, gin.H{
		"totalCount": totalCount,
	})
}
