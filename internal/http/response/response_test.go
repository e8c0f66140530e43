package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yingxuHou/MeiHuaXinYi/domain"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func render(t *testing.T, fn func(c *gin.Context)) (int, Envelope) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	fn(c)

	var env Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w.Code, env
}

func TestError_DomainMapping(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
		wantCode   string
	}{
		{domain.ErrUserAlreadyExists, http.StatusConflict, CodeUserAlreadyExists},
		{domain.ErrInvalidCredentials, http.StatusUnauthorized, CodeInvalidCredentials},
		{domain.ErrUserInactive, http.StatusForbidden, CodeForbidden},
		{domain.ErrTokenExpired, http.StatusUnauthorized, CodeTokenExpired},
		{domain.ErrTokenInvalid, http.StatusUnauthorized, CodeTokenInvalid},
		{domain.ErrTokenVerification, http.StatusUnauthorized, CodeTokenInvalid},
		{domain.ErrUnauthorized, http.StatusUnauthorized, CodeUnauthorized},
		{domain.ErrForbidden, http.StatusForbidden, CodeForbidden},
		{domain.ErrUserNotFound, http.StatusNotFound, CodeUserNotFound},
		{domain.ErrInsufficientBalance, http.StatusPaymentRequired, CodeInsufficientBalance},
		{domain.ErrDivinationNotFound, http.StatusNotFound, CodeDivinationNotFound},
		{errors.New("boom"), http.StatusInternalServerError, CodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.wantCode, func(t *testing.T) {
			status, env := render(t, func(c *gin.Context) { Error(c, tt.err) })
			assert.Equal(t, tt.wantStatus, status)
			assert.False(t, env.Success)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.wantCode, env.Error.Code)
			assert.False(t, env.Meta.Timestamp.IsZero())
		})
	}

	t.Run("wrapped sentinels still map", func(t *testing.T) {
		status, env := render(t, func(c *gin.Context) {
			Error(c, fmt.Errorf("charging balance: %w", domain.ErrInsufficientBalance))
		})
		assert.Equal(t, http.StatusPaymentRequired, status)
		assert.Equal(t, CodeInsufficientBalance, env.Error.Code)
	})
}

func TestError_ValidationDetails(t *testing.T) {
	err := domain.NewValidationError(
		domain.FieldError{Field: "question", Message: "must be between 5 and 500 characters"},
		domain.FieldError{Field: "category", Message: "unknown category"},
	)

	status, env := render(t, func(c *gin.Context) { Error(c, err) })
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, CodeValidationError, env.Error.Code)

	details, ok := env.Error.Details.([]any)
	require.True(t, ok)
	assert.Len(t, details, 2)
}

func TestOK(t *testing.T) {
	status, env := render(t, func(c *gin.Context) {
		OK(c, http.StatusCreated, gin.H{"id": "rec-1"})
	})
	assert.Equal(t, http.StatusCreated, status)
	assert.True(t, env.Success)
	assert.Nil(t, env.Error)
	assert.NotNil(t, env.Data)
}

func TestPaginated(t *testing.T) {
	status, env := render(t, func(c *gin.Context) {
		Paginated(c, []string{"a", "b"}, NewPagination(2, 10, 23))
	})
	assert.Equal(t, http.StatusOK, status)
	require.NotNil(t, env.Meta.Pagination)
	assert.Equal(t, 2, env.Meta.Pagination.Page)
	assert.Equal(t, int64(23), env.Meta.Pagination.Total)
	assert.Equal(t, 3, env.Meta.Pagination.TotalPages, "total pages rounds up")
}

func TestNewPagination_Exact(t *testing.T) {
	p := NewPagination(1, 10, 20)
	assert.Equal(t, 2, p.TotalPages)
}
