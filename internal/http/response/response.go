// Package response renders the uniform envelope every endpoint speaks:
// {success, data?, error?{code, message, details?}, meta{timestamp, pagination?}}.
// Clients match on error codes, never on message text.
package response

import (
	"errors"
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yingxuHou/MeiHuaXinYi/domain"
)

// Stable error codes. The vocabulary is closed: handlers never invent codes.
const (
	CodeValidationError     = "VALIDATION_ERROR"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeForbidden           = "FORBIDDEN"
	CodeTokenExpired        = "TOKEN_EXPIRED"
	CodeTokenInvalid        = "TOKEN_INVALID"
	CodeUserNotFound        = "USER_NOT_FOUND"
	CodeUserAlreadyExists   = "USER_ALREADY_EXISTS"
	CodeInvalidCredentials  = "INVALID_CREDENTIALS"
	CodeInsufficientBalance = "INSUFFICIENT_BALANCE"
	CodeDivinationNotFound  = "DIVINATION_NOT_FOUND"
	CodeRateLimitExceeded   = "RATE_LIMIT_EXCEEDED"
	CodeNotFound            = "NOT_FOUND"
	CodeInternalError       = "INTERNAL_ERROR"
)

// Envelope is the outer shape of every response body.
type Envelope struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *ErrorDoc `json:"error,omitempty"`
	Meta    Meta      `json:"meta"`
}

// ErrorDoc carries the machine-readable failure description.
type ErrorDoc struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// Meta carries the envelope metadata common to every response.
type Meta struct {
	Timestamp  time.Time   `json:"timestamp"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// Pagination describes one page of a list response.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// NewPagination derives page metadata, rounding total pages up.
func NewPagination(page, limit int, total int64) *Pagination {
	return &Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: int(math.Ceil(float64(total) / float64(limit))),
	}
}

// OK writes a success envelope with the given status and payload.
func OK(c *gin.Context, status int, data any) {
	c.JSON(status, Envelope{
		Success: true,
		Data:    data,
		Meta:    Meta{Timestamp: time.Now().UTC()},
	})
}

// Paginated writes a success envelope carrying list data plus page metadata.
func Paginated(c *gin.Context, data any, p *Pagination) {
	c.JSON(http.StatusOK, Envelope{
		Success: true,
		Data:    data,
		Meta:    Meta{Timestamp: time.Now().UTC(), Pagination: p},
	})
}

// Fail writes an error envelope with an explicit status and code.
func Fail(c *gin.Context, status int, code, message string, details any) {
	c.AbortWithStatusJSON(status, Envelope{
		Success: false,
		Error:   &ErrorDoc{Code: code, Message: message, Details: details},
		Meta:    Meta{Timestamp: time.Now().UTC()},
	})
}

// Error maps a domain error onto the envelope. Unknown errors become
// INTERNAL_ERROR; their detail text is only exposed outside release mode.
func Error(c *gin.Context, err error) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		Fail(c, http.StatusUnprocessableEntity, CodeValidationError, "validation failed", verr.Fields)
		return
	}

	switch {
	case errors.Is(err, domain.ErrUserAlreadyExists):
		Fail(c, http.StatusConflict, CodeUserAlreadyExists, "user already exists", nil)
	case errors.Is(err, domain.ErrInvalidCredentials):
		Fail(c, http.StatusUnauthorized, CodeInvalidCredentials, "invalid email or password", nil)
	case errors.Is(err, domain.ErrUserInactive):
		Fail(c, http.StatusForbidden, CodeForbidden, "account is inactive", nil)
	case errors.Is(err, domain.ErrTokenExpired):
		Fail(c, http.StatusUnauthorized, CodeTokenExpired, "token has expired", nil)
	case errors.Is(err, domain.ErrTokenInvalid), errors.Is(err, domain.ErrTokenVerification):
		Fail(c, http.StatusUnauthorized, CodeTokenInvalid, "token is invalid", nil)
	case errors.Is(err, domain.ErrUnauthorized):
		Fail(c, http.StatusUnauthorized, CodeUnauthorized, "authentication required", nil)
	case errors.Is(err, domain.ErrForbidden):
		Fail(c, http.StatusForbidden, CodeForbidden, "operation not permitted", nil)
	case errors.Is(err, domain.ErrUserNotFound):
		Fail(c, http.StatusNotFound, CodeUserNotFound, "user not found", nil)
	case errors.Is(err, domain.ErrInsufficientBalance):
		Fail(c, http.StatusPaymentRequired, CodeInsufficientBalance, "insufficient balance", nil)
	case errors.Is(err, domain.ErrDivinationNotFound):
		Fail(c, http.StatusNotFound, CodeDivinationNotFound, "divination record not found", nil)
	default:
		var details any
		if gin.Mode() != gin.ReleaseMode {
			details = err.Error()
		}
		Fail(c, http.StatusInternalServerError, CodeInternalError, "internal server error", details)
	}
}

// BadRequest reports a malformed request body as a validation failure.
func BadRequest(c *gin.Context, err error) {
	var details any
	if err != nil {
		details = err.Error()
	}
	Fail(c, http.StatusUnprocessableEntity, CodeValidationError, "invalid request body", details)
}
