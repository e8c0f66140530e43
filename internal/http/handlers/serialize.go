package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yingxuHou/MeiHuaXinYi/domain"
)

// userJSON shapes a user for responses. The password hash never leaves the
// service boundary.
func userJSON(u *domain.User) gin.H {
	var birthDate any
	if u.BirthDate != nil {
		birthDate = u.BirthDate.Format("2006-01-02")
	}
	var lastLogin any
	if u.LastLoginAt != nil {
		lastLogin = u.LastLoginAt.UTC().Format(time.RFC3339)
	}
	return gin.H{
		"id":          u.ID,
		"email":       u.Email,
		"nickname":    u.Nickname,
		"avatar":      u.Avatar,
		"gender":      u.Gender,
		"birthDate":   birthDate,
		"freeCount":   u.FreeCount,
		"totalCount":  u.TotalCount,
		"isActive":    u.IsActive,
		"lastLoginAt": lastLogin,
		"createdAt":   u.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func tokensJSON(r *domain.AuthResult) gin.H {
	return gin.H{
		"accessToken":  r.AccessToken,
		"refreshToken": r.RefreshToken,
		"tokenType":    "Bearer",
		"expiresIn":    r.ExpiresIn,
	}
}

func recordJSON(rec *domain.DivinationRecord) gin.H {
	return gin.H{
		"id":             rec.ID,
		"question":       rec.Question,
		"category":       rec.Category,
		"hexagram":       rec.Hexagram,
		"interpretation": rec.Interpretation,
		"status":         rec.Status,
		"isPaid":         rec.IsPaid,
		"castAt":         rec.Metadata.CastAt.UTC().Format(time.RFC3339),
		"createdAt":      rec.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func recordListJSON(records []domain.DivinationRecord) []gin.H {
	out := make([]gin.H, 0, len(records))
	for i := range records {
		out = append(out, recordJSON(&records[i]))
	}
	return out
}
