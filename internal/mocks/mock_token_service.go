package mocks

import (
	"time"

	"github.com/yingxuHou/MeiHuaXinYi/domain"
)

// MockTokenService implements domain.TokenService interface for testing
type MockTokenService struct {
	IssueAccessTokenFunc   func(user *domain.User) (string, error)
	IssueRefreshTokenFunc  func(user *domain.User) (string, error)
	VerifyAccessTokenFunc  func(token string) (*domain.TokenClaims, error)
	VerifyRefreshTokenFunc func(token string) (*domain.TokenClaims, error)
	AccessTTLFunc          func() time.Duration
}

// NewMockTokenService creates a new MockTokenService with default behaviors
func NewMockTokenService() *MockTokenService {
	return &MockTokenService{}
}

// IssueAccessToken issues an access token
func (m *MockTokenService) IssueAccessToken(user *domain.User) (string, error) {
	if m.IssueAccessTokenFunc != nil {
		return m.IssueAccessTokenFunc(user)
	}
	return "mock_access_token", nil
}

// IssueRefreshToken issues a refresh token
func (m *MockTokenService) IssueRefreshToken(user *domain.User) (string, error) {
	if m.IssueRefreshTokenFunc != nil {
		return m.IssueRefreshTokenFunc(user)
	}
	return "mock_refresh_token", nil
}

// VerifyAccessToken verifies an access token
func (m *MockTokenService) VerifyAccessToken(token string) (*domain.TokenClaims, error) {
	if m.VerifyAccessTokenFunc != nil {
		return m.VerifyAccessTokenFunc(token)
	}
	return nil, domain.ErrTokenInvalid
}

// VerifyRefreshToken verifies a refresh token
func (m *MockTokenService) VerifyRefreshToken(token string) (*domain.TokenClaims, error) {
	if m.VerifyRefreshTokenFunc != nil {
		return m.VerifyRefreshTokenFunc(token)
	}
	return nil, domain.ErrTokenInvalid
}

// AccessTTL reports the configured access token validity window
func (m *MockTokenService) AccessTTL() time.Duration {
	if m.AccessTTLFunc != nil {
		return m.AccessTTLFunc()
	}
	return time.Hour
}
