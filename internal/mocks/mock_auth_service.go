package mocks

import (
	"context"

	"github.com/yingxuHou/MeiHuaXinYi/domain"
)

// MockAuthService implements domain.AuthService interface for testing
type MockAuthService struct {
	RegisterFunc    func(ctx context.Context, email, password, nickname string) (*domain.AuthResult, error)
	LoginFunc       func(ctx context.Context, email, password string) (*domain.AuthResult, error)
	RefreshFunc     func(ctx context.Context, refreshToken string) (*domain.AuthResult, error)
	ResolveUserFunc func(ctx context.Context, accessToken string) (*domain.User, error)
}

// NewMockAuthService creates a new MockAuthService with default behaviors
func NewMockAuthService() *MockAuthService {
	return &MockAuthService{}
}

func defaultAuthResult() *domain.AuthResult {
	return &domain.AuthResult{
		User:         &domain.User{ID: 1, Email: "seeker@example.com", FreeCount: 10, IsActive: true},
		AccessToken:  "mock_access_token",
		RefreshToken: "mock_refresh_token",
		ExpiresIn:    3600,
	}
}

// Register registers a new user
func (m *MockAuthService) Register(ctx context.Context, email, password, nickname string) (*domain.AuthResult, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, email, password, nickname)
	}
	return defaultAuthResult(), nil
}

// Login authenticates a user
func (m *MockAuthService) Login(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password)
	}
	return defaultAuthResult(), nil
}

// Refresh exchanges a refresh token for a fresh pair
func (m *MockAuthService) Refresh(ctx context.Context, refreshToken string) (*domain.AuthResult, error) {
	if m.RefreshFunc != nil {
		return m.RefreshFunc(ctx, refreshToken)
	}
	return defaultAuthResult(), nil
}

// ResolveUser verifies an access token and loads its user
func (m *MockAuthService) ResolveUser(ctx context.Context, accessToken string) (*domain.User, error) {
	if m.ResolveUserFunc != nil {
		return m.ResolveUserFunc(ctx, accessToken)
	}
	return nil, domain.ErrTokenInvalid
}
