package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yingxuHou/MeiHuaXinYi/domain"
)

// AuthServiceImpl implements domain.AuthService
type AuthServiceImpl struct {
	userRepo         domain.UserRepository
	passwordSvc      domain.PasswordService
	tokenSvc         domain.TokenService
	initialFreeCount int
}

// NewAuthService creates a new auth service. New accounts start with
// initialFreeCount free divinations.
func NewAuthService(
	userRepo domain.UserRepository,
	passwordSvc domain.PasswordService,
	tokenSvc domain.TokenService,
	initialFreeCount int,
) domain.AuthService {
	return &AuthServiceImpl{
		userRepo:         userRepo,
		passwordSvc:      passwordSvc,
		tokenSvc:         tokenSvc,
		initialFreeCount: initialFreeCount,
	}
}

// Register implements domain.AuthService
func (s *AuthServiceImpl) Register(ctx context.Context, email, password, nickname string) (*domain.AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, domain.ErrUserAlreadyExists
	}
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("checking existing user: %w", err)
	}

	hashed, err := s.passwordSvc.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	if nickname == "" {
		// default to the email local part, as the original onboarding does
		nickname = email[:strings.Index(email, "@")]
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: hashed,
		Nickname:     nickname,
		FreeCount:    s.initialFreeCount,
		TotalCount:   0,
		IsActive:     true,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrUserAlreadyExists) {
			return nil, domain.ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.issueTokens(user)
}

// Login implements domain.AuthService
func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	user, err := s.userRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, domain.ErrUserInactive
	}

	if !s.passwordSvc.Verify(user.PasswordHash, password) {
		return nil, domain.ErrInvalidCredentials
	}

	now := time.Now()
	if err := s.userRepo.TouchLastLogin(ctx, user.ID, now); err != nil {
		return nil, fmt.Errorf("failed to record login time: %w", err)
	}
	user.LastLoginAt = &now

	return s.issueTokens(user)
}

// Refresh implements domain.AuthService. Only tokens carrying the refresh
// type marker are accepted.
func (s *AuthServiceImpl) Refresh(ctx context.Context, refreshToken string) (*domain.AuthResult, error) {
	claims, err := s.tokenSvc.VerifyRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	if !user.IsActive {
		return nil, domain.ErrUserNotFound
	}

	return s.issueTokens(user)
}

// ResolveUser implements domain.AuthService: it verifies an access token and
// resolves it to an active user record. Inactive accounts are rejected
// regardless of token validity.
func (s *AuthServiceImpl) ResolveUser(ctx context.Context, accessToken string) (*domain.User, error) {
	claims, err := s.tokenSvc.VerifyAccessToken(accessToken)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	if !user.IsActive {
		return nil, domain.ErrUserNotFound
	}

	return user, nil
}

func (s *AuthServiceImpl) issueTokens(user *domain.User) (*domain.AuthResult, error) {
	accessToken, err := s.tokenSvc.IssueAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue access token: %w", err)
	}
	refreshToken, err := s.tokenSvc.IssueRefreshToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue refresh token: %w", err)
	}

	return &domain.AuthResult{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.tokenSvc.AccessTTL().Seconds()),
	}, nil
}
