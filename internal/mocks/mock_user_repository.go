package mocks

import (
	"context"
	"time"

	"github.com/yingxuHou/MeiHuaXinYi/domain"
)

// MockUserRepository implements domain.UserRepository interface for testing
type MockUserRepository struct {
	CreateFunc              func(ctx context.Context, user *domain.User) error
	FindByEmailFunc         func(ctx context.Context, email string) (*domain.User, error)
	FindByIDFunc            func(ctx context.Context, id uint) (*domain.User, error)
	UpdateProfileFunc       func(ctx context.Context, id uint, upd domain.ProfileUpdate) (*domain.User, error)
	TouchLastLoginFunc      func(ctx context.Context, id uint, at time.Time) error
	DecrementFreeCountFunc  func(ctx context.Context, id uint) (int, error)
	IncrementFreeCountFunc  func(ctx context.Context, id uint) (int, error)
	IncrementTotalCountFunc func(ctx context.Context, id uint) (int, error)
}

// NewMockUserRepository creates a new MockUserRepository with default behaviors
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{}
}

// Create creates a new user
func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	return nil
}

// FindByEmail finds a user by email
func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, email)
	}
	return nil, domain.ErrUserNotFound
}

// FindByID finds a user by ID
func (m *MockUserRepository) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, domain.ErrUserNotFound
}

// UpdateProfile updates mutable profile fields
func (m *MockUserRepository) UpdateProfile(ctx context.Context, id uint, upd domain.ProfileUpdate) (*domain.User, error) {
	if m.UpdateProfileFunc != nil {
		return m.UpdateProfileFunc(ctx, id, upd)
	}
	return nil, domain.ErrUserNotFound
}

// TouchLastLogin records the login timestamp
func (m *MockUserRepository) TouchLastLogin(ctx context.Context, id uint, at time.Time) error {
	if m.TouchLastLoginFunc != nil {
		return m.TouchLastLoginFunc(ctx, id, at)
	}
	return nil
}

// DecrementFreeCount atomically charges one free submission
func (m *MockUserRepository) DecrementFreeCount(ctx context.Context, id uint) (int, error) {
	if m.DecrementFreeCountFunc != nil {
		return m.DecrementFreeCountFunc(ctx, id)
	}
	return 0, domain.ErrInsufficientBalance
}

// IncrementFreeCount refunds one free submission
func (m *MockUserRepository) IncrementFreeCount(ctx context.Context, id uint) (int, error) {
	if m.IncrementFreeCountFunc != nil {
		return m.IncrementFreeCountFunc(ctx, id)
	}
	return 1, nil
}

// IncrementTotalCount bumps the lifetime paid counter
func (m *MockUserRepository) IncrementTotalCount(ctx context.Context, id uint) (int, error) {
	if m.IncrementTotalCountFunc != nil {
		return m.IncrementTotalCountFunc(ctx, id)
	}
	return 1, nil
}
