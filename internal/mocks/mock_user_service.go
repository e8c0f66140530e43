package mocks

import (
	"context"

	"github.com/yingxuHou/MeiHuaXinYi/domain"
)

// MockUserService implements domain.UserService interface for testing
type MockUserService struct {
	ProfileFunc        func(ctx context.Context, userID uint) (*domain.User, domain.StatusCounts, error)
	UpdateProfileFunc  func(ctx context.Context, userID uint, upd domain.ProfileUpdate) (*domain.User, error)
	StatsFunc          func(ctx context.Context, user *domain.User) ([]domain.CategoryStat, []domain.DivinationRecord, error)
	DecrementFreeFunc  func(ctx context.Context, userID uint) (int, error)
	IncrementTotalFunc func(ctx context.Context, userID uint) (int, error)
}

// NewMockUserService creates a new MockUserService with default behaviors
func NewMockUserService() *MockUserService {
	return &MockUserService{}
}

// Profile loads a user with their record counts
func (m *MockUserService) Profile(ctx context.Context, userID uint) (*domain.User, domain.StatusCounts, error) {
	if m.ProfileFunc != nil {
		return m.ProfileFunc(ctx, userID)
	}
	return &domain.User{ID: userID, Email: "seeker@example.com", FreeCount: 10, IsActive: true}, domain.StatusCounts{}, nil
}

// UpdateProfile applies a partial profile update
func (m *MockUserService) UpdateProfile(ctx context.Context, userID uint, upd domain.ProfileUpdate) (*domain.User, error) {
	if m.UpdateProfileFunc != nil {
		return m.UpdateProfileFunc(ctx, userID, upd)
	}
	return &domain.User{ID: userID, Email: "seeker@example.com", IsActive: true}, nil
}

// Stats aggregates the user's divination activity
func (m *MockUserService) Stats(ctx context.Context, user *domain.User) ([]domain.CategoryStat, []domain.DivinationRecord, error) {
	if m.StatsFunc != nil {
		return m.StatsFunc(ctx, user)
	}
	return nil, nil, nil
}

// DecrementFree charges one free submission
func (m *MockUserService) DecrementFree(ctx context.Context, userID uint) (int, error) {
	if m.DecrementFreeFunc != nil {
		return m.DecrementFreeFunc(ctx, userID)
	}
	return 0, domain.ErrInsufficientBalance
}

// IncrementTotal bumps the lifetime paid counter
func (m *MockUserService) IncrementTotal(ctx context.Context, userID uint) (int, error) {
	if m.IncrementTotalFunc != nil {
		return m.IncrementTotalFunc(ctx, userID)
	}
	return 1, nil
}
