package mocks

import (
	"context"

	"github.com/yingxuHou/MeiHuaXinYi/domain"
)

// MockDivinationService implements domain.DivinationService interface for testing
type MockDivinationService struct {
	SubmitFunc  func(ctx context.Context, user *domain.User, in domain.SubmitInput) (*domain.SubmissionResult, error)
	ResultFunc  func(ctx context.Context, userID uint, id string) (*domain.DivinationRecord, error)
	HistoryFunc func(ctx context.Context, userID uint, f domain.HistoryFilter) (*domain.HistoryPage, error)
	DeleteFunc  func(ctx context.Context, userID uint, id string) error
	StatsFunc   func(ctx context.Context, user *domain.User) ([]domain.CategoryStat, error)
}

// NewMockDivinationService creates a new MockDivinationService with default behaviors
func NewMockDivinationService() *MockDivinationService {
	return &MockDivinationService{}
}

// Submit runs a divination for the user
func (m *MockDivinationService) Submit(ctx context.Context, user *domain.User, in domain.SubmitInput) (*domain.SubmissionResult, error) {
	if m.SubmitFunc != nil {
		return m.SubmitFunc(ctx, user, in)
	}
	rec := &domain.DivinationRecord{
		ID:       "mock-record-id",
		UserID:   user.ID,
		Question: in.Question,
		Category: in.Category,
		Status:   domain.StatusCompleted,
	}
	return &domain.SubmissionResult{Record: rec, FreeCount: user.FreeCount - 1, TotalCount: user.TotalCount}, nil
}

// Result loads one owner-scoped record
func (m *MockDivinationService) Result(ctx context.Context, userID uint, id string) (*domain.DivinationRecord, error) {
	if m.ResultFunc != nil {
		return m.ResultFunc(ctx, userID, id)
	}
	return nil, domain.ErrDivinationNotFound
}

// History pages through a user's records
func (m *MockDivinationService) History(ctx context.Context, userID uint, f domain.HistoryFilter) (*domain.HistoryPage, error) {
	if m.HistoryFunc != nil {
		return m.HistoryFunc(ctx, userID, f)
	}
	return &domain.HistoryPage{Page: f.Page, Limit: f.Limit}, nil
}

// Delete removes one owner-scoped record
func (m *MockDivinationService) Delete(ctx context.Context, userID uint, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, userID, id)
	}
	return domain.ErrDivinationNotFound
}

// Stats aggregates the user's records per category
func (m *MockDivinationService) Stats(ctx context.Context, user *domain.User) ([]domain.CategoryStat, error) {
	if m.StatsFunc != nil {
		return m.StatsFunc(ctx, user)
	}
	return nil, nil
}
