package mocks

import (
	"context"

	"github.com/yingxuHou/MeiHuaXinYi/domain"
)

// MockDivinationRepository implements domain.DivinationRepository for testing
type MockDivinationRepository struct {
	CreateFunc          func(ctx context.Context, rec *domain.DivinationRecord) error
	FindByIDFunc        func(ctx context.Context, id string, userID uint) (*domain.DivinationRecord, error)
	ListFunc            func(ctx context.Context, userID uint, f domain.HistoryFilter) ([]domain.DivinationRecord, int64, error)
	RecentFunc          func(ctx context.Context, userID uint, limit int) ([]domain.DivinationRecord, error)
	DeleteFunc          func(ctx context.Context, id string, userID uint) error
	StatsByCategoryFunc func(ctx context.Context, userID uint) ([]domain.CategoryStat, error)
	CountByStatusFunc   func(ctx context.Context, userID uint) (domain.StatusCounts, error)
}

// NewMockDivinationRepository creates a new MockDivinationRepository with default behaviors
func NewMockDivinationRepository() *MockDivinationRepository {
	return &MockDivinationRepository{}
}

// Create stores a new record
func (m *MockDivinationRepository) Create(ctx context.Context, rec *domain.DivinationRecord) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, rec)
	}
	if rec.ID == "" {
		rec.ID = "mock-record-id"
	}
	return nil
}

// FindByID loads an owner-scoped record
func (m *MockDivinationRepository) FindByID(ctx context.Context, id string, userID uint) (*domain.DivinationRecord, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id, userID)
	}
	return nil, domain.ErrDivinationNotFound
}

// List pages through a user's history
func (m *MockDivinationRepository) List(ctx context.Context, userID uint, f domain.HistoryFilter) ([]domain.DivinationRecord, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, userID, f)
	}
	return nil, 0, nil
}

// Recent loads the latest completed records
func (m *MockDivinationRepository) Recent(ctx context.Context, userID uint, limit int) ([]domain.DivinationRecord, error) {
	if m.RecentFunc != nil {
		return m.RecentFunc(ctx, userID, limit)
	}
	return nil, nil
}

// Delete removes an owner-scoped record
func (m *MockDivinationRepository) Delete(ctx context.Context, id string, userID uint) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id, userID)
	}
	return domain.ErrDivinationNotFound
}

// StatsByCategory aggregates counts per category and status
func (m *MockDivinationRepository) StatsByCategory(ctx context.Context, userID uint) ([]domain.CategoryStat, error) {
	if m.StatsByCategoryFunc != nil {
		return m.StatsByCategoryFunc(ctx, userID)
	}
	return nil, nil
}

// CountByStatus aggregates counts per lifecycle state
func (m *MockDivinationRepository) CountByStatus(ctx context.Context, userID uint) (domain.StatusCounts, error) {
	if m.CountByStatusFunc != nil {
		return m.CountByStatusFunc(ctx, userID)
	}
	return domain.StatusCounts{}, nil
}
