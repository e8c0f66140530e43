package mocks

import (
	"context"
	"time"

	"github.com/yingxuHou/MeiHuaXinYi/domain"
)

// MockOracle implements domain.Oracle interface for testing
type MockOracle struct {
	CastHexagramFunc func(ctx context.Context, question string, at time.Time) (*domain.Hexagram, error)
	InterpretFunc    func(ctx context.Context, question string, hex *domain.Hexagram) (*domain.Interpretation, error)
}

// NewMockOracle creates a new MockOracle with default behaviors
func NewMockOracle() *MockOracle {
	return &MockOracle{}
}

// CastHexagram produces a hexagram for the question
func (m *MockOracle) CastHexagram(ctx context.Context, question string, at time.Time) (*domain.Hexagram, error) {
	if m.CastHexagramFunc != nil {
		return m.CastHexagramFunc(ctx, question, at)
	}
	return &domain.Hexagram{
		Original: domain.Figure{
			Name:   "Qian",
			Symbol: "䷀",
			Number: 1,
			Lines: []string{
				domain.LineYang, domain.LineYang, domain.LineYang,
				domain.LineYang, domain.LineYang, domain.LineYang,
			},
		},
		ChangingLines: []int{1},
	}, nil
}

// Interpret produces a reading for the hexagram
func (m *MockOracle) Interpret(ctx context.Context, question string, hex *domain.Hexagram) (*domain.Interpretation, error) {
	if m.InterpretFunc != nil {
		return m.InterpretFunc(ctx, question, hex)
	}
	return &domain.Interpretation{
		Overall:    "a stable outlook",
		Advice:     []string{"keep calm"},
		Timing:     "soon",
		Confidence: 0.8,
	}, nil
}
