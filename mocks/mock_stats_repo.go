package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"spesen/internal/domain"
)

// MockStatsRepo is a mock implementation of port.StatsRepository.
type MockStatsRepo struct {
	mock.Mock
}

func (m *MockStatsRepo) Overview(ctx context.Context) (*domain.StatsOverview, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StatsOverview), args.Error(1)
}
