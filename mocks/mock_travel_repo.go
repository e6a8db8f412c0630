package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"spesen/internal/domain"
	"spesen/internal/port"
)

// MockTravelRepo is a mock implementation of port.TravelRepository.
type MockTravelRepo struct {
	mock.Mock
}

func (m *MockTravelRepo) Create(ctx context.Context, travel *domain.Travel) error {
	args := m.Called(ctx, travel)
	return args.Error(0)
}

func (m *MockTravelRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Travel, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Travel), args.Error(1)
}

func (m *MockTravelRepo) List(ctx context.Context, filter port.TravelFilter, offset, limit int) ([]domain.Travel, int, error) {
	args := m.Called(ctx, filter, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Travel), args.Int(1), args.Error(2)
}

func (m *MockTravelRepo) Update(ctx context.Context, travel *domain.Travel) error {
	args := m.Called(ctx, travel)
	return args.Error(0)
}

func (m *MockTravelRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
