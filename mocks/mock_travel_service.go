package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"spesen/internal/domain"
	"spesen/internal/port"
	"spesen/internal/service"
)

// MockTravelService is a mock implementation of service.TravelService.
type MockTravelService struct {
	mock.Mock
}

func (m *MockTravelService) Create(ctx context.Context, input *service.CreateTravelInput) (*domain.Travel, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Travel), args.Error(1)
}

func (m *MockTravelService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Travel, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Travel), args.Error(1)
}

func (m *MockTravelService) List(ctx context.Context, filter port.TravelFilter, offset, limit int) ([]domain.Travel, int, error) {
	args := m.Called(ctx, filter, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Travel), args.Int(1), args.Error(2)
}

func (m *MockTravelService) Update(ctx context.Context, input *service.UpdateTravelInput) (*domain.Travel, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Travel), args.Error(1)
}

func (m *MockTravelService) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
