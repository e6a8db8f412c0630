package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"spesen/internal/domain"
)

// MockExportService is a mock implementation of service.ExportService.
type MockExportService struct {
	mock.Mock
}

func (m *MockExportService) Summary(ctx context.Context, travelID uuid.UUID) (*domain.TravelSummary, error) {
	args := m.Called(ctx, travelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TravelSummary), args.Error(1)
}

func (m *MockExportService) ExportCSV(ctx context.Context, travelID uuid.UUID) ([]byte, string, error) {
	args := m.Called(ctx, travelID)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).([]byte), args.String(1), args.Error(2)
}

func (m *MockExportService) ExportXLSX(ctx context.Context, travelID uuid.UUID) ([]byte, string, error) {
	args := m.Called(ctx, travelID)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).([]byte), args.String(1), args.Error(2)
}
