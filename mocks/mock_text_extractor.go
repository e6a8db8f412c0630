package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"spesen/internal/port"
)

// MockTextExtractor is a mock implementation of port.TextExtractor.
type MockTextExtractor struct {
	mock.Mock
}

func (m *MockTextExtractor) Extract(ctx context.Context, doc port.RawDocument) (port.ExtractedText, error) {
	args := m.Called(ctx, doc)
	return args.Get(0).(port.ExtractedText), args.Error(1)
}
