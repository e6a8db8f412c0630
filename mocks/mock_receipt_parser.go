package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"spesen/internal/domain"
	"spesen/internal/port"
)

// MockReceiptParser is a mock implementation of port.ReceiptParser.
type MockReceiptParser struct {
	mock.Mock
}

func (m *MockReceiptParser) Parse(ctx context.Context, doc port.RawDocument) (*domain.ParseResult, error) {
	args := m.Called(ctx, doc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ParseResult), args.Error(1)
}
