package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"spesen/internal/port"
)

// MockEmailSender is a mock implementation of port.EmailSender.
type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) SendReceiptReviewAlert(ctx context.Context, toEmail string, alert port.ReviewAlert) error {
	args := m.Called(ctx, toEmail, alert)
	return args.Error(0)
}
