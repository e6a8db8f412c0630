package noop

import (
	"context"
	"log"

	"spesen/internal/port"
)

type noopSender struct{}

// NewNoopSender creates an EmailSender that only logs, for development and
// deployments without a mail provider.
func NewNoopSender() port.EmailSender {
	return &noopSender{}
}

func (s *noopSender) SendReceiptReviewAlert(_ context.Context, toEmail string, alert port.ReviewAlert) error {
	log.Printf("[NOOP EMAIL] Review alert for %s: receipt %s (%s) of travel %q by %s is %s: %s",
		toEmail, alert.ReceiptID, alert.OriginalFilename, alert.TravelTitle,
		alert.EmployeeName, alert.ParsingStatus, alert.Reason)
	return nil
}
