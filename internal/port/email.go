package port

import (
	"context"

	"spesen/internal/domain"
)

// ReviewAlert carries what the finance inbox needs to locate a receipt that
// could not be parsed cleanly.
type ReviewAlert struct {
	TravelTitle      string
	EmployeeName     string
	ReceiptID        string
	OriginalFilename string
	ParsingStatus    domain.ParsingStatus
	Reason           string
}

// EmailSender defines the contract for sending operational emails.
type EmailSender interface {
	SendReceiptReviewAlert(ctx context.Context, toEmail string, alert ReviewAlert) error
}
