package ses

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"spesen/internal/port"
)

type sesSender struct {
	client      *sesv2.Client
	fromAddress string
	fromName    string
	frontendURL string
}

// NewSESSender creates a new SES-backed EmailSender.
func NewSESSender(region, fromAddress, fromName, frontendURL string) (port.EmailSender, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SES: %w", err)
	}
	client := sesv2.NewFromConfig(cfg)
	return &sesSender{
		client:      client,
		fromAddress: fromAddress,
		fromName:    fromName,
		frontendURL: frontendURL,
	}, nil
}

func (s *sesSender) SendReceiptReviewAlert(ctx context.Context, toEmail string, alert port.ReviewAlert) error {
	receiptURL := fmt.Sprintf("%s/receipts/%s", s.frontendURL, alert.ReceiptID)

	subject := fmt.Sprintf("Receipt needs review: %s", alert.OriginalFilename)
	htmlBody := buildReviewAlertHTML(alert, receiptURL)
	textBody := fmt.Sprintf(
		"The receipt %q uploaded by %s for travel %q could not be parsed automatically (status: %s).\n\nReason: %s\n\nReview and complete it here:\n%s\n",
		alert.OriginalFilename, alert.EmployeeName, alert.TravelTitle,
		alert.ParsingStatus, alert.Reason, receiptURL)

	from := fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)

	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: &from,
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: &subject},
				Body: &types.Body{
					Html: &types.Content{Data: &htmlBody},
					Text: &types.Content{Data: &textBody},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("SES SendEmail: %w", err)
	}
	return nil
}

func buildReviewAlertHTML(alert port.ReviewAlert, receiptURL string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">Receipt needs manual review</h2>
  <p>The receipt <strong>%s</strong> uploaded by %s for travel <strong>%s</strong> could not be parsed automatically.</p>
  <table style="border-collapse: collapse; margin: 20px 0;">
    <tr><td style="padding: 4px 12px 4px 0; color: #666;">Parsing status</td><td style="padding: 4px 0;">%s</td></tr>
    <tr><td style="padding: 4px 12px 4px 0; color: #666;">Reason</td><td style="padding: 4px 0;">%s</td></tr>
  </table>
  <p style="text-align: center; margin: 30px 0;">
    <a href="%s" style="background-color: #4F46E5; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; display: inline-block;">Review Receipt</a>
  </p>
  <p>Or copy and paste this link into your browser:</p>
  <p style="word-break: break-all; color: #666;">%s</p>
  <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
  <p style="color: #999; font-size: 12px;">Spesen - Travel Expense Processing</p>
</body>
</html>`, alert.OriginalFilename, alert.EmployeeName, alert.TravelTitle,
		alert.ParsingStatus, alert.Reason, receiptURL, receiptURL)
}
