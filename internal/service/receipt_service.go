package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"spesen/internal/config"
	"spesen/internal/domain"
	"spesen/internal/port"
)

// UploadReceiptInput is the DTO for receipt upload requests.
type UploadReceiptInput struct {
	TravelID uuid.UUID
	File     multipart.File
	Header   *multipart.FileHeader
}

// UpdateReceiptFieldsInput is the DTO for a human correction of parsed
// fields. Pointer fields replace the stored values wholesale; nil clears.
type UpdateReceiptFieldsInput struct {
	ReceiptID     uuid.UUID
	Amount        *decimal.Decimal
	Currency      *string
	VatAmount     *decimal.Decimal
	VatRate       *float64
	ReceiptDate   *time.Time
	InvoiceNumber *string
	Merchant      *string
	PaymentMethod *domain.PaymentMethod
	Category      domain.Category
	Verified      bool
}

// ReceiptService defines the receipt management contract: upload with
// inline parsing, retrieval, human correction, reparse and deletion.
type ReceiptService interface {
	Upload(ctx context.Context, input UploadReceiptInput) (*domain.Receipt, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Receipt, error)
	ListByTravel(ctx context.Context, travelID uuid.UUID) ([]domain.Receipt, error)
	GetDownloadURL(ctx context.Context, id uuid.UUID) (string, error)
	UpdateFields(ctx context.Context, input *UpdateReceiptFieldsInput) (*domain.Receipt, error)
	Reparse(ctx context.Context, id uuid.UUID) (*domain.Receipt, error)
	// ParseReceipt runs the pipeline over an already-claimed queued receipt.
	// It is called by the queue worker and persists the outcome itself.
	ParseReceipt(ctx context.Context, receipt *domain.Receipt, maxRetries int)
	Delete(ctx context.Context, id uuid.UUID) error
}

type receiptService struct {
	receiptRepo port.ReceiptRepository
	travelRepo  port.TravelRepository
	parser      port.ReceiptParser
	storage     port.ObjectStorage
	email       port.EmailSender
	cfg         *config.S3Config
	emailCfg    *config.EmailConfig
}

// NewReceiptService creates a new ReceiptService implementation.
func NewReceiptService(
	receiptRepo port.ReceiptRepository,
	travelRepo port.TravelRepository,
	parser port.ReceiptParser,
	storage port.ObjectStorage,
	email port.EmailSender,
	cfg *config.S3Config,
	emailCfg *config.EmailConfig,
) ReceiptService {
	return &receiptService{
		receiptRepo: receiptRepo,
		travelRepo:  travelRepo,
		parser:      parser,
		storage:     storage,
		email:       email,
		cfg:         cfg,
		emailCfg:    emailCfg,
	}
}

// Upload validates the file, stores it, runs the parsing pipeline inline and
// persists the receipt with the parse outcome. A parser environment error
// does not fail the upload: the receipt is stored as failed and queued for a
// background retry.
func (s *receiptService) Upload(ctx context.Context, input UploadReceiptInput) (*domain.Receipt, error) {
	travel, err := s.travelRepo.GetByID(ctx, input.TravelID)
	if err != nil {
		return nil, err
	}

	// Validate file extension
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(input.Header.Filename), "."))
	fileType, ok := domain.AllowedExtensions[ext]
	if !ok {
		return nil, domain.ErrUnsupportedFileType
	}

	// Validate file size
	maxBytes := s.cfg.MaxFileSizeMB * 1024 * 1024
	if input.Header.Size > maxBytes {
		return nil, domain.ErrFileTooLarge
	}

	// Read first 512 bytes for magic-byte content type detection
	buf := make([]byte, 512)
	n, err := input.File.Read(buf)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("reading file header: %w", err)
	}
	detectedType := http.DetectContentType(buf[:n])
	if _, validContent := domain.AllowedContentTypes[detectedType]; !validContent {
		return nil, domain.ErrUnsupportedFileType
	}

	// Seek back and read the whole file; the parser needs the bytes anyway
	if _, err := input.File.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seeking file: %w", err)
	}
	fileBytes, err := io.ReadAll(input.File)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	receiptID := uuid.New()
	storageKey := fmt.Sprintf("travels/%s/receipts/%s.%s", input.TravelID, receiptID, ext)
	contentType := domain.AllowedFileTypes[fileType]

	log.Printf("receiptService.Upload: uploading receipt %s (%s, %d bytes) for travel %s",
		input.Header.Filename, contentType, len(fileBytes), input.TravelID)

	if _, err := s.storage.Upload(ctx, port.UploadInput{
		Key:         storageKey,
		Body:        bytes.NewReader(fileBytes),
		ContentType: contentType,
		Size:        int64(len(fileBytes)),
	}); err != nil {
		log.Printf("receiptService.Upload: S3 upload failed for %s: %v", input.Header.Filename, err)
		return nil, domain.ErrUploadFailed
	}

	receipt := &domain.Receipt{
		ID:               receiptID,
		TravelID:         input.TravelID,
		OriginalFilename: input.Header.Filename,
		StorageKey:       storageKey,
		FileSize:         int64(len(fileBytes)),
		MimeType:         contentType,
		Category:         domain.CategoryOther,
		ParsingStatus:    domain.ParsingStatusFailed,
	}

	result, parseErr := s.parser.Parse(ctx, port.RawDocument{
		Content:  fileBytes,
		MimeType: contentType,
		Filename: input.Header.Filename,
		Size:     int64(len(fileBytes)),
	})
	if parseErr != nil {
		// Environment problem: the upload itself succeeded, so persist the
		// receipt as failed and queue a background retry.
		now := time.Now().UTC()
		receipt.ParseError = parseErr.Error()
		receipt.ParseQueuedAt = &now
		log.Printf("receiptService.Upload: parsing receipt %s failed, queued for retry: %v",
			receiptID, parseErr)
	} else {
		applyParseResult(receipt, result)
	}

	if err := s.receiptRepo.Create(ctx, receipt); err != nil {
		// Best effort: do not leave an orphaned object behind
		if delErr := s.storage.Delete(ctx, storageKey); delErr != nil {
			log.Printf("receiptService.Upload: failed to clean up object %s: %v", storageKey, delErr)
		}
		return nil, fmt.Errorf("creating receipt: %w", err)
	}

	s.alertIfReviewNeeded(ctx, travel, receipt)
	return receipt, nil
}

func (s *receiptService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Receipt, error) {
	return s.receiptRepo.GetByID(ctx, id)
}

func (s *receiptService) ListByTravel(ctx context.Context, travelID uuid.UUID) ([]domain.Receipt, error) {
	if _, err := s.travelRepo.GetByID(ctx, travelID); err != nil {
		return nil, err
	}
	return s.receiptRepo.ListByTravel(ctx, travelID)
}

func (s *receiptService) GetDownloadURL(ctx context.Context, id uuid.UUID) (string, error) {
	receipt, err := s.receiptRepo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return s.storage.GetPresignedURL(ctx, receipt.StorageKey,
		s.cfg.PresignExpiry, receipt.OriginalFilename)
}

// UpdateFields applies a human correction. The parsing status is left alone;
// the verified flag records that a person reviewed the values. A pending
// reparse queue marker is cleared so a later retry cannot clobber the
// correction.
func (s *receiptService) UpdateFields(ctx context.Context, input *UpdateReceiptFieldsInput) (*domain.Receipt, error) {
	if !domain.ValidCategories[input.Category] {
		return nil, fmt.Errorf("%w: unknown category %q", domain.ErrInvalidInput, input.Category)
	}
	if input.PaymentMethod != nil && !domain.ValidPaymentMethods[*input.PaymentMethod] {
		return nil, fmt.Errorf("%w: unknown payment method %q", domain.ErrInvalidInput, *input.PaymentMethod)
	}

	receipt, err := s.receiptRepo.GetByID(ctx, input.ReceiptID)
	if err != nil {
		return nil, err
	}

	receipt.Amount = input.Amount
	receipt.Currency = input.Currency
	receipt.VatAmount = input.VatAmount
	receipt.VatRate = input.VatRate
	receipt.ReceiptDate = input.ReceiptDate
	receipt.InvoiceNumber = input.InvoiceNumber
	receipt.Merchant = input.Merchant
	receipt.PaymentMethod = input.PaymentMethod
	receipt.Category = input.Category
	receipt.Verified = input.Verified

	log.Printf("receiptService.UpdateFields: correcting receipt %s (verified=%t)",
		receipt.ID, receipt.Verified)

	if err := s.receiptRepo.UpdateFields(ctx, receipt); err != nil {
		return nil, err
	}
	return receipt, nil
}

// Reparse re-runs the pipeline over the stored file and replaces the parse
// outcome. On an environment error the stored fields stay untouched, the
// receipt is queued for a background retry and the error goes to the caller.
func (s *receiptService) Reparse(ctx context.Context, id uuid.UUID) (*domain.Receipt, error) {
	receipt, err := s.receiptRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	fileBytes, err := s.storage.Download(ctx, receipt.StorageKey)
	if err != nil {
		return nil, fmt.Errorf("downloading file for reparse: %w", err)
	}

	log.Printf("receiptService.Reparse: reparsing receipt %s (%s)", receipt.ID, receipt.OriginalFilename)

	result, err := s.parser.Parse(ctx, port.RawDocument{
		Content:  fileBytes,
		MimeType: receipt.MimeType,
		Filename: receipt.OriginalFilename,
		Size:     receipt.FileSize,
	})
	if err != nil {
		if qErr := s.receiptRepo.MarkQueued(ctx, receipt.ID, time.Now().UTC(), err.Error()); qErr != nil {
			log.Printf("receiptService.Reparse: failed to queue receipt %s: %v", receipt.ID, qErr)
		}
		return nil, fmt.Errorf("parsing receipt: %w", err)
	}

	applyParseResult(receipt, result)
	if err := s.receiptRepo.UpdateParseResult(ctx, receipt); err != nil {
		return nil, err
	}

	s.alertIfReviewNeeded(ctx, nil, receipt)
	return receipt, nil
}

// ParseReceipt is the queue worker entry point. The receipt must come from
// ClaimQueued, so its retry counter is already incremented.
func (s *receiptService) ParseReceipt(ctx context.Context, receipt *domain.Receipt, maxRetries int) {
	fileBytes, err := s.storage.Download(ctx, receipt.StorageKey)
	if err != nil {
		s.handleParseFailure(ctx, receipt, fmt.Errorf("downloading file: %w", err), maxRetries)
		return
	}

	result, err := s.parser.Parse(ctx, port.RawDocument{
		Content:  fileBytes,
		MimeType: receipt.MimeType,
		Filename: receipt.OriginalFilename,
		Size:     receipt.FileSize,
	})
	if err != nil {
		s.handleParseFailure(ctx, receipt, err, maxRetries)
		return
	}

	applyParseResult(receipt, result)
	if err := s.receiptRepo.UpdateParseResult(ctx, receipt); err != nil {
		log.Printf("receiptService.ParseReceipt: failed to save results for %s: %v", receipt.ID, err)
		return
	}

	log.Printf("receiptService.ParseReceipt: receipt %s parsed with status %s (confidence %.0f)",
		receipt.ID, receipt.ParsingStatus, receipt.ParsingConf)

	s.alertIfReviewNeeded(ctx, nil, receipt)
}

func (s *receiptService) Delete(ctx context.Context, id uuid.UUID) error {
	receipt, err := s.receiptRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	log.Printf("receiptService.Delete: deleting receipt %s (%s)", id, receipt.OriginalFilename)

	if err := s.storage.Delete(ctx, receipt.StorageKey); err != nil {
		log.Printf("receiptService.Delete: failed to delete from S3: %v", err)
		return fmt.Errorf("deleting from storage: %w", err)
	}

	return s.receiptRepo.Delete(ctx, id)
}

// handleParseFailure requeues the receipt while retries remain. Once they
// are exhausted the error text is persisted and the review alert goes out.
func (s *receiptService) handleParseFailure(ctx context.Context, receipt *domain.Receipt, parseErr error, maxRetries int) {
	receipt.ParseError = parseErr.Error()
	if receipt.ParseRetries < maxRetries {
		log.Printf("receiptService.handleParseFailure: receipt %s attempt %d failed, requeueing: %v",
			receipt.ID, receipt.ParseRetries, parseErr)
		if err := s.receiptRepo.MarkQueued(ctx, receipt.ID, time.Now().UTC(), receipt.ParseError); err != nil {
			log.Printf("receiptService.handleParseFailure: failed to requeue receipt %s: %v", receipt.ID, err)
		}
		return
	}

	log.Printf("receiptService.handleParseFailure: receipt %s failed permanently after %d attempts: %v",
		receipt.ID, receipt.ParseRetries, parseErr)

	// Keep the last parse outcome, persist the error text and clear the
	// queue marker.
	if err := s.receiptRepo.UpdateParseResult(ctx, receipt); err != nil {
		log.Printf("receiptService.handleParseFailure: failed to update receipt %s: %v", receipt.ID, err)
		return
	}
	s.alertIfReviewNeeded(ctx, nil, receipt)
}

// alertIfReviewNeeded notifies the finance inbox when a receipt ends up in a
// state that needs human attention. Alert failures never block the caller.
func (s *receiptService) alertIfReviewNeeded(ctx context.Context, travel *domain.Travel, receipt *domain.Receipt) {
	if s.emailCfg.ReviewAddress == "" {
		return
	}
	if receipt.ParsingStatus != domain.ParsingStatusManual && receipt.ParsingStatus != domain.ParsingStatusFailed {
		return
	}
	if receipt.ParseQueuedAt != nil {
		// Queued for automatic retry; alert only on the final outcome.
		return
	}

	if travel == nil {
		t, err := s.travelRepo.GetByID(ctx, receipt.TravelID)
		if err != nil {
			log.Printf("receiptService.alertIfReviewNeeded: failed to load travel %s: %v",
				receipt.TravelID, err)
			return
		}
		travel = t
	}

	alert := port.ReviewAlert{
		TravelTitle:      travel.Title,
		EmployeeName:     travel.EmployeeName,
		ReceiptID:        receipt.ID.String(),
		OriginalFilename: receipt.OriginalFilename,
		ParsingStatus:    receipt.ParsingStatus,
		Reason:           reviewReason(receipt),
	}
	if err := s.email.SendReceiptReviewAlert(ctx, s.emailCfg.ReviewAddress, alert); err != nil {
		log.Printf("receiptService.alertIfReviewNeeded: failed to send alert for receipt %s: %v",
			receipt.ID, err)
	}
}

func reviewReason(receipt *domain.Receipt) string {
	if receipt.ParseError != "" {
		return receipt.ParseError
	}
	switch receipt.ParsingStatus {
	case domain.ParsingStatusFailed:
		return "no text could be extracted from the file"
	case domain.ParsingStatusManual:
		return "neither an amount nor a merchant was found"
	}
	return string(receipt.ParsingStatus)
}

// applyParseResult copies the pipeline outcome onto the receipt row. The
// verified flag resets because machine output replaces any prior human
// correction.
func applyParseResult(receipt *domain.Receipt, result *domain.ParseResult) {
	now := time.Now().UTC()
	receipt.Amount = result.Amount
	receipt.Currency = result.Currency
	receipt.VatAmount = result.VatAmount
	receipt.VatRate = result.VatRate
	receipt.ReceiptDate = result.Date
	receipt.InvoiceNumber = result.InvoiceNumber
	receipt.Merchant = result.Merchant
	receipt.PaymentMethod = result.PaymentMethod
	receipt.Category = result.Category
	receipt.ParsingStatus = result.ParsingStatus
	receipt.ParsingConf = result.Confidence
	receipt.RawText = result.RawText
	receipt.ParseError = ""
	receipt.Verified = false
	receipt.ParsedAt = &now
}
