package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"spesen/internal/domain"
	"spesen/internal/port"
)

type receiptRepo struct {
	db *sqlx.DB
}

// NewReceiptRepo creates a new PostgreSQL-backed ReceiptRepository.
func NewReceiptRepo(db *sqlx.DB) port.ReceiptRepository {
	return &receiptRepo{db: db}
}

func (r *receiptRepo) Create(ctx context.Context, receipt *domain.Receipt) error {
	now := time.Now().UTC()
	receipt.CreatedAt = now
	receipt.UpdatedAt = now

	query := `INSERT INTO receipts (
		id, travel_id, original_filename, storage_key, file_size, mime_type,
		amount, currency, vat_amount, vat_rate, receipt_date,
		invoice_number, merchant, payment_method, category,
		parsing_status, parsing_confidence, raw_text, parse_error,
		verified, parse_queued_at, parse_retries, parsed_at,
		created_at, updated_at
	) VALUES (
		$1, $2, $3, $4, $5, $6,
		$7, $8, $9, $10, $11,
		$12, $13, $14, $15,
		$16, $17, $18, $19,
		$20, $21, $22, $23,
		$24, $25
	)`

	_, err := r.db.ExecContext(ctx, query,
		receipt.ID, receipt.TravelID, receipt.OriginalFilename, receipt.StorageKey, receipt.FileSize, receipt.MimeType,
		receipt.Amount, receipt.Currency, receipt.VatAmount, receipt.VatRate, receipt.ReceiptDate,
		receipt.InvoiceNumber, receipt.Merchant, receipt.PaymentMethod, receipt.Category,
		receipt.ParsingStatus, receipt.ParsingConf, receipt.RawText, receipt.ParseError,
		receipt.Verified, receipt.ParseQueuedAt, receipt.ParseRetries, receipt.ParsedAt,
		receipt.CreatedAt, receipt.UpdatedAt)
	if err != nil {
		return fmt.Errorf("receiptRepo.Create: %w", err)
	}
	return nil
}

func (r *receiptRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Receipt, error) {
	var receipt domain.Receipt
	err := r.db.GetContext(ctx, &receipt, "SELECT * FROM receipts WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrReceiptNotFound
		}
		return nil, fmt.Errorf("receiptRepo.GetByID: %w", err)
	}
	return &receipt, nil
}

func (r *receiptRepo) ListByTravel(ctx context.Context, travelID uuid.UUID) ([]domain.Receipt, error) {
	var receipts []domain.Receipt
	err := r.db.SelectContext(ctx, &receipts,
		"SELECT * FROM receipts WHERE travel_id = $1 ORDER BY created_at ASC", travelID)
	if err != nil {
		return nil, fmt.Errorf("receiptRepo.ListByTravel: %w", err)
	}
	return receipts, nil
}

// UpdateParseResult overwrites the parse-derived columns. Machine output
// replaces any prior human correction, so verified resets alongside.
func (r *receiptRepo) UpdateParseResult(ctx context.Context, receipt *domain.Receipt) error {
	receipt.UpdatedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE receipts SET
			amount = $1, currency = $2, vat_amount = $3, vat_rate = $4,
			receipt_date = $5, invoice_number = $6, merchant = $7,
			payment_method = $8, category = $9,
			parsing_status = $10, parsing_confidence = $11, raw_text = $12,
			parse_error = $13, parsed_at = $14,
			parse_queued_at = NULL, verified = FALSE, updated_at = $15
		 WHERE id = $16`,
		receipt.Amount, receipt.Currency, receipt.VatAmount, receipt.VatRate,
		receipt.ReceiptDate, receipt.InvoiceNumber, receipt.Merchant,
		receipt.PaymentMethod, receipt.Category,
		receipt.ParsingStatus, receipt.ParsingConf, receipt.RawText,
		receipt.ParseError, receipt.ParsedAt,
		receipt.UpdatedAt,
		receipt.ID)
	if err != nil {
		return fmt.Errorf("receiptRepo.UpdateParseResult: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrReceiptNotFound
	}
	receipt.ParseQueuedAt = nil
	return nil
}

// UpdateFields applies a human correction. The parsing status stays as the
// pipeline left it; a pending reparse marker is cleared so a background
// retry cannot clobber the correction.
func (r *receiptRepo) UpdateFields(ctx context.Context, receipt *domain.Receipt) error {
	receipt.UpdatedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE receipts SET
			amount = $1, currency = $2, vat_amount = $3, vat_rate = $4,
			receipt_date = $5, invoice_number = $6, merchant = $7,
			payment_method = $8, category = $9, verified = $10,
			parse_queued_at = NULL, updated_at = $11
		 WHERE id = $12`,
		receipt.Amount, receipt.Currency, receipt.VatAmount, receipt.VatRate,
		receipt.ReceiptDate, receipt.InvoiceNumber, receipt.Merchant,
		receipt.PaymentMethod, receipt.Category, receipt.Verified,
		receipt.UpdatedAt,
		receipt.ID)
	if err != nil {
		return fmt.Errorf("receiptRepo.UpdateFields: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrReceiptNotFound
	}
	receipt.ParseQueuedAt = nil
	return nil
}

func (r *receiptRepo) MarkQueued(ctx context.Context, id uuid.UUID, queuedAt time.Time, reason string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE receipts SET parse_queued_at = $1, parse_error = $2, updated_at = $3 WHERE id = $4",
		queuedAt, reason, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("receiptRepo.MarkQueued: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrReceiptNotFound
	}
	return nil
}

// ClaimQueued moves up to limit queued receipts out of the queue in one
// statement. SKIP LOCKED keeps concurrent workers from claiming the same
// rows.
func (r *receiptRepo) ClaimQueued(ctx context.Context, limit, maxRetries int) ([]domain.Receipt, error) {
	query := `UPDATE receipts SET
		parse_queued_at = NULL,
		parse_retries = parse_retries + 1,
		updated_at = NOW()
	WHERE id IN (
		SELECT id FROM receipts
		WHERE parse_queued_at IS NOT NULL AND parse_retries < $2
		ORDER BY parse_queued_at ASC
		LIMIT $1
		FOR UPDATE SKIP LOCKED
	)
	RETURNING *`

	var receipts []domain.Receipt
	err := r.db.SelectContext(ctx, &receipts, query, limit, maxRetries)
	if err != nil {
		return nil, fmt.Errorf("receiptRepo.ClaimQueued: %w", err)
	}
	return receipts, nil
}

func (r *receiptRepo) SummarizeByCategory(ctx context.Context, travelID uuid.UUID) ([]domain.CategoryTotal, error) {
	query := `SELECT
		category,
		COUNT(*) AS count,
		COALESCE(SUM(amount), 0) AS total,
		COALESCE(SUM(vat_amount), 0) AS vat_total
	FROM receipts
	WHERE travel_id = $1
	GROUP BY category
	ORDER BY category`

	var totals []domain.CategoryTotal
	err := r.db.SelectContext(ctx, &totals, query, travelID)
	if err != nil {
		return nil, fmt.Errorf("receiptRepo.SummarizeByCategory: %w", err)
	}
	return totals, nil
}

func (r *receiptRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM receipts WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("receiptRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrReceiptNotFound
	}
	return nil
}
