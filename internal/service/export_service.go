package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"spesen/internal/csvexport"
	"spesen/internal/domain"
	"spesen/internal/port"
	"spesen/internal/xlsxexport"
)

// ExportService assembles travel summaries and renders them as CSV or XLSX.
// Export methods return the file bytes together with a download filename.
type ExportService interface {
	Summary(ctx context.Context, travelID uuid.UUID) (*domain.TravelSummary, error)
	ExportCSV(ctx context.Context, travelID uuid.UUID) ([]byte, string, error)
	ExportXLSX(ctx context.Context, travelID uuid.UUID) ([]byte, string, error)
}

type exportService struct {
	travelRepo  port.TravelRepository
	receiptRepo port.ReceiptRepository
}

// NewExportService creates a new ExportService implementation.
func NewExportService(travelRepo port.TravelRepository, receiptRepo port.ReceiptRepository) ExportService {
	return &exportService{travelRepo: travelRepo, receiptRepo: receiptRepo}
}

func (s *exportService) Summary(ctx context.Context, travelID uuid.UUID) (*domain.TravelSummary, error) {
	summary, _, err := s.summaryWithReceipts(ctx, travelID)
	return summary, err
}

func (s *exportService) ExportCSV(ctx context.Context, travelID uuid.UUID) ([]byte, string, error) {
	travel, err := s.travelRepo.GetByID(ctx, travelID)
	if err != nil {
		return nil, "", err
	}
	receipts, err := s.receiptRepo.ListByTravel(ctx, travelID)
	if err != nil {
		return nil, "", err
	}

	var buf bytes.Buffer
	buf.Write(csvexport.BOM)
	w := csvexport.NewWriter(&buf)
	if err := w.WriteHeader(); err != nil {
		return nil, "", fmt.Errorf("writing csv header: %w", err)
	}
	if err := w.WriteReceipts(receipts); err != nil {
		return nil, "", fmt.Errorf("writing csv rows: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, "", fmt.Errorf("flushing csv: %w", err)
	}

	return buf.Bytes(), csvexport.BuildFilename(travel.Title, "csv"), nil
}

func (s *exportService) ExportXLSX(ctx context.Context, travelID uuid.UUID) ([]byte, string, error) {
	summary, receipts, err := s.summaryWithReceipts(ctx, travelID)
	if err != nil {
		return nil, "", err
	}
	data, err := xlsxexport.Build(summary, receipts)
	if err != nil {
		return nil, "", err
	}
	return data, csvexport.BuildFilename(summary.Travel.Title, "xlsx"), nil
}

// summaryWithReceipts loads everything the summary and report exports need
// in one place: the travel, the per-category totals and the receipt rows.
func (s *exportService) summaryWithReceipts(ctx context.Context, travelID uuid.UUID) (*domain.TravelSummary, []domain.Receipt, error) {
	travel, err := s.travelRepo.GetByID(ctx, travelID)
	if err != nil {
		return nil, nil, err
	}
	totals, err := s.receiptRepo.SummarizeByCategory(ctx, travelID)
	if err != nil {
		return nil, nil, err
	}
	receipts, err := s.receiptRepo.ListByTravel(ctx, travelID)
	if err != nil {
		return nil, nil, err
	}

	summary := &domain.TravelSummary{
		Travel:       *travel,
		Totals:       totals,
		GrandTotal:   decimal.Zero,
		VatTotal:     decimal.Zero,
		ReceiptCount: len(receipts),
	}
	for _, ct := range totals {
		summary.GrandTotal = summary.GrandTotal.Add(ct.Total)
		summary.VatTotal = summary.VatTotal.Add(ct.VatTotal)
	}
	for i := range receipts {
		r := &receipts[i]
		if r.ParsingStatus == domain.ParsingStatusManual || r.ParsingStatus == domain.ParsingStatusFailed {
			summary.ManualCount++
		}
		if !r.Verified && r.ParsingStatus != domain.ParsingStatusSuccess {
			summary.UnverifiedLow++
		}
	}
	return summary, receipts, nil
}
