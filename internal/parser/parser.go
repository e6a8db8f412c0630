// Package parser implements the receipt parsing pipeline: text extraction,
// per-field pattern extraction, category assignment and confidence scoring.
// The pipeline always returns a ParseResult for problems rooted in the
// document content; only environment failures surface as errors.
package parser

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"spesen/internal/config"
	"spesen/internal/domain"
	"spesen/internal/ocr"
	"spesen/internal/port"
)

// defaultCurrency is assumed when an amount was found but no currency token
// appears anywhere in the text.
const defaultCurrency = "EUR"

// Pipeline implements port.ReceiptParser by composing a TextExtractor with
// the field extractors, the categorizer and the confidence scorer.
type Pipeline struct {
	extractor   port.TextExtractor
	timeout     time.Duration
	manualBelow float64
	successAt   float64
}

// NewPipeline creates the pipeline around the given extraction engine.
func NewPipeline(extractor port.TextExtractor, cfg *config.ParserConfig) *Pipeline {
	return &Pipeline{
		extractor:   extractor,
		timeout:     cfg.Timeout,
		manualBelow: cfg.ManualThreshold,
		successAt:   cfg.SuccessThreshold,
	}
}

// Parse runs the full pipeline over one uploaded document. Extraction is
// bounded by the configured timeout. Unsupported formats, unreadable bytes
// and extraction timeouts come back as a failed ParseResult with confidence
// zero, never as an error.
func (p *Pipeline) Parse(ctx context.Context, doc port.RawDocument) (*domain.ParseResult, error) {
	extractCtx := ctx
	cancel := func() {}
	if p.timeout > 0 {
		extractCtx, cancel = context.WithTimeout(ctx, p.timeout)
	}
	extracted, err := p.extractor.Extract(extractCtx, doc)
	cancel()
	if err != nil {
		if p.timeout > 0 && errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			err = ocr.NewTimeoutExceededError(p.timeout)
		}
		if ocr.IsContentError(err) {
			log.Printf("parser.Parse: unparseable document %q: %v", doc.Filename, err)
			return failedResult(), nil
		}
		return nil, fmt.Errorf("parser.Parse: extract text: %w", err)
	}

	if strings.TrimSpace(extracted.Text) == "" {
		return failedResult(), nil
	}

	fields := ExtractFields(extracted.Text)
	category := Categorize(fields.Merchant, extracted.Text)
	conf := score(fields, extracted.Text)
	status := deriveStatus(fields, extracted.Text, conf, p.manualBelow, p.successAt)

	currency := fields.Currency
	if fields.Amount != nil && currency == nil {
		cur := defaultCurrency
		currency = &cur
	}

	return &domain.ParseResult{
		Amount:        fields.Amount,
		Currency:      currency,
		VatAmount:     fields.VatAmount,
		VatRate:       fields.VatRate,
		Date:          fields.Date,
		InvoiceNumber: fields.InvoiceNumber,
		Merchant:      fields.Merchant,
		PaymentMethod: fields.PaymentMethod,
		Category:      category,
		ParsingStatus: status,
		Confidence:    conf,
		RawText:       extracted.Text,
	}, nil
}

// failedResult is returned when no text could be recovered from the document:
// all fields absent, confidence zero, category other.
func failedResult() *domain.ParseResult {
	return &domain.ParseResult{
		Category:      domain.CategoryOther,
		ParsingStatus: domain.ParsingStatusFailed,
	}
}
