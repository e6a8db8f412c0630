package parser_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spesen/internal/config"
	"spesen/internal/domain"
	"spesen/internal/ocr"
	"spesen/internal/parser"
	"spesen/internal/port"
)

// stubExtractor returns canned text, making the pipeline fully deterministic.
type stubExtractor struct {
	text string
	err  error
}

func (s *stubExtractor) Extract(_ context.Context, _ port.RawDocument) (port.ExtractedText, error) {
	if s.err != nil {
		return port.ExtractedText{}, s.err
	}
	return port.ExtractedText{Text: s.text, Pages: 1, Confidence: 0.92}, nil
}

// blockingExtractor waits for the context to expire, standing in for OCR on
// a pathologically slow document.
type blockingExtractor struct{}

func (b *blockingExtractor) Extract(ctx context.Context, _ port.RawDocument) (port.ExtractedText, error) {
	<-ctx.Done()
	return port.ExtractedText{}, ctx.Err()
}

func newPipeline(ext port.TextExtractor) *parser.Pipeline {
	return parser.NewPipeline(ext, &config.ParserConfig{
		Timeout:          time.Second,
		ManualThreshold:  40,
		SuccessThreshold: 80,
	})
}

func testDoc() port.RawDocument {
	return port.RawDocument{
		Content:  []byte("%PDF-1.4 fake"),
		MimeType: "application/pdf",
		Filename: "receipt.pdf",
		Size:     13,
	}
}

func TestPipeline_HotelBerlinReceipt(t *testing.T) {
	p := newPipeline(&stubExtractor{text: hotelBerlinText})

	result, err := p.Parse(context.Background(), testDoc())

	require.NoError(t, err)
	require.NotNil(t, result)
	assertDecimal(t, "87.50", result.Amount)
	assertDecimal(t, "14.01", result.VatAmount)
	require.NotNil(t, result.VatRate)
	assert.Equal(t, 19.0, *result.VatRate)
	require.NotNil(t, result.Date)
	assert.Equal(t, time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC), *result.Date)
	require.NotNil(t, result.InvoiceNumber)
	assert.Equal(t, "2024-001234", *result.InvoiceNumber)
	require.NotNil(t, result.Merchant)
	assert.Contains(t, *result.Merchant, "HOTEL BERLIN")
	require.NotNil(t, result.PaymentMethod)
	assert.Equal(t, domain.PaymentMethodCard, *result.PaymentMethod)
	assert.Equal(t, domain.CategoryLodging, result.Category)
	assert.Equal(t, domain.ParsingStatusSuccess, result.ParsingStatus)
	assert.GreaterOrEqual(t, result.Confidence, 80.0)
	assert.Equal(t, hotelBerlinText, result.RawText)

	// No currency token in the text, so EUR is assumed alongside the amount.
	require.NotNil(t, result.Currency)
	assert.Equal(t, "EUR", *result.Currency)
}

func TestPipeline_EmptyTextIsFailed(t *testing.T) {
	p := newPipeline(&stubExtractor{text: "   \n \t "})

	result, err := p.Parse(context.Background(), testDoc())

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, domain.ParsingStatusFailed, result.ParsingStatus)
	assert.Equal(t, 0.0, result.Confidence)
	assert.Equal(t, domain.CategoryOther, result.Category)
	assert.Nil(t, result.Amount)
	assert.Nil(t, result.Currency)
	assert.Nil(t, result.VatAmount)
	assert.Nil(t, result.VatRate)
	assert.Nil(t, result.Date)
	assert.Nil(t, result.InvoiceNumber)
	assert.Nil(t, result.Merchant)
	assert.Nil(t, result.PaymentMethod)
}

func TestPipeline_ContentErrorBecomesFailedResult(t *testing.T) {
	cases := []struct {
		name string
		err  error
	}{
		{"unsupported format", ocr.NewUnsupportedFormatError("text/html")},
		{"unreadable bytes", ocr.NewExtractionFailedError("open pdf", errors.New("broken xref"))},
		{"engine timeout", ocr.NewTimeoutExceededError(time.Second)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := newPipeline(&stubExtractor{err: tc.err})

			result, err := p.Parse(context.Background(), testDoc())

			require.NoError(t, err)
			require.NotNil(t, result)
			assert.Equal(t, domain.ParsingStatusFailed, result.ParsingStatus)
			assert.Equal(t, 0.0, result.Confidence)
		})
	}
}

func TestPipeline_EnvironmentErrorPropagates(t *testing.T) {
	p := newPipeline(&stubExtractor{err: errors.New("tesseract binary missing")})

	result, err := p.Parse(context.Background(), testDoc())

	assert.Nil(t, result)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tesseract binary missing")
}

func TestPipeline_TimeoutBecomesFailedResult(t *testing.T) {
	p := parser.NewPipeline(&blockingExtractor{}, &config.ParserConfig{
		Timeout:          20 * time.Millisecond,
		ManualThreshold:  40,
		SuccessThreshold: 80,
	})

	result, err := p.Parse(context.Background(), testDoc())

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, domain.ParsingStatusFailed, result.ParsingStatus)
}

func TestPipeline_CallerCancellationPropagates(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := newPipeline(&blockingExtractor{})

	result, err := p.Parse(ctx, testDoc())

	assert.Nil(t, result)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPipeline_Deterministic(t *testing.T) {
	p := newPipeline(&stubExtractor{text: hotelBerlinText})

	first, err1 := p.Parse(context.Background(), testDoc())
	second, err2 := p.Parse(context.Background(), testDoc())

	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, first, second)
}

func TestPipeline_FieldsSpanPages(t *testing.T) {
	pageOne := "HOTEL BERLIN\nDatum: 15.01.2024"
	pageTwo := "Gesamt: 87,50\nMwSt 19%"
	p := newPipeline(&stubExtractor{text: pageOne + ocr.PageBreak + pageTwo})

	result, err := p.Parse(context.Background(), testDoc())

	require.NoError(t, err)
	assertDecimal(t, "87.50", result.Amount)
	require.NotNil(t, result.Date)
	require.NotNil(t, result.Merchant)
	assert.Contains(t, *result.Merchant, "HOTEL BERLIN")
	require.NotNil(t, result.VatRate)
	assert.Equal(t, domain.ParsingStatusSuccess, result.ParsingStatus)
}

func TestPipeline_MerchantOnlyIsPartial(t *testing.T) {
	p := newPipeline(&stubExtractor{text: "Gasthaus Linde\nVielen Dank"})

	result, err := p.Parse(context.Background(), testDoc())

	require.NoError(t, err)
	assert.Equal(t, domain.ParsingStatusPartial, result.ParsingStatus)
	assert.Equal(t, domain.CategoryOther, result.Category)
	assert.Nil(t, result.Amount)
	assert.Nil(t, result.Currency)
}

func TestPipeline_NumbersOnlyIsManual(t *testing.T) {
	p := newPipeline(&stubExtractor{text: "8731\n4711 99"})

	result, err := p.Parse(context.Background(), testDoc())

	require.NoError(t, err)
	assert.Equal(t, domain.ParsingStatusManual, result.ParsingStatus)
	assert.Equal(t, domain.CategoryOther, result.Category)
}

func TestPipeline_CurrencyKeptFromText(t *testing.T) {
	p := newPipeline(&stubExtractor{text: "Shop AG\nTotal $12.00"})

	result, err := p.Parse(context.Background(), testDoc())

	require.NoError(t, err)
	assertDecimal(t, "12.00", result.Amount)
	require.NotNil(t, result.Currency)
	assert.Equal(t, "USD", *result.Currency)
}
