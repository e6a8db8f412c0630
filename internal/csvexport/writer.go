package csvexport

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"spesen/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the CSV header row (15 columns).
var columns = []string{
	"Filename",
	"Merchant",
	"Category",
	"Receipt Date",
	"Amount",
	"Currency",
	"VAT Amount",
	"VAT Rate (%)",
	"Payment Method",
	"Invoice Number",
	"Parsing Status",
	"Confidence",
	"Verified",
	"Parsed At",
	"Created At",
}

// Writer wraps csv.Writer for exporting receipts as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the 15-column header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteReceipts converts a batch of receipts to CSV rows and writes them.
func (w *Writer) WriteReceipts(receipts []domain.Receipt) error {
	for i := range receipts {
		row := receiptToRow(&receipts[i])
		if err := w.csv.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

// receiptToRow converts a single receipt to a 15-element string slice.
// Fields the parser did not recover stay empty.
func receiptToRow(r *domain.Receipt) []string {
	row := make([]string, len(columns))

	row[0] = r.OriginalFilename
	row[1] = strValue(r.Merchant)
	row[2] = string(r.Category)
	row[3] = formatDate(r.ReceiptDate)
	row[4] = formatDecimal(r.Amount)
	row[5] = strValue(r.Currency)
	row[6] = formatDecimal(r.VatAmount)
	row[7] = formatRate(r.VatRate)
	if r.PaymentMethod != nil {
		row[8] = string(*r.PaymentMethod)
	}
	row[9] = strValue(r.InvoiceNumber)
	row[10] = string(r.ParsingStatus)
	row[11] = strconv.FormatFloat(r.ParsingConf, 'f', -1, 64)
	row[12] = formatBool(r.Verified)
	row[13] = formatTime(r.ParsedAt)
	row[14] = r.CreatedAt.Format(time.RFC3339)

	return row
}

func strValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatDecimal(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.StringFixed(2)
}

func formatRate(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func formatBool(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a travel title for use in Content-Disposition.
// Replaces non-alphanumeric chars (except - _) with _, collapses consecutive
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns a sanitized filename for Content-Disposition header.
// Format: {sanitized_travel_title}_{YYYY-MM-DD}.{ext}
func BuildFilename(travelTitle, ext string) string {
	sanitized := SanitizeFilename(travelTitle)
	date := time.Now().Format("2006-01-02")
	return fmt.Sprintf("%s_%s.%s", sanitized, date, ext)
}
