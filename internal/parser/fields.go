package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"

	"spesen/internal/domain"
)

// Fields collects what the independent extractors recovered from one text.
// Nil means absent. Each extractor writes exactly one logical field and
// never reads another's output.
type Fields struct {
	Amount        *decimal.Decimal
	Currency      *string
	VatAmount     *decimal.Decimal
	VatRate       *float64
	Date          *time.Time
	InvoiceNumber *string
	Merchant      *string
	PaymentMethod *domain.PaymentMethod
}

// fieldExtractor pairs a field name with its extraction function. Extractors
// are pure over the text: anything that does not parse cleanly stays absent,
// they never return errors.
type fieldExtractor struct {
	name    string
	extract func(text string, out *Fields)
}

// extractors is the open registry of field extractors. New fields are added
// by appending an entry; existing entries are never touched for that.
var extractors = []fieldExtractor{
	{"amount", extractAmount},
	{"currency", extractCurrency},
	{"vat", extractVat},
	{"date", extractDate},
	{"invoice_number", extractInvoiceNumber},
	{"merchant", extractMerchant},
	{"payment_method", extractPaymentMethod},
}

// ExtractFields folds every registered extractor over the text.
func ExtractFields(text string) Fields {
	var out Fields
	for _, fe := range extractors {
		fe.extract(text, &out)
	}
	return out
}

// decimalToken matches money amounts with either separator convention,
// including thousands groups ("87,50", "1.234,56", "1,234.56").
const decimalToken = `(?:\d{1,3}(?:[.,]\d{3})+|\d+)[.,]\d{2}`

var (
	amountRe    = regexp.MustCompile(`(?i)(?:gesamt|total|summe)[^\d\n]{0,16}?(` + decimalToken + `)`)
	vatRateRe   = regexp.MustCompile(`(?i)(?:mwst|vat|tax)[^\d\n%]{0,10}(\d{1,3}(?:[.,]\d{1,2})?)\s*%`)
	vatAmtRe    = regexp.MustCompile(`(?i)(?:mwst|vat|tax)[^\d\n]{0,10}(?:\d{1,3}(?:[.,]\d{1,2})?\s*%)?[^\d\n]{0,10}(` + decimalToken + `)`)
	dateRe      = regexp.MustCompile(`(?i)(?:datum|date)[^\d\n]{0,10}(\d{1,2}[./]\d{1,2}[./]\d{2,4}|\d{4}-\d{2}-\d{2})`)
	invoiceRe   = regexp.MustCompile(`(?i)(?:rechnungs?|invoice|beleg)[-.:#\s]*(?:nr|no|nummer|number)?[-.:#\s]*([a-z0-9][a-z0-9-]*)`)
	invoiceNrRe = regexp.MustCompile(`(?i)\bnr[-.:#\s]*([a-z0-9][a-z0-9-]*)`)
)

// extractAmount finds the grand total: a label followed by a decimal within
// a short window. The last occurrence wins, since totals follow subtotals.
func extractAmount(text string, out *Fields) {
	matches := amountRe.FindAllStringSubmatch(text, -1)
	for i := len(matches) - 1; i >= 0; i-- {
		if d, ok := parseDecimalToken(matches[i][1]); ok {
			out.Amount = &d
			return
		}
	}
}

var currencyTokens = []struct {
	token string
	code  string
	word  bool
}{
	{"€", "EUR", false},
	{"$", "USD", false},
	{"£", "GBP", false},
	{"eur", "EUR", true},
	{"usd", "USD", true},
	{"chf", "CHF", true},
	{"gbp", "GBP", true},
}

func extractCurrency(text string, out *Fields) {
	lower := strings.ToLower(text)
	tokens := tokenize(lower)
	for _, c := range currencyTokens {
		if c.word {
			if _, ok := tokens[c.token]; ok {
				code := c.code
				out.Currency = &code
				return
			}
			continue
		}
		if strings.Contains(lower, c.token) {
			code := c.code
			out.Currency = &code
			return
		}
	}
}

// extractVat finds the tax rate and the tax amount; either may be present
// without the other.
func extractVat(text string, out *Fields) {
	if m := vatRateRe.FindStringSubmatch(text); m != nil {
		raw := strings.ReplaceAll(m[1], ",", ".")
		if rate, err := strconv.ParseFloat(raw, 64); err == nil && rate >= 0 && rate <= 100 {
			out.VatRate = &rate
		}
	}
	if m := vatAmtRe.FindStringSubmatch(text); m != nil {
		if d, ok := parseDecimalToken(m[1]); ok {
			out.VatAmount = &d
		}
	}
}

func extractDate(text string, out *Fields) {
	m := dateRe.FindStringSubmatch(text)
	if m == nil {
		return
	}
	if d, ok := parseDateToken(m[1]); ok {
		out.Date = &d
	}
}

// extractInvoiceNumber finds an alphanumeric token after an invoice label,
// skipping a secondary label like "Nr". Tokens without a digit are label
// noise, not invoice numbers.
func extractInvoiceNumber(text string, out *Fields) {
	for _, re := range []*regexp.Regexp{invoiceRe, invoiceNrRe} {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			token := strings.ToLower(m[1])
			if strings.ContainsAny(token, "0123456789") {
				out.InvoiceNumber = &token
				return
			}
		}
	}
}

// extractMerchant takes the first non-empty line containing letters;
// receipts conventionally print the business name at the top.
func extractMerchant(text string, out *Fields) {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || !containsLetter(line) {
			continue
		}
		if len(line) > 255 {
			line = line[:255]
		}
		out.Merchant = &line
		return
	}
}

// paymentRules maps keyword tokens to the canonical payment method. Order is
// fixed; the first matching rule wins.
var paymentRules = []struct {
	method domain.PaymentMethod
	tokens []string
}{
	{domain.PaymentMethodCard, []string{"kreditkarte", "karte", "card", "ec"}},
	{domain.PaymentMethodCash, []string{"bargeld", "bar", "cash"}},
	{domain.PaymentMethodTransfer, []string{"überweisung", "ueberweisung", "transfer"}},
	{domain.PaymentMethodPaypal, []string{"paypal"}},
}

func extractPaymentMethod(text string, out *Fields) {
	tokens := tokenize(strings.ToLower(text))
	for _, rule := range paymentRules {
		for _, t := range rule.tokens {
			if _, ok := tokens[t]; ok {
				method := rule.method
				out.PaymentMethod = &method
				return
			}
		}
	}
}

// parseDecimalToken normalizes a matched money token to a dot-decimal. When
// both separators appear, the last one is the decimal point; every other
// separator is a thousands group.
func parseDecimalToken(token string) (decimal.Decimal, bool) {
	lastDot := strings.LastIndexByte(token, '.')
	lastComma := strings.LastIndexByte(token, ',')
	sep := lastDot
	if lastComma > sep {
		sep = lastComma
	}
	if sep < 0 {
		return decimal.Decimal{}, false
	}
	intPart := strings.Map(dropSeparators, token[:sep])
	normalized := intPart + "." + token[sep+1:]
	d, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

func dropSeparators(r rune) rune {
	if r == '.' || r == ',' {
		return -1
	}
	return r
}

// parseDateToken normalizes the supported date forms to a UTC calendar date.
// Two-digit years resolve to the current century.
func parseDateToken(token string) (time.Time, bool) {
	if strings.Contains(token, "-") {
		d, err := time.Parse("2006-01-02", token)
		if err != nil {
			return time.Time{}, false
		}
		return d, true
	}

	parts := strings.FieldsFunc(token, func(r rune) bool { return r == '.' || r == '/' })
	if len(parts) != 3 {
		return time.Time{}, false
	}
	day, err1 := strconv.Atoi(parts[0])
	month, err2 := strconv.Atoi(parts[1])
	year, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return time.Time{}, false
	}
	if year < 100 {
		year += time.Now().Year() / 100 * 100
	} else if year < 1000 {
		return time.Time{}, false
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if d.Day() != day || d.Month() != time.Month(month) {
		return time.Time{}, false
	}
	return d, true
}

func containsLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
