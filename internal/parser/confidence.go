package parser

import (
	"regexp"
	"strings"

	"spesen/internal/domain"
)

// Scoring weights. The base is awarded for any extracted text at all; the
// field weights reflect how strongly each field signals a usable receipt.
const (
	scoreBaseText = 30
	scoreAmount   = 25
	scoreMerchant = 20
	scoreDate     = 15
	scoreVat      = 10
	scoreLongText = 5
	scorePriceHit = 5

	// minTextLength is the threshold above which the text is long enough
	// to count as a real document rather than an OCR fragment.
	minTextLength = 100
)

// pricePattern recognizes any price-like token, independent of labels.
var pricePattern = regexp.MustCompile(`\d+[.,]\d{2}`)

// score computes the parsing confidence on a 0..100 scale from the extracted
// fields and the raw text.
func score(fields Fields, text string) float64 {
	if strings.TrimSpace(text) == "" {
		return 0
	}
	s := scoreBaseText
	if fields.Amount != nil {
		s += scoreAmount
	}
	if fields.Merchant != nil {
		s += scoreMerchant
	}
	if fields.Date != nil {
		s += scoreDate
	}
	if fields.VatAmount != nil || fields.VatRate != nil {
		s += scoreVat
	}
	if len(text) > minTextLength {
		s += scoreLongText
	}
	if pricePattern.MatchString(text) {
		s += scorePriceHit
	}
	if s > 100 {
		s = 100
	}
	return float64(s)
}

// deriveStatus maps the extraction outcome to a parsing status. The field
// checks take precedence over the numeric thresholds: a receipt with no
// amount and no merchant needs a human no matter how the score came out, and
// one with amount, merchant and date is done even if the score is mediocre.
func deriveStatus(fields Fields, text string, conf, manualBelow, successAt float64) domain.ParsingStatus {
	if strings.TrimSpace(text) == "" {
		return domain.ParsingStatusFailed
	}
	if fields.Amount == nil && fields.Merchant == nil {
		return domain.ParsingStatusManual
	}
	if fields.Amount != nil && fields.Merchant != nil && fields.Date != nil {
		return domain.ParsingStatusSuccess
	}
	if conf >= successAt {
		return domain.ParsingStatusSuccess
	}
	if conf < manualBelow {
		return domain.ParsingStatusManual
	}
	return domain.ParsingStatusPartial
}
