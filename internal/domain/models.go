package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Travel represents one business trip an employee files expenses against.
type Travel struct {
	ID                 uuid.UUID    `db:"id" json:"id"`
	EmployeeName       string       `db:"employee_name" json:"employee_name"`
	Title              string       `db:"title" json:"title"`
	DestinationCity    string       `db:"destination_city" json:"destination_city"`
	DestinationCountry string       `db:"destination_country" json:"destination_country"`
	Purpose            string       `db:"purpose" json:"purpose"`
	CostCenter         string       `db:"cost_center" json:"cost_center"`
	StartDate          time.Time    `db:"start_date" json:"start_date"`
	EndDate            time.Time    `db:"end_date" json:"end_date"`
	Status             TravelStatus `db:"status" json:"status"`
	CreatedAt          time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time    `db:"updated_at" json:"updated_at"`
}

// Receipt is the persistent record of one uploaded receipt file together
// with everything the parsing pipeline recovered from it. The parse-derived
// columns mirror ParseResult; Verified marks human-corrected rows.
type Receipt struct {
	ID               uuid.UUID        `db:"id" json:"id"`
	TravelID         uuid.UUID        `db:"travel_id" json:"travel_id"`
	OriginalFilename string           `db:"original_filename" json:"original_filename"`
	StorageKey       string           `db:"storage_key" json:"-"`
	FileSize         int64            `db:"file_size" json:"file_size"`
	MimeType         string           `db:"mime_type" json:"mime_type"`
	Amount           *decimal.Decimal `db:"amount" json:"amount"`
	Currency         *string          `db:"currency" json:"currency"`
	VatAmount        *decimal.Decimal `db:"vat_amount" json:"vat_amount"`
	VatRate          *float64         `db:"vat_rate" json:"vat_rate"`
	ReceiptDate      *time.Time       `db:"receipt_date" json:"receipt_date"`
	InvoiceNumber    *string          `db:"invoice_number" json:"invoice_number"`
	Merchant         *string          `db:"merchant" json:"merchant"`
	PaymentMethod    *PaymentMethod   `db:"payment_method" json:"payment_method"`
	Category         Category         `db:"category" json:"category"`
	ParsingStatus    ParsingStatus    `db:"parsing_status" json:"parsing_status"`
	ParsingConf      float64          `db:"parsing_confidence" json:"parsing_confidence"`
	RawText          string           `db:"raw_text" json:"raw_text,omitempty"`
	ParseError       string           `db:"parse_error" json:"parse_error,omitempty"`
	Verified         bool             `db:"verified" json:"verified"`
	ParseQueuedAt    *time.Time       `db:"parse_queued_at" json:"parse_queued_at,omitempty"`
	ParseRetries     int              `db:"parse_retries" json:"parse_retries"`
	ParsedAt         *time.Time       `db:"parsed_at" json:"parsed_at"`
	CreatedAt        time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time        `db:"updated_at" json:"updated_at"`
}

// ParseResult is the immutable outcome of running the parsing pipeline over
// one uploaded document. Status is a pure function of which fields were
// found and whether any text was extracted; the confidence score never
// decreases when more fields are found.
type ParseResult struct {
	Amount        *decimal.Decimal `json:"amount"`
	Currency      *string          `json:"currency"`
	VatAmount     *decimal.Decimal `json:"vat_amount"`
	VatRate       *float64         `json:"vat_rate"`
	Date          *time.Time       `json:"date"`
	InvoiceNumber *string          `json:"invoice_number"`
	Merchant      *string          `json:"merchant"`
	PaymentMethod *PaymentMethod   `json:"payment_method"`
	Category      Category         `json:"category"`
	ParsingStatus ParsingStatus    `json:"parsing_status"`
	Confidence    float64          `json:"parsing_confidence"`
	RawText       string           `json:"raw_text"`
}

// CategoryTotal aggregates receipts of one category within a travel.
type CategoryTotal struct {
	Category Category        `db:"category" json:"category"`
	Count    int             `db:"count" json:"count"`
	Total    decimal.Decimal `db:"total" json:"total"`
	VatTotal decimal.Decimal `db:"vat_total" json:"vat_total"`
}

// TravelSummary is the aggregate view used by the summary endpoint and the
// report exporters.
type TravelSummary struct {
	Travel        Travel          `json:"travel"`
	Totals        []CategoryTotal `json:"totals"`
	GrandTotal    decimal.Decimal `json:"grand_total"`
	VatTotal      decimal.Decimal `json:"vat_total"`
	ReceiptCount  int             `json:"receipt_count"`
	ManualCount   int             `json:"manual_count"`
	UnverifiedLow int             `json:"unverified_low_confidence"`
}

// StatsOverview is the global dashboard aggregate.
type StatsOverview struct {
	TotalTravels        int             `db:"total_travels" json:"total_travels"`
	TotalReceipts       int             `db:"total_receipts" json:"total_receipts"`
	ParsingSuccess      int             `db:"parsing_success" json:"parsing_success"`
	ParsingPartial      int             `db:"parsing_partial" json:"parsing_partial"`
	ParsingManual       int             `db:"parsing_manual" json:"parsing_manual"`
	ParsingFailed       int             `db:"parsing_failed" json:"parsing_failed"`
	NeedsReview         int             `db:"needs_review" json:"needs_review"`
	Verified            int             `db:"verified" json:"verified"`
	TotalAmount         decimal.Decimal `db:"total_amount" json:"total_amount"`
	LodgingAmount       decimal.Decimal `db:"lodging_amount" json:"lodging_amount"`
	TransportAmount     decimal.Decimal `db:"transport_amount" json:"transport_amount"`
	MealsAmount         decimal.Decimal `db:"meals_amount" json:"meals_amount"`
	EntertainmentAmount decimal.Decimal `db:"entertainment_amount" json:"entertainment_amount"`
	OtherAmount         decimal.Decimal `db:"other_amount" json:"other_amount"`
}
