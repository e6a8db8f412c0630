package domain

// FileType represents the allowed file types for receipt upload.
type FileType string

const (
	FileTypePDF FileType = "pdf"
	FileTypeJPG FileType = "jpg"
	FileTypePNG FileType = "png"
)

// AllowedFileTypes maps FileType to its MIME content type.
var AllowedFileTypes = map[FileType]string{
	FileTypePDF: "application/pdf",
	FileTypeJPG: "image/jpeg",
	FileTypePNG: "image/png",
}

// AllowedContentTypes maps MIME content types back to FileType.
var AllowedContentTypes = map[string]FileType{
	"application/pdf": FileTypePDF,
	"image/jpeg":      FileTypeJPG,
	"image/png":       FileTypePNG,
}

// AllowedExtensions maps file extensions (without dot) to FileType.
var AllowedExtensions = map[string]FileType{
	"pdf":  FileTypePDF,
	"jpg":  FileTypeJPG,
	"jpeg": FileTypeJPG,
	"png":  FileTypePNG,
}

// Category is the closed set of expense categories a receipt can fall into.
// Exactly one is assigned per parse; CategoryOther is the fallback when no
// keyword rule matches.
type Category string

const (
	CategoryLodging       Category = "lodging"
	CategoryTransport     Category = "transport"
	CategoryMeals         Category = "meals"
	CategoryEntertainment Category = "entertainment"
	CategoryOther         Category = "other"
)

// Categories lists all valid expense categories in report order.
var Categories = []Category{
	CategoryLodging,
	CategoryTransport,
	CategoryMeals,
	CategoryEntertainment,
	CategoryOther,
}

// ValidCategories is the membership set for category validation.
var ValidCategories = map[Category]bool{
	CategoryLodging:       true,
	CategoryTransport:     true,
	CategoryMeals:         true,
	CategoryEntertainment: true,
	CategoryOther:         true,
}

// ParsingStatus summarizes how complete a receipt parse is. It is derived
// once per parse from which fields were found and is never set directly.
type ParsingStatus string

const (
	// ParsingStatusFailed means no text could be extracted at all.
	ParsingStatusFailed ParsingStatus = "failed"
	// ParsingStatusManual means text was extracted but neither an amount nor
	// a merchant was found; the receipt needs human entry.
	ParsingStatusManual ParsingStatus = "manual"
	// ParsingStatusPartial means some but not all of amount, merchant and
	// date were found; usable but flagged for review.
	ParsingStatusPartial ParsingStatus = "partial"
	// ParsingStatusSuccess means amount, merchant and date were all found,
	// or the confidence score cleared the success threshold.
	ParsingStatusSuccess ParsingStatus = "success"
)

// PaymentMethod is the canonical payment method recognized on receipts.
type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "cash"
	PaymentMethodCard     PaymentMethod = "card"
	PaymentMethodTransfer PaymentMethod = "transfer"
	PaymentMethodPaypal   PaymentMethod = "paypal"
)

// ValidPaymentMethods is the membership set for payment method validation.
var ValidPaymentMethods = map[PaymentMethod]bool{
	PaymentMethodCash:     true,
	PaymentMethodCard:     true,
	PaymentMethodTransfer: true,
	PaymentMethodPaypal:   true,
}

// TravelStatus is the lifecycle state of a travel expense report. Stored as
// plain data on the travel row; status transitions are managed by callers.
type TravelStatus string

const (
	TravelStatusDraft     TravelStatus = "draft"
	TravelStatusSubmitted TravelStatus = "submitted"
	TravelStatusApproved  TravelStatus = "approved"
	TravelStatusRejected  TravelStatus = "rejected"
)
