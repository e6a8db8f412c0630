package port

import (
	"context"

	"spesen/internal/domain"
)

// ReceiptParser is the entry point of the receipt parsing pipeline.
//
// Parse always returns a ParseResult for content-level problems (unsupported
// format, unreadable bytes, extraction timeout): the result carries status
// "failed", confidence 0 and no fields. A non-nil error is returned only for
// environment problems (engine unavailable, I/O, resource exhaustion), which
// the caller must treat as a fatal condition rather than a bad receipt.
type ReceiptParser interface {
	Parse(ctx context.Context, doc RawDocument) (*domain.ParseResult, error)
}
