package ocr

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// UnsupportedFormatError indicates the document is neither a supported
// raster image nor a PDF.
type UnsupportedFormatError struct {
	ContentType string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported document format: %s", e.ContentType)
}

// NewUnsupportedFormatError creates an UnsupportedFormatError.
func NewUnsupportedFormatError(contentType string) *UnsupportedFormatError {
	return &UnsupportedFormatError{ContentType: contentType}
}

// ExtractionFailedError indicates the engine could not process the document
// bytes (corrupt file, zero-byte file, undecodable page).
type ExtractionFailedError struct {
	Err    error
	Reason string
}

func (e *ExtractionFailedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("extraction failed (%s): %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("extraction failed: %s", e.Reason)
}

func (e *ExtractionFailedError) Unwrap() error {
	return e.Err
}

// NewExtractionFailedError creates an ExtractionFailedError wrapping err.
func NewExtractionFailedError(reason string, err error) *ExtractionFailedError {
	return &ExtractionFailedError{Err: err, Reason: reason}
}

// TimeoutExceededError indicates extraction did not finish within the
// caller-supplied bound.
type TimeoutExceededError struct {
	Limit time.Duration
}

func (e *TimeoutExceededError) Error() string {
	return fmt.Sprintf("extraction timed out after %s", e.Limit)
}

// NewTimeoutExceededError creates a TimeoutExceededError.
func NewTimeoutExceededError(limit time.Duration) *TimeoutExceededError {
	return &TimeoutExceededError{Limit: limit}
}

// IsContentError reports whether err originates from the document content
// rather than the environment. Content errors are absorbed into a failed
// parse result; everything else crosses the pipeline boundary as a real
// error.
func IsContentError(err error) bool {
	var unsupported *UnsupportedFormatError
	var failed *ExtractionFailedError
	var timeout *TimeoutExceededError
	return errors.As(err, &unsupported) ||
		errors.As(err, &failed) ||
		errors.As(err, &timeout) ||
		errors.Is(err, context.DeadlineExceeded)
}
