package port

import "context"

// RawDocument is one uploaded receipt file handed to the parsing pipeline.
// It lives for a single parse invocation; file retention is the caller's
// concern.
type RawDocument struct {
	Content  []byte
	MimeType string
	Filename string
	Size     int64
}

// ExtractedText is the output of text extraction over a RawDocument. Pages
// are concatenated in document order. Confidence is the engine's own mean
// word confidence in [0,1], or -1 when the engine does not report one.
type ExtractedText struct {
	Text       string
	Pages      int
	Confidence float64
}

// Empty reports whether extraction produced no usable text.
func (t ExtractedText) Empty() bool {
	return len(t.Text) == 0
}

// TextExtractor abstracts OCR/text-layer extraction over images and PDFs.
// Implementations return ocr-package error types for content-level failures
// (unsupported format, unreadable bytes, deadline exceeded) and plain errors
// only for environment problems.
type TextExtractor interface {
	Extract(ctx context.Context, doc RawDocument) (ExtractedText, error)
}
