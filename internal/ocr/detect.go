package ocr

import (
	"net/http"
	"strings"

	"spesen/internal/domain"
)

// PageBreak separates per-page text when a multi-page document is
// concatenated in page order.
const PageBreak = "\n\f\n"

// JoinPages concatenates per-page text in document order.
func JoinPages(pages []string) string {
	return strings.Join(pages, PageBreak)
}

// DetectKind sniffs the content bytes and reconciles them with the declared
// MIME type. The sniffed type wins when it is one of the supported kinds;
// the declared type is used only when sniffing is inconclusive.
//
// Returns ExtractionFailedError for empty content and UnsupportedFormatError
// for anything outside the image/PDF set.
func DetectKind(content []byte, declared string) (domain.FileType, error) {
	if len(content) == 0 {
		return "", NewExtractionFailedError("empty file", nil)
	}

	sniffed := normalizeMime(http.DetectContentType(content))
	if kind, ok := domain.AllowedContentTypes[sniffed]; ok {
		return kind, nil
	}

	declared = normalizeMime(declared)
	if kind, ok := domain.AllowedContentTypes[declared]; ok {
		// Sniffing is inconclusive for some valid files (e.g. PDFs with a
		// BOM prefix); trust the declared type only when the bytes did not
		// positively identify as something else.
		if sniffed == "application/octet-stream" || strings.HasPrefix(sniffed, "text/") {
			return kind, nil
		}
	}

	if declared == "" {
		declared = sniffed
	}
	return "", NewUnsupportedFormatError(declared)
}

func normalizeMime(mime string) string {
	mime = strings.ToLower(strings.TrimSpace(mime))
	if i := strings.Index(mime, ";"); i >= 0 {
		mime = strings.TrimSpace(mime[:i])
	}
	if mime == "image/jpg" {
		return "image/jpeg"
	}
	return mime
}
