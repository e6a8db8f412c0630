package port

import (
	"context"
	"io"
)

// UploadInput encapsulates the parameters needed to store an object. The
// bucket is fixed when the adapter is constructed; callers address objects
// by key only.
type UploadInput struct {
	Key         string
	Body        io.Reader
	ContentType string
	Size        int64
}

// UploadOutput contains the result of a successful upload.
type UploadOutput struct {
	Location string
	ETag     string
}

// ObjectStorage abstracts the object store holding the original receipt
// files.
type ObjectStorage interface {
	Upload(ctx context.Context, input UploadInput) (*UploadOutput, error)
	Download(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	// GetPresignedURL returns a time-limited download URL. A non-empty
	// downloadName is offered to the browser as the attachment filename.
	GetPresignedURL(ctx context.Context, key string, expirySeconds int64, downloadName string) (string, error)
}
