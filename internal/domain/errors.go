package domain

import "errors"

var (
	ErrTravelNotFound      = errors.New("travel not found")
	ErrReceiptNotFound     = errors.New("receipt not found")
	ErrInvalidInput        = errors.New("invalid input")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file exceeds maximum allowed size")
	ErrUploadFailed        = errors.New("file upload to storage failed")
)
