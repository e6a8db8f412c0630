package service_test

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"spesen/internal/config"
	"spesen/internal/domain"
	"spesen/internal/port"
	"spesen/internal/service"
	"spesen/mocks"
)

func testS3Config() config.S3Config {
	return config.S3Config{
		Region:        "eu-central-1",
		Bucket:        "test-bucket",
		MaxFileSizeMB: 20,
		PresignExpiry: 3600,
	}
}

func testEmailConfig(reviewAddress string) config.EmailConfig {
	return config.EmailConfig{
		Provider:      "noop",
		FromAddress:   "noreply@test.example.com",
		ReviewAddress: reviewAddress,
	}
}

type receiptServiceMocks struct {
	receiptRepo *mocks.MockReceiptRepo
	travelRepo  *mocks.MockTravelRepo
	parser      *mocks.MockReceiptParser
	storage     *mocks.MockObjectStorage
	email       *mocks.MockEmailSender
}

func newReceiptService(reviewAddress string) (service.ReceiptService, receiptServiceMocks) {
	m := receiptServiceMocks{
		receiptRepo: new(mocks.MockReceiptRepo),
		travelRepo:  new(mocks.MockTravelRepo),
		parser:      new(mocks.MockReceiptParser),
		storage:     new(mocks.MockObjectStorage),
		email:       new(mocks.MockEmailSender),
	}
	s3Cfg := testS3Config()
	emailCfg := testEmailConfig(reviewAddress)
	svc := service.NewReceiptService(m.receiptRepo, m.travelRepo, m.parser, m.storage, m.email, &s3Cfg, &emailCfg)
	return svc, m
}

// createMultipartFile creates a fake multipart file header and content for testing.
func createMultipartFile(filename string, content []byte, contentType string) (multipart.File, *multipart.FileHeader) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)

	part, _ := writer.CreatePart(h)
	_, _ = part.Write(content)
	writer.Close()

	reader := multipart.NewReader(body, writer.Boundary())
	form, _ := reader.ReadForm(int64(len(content) + 1024))
	file, _ := form.File["file"][0].Open()
	return file, form.File["file"][0]
}

// pdfContent returns minimal valid PDF bytes.
func pdfContent() []byte {
	return []byte("%PDF-1.4 test content that is at least a few bytes long for detection purposes")
}

func testTravel(id uuid.UUID) *domain.Travel {
	return &domain.Travel{
		ID:           id,
		EmployeeName: "Anna Schmidt",
		Title:        "Messe Berlin 2024",
		Status:       domain.TravelStatusDraft,
	}
}

func successParseResult() *domain.ParseResult {
	amount := decimal.NewFromFloat(87.50)
	currency := "EUR"
	vat := decimal.NewFromFloat(14.01)
	rate := 19.0
	date := time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC)
	invoice := "2024-001234"
	merchant := "Hotel Zur Post"
	method := domain.PaymentMethodCard
	return &domain.ParseResult{
		Amount:        &amount,
		Currency:      &currency,
		VatAmount:     &vat,
		VatRate:       &rate,
		Date:          &date,
		InvoiceNumber: &invoice,
		Merchant:      &merchant,
		PaymentMethod: &method,
		Category:      domain.CategoryLodging,
		ParsingStatus: domain.ParsingStatusSuccess,
		Confidence:    100,
		RawText:       "Hotel Zur Post\nGesamtbetrag: 87,50 EUR",
	}
}

func manualParseResult() *domain.ParseResult {
	return &domain.ParseResult{
		Category:      domain.CategoryOther,
		ParsingStatus: domain.ParsingStatusManual,
		Confidence:    30,
		RawText:       "some text without any recognizable fields",
	}
}

func TestReceiptService_Upload_Success(t *testing.T) {
	svc, m := newReceiptService("")
	travelID := uuid.New()

	file, header := createMultipartFile("hotel_berlin.pdf", pdfContent(), "application/pdf")
	defer file.Close()

	m.travelRepo.On("GetByID", mock.Anything, travelID).Return(testTravel(travelID), nil)
	m.storage.On("Upload", mock.Anything, mock.AnythingOfType("port.UploadInput")).
		Return(&port.UploadOutput{Location: "https://test-bucket.s3.amazonaws.com/x", ETag: "abc"}, nil)
	m.parser.On("Parse", mock.Anything, mock.AnythingOfType("port.RawDocument")).
		Return(successParseResult(), nil)
	m.receiptRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Receipt")).Return(nil)

	receipt, err := svc.Upload(context.Background(), service.UploadReceiptInput{
		TravelID: travelID,
		File:     file,
		Header:   header,
	})

	assert.NoError(t, err)
	assert.Equal(t, "hotel_berlin.pdf", receipt.OriginalFilename)
	assert.Equal(t, "application/pdf", receipt.MimeType)
	assert.True(t, strings.HasPrefix(receipt.StorageKey, "travels/"+travelID.String()+"/receipts/"))
	assert.Equal(t, domain.ParsingStatusSuccess, receipt.ParsingStatus)
	assert.Equal(t, domain.CategoryLodging, receipt.Category)
	assert.True(t, receipt.Amount.Equal(decimal.NewFromFloat(87.50)))
	assert.Equal(t, "Hotel Zur Post", *receipt.Merchant)
	assert.False(t, receipt.Verified)
	assert.NotNil(t, receipt.ParsedAt)
	assert.Nil(t, receipt.ParseQueuedAt)

	m.storage.AssertExpectations(t)
	m.receiptRepo.AssertExpectations(t)
}

func TestReceiptService_Upload_UnsupportedExtension(t *testing.T) {
	svc, m := newReceiptService("")
	travelID := uuid.New()

	file, header := createMultipartFile("report.docx", []byte("not a receipt"), "application/octet-stream")
	defer file.Close()

	m.travelRepo.On("GetByID", mock.Anything, travelID).Return(testTravel(travelID), nil)

	_, err := svc.Upload(context.Background(), service.UploadReceiptInput{
		TravelID: travelID,
		File:     file,
		Header:   header,
	})

	assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)
	m.storage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
}

func TestReceiptService_Upload_FileTooLarge(t *testing.T) {
	svc, m := newReceiptService("")
	travelID := uuid.New()

	file, _ := createMultipartFile("hotel.pdf", pdfContent(), "application/pdf")
	defer file.Close()
	header := &multipart.FileHeader{Filename: "hotel.pdf", Size: 21 * 1024 * 1024}

	m.travelRepo.On("GetByID", mock.Anything, travelID).Return(testTravel(travelID), nil)

	_, err := svc.Upload(context.Background(), service.UploadReceiptInput{
		TravelID: travelID,
		File:     file,
		Header:   header,
	})

	assert.ErrorIs(t, err, domain.ErrFileTooLarge)
	m.storage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
}

func TestReceiptService_Upload_ContentMismatch(t *testing.T) {
	svc, m := newReceiptService("")
	travelID := uuid.New()

	// Extension says PDF, bytes say plain text.
	file, header := createMultipartFile("fake.pdf", []byte("plain text pretending to be a pdf"), "application/pdf")
	defer file.Close()

	m.travelRepo.On("GetByID", mock.Anything, travelID).Return(testTravel(travelID), nil)

	_, err := svc.Upload(context.Background(), service.UploadReceiptInput{
		TravelID: travelID,
		File:     file,
		Header:   header,
	})

	assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)
	m.storage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
}

func TestReceiptService_Upload_TravelNotFound(t *testing.T) {
	svc, m := newReceiptService("")
	travelID := uuid.New()

	file, header := createMultipartFile("hotel.pdf", pdfContent(), "application/pdf")
	defer file.Close()

	m.travelRepo.On("GetByID", mock.Anything, travelID).Return(nil, domain.ErrTravelNotFound)

	_, err := svc.Upload(context.Background(), service.UploadReceiptInput{
		TravelID: travelID,
		File:     file,
		Header:   header,
	})

	assert.ErrorIs(t, err, domain.ErrTravelNotFound)
}

func TestReceiptService_Upload_StorageFailure(t *testing.T) {
	svc, m := newReceiptService("")
	travelID := uuid.New()

	file, header := createMultipartFile("hotel.pdf", pdfContent(), "application/pdf")
	defer file.Close()

	m.travelRepo.On("GetByID", mock.Anything, travelID).Return(testTravel(travelID), nil)
	m.storage.On("Upload", mock.Anything, mock.AnythingOfType("port.UploadInput")).
		Return(nil, errors.New("connection refused"))

	_, err := svc.Upload(context.Background(), service.UploadReceiptInput{
		TravelID: travelID,
		File:     file,
		Header:   header,
	})

	assert.ErrorIs(t, err, domain.ErrUploadFailed)
	m.receiptRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestReceiptService_Upload_CreateFailureCleansUpObject(t *testing.T) {
	svc, m := newReceiptService("")
	travelID := uuid.New()

	file, header := createMultipartFile("hotel.pdf", pdfContent(), "application/pdf")
	defer file.Close()

	m.travelRepo.On("GetByID", mock.Anything, travelID).Return(testTravel(travelID), nil)
	m.storage.On("Upload", mock.Anything, mock.AnythingOfType("port.UploadInput")).
		Return(&port.UploadOutput{}, nil)
	m.parser.On("Parse", mock.Anything, mock.AnythingOfType("port.RawDocument")).
		Return(successParseResult(), nil)
	m.receiptRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Receipt")).
		Return(errors.New("unique violation"))
	m.storage.On("Delete", mock.Anything, mock.AnythingOfType("string")).Return(nil)

	_, err := svc.Upload(context.Background(), service.UploadReceiptInput{
		TravelID: travelID,
		File:     file,
		Header:   header,
	})

	assert.Error(t, err)
	m.storage.AssertCalled(t, "Delete", mock.Anything, mock.AnythingOfType("string"))
}

func TestReceiptService_Upload_ParserEnvironmentErrorQueuesRetry(t *testing.T) {
	svc, m := newReceiptService("finance@example.com")
	travelID := uuid.New()

	file, header := createMultipartFile("hotel.pdf", pdfContent(), "application/pdf")
	defer file.Close()

	m.travelRepo.On("GetByID", mock.Anything, travelID).Return(testTravel(travelID), nil)
	m.storage.On("Upload", mock.Anything, mock.AnythingOfType("port.UploadInput")).
		Return(&port.UploadOutput{}, nil)
	m.parser.On("Parse", mock.Anything, mock.AnythingOfType("port.RawDocument")).
		Return(nil, errors.New("ocr engine unavailable"))
	m.receiptRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Receipt")).Return(nil)

	receipt, err := svc.Upload(context.Background(), service.UploadReceiptInput{
		TravelID: travelID,
		File:     file,
		Header:   header,
	})

	// The upload itself succeeds; the parse is retried in the background.
	assert.NoError(t, err)
	assert.Equal(t, domain.ParsingStatusFailed, receipt.ParsingStatus)
	assert.NotNil(t, receipt.ParseQueuedAt)
	assert.Contains(t, receipt.ParseError, "ocr engine unavailable")

	// No alert while a retry is pending.
	m.email.AssertNotCalled(t, "SendReceiptReviewAlert", mock.Anything, mock.Anything, mock.Anything)
}

func TestReceiptService_Upload_ManualStatusSendsReviewAlert(t *testing.T) {
	svc, m := newReceiptService("finance@example.com")
	travelID := uuid.New()

	file, header := createMultipartFile("blurry_scan.pdf", pdfContent(), "application/pdf")
	defer file.Close()

	m.travelRepo.On("GetByID", mock.Anything, travelID).Return(testTravel(travelID), nil)
	m.storage.On("Upload", mock.Anything, mock.AnythingOfType("port.UploadInput")).
		Return(&port.UploadOutput{}, nil)
	m.parser.On("Parse", mock.Anything, mock.AnythingOfType("port.RawDocument")).
		Return(manualParseResult(), nil)
	m.receiptRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Receipt")).Return(nil)
	m.email.On("SendReceiptReviewAlert", mock.Anything, "finance@example.com",
		mock.MatchedBy(func(alert port.ReviewAlert) bool {
			return alert.TravelTitle == "Messe Berlin 2024" &&
				alert.ParsingStatus == domain.ParsingStatusManual &&
				alert.OriginalFilename == "blurry_scan.pdf"
		})).Return(nil)

	receipt, err := svc.Upload(context.Background(), service.UploadReceiptInput{
		TravelID: travelID,
		File:     file,
		Header:   header,
	})

	assert.NoError(t, err)
	assert.Equal(t, domain.ParsingStatusManual, receipt.ParsingStatus)
	m.email.AssertExpectations(t)
}

func TestReceiptService_Upload_NoAlertWithoutReviewAddress(t *testing.T) {
	svc, m := newReceiptService("")
	travelID := uuid.New()

	file, header := createMultipartFile("blurry_scan.pdf", pdfContent(), "application/pdf")
	defer file.Close()

	m.travelRepo.On("GetByID", mock.Anything, travelID).Return(testTravel(travelID), nil)
	m.storage.On("Upload", mock.Anything, mock.AnythingOfType("port.UploadInput")).
		Return(&port.UploadOutput{}, nil)
	m.parser.On("Parse", mock.Anything, mock.AnythingOfType("port.RawDocument")).
		Return(manualParseResult(), nil)
	m.receiptRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Receipt")).Return(nil)

	_, err := svc.Upload(context.Background(), service.UploadReceiptInput{
		TravelID: travelID,
		File:     file,
		Header:   header,
	})

	assert.NoError(t, err)
	m.email.AssertNotCalled(t, "SendReceiptReviewAlert", mock.Anything, mock.Anything, mock.Anything)
}

func TestReceiptService_UpdateFields_InvalidCategory(t *testing.T) {
	svc, m := newReceiptService("")

	_, err := svc.UpdateFields(context.Background(), &service.UpdateReceiptFieldsInput{
		ReceiptID: uuid.New(),
		Category:  "groceries",
	})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	m.receiptRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestReceiptService_UpdateFields_InvalidPaymentMethod(t *testing.T) {
	svc, _ := newReceiptService("")

	method := domain.PaymentMethod("cheque")
	_, err := svc.UpdateFields(context.Background(), &service.UpdateReceiptFieldsInput{
		ReceiptID:     uuid.New(),
		Category:      domain.CategoryMeals,
		PaymentMethod: &method,
	})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestReceiptService_UpdateFields_ReplacesValuesWholesale(t *testing.T) {
	svc, m := newReceiptService("")
	receiptID := uuid.New()

	oldAmount := decimal.NewFromFloat(10.00)
	oldMerchant := "Wrong Merchant"
	stored := &domain.Receipt{
		ID:            receiptID,
		Amount:        &oldAmount,
		Merchant:      &oldMerchant,
		Category:      domain.CategoryOther,
		ParsingStatus: domain.ParsingStatusPartial,
	}

	m.receiptRepo.On("GetByID", mock.Anything, receiptID).Return(stored, nil)
	m.receiptRepo.On("UpdateFields", mock.Anything, mock.AnythingOfType("*domain.Receipt")).Return(nil)

	newAmount := decimal.NewFromFloat(42.90)
	merchant := "Gasthaus Adler"
	receipt, err := svc.UpdateFields(context.Background(), &service.UpdateReceiptFieldsInput{
		ReceiptID: receiptID,
		Amount:    &newAmount,
		Merchant:  &merchant,
		Category:  domain.CategoryMeals,
		Verified:  true,
	})

	assert.NoError(t, err)
	assert.True(t, receipt.Amount.Equal(newAmount))
	assert.Equal(t, "Gasthaus Adler", *receipt.Merchant)
	assert.Equal(t, domain.CategoryMeals, receipt.Category)
	assert.True(t, receipt.Verified)
	// Unset pointer fields clear the stored values.
	assert.Nil(t, receipt.Currency)
	assert.Nil(t, receipt.InvoiceNumber)
	// The parsing status records what the machine did; corrections leave it.
	assert.Equal(t, domain.ParsingStatusPartial, receipt.ParsingStatus)

	m.receiptRepo.AssertExpectations(t)
}

func TestReceiptService_Reparse_ReplacesParseOutcome(t *testing.T) {
	svc, m := newReceiptService("")
	receiptID := uuid.New()

	stored := &domain.Receipt{
		ID:               receiptID,
		TravelID:         uuid.New(),
		OriginalFilename: "hotel.pdf",
		StorageKey:       "travels/x/receipts/y.pdf",
		MimeType:         "application/pdf",
		FileSize:         1234,
		ParsingStatus:    domain.ParsingStatusManual,
		Verified:         true,
	}

	m.receiptRepo.On("GetByID", mock.Anything, receiptID).Return(stored, nil)
	m.storage.On("Download", mock.Anything, stored.StorageKey).
		Return(pdfContent(), nil)
	m.parser.On("Parse", mock.Anything, mock.AnythingOfType("port.RawDocument")).
		Return(successParseResult(), nil)
	m.receiptRepo.On("UpdateParseResult", mock.Anything, mock.AnythingOfType("*domain.Receipt")).Return(nil)

	receipt, err := svc.Reparse(context.Background(), receiptID)

	assert.NoError(t, err)
	assert.Equal(t, domain.ParsingStatusSuccess, receipt.ParsingStatus)
	assert.True(t, receipt.Amount.Equal(decimal.NewFromFloat(87.50)))
	// Machine output replaces the human correction, so verified resets.
	assert.False(t, receipt.Verified)

	m.receiptRepo.AssertExpectations(t)
}

func TestReceiptService_Reparse_EnvironmentErrorQueuesRetry(t *testing.T) {
	svc, m := newReceiptService("")
	receiptID := uuid.New()

	stored := &domain.Receipt{
		ID:         receiptID,
		StorageKey: "travels/x/receipts/y.pdf",
		MimeType:   "application/pdf",
	}

	m.receiptRepo.On("GetByID", mock.Anything, receiptID).Return(stored, nil)
	m.storage.On("Download", mock.Anything, stored.StorageKey).
		Return(pdfContent(), nil)
	m.parser.On("Parse", mock.Anything, mock.AnythingOfType("port.RawDocument")).
		Return(nil, errors.New("ocr engine unavailable"))
	m.receiptRepo.On("MarkQueued", mock.Anything, receiptID, mock.AnythingOfType("time.Time"), mock.AnythingOfType("string")).
		Return(nil)

	_, err := svc.Reparse(context.Background(), receiptID)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "ocr engine unavailable")
	m.receiptRepo.AssertCalled(t, "MarkQueued", mock.Anything, receiptID, mock.AnythingOfType("time.Time"), mock.AnythingOfType("string"))
	m.receiptRepo.AssertNotCalled(t, "UpdateParseResult", mock.Anything, mock.Anything)
}

func TestReceiptService_ParseReceipt_RequeuesWhileRetriesRemain(t *testing.T) {
	svc, m := newReceiptService("finance@example.com")
	receiptID := uuid.New()

	receipt := &domain.Receipt{
		ID:           receiptID,
		StorageKey:   "travels/x/receipts/y.pdf",
		MimeType:     "application/pdf",
		ParseRetries: 2,
	}

	m.storage.On("Download", mock.Anything, receipt.StorageKey).
		Return(pdfContent(), nil)
	m.parser.On("Parse", mock.Anything, mock.AnythingOfType("port.RawDocument")).
		Return(nil, errors.New("ocr engine unavailable"))
	m.receiptRepo.On("MarkQueued", mock.Anything, receiptID, mock.AnythingOfType("time.Time"), mock.AnythingOfType("string")).
		Return(nil)

	svc.ParseReceipt(context.Background(), receipt, 5)

	m.receiptRepo.AssertCalled(t, "MarkQueued", mock.Anything, receiptID, mock.AnythingOfType("time.Time"), mock.AnythingOfType("string"))
	m.receiptRepo.AssertNotCalled(t, "UpdateParseResult", mock.Anything, mock.Anything)
	m.email.AssertNotCalled(t, "SendReceiptReviewAlert", mock.Anything, mock.Anything, mock.Anything)
}

func TestReceiptService_ParseReceipt_PermanentFailureAfterMaxRetries(t *testing.T) {
	svc, m := newReceiptService("finance@example.com")
	receiptID := uuid.New()
	travelID := uuid.New()

	receipt := &domain.Receipt{
		ID:               receiptID,
		TravelID:         travelID,
		OriginalFilename: "hotel.pdf",
		StorageKey:       "travels/x/receipts/y.pdf",
		MimeType:         "application/pdf",
		ParsingStatus:    domain.ParsingStatusFailed,
		ParseRetries:     5,
	}

	m.storage.On("Download", mock.Anything, receipt.StorageKey).
		Return(pdfContent(), nil)
	m.parser.On("Parse", mock.Anything, mock.AnythingOfType("port.RawDocument")).
		Return(nil, errors.New("ocr engine unavailable"))
	m.receiptRepo.On("UpdateParseResult", mock.Anything, mock.AnythingOfType("*domain.Receipt")).Return(nil)
	m.travelRepo.On("GetByID", mock.Anything, travelID).Return(testTravel(travelID), nil)
	m.email.On("SendReceiptReviewAlert", mock.Anything, "finance@example.com", mock.AnythingOfType("port.ReviewAlert")).
		Return(nil)

	svc.ParseReceipt(context.Background(), receipt, 5)

	assert.Contains(t, receipt.ParseError, "ocr engine unavailable")
	m.receiptRepo.AssertCalled(t, "UpdateParseResult", mock.Anything, mock.AnythingOfType("*domain.Receipt"))
	m.receiptRepo.AssertNotCalled(t, "MarkQueued", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	m.email.AssertExpectations(t)
}

func TestReceiptService_ParseReceipt_SuccessPersistsOutcome(t *testing.T) {
	svc, m := newReceiptService("")
	receiptID := uuid.New()

	receipt := &domain.Receipt{
		ID:           receiptID,
		StorageKey:   "travels/x/receipts/y.pdf",
		MimeType:     "application/pdf",
		ParseRetries: 1,
	}

	m.storage.On("Download", mock.Anything, receipt.StorageKey).
		Return(pdfContent(), nil)
	m.parser.On("Parse", mock.Anything, mock.AnythingOfType("port.RawDocument")).
		Return(successParseResult(), nil)
	m.receiptRepo.On("UpdateParseResult", mock.Anything, mock.AnythingOfType("*domain.Receipt")).Return(nil)

	svc.ParseReceipt(context.Background(), receipt, 5)

	assert.Equal(t, domain.ParsingStatusSuccess, receipt.ParsingStatus)
	assert.Empty(t, receipt.ParseError)
	m.receiptRepo.AssertExpectations(t)
}

func TestReceiptService_GetDownloadURL(t *testing.T) {
	svc, m := newReceiptService("")
	receiptID := uuid.New()

	stored := &domain.Receipt{
		ID:               receiptID,
		OriginalFilename: "hotel_berlin.pdf",
		StorageKey:       "travels/x/receipts/y.pdf",
	}

	m.receiptRepo.On("GetByID", mock.Anything, receiptID).Return(stored, nil)
	m.storage.On("GetPresignedURL", mock.Anything, stored.StorageKey, int64(3600), "hotel_berlin.pdf").
		Return("https://signed.example.com/y.pdf", nil)

	url, err := svc.GetDownloadURL(context.Background(), receiptID)

	assert.NoError(t, err)
	assert.Equal(t, "https://signed.example.com/y.pdf", url)
}

func TestReceiptService_ListByTravel_TravelNotFound(t *testing.T) {
	svc, m := newReceiptService("")
	travelID := uuid.New()

	m.travelRepo.On("GetByID", mock.Anything, travelID).Return(nil, domain.ErrTravelNotFound)

	_, err := svc.ListByTravel(context.Background(), travelID)

	assert.ErrorIs(t, err, domain.ErrTravelNotFound)
	m.receiptRepo.AssertNotCalled(t, "ListByTravel", mock.Anything, mock.Anything)
}

func TestReceiptService_Delete_RemovesObjectAndRow(t *testing.T) {
	svc, m := newReceiptService("")
	receiptID := uuid.New()

	stored := &domain.Receipt{
		ID:         receiptID,
		StorageKey: "travels/x/receipts/y.pdf",
	}

	m.receiptRepo.On("GetByID", mock.Anything, receiptID).Return(stored, nil)
	m.storage.On("Delete", mock.Anything, stored.StorageKey).Return(nil)
	m.receiptRepo.On("Delete", mock.Anything, receiptID).Return(nil)

	err := svc.Delete(context.Background(), receiptID)

	assert.NoError(t, err)
	m.receiptRepo.AssertExpectations(t)
	m.storage.AssertExpectations(t)
}

func TestReceiptService_Delete_StorageFailureKeepsRow(t *testing.T) {
	svc, m := newReceiptService("")
	receiptID := uuid.New()

	stored := &domain.Receipt{
		ID:         receiptID,
		StorageKey: "travels/x/receipts/y.pdf",
	}

	m.receiptRepo.On("GetByID", mock.Anything, receiptID).Return(stored, nil)
	m.storage.On("Delete", mock.Anything, stored.StorageKey).
		Return(errors.New("access denied"))

	err := svc.Delete(context.Background(), receiptID)

	assert.Error(t, err)
	m.receiptRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
