package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"spesen/internal/domain"
	"spesen/internal/service"
)

// ReceiptHandler handles receipt upload and management endpoints.
type ReceiptHandler struct {
	receiptService service.ReceiptService
}

// NewReceiptHandler creates a new ReceiptHandler.
func NewReceiptHandler(receiptService service.ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{receiptService: receiptService}
}

// Upload handles POST /api/v1/travels/:id/receipts
// @Summary Upload a receipt
// @Description Upload a receipt file (PDF, JPG, PNG, max 20MB) to a travel and parse it synchronously
// @Tags receipts
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Travel ID (UUID)"
// @Param file formData file true "Receipt file (PDF, JPG, or PNG)"
// @Success 201 {object} Response{data=domain.Receipt} "Receipt stored with parse outcome"
// @Failure 400 {object} ErrorResponseBody "Missing file or unsupported type"
// @Failure 404 {object} ErrorResponseBody "Travel not found"
// @Failure 413 {object} ErrorResponseBody "File too large"
// @Failure 500 {object} ErrorResponseBody "Upload failed"
// @Router /travels/{id}/receipts [post]
func (h *ReceiptHandler) Upload(c *gin.Context) {
	travelID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid travel ID")
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return
	}
	defer func() { _ = file.Close() }()

	receipt, err := h.receiptService.Upload(c.Request.Context(), service.UploadReceiptInput{
		TravelID: travelID,
		File:     file,
		Header:   header,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, receipt)
}

// ListByTravel handles GET /api/v1/travels/:id/receipts
// @Summary List receipts of a travel
// @Description List all receipts uploaded to a travel, newest first
// @Tags receipts
// @Produce json
// @Param id path string true "Travel ID (UUID)"
// @Success 200 {object} Response{data=[]domain.Receipt} "List of receipts"
// @Failure 400 {object} ErrorResponseBody "Invalid ID"
// @Failure 404 {object} ErrorResponseBody "Travel not found"
// @Router /travels/{id}/receipts [get]
func (h *ReceiptHandler) ListByTravel(c *gin.Context) {
	travelID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid travel ID")
		return
	}

	receipts, err := h.receiptService.ListByTravel(c.Request.Context(), travelID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, receipts)
}

// GetByID handles GET /api/v1/receipts/:id
// @Summary Get receipt by ID
// @Description Get a receipt with all parsed and corrected fields
// @Tags receipts
// @Produce json
// @Param id path string true "Receipt ID (UUID)"
// @Success 200 {object} Response{data=domain.Receipt} "Receipt details"
// @Failure 400 {object} ErrorResponseBody "Invalid ID"
// @Failure 404 {object} ErrorResponseBody "Receipt not found"
// @Router /receipts/{id} [get]
func (h *ReceiptHandler) GetByID(c *gin.Context) {
	receiptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid receipt ID")
		return
	}

	receipt, err := h.receiptService.GetByID(c.Request.Context(), receiptID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, receipt)
}

// Download handles GET /api/v1/receipts/:id/download
// @Summary Get receipt download URL
// @Description Get a presigned URL for downloading the original receipt file
// @Tags receipts
// @Produce json
// @Param id path string true "Receipt ID (UUID)"
// @Success 200 {object} Response{data=DownloadURLResponse} "Presigned download URL"
// @Failure 400 {object} ErrorResponseBody "Invalid ID"
// @Failure 404 {object} ErrorResponseBody "Receipt not found"
// @Router /receipts/{id}/download [get]
func (h *ReceiptHandler) Download(c *gin.Context) {
	receiptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid receipt ID")
		return
	}

	downloadURL, err := h.receiptService.GetDownloadURL(c.Request.Context(), receiptID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"download_url": downloadURL})
}

// UpdateFields handles PUT /api/v1/receipts/:id/fields
// @Summary Correct receipt fields
// @Description Replace the parsed fields of a receipt with human-corrected values
// @Tags receipts
// @Accept json
// @Produce json
// @Param id path string true "Receipt ID (UUID)"
// @Param request body UpdateReceiptFieldsRequest true "Corrected field values"
// @Success 200 {object} Response{data=domain.Receipt} "Updated receipt"
// @Failure 400 {object} ErrorResponseBody "Invalid field values"
// @Failure 404 {object} ErrorResponseBody "Receipt not found"
// @Router /receipts/{id}/fields [put]
func (h *ReceiptHandler) UpdateFields(c *gin.Context) {
	receiptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid receipt ID")
		return
	}

	var req struct {
		Amount        *decimal.Decimal      `json:"amount"`
		Currency      *string               `json:"currency"`
		VatAmount     *decimal.Decimal      `json:"vat_amount"`
		VatRate       *float64              `json:"vat_rate"`
		ReceiptDate   *string               `json:"receipt_date"`
		InvoiceNumber *string               `json:"invoice_number"`
		Merchant      *string               `json:"merchant"`
		PaymentMethod *domain.PaymentMethod `json:"payment_method"`
		Category      domain.Category       `json:"category" binding:"required"`
		Verified      bool                  `json:"verified"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "category is required")
		return
	}

	var receiptDate *time.Time
	if req.ReceiptDate != nil {
		parsed, err := time.Parse(dateLayout, *req.ReceiptDate)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "receipt_date must be formatted as YYYY-MM-DD")
			return
		}
		receiptDate = &parsed
	}

	receipt, err := h.receiptService.UpdateFields(c.Request.Context(), &service.UpdateReceiptFieldsInput{
		ReceiptID:     receiptID,
		Amount:        req.Amount,
		Currency:      req.Currency,
		VatAmount:     req.VatAmount,
		VatRate:       req.VatRate,
		ReceiptDate:   receiptDate,
		InvoiceNumber: req.InvoiceNumber,
		Merchant:      req.Merchant,
		PaymentMethod: req.PaymentMethod,
		Category:      req.Category,
		Verified:      req.Verified,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, receipt)
}

// Reparse handles POST /api/v1/receipts/:id/reparse
// @Summary Reparse a receipt
// @Description Re-run the parsing pipeline over the stored receipt file, replacing parsed fields
// @Tags receipts
// @Produce json
// @Param id path string true "Receipt ID (UUID)"
// @Success 200 {object} Response{data=domain.Receipt} "Receipt with fresh parse outcome"
// @Failure 400 {object} ErrorResponseBody "Invalid ID"
// @Failure 404 {object} ErrorResponseBody "Receipt not found"
// @Failure 500 {object} ErrorResponseBody "Parsing infrastructure unavailable; receipt queued for retry"
// @Router /receipts/{id}/reparse [post]
func (h *ReceiptHandler) Reparse(c *gin.Context) {
	receiptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid receipt ID")
		return
	}

	receipt, err := h.receiptService.Reparse(c.Request.Context(), receiptID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, receipt)
}

// Delete handles DELETE /api/v1/receipts/:id
// @Summary Delete a receipt
// @Description Delete a receipt and its stored file
// @Tags receipts
// @Produce json
// @Param id path string true "Receipt ID (UUID)"
// @Success 200 {object} Response{data=MessageResponse} "Receipt deleted"
// @Failure 400 {object} ErrorResponseBody "Invalid ID"
// @Failure 404 {object} ErrorResponseBody "Receipt not found"
// @Router /receipts/{id} [delete]
func (h *ReceiptHandler) Delete(c *gin.Context) {
	receiptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid receipt ID")
		return
	}

	if err := h.receiptService.Delete(c.Request.Context(), receiptID); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "receipt deleted"})
}
