package handler

import (
	"spesen/internal/domain"
)

// Swagger type definitions for API documentation.
// These types are used by swag to generate OpenAPI documentation.

// --- Request Types ---

// CreateTravelRequest represents the create travel request body.
type CreateTravelRequest struct {
	EmployeeName       string `json:"employee_name" binding:"required" example:"Anna Schmidt"`
	Title              string `json:"title" binding:"required" example:"Messe Berlin 2024"`
	DestinationCity    string `json:"destination_city" example:"Berlin"`
	DestinationCountry string `json:"destination_country" example:"Germany"`
	Purpose            string `json:"purpose" example:"Trade fair attendance"`
	CostCenter         string `json:"cost_center" example:"CC-4711"`
	StartDate          string `json:"start_date" binding:"required" example:"2024-03-11"`
	EndDate            string `json:"end_date" binding:"required" example:"2024-03-14"`
}

// UpdateTravelRequest represents the update travel request body.
type UpdateTravelRequest struct {
	EmployeeName       string `json:"employee_name" binding:"required" example:"Anna Schmidt"`
	Title              string `json:"title" binding:"required" example:"Messe Berlin 2024 - Final"`
	DestinationCity    string `json:"destination_city" example:"Berlin"`
	DestinationCountry string `json:"destination_country" example:"Germany"`
	Purpose            string `json:"purpose" example:"Trade fair attendance"`
	CostCenter         string `json:"cost_center" example:"CC-4711"`
	StartDate          string `json:"start_date" binding:"required" example:"2024-03-11"`
	EndDate            string `json:"end_date" binding:"required" example:"2024-03-14"`
	Status             string `json:"status" example:"submitted"`
}

// UpdateReceiptFieldsRequest represents the receipt field correction request body.
type UpdateReceiptFieldsRequest struct {
	Amount        *float64              `json:"amount" example:"87.50"`
	Currency      *string               `json:"currency" example:"EUR"`
	VatAmount     *float64              `json:"vat_amount" example:"14.01"`
	VatRate       *float64              `json:"vat_rate" example:"19"`
	ReceiptDate   *string               `json:"receipt_date" example:"2024-03-12"`
	InvoiceNumber *string               `json:"invoice_number" example:"2024-001234"`
	Merchant      *string               `json:"merchant" example:"Hotel Zur Post"`
	PaymentMethod *domain.PaymentMethod `json:"payment_method" example:"card"`
	Category      domain.Category       `json:"category" binding:"required" example:"lodging"`
	Verified      bool                  `json:"verified" example:"true"`
}

// --- Response Types ---

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
	Error  string `json:"error,omitempty" example:"database not reachable"`
}

// MessageResponse represents a simple message response.
type MessageResponse struct {
	Message string `json:"message" example:"operation completed successfully"`
}

// DownloadURLResponse represents a presigned download URL.
type DownloadURLResponse struct {
	DownloadURL string `json:"download_url" example:"https://s3.amazonaws.com/spesen-receipts/...?X-Amz-Signature=..."`
}

// TravelWithReceipts represents a travel with its receipts.
type TravelWithReceipts struct {
	Travel   domain.Travel    `json:"travel"`
	Receipts []domain.Receipt `json:"receipts"`
}

// --- Generic Response Wrappers ---

// Response wraps a successful response with data.
type Response struct {
	Success bool        `json:"success" example:"true"`
	Data    interface{} `json:"data,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// ErrorResponseBody wraps an error response.
type ErrorResponseBody struct {
	Success bool      `json:"success" example:"false"`
	Error   *APIError `json:"error"`
}
