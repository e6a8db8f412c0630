package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"spesen/internal/domain"
	"spesen/internal/port"
	"spesen/internal/service"
)

// dateLayout is the wire format for travel dates in request bodies.
const dateLayout = "2006-01-02"

// TravelHandler handles travel management endpoints.
type TravelHandler struct {
	travelService  service.TravelService
	receiptService service.ReceiptService
}

// NewTravelHandler creates a new TravelHandler.
func NewTravelHandler(travelService service.TravelService, receiptService service.ReceiptService) *TravelHandler {
	return &TravelHandler{travelService: travelService, receiptService: receiptService}
}

// Create handles POST /api/v1/travels
func (h *TravelHandler) Create(c *gin.Context) {
	var req struct {
		EmployeeName       string `json:"employee_name" binding:"required"`
		Title              string `json:"title" binding:"required"`
		DestinationCity    string `json:"destination_city"`
		DestinationCountry string `json:"destination_country"`
		Purpose            string `json:"purpose"`
		CostCenter         string `json:"cost_center"`
		StartDate          string `json:"start_date" binding:"required"`
		EndDate            string `json:"end_date" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "employee_name, title, start_date and end_date are required")
		return
	}

	startDate, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "start_date must be formatted as YYYY-MM-DD")
		return
	}
	endDate, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "end_date must be formatted as YYYY-MM-DD")
		return
	}

	travel, err := h.travelService.Create(c.Request.Context(), &service.CreateTravelInput{
		EmployeeName:       req.EmployeeName,
		Title:              req.Title,
		DestinationCity:    req.DestinationCity,
		DestinationCountry: req.DestinationCountry,
		Purpose:            req.Purpose,
		CostCenter:         req.CostCenter,
		StartDate:          startDate,
		EndDate:            endDate,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, travel)
}

// List handles GET /api/v1/travels
func (h *TravelHandler) List(c *gin.Context) {
	offset, limit := parsePagination(c)

	filter := port.TravelFilter{
		EmployeeName: c.Query("employee"),
		Status:       domain.TravelStatus(c.Query("status")),
	}

	travels, total, err := h.travelService.List(c.Request.Context(), filter, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, travels, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// GetByID handles GET /api/v1/travels/:id
func (h *TravelHandler) GetByID(c *gin.Context) {
	travelID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid travel ID")
		return
	}

	travel, err := h.travelService.GetByID(c.Request.Context(), travelID)
	if err != nil {
		HandleError(c, err)
		return
	}

	// Also fetch the travel's receipts so the detail view is complete.
	receipts, err := h.receiptService.ListByTravel(c.Request.Context(), travelID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{
		"travel":   travel,
		"receipts": receipts,
	})
}

// Update handles PUT /api/v1/travels/:id
func (h *TravelHandler) Update(c *gin.Context) {
	travelID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid travel ID")
		return
	}

	var req struct {
		EmployeeName       string `json:"employee_name" binding:"required"`
		Title              string `json:"title" binding:"required"`
		DestinationCity    string `json:"destination_city"`
		DestinationCountry string `json:"destination_country"`
		Purpose            string `json:"purpose"`
		CostCenter         string `json:"cost_center"`
		StartDate          string `json:"start_date" binding:"required"`
		EndDate            string `json:"end_date" binding:"required"`
		Status             string `json:"status" binding:"omitempty,oneof=draft submitted approved rejected"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "employee_name, title, start_date and end_date are required; status must be draft, submitted, approved or rejected")
		return
	}

	startDate, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "start_date must be formatted as YYYY-MM-DD")
		return
	}
	endDate, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "end_date must be formatted as YYYY-MM-DD")
		return
	}

	travel, err := h.travelService.Update(c.Request.Context(), &service.UpdateTravelInput{
		TravelID:           travelID,
		EmployeeName:       req.EmployeeName,
		Title:              req.Title,
		DestinationCity:    req.DestinationCity,
		DestinationCountry: req.DestinationCountry,
		Purpose:            req.Purpose,
		CostCenter:         req.CostCenter,
		StartDate:          startDate,
		EndDate:            endDate,
		Status:             domain.TravelStatus(req.Status),
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, travel)
}

// Delete handles DELETE /api/v1/travels/:id
func (h *TravelHandler) Delete(c *gin.Context) {
	travelID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid travel ID")
		return
	}

	if err := h.travelService.Delete(c.Request.Context(), travelID); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "travel deleted"})
}

// parsePagination extracts offset and limit from query params with defaults.
func parsePagination(c *gin.Context) (offset, limit int) {
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return offset, limit
}
