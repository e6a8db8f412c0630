package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"spesen/internal/service"
)

const (
	csvContentType  = "text/csv; charset=utf-8"
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// ExportHandler handles travel summary and report export endpoints.
type ExportHandler struct {
	exportService service.ExportService
}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler(exportService service.ExportService) *ExportHandler {
	return &ExportHandler{exportService: exportService}
}

// Summary handles GET /api/v1/travels/:id/summary
// @Summary Get travel expense summary
// @Description Get per-category totals, grand total, and review counters for a travel
// @Tags exports
// @Produce json
// @Param id path string true "Travel ID (UUID)"
// @Success 200 {object} Response{data=domain.TravelSummary} "Expense summary"
// @Failure 400 {object} ErrorResponseBody "Invalid ID"
// @Failure 404 {object} ErrorResponseBody "Travel not found"
// @Router /travels/{id}/summary [get]
func (h *ExportHandler) Summary(c *gin.Context) {
	travelID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid travel ID")
		return
	}

	summary, err := h.exportService.Summary(c.Request.Context(), travelID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, summary)
}

// ExportCSV handles GET /api/v1/travels/:id/export/csv
// @Summary Export receipts as CSV
// @Description Download all receipts of a travel as a UTF-8 CSV file with BOM
// @Tags exports
// @Produce text/csv
// @Param id path string true "Travel ID (UUID)"
// @Success 200 {file} file "CSV attachment"
// @Failure 400 {object} ErrorResponseBody "Invalid ID"
// @Failure 404 {object} ErrorResponseBody "Travel not found"
// @Router /travels/{id}/export/csv [get]
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	travelID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid travel ID")
		return
	}

	data, filename, err := h.exportService.ExportCSV(c.Request.Context(), travelID)
	if err != nil {
		HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, csvContentType, data)
}

// ExportXLSX handles GET /api/v1/travels/:id/export/xlsx
// @Summary Export travel report as XLSX
// @Description Download a two-sheet Excel workbook with the expense summary and the receipt list
// @Tags exports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path string true "Travel ID (UUID)"
// @Success 200 {file} file "XLSX attachment"
// @Failure 400 {object} ErrorResponseBody "Invalid ID"
// @Failure 404 {object} ErrorResponseBody "Travel not found"
// @Router /travels/{id}/export/xlsx [get]
func (h *ExportHandler) ExportXLSX(c *gin.Context) {
	travelID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid travel ID")
		return
	}

	data, filename, err := h.exportService.ExportXLSX(c.Request.Context(), travelID)
	if err != nil {
		HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}
