package handler

import (
	"github.com/gin-gonic/gin"

	"spesen/internal/service"
)

// StatsHandler handles stats endpoints.
type StatsHandler struct {
	statsService service.StatsService
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(statsService service.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// Overview handles GET /api/v1/stats
// @Summary Get parsing statistics
// @Description Get aggregate counts for travels, receipts, parsing outcomes, and per-category spend
// @Tags stats
// @Produce json
// @Success 200 {object} Response{data=domain.StatsOverview} "Aggregate statistics"
// @Router /stats [get]
func (h *StatsHandler) Overview(c *gin.Context) {
	stats, err := h.statsService.Overview(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, stats)
}
