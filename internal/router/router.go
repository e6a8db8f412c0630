package router

import (
	"github.com/gin-gonic/gin"

	"spesen/internal/handler"
	"spesen/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	corsOrigins []string,
	travelH *handler.TravelHandler,
	receiptH *handler.ReceiptHandler,
	exportH *handler.ExportHandler,
	statsH *handler.StatsHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(corsOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")

	// Travel routes
	travels := v1.Group("/travels")
	travels.POST("", travelH.Create)
	travels.GET("", travelH.List)
	travels.GET("/:id", travelH.GetByID)
	travels.PUT("/:id", travelH.Update)
	travels.DELETE("/:id", travelH.Delete)

	// Receipts nested under their travel
	travels.POST("/:id/receipts", receiptH.Upload)
	travels.GET("/:id/receipts", receiptH.ListByTravel)

	// Summary and report exports
	travels.GET("/:id/summary", exportH.Summary)
	travels.GET("/:id/export/csv", exportH.ExportCSV)
	travels.GET("/:id/export/xlsx", exportH.ExportXLSX)

	// Receipt routes
	receipts := v1.Group("/receipts")
	receipts.GET("/:id", receiptH.GetByID)
	receipts.GET("/:id/download", receiptH.Download)
	receipts.PUT("/:id/fields", receiptH.UpdateFields)
	receipts.POST("/:id/reparse", receiptH.Reparse)
	receipts.DELETE("/:id", receiptH.Delete)

	// Dashboard stats
	v1.GET("/stats", statsH.Overview)

	return r
}
