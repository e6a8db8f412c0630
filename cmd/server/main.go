package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"spesen/internal/config"
	"spesen/internal/email/noop"
	"spesen/internal/email/ses"
	"spesen/internal/handler"
	"spesen/internal/ocr"
	_ "spesen/internal/ocr/mupdf" // registers the mupdf extraction engine
	"spesen/internal/parser"
	"spesen/internal/port"
	"spesen/internal/repository/postgres"
	"spesen/internal/router"
	"spesen/internal/service"
	s3storage "spesen/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	travelRepo := postgres.NewTravelRepo(db)
	receiptRepo := postgres.NewReceiptRepo(db)
	statsRepo := postgres.NewStatsRepo(db)

	// Initialize storage
	s3Client, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}

	// Initialize the parsing pipeline
	extractor, err := ocr.NewExtractor(&cfg.OCR)
	if err != nil {
		return fmt.Errorf("failed to initialize text extractor: %w", err)
	}
	pipeline := parser.NewPipeline(extractor, &cfg.Parser)

	// Initialize email delivery
	var emailSender port.EmailSender
	switch cfg.Email.Provider {
	case "ses":
		emailSender, err = ses.NewSESSender(cfg.Email.Region, cfg.Email.FromAddress, cfg.Email.FromName, cfg.Email.FrontendURL)
		if err != nil {
			return fmt.Errorf("failed to initialize SES sender: %w", err)
		}
	default:
		emailSender = noop.NewNoopSender()
	}

	// Initialize services
	travelSvc := service.NewTravelService(travelRepo, receiptRepo, s3Client)
	receiptSvc := service.NewReceiptService(receiptRepo, travelRepo, pipeline, s3Client, emailSender, &cfg.S3, &cfg.Email)
	exportSvc := service.NewExportService(travelRepo, receiptRepo)
	statsSvc := service.NewStatsService(statsRepo)

	// Start the reparse queue worker. It stops claiming on shutdown and
	// drains in-flight parses before returning.
	worker := service.NewParseQueueWorker(receiptRepo, receiptSvc, cfg.Queue)
	workerDone := make(chan struct{})
	go func() {
		worker.Start(ctx)
		close(workerDone)
	}()

	// Initialize handlers
	travelH := handler.NewTravelHandler(travelSvc, receiptSvc)
	receiptH := handler.NewReceiptHandler(receiptSvc)
	exportH := handler.NewExportHandler(exportSvc)
	statsH := handler.NewStatsHandler(statsSvc)
	healthH := handler.NewHealthHandler(db)

	// Setup router
	r := router.Setup(cfg.CORS.AllowedOrigins, travelH, receiptH, exportH, statsH, healthH)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Printf("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	<-workerDone

	return nil
}
