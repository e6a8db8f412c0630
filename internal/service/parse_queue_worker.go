package service

import (
	"context"
	"log"
	"sync"
	"time"

	"spesen/internal/config"
	"spesen/internal/port"
)

// ParseQueueWorker polls for receipts whose parse hit an environment error
// and dispatches them for another attempt.
type ParseQueueWorker struct {
	receiptRepo port.ReceiptRepository
	receiptSvc  ReceiptService
	cfg         config.QueueConfig
	wg          sync.WaitGroup
}

// NewParseQueueWorker creates a new ParseQueueWorker.
func NewParseQueueWorker(receiptRepo port.ReceiptRepository, receiptSvc ReceiptService, cfg config.QueueConfig) *ParseQueueWorker {
	return &ParseQueueWorker{
		receiptRepo: receiptRepo,
		receiptSvc:  receiptSvc,
		cfg:         cfg,
	}
}

// Start runs the polling loop until ctx is canceled. It blocks until all
// in-flight parse goroutines have finished.
func (w *ParseQueueWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	sem := make(chan struct{}, w.cfg.Concurrency)

	log.Printf("parseQueueWorker: started (poll=%s, concurrency=%d, maxRetries=%d)",
		w.cfg.PollInterval, w.cfg.Concurrency, w.cfg.MaxRetries)

	for {
		select {
		case <-ctx.Done():
			log.Printf("parseQueueWorker: shutting down, waiting for in-flight parses...")
			w.wg.Wait()
			log.Printf("parseQueueWorker: shutdown complete")
			return
		case <-ticker.C:
			available := w.cfg.Concurrency - len(sem)
			if available <= 0 {
				continue
			}

			receipts, err := w.receiptRepo.ClaimQueued(ctx, available, w.cfg.MaxRetries)
			if err != nil {
				if ctx.Err() != nil {
					// Context canceled during poll; exit on the next select
					continue
				}
				log.Printf("parseQueueWorker: ClaimQueued error: %v", err)
				continue
			}

			for i := range receipts {
				receipt := receipts[i] // copy for goroutine

				sem <- struct{}{} // acquire
				w.wg.Add(1)
				go func() {
					defer w.wg.Done()
					defer func() { <-sem }() // release

					// Use a fresh context independent of the poll context
					// so in-flight parses complete even during shutdown.
					parseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
					defer cancel()

					log.Printf("parseQueueWorker: dispatching receipt %s (attempt %d)",
						receipt.ID, receipt.ParseRetries)
					w.receiptSvc.ParseReceipt(parseCtx, &receipt, w.cfg.MaxRetries)
				}()
			}
		}
	}
}
