// Command reparse re-runs the parsing pipeline over stored receipts that
// have not been human-verified. Useful after extractor or pattern changes.
// Usage: go run ./cmd/reparse [-travel UUID] [-dry-run] [-limit N]
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/google/uuid"

	"spesen/internal/config"
	"spesen/internal/domain"
	"spesen/internal/email/noop"
	"spesen/internal/ocr"
	_ "spesen/internal/ocr/mupdf" // registers the mupdf extraction engine
	"spesen/internal/parser"
	"spesen/internal/repository/postgres"
	"spesen/internal/service"
	s3storage "spesen/internal/storage/s3"
)

const batchSize = 100

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	travelFlag := flag.String("travel", "", "only reparse receipts of this travel ID")
	dryRun := flag.Bool("dry-run", false, "list matching receipts without reparsing")
	limit := flag.Int("limit", 0, "maximum number of receipts to reparse; 0 means no limit")
	flag.Parse()

	var travelID uuid.UUID
	if *travelFlag != "" {
		parsed, err := uuid.Parse(*travelFlag)
		if err != nil {
			return fmt.Errorf("invalid -travel argument: %w", err)
		}
		travelID = parsed
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer func() { _ = db.Close() }()

	travelRepo := postgres.NewTravelRepo(db)
	receiptRepo := postgres.NewReceiptRepo(db)

	s3Client, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		return fmt.Errorf("initializing S3 client: %w", err)
	}

	extractor, err := ocr.NewExtractor(&cfg.OCR)
	if err != nil {
		return fmt.Errorf("initializing text extractor: %w", err)
	}
	pipeline := parser.NewPipeline(extractor, &cfg.Parser)

	// Bulk reparse should not trigger review alerts; use the noop sender.
	receiptSvc := service.NewReceiptService(
		receiptRepo, travelRepo, pipeline, s3Client, noop.NewNoopSender(), &cfg.S3, &cfg.Email)

	ctx := context.Background()
	offset := 0
	total := 0

	for {
		var receipts []domain.Receipt
		if travelID != uuid.Nil {
			err = db.SelectContext(ctx, &receipts,
				`SELECT * FROM receipts
				 WHERE verified = FALSE AND travel_id = $1
				 ORDER BY created_at
				 LIMIT $2 OFFSET $3`, travelID, batchSize, offset)
		} else {
			err = db.SelectContext(ctx, &receipts,
				`SELECT * FROM receipts
				 WHERE verified = FALSE
				 ORDER BY created_at
				 LIMIT $1 OFFSET $2`, batchSize, offset)
		}
		if err != nil {
			return fmt.Errorf("querying receipts at offset %d: %w", offset, err)
		}
		if len(receipts) == 0 {
			break
		}

		for i := range receipts {
			r := &receipts[i]
			if *limit > 0 && total >= *limit {
				log.Printf("Reparse complete: limit of %d receipts reached", *limit)
				return nil
			}

			if *dryRun {
				log.Printf("would reparse %s (%s, status %s)", r.ID, r.OriginalFilename, r.ParsingStatus)
				total++
				continue
			}

			updated, err := receiptSvc.Reparse(ctx, r.ID)
			if err != nil {
				log.Printf("WARN: reparse of %s failed: %v", r.ID, err)
				continue
			}
			log.Printf("reparsed %s (%s): status %s, confidence %.0f",
				updated.ID, updated.OriginalFilename, updated.ParsingStatus, updated.ParsingConf)
			total++
		}

		offset += len(receipts)
	}

	if *dryRun {
		log.Printf("Dry run complete: %d receipts would be reparsed", total)
		return nil
	}
	log.Printf("Reparse complete: %d receipts reparsed", total)
	return nil
}
