package port

import (
	"context"
	"time"

	"github.com/google/uuid"

	"spesen/internal/domain"
)

// TravelFilter narrows travel listings.
type TravelFilter struct {
	EmployeeName string
	Status       domain.TravelStatus
}

// TravelRepository defines the contract for travel persistence.
type TravelRepository interface {
	Create(ctx context.Context, travel *domain.Travel) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Travel, error)
	List(ctx context.Context, filter TravelFilter, offset, limit int) ([]domain.Travel, int, error)
	Update(ctx context.Context, travel *domain.Travel) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ReceiptRepository defines the contract for receipt persistence.
type ReceiptRepository interface {
	Create(ctx context.Context, receipt *domain.Receipt) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Receipt, error)
	ListByTravel(ctx context.Context, travelID uuid.UUID) ([]domain.Receipt, error)
	// UpdateParseResult overwrites the parse-derived columns, clears the
	// reparse queue marker and resets the verified flag.
	UpdateParseResult(ctx context.Context, receipt *domain.Receipt) error
	// UpdateFields applies a human correction and its verified flag, leaving
	// the parsing status alone and clearing any reparse queue marker.
	UpdateFields(ctx context.Context, receipt *domain.Receipt) error
	// MarkQueued stamps parse_queued_at so the background worker retries,
	// and records the failure reason on the row.
	MarkQueued(ctx context.Context, id uuid.UUID, queuedAt time.Time, reason string) error
	// ClaimQueued atomically claims up to limit queued receipts (oldest
	// first, retry count below maxRetries): clears the queue marker,
	// increments the retry counter and returns the claimed rows.
	ClaimQueued(ctx context.Context, limit, maxRetries int) ([]domain.Receipt, error)
	SummarizeByCategory(ctx context.Context, travelID uuid.UUID) ([]domain.CategoryTotal, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// StatsRepository defines the contract for the global stats aggregates.
type StatsRepository interface {
	Overview(ctx context.Context) (*domain.StatsOverview, error)
}
