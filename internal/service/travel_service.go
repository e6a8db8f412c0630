package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"spesen/internal/domain"
	"spesen/internal/port"
)

// CreateTravelInput is the DTO for creating a travel.
type CreateTravelInput struct {
	EmployeeName       string
	Title              string
	DestinationCity    string
	DestinationCountry string
	Purpose            string
	CostCenter         string
	StartDate          time.Time
	EndDate            time.Time
}

// UpdateTravelInput is the DTO for updating a travel.
type UpdateTravelInput struct {
	TravelID           uuid.UUID
	EmployeeName       string
	Title              string
	DestinationCity    string
	DestinationCountry string
	Purpose            string
	CostCenter         string
	StartDate          time.Time
	EndDate            time.Time
	Status             domain.TravelStatus
}

// TravelService defines the travel management contract.
type TravelService interface {
	Create(ctx context.Context, input *CreateTravelInput) (*domain.Travel, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Travel, error)
	List(ctx context.Context, filter port.TravelFilter, offset, limit int) ([]domain.Travel, int, error)
	Update(ctx context.Context, input *UpdateTravelInput) (*domain.Travel, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type travelService struct {
	travelRepo  port.TravelRepository
	receiptRepo port.ReceiptRepository
	storage     port.ObjectStorage
}

// NewTravelService creates a new TravelService implementation.
func NewTravelService(
	travelRepo port.TravelRepository,
	receiptRepo port.ReceiptRepository,
	storage port.ObjectStorage,
) TravelService {
	return &travelService{
		travelRepo:  travelRepo,
		receiptRepo: receiptRepo,
		storage:     storage,
	}
}

func (s *travelService) Create(ctx context.Context, input *CreateTravelInput) (*domain.Travel, error) {
	if input.EndDate.Before(input.StartDate) {
		return nil, fmt.Errorf("%w: end date before start date", domain.ErrInvalidInput)
	}

	travel := &domain.Travel{
		ID:                 uuid.New(),
		EmployeeName:       input.EmployeeName,
		Title:              input.Title,
		DestinationCity:    input.DestinationCity,
		DestinationCountry: input.DestinationCountry,
		Purpose:            input.Purpose,
		CostCenter:         input.CostCenter,
		StartDate:          input.StartDate,
		EndDate:            input.EndDate,
		Status:             domain.TravelStatusDraft,
	}

	log.Printf("travelService.Create: creating travel %s (%q) for %s",
		travel.ID, travel.Title, travel.EmployeeName)

	if err := s.travelRepo.Create(ctx, travel); err != nil {
		log.Printf("travelService.Create: failed to create travel: %v", err)
		return nil, fmt.Errorf("creating travel: %w", err)
	}
	return travel, nil
}

func (s *travelService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Travel, error) {
	return s.travelRepo.GetByID(ctx, id)
}

func (s *travelService) List(ctx context.Context, filter port.TravelFilter, offset, limit int) ([]domain.Travel, int, error) {
	return s.travelRepo.List(ctx, filter, offset, limit)
}

func (s *travelService) Update(ctx context.Context, input *UpdateTravelInput) (*domain.Travel, error) {
	if input.EndDate.Before(input.StartDate) {
		return nil, fmt.Errorf("%w: end date before start date", domain.ErrInvalidInput)
	}

	travel, err := s.travelRepo.GetByID(ctx, input.TravelID)
	if err != nil {
		return nil, err
	}

	travel.EmployeeName = input.EmployeeName
	travel.Title = input.Title
	travel.DestinationCity = input.DestinationCity
	travel.DestinationCountry = input.DestinationCountry
	travel.Purpose = input.Purpose
	travel.CostCenter = input.CostCenter
	travel.StartDate = input.StartDate
	travel.EndDate = input.EndDate
	if input.Status != "" {
		travel.Status = input.Status
	}

	if err := s.travelRepo.Update(ctx, travel); err != nil {
		return nil, err
	}
	return travel, nil
}

// Delete removes a travel, its receipt rows (via cascade) and the stored
// receipt files. Storage failures are logged but do not block the delete;
// orphaned objects are preferable to undeletable travels.
func (s *travelService) Delete(ctx context.Context, id uuid.UUID) error {
	receipts, err := s.receiptRepo.ListByTravel(ctx, id)
	if err != nil {
		return fmt.Errorf("listing receipts for delete: %w", err)
	}

	log.Printf("travelService.Delete: deleting travel %s with %d receipts", id, len(receipts))

	for i := range receipts {
		if err := s.storage.Delete(ctx, receipts[i].StorageKey); err != nil {
			log.Printf("travelService.Delete: failed to delete object %s: %v",
				receipts[i].StorageKey, err)
		}
	}

	return s.travelRepo.Delete(ctx, id)
}
