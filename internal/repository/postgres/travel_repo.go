package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"spesen/internal/domain"
	"spesen/internal/port"
)

type travelRepo struct {
	db *sqlx.DB
}

// NewTravelRepo creates a new PostgreSQL-backed TravelRepository.
func NewTravelRepo(db *sqlx.DB) port.TravelRepository {
	return &travelRepo{db: db}
}

func (r *travelRepo) Create(ctx context.Context, travel *domain.Travel) error {
	now := time.Now().UTC()
	travel.CreatedAt = now
	travel.UpdatedAt = now

	query := `INSERT INTO travels (
		id, employee_name, title, destination_city, destination_country,
		purpose, cost_center, start_date, end_date, status,
		created_at, updated_at
	) VALUES (
		$1, $2, $3, $4, $5,
		$6, $7, $8, $9, $10,
		$11, $12
	)`

	_, err := r.db.ExecContext(ctx, query,
		travel.ID, travel.EmployeeName, travel.Title, travel.DestinationCity, travel.DestinationCountry,
		travel.Purpose, travel.CostCenter, travel.StartDate, travel.EndDate, travel.Status,
		travel.CreatedAt, travel.UpdatedAt)
	if err != nil {
		return fmt.Errorf("travelRepo.Create: %w", err)
	}
	return nil
}

func (r *travelRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Travel, error) {
	var travel domain.Travel
	err := r.db.GetContext(ctx, &travel, "SELECT * FROM travels WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTravelNotFound
		}
		return nil, fmt.Errorf("travelRepo.GetByID: %w", err)
	}
	return &travel, nil
}

func (r *travelRepo) List(ctx context.Context, filter port.TravelFilter, offset, limit int) ([]domain.Travel, int, error) {
	clause := "WHERE 1=1"
	args := []interface{}{}
	argN := 1
	if filter.EmployeeName != "" {
		clause += fmt.Sprintf(" AND employee_name = $%d", argN)
		args = append(args, filter.EmployeeName)
		argN++
	}
	if filter.Status != "" {
		clause += fmt.Sprintf(" AND status = $%d", argN)
		args = append(args, filter.Status)
		argN++
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM travels "+clause, args...); err != nil {
		return nil, 0, fmt.Errorf("travelRepo.List count: %w", err)
	}

	query := fmt.Sprintf(
		"SELECT * FROM travels %s ORDER BY start_date DESC, created_at DESC LIMIT $%d OFFSET $%d",
		clause, argN, argN+1)
	args = append(args, limit, offset)

	var travels []domain.Travel
	if err := r.db.SelectContext(ctx, &travels, query, args...); err != nil {
		return nil, 0, fmt.Errorf("travelRepo.List: %w", err)
	}
	return travels, total, nil
}

func (r *travelRepo) Update(ctx context.Context, travel *domain.Travel) error {
	travel.UpdatedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE travels SET
			employee_name = $1, title = $2, destination_city = $3,
			destination_country = $4, purpose = $5, cost_center = $6,
			start_date = $7, end_date = $8, status = $9, updated_at = $10
		 WHERE id = $11`,
		travel.EmployeeName, travel.Title, travel.DestinationCity,
		travel.DestinationCountry, travel.Purpose, travel.CostCenter,
		travel.StartDate, travel.EndDate, travel.Status, travel.UpdatedAt,
		travel.ID)
	if err != nil {
		return fmt.Errorf("travelRepo.Update: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrTravelNotFound
	}
	return nil
}

func (r *travelRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM travels WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("travelRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrTravelNotFound
	}
	return nil
}
