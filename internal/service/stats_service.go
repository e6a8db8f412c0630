package service

import (
	"context"

	"spesen/internal/domain"
	"spesen/internal/port"
)

// StatsService provides the global dashboard aggregates.
type StatsService interface {
	Overview(ctx context.Context) (*domain.StatsOverview, error)
}

type statsService struct {
	statsRepo port.StatsRepository
}

// NewStatsService creates a new StatsService implementation.
func NewStatsService(statsRepo port.StatsRepository) StatsService {
	return &statsService{statsRepo: statsRepo}
}

func (s *statsService) Overview(ctx context.Context) (*domain.StatsOverview, error) {
	return s.statsRepo.Overview(ctx)
}
