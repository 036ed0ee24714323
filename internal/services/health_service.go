package services

import (
	"context"

	"cleanlyBack/internal/health"
	"cleanlyBack/internal/models"
	"cleanlyBack/internal/repositories"
)

type HealthService struct {
	Scorer     *health.Scorer
	HealthRepo *repositories.HealthRepository
	AbuseRepo  *repositories.AbuseRepository
}

func (s *HealthService) GetHealth(ctx context.Context, proID int) (*models.HealthRecord, error) {
	return s.HealthRepo.Get(ctx, proID)
}

func (s *HealthService) RecomputeHealth(ctx context.Context, proID int) (models.HealthRecord, error) {
	return s.Scorer.Recompute(ctx, proID)
}

// RecomputeDirty processes one batch of pros flagged by reviews and
// abuse events. Returns how many were recomputed.
func (s *HealthService) RecomputeDirty(ctx context.Context, limit int) (int, error) {
	ids, err := s.HealthRepo.ListDirty(ctx, limit)
	if err != nil {
		return 0, err
	}
	done := 0
	for _, id := range ids {
		if _, err := s.Scorer.Recompute(ctx, id); err != nil {
			return done, err
		}
		done++
	}
	return done, nil
}

func (s *HealthService) RecordAbuse(ctx context.Context, event models.AbuseEvent) (models.AbuseEvent, error) {
	switch event.Type {
	case models.AbuseNoShow, models.AbuseLateCancel, models.AbuseOffPlatform:
	default:
		return models.AbuseEvent{}, models.ErrInvalidArgument
	}
	return s.AbuseRepo.Record(ctx, event)
}
