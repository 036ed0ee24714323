package matching

import (
	"context"
	"fmt"

	"cleanlyBack/internal/geo"
	"cleanlyBack/internal/models"
)

// ProSource yields pros that are active, not hard-banned and offer at
// least one of the requested services. Order must be deterministic.
type ProSource interface {
	FindEligibleByServices(ctx context.Context, services []string) ([]models.ProProfile, error)
}

// HealthSource provides the latest health record for a pro, nil when
// none was ever computed.
type HealthSource interface {
	Get(ctx context.Context, proID int) (*models.HealthRecord, error)
}

// Discovery finds the pros structurally eligible for a job.
type Discovery struct {
	Pros   ProSource
	Health HealthSource
}

// FindCandidates returns eligible candidate snapshots for the job. Any
// store error aborts the whole discovery; a partial candidate list is
// never returned.
func (d *Discovery) FindCandidates(ctx context.Context, job models.Job) ([]models.Candidate, error) {
	if len(job.Services) == 0 {
		return nil, models.ErrInvalidArgument
	}

	pros, err := d.Pros.FindEligibleByServices(ctx, job.Services)
	if err != nil {
		return nil, fmt.Errorf("discovery: eligible pros for job %d: %w", job.ID, err)
	}

	candidates := make([]models.Candidate, 0, len(pros))
	for _, p := range pros {
		if p.HardBanned {
			// Repository filters these too; never let one through.
			continue
		}

		radius := p.ServiceRadiusKm
		if radius <= 0 {
			radius = models.DefaultServiceRadiusKm
		}

		dist := geo.HaversineKm(p.Latitude, p.Longitude, job.Latitude, job.Longitude)
		if dist > radius {
			continue
		}

		var health *models.HealthRecord
		if d.Health != nil {
			health, err = d.Health.Get(ctx, p.ID)
			if err != nil {
				return nil, fmt.Errorf("discovery: health record for pro %d: %w", p.ID, err)
			}
		}

		candidates = append(candidates, models.Candidate{
			ProID:        p.ID,
			Services:     p.Services,
			HourlyRate:   p.HourlyRate,
			Rating:       p.Rating,
			ResponseRate: p.ResponseRate,
			Completeness: p.Completeness,
			RadiusKm:     radius,
			Latitude:     p.Latitude,
			Longitude:    p.Longitude,
			SoftBanned:   p.SoftBanned,
			Badges:       p.Badges,
			Health:       health,
			DistanceKm:   dist,
		})
	}
	return candidates, nil
}
