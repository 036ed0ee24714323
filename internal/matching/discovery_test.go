package matching

import (
	"context"
	"errors"
	"testing"

	"cleanlyBack/internal/models"
)

type stubPros struct {
	pros []models.ProProfile
	err  error
}

func (s *stubPros) FindEligibleByServices(ctx context.Context, services []string) ([]models.ProProfile, error) {
	return s.pros, s.err
}

type stubHealth struct {
	records map[int]*models.HealthRecord
}

func (s *stubHealth) Get(ctx context.Context, proID int) (*models.HealthRecord, error) {
	return s.records[proID], nil
}

func TestFindCandidatesFilters(t *testing.T) {
	job := deepCleanJob()

	pros := &stubPros{pros: []models.ProProfile{
		{ID: 1, Latitude: 52.51, Longitude: 13.41, ServiceRadiusKm: 10},          // in radius
		{ID: 2, Latitude: 53.50, Longitude: 13.40, ServiceRadiusKm: 10},          // ~110 km away
		{ID: 3, Latitude: 52.51, Longitude: 13.41, ServiceRadiusKm: 10, HardBanned: true},
		{ID: 4, Latitude: 52.60, Longitude: 13.40, ServiceRadiusKm: 0},           // default radius applies, ~11 km
	}}

	d := &Discovery{Pros: pros, Health: &stubHealth{}}
	candidates, err := d.FindCandidates(context.Background(), job)
	if err != nil {
		t.Fatalf("FindCandidates: %v", err)
	}

	if len(candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(candidates))
	}
	for _, c := range candidates {
		if c.DistanceKm > c.RadiusKm {
			t.Fatalf("candidate %d outside own radius: %f > %f", c.ProID, c.DistanceKm, c.RadiusKm)
		}
	}
	if candidates[0].ProID != 1 || candidates[1].ProID != 4 {
		t.Fatalf("unexpected candidate set: %d, %d", candidates[0].ProID, candidates[1].ProID)
	}
	if candidates[1].RadiusKm != models.DefaultServiceRadiusKm {
		t.Fatalf("expected default radius, got %f", candidates[1].RadiusKm)
	}
}

func TestFindCandidatesStoreErrorAborts(t *testing.T) {
	d := &Discovery{Pros: &stubPros{err: errors.New("connection reset")}}

	candidates, err := d.FindCandidates(context.Background(), deepCleanJob())
	if err == nil {
		t.Fatalf("expected error")
	}
	if candidates != nil {
		t.Fatalf("expected no partial candidate list, got %d", len(candidates))
	}
}

func TestFindCandidatesRejectsEmptyServices(t *testing.T) {
	d := &Discovery{Pros: &stubPros{}}

	_, err := d.FindCandidates(context.Background(), models.Job{ID: 7})
	if !errors.Is(err, models.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}
