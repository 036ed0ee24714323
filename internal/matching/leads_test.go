package matching

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"cleanlyBack/internal/geo"
	"cleanlyBack/internal/models"
)

type testLogger struct{}

func (testLogger) Infof(string, ...interface{})  {}
func (testLogger) Errorf(string, ...interface{}) {}

type stubLeadStore struct {
	mu      sync.Mutex
	created []models.Lead
	failPro int
}

func (s *stubLeadStore) Create(ctx context.Context, lead models.Lead) (models.Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failPro != 0 && lead.ProID == s.failPro {
		return models.Lead{}, errors.New("insert failed")
	}
	lead.ID = len(s.created) + 1
	s.created = append(s.created, lead)
	return lead, nil
}

type stubEta struct{}

func (stubEta) Resolve(ctx context.Context, fromLat, fromLon, toLat, toLon float64) geo.ETA {
	km := geo.HaversineKm(fromLat, fromLon, toLat, toLon)
	return geo.ETA{Minutes: geo.FallbackEtaMinutes(km), DistanceKm: km, Source: geo.ETASourceFallback}
}

type stubPusher struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (s *stubPusher) Send(ctx context.Context, token, title, body string, data map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, token)
	return s.err
}

type stubTokens struct{}

func (stubTokens) DeviceTokens(ctx context.Context, userID int) ([]string, error) {
	return []string{"tok-a"}, nil
}

func generatorForTest(pros []models.ProProfile, store *stubLeadStore, pusher *stubPusher) *Generator {
	return &Generator{
		Discovery: &Discovery{Pros: &stubPros{pros: pros}, Health: &stubHealth{}},
		Leads:     store,
		Eta:       stubEta{},
		Pusher:    pusher,
		Tokens:    stubTokens{},
		Logger:    testLogger{},
		Now:       func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) },
	}
}

func nearbyPros(n int) []models.ProProfile {
	pros := make([]models.ProProfile, 0, n)
	for i := 0; i < n; i++ {
		pros = append(pros, models.ProProfile{
			ID:              i + 1,
			Latitude:        52.5 + float64(i)*0.001,
			Longitude:       13.4,
			ServiceRadiusKm: 20,
			HourlyRate:      40,
			Rating:          4,
			ResponseRate:    0.8,
			Completeness:    0.9,
		})
	}
	return pros
}

func TestGenerateLeadsCapsAtTen(t *testing.T) {
	store := &stubLeadStore{}
	pusher := &stubPusher{}
	g := generatorForTest(nearbyPros(14), store, pusher)

	leads, err := g.GenerateLeads(context.Background(), deepCleanJob())
	if err != nil {
		t.Fatalf("GenerateLeads: %v", err)
	}
	if len(leads) != MaxLeadsPerJob {
		t.Fatalf("expected %d leads, got %d", MaxLeadsPerJob, len(leads))
	}
	for _, lead := range leads {
		if lead.Status != models.LeadStatusPending {
			t.Fatalf("expected pending lead, got %s", lead.Status)
		}
		if !lead.ExpiresAt.Equal(lead.CreatedAt.Add(models.LeadTTL)) {
			t.Fatalf("expected 24h expiry, got %v", lead.ExpiresAt)
		}
	}
}

func TestGenerateLeadsIsolatesFailures(t *testing.T) {
	store := &stubLeadStore{failPro: 2}
	pusher := &stubPusher{err: errors.New("fcm unavailable")}
	g := generatorForTest(nearbyPros(3), store, pusher)

	leads, err := g.GenerateLeads(context.Background(), deepCleanJob())
	if err != nil {
		t.Fatalf("GenerateLeads: %v", err)
	}
	// one insert failed, push failures swallowed
	if len(leads) != 2 {
		t.Fatalf("expected 2 leads, got %d", len(leads))
	}
}

func TestGenerateLeadsRequiresOpenJob(t *testing.T) {
	g := generatorForTest(nearbyPros(1), &stubLeadStore{}, &stubPusher{})

	job := deepCleanJob()
	job.Status = models.JobStatusAssigned
	if _, err := g.GenerateLeads(context.Background(), job); !errors.Is(err, models.ErrFailedPrecondition) {
		t.Fatalf("expected ErrFailedPrecondition, got %v", err)
	}
}

func TestGenerateLeadsRankedDescending(t *testing.T) {
	pros := nearbyPros(3)
	pros[1].Rating = 5
	pros[1].Badges = []string{models.BadgeTopRated}

	store := &stubLeadStore{}
	g := generatorForTest(pros, store, &stubPusher{})

	leads, err := g.GenerateLeads(context.Background(), deepCleanJob())
	if err != nil {
		t.Fatalf("GenerateLeads: %v", err)
	}
	if leads[0].ProID != 2 {
		t.Fatalf("expected pro 2 ranked first, got %d", leads[0].ProID)
	}
	for i := 1; i < len(leads); i++ {
		if leads[i].Score > leads[i-1].Score {
			t.Fatalf("leads not ranked: %d before %d", leads[i-1].Score, leads[i].Score)
		}
	}
}
