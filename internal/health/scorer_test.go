package health

import (
	"context"
	"testing"
	"time"

	"cleanlyBack/internal/models"
)

type stubJobs struct{ total int }

func (s stubJobs) CountForPro(ctx context.Context, proID int) (int, error) { return s.total, nil }

type stubAbuse struct{ counts map[string]int }

func (s stubAbuse) CountByType(ctx context.Context, proID int, eventType string) (int, error) {
	return s.counts[eventType], nil
}

type stubReviews struct {
	avg   float64
	count int
}

func (s stubReviews) Stats(ctx context.Context, proID int) (float64, int, error) {
	return s.avg, s.count, nil
}

type stubChats struct {
	chats map[int][]models.Message
}

func (s stubChats) RecentChatIDs(ctx context.Context, proID int, limit int) ([]int, error) {
	ids := make([]int, 0, len(s.chats))
	for id := range s.chats {
		ids = append(ids, id)
	}
	return ids, nil
}

func (s stubChats) RecentMessages(ctx context.Context, chatID int, limit int) ([]models.Message, error) {
	return s.chats[chatID], nil
}

type stubRecords struct {
	existing *models.HealthRecord
	saved    *models.HealthRecord
}

func (s *stubRecords) Get(ctx context.Context, proID int) (*models.HealthRecord, error) {
	return s.existing, nil
}

func (s *stubRecords) Upsert(ctx context.Context, rec models.HealthRecord) error {
	s.saved = &rec
	return nil
}

func scorerForTest(jobs int, abuse map[string]int, avg float64, count int, chats map[int][]models.Message, existing *models.HealthRecord) (*Scorer, *stubRecords) {
	records := &stubRecords{existing: existing}
	return &Scorer{
		Jobs:    stubJobs{total: jobs},
		Abuse:   stubAbuse{counts: abuse},
		Reviews: stubReviews{avg: avg, count: count},
		Chats:   stubChats{chats: chats},
		Records: records,
		Now:     func() time.Time { return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC) },
	}, records
}

func TestRecomputeNewProDefaults(t *testing.T) {
	s, records := scorerForTest(0, nil, 0, 0, nil, nil)

	rec, err := s.Recompute(context.Background(), 7)
	if err != nil {
		t.Fatalf("Recompute: %v", err)
	}
	if rec.NoShowRate != 0 || rec.CancelRate != 0 {
		t.Fatalf("expected zero rates for pro with no jobs")
	}
	if rec.InAppRatio != 1.0 {
		t.Fatalf("new pro should not be penalized on in-app ratio, got %f", rec.InAppRatio)
	}
	// 0.30*100 + 0.15*100 + 0.15*100 + 0.15*100 + 0 + 0 = 75
	if rec.Score != 75 {
		t.Fatalf("expected score 75, got %d", rec.Score)
	}
	if records.saved == nil {
		t.Fatalf("record not persisted")
	}
}

func TestRecomputeRates(t *testing.T) {
	abuse := map[string]int{
		models.AbuseNoShow:      2,
		models.AbuseLateCancel:  1,
		models.AbuseOffPlatform: 5,
	}
	s, _ := scorerForTest(20, abuse, 4.5, 10, nil, nil)

	rec, err := s.Recompute(context.Background(), 7)
	if err != nil {
		t.Fatalf("Recompute: %v", err)
	}
	if rec.NoShowRate != 0.1 {
		t.Fatalf("expected no-show rate 0.1, got %f", rec.NoShowRate)
	}
	if rec.CancelRate != 0.05 {
		t.Fatalf("expected cancel rate 0.05, got %f", rec.CancelRate)
	}
	if rec.InAppRatio != 0.75 {
		t.Fatalf("expected in-app ratio 0.75, got %f", rec.InAppRatio)
	}
}

func TestAvgResponsePairsMessages(t *testing.T) {
	base := time.Date(2025, 5, 20, 10, 0, 0, 0, time.UTC)
	proID := 7
	chats := map[int][]models.Message{
		1: {
			{SenderID: 1, CreatedAt: base},
			{SenderID: proID, CreatedAt: base.Add(10 * time.Minute)},
			{SenderID: proID, CreatedAt: base.Add(12 * time.Minute)}, // no preceding customer msg
			{SenderID: 1, CreatedAt: base.Add(20 * time.Minute)},
			{SenderID: proID, CreatedAt: base.Add(50 * time.Minute)},
			{SenderID: 1, CreatedAt: base.Add(60 * time.Minute)},
			{SenderID: proID, CreatedAt: base.Add(60*time.Minute + 25*time.Hour)}, // outside window
		},
	}
	s, _ := scorerForTest(5, nil, 0, 0, chats, nil)

	rec, err := s.Recompute(context.Background(), proID)
	if err != nil {
		t.Fatalf("Recompute: %v", err)
	}
	// kept pairs: 10 min and 30 min
	if rec.AvgResponseMins != 20 {
		t.Fatalf("expected avg response 20 mins, got %f", rec.AvgResponseMins)
	}
}

func TestComposeScoreMonotonicity(t *testing.T) {
	base := models.HealthRecord{
		NoShowRate:      0.1,
		CancelRate:      0.1,
		AvgResponseMins: 30,
		InAppRatio:      0.9,
		RatingAvg:       3.5,
		RatingCount:     15,
	}

	better := base
	better.RatingAvg = 4.5
	if ComposeScore(better) < ComposeScore(base) {
		t.Fatalf("higher rating must not lower the score")
	}

	worse := base
	worse.NoShowRate = 0.4
	if ComposeScore(worse) > ComposeScore(base) {
		t.Fatalf("higher no-show rate must not raise the score")
	}
}

func TestComposeScoreFloorsSubScores(t *testing.T) {
	rec := models.HealthRecord{
		NoShowRate:      2,   // would be -100 unfloored
		CancelRate:      1.5, // -50 unfloored
		AvgResponseMins: 600, // -400 unfloored
		InAppRatio:      0,
		RatingAvg:       0,
		RatingCount:     0,
	}
	if score := ComposeScore(rec); score != 0 {
		t.Fatalf("expected floor at 0, got %d", score)
	}
}

func TestAutoBadges(t *testing.T) {
	cases := []struct {
		name string
		rec  models.HealthRecord
		want []string
	}{
		{
			"all earned",
			models.HealthRecord{RatingAvg: 4.9, RatingCount: 25, AvgResponseMins: 10, NoShowRate: 0.01},
			[]string{models.BadgeTopRated, models.BadgeFastResponder, models.BadgeReliable},
		},
		{
			"high rating but few reviews",
			models.HealthRecord{RatingAvg: 5, RatingCount: 5, AvgResponseMins: 100, NoShowRate: 0.5},
			nil,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := AutoBadges(tc.rec)
			if len(got) != len(tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
			for i := range tc.want {
				if got[i] != tc.want[i] {
					t.Fatalf("expected %v, got %v", tc.want, got)
				}
			}
		})
	}
}

func TestRecomputePreservesManualBadges(t *testing.T) {
	existing := &models.HealthRecord{
		Badges: []string{models.BadgeTopRated, models.BadgeVerified, models.BadgePremium},
	}
	// rating too low for top_rated now; no jobs so fast_responder+reliable earned
	s, _ := scorerForTest(0, nil, 3.0, 2, nil, existing)

	rec, err := s.Recompute(context.Background(), 7)
	if err != nil {
		t.Fatalf("Recompute: %v", err)
	}

	has := func(name string) bool {
		for _, b := range rec.Badges {
			if b == name {
				return true
			}
		}
		return false
	}
	if has(models.BadgeTopRated) {
		t.Fatalf("stale auto badge survived recompute: %v", rec.Badges)
	}
	if !has(models.BadgeVerified) || !has(models.BadgePremium) {
		t.Fatalf("manual badges lost: %v", rec.Badges)
	}
	if !has(models.BadgeFastResponder) || !has(models.BadgeReliable) {
		t.Fatalf("earned auto badges missing: %v", rec.Badges)
	}
}
