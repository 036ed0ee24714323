package health

import (
	"context"
	"fmt"
	"math"
	"time"

	"cleanlyBack/internal/models"
)

// Chat sampling caps. Response latency is estimated from the most
// recent chats only so a long history does not dominate the metric.
const (
	maxChatsSampled    = 50
	maxMessagesPerChat = 20
	maxResponseMins    = 1440.0
)

// Score composition weights.
const (
	weightNoShow   = 0.30
	weightCancel   = 0.15
	weightResponse = 0.15
	weightInApp    = 0.15
	weightRating   = 0.20
	weightCount    = 0.05
)

// autoBadgeNames is the set the scorer owns. Badges outside this set
// are manual and survive recomputation verbatim.
var autoBadgeNames = map[string]struct{}{
	models.BadgeTopRated:      {},
	models.BadgeFastResponder: {},
	models.BadgeReliable:      {},
}

// JobSource counts completed work for the pro.
type JobSource interface {
	CountForPro(ctx context.Context, proID int) (int, error)
}

// AbuseSource counts recorded abuse events by type.
type AbuseSource interface {
	CountByType(ctx context.Context, proID int, eventType string) (int, error)
}

// ReviewSource aggregates review ratings.
type ReviewSource interface {
	Stats(ctx context.Context, proID int) (avg float64, count int, err error)
}

// ChatSource samples recent conversations. Messages come back in
// chronological order, at most limit per chat.
type ChatSource interface {
	RecentChatIDs(ctx context.Context, proID int, limit int) ([]int, error)
	RecentMessages(ctx context.Context, chatID int, limit int) ([]models.Message, error)
}

// RecordStore reads and writes the derived health record.
type RecordStore interface {
	Get(ctx context.Context, proID int) (*models.HealthRecord, error)
	Upsert(ctx context.Context, rec models.HealthRecord) error
}

// Scorer recomputes health metrics and badges for one pro at a time.
type Scorer struct {
	Jobs    JobSource
	Abuse   AbuseSource
	Reviews ReviewSource
	Chats   ChatSource
	Records RecordStore
	Now     func() time.Time
}

func (s *Scorer) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Recompute derives the health record for the pro from raw data and
// persists it. Manual badges on the previous record are carried over.
func (s *Scorer) Recompute(ctx context.Context, proID int) (models.HealthRecord, error) {
	totalJobs, err := s.Jobs.CountForPro(ctx, proID)
	if err != nil {
		return models.HealthRecord{}, fmt.Errorf("health: job count for pro %d: %w", proID, err)
	}

	noShows, err := s.Abuse.CountByType(ctx, proID, models.AbuseNoShow)
	if err != nil {
		return models.HealthRecord{}, fmt.Errorf("health: no-show count for pro %d: %w", proID, err)
	}
	lateCancels, err := s.Abuse.CountByType(ctx, proID, models.AbuseLateCancel)
	if err != nil {
		return models.HealthRecord{}, fmt.Errorf("health: cancel count for pro %d: %w", proID, err)
	}
	offPlatform, err := s.Abuse.CountByType(ctx, proID, models.AbuseOffPlatform)
	if err != nil {
		return models.HealthRecord{}, fmt.Errorf("health: off-platform count for pro %d: %w", proID, err)
	}

	ratingAvg, ratingCount, err := s.Reviews.Stats(ctx, proID)
	if err != nil {
		return models.HealthRecord{}, fmt.Errorf("health: review stats for pro %d: %w", proID, err)
	}

	avgResponse, err := s.avgResponseMins(ctx, proID)
	if err != nil {
		return models.HealthRecord{}, fmt.Errorf("health: response latency for pro %d: %w", proID, err)
	}

	rec := models.HealthRecord{
		ProID:           proID,
		AvgResponseMins: avgResponse,
		RatingAvg:       ratingAvg,
		RatingCount:     ratingCount,
		InAppRatio:      1.0,
		ComputedAt:      s.now(),
	}
	if totalJobs > 0 {
		rec.NoShowRate = float64(noShows) / float64(totalJobs)
		rec.CancelRate = float64(lateCancels) / float64(totalJobs)
		ratio := 1 - float64(offPlatform)/float64(totalJobs)
		if ratio < 0 {
			ratio = 0
		}
		rec.InAppRatio = ratio
	}

	rec.Score = ComposeScore(rec)
	rec.Badges = mergeBadges(AutoBadges(rec), s.previousBadges(ctx, proID))

	if err := s.Records.Upsert(ctx, rec); err != nil {
		return models.HealthRecord{}, fmt.Errorf("health: store record for pro %d: %w", proID, err)
	}
	return rec, nil
}

// avgResponseMins pairs each pro message with the immediately preceding
// non-pro message and averages the deltas, keeping only deltas inside
// (0, 24h).
func (s *Scorer) avgResponseMins(ctx context.Context, proID int) (float64, error) {
	chatIDs, err := s.Chats.RecentChatIDs(ctx, proID, maxChatsSampled)
	if err != nil {
		return 0, err
	}

	var total float64
	var pairs int
	for _, chatID := range chatIDs {
		msgs, err := s.Chats.RecentMessages(ctx, chatID, maxMessagesPerChat)
		if err != nil {
			return 0, err
		}
		for i := 1; i < len(msgs); i++ {
			if msgs[i].SenderID != proID || msgs[i-1].SenderID == proID {
				continue
			}
			mins := msgs[i].CreatedAt.Sub(msgs[i-1].CreatedAt).Minutes()
			if mins <= 0 || mins >= maxResponseMins {
				continue
			}
			total += mins
			pairs++
		}
	}
	if pairs == 0 {
		return 0, nil
	}
	return total / float64(pairs), nil
}

// ComposeScore blends the metric sub-scores into the 0-100 health score.
func ComposeScore(rec models.HealthRecord) int {
	noShowScore := floorZero(100 * (1 - rec.NoShowRate))
	cancelScore := floorZero(100 * (1 - rec.CancelRate))
	responseScore := floorZero(100 * (1 - rec.AvgResponseMins/120))
	inAppScore := math.Min(100, floorZero(100*rec.InAppRatio))
	ratingScore := floorZero(rec.RatingAvg * 20)
	countScore := math.Min(100, floorZero(5*math.Log(1+float64(rec.RatingCount))))

	weighted := weightNoShow*noShowScore +
		weightCancel*cancelScore +
		weightResponse*responseScore +
		weightInApp*inAppScore +
		weightRating*ratingScore +
		weightCount*countScore

	return int(math.Round(weighted))
}

// AutoBadges derives the scorer-owned badge set from the metrics.
func AutoBadges(rec models.HealthRecord) []string {
	var badges []string
	if rec.RatingAvg >= 4.8 && rec.RatingCount >= 20 {
		badges = append(badges, models.BadgeTopRated)
	}
	if rec.AvgResponseMins <= 15 {
		badges = append(badges, models.BadgeFastResponder)
	}
	if rec.NoShowRate <= 0.02 {
		badges = append(badges, models.BadgeReliable)
	}
	return badges
}

func (s *Scorer) previousBadges(ctx context.Context, proID int) []string {
	prev, err := s.Records.Get(ctx, proID)
	if err != nil || prev == nil {
		return nil
	}
	return prev.Badges
}

// mergeBadges replaces the auto set wholesale and keeps manual badges.
func mergeBadges(auto, previous []string) []string {
	merged := append([]string{}, auto...)
	for _, b := range previous {
		if _, owned := autoBadgeNames[b]; owned {
			continue
		}
		duplicate := false
		for _, m := range merged {
			if m == b {
				duplicate = true
				break
			}
		}
		if !duplicate {
			merged = append(merged, b)
		}
	}
	return merged
}

func floorZero(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
