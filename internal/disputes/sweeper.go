package disputes

import (
	"context"
	"time"

	"cleanlyBack/internal/models"
)

// Batch caps keep a single sweep invocation inside the scheduler's
// execution budget; leftovers wait for the next run.
const (
	sweepBatchLimit    = 100
	reminderBatchLimit = 50
	reminderWindow     = 12 * time.Hour
)

// SweepStore is the query/transition subset the sweeper needs. The
// transition methods are conditional updates: a dispute that already
// moved no longer matches and is skipped, which makes sweeps idempotent.
type SweepStore interface {
	ListOpenPastProDeadline(ctx context.Context, now time.Time, limit int) ([]models.Dispute, error)
	ListPendingPastDecisionDeadline(ctx context.Context, now time.Time, limit int) ([]models.Dispute, error)
	ListUnderReviewDeadlineWithin(ctx context.Context, from, to time.Time, limit int) ([]models.Dispute, error)
	TransitionStatus(ctx context.Context, disputeID int, from []string, to string, audit models.AuditEntry) (bool, error)
}

// Sweeper runs the periodic dispute maintenance passes.
type Sweeper struct {
	Store  SweepStore
	Logger Logger
	Now    func() time.Time
}

func (s *Sweeper) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Run executes all three passes. The passes are independent; a dispute
// whose pro and decision deadlines have both passed is force-reviewed
// and expired in the same invocation.
func (s *Sweeper) Run(ctx context.Context) {
	s.ForceReviewOverdue(ctx)
	s.ExpireOverdue(ctx)
	s.ModerationReminders(ctx)
}

// ForceReviewOverdue moves open disputes whose pro-response deadline has
// passed into review even without a pro response.
func (s *Sweeper) ForceReviewOverdue(ctx context.Context) int {
	now := s.now()
	overdue, err := s.Store.ListOpenPastProDeadline(ctx, now, sweepBatchLimit)
	if err != nil {
		s.Logger.Errorf("sweeper: list overdue open disputes: %v", err)
		return 0
	}

	moved := 0
	for _, d := range overdue {
		audit := models.AuditEntry{
			Actor:     "system",
			Action:    "status_changed",
			Note:      "pro response deadline passed, forced into review",
			CreatedAt: now,
		}
		ok, err := s.Store.TransitionStatus(ctx, d.ID, []string{models.DisputeStatusOpen}, models.DisputeStatusUnderReview, audit)
		if err != nil {
			s.Logger.Errorf("sweeper: force review dispute %d: %v", d.ID, err)
			continue
		}
		if ok {
			moved++
		}
	}
	if moved > 0 {
		s.Logger.Infof("sweeper: forced %d disputes into review", moved)
	}
	return moved
}

// ExpireOverdue expires pending disputes whose decision deadline has
// passed.
func (s *Sweeper) ExpireOverdue(ctx context.Context) int {
	now := s.now()
	overdue, err := s.Store.ListPendingPastDecisionDeadline(ctx, now, sweepBatchLimit)
	if err != nil {
		s.Logger.Errorf("sweeper: list overdue pending disputes: %v", err)
		return 0
	}

	expired := 0
	for _, d := range overdue {
		audit := models.AuditEntry{
			Actor:     "system",
			Action:    "status_changed",
			Note:      "decision deadline passed, dispute expired",
			CreatedAt: now,
		}
		ok, err := s.Store.TransitionStatus(ctx, d.ID, models.PendingDisputeStatuses, models.DisputeStatusExpired, audit)
		if err != nil {
			s.Logger.Errorf("sweeper: expire dispute %d: %v", d.ID, err)
			continue
		}
		if ok {
			expired++
		}
	}
	if expired > 0 {
		s.Logger.Infof("sweeper: expired %d disputes", expired)
	}
	return expired
}

// ModerationReminders flags disputes whose decision deadline falls
// within the next 12 hours. Observation only; no state changes.
func (s *Sweeper) ModerationReminders(ctx context.Context) int {
	now := s.now()
	due, err := s.Store.ListUnderReviewDeadlineWithin(ctx, now, now.Add(reminderWindow), reminderBatchLimit)
	if err != nil {
		s.Logger.Errorf("sweeper: list disputes near decision deadline: %v", err)
		return 0
	}

	for _, d := range due {
		s.Logger.Infof("sweeper: dispute %d needs a moderator decision before %s", d.ID, d.DecisionDeadline.Format(time.RFC3339))
	}
	return len(due)
}
