package matching

import (
	"context"
	"fmt"
	"sync"
	"time"

	"cleanlyBack/internal/geo"
	"cleanlyBack/internal/models"
)

// MaxLeadsPerJob caps how many top-ranked candidates become leads.
const MaxLeadsPerJob = 10

// Logger is the minimal logger interface required by the generator.
type Logger interface {
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// LeadStore persists leads.
type LeadStore interface {
	Create(ctx context.Context, lead models.Lead) (models.Lead, error)
}

// Pusher delivers a push notification to one device token.
type Pusher interface {
	Send(ctx context.Context, token, title, body string, data map[string]string) error
}

// TokenSource resolves the device tokens of a pro.
type TokenSource interface {
	DeviceTokens(ctx context.Context, userID int) ([]string, error)
}

// EtaSource resolves travel estimates.
type EtaSource interface {
	Resolve(ctx context.Context, fromLat, fromLon, toLat, toLon float64) geo.ETA
}

// Broadcaster fans an event out to connected clients. Optional.
type Broadcaster interface {
	BroadcastLead(lead models.Lead)
}

// Generator turns a job into ranked, persisted, pushed leads.
type Generator struct {
	Discovery *Discovery
	Leads     LeadStore
	Eta       EtaSource
	Pusher    Pusher
	Tokens    TokenSource
	Hub       Broadcaster
	Logger    Logger
	Now       func() time.Time
}

func (g *Generator) now() time.Time {
	if g.Now != nil {
		return g.Now()
	}
	return time.Now()
}

// GenerateLeads runs discovery and scoring for the job and persists the
// top candidates as leads. Per-candidate persistence and notification
// failures are isolated: one bad candidate never sinks the batch.
func (g *Generator) GenerateLeads(ctx context.Context, job models.Job) ([]models.Lead, error) {
	if job.Status != models.JobStatusOpen {
		return nil, models.ErrFailedPrecondition
	}

	candidates, err := g.Discovery.FindCandidates(ctx, job)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		g.Logger.Infof("matching: no candidates for job %d", job.ID)
		return nil, nil
	}

	scored := make([]ScoredCandidate, 0, len(candidates))
	for _, c := range candidates {
		score, reasons := ScoreCandidate(job, c)
		eta := g.Eta.Resolve(ctx, c.Latitude, c.Longitude, job.Latitude, job.Longitude)
		scored = append(scored, ScoredCandidate{
			Candidate:  c,
			Score:      score,
			EtaMinutes: eta.Minutes,
			Reasons:    reasons,
		})
	}

	Rank(scored)
	if len(scored) > MaxLeadsPerJob {
		scored = scored[:MaxLeadsPerJob]
	}

	created := make([]models.Lead, 0, len(scored))
	now := g.now()
	for _, sc := range scored {
		lead := models.Lead{
			JobID:      job.ID,
			ProID:      sc.Candidate.ProID,
			Status:     models.LeadStatusPending,
			Score:      sc.Score,
			DistanceKm: sc.Candidate.DistanceKm,
			EtaMinutes: sc.EtaMinutes,
			Reasons:    sc.Reasons,
			CreatedAt:  now,
			ExpiresAt:  now.Add(models.LeadTTL),
		}
		lead, err := g.Leads.Create(ctx, lead)
		if err != nil {
			g.Logger.Errorf("matching: create lead job %d pro %d: %v", job.ID, sc.Candidate.ProID, err)
			continue
		}
		created = append(created, lead)
		if g.Hub != nil {
			g.Hub.BroadcastLead(lead)
		}
	}

	g.notifyCandidates(ctx, job, created)

	g.Logger.Infof("matching: job %d: %d candidates, %d leads", job.ID, len(candidates), len(created))
	return created, nil
}

// notifyCandidates dispatches pushes concurrently and waits for all of
// them; failures are logged and dropped.
func (g *Generator) notifyCandidates(ctx context.Context, job models.Job, leads []models.Lead) {
	if g.Pusher == nil || g.Tokens == nil {
		return
	}

	var wg sync.WaitGroup
	for _, lead := range leads {
		wg.Add(1)
		go func(lead models.Lead) {
			defer wg.Done()
			tokens, err := g.Tokens.DeviceTokens(ctx, lead.ProID)
			if err != nil {
				g.Logger.Errorf("matching: tokens for pro %d: %v", lead.ProID, err)
				return
			}
			body := fmt.Sprintf("A cleaning job %.1f km away matches your services", lead.DistanceKm)
			for _, token := range tokens {
				if err := g.Pusher.Send(ctx, token, "New lead", body, map[string]string{
					"lead_id": fmt.Sprint(lead.ID),
					"job_id":  fmt.Sprint(lead.JobID),
				}); err != nil {
					g.Logger.Errorf("matching: push lead %d to pro %d: %v", lead.ID, lead.ProID, err)
				}
			}
		}(lead)
	}
	wg.Wait()
}
