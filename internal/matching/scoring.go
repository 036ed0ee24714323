package matching

import (
	"math"
	"sort"

	"cleanlyBack/internal/models"
)

// Sub-score weights. They must sum to 1; badge bonuses are added on top
// of the weighted base and are therefore not normalized.
const (
	weightDistance     = 0.25
	weightPrice        = 0.20
	weightRating       = 0.20
	weightResponse     = 0.15
	weightCompleteness = 0.10
	weightHealth       = 0.10
)

// NeutralHealthScore is assumed for pros with no computed history.
const NeutralHealthScore = 50

var badgeBonuses = map[string]int{
	models.BadgeVerified:      5,
	models.BadgeTopRated:      10,
	models.BadgeFastResponder: 5,
	models.BadgeReliable:      8,
	models.BadgePremium:       15,
}

// ScoredCandidate is one candidate with its final score and the
// human-readable reasons behind it.
type ScoredCandidate struct {
	Candidate  models.Candidate
	Score      int
	EtaMinutes int
	Reasons    []string
}

// DistanceScore loses 5 points per km, floored at 0.
func DistanceScore(distanceKm float64) float64 {
	s := 100 - 5*distanceKm
	if s < 0 {
		return 0
	}
	return s
}

// PriceScore maps the budget-to-cost ratio onto tolerance bands. The
// bands are intentional: a budget a little under the estimate is still
// workable, far under is not.
func PriceScore(budget, hourlyRate, durationHours float64) float64 {
	estimated := hourlyRate * durationHours
	if estimated <= 0 {
		return 100
	}
	ratio := budget / estimated
	switch {
	case ratio >= 1.2:
		return 100
	case ratio >= 1.0:
		return 90
	case ratio >= 0.9:
		return 70
	case ratio >= 0.8:
		return 50
	case ratio >= 0.7:
		return 30
	default:
		return 10
	}
}

func RatingScore(rating float64) float64 {
	return rating / 5 * 100
}

func ResponseScore(responseRate float64) float64 {
	return responseRate * 100
}

func CompletenessScore(completeness float64) float64 {
	return completeness * 100
}

func badgeBonus(badges []string) int {
	total := 0
	for _, b := range badges {
		total += badgeBonuses[b]
	}
	return total
}

// ScoreCandidate computes the final lead score for one candidate.
// Hard-banned pros never reach this point; discovery drops them.
func ScoreCandidate(job models.Job, c models.Candidate) (int, []string) {
	distScore := DistanceScore(c.DistanceKm)
	priceScore := PriceScore(job.Budget, c.HourlyRate, job.DurationHours)
	ratingScore := RatingScore(c.Rating)
	responseScore := ResponseScore(c.ResponseRate)
	completenessScore := CompletenessScore(c.Completeness)

	healthScore := float64(NeutralHealthScore)
	if c.Health != nil {
		healthScore = float64(c.Health.Score)
	}

	weighted := weightDistance*distScore +
		weightPrice*priceScore +
		weightRating*ratingScore +
		weightResponse*responseScore +
		weightCompleteness*completenessScore +
		weightHealth*healthScore

	score := int(math.Round(weighted)) + badgeBonus(c.Badges)

	reasons := make([]string, 0, 4)
	if c.DistanceKm <= 5 {
		reasons = append(reasons, "very near")
	}
	if priceScore >= 80 {
		reasons = append(reasons, "budget fits")
	}
	if c.Rating >= 4.5 {
		reasons = append(reasons, "top rated")
	}
	if c.HasBadge(models.BadgeVerified) {
		reasons = append(reasons, "verified pro")
	}

	if score > 100 {
		score = 100
	}

	// The penalty runs after the bonuses: badge bonuses are halved for
	// soft-banned pros too.
	if c.SoftBanned {
		score = int(math.Round(float64(score) * 0.5))
		reasons = append(reasons, "score reduced: account under restriction")
	}

	if score < 0 {
		score = 0
	}
	return score, reasons
}

// Rank orders scored candidates by descending score. The sort is stable
// so exact ties keep their discovery order.
func Rank(scored []ScoredCandidate) []ScoredCandidate {
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored
}
