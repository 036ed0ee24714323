package models

import (
	"time"
)

const (
	LeadStatusPending  = "pending"
	LeadStatusAccepted = "accepted"
	LeadStatusDeclined = "declined"
)

// LeadTTL is how long a pro has to act on a lead.
const LeadTTL = 24 * time.Hour

type Lead struct {
	ID         int       `json:"id"`
	JobID      int       `json:"job_id"`
	ProID      int       `json:"pro_id"`
	Status     string    `json:"status"`
	Score      int       `json:"score"`
	DistanceKm float64   `json:"distance_km"`
	EtaMinutes int       `json:"eta_minutes"`
	Reasons    []string  `json:"reasons"`
	CreatedAt  time.Time `json:"created_at"`
	ExpiresAt  time.Time `json:"expires_at"`
}
