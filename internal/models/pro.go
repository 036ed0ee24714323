package models

import (
	"time"
)

// DefaultServiceRadiusKm is applied when a pro has no usable radius on file.
const DefaultServiceRadiusKm = 25.0

// Badge names. Auto badges are recomputed by the health scorer; the rest
// are assigned manually by admins and survive recomputation.
const (
	BadgeVerified      = "verified"
	BadgeTopRated      = "top_rated"
	BadgeFastResponder = "fast_responder"
	BadgeReliable      = "reliable"
	BadgePremium       = "premium"
)

// ProProfile is a professional as stored.
type ProProfile struct {
	ID              int        `json:"id"`
	Name            string     `json:"name"`
	Active          bool       `json:"active"`
	Services        []string   `json:"services"`
	HourlyRate      float64    `json:"hourly_rate"`
	Rating          float64    `json:"rating"`
	ResponseRate    float64    `json:"response_rate"`
	Completeness    float64    `json:"completeness"`
	ServiceRadiusKm float64    `json:"service_radius_km"`
	Latitude        float64    `json:"latitude"`
	Longitude       float64    `json:"longitude"`
	SoftBanned      bool       `json:"soft_banned"`
	HardBanned      bool       `json:"hard_banned"`
	Badges          []string   `json:"badges"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       *time.Time `json:"updated_at,omitempty"`
}

// Candidate is a read-only scoring snapshot of a pro eligible for a job.
// Scoring never mutates the underlying profile.
type Candidate struct {
	ProID        int
	Services     []string
	HourlyRate   float64
	Rating       float64
	ResponseRate float64
	Completeness float64
	RadiusKm     float64
	Latitude     float64
	Longitude    float64
	SoftBanned   bool
	Badges       []string
	Health       *HealthRecord
	DistanceKm   float64
}

func (c Candidate) HasBadge(name string) bool {
	for _, b := range c.Badges {
		if b == name {
			return true
		}
	}
	return false
}
