package models

import (
	"time"
)

// Abuse event types recorded against a pro.
const (
	AbuseNoShow      = "no_show"
	AbuseLateCancel  = "late_cancel"
	AbuseOffPlatform = "off_platform"
)

// HealthRecord is fully derived from raw event/review/chat/job data.
// Only the badge set may carry manual additions; everything else is
// overwritten on every recompute.
type HealthRecord struct {
	ProID           int       `json:"pro_id"`
	NoShowRate      float64   `json:"no_show_rate"`
	CancelRate      float64   `json:"cancel_rate"`
	AvgResponseMins float64   `json:"avg_response_mins"`
	InAppRatio      float64   `json:"in_app_ratio"`
	RatingAvg       float64   `json:"rating_avg"`
	RatingCount     int       `json:"rating_count"`
	Score           int       `json:"score"`
	Badges          []string  `json:"badges"`
	ComputedAt      time.Time `json:"computed_at"`
}

type AbuseEvent struct {
	ID        int       `json:"id"`
	ProID     int       `json:"pro_id"`
	JobID     *int      `json:"job_id,omitempty"`
	Type      string    `json:"type"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
