package models

import (
	"time"
)

// Job lifecycle statuses.
const (
	JobStatusOpen      = "open"
	JobStatusAssigned  = "assigned"
	JobStatusCompleted = "completed"
	JobStatusCancelled = "cancelled"
)

type Job struct {
	ID            int        `json:"id"`
	CustomerID    int        `json:"customer_id"`
	Services      []string   `json:"services"`
	Latitude      float64    `json:"latitude"`
	Longitude     float64    `json:"longitude"`
	PreferredDate time.Time  `json:"preferred_date"`
	DurationHours float64    `json:"duration_hours"`
	Budget        float64    `json:"budget"`
	Status        string     `json:"status"`
	AssignedProID *int       `json:"assigned_pro_id,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`
}
