package models

import (
	"time"
)

type Review struct {
	ID         int        `json:"id"`
	CustomerID int        `json:"customer_id,omitempty"`
	ProID      int        `json:"pro_id,omitempty"`
	JobID      int        `json:"job_id,omitempty"`
	Rating     float64    `json:"rating"`
	Review     string     `json:"review"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  *time.Time `json:"updated_at,omitempty"`
}
