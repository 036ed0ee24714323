package models

import (
	"time"
)

type Chat struct {
	ID         int       `json:"id"`
	JobID      int       `json:"job_id"`
	CustomerID int       `json:"customer_id"`
	ProID      int       `json:"pro_id"`
	CreatedAt  time.Time `json:"created_at"`
}

type Message struct {
	ID        int       `json:"id"`
	ChatID    int       `json:"chat_id"`
	SenderID  int       `json:"sender_id"`
	System    bool      `json:"system"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}
