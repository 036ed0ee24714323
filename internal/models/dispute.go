package models

import (
	"time"
)

// Dispute statuses. awaiting_pro is a valid pending status but no coded
// transition currently produces it.
const (
	DisputeStatusOpen          = "open"
	DisputeStatusAwaitingPro   = "awaiting_pro"
	DisputeStatusUnderReview   = "under_review"
	DisputeStatusRefundFull    = "resolved_refund_full"
	DisputeStatusRefundPartial = "resolved_refund_partial"
	DisputeStatusNoRefund      = "resolved_no_refund"
	DisputeStatusCancelled     = "cancelled"
	DisputeStatusExpired       = "expired"
)

// Admin resolution decisions.
const (
	DecisionRefundFull    = "refund_full"
	DecisionRefundPartial = "refund_partial"
	DecisionNoRefund      = "no_refund"
	DecisionCancelled     = "cancelled"
)

// Dispute window and deadlines, all relative timestamps.
const (
	DisputeOpenWindow      = 24 * time.Hour // after payment capture
	DisputeProResponseTerm = 24 * time.Hour // after opening
	DisputeDecisionTerm    = 48 * time.Hour // after opening
)

// Evidence item kinds.
const (
	EvidenceText  = "text"
	EvidenceImage = "image"
	EvidenceAudio = "audio"
)

type EvidenceItem struct {
	ID        int       `json:"id"`
	DisputeID int       `json:"dispute_id"`
	AuthorID  int       `json:"author_id"`
	FromPro   bool      `json:"from_pro"`
	Kind      string    `json:"kind"`
	Text      string    `json:"text,omitempty"`
	FileURL   string    `json:"file_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type AuditEntry struct {
	ID        int       `json:"id"`
	DisputeID int       `json:"dispute_id"`
	Actor     string    `json:"actor"`
	Action    string    `json:"action"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Dispute struct {
	ID                int            `json:"id"`
	JobID             int            `json:"job_id"`
	PaymentID         int            `json:"payment_id"`
	CustomerID        int            `json:"customer_id"`
	ProID             int            `json:"pro_id"`
	Status            string         `json:"status"`
	Reason            string         `json:"reason"`
	Description       string         `json:"description"`
	RequestedAmount   float64        `json:"requested_amount"`
	AwardedAmount     *float64       `json:"awarded_amount,omitempty"`
	ProDeadline       time.Time      `json:"pro_deadline"`
	DecisionDeadline  time.Time      `json:"decision_deadline"`
	Evidence          []EvidenceItem `json:"evidence"`
	ProResponses      []EvidenceItem `json:"pro_responses"`
	Audit             []AuditEntry   `json:"audit"`
	ResolvedAt        *time.Time     `json:"resolved_at,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
}

// PendingDisputeStatuses are the statuses a dispute can still move out of.
var PendingDisputeStatuses = []string{
	DisputeStatusOpen,
	DisputeStatusAwaitingPro,
	DisputeStatusUnderReview,
}

func DisputeIsPending(status string) bool {
	for _, s := range PendingDisputeStatuses {
		if s == status {
			return true
		}
	}
	return false
}
