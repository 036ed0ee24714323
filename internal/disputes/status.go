package disputes

import (
	"cleanlyBack/internal/models"
)

// transitions is the dispute state machine. Terminal statuses have no
// outgoing edges.
var transitions = map[string]map[string]struct{}{
	models.DisputeStatusOpen: {
		models.DisputeStatusAwaitingPro:   {},
		models.DisputeStatusUnderReview:   {},
		models.DisputeStatusRefundFull:    {},
		models.DisputeStatusRefundPartial: {},
		models.DisputeStatusNoRefund:      {},
		models.DisputeStatusCancelled:     {},
		models.DisputeStatusExpired:       {},
	},
	models.DisputeStatusAwaitingPro: {
		models.DisputeStatusUnderReview:   {},
		models.DisputeStatusRefundFull:    {},
		models.DisputeStatusRefundPartial: {},
		models.DisputeStatusNoRefund:      {},
		models.DisputeStatusCancelled:     {},
		models.DisputeStatusExpired:       {},
	},
	models.DisputeStatusUnderReview: {
		models.DisputeStatusRefundFull:    {},
		models.DisputeStatusRefundPartial: {},
		models.DisputeStatusNoRefund:      {},
		models.DisputeStatusCancelled:     {},
		models.DisputeStatusExpired:       {},
	},
}

// Allowed reports whether a dispute may move from one status to another.
func Allowed(from, to string) bool {
	next, ok := transitions[from]
	if !ok {
		return false
	}
	_, ok = next[to]
	return ok
}

// decisionStatus maps an admin decision onto the terminal status.
var decisionStatus = map[string]string{
	models.DecisionRefundFull:    models.DisputeStatusRefundFull,
	models.DecisionRefundPartial: models.DisputeStatusRefundPartial,
	models.DecisionNoRefund:      models.DisputeStatusNoRefund,
	models.DecisionCancelled:     models.DisputeStatusCancelled,
}
