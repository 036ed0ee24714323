package disputes

import (
	"testing"

	"cleanlyBack/internal/models"
)

func TestAllowedTransitions(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{models.DisputeStatusOpen, models.DisputeStatusUnderReview, true},
		{models.DisputeStatusOpen, models.DisputeStatusExpired, true},
		{models.DisputeStatusAwaitingPro, models.DisputeStatusRefundFull, true},
		{models.DisputeStatusUnderReview, models.DisputeStatusCancelled, true},
		{models.DisputeStatusUnderReview, models.DisputeStatusOpen, false},
		{models.DisputeStatusRefundFull, models.DisputeStatusUnderReview, false},
		{models.DisputeStatusExpired, models.DisputeStatusOpen, false},
		{models.DisputeStatusCancelled, models.DisputeStatusExpired, false},
	}

	for _, tc := range cases {
		if got := Allowed(tc.from, tc.to); got != tc.want {
			t.Fatalf("Allowed(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestTerminalStatusesHaveNoExits(t *testing.T) {
	terminal := []string{
		models.DisputeStatusRefundFull,
		models.DisputeStatusRefundPartial,
		models.DisputeStatusNoRefund,
		models.DisputeStatusCancelled,
		models.DisputeStatusExpired,
	}
	all := append(append([]string{}, terminal...), models.PendingDisputeStatuses...)

	for _, from := range terminal {
		for _, to := range all {
			if Allowed(from, to) {
				t.Fatalf("terminal status %s must have no transition to %s", from, to)
			}
		}
	}
}
