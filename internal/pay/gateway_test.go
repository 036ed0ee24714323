package pay

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func refundServer(t *testing.T, keys *[]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*keys = append(*keys, r.Header.Get("Idempotency-Key"))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success":   true,
			"refund_id": "re_1",
		})
	}))
}

func TestCreateRefundRetryReusesIdempotencyKey(t *testing.T) {
	var keys []string
	srv := refundServer(t, &keys)
	defer srv.Close()

	c := NewClient(srv.Client(), "m1", "secret", srv.URL)
	meta := map[string]string{"dispute_id": "42", "job_id": "7"}

	for i := 0; i < 2; i++ {
		if _, err := c.CreateRefund(context.Background(), "pi_1", 6000, "quality", meta); err != nil {
			t.Fatalf("CreateRefund attempt %d: %v", i+1, err)
		}
	}

	if len(keys) != 2 || keys[0] == "" {
		t.Fatalf("expected two keyed requests, got %v", keys)
	}
	if keys[0] != keys[1] {
		t.Fatalf("retried refund changed idempotency key: %q vs %q", keys[0], keys[1])
	}
}

func TestCreateRefundKeysDifferPerDispute(t *testing.T) {
	var keys []string
	srv := refundServer(t, &keys)
	defer srv.Close()

	c := NewClient(srv.Client(), "m1", "secret", srv.URL)

	if _, err := c.CreateRefund(context.Background(), "pi_1", 6000, "quality", map[string]string{"dispute_id": "42"}); err != nil {
		t.Fatalf("CreateRefund: %v", err)
	}
	if _, err := c.CreateRefund(context.Background(), "pi_1", 6000, "quality", map[string]string{"dispute_id": "43"}); err != nil {
		t.Fatalf("CreateRefund: %v", err)
	}

	if keys[0] == keys[1] {
		t.Fatalf("different disputes shared idempotency key %q", keys[0])
	}
}

func TestRefundIdempotencyKeyFallback(t *testing.T) {
	withDispute := refundIdempotencyKey("pi_1", 6000, map[string]string{"dispute_id": "42"})
	if withDispute != "refund-dispute-42" {
		t.Fatalf("unexpected key %q", withDispute)
	}

	bare := refundIdempotencyKey("pi_1", 6000, nil)
	if bare == "" || bare != refundIdempotencyKey("pi_1", 6000, map[string]string{}) {
		t.Fatalf("fallback key must be stable, got %q", bare)
	}
	if bare == refundIdempotencyKey("pi_1", 5000, nil) {
		t.Fatalf("fallback key must vary with amount")
	}
}
