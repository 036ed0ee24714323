package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestUploadEvidenceWithoutStorage(t *testing.T) {
	h := &DisputeHandler{}

	req := httptest.NewRequest(http.MethodPost, "/dispute/upload?:id=7", nil)
	req = req.WithContext(context.WithValue(req.Context(), "user_id", 100))
	rr := httptest.NewRecorder()

	h.UploadEvidence(rr, req)

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 when storage is not configured, got %d", rr.Code)
	}
}
