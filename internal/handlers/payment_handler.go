package handlers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"time"

	"cleanlyBack/internal/pay"
	"cleanlyBack/internal/repositories"
)

const maxWebhookBytes = 1 << 20

type PaymentHandler struct {
	PaymentsRepo  *repositories.PaymentRepository
	WebhookSecret string
}

// ProviderWebhook receives capture notifications from the payment
// provider. The signature is checked before anything is parsed.
func (h *PaymentHandler) ProviderWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBytes))
	if err != nil {
		http.Error(w, "Failed to read body", http.StatusBadRequest)
		return
	}

	signature := r.Header.Get("X-Signature")
	if !pay.VerifyHMAC(body, signature, h.WebhookSecret) {
		http.Error(w, "Invalid signature", http.StatusUnauthorized)
		return
	}

	var event struct {
		Type        string    `json:"type"`
		ProviderRef string    `json:"provider_ref"`
		OccurredAt  time.Time `json:"occurred_at"`
	}
	if err := json.Unmarshal(body, &event); err != nil {
		http.Error(w, "Invalid payload", http.StatusBadRequest)
		return
	}

	switch event.Type {
	case "payment.captured":
		occurred := event.OccurredAt
		if occurred.IsZero() {
			occurred = time.Now()
		}
		if _, err := h.PaymentsRepo.MarkCaptured(r.Context(), event.ProviderRef, occurred); err != nil {
			log.Printf("ProviderWebhook capture error: %v", err)
			writeError(w, err)
			return
		}
	default:
		// unknown events are acknowledged so the provider stops retrying
	}

	w.WriteHeader(http.StatusOK)
}
