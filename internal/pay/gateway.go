package pay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Gateway is the payment provider surface the dispute lifecycle needs.
type Gateway interface {
	CreateRefund(ctx context.Context, paymentRef string, amountMinor int64, reason string, meta map[string]string) (string, error)
}

// Client is a minimal payment provider API client.
type Client struct {
	httpClient *http.Client
	merchantID string
	secret     string
	baseURL    string
}

// NewClient constructs a new payment client.
func NewClient(httpClient *http.Client, merchantID, secret, baseURL string) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		httpClient: httpClient,
		merchantID: merchantID,
		secret:     secret,
		baseURL:    baseURL,
	}
}

// Secret returns the configured API secret.
func (c *Client) Secret() string { return c.secret }

// refundIdempotencyKey is stable across retries of the same resolution:
// the dispute identity when the caller supplies it, otherwise the
// payment and amount.
func refundIdempotencyKey(paymentRef string, amountMinor int64, meta map[string]string) string {
	if id := meta["dispute_id"]; id != "" {
		return "refund-dispute-" + id
	}
	return fmt.Sprintf("refund-%s-%d", paymentRef, amountMinor)
}

// CreateRefund issues a refund against a captured payment. The request
// carries a stable idempotency key so a retried resolution re-sends the
// same key and the provider deduplicates it instead of refunding twice.
func (c *Client) CreateRefund(ctx context.Context, paymentRef string, amountMinor int64, reason string, meta map[string]string) (string, error) {
	payload := map[string]interface{}{
		"merchant_id": c.merchantID,
		"payment_id":  paymentRef,
		"amount":      amountMinor,
		"reason":      reason,
		"metadata":    meta,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/refund", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Signature", Sign(body, c.secret))
	httpReq.Header.Set("Idempotency-Key", refundIdempotencyKey(paymentRef, amountMinor, meta))

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("pay: unexpected status %s", resp.Status)
	}

	var apiResp struct {
		Success  bool   `json:"success"`
		RefundID string `json:"refund_id"`
		Message  string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return "", err
	}
	if !apiResp.Success || apiResp.RefundID == "" {
		return "", fmt.Errorf("pay: refund rejected: %s", apiResp.Message)
	}
	return apiResp.RefundID, nil
}
