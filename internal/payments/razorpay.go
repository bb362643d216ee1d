// Package payments wraps the Razorpay orders API and webhook verification
// for the one-time portfolio publishing fee.
package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// DefaultBaseURL is the Razorpay REST API root.
const DefaultBaseURL = "https://api.razorpay.com/v1"

// Publishing fee: 100 INR, expressed in paise as the API requires.
const (
	AmountPaise = 100 * 100
	Currency    = "INR"
)

// Client is a minimal Razorpay orders client using basic auth.
type Client struct {
	keyID      string
	keySecret  string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a payments client. An empty baseURL selects the default.
func NewClient(keyID, keySecret, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		keyID:     keyID,
		keySecret: keySecret,
		baseURL:   baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// KeyID returns the public key id the frontend needs to open the checkout
// modal.
func (c *Client) KeyID() string {
	return c.keyID
}

// Order is the created payment order returned to the frontend.
type Order struct {
	ID       string `json:"id"`
	Amount   int    `json:"amount"`
	Currency string `json:"currency"`
}

type orderRequest struct {
	Amount   int               `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes"`
}

// CreateOrder creates a publishing-fee order carrying the resume id in the
// order notes, so the webhook can attribute the payment.
func (c *Client) CreateOrder(ctx context.Context, resumeID string) (*Order, error) {
	if c.keyID == "" || c.keySecret == "" {
		return nil, fmt.Errorf("razorpay credentials are not configured")
	}

	body, err := json.Marshal(orderRequest{
		Amount:   AmountPaise,
		Currency: Currency,
		Receipt:  "receipt_" + truncateID(resumeID, 10),
		Notes:    map[string]string{"resumeId": resumeID},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal order request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.keyID, c.keySecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("order request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("razorpay API status %d", resp.StatusCode)
	}

	var order Order
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return nil, fmt.Errorf("failed to decode order response: %w", err)
	}
	return &order, nil
}

func truncateID(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
