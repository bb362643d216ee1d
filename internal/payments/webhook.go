package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// EventOrderPaid is the webhook event that unlocks publishing.
const EventOrderPaid = "order.paid"

// SignatureHeader is the webhook signature header sent by Razorpay.
const SignatureHeader = "X-Razorpay-Signature"

// VerifySignature checks the webhook HMAC-SHA256 signature over the raw
// request body. Comparison is constant-time.
func VerifySignature(body []byte, signature, secret string) bool {
	if signature == "" || secret == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// Event is the subset of the webhook payload this service consumes. The
// resume id travels in the order (or payment) notes set at order creation.
type Event struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				Notes map[string]string `json:"notes"`
			} `json:"entity"`
		} `json:"payment"`
		Order struct {
			Entity struct {
				Notes map[string]string `json:"notes"`
			} `json:"entity"`
		} `json:"order"`
	} `json:"payload"`
}

// ParseEvent decodes a verified webhook body.
func ParseEvent(body []byte) (*Event, error) {
	var event Event
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, fmt.Errorf("failed to parse webhook event: %w", err)
	}
	return &event, nil
}

// ResumeID returns the resume id from the order notes, falling back to the
// payment notes. Empty when neither carries one.
func (e *Event) ResumeID() string {
	if id := e.Payload.Order.Entity.Notes["resumeId"]; id != "" {
		return id
	}
	return e.Payload.Payment.Entity.Notes["resumeId"]
}
