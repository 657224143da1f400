package paystack

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"
)

// SignatureHeader carries the HMAC of a webhook body.
const SignatureHeader = "X-Paystack-Signature"

// EventChargeSuccess is sent when a charge completes.
const EventChargeSuccess = "charge.success"

// ErrBadSignature is returned when a webhook signature does not match.
var ErrBadSignature = errors.New("paystack: invalid webhook signature")

// Event is a webhook notification.
type Event struct {
	Event string      `json:"event"`
	Data  Transaction `json:"data"`
}

// Sign returns the hex HMAC-SHA512 of body under the secret key.
func (c *Client) Sign(body []byte) string {
	mac := hmac.New(sha512.New, []byte(c.secretKey))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// ParseWebhook verifies signature and decodes body.
func (c *Client) ParseWebhook(body []byte, signature string) (*Event, error) {
	if c.secretKey == "" {
		return nil, ErrNotConfigured
	}
	want := c.Sign(body)
	if !hmac.Equal([]byte(want), []byte(strings.ToLower(strings.TrimSpace(signature)))) {
		return nil, ErrBadSignature
	}
	var ev Event
	if err := json.Unmarshal(body, &ev); err != nil {
		return nil, err
	}
	ev.Data.Raw = extractData(body)
	return &ev, nil
}

func extractData(body []byte) json.RawMessage {
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return nil
	}
	return env.Data
}
