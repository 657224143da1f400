// Package paystack talks to the Paystack transaction API.
package paystack

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const DefaultBaseURL = "https://api.paystack.co"

// ErrNotConfigured is returned when no secret key was supplied.
var ErrNotConfigured = errors.New("paystack: secret key not configured")

// Client is a minimal Paystack API client.
type Client struct {
	baseURL     string
	secretKey   string
	callbackURL string
	httpClient  *http.Client
}

// New returns a Client. baseURL defaults to the live API.
func New(secretKey, baseURL, callbackURL string) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		secretKey:   strings.TrimSpace(secretKey),
		callbackURL: callbackURL,
		httpClient:  &http.Client{Timeout: 15 * time.Second},
	}
}

// InitializeRequest starts a transaction. Amount is in the currency's minor unit.
type InitializeRequest struct {
	Email     string            `json:"email"`
	Amount    int64             `json:"amount"`
	Currency  string            `json:"currency,omitempty"`
	Reference string            `json:"reference"`
	Callback  string            `json:"callback_url,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// Authorization is where the payer completes a transaction.
type Authorization struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

// Transaction is the verified state of a charge.
type Transaction struct {
	Reference string          `json:"reference"`
	Status    string          `json:"status"`
	Amount    int64           `json:"amount"`
	Currency  string          `json:"currency"`
	PaidAt    *time.Time      `json:"paid_at"`
	Raw       json.RawMessage `json:"-"`
}

// Succeeded reports whether the charge completed.
func (t Transaction) Succeeded() bool {
	return t.Status == "success"
}

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Initialize creates a transaction and returns its checkout URL.
func (c *Client) Initialize(ctx context.Context, in InitializeRequest) (*Authorization, error) {
	if in.Callback == "" {
		in.Callback = c.callbackURL
	}
	var out Authorization
	if _, err := c.do(ctx, http.MethodPost, "/transaction/initialize", in, &out); err != nil {
		return nil, err
	}
	if out.AuthorizationURL == "" {
		return nil, errors.New("paystack: empty authorization url")
	}
	return &out, nil
}

// Verify fetches the current state of the transaction with reference.
func (c *Client) Verify(ctx context.Context, reference string) (*Transaction, error) {
	var out Transaction
	raw, err := c.do(ctx, http.MethodGet, "/transaction/verify/"+url.PathEscape(reference), nil, &out)
	if err != nil {
		return nil, err
	}
	out.Raw = raw
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) (json.RawMessage, error) {
	if c.secretKey == "" {
		return nil, ErrNotConfigured
	}
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("paystack: encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("paystack: request %s: %w", path, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("paystack: read response: %w", err)
	}
	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, fmt.Errorf("paystack: decode response (%d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode >= 300 || !env.Status {
		return nil, fmt.Errorf("paystack: %s failed (%d): %s", path, resp.StatusCode, env.Message)
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return nil, fmt.Errorf("paystack: decode data: %w", err)
		}
	}
	return env.Data, nil
}
