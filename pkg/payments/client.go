package payments

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client talks to the hosted payment gateway's link API. The gateway issues
// a payment link per order; the link id is stored on the order and later
// correlates webhook callbacks back to it.
type Client struct {
	baseURL       string
	clientID      string
	clientSecret  string
	webhookSecret string
	httpClient    *http.Client
}

// Config holds gateway credentials and endpoints.
type Config struct {
	BaseURL       string
	ClientID      string
	ClientSecret  string
	WebhookSecret string
}

// NewClient creates a new gateway client.
func NewClient(cfg Config) *Client {
	return &Client{
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		clientID:      cfg.ClientID,
		clientSecret:  cfg.ClientSecret,
		webhookSecret: cfg.WebhookSecret,
		httpClient:    &http.Client{Timeout: 15 * time.Second},
	}
}

// CustomerDetails identifies the paying customer on a link.
type CustomerDetails struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"customer_phone"`
}

// LinkRequest is the payload for creating a payment link.
type LinkRequest struct {
	Amount    string          `json:"link_amount"`
	Currency  string          `json:"link_currency"`
	Purpose   string          `json:"link_purpose"`
	Customer  CustomerDetails `json:"customer_details"`
	ReturnURL string          `json:"return_url,omitempty"`
}

// LinkResponse is the gateway's answer to a link creation.
type LinkResponse struct {
	LinkID  string `json:"link_id"`
	LinkURL string `json:"link_url"`
	Status  string `json:"link_status"`
}

// CreateLink asks the gateway for a hosted payment link.
func (c *Client) CreateLink(req LinkRequest) (*LinkResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal link request: %w", err)
	}

	httpReq, err := http.NewRequest(http.MethodPost, c.baseURL+"/links", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build link request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-client-id", c.clientID)
	httpReq.Header.Set("x-client-secret", c.clientSecret)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("payment gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read gateway response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("payment gateway returned status %d: %s", resp.StatusCode, respBody)
	}

	var link LinkResponse
	if err := json.Unmarshal(respBody, &link); err != nil {
		return nil, fmt.Errorf("failed to parse gateway response: %w", err)
	}
	return &link, nil
}

// VerifySignature checks the webhook HMAC-SHA256 signature over
// timestamp + raw body. Verification is advisory in this design: callers
// log a mismatch but still process the payload.
func (c *Client) VerifySignature(timestamp string, rawBody []byte, signature string) bool {
	if c.webhookSecret == "" || signature == "" || timestamp == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(c.webhookSecret))
	mac.Write([]byte(timestamp))
	mac.Write(rawBody)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
