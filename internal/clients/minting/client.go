// Package minting talks to the identifier minting service. When the
// service is unavailable the caller gets a locally generated,
// clearly-marked pending identifier instead of an error.
package minting

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// PendingPrefix marks identifiers minted locally during an outage.
const PendingPrefix = "pending-"

// Minter obtains correlation identifiers.
type Minter interface {
	Mint(ctx context.Context, purpose string) (string, bool)
}

// Client is the HTTP client for the minting service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New constructs a minting client with a bounded timeout.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type mintRequest struct {
	Purpose string `json:"purpose"`
}

type mintResponse struct {
	ID string `json:"id"`
}

// Mint requests an identifier for the given purpose. The second return
// reports whether the identifier came from the service; false means a
// local pending fallback was generated.
func (c *Client) Mint(ctx context.Context, purpose string) (string, bool) {
	id, err := c.mint(ctx, purpose)
	if err != nil {
		return PendingPrefix + uuid.New().String(), false
	}
	return id, true
}

func (c *Client) mint(ctx context.Context, purpose string) (string, error) {
	if c == nil || c.baseURL == "" {
		return "", fmt.Errorf("minting client not configured")
	}

	body, err := json.Marshal(mintRequest{Purpose: purpose})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/mint", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(request)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("minting response status %d", resp.StatusCode)
	}

	var decoded mintResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if decoded.ID == "" {
		return "", fmt.Errorf("minting returned empty id")
	}
	return decoded.ID, nil
}
