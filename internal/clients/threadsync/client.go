// Package threadsync talks to the case/thread sync collaborator that
// links inbound items to existing case threads.
package threadsync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Syncer creates or locates the case thread for a matched pattern.
type Syncer interface {
	Sync(ctx context.Context, req SyncRequest) (*SyncResult, error)
}

// SyncRequest identifies the case thread to create or locate.
type SyncRequest struct {
	Pattern      string   `json:"pattern"`
	Parties      []string `json:"parties,omitempty"`
	Jurisdiction string   `json:"jurisdiction,omitempty"`
	Kind         string   `json:"kind"`
}

// SyncResult carries the thread identifiers on success.
type SyncResult struct {
	Synced   bool   `json:"synced"`
	ThreadID string `json:"thread_id"`
	RoomID   string `json:"room_id"`
}

// Client is the HTTP client for the thread-sync collaborator.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New constructs a thread-sync client with a bounded timeout.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Sync performs one synchronous call to the collaborator.
func (c *Client) Sync(ctx context.Context, req SyncRequest) (*SyncResult, error) {
	if c == nil || c.baseURL == "" {
		return nil, fmt.Errorf("threadsync client not configured")
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/threads/sync", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("threadsync response status %d", resp.StatusCode)
	}

	var result SyncResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &result, nil
}
