// Package attachments calls the per-attachment analyzer. A failure on
// one attachment never fails the batch; it is recorded on the item.
package attachments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/caseflow-systems/caseflow-intake/internal/models"
)

// Analyzer classifies attachments individually.
type Analyzer interface {
	AnalyzeAll(ctx context.Context, items []models.Attachment) []models.Attachment
}

// Client is the HTTP client for the attachment analyzer service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New constructs an attachment analyzer client.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type analyzeRequest struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type,omitempty"`
	Size        int64  `json:"size,omitempty"`
}

type analyzeResponse struct {
	Category   string `json:"category"`
	Importance string `json:"importance"`
}

// AnalyzeAll annotates each attachment with the analyzer's category
// and importance. Individual failures are recorded on the item and the
// rest of the batch proceeds.
func (c *Client) AnalyzeAll(ctx context.Context, items []models.Attachment) []models.Attachment {
	out := make([]models.Attachment, len(items))
	for i, item := range items {
		result, err := c.analyze(ctx, item)
		if err != nil {
			item.Error = err.Error()
		} else {
			item.Category = result.Category
			item.Importance = result.Importance
		}
		out[i] = item
	}
	return out
}

func (c *Client) analyze(ctx context.Context, item models.Attachment) (*analyzeResponse, error) {
	if c == nil || c.baseURL == "" {
		return nil, fmt.Errorf("attachment analyzer not configured")
	}

	body, err := json.Marshal(analyzeRequest{
		Name:        item.Name,
		ContentType: item.ContentType,
		Size:        item.Size,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/analyze", bytes.NewReader(body))
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
		return nil, fmt.Errorf("analyzer response status %d", resp.StatusCode)
	}

	var decoded analyzeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &decoded, nil
}
