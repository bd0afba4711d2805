package audit

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/opensearch-project/opensearch-go/v2"
	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"

	"github.com/caseflow-systems/caseflow-intake/internal/models"
)

// OpenSearchConfig holds connection settings for the audit index.
type OpenSearchConfig struct {
	URL           string
	Username      string
	Password      string
	TLSSkipVerify bool
	Index         string
}

// OpenSearchSink indexes audit records for search and dashboards.
type OpenSearchSink struct {
	client *opensearch.Client
	index  string
}

// NewOpenSearchSink creates an OpenSearch-backed audit sink.
func NewOpenSearchSink(cfg OpenSearchConfig) (*OpenSearchSink, error) {
	if cfg.Index == "" {
		cfg.Index = "caseflow-intake-audit"
	}

	client, err := opensearch.NewClient(opensearch.Config{
		Addresses: []string{cfg.URL},
		Username:  cfg.Username,
		Password:  cfg.Password,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: cfg.TLSSkipVerify,
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create opensearch client: %w", err)
	}

	return &OpenSearchSink{client: client, index: cfg.Index}, nil
}

func (s *OpenSearchSink) Name() string { return "opensearch" }

// Append indexes one audit record keyed by correlation ID.
func (s *OpenSearchSink) Append(ctx context.Context, record *models.AuditRecord) error {
	body, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal audit record: %w", err)
	}

	req := opensearchapi.IndexRequest{
		Index:      s.index,
		DocumentID: record.CorrelationID,
		Body:       bytes.NewReader(body),
	}

	resp, err := req.Do(ctx, s.client)
	if err != nil {
		return fmt.Errorf("index audit record: %w", err)
	}
	defer resp.Body.Close()

	if resp.IsError() {
		msg, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("opensearch response status %d: %s", resp.StatusCode, msg)
	}
	return nil
}
