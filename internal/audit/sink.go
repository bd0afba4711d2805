package audit

import (
	"context"
	"sync"

	"github.com/caseflow-systems/caseflow-intake/internal/models"
)

// Sink appends audit records to a durable backend. Sinks must accept
// writes even when other pipeline stages degraded.
type Sink interface {
	Name() string
	Append(ctx context.Context, record *models.AuditRecord) error
}

// MemorySink keeps records in memory. It is the default sink for
// development and the assertion point for tests.
type MemorySink struct {
	mu      sync.Mutex
	records []models.AuditRecord
}

// NewMemorySink constructs an empty in-memory sink.
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

func (s *MemorySink) Name() string { return "memory" }

// Append stores a copy of the record.
func (s *MemorySink) Append(ctx context.Context, record *models.AuditRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, *record)
	return nil
}

// Records returns a snapshot of everything appended so far.
func (s *MemorySink) Records() []models.AuditRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.AuditRecord, len(s.records))
	copy(out, s.records)
	return out
}
