package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/caseflow-systems/caseflow-intake/internal/models"
)

// AuditStream is the JetStream stream holding intake audit records.
const AuditStream = "INTAKE_AUDIT"

// JetStreamSink appends audit records to a NATS JetStream stream.
// Retention beyond the stream limits is an external concern.
type JetStreamSink struct {
	conn *nats.Conn
	js   jetstream.JetStream
}

// NewJetStreamSink connects to NATS and ensures the audit stream exists.
func NewJetStreamSink(ctx context.Context, url string) (*JetStreamSink, error) {
	conn, err := nats.Connect(url,
		nats.Name("caseflow-intake-audit"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("create jetstream context: %w", err)
	}

	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:      AuditStream,
		Subjects:  []string{"intake.audit.>"},
		Retention: jetstream.LimitsPolicy,
		Storage:   jetstream.FileStorage,
		MaxBytes:  1024 * 1024 * 1024,
	})
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("create audit stream: %w", err)
	}

	return &JetStreamSink{conn: conn, js: js}, nil
}

func (s *JetStreamSink) Name() string { return "jetstream" }

// Append publishes the record to intake.audit.<kind> and waits for the
// stream acknowledgment.
func (s *JetStreamSink) Append(ctx context.Context, record *models.AuditRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal audit record: %w", err)
	}

	subject := fmt.Sprintf("intake.audit.%s", record.Kind)
	if _, err := s.js.Publish(ctx, subject, data); err != nil {
		return fmt.Errorf("publish audit record: %w", err)
	}
	return nil
}

// Close drains the underlying NATS connection.
func (s *JetStreamSink) Close() {
	if s != nil && s.conn != nil {
		s.conn.Close()
	}
}
