package audit

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// RecordSigner produces tamper-evident signatures over audit records.
type RecordSigner struct {
	secretKey []byte
}

// NewRecordSigner creates a signer from the shared audit secret.
func NewRecordSigner(secretKey string) *RecordSigner {
	return &RecordSigner{secretKey: []byte(secretKey)}
}

// Sign computes an HMAC over the record identity and serialized body.
func (s *RecordSigner) Sign(correlationID string, recordedAt time.Time, body []byte) string {
	payload := correlationID + recordedAt.Format(time.RFC3339Nano) + string(body)
	h := hmac.New(sha256.New, s.secretKey)
	h.Write([]byte(payload))
	return hex.EncodeToString(h.Sum(nil))
}

// Verify checks a signature produced by Sign.
func (s *RecordSigner) Verify(correlationID string, recordedAt time.Time, body []byte, signature string) bool {
	expected := s.Sign(correlationID, recordedAt, body)
	return hmac.Equal([]byte(expected), []byte(signature))
}
