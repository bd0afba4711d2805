package attachments

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caseflow-systems/caseflow-intake/internal/models"
)

func TestAnalyzeAllAnnotatesItems(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Name string `json:"name"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Name == "exhibit-a.pdf" {
			json.NewEncoder(w).Encode(map[string]string{"category": "legal_document", "importance": "high"})
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"category": "photo", "importance": "low"})
	}))
	defer server.Close()

	items := []models.Attachment{
		{Name: "exhibit-a.pdf", ContentType: "application/pdf", Size: 2048},
		{Name: "scene.jpg", ContentType: "image/jpeg"},
	}
	out := New(server.URL, time.Second).AnalyzeAll(context.Background(), items)

	require.Len(t, out, 2)
	assert.Equal(t, "legal_document", out[0].Category)
	assert.Equal(t, "high", out[0].Importance)
	assert.Equal(t, "photo", out[1].Category)
	assert.Empty(t, out[0].Error)
}

func TestAnalyzeAllRecordsPerItemFailure(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"category": "photo", "importance": "low"})
	}))
	defer server.Close()

	out := New(server.URL, time.Second).AnalyzeAll(context.Background(), []models.Attachment{
		{Name: "bad.bin"},
		{Name: "good.jpg"},
	})

	require.Len(t, out, 2)
	assert.NotEmpty(t, out[0].Error)
	assert.Empty(t, out[0].Category)
	assert.Equal(t, "photo", out[1].Category, "one failure must not stop the batch")
}

func TestAnalyzeAllUnconfigured(t *testing.T) {
	out := New("", time.Second).AnalyzeAll(context.Background(), []models.Attachment{{Name: "a.pdf"}})
	require.Len(t, out, 1)
	assert.NotEmpty(t, out[0].Error)
}
