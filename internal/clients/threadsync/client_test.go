package threadsync

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyncSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/threads/sync", r.URL.Path)
		var req SyncRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "smith-v-jones", req.Pattern)
		assert.Equal(t, []string{"plaintiff@x.com"}, req.Parties)
		json.NewEncoder(w).Encode(SyncResult{Synced: true, ThreadID: "thr-11", RoomID: "room-3"})
	}))
	defer server.Close()

	result, err := New(server.URL, time.Second).Sync(context.Background(), SyncRequest{
		Pattern: "smith-v-jones",
		Parties: []string{"plaintiff@x.com"},
		Kind:    "email",
	})
	require.NoError(t, err)
	assert.True(t, result.Synced)
	assert.Equal(t, "thr-11", result.ThreadID)
	assert.Equal(t, "room-3", result.RoomID)
}

func TestSyncServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := New(server.URL, time.Second).Sync(context.Background(), SyncRequest{Pattern: "p", Kind: "email"})
	assert.Error(t, err)
}

func TestSyncUnconfigured(t *testing.T) {
	_, err := New("", time.Second).Sync(context.Background(), SyncRequest{Pattern: "p"})
	assert.Error(t, err)
}
