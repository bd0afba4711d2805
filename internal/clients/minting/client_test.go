package minting

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMintSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/mint", r.URL.Path)
		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "intake-correlation", req["purpose"])
		json.NewEncoder(w).Encode(map[string]string{"id": "CASE-2026-0042"})
	}))
	defer server.Close()

	id, minted := New(server.URL, time.Second).Mint(context.Background(), "intake-correlation")
	assert.True(t, minted)
	assert.Equal(t, "CASE-2026-0042", id)
}

func TestMintServiceDown(t *testing.T) {
	id, minted := New("http://127.0.0.1:1", 200*time.Millisecond).Mint(context.Background(), "intake-correlation")
	assert.False(t, minted)
	assert.True(t, strings.HasPrefix(id, PendingPrefix))
}

func TestMintEmptyIDFromService(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"id": ""})
	}))
	defer server.Close()

	id, minted := New(server.URL, time.Second).Mint(context.Background(), "intake-correlation")
	assert.False(t, minted)
	assert.True(t, strings.HasPrefix(id, PendingPrefix))
}

func TestMintPendingIDsAreUnique(t *testing.T) {
	client := New("", time.Second)
	first, _ := client.Mint(context.Background(), "intake-correlation")
	second, _ := client.Mint(context.Background(), "intake-correlation")
	assert.NotEqual(t, first, second)
}
