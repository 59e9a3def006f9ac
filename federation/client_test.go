package federation

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHandicapIndex(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/players/handicap", r.URL.Path)
		assert.Equal(t, "Marie Dubois", r.URL.Query().Get("name"))
		assert.Equal(t, "secret", r.Header.Get("X-Api-Key"))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"player_name":"Marie Dubois","handicap_index":14.2,"last_revision_at":"2026-08-01T00:00:00Z"}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret")
	hi, err := client.GetHandicapIndex(context.Background(), "Marie Dubois")
	require.NoError(t, err)
	assert.InDelta(t, 14.2, hi, 0.001)
}

func TestGetHandicapIndex_PlayerNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.URL, "")
	_, err := client.GetHandicapIndex(context.Background(), "Nobody")
	assert.ErrorIs(t, err, ErrPlayerNotFound)
}

func TestGetHandicapIndex_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, "")
	_, err := client.GetHandicapIndex(context.Background(), "Marie Dubois")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestGetHandicapIndex_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewClient(server.URL, "")
	_, err := client.GetHandicapIndex(context.Background(), "Marie Dubois")
	assert.ErrorIs(t, err, ErrUnavailable)
}
