// Package federation fetches official handicap indexes from the national
// golf federation API. Lookups are best-effort: callers fall back to the
// locally stored index when the federation is unreachable.
package federation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

var (
	ErrPlayerNotFound = errors.New("player not found in the federation registry")
	ErrUnavailable    = errors.New("federation service unavailable")
)

// HandicapProvider is the port consumed by the round service. Lookups key on
// the player's full name, the only identifier the federation registry exposes.
type HandicapProvider interface {
	GetHandicapIndex(ctx context.Context, playerName string) (float64, error)
}

type handicapResponse struct {
	PlayerName     string    `json:"player_name"`
	HandicapIndex  float64   `json:"handicap_index"`
	LastRevisionAt time.Time `json:"last_revision_at"`
}

// Client talks to the federation handicap endpoint over HTTP.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *Client) SetTimeout(timeout time.Duration) {
	c.client.Timeout = timeout
}

func (c *Client) GetHandicapIndex(ctx context.Context, playerName string) (float64, error) {
	endpoint := fmt.Sprintf("%s/players/handicap?name=%s", c.baseURL, url.QueryEscape(playerName))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return 0, ErrPlayerNotFound
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return 0, fmt.Errorf("%w: status %d, response: %s", ErrUnavailable, resp.StatusCode, string(body))
	}

	var payload handicapResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, fmt.Errorf("failed to decode federation response: %w", err)
	}
	return payload.HandicapIndex, nil
}
