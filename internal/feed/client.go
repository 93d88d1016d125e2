package feed

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

// Client fetches the upstream dashboard-data feed. The endpoint itself is an
// external collaborator; this client only consumes its fixed JSON shape.
// Safe for concurrent use: the URL may be repointed while fetches are in
// flight.
type Client struct {
	http *http.Client
	sem  chan struct{}

	mu      sync.Mutex
	feedURL string
}

// NewClient creates a feed client for the given endpoint URL.
func NewClient(feedURL string) *Client {
	return &Client{
		http:    &http.Client{Timeout: 30 * time.Second},
		feedURL: feedURL,
		sem:     make(chan struct{}, 4),
	}
}

// SetURL points the client at a different upstream endpoint (config updates).
func (c *Client) SetURL(feedURL string) {
	c.mu.Lock()
	c.feedURL = feedURL
	c.mu.Unlock()
}

func (c *Client) url() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.feedURL
}

// FetchDashboard fetches and decodes the full dashboard payload.
func (c *Client) FetchDashboard() (*Payload, error) {
	var payload Payload
	if err := c.getJSON(c.url(), &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// getJSON fetches a URL and decodes JSON into dst.
func (c *Client) getJSON(url string, dst interface{}) error {
	c.sem <- struct{}{}
	defer func() { <-c.sem }()

	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "price-intel/1.0")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("feed fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("feed %d: %s", resp.StatusCode, string(body))
	}

	return json.NewDecoder(resp.Body).Decode(dst)
}
