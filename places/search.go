package places

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Candidate is one ranked result from the place-recommendation backend.
type Candidate struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Location    string `json:"location"`
	Description string `json:"description"`
	ReviewURL   string `json:"review_url,omitempty"`
}

// SearchClient returns ranked place candidates for a free-text query.
type SearchClient interface {
	Search(ctx context.Context, query string, k int) ([]Candidate, error)
}

// HTTPSearchClient queries the recommendation backend over HTTP.
type HTTPSearchClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPSearchClient creates a search client for the given base URL.
func NewHTTPSearchClient(baseURL string, httpClient *http.Client) *HTTPSearchClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &HTTPSearchClient{baseURL: baseURL, httpClient: httpClient}
}

type searchRequest struct {
	Query string `json:"query"`
	K     int    `json:"k"`
}

type searchResponse struct {
	Results []Candidate `json:"results"`
}

// Search posts the query and returns up to k ranked candidates.
func (c *HTTPSearchClient) Search(ctx context.Context, query string, k int) ([]Candidate, error) {
	payload, err := json.Marshal(searchRequest{Query: query, K: k})
	if err != nil {
		return nil, fmt.Errorf("marshal search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/search", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search %q: unexpected status %d", query, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("read search response: %w", err)
	}

	var sr searchResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	return sr.Results, nil
}
