package places

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// WeatherClient fetches a forecast briefing from the weather
// collaborator. The briefing is prose for prompt context, not
// structured data.
type WeatherClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewWeatherClient creates a weather client for the given base URL.
func NewWeatherClient(baseURL string, httpClient *http.Client) *WeatherClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &WeatherClient{baseURL: baseURL, httpClient: httpClient}
}

type weatherResponse struct {
	Briefing string `json:"briefing"`
}

// Forecast returns a destination forecast briefing for the given dates.
// Dates may be empty when the user has not pinned the trip to a range.
func (w *WeatherClient) Forecast(ctx context.Context, destination, dates string) (string, error) {
	q := url.Values{}
	q.Set("destination", destination)
	if dates != "" {
		q.Set("dates", dates)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		w.baseURL+"/v1/forecast?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("build forecast request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("forecast %q: %w", destination, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("forecast %q: unexpected status %d", destination, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read forecast response: %w", err)
	}

	var wr weatherResponse
	if err := json.Unmarshal(body, &wr); err != nil {
		return "", fmt.Errorf("decode forecast response: %w", err)
	}
	if wr.Briefing == "" {
		return "", fmt.Errorf("forecast %q: empty briefing", destination)
	}
	return wr.Briefing, nil
}
