package places

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

// regionSuffixRe matches administrative suffixes stripped when turning
// region names into filter tokens ("Busan Metropolitan City" -> "Busan",
// "Suyeong-gu" -> "Suyeong").
var regionSuffixRe = regexp.MustCompile(`(?i)(\s+(special|metropolitan)\s+city|\s+city|\s+province|\s+county|\s+district|-si|-gu|-gun|-do)$`)

// NormalizeRegion reduces a free-text destination to a bare region name
// usable as a filter token when geocoding is unavailable.
func NormalizeRegion(destination string) string {
	out := regionSuffixRe.ReplaceAllString(strings.TrimSpace(destination), "")
	return strings.TrimSpace(out)
}

// RegionTokens splits a resolved region string into suffix-stripped
// match tokens, dropping fragments too short to be meaningful.
// Multi-word suffixes are stripped from the whole string before
// splitting so "Metropolitan City" never becomes a token.
func RegionTokens(region string) []string {
	base := strings.TrimSpace(region)
	for {
		next := strings.TrimSpace(regionSuffixRe.ReplaceAllString(base, ""))
		if next == base || next == "" {
			break
		}
		base = next
	}

	var tokens []string
	for _, part := range strings.Fields(base) {
		clean := regionSuffixRe.ReplaceAllString(part, "")
		if len(clean) >= 2 {
			tokens = append(tokens, clean)
		}
	}
	if len(tokens) == 0 {
		return strings.Fields(region)
	}
	return tokens
}

// GeocodeClient resolves place names to coordinates and administrative
// regions via an HTTP geocoding collaborator.
type GeocodeClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewGeocodeClient creates a geocoding client for the given base URL.
func NewGeocodeClient(baseURL string, httpClient *http.Client) *GeocodeClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &GeocodeClient{baseURL: baseURL, httpClient: httpClient}
}

type geocodeResponse struct {
	Lat          float64 `json:"lat"`
	Lng          float64 `json:"lng"`
	RegionLevel1 string  `json:"region_level1"`
	RegionLevel2 string  `json:"region_level2"`
}

func (g *GeocodeClient) lookup(ctx context.Context, query string) (geocodeResponse, error) {
	q := url.Values{}
	q.Set("q", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		g.baseURL+"/v1/geocode?"+q.Encode(), nil)
	if err != nil {
		return geocodeResponse{}, fmt.Errorf("build geocode request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return geocodeResponse{}, fmt.Errorf("geocode %q: %w", query, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return geocodeResponse{}, fmt.Errorf("geocode %q: unexpected status %d", query, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return geocodeResponse{}, fmt.Errorf("read geocode response: %w", err)
	}

	var gr geocodeResponse
	if err := json.Unmarshal(body, &gr); err != nil {
		return geocodeResponse{}, fmt.Errorf("decode geocode response: %w", err)
	}
	return gr, nil
}

// Locate returns coordinates for a place name. Satisfies the route
// estimator's geocoder contract.
func (g *GeocodeClient) Locate(ctx context.Context, name string) (float64, float64, error) {
	gr, err := g.lookup(ctx, name)
	if err != nil {
		return 0, 0, err
	}
	return gr.Lat, gr.Lng, nil
}

// Region resolves an informal place reference into an administrative
// region string ("Gwangalli" -> "Busan Suyeong-gu"). The destination is
// prepended to the query when absent to disambiguate common names.
func (g *GeocodeClient) Region(ctx context.Context, query, destination string) (string, error) {
	term := query
	if destination != "" && !strings.Contains(query, destination) {
		term = destination + " " + query
	}

	gr, err := g.lookup(ctx, term)
	if err != nil {
		return "", err
	}

	region := strings.TrimSpace(gr.RegionLevel1 + " " + gr.RegionLevel2)
	if region == "" {
		return "", fmt.Errorf("geocode %q: empty region", term)
	}
	return region, nil
}
