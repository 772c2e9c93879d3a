package routes_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tripkit-ai/tripkit/routes"
)

type fixedGeocoder map[string][2]float64

func (g fixedGeocoder) Locate(_ context.Context, name string) (float64, float64, error) {
	c, ok := g[name]
	if !ok {
		return 0, 0, assert.AnError
	}
	return c[0], c[1], nil
}

func TestClient_Resolve(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "Jagalchi Market", r.URL.Query().Get("origin"))
		assert.Equal(t, "Haeundae Beach", r.URL.Query().Get("destination"))
		assert.Equal(t, "transit", r.URL.Query().Get("mode"))

		json.NewEncoder(w).Encode(map[string]any{
			"mode":             "transit",
			"duration_seconds": 2700,
			"duration_text":    "45 min",
			"steps":            []string{"[Bus 1003] Busan Station", "walk"},
		})
	}))
	defer server.Close()

	client := routes.NewClient(server.URL)

	route, err := client.Resolve(context.Background(), "Jagalchi Market", "Haeundae Beach")
	require.NoError(t, err)
	assert.Equal(t, 45, route.DurationMin)
	assert.Equal(t, "45 min", route.DurationText)
	assert.Equal(t, "[Bus 1003] Busan Station", route.Detail())
	assert.False(t, route.Estimated)

	// Second lookup is served from cache.
	_, err = client.Resolve(context.Background(), "Jagalchi Market", "Haeundae Beach")
	require.NoError(t, err)
	assert.Equal(t, int32(1), hits.Load())
}

func TestClient_ResolveFallsBackToEstimate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	geo := fixedGeocoder{
		// About 14 km apart in a straight line.
		"Jagalchi Market": {35.0967, 129.0306},
		"Haeundae Beach":  {35.1587, 129.1604},
	}
	client := routes.NewClient(server.URL, routes.WithEstimator(routes.NewEstimator(geo)))

	route, err := client.Resolve(context.Background(), "Jagalchi Market", "Haeundae Beach")
	require.NoError(t, err)
	assert.True(t, route.Estimated)
	// 30 km/h over ~14 km straight line keeps this well under an hour.
	assert.Greater(t, route.DurationMin, 10)
	assert.Less(t, route.DurationMin, 60)
}

func TestClient_ResolveErrorWithoutEstimator(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := routes.NewClient(server.URL)

	_, err := client.Resolve(context.Background(), "A", "B")
	assert.Error(t, err)
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "30 min", routes.FormatDuration(30))
	assert.Equal(t, "1 h 10 min", routes.FormatDuration(70))
}
