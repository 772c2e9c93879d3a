package places_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tripkit-ai/tripkit/places"
)

func TestWeatherClientForecast(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/forecast", r.URL.Path)
		assert.Equal(t, "Busan", r.URL.Query().Get("destination"))
		assert.Equal(t, "2026-09-12 ~ 2026-09-13", r.URL.Query().Get("dates"))
		w.Write([]byte(`{"briefing":"Sunny, highs around 27C"}`))
	}))
	defer srv.Close()

	client := places.NewWeatherClient(srv.URL, srv.Client())
	briefing, err := client.Forecast(context.Background(), "Busan", "2026-09-12 ~ 2026-09-13")
	require.NoError(t, err)
	assert.Equal(t, "Sunny, highs around 27C", briefing)
}

func TestWeatherClientForecast_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := places.NewWeatherClient(srv.URL, srv.Client())
	_, err := client.Forecast(context.Background(), "Busan", "")
	assert.Error(t, err)
}

func TestWeatherClientForecast_EmptyBriefing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := places.NewWeatherClient(srv.URL, srv.Client())
	_, err := client.Forecast(context.Background(), "Busan", "")
	assert.Error(t, err)
}
