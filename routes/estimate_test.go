package routes_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tripkit-ai/tripkit/routes"
)

func TestHaversineKm(t *testing.T) {
	// Busan Station to Haeundae Beach, roughly 13-14 km.
	d := routes.HaversineKm(35.1151, 129.0403, 35.1587, 129.1604)
	assert.InDelta(t, 12.0, d, 2.5)

	assert.Zero(t, routes.HaversineKm(35.0, 129.0, 35.0, 129.0))
}

func TestEstimateMinutes(t *testing.T) {
	// 4 km: an hour on foot, eight minutes by vehicle.
	assert.Equal(t, 60, routes.EstimateMinutes(4, routes.ModeWalking))
	assert.Equal(t, 8, routes.EstimateMinutes(4, routes.ModeTransit))

	// Tiny but nonzero distances round up to a minute.
	assert.Equal(t, 1, routes.EstimateMinutes(0.01, routes.ModeTransit))
	assert.Equal(t, 0, routes.EstimateMinutes(0, routes.ModeTransit))
}
