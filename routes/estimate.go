package routes

import (
	"context"
	"fmt"
	"math"
)

const earthRadiusKm = 6371

// Straight-line travel speeds for the estimate fallback, in km/h.
const (
	walkSpeedKmh    = 4.0
	vehicleSpeedKmh = 30.0
)

// HaversineKm returns the great-circle distance between two coordinates
// in kilometers.
func HaversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLng := (lng2 - lng1) * math.Pi / 180
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

// Estimator produces straight-line travel-time estimates when the
// directions backend fails. Walking is assumed at 4 km/h, anything
// else at 30 km/h.
type Estimator struct {
	geocoder Geocoder
}

// NewEstimator creates an estimator over the given geocoder.
func NewEstimator(geocoder Geocoder) *Estimator {
	return &Estimator{geocoder: geocoder}
}

// EstimateMinutes converts a distance and mode into whole minutes,
// with a floor of one minute for distinct places.
func EstimateMinutes(distanceKm float64, mode string) int {
	speed := vehicleSpeedKmh
	if mode == ModeWalking {
		speed = walkSpeedKmh
	}
	minutes := int(distanceKm / speed * 60)
	if minutes < 1 && distanceKm > 0 {
		minutes = 1
	}
	return minutes
}

// Estimate geocodes both endpoints and derives a travel time from the
// straight-line distance.
func (e *Estimator) Estimate(ctx context.Context, origin, destination, mode string) (Route, error) {
	if e.geocoder == nil {
		return Route{}, fmt.Errorf("estimate %q -> %q: no geocoder configured", origin, destination)
	}
	oLat, oLng, err := e.geocoder.Locate(ctx, origin)
	if err != nil {
		return Route{}, fmt.Errorf("estimate: locate origin %q: %w", origin, err)
	}
	dLat, dLng, err := e.geocoder.Locate(ctx, destination)
	if err != nil {
		return Route{}, fmt.Errorf("estimate: locate destination %q: %w", destination, err)
	}

	dist := HaversineKm(oLat, oLng, dLat, dLng)
	minutes := EstimateMinutes(dist, mode)

	return Route{
		Origin:       origin,
		Destination:  destination,
		Mode:         mode,
		DurationMin:  minutes,
		DurationText: FormatDuration(minutes),
		Steps:        []string{fmt.Sprintf("straight-line %.1f km", dist)},
		Estimated:    true,
	}, nil
}
