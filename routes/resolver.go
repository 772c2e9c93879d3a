// Package routes resolves travel segments between named places and
// optimizes stop visiting order. The directions backend is an external
// collaborator reached over HTTP; a straight-line estimate stands in
// when it is unreachable.
package routes

import (
	"context"
	"fmt"
)

// Transport modes understood by the directions backend.
const (
	ModeTransit = "transit"
	ModeWalking = "walking"
	ModeDriving = "driving"
)

// Route is a resolved travel segment between two named places.
type Route struct {
	Origin       string   `json:"origin"`
	Destination  string   `json:"destination"`
	Mode         string   `json:"mode"`
	DurationMin  int      `json:"duration_min"`
	DurationText string   `json:"duration_text"`
	Steps        []string `json:"steps,omitempty"`

	// Estimated marks routes produced by the straight-line fallback
	// rather than the directions backend.
	Estimated bool `json:"estimated,omitempty"`
}

// Detail returns the most informative single step for display: the
// first step naming a transit line, else the first step, else a generic
// label.
func (r Route) Detail() string {
	for _, s := range r.Steps {
		if len(s) > 0 && s[0] == '[' {
			return s
		}
	}
	if len(r.Steps) > 0 {
		return r.Steps[0]
	}
	return "transit"
}

// Resolver resolves travel time, mode, and steps between two named
// places.
type Resolver interface {
	Resolve(ctx context.Context, origin, destination string) (Route, error)
}

// Geocoder turns a place name into coordinates. Used by the estimate
// fallback.
type Geocoder interface {
	Locate(ctx context.Context, name string) (lat, lng float64, err error)
}

// FormatDuration renders a minute count as human-readable text.
func FormatDuration(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%d min", minutes)
	}
	return fmt.Sprintf("%d h %d min", minutes/60, minutes%60)
}
