// Package schedule turns ordered stop lists into timed daily timelines
// with transit legs between consecutive stops.
package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/tripkit-ai/tripkit/routes"
	"github.com/tripkit-ai/tripkit/trip"
)

// fallbackTransitMin is used when the route resolver fails.
const fallbackTransitMin = 30

// StartPolicy returns the start of a day in minutes after midnight.
type StartPolicy func(day int) int

// DefaultStartPolicy starts day 1 at 12:00 (post-lunch framing) and
// every later day at 10:00.
func DefaultStartPolicy(day int) int {
	if day == 1 {
		return 12 * 60
	}
	return 10 * 60
}

// Scheduler builds timed timelines. It never consults the wall clock,
// so rescheduling an unchanged stop list reproduces identical output.
type Scheduler struct {
	resolver    routes.Resolver
	startPolicy StartPolicy
	logger      *slog.Logger
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithStartPolicy overrides the day-start policy.
func WithStartPolicy(p StartPolicy) Option {
	return func(s *Scheduler) { s.startPolicy = p }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scheduler) { s.logger = logger }
}

// New creates a scheduler over the given route resolver.
func New(resolver routes.Resolver, opts ...Option) *Scheduler {
	s := &Scheduler{
		resolver:    resolver,
		startPolicy: DefaultStartPolicy,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PlanDay walks one day's stops in order, inserting a transit leg
// before each stop after the first and assigning stay windows by
// category. Resolver failures degrade to a 30-minute transit leg.
func (s *Scheduler) PlanDay(ctx context.Context, day int, stops []trip.Stop) ([]trip.Entry, error) {
	cursor := s.startPolicy(day)
	entries := make([]trip.Entry, 0, len(stops)*2)

	for i, stop := range stops {
		if i > 0 {
			prev := stops[i-1]
			leg := s.transitLeg(ctx, prev, stop, cursor)
			cursor += leg.DurationMin
			leg.End = Clock(cursor)
			entries = append(entries, trip.TransitEntry(day, leg))
		}

		stay := StayMinutes(stop)
		stop.Start = Clock(cursor)
		cursor += stay
		stop.End = Clock(cursor)
		stop.Day = day
		entries = append(entries, trip.StopEntry(stop))
	}

	return entries, nil
}

// Plan schedules every day of the stop list and returns the combined
// itinerary, days in ascending order.
func (s *Scheduler) Plan(ctx context.Context, stops []trip.Stop) (trip.Itinerary, error) {
	byDay := make(map[int][]trip.Stop)
	for _, st := range stops {
		byDay[st.Day] = append(byDay[st.Day], st)
	}
	days := make([]int, 0, len(byDay))
	for d := range byDay {
		days = append(days, d)
	}
	sort.Ints(days)

	out := make(trip.Itinerary, 0, len(stops)*2)
	for _, day := range days {
		entries, err := s.PlanDay(ctx, day, byDay[day])
		if err != nil {
			return nil, fmt.Errorf("plan day %d: %w", day, err)
		}
		out = append(out, entries...)
	}
	return out, nil
}

// transitLeg resolves travel between two stops using cleaned names for
// the lookup while keeping the original names for display.
func (s *Scheduler) transitLeg(ctx context.Context, from, to trip.Stop, startMin int) trip.TransitLeg {
	route, err := s.resolver.Resolve(ctx, CleanName(from.Name), CleanName(to.Name))
	if err != nil {
		s.logger.Warn("route lookup failed, using default transit time",
			"from", from.Name,
			"to", to.Name,
			"error", err)
		route = routes.Route{
			Mode:         routes.ModeTransit,
			DurationMin:  fallbackTransitMin,
			DurationText: routes.FormatDuration(fallbackTransitMin),
		}
	}

	return trip.TransitLeg{
		From:            from.Name,
		To:              to.Name,
		Start:           Clock(startMin),
		TransportMode:   route.Mode,
		TransportDetail: route.Detail(),
		DurationText:    route.DurationText,
		DurationMin:     route.DurationMin,
	}
}

// Clock formats minutes after the day start's midnight as "HH:MM",
// appending an explicit day offset when the time crosses midnight.
func Clock(minutes int) string {
	dayOffset := minutes / (24 * 60)
	rem := minutes % (24 * 60)
	out := fmt.Sprintf("%02d:%02d", rem/60, rem%60)
	if dayOffset > 0 {
		out += fmt.Sprintf(" (+%d day)", dayOffset)
	}
	return out
}

// Stay durations in minutes by category group.
const (
	stayRestaurant = 90
	stayCafe       = 60
	stayAttraction = 120
	stayThemePark  = 180
	stayWalk       = 60
	stayLodging    = 0
	stayDefault    = 90
)

// StayMinutes estimates how long a visitor stays at a stop. The category
// tag wins; place-name keywords break ties for unclassified stops.
func StayMinutes(s trip.Stop) int {
	typ := strings.ToLower(s.Type)
	switch {
	case strings.Contains(typ, "theme park"), strings.Contains(typ, "amusement"):
		return stayThemePark
	case strings.Contains(typ, "promenade"), strings.Contains(typ, "trail"), strings.Contains(typ, "walk"):
		return stayWalk
	case strings.Contains(typ, "lodging"), strings.Contains(typ, "hotel"), strings.Contains(typ, "accommodation"):
		return stayLodging
	case strings.Contains(typ, "attraction"), strings.Contains(typ, "tourist"):
		return stayAttraction
	}

	switch trip.CategoryGroup(s.Type) {
	case trip.CategoryRestaurant:
		return stayRestaurant
	case trip.CategoryCafe:
		return stayCafe
	}

	name := strings.ToLower(s.Name)
	if strings.Contains(name, "cafe") || strings.Contains(name, "coffee") {
		return stayCafe
	}
	if strings.Contains(name, "restaurant") || strings.Contains(name, "diner") {
		return stayRestaurant
	}
	return stayDefault
}
