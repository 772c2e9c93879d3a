package trip

import (
	"context"
	"log/slog"
	"sort"
)

// Scheduler turns one day's ordered stops into a timed sequence of stop
// and transit entries. Implemented by the schedule package; declared
// here so the reconciler does not depend on it.
type Scheduler interface {
	PlanDay(ctx context.Context, day int, stops []Stop) ([]Entry, error)
}

// Reconciler decides after a mutation pass whether the timeline must be
// rebuilt, regroups stops into the canonical category sequence, and
// reruns scheduling.
type Reconciler struct {
	scheduler Scheduler
	logger    *slog.Logger
}

// NewReconciler creates a reconciler over the given scheduler.
func NewReconciler(scheduler Scheduler, logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{scheduler: scheduler, logger: logger}
}

// NeedsReschedule applies the stage-dependent rebuild rule. During
// planning a rebuild needs both an explicit timeline request and a
// structural change; during editing either alone suffices.
func (r *Reconciler) NeedsReschedule(sess *Session, timelineRequested bool, out Outcome) bool {
	if sess.Stage == StagePlanning {
		return timelineRequested && out.Changed()
	}
	return timelineRequested || out.Changed()
}

// Reconcile regroups and reschedules the itinerary when the rebuild rule
// fires. It reports whether the timeline was rebuilt. Per-day scheduling
// failures degrade to unscheduled stop entries for that day rather than
// failing the turn.
func (r *Reconciler) Reconcile(ctx context.Context, sess *Session, timelineRequested bool, out Outcome) (bool, error) {
	if !r.NeedsReschedule(sess, timelineRequested, out) {
		return false, nil
	}

	stops := r.Regroup(sess)
	rebuilt := make(Itinerary, 0, len(stops)*2)
	byDay := groupByDay(stops)

	for _, day := range sortedDays(byDay) {
		entries, err := r.scheduler.PlanDay(ctx, day, byDay[day])
		if err != nil {
			r.logger.Warn("day scheduling failed, keeping stops untimed",
				"day", day,
				"error", err)
			for _, s := range byDay[day] {
				s.Start, s.End = "", ""
				rebuilt = append(rebuilt, StopEntry(s))
			}
			continue
		}
		rebuilt = append(rebuilt, entries...)
	}

	sess.Itinerary = rebuilt
	r.logger.Info("timeline rebuilt",
		"stage", sess.Stage,
		"days", len(byDay),
		"stops", len(stops))
	return true, nil
}

// Regroup returns the stop list in canonical order for the session's
// stage. Planning reorders each day by category sequence; editing keeps
// user-chosen order and only restores day grouping with a stable sort.
func (r *Reconciler) Regroup(sess *Session) []Stop {
	stops := sess.Itinerary.Stops()
	if sess.Stage != StagePlanning {
		sort.SliceStable(stops, func(i, j int) bool { return stops[i].Day < stops[j].Day })
		return stops
	}

	byDay := groupByDay(stops)
	out := make([]Stop, 0, len(stops))
	for _, day := range sortedDays(byDay) {
		out = append(out, regroupDay(byDay[day], day == 1)...)
	}
	return out
}

// regroupDay orders one day's stops by category group. Day 1 starts at
// lunch time, so it leads with a restaurant; later days start mid-
// morning and lead with attractions.
//
// Day 1:      first restaurant, cafes, attractions, remaining restaurants.
// Other days: attractions, first restaurant, cafes, remaining restaurants.
func regroupDay(stops []Stop, dayOne bool) []Stop {
	var restaurants, cafes, attractions []Stop
	for _, s := range stops {
		switch s.Group() {
		case CategoryRestaurant:
			restaurants = append(restaurants, s)
		case CategoryCafe:
			cafes = append(cafes, s)
		default:
			attractions = append(attractions, s)
		}
	}

	var firstRestaurant, restRestaurants []Stop
	if len(restaurants) > 0 {
		firstRestaurant = restaurants[:1]
		restRestaurants = restaurants[1:]
	}

	out := make([]Stop, 0, len(stops))
	if dayOne {
		out = append(out, firstRestaurant...)
		out = append(out, cafes...)
		out = append(out, attractions...)
	} else {
		out = append(out, attractions...)
		out = append(out, firstRestaurant...)
		out = append(out, cafes...)
	}
	out = append(out, restRestaurants...)
	return out
}

func groupByDay(stops []Stop) map[int][]Stop {
	byDay := make(map[int][]Stop)
	for _, s := range stops {
		byDay[s.Day] = append(byDay[s.Day], s)
	}
	return byDay
}

func sortedDays(byDay map[int][]Stop) []int {
	days := make([]int, 0, len(byDay))
	for d := range byDay {
		days = append(days, d)
	}
	sort.Ints(days)
	return days
}
