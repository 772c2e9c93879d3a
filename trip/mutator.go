package trip

import (
	"log/slog"

	"github.com/samber/lo"
)

// NoPlaceFound is the sentinel name a place search returns when no
// candidate survived filtering. Additions carrying it are ignored.
const NoPlaceFound = "no place found"

// Deletion is a declarative delete/replace intent decoded from a tool
// result. Target is the natural-language name to fuzzy-match against
// the current stop list.
type Deletion struct {
	Target string
}

// PlaceResult is a successful place-search tool result to be inserted
// into the itinerary.
type PlaceResult struct {
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Description string   `json:"description,omitempty"`
	Address     string   `json:"address,omitempty"`
	Reviews     []string `json:"reviews,omitempty"`
}

// Found reports whether the result carries a real place rather than the
// not-found sentinel.
func (p PlaceResult) Found() bool {
	return p.Name != "" && p.Name != NoPlaceFound
}

// Outcome summarizes what one mutation pass changed.
type Outcome struct {
	Added   []string
	Removed []string

	// ScheduleFull is set when an addition was rejected because the
	// final day is at capacity. The dialog layer injects it into the
	// next prompt context instead of raising.
	ScheduleFull bool
}

// Changed reports whether the stop list was modified.
func (o Outcome) Changed() bool {
	return len(o.Added) > 0 || len(o.Removed) > 0
}

// Mutator is the deletion/insertion/replacement engine. It is the sole
// writer of a session's stop list, anchor, ban list, and pending slot.
type Mutator struct {
	threshold float64
	logger    *slog.Logger
}

// MutatorOption configures a Mutator.
type MutatorOption func(*Mutator)

// WithMatchThreshold overrides the fuzzy-match acceptance threshold.
func WithMatchThreshold(t float64) MutatorOption {
	return func(m *Mutator) { m.threshold = t }
}

// WithMutatorLogger sets the logger.
func WithMutatorLogger(logger *slog.Logger) MutatorOption {
	return func(m *Mutator) { m.logger = logger }
}

// NewMutator creates a mutation engine with default threshold 0.5.
func NewMutator(opts ...MutatorOption) *Mutator {
	m := &Mutator{
		threshold: DefaultMatchThreshold,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Apply runs one full mutation pass in the load-bearing order:
// anchor pre-scan, deletions, then additions. Later steps depend on
// slot information computed by earlier ones.
func (m *Mutator) Apply(sess *Session, deletions []Deletion, additions []PlaceResult) Outcome {
	var out Outcome
	m.PrescanAnchor(sess, deletions)
	m.applyDeletions(sess, deletions, &out)
	m.applyAdditions(sess, additions, &out)
	return out
}

// PrescanAnchor inspects delete/replace targets before any mutation and
// moves the search anchor to the stop preceding the match, keeping
// follow-up "find a replacement near here" searches geographically
// coherent. When the match is the first stop the anchor falls back to
// the destination.
func (m *Mutator) PrescanAnchor(sess *Session, deletions []Deletion) {
	stops := sess.Itinerary.Stops()
	for _, d := range deletions {
		idx, ok := MatchStop(stops, d.Target, m.threshold)
		if !ok {
			continue
		}
		if idx > 0 {
			sess.Anchor = stops[idx-1].Name
		} else {
			sess.Anchor = sess.Destination
		}
		m.logger.Debug("anchor moved by pre-scan",
			"target", d.Target,
			"anchor", sess.Anchor)
	}
}

// applyDeletions re-matches every deletion against the current list,
// since indexes may have shifted since the pre-scan, and removes matches,
// recording the vacated slot and banning the name. Targets that no
// longer match above the threshold are silently dropped.
func (m *Mutator) applyDeletions(sess *Session, deletions []Deletion, out *Outcome) {
	for _, d := range deletions {
		stops := sess.Itinerary.Stops()
		idx, ok := MatchStop(stops, d.Target, m.threshold)
		if !ok {
			m.logger.Debug("deletion target not found, dropping intent", "target", d.Target)
			continue
		}
		removed := stops[idx]
		sess.PendingSlot = &PendingSlot{Index: idx, Day: removed.Day}
		sess.Ban(removed.Name)
		out.Removed = append(out.Removed, removed.Name)

		stops = append(stops[:idx], stops[idx+1:]...)
		sess.Itinerary = FromStops(stops)

		m.logger.Info("stop removed",
			"name", removed.Name,
			"day", removed.Day,
			"index", idx)
	}
}

// applyAdditions inserts each found place according to, in priority
// order: the pending empty slot, planning-stage capacity rules, or
// editing-stage anchor adjacency. Every successful insertion moves the
// anchor to the new stop.
func (m *Mutator) applyAdditions(sess *Session, additions []PlaceResult, out *Outcome) {
	for _, p := range additions {
		if !p.Found() {
			continue
		}
		if sess.Itinerary.ContainsName(p.Name) {
			m.logger.Debug("duplicate stop rejected", "name", p.Name)
			continue
		}
		if out.ScheduleFull {
			// A full final day suppresses the rest of the turn's
			// additions.
			break
		}

		switch {
		case sess.PendingSlot != nil:
			m.insertIntoSlot(sess, p, out)
		case sess.Stage == StagePlanning:
			m.insertPlanning(sess, p, out)
		default:
			m.insertEditing(sess, p, out)
		}
	}
}

// insertIntoSlot places the stop at the exact vacated index with the
// slot's day, preserving ordering continuity, then clears the slot.
func (m *Mutator) insertIntoSlot(sess *Session, p PlaceResult, out *Outcome) {
	slot := sess.PendingSlot
	stops := sess.Itinerary.Stops()

	idx := slot.Index
	if idx > len(stops) {
		idx = len(stops)
	}
	stop := newStop(p, slot.Day)
	stops = append(stops[:idx], append([]Stop{stop}, stops[idx:]...)...)

	sess.Itinerary = FromStops(stops)
	sess.PendingSlot = nil
	sess.Anchor = stop.Name
	out.Added = append(out.Added, stop.Name)

	m.logger.Info("stop inserted into vacated slot",
		"name", stop.Name,
		"day", stop.Day,
		"index", idx)
}

// DayCapacity returns the planning-stage stop cap for a day: 4 on day 1,
// 1 on the final day of a multi-day trip, 5 otherwise.
func DayCapacity(day, totalDays int) int {
	if day == totalDays && totalDays > 1 {
		return 1
	}
	if day == 1 {
		return 4
	}
	return 5
}

// insertPlanning applies day-capacity and category-adjacency rules. A
// full day rolls the addition over to the next day; a full final day
// rejects it and raises the schedule-full signal. When the immediately
// preceding stop of the target day shares the new stop's category group
// under a different name, it is replaced in place instead of extending a
// same-category run.
func (m *Mutator) insertPlanning(sess *Session, p PlaceResult, out *Outcome) {
	day := 1
	for ; day <= sess.TotalDays; day++ {
		if len(sess.Itinerary.StopsForDay(day)) < DayCapacity(day, sess.TotalDays) {
			break
		}
	}
	if day > sess.TotalDays {
		out.ScheduleFull = true
		m.logger.Info("addition rejected, schedule full", "name", p.Name)
		return
	}

	stop := newStop(p, day)
	stops := sess.Itinerary.Stops()

	if prevIdx := lastIndexForDay(stops, day); prevIdx >= 0 {
		prev := stops[prevIdx]
		if prev.Group() == stop.Group() && prev.Name != stop.Name {
			stops[prevIdx] = stop
			sess.Itinerary = FromStops(stops)
			sess.Anchor = stop.Name
			out.Added = append(out.Added, stop.Name)
			out.Removed = append(out.Removed, prev.Name)
			m.logger.Info("stop replaced same-category predecessor",
				"name", stop.Name,
				"replaced", prev.Name,
				"day", day)
			return
		}
		stops = insertAt(stops, prevIdx+1, stop)
	} else {
		stops = append(stops, stop)
	}

	sess.Itinerary = FromStops(stops)
	sess.Anchor = stop.Name
	out.Added = append(out.Added, stop.Name)

	m.logger.Info("stop added", "name", stop.Name, "day", day)
}

// insertEditing places the stop immediately after the anchor stop,
// inheriting its day; without a locatable anchor it appends to the last
// day of the itinerary.
func (m *Mutator) insertEditing(sess *Session, p PlaceResult, out *Outcome) {
	stops := sess.Itinerary.Stops()

	day := sess.Itinerary.LastDay()
	if day == 0 {
		day = 1
	}
	insertIdx := len(stops)

	if sess.Anchor != "" {
		if idx, ok := MatchStop(stops, sess.Anchor, m.threshold); ok {
			day = stops[idx].Day
			insertIdx = idx + 1
		}
	}

	stop := newStop(p, day)
	stops = insertAt(stops, insertIdx, stop)

	sess.Itinerary = FromStops(stops)
	sess.Anchor = stop.Name
	out.Added = append(out.Added, stop.Name)

	m.logger.Info("stop added in editing stage",
		"name", stop.Name,
		"day", day,
		"index", insertIdx)
}

func newStop(p PlaceResult, day int) Stop {
	return Stop{
		Day:         day,
		Type:        p.Type,
		Name:        p.Name,
		Description: p.Description,
		Address:     p.Address,
		Reviews:     p.Reviews,
	}
}

func insertAt(stops []Stop, idx int, s Stop) []Stop {
	if idx > len(stops) {
		idx = len(stops)
	}
	return append(stops[:idx], append([]Stop{s}, stops[idx:]...)...)
}

func lastIndexForDay(stops []Stop, day int) int {
	return lo.LastIndexOf(lo.Map(stops, func(s Stop, _ int) int { return s.Day }), day)
}
