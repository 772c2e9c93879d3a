// Package trip defines the itinerary data model and the deterministic
// mutation engine that applies tool results to it.
package trip

import (
	"strings"
)

// Category tags for stops. The set is open (search backends may supply
// arbitrary strings) but these three groups drive sequencing rules.
const (
	CategoryAttraction = "attraction"
	CategoryRestaurant = "restaurant"
	CategoryCafe       = "cafe"
)

// Stop is a single planned visit to a place on a specific day.
type Stop struct {
	Day         int      `json:"day"`
	Type        string   `json:"type"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Address     string   `json:"address,omitempty"`
	Start       string   `json:"start,omitempty"`
	End         string   `json:"end,omitempty"`
	Reviews     []string `json:"reviews,omitempty"`
}

// Group returns the category group used for adjacency and sequencing
// rules. Unknown categories fall into the attraction group.
func (s Stop) Group() string {
	return CategoryGroup(s.Type)
}

// CategoryGroup normalizes a free-form category tag into one of the
// three sequencing groups.
func CategoryGroup(category string) string {
	c := strings.ToLower(category)
	switch {
	case strings.Contains(c, "restaurant"), strings.Contains(c, "food"), strings.Contains(c, "dining"):
		return CategoryRestaurant
	case strings.Contains(c, "cafe"), strings.Contains(c, "coffee"), strings.Contains(c, "bakery"):
		return CategoryCafe
	default:
		return CategoryAttraction
	}
}

// TransitLeg is a synthetic travel segment between two consecutive stops
// on the same day. Legs only exist after scheduling has run; any change
// to the underlying stop order invalidates them.
type TransitLeg struct {
	From            string `json:"from"`
	To              string `json:"to"`
	Start           string `json:"start"`
	End             string `json:"end"`
	TransportMode   string `json:"transport_mode"`
	TransportDetail string `json:"transport_detail,omitempty"`
	DurationText    string `json:"duration_text"`
	DurationMin     int    `json:"duration_min"`
}

// Kind tags an itinerary entry.
type Kind string

const (
	KindStop    Kind = "stop"
	KindTransit Kind = "transit"
)

// Entry is one element of an itinerary: either a stop or a transit leg.
// Exactly one of Stop and Transit is set, matching Kind.
type Entry struct {
	Kind    Kind        `json:"kind"`
	Day     int         `json:"day"`
	Stop    *Stop       `json:"stop,omitempty"`
	Transit *TransitLeg `json:"transit,omitempty"`
}

// StopEntry wraps a stop as an itinerary entry.
func StopEntry(s Stop) Entry {
	return Entry{Kind: KindStop, Day: s.Day, Stop: &s}
}

// TransitEntry wraps a transit leg as an itinerary entry on the given day.
func TransitEntry(day int, leg TransitLeg) Entry {
	return Entry{Kind: KindTransit, Day: day, Transit: &leg}
}

// Itinerary is the ordered sequence of stops and transit legs. Insertion
// order is meaningful: it drives day grouping and within-day chronology
// before scheduling assigns explicit times.
type Itinerary []Entry

// FromStops builds an itinerary containing only the given stops, in
// order. Any previous transit legs are intentionally absent; they must
// be regenerated by scheduling.
func FromStops(stops []Stop) Itinerary {
	it := make(Itinerary, 0, len(stops))
	for _, s := range stops {
		it = append(it, StopEntry(s))
	}
	return it
}

// Stops returns the canonical stop sequence: all stop entries in order,
// transit legs filtered out.
func (it Itinerary) Stops() []Stop {
	stops := make([]Stop, 0, len(it))
	for _, e := range it {
		if e.Kind == KindStop && e.Stop != nil {
			stops = append(stops, *e.Stop)
		}
	}
	return stops
}

// StopsForDay returns the stops belonging to one day, in itinerary order.
func (it Itinerary) StopsForDay(day int) []Stop {
	var stops []Stop
	for _, s := range it.Stops() {
		if s.Day == day {
			stops = append(stops, s)
		}
	}
	return stops
}

// Days returns the sorted distinct day numbers present in the itinerary.
func (it Itinerary) Days() []int {
	seen := make(map[int]bool)
	var days []int
	for _, s := range it.Stops() {
		if !seen[s.Day] {
			seen[s.Day] = true
			days = append(days, s.Day)
		}
	}
	for i := 1; i < len(days); i++ {
		for j := i; j > 0 && days[j] < days[j-1]; j-- {
			days[j], days[j-1] = days[j-1], days[j]
		}
	}
	return days
}

// LastDay returns the highest day number present, or 0 for an empty
// itinerary.
func (it Itinerary) LastDay() int {
	days := it.Days()
	if len(days) == 0 {
		return 0
	}
	return days[len(days)-1]
}

// ContainsName reports whether a stop with exactly this name exists.
func (it Itinerary) ContainsName(name string) bool {
	for _, s := range it.Stops() {
		if s.Name == name {
			return true
		}
	}
	return false
}

// SameStops reports structural equality of the canonical stop sequences
// of two itineraries. Transit legs are ignored; they are derived data.
func (it Itinerary) SameStops(other Itinerary) bool {
	a, b := it.Stops(), other.Stops()
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Name != b[i].Name || a[i].Day != b[i].Day || a[i].Type != b[i].Type {
			return false
		}
	}
	return true
}
