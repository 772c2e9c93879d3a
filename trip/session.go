package trip

import (
	"time"

	"github.com/google/uuid"
)

// Stage is the dialog phase of a session.
type Stage string

const (
	// StagePlanning fills empty slots day by day under capacity rules.
	StagePlanning Stage = "planning"
	// StageEditing is free-form modification of a completed draft.
	// Editing persists until the session ends.
	StageEditing Stage = "editing"
)

// IsValid checks whether the stage is a known value.
func (s Stage) IsValid() bool {
	return s == StagePlanning || s == StageEditing
}

// PendingSlot remembers a just-vacated itinerary position so the next
// addition is inserted there instead of appended.
type PendingSlot struct {
	Index int `json:"index"`
	Day   int `json:"day"`
}

// Session is the per-conversation state: one instance per session,
// passed explicitly into every component call. The mutator is the sole
// writer of the stop list, anchor, and ban list; the dialog router is
// the sole writer of Stage.
type Session struct {
	ID          string    `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	Destination string    `json:"destination"`
	Dates       string    `json:"dates,omitempty"`
	TotalDays   int       `json:"total_days"`
	Preference  string    `json:"preference,omitempty"`

	// ActivityLevel is the target number of stops per day during
	// planning.
	ActivityLevel int `json:"activity_level"`

	Stage       Stage        `json:"stage"`
	Itinerary   Itinerary    `json:"itinerary"`
	Anchor      string       `json:"anchor,omitempty"`
	BanList     []string     `json:"ban_list,omitempty"`
	PendingSlot *PendingSlot `json:"pending_slot,omitempty"`

	// DownloadReady is flipped by the confirmation tool and consumed by
	// the surrounding UI to enable export.
	DownloadReady bool `json:"download_ready"`

	// Weather is the cached forecast briefing for the destination.
	Weather string `json:"weather,omitempty"`
}

// NewSession creates a session in the planning stage with an empty
// itinerary.
func NewSession(destination string, totalDays, activityLevel int) *Session {
	if totalDays < 1 {
		totalDays = 1
	}
	if activityLevel < 1 {
		activityLevel = 3
	}
	return &Session{
		ID:            uuid.New().String(),
		CreatedAt:     time.Now(),
		Destination:   destination,
		TotalDays:     totalDays,
		ActivityLevel: activityLevel,
		Stage:         StagePlanning,
		Itinerary:     Itinerary{},
	}
}

// Banned reports whether a place name is on the session's ban list.
func (s *Session) Banned(name string) bool {
	for _, b := range s.BanList {
		if b == name {
			return true
		}
	}
	return false
}

// Ban adds a place name to the permanent exclusion list.
func (s *Session) Ban(name string) {
	if name == "" || s.Banned(name) {
		return
	}
	s.BanList = append(s.BanList, name)
}

// ExcludedNames returns every name that future searches must not
// re-suggest: the ban list plus all current stop names.
func (s *Session) ExcludedNames() []string {
	names := make([]string, 0, len(s.BanList))
	names = append(names, s.BanList...)
	for _, st := range s.Itinerary.Stops() {
		names = append(names, st.Name)
	}
	return names
}

// SearchAnchor returns the current geographic reference point for
// proximity searches: the anchor stop if set, else the destination.
func (s *Session) SearchAnchor() string {
	if s.Anchor != "" {
		return s.Anchor
	}
	return s.Destination
}

// DayComplete reports whether a day has reached the target stop count.
func (s *Session) DayComplete(day int) bool {
	return len(s.Itinerary.StopsForDay(day)) >= s.ActivityLevel
}

// PlanningComplete reports whether every day of the trip meets its
// target stop count.
func (s *Session) PlanningComplete() bool {
	for day := 1; day <= s.TotalDays; day++ {
		if !s.DayComplete(day) {
			return false
		}
	}
	return true
}
