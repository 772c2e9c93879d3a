// Package dialog routes conversation turns to specialized behaviors and
// drives the per-turn tool loop against the itinerary engine.
package dialog

import (
	"strings"

	"github.com/tripkit-ai/tripkit/trip"
)

// Behavior is the specialized agent persona serving one turn.
type Behavior string

const (
	// BehaviorPlanner fills empty itinerary slots day by day.
	BehaviorPlanner Behavior = "planner"

	// BehaviorEditor applies free-form modifications to a draft.
	BehaviorEditor Behavior = "editor"
)

// Capability maps a behavior to the model capability that serves it.
func (b Behavior) Capability() string {
	if b == BehaviorEditor {
		return "editor"
	}
	return "planner"
}

// editKeywords mark a message as a modification request. Korean
// equivalents match the original user base.
var editKeywords = []string{
	"modify", "change", "add", "delete", "remove", "swap", "replace", "instead",
	"수정", "변경", "바꿔", "추가", "삭제", "제거", "빼", "대신",
}

// HasEditIntent reports whether a message asks to modify the itinerary.
func HasEditIntent(message string) bool {
	lower := strings.ToLower(message)
	for _, kw := range editKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// Route picks the behavior for a turn. Pure function of session state
// and message: the editing stage is sticky, and edit intent pulls a
// planning-stage turn to the editor.
func Route(sess *trip.Session, message string) Behavior {
	if sess.Stage == trip.StageEditing {
		return BehaviorEditor
	}
	if HasEditIntent(message) {
		return BehaviorEditor
	}
	return BehaviorPlanner
}
