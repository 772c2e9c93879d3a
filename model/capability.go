// Package model provides capability-based model selection for dialog turns.
// Instead of hardcoding model names, callers specify capabilities (planner,
// editor, fast) and the registry resolves them to available models with
// fallback chains.
package model

// Capability represents a semantic capability for model selection.
// Instead of specifying "gpt-4o-mini", callers specify "editor" or "fast".
type Capability string

const (
	// CapabilityPlanner is for full-day planning turns with tool orchestration.
	CapabilityPlanner Capability = "planner"

	// CapabilityEditor is for itinerary edit turns after planning completes.
	CapabilityEditor Capability = "editor"

	// CapabilitySummary is for trip summaries and place descriptions.
	CapabilitySummary Capability = "summary"

	// CapabilityFast is for intent routing, confirmations, simple replies.
	CapabilityFast Capability = "fast"
)

// IsValid checks if a capability string is a known capability.
func (c Capability) IsValid() bool {
	switch c {
	case CapabilityPlanner, CapabilityEditor, CapabilitySummary, CapabilityFast:
		return true
	}
	return false
}

// String returns the string representation of the capability.
func (c Capability) String() string {
	return string(c)
}

// ParseCapability converts a string to a Capability, returning empty for invalid values.
func ParseCapability(s string) Capability {
	cap := Capability(s)
	if cap.IsValid() {
		return cap
	}
	return ""
}
