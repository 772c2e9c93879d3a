package schedule

import (
	"regexp"
	"strings"
)

// Itinerary text sometimes labels stops for display ("lunch: Noodle
// House", "Jagalchi Market - famous fish stalls"). Those decorations
// confuse the directions backend, so lookups use a cleaned name while
// the original stays on the entry for display.
var (
	leadingLabelRe   = regexp.MustCompile(`(?i)^(lunch|dinner|breakfast|brunch|morning|afternoon|evening|lodging|hotel|departure|arrival)\s*:\s*`)
	trailingClauseRe = regexp.MustCompile(`\s+[-–—]\s+.*$`)
	parentheticalRe  = regexp.MustCompile(`\s*\([^)]*\)\s*$`)
)

// CleanName strips leading time-of-day labels and trailing explanatory
// clauses from a place name before it is sent to the route resolver.
// Cleaning never returns an empty string; degenerate input comes back
// unchanged.
func CleanName(raw string) string {
	cleaned := leadingLabelRe.ReplaceAllString(raw, "")
	cleaned = trailingClauseRe.ReplaceAllString(cleaned, "")
	cleaned = parentheticalRe.ReplaceAllString(cleaned, "")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return raw
	}
	return cleaned
}
