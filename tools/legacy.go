package tools

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/tripkit-ai/tripkit/llm"
	"github.com/tripkit-ai/tripkit/trip"
)

// Older prompt revisions had the model embed signal tags in its prose
// instead of calling tools. These decoders keep those transcripts
// working, strictly at the adapter boundary: nothing below the dialog
// layer ever sees a tag.

var (
	stateUpdateRe    = regexp.MustCompile(`\[STATE_UPDATE:\s*show_pdf_button\s*=\s*True\]`)
	finalItineraryRe = regexp.MustCompile(`(?s)\[FINAL_ITINERARY_JSON\](.*?)\[/FINAL_ITINERARY_JSON\]`)
)

// LegacySignals are the structured signals recovered from prose tags.
type LegacySignals struct {
	// ConfirmDownload mirrors the confirm_download tool.
	ConfirmDownload bool

	// Itinerary is the decoded final itinerary, when the response
	// carried one. Empty otherwise.
	Itinerary trip.Itinerary
}

// legacyRecord is one element of the flat itinerary interchange format:
// "move" records are transit legs, everything else is a stop.
type legacyRecord struct {
	Type        string `json:"type"`
	Day         int    `json:"day"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Start       string `json:"start"`
	End         string `json:"end"`
	From        string `json:"from"`
	To          string `json:"to"`
	DurationMin int    `json:"duration_min"`
	Mode        string `json:"transport_mode"`
	Detail      string `json:"transport_detail"`
}

// DecodeLegacy scans a model response for legacy tags. Returns the
// recovered signals and the response text with all tags stripped, ready
// for display. Malformed embedded JSON is dropped silently; the prose
// around it survives.
func DecodeLegacy(content string) (LegacySignals, string) {
	var signals LegacySignals

	if stateUpdateRe.MatchString(content) {
		signals.ConfirmDownload = true
		content = stateUpdateRe.ReplaceAllString(content, "")
	}

	if m := finalItineraryRe.FindStringSubmatch(content); m != nil {
		signals.Itinerary = decodeLegacyItinerary(m[1])
		content = finalItineraryRe.ReplaceAllString(content, "")
	}

	return signals, strings.TrimSpace(content)
}

// decodeLegacyItinerary parses the flat record list embedded in a
// FINAL_ITINERARY_JSON block.
func decodeLegacyItinerary(block string) trip.Itinerary {
	raw := llm.ExtractJSONArray(block)
	if raw == "" {
		return nil
	}

	var records []legacyRecord
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return nil
	}

	day := 1
	var it trip.Itinerary
	for _, rec := range records {
		if rec.Day > 0 {
			day = rec.Day
		}

		if rec.Type == "move" {
			it = append(it, trip.TransitEntry(day, trip.TransitLeg{
				From:            rec.From,
				To:              rec.To,
				Start:           rec.Start,
				End:             rec.End,
				TransportMode:   rec.Mode,
				TransportDetail: rec.Detail,
				DurationMin:     rec.DurationMin,
			}))
			continue
		}

		if rec.Name == "" {
			continue
		}

		category := rec.Category
		if category == "" && rec.Type != "activity" {
			category = rec.Type
		}
		it = append(it, trip.StopEntry(trip.Stop{
			Day:         day,
			Type:        category,
			Name:        rec.Name,
			Description: rec.Description,
			Start:       rec.Start,
			End:         rec.End,
		}))
	}
	return it
}
