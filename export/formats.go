// Package export renders a finished itinerary into downloadable
// documents.
package export

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/tripkit-ai/tripkit/trip"
)

// Format identifies an export format.
type Format string

const (
	// FormatPDF is the printable day-by-day plan.
	FormatPDF Format = "pdf"

	// FormatICS is an iCalendar file with one event per scheduled stop.
	FormatICS Format = "ics"

	// FormatJSON is the raw itinerary structure.
	FormatJSON Format = "json"
)

// FormatInfo provides metadata about an export format.
type FormatInfo struct {
	// Name is the format identifier.
	Name Format

	// MIMEType is the standard MIME type.
	MIMEType string

	// Extension is the file extension (with dot).
	Extension string

	// Description describes the format.
	Description string
}

// FormatRegistry contains metadata for all supported formats.
var FormatRegistry = map[Format]FormatInfo{
	FormatPDF: {
		Name:        FormatPDF,
		MIMEType:    "application/pdf",
		Extension:   ".pdf",
		Description: "Printable day-by-day travel plan",
	},
	FormatICS: {
		Name:        FormatICS,
		MIMEType:    "text/calendar",
		Extension:   ".ics",
		Description: "iCalendar events for scheduled stops",
	},
	FormatJSON: {
		Name:        FormatJSON,
		MIMEType:    "application/json",
		Extension:   ".json",
		Description: "Raw itinerary data",
	},
}

// GetFormatInfo returns metadata for a format.
func GetFormatInfo(format Format) (FormatInfo, bool) {
	info, ok := FormatRegistry[format]
	return info, ok
}

// ParseFormat validates a format string.
func ParseFormat(s string) (Format, error) {
	f := Format(s)
	if _, ok := FormatRegistry[f]; !ok {
		return "", fmt.Errorf("unsupported export format %q", s)
	}
	return f, nil
}

// Options carries the trip context the session itself does not hold.
type Options struct {
	// TripStart anchors day 1 for calendar export. The zero value
	// defaults to tomorrow, matching a plan made "for the trip ahead".
	TripStart time.Time

	// StartLocation is the departure point or lodging, shown on the PDF
	// title page when set.
	StartLocation string
}

// Render produces the itinerary in the requested format.
func Render(format Format, sess *trip.Session, opts Options) ([]byte, error) {
	switch format {
	case FormatPDF:
		return RenderPDF(sess, opts)
	case FormatICS:
		data, err := RenderICS(sess, opts)
		if err != nil {
			return nil, err
		}
		return []byte(data), nil
	case FormatJSON:
		return json.MarshalIndent(sess.Itinerary, "", "  ")
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}

// Filename builds a destination-derived filename for the format.
func Filename(format Format, sess *trip.Session) string {
	info, ok := FormatRegistry[format]
	if !ok {
		return "itinerary"
	}
	name := sess.Destination
	if name == "" {
		name = "itinerary"
	}
	return fmt.Sprintf("%s-trip%s", name, info.Extension)
}
