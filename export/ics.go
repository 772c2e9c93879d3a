package export

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/tripkit-ai/tripkit/trip"
)

// clockRe matches scheduler time strings: "HH:MM" with an optional
// midnight-crossing suffix like "00:30 (+1 day)".
var clockRe = regexp.MustCompile(`^(\d{2}):(\d{2})(?: \(\+(\d+) day\))?$`)

// RenderICS renders one VEVENT per scheduled stop. Stops without an
// assigned start time are skipped; a calendar entry without a time is
// noise.
func RenderICS(sess *trip.Session, opts Options) (string, error) {
	tripStart := opts.TripStart
	if tripStart.IsZero() {
		now := time.Now()
		tripStart = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local).AddDate(0, 0, 1)
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//tripkit//itinerary//EN")

	seq := 0
	for _, s := range sess.Itinerary.Stops() {
		if s.Start == "" {
			continue
		}

		start, err := stopTime(tripStart, s.Day, s.Start)
		if err != nil {
			continue
		}
		end, err := stopTime(tripStart, s.Day, s.End)
		if err != nil || !end.After(start) {
			end = start.Add(time.Hour)
		}

		seq++
		event := cal.AddEvent(fmt.Sprintf("%s-day%d-%d@tripkit", slug(s.Name), s.Day, seq))
		event.SetCreatedTime(time.Now())
		event.SetDtStampTime(time.Now())
		event.SetStartAt(start)
		event.SetEndAt(end)
		event.SetSummary(s.Name)
		if s.Address != "" {
			event.SetLocation(s.Address)
		}
		if s.Description != "" {
			event.SetDescription(s.Description)
		}
	}

	if seq == 0 {
		return "", fmt.Errorf("no scheduled stops to export")
	}
	return cal.Serialize(), nil
}

// stopTime resolves a scheduler clock string on a trip day to an
// absolute time. The "(+N day)" suffix shifts past midnight.
func stopTime(tripStart time.Time, day int, clock string) (time.Time, error) {
	m := clockRe.FindStringSubmatch(strings.TrimSpace(clock))
	if m == nil {
		return time.Time{}, fmt.Errorf("unparseable time %q", clock)
	}

	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	offset := 0
	if m[3] != "" {
		offset, _ = strconv.Atoi(m[3])
	}

	base := tripStart.AddDate(0, 0, day-1+offset)
	return time.Date(base.Year(), base.Month(), base.Day(), hour, minute, 0, 0, base.Location()), nil
}

// slug reduces a place name to a UID-safe token.
func slug(name string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		case r == ' ' || r == '-':
			sb.WriteRune('-')
		}
	}
	out := strings.Trim(sb.String(), "-")
	if out == "" {
		return "stop"
	}
	return out
}
