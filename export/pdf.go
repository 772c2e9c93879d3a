package export

import (
	"bytes"
	"fmt"

	"github.com/phpdave11/gofpdf"
	"github.com/tripkit-ai/tripkit/trip"
)

// RenderPDF renders the printable day-by-day plan: a title block, one
// section per day with stop and transit lines, and a ruled memo area
// after each day.
func RenderPDF(sess *trip.Session, opts Options) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 24)
	pdf.CellFormat(0, 20, tr(fmt.Sprintf("%s Travel Plan", sess.Destination)), "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 12)
	if sess.Dates != "" {
		pdf.CellFormat(0, 10, tr("Dates: "+sess.Dates), "", 1, "C", false, 0, "")
	}
	if opts.StartLocation != "" {
		pdf.SetFontSize(11)
		pdf.CellFormat(0, 8, tr("Departure / lodging: "+opts.StartLocation), "", 1, "C", false, 0, "")
	}
	if sess.Weather != "" {
		pdf.SetFontSize(10)
		pdf.MultiCell(0, 5, tr("Weather: "+sess.Weather), "", "C", false)
	}
	pdf.Ln(10)

	lastDay := sess.TotalDays
	if d := sess.Itinerary.LastDay(); d > lastDay {
		lastDay = d
	}

	for day := 1; day <= lastDay; day++ {
		if day > 1 {
			pdf.Ln(15)
		}

		pdf.SetFont("Arial", "B", 18)
		pdf.CellFormat(0, 15, fmt.Sprintf("Day %d", day), "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 11)

		entries := entriesForDay(sess.Itinerary, day)
		if len(entries) == 0 {
			pdf.CellFormat(0, 10, "  - nothing planned yet", "", 1, "L", false, 0, "")
			pdf.Ln(10)
			continue
		}

		for _, e := range entries {
			switch e.Kind {
			case trip.KindTransit:
				writeTransitLine(pdf, tr, e.Transit)
			case trip.KindStop:
				writeStopBlock(pdf, tr, e.Stop)
			}
		}

		pdf.Ln(10)
		pdf.Line(pdf.GetX(), pdf.GetY(), pdf.GetX()+190, pdf.GetY())
		pdf.Ln(5)
		pdf.SetFont("Arial", "", 14)
		pdf.CellFormat(0, 10, "Notes:", "", 1, "L", false, 0, "")
		pdf.Ln(20)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func entriesForDay(it trip.Itinerary, day int) []trip.Entry {
	var entries []trip.Entry
	for _, e := range it {
		if e.Day == day {
			entries = append(entries, e)
		}
	}
	return entries
}

// writeTransitLine prints a dimmed connector line between two stops.
func writeTransitLine(pdf *gofpdf.Fpdf, tr func(string) string, leg *trip.TransitLeg) {
	if leg == nil {
		return
	}
	pdf.SetTextColor(100, 100, 100)
	pdf.SetFontSize(10)

	mode := leg.TransportMode
	if leg.TransportDetail != "" {
		mode = leg.TransportDetail
	}
	line := fmt.Sprintf("      |  %s (%s) : %s", leg.Start, leg.DurationText, mode)
	pdf.CellFormat(0, 8, tr(line), "", 1, "L", false, 0, "")

	pdf.SetTextColor(0, 0, 0)
	pdf.SetFontSize(11)
}

// writeStopBlock prints the stop headline with its time range, then the
// indented description and review bullets.
func writeStopBlock(pdf *gofpdf.Fpdf, tr func(string) string, s *trip.Stop) {
	if s == nil {
		return
	}

	timeInfo := "[time TBD]"
	if s.Start != "" {
		timeInfo = fmt.Sprintf("[%s-%s]", s.Start, s.End)
	}

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 8, tr(fmt.Sprintf("  - %s %s (%s)", timeInfo, s.Name, s.Type)), "", 1, "L", false, 0, "")

	if s.Description != "" {
		pdf.SetFont("Arial", "", 10)
		pdf.SetX(20)
		pdf.MultiCell(0, 5, tr(s.Description), "", "L", false)
		pdf.Ln(2)
	}

	if len(s.Reviews) > 0 {
		pdf.SetFont("Arial", "", 9)
		for _, review := range s.Reviews {
			pdf.SetX(20)
			pdf.MultiCell(0, 4, tr("  * "+review), "", "L", false)
		}
		pdf.Ln(2)
	}

	pdf.SetFont("Arial", "", 11)
}
