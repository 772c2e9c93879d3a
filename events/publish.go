// Package events publishes session lifecycle events to NATS.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/tripkit-ai/tripkit/trip"
)

// Subjects, relative to the configured prefix.
const (
	SubjectTurnCompleted    = "turn.completed"
	SubjectItineraryUpdated = "itinerary.updated"
)

// Conn is the slice of the NATS connection the publisher needs.
// Satisfied by *nats.Conn.
type Conn interface {
	Publish(subject string, data []byte) error
}

// Publisher emits trip lifecycle events. A nil connection degrades to a
// no-op so event publication never becomes a hard dependency of the
// conversation loop.
type Publisher struct {
	conn   Conn
	prefix string
	logger *slog.Logger
}

// NewPublisher creates a publisher on the given connection. prefix
// defaults to "trip".
func NewPublisher(conn Conn, prefix string, logger *slog.Logger) *Publisher {
	if prefix == "" {
		prefix = "trip"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{conn: conn, prefix: prefix, logger: logger}
}

// TurnCompletedEvent is emitted after every processed turn.
type TurnCompletedEvent struct {
	SessionID     string    `json:"session_id"`
	Destination   string    `json:"destination"`
	Stage         string    `json:"stage"`
	Reply         string    `json:"reply"`
	StopCount     int       `json:"stop_count"`
	DownloadReady bool      `json:"download_ready"`
	Timestamp     time.Time `json:"timestamp"`
}

// ItineraryUpdatedEvent is emitted when a turn changed the stop list or
// rebuilt the timeline.
type ItineraryUpdatedEvent struct {
	SessionID   string         `json:"session_id"`
	Destination string         `json:"destination"`
	Days        []int          `json:"days"`
	Itinerary   trip.Itinerary `json:"itinerary"`
	Timestamp   time.Time      `json:"timestamp"`
}

// TurnCompleted publishes a turn summary. Publish failures are logged,
// never surfaced: events are best-effort.
func (p *Publisher) TurnCompleted(_ context.Context, sess *trip.Session, reply string) {
	p.publish(SubjectTurnCompleted, TurnCompletedEvent{
		SessionID:     sess.ID,
		Destination:   sess.Destination,
		Stage:         string(sess.Stage),
		Reply:         reply,
		StopCount:     len(sess.Itinerary.Stops()),
		DownloadReady: sess.DownloadReady,
		Timestamp:     time.Now().UTC(),
	})
}

// ItineraryUpdated publishes the full current itinerary.
func (p *Publisher) ItineraryUpdated(_ context.Context, sess *trip.Session) {
	p.publish(SubjectItineraryUpdated, ItineraryUpdatedEvent{
		SessionID:   sess.ID,
		Destination: sess.Destination,
		Days:        sess.Itinerary.Days(),
		Itinerary:   sess.Itinerary,
		Timestamp:   time.Now().UTC(),
	})
}

func (p *Publisher) publish(subject string, event any) {
	if p == nil || p.conn == nil {
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		p.logger.Warn("marshal event failed", "subject", subject, "error", err)
		return
	}

	full := fmt.Sprintf("%s.%s", p.prefix, subject)
	if err := p.conn.Publish(full, data); err != nil {
		p.logger.Warn("publish event failed", "subject", full, "error", err)
	}
}
