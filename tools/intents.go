package tools

import "github.com/tripkit-ai/tripkit/trip"

// Intents are the typed signals one turn's tool calls decode into. The
// mutator and reconciler consume them; nothing here mutates a session.
type Intents struct {
	// Deletions are delete/replace targets, in request order.
	Deletions []trip.Deletion

	// Additions are place-search results, in request order. Failed
	// searches appear as not-found sentinels so slot bookkeeping stays
	// aligned with the request sequence.
	Additions []trip.PlaceResult

	// TimelineRequested is set when plan_timeline was called.
	TimelineRequested bool

	// OptimizeRequested is set when optimize_route was called.
	OptimizeRequested bool

	// ConfirmDownload is set when the model signalled export readiness.
	ConfirmDownload bool

	// Weather is the forecast briefing text, when get_weather ran.
	Weather string
}

// findPlaceArgs mirror the find_place JSON-schema.
type findPlaceArgs struct {
	Query       string `json:"query"`
	Destination string `json:"destination,omitempty"`
	Anchor      string `json:"anchor,omitempty"`
	Category    string `json:"category,omitempty"`
}

// deletePlaceArgs mirror the delete_place JSON-schema.
type deletePlaceArgs struct {
	Name string `json:"name"`
}

// replacePlaceArgs mirror the replace_place JSON-schema.
type replacePlaceArgs struct {
	OldName     string `json:"old_name"`
	NewQuery    string `json:"new_query"`
	Destination string `json:"destination,omitempty"`
}

// getWeatherArgs mirror the get_weather JSON-schema.
type getWeatherArgs struct {
	Destination string `json:"destination,omitempty"`
	Dates       string `json:"dates,omitempty"`
}
