// Package tools defines the function-call surface advertised to the
// model and executes tool calls against the place and weather services.
// Delete/replace tools are declarative intents: they never touch the
// itinerary themselves.
package tools

import "github.com/tripkit-ai/tripkit/llm"

// Tool names. These are the strings the model emits in tool calls.
const (
	ToolFindPlace       = "find_place"
	ToolPlanTimeline    = "plan_timeline"
	ToolOptimizeRoute   = "optimize_route"
	ToolGetWeather      = "get_weather"
	ToolDeletePlace     = "delete_place"
	ToolReplacePlace    = "replace_place"
	ToolConfirmDownload = "confirm_download"
)

// IsTieBreaker reports whether a tool is one of the long-running
// recompute tools the loop guard watches for.
func IsTieBreaker(name string) bool {
	return name == ToolPlanTimeline || name == ToolOptimizeRoute
}

// Definitions returns the tool definitions advertised to the model.
func Definitions() []llm.ToolDefinition {
	return []llm.ToolDefinition{
		{
			Name:        ToolFindPlace,
			Description: "Search for one best place matching a free-text query near the current anchor. Returns name, category, description and address, or a no-result marker.",
			Parameters: objectSchema(map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "What to look for, e.g. 'ocean view cafe'",
				},
				"destination": map[string]any{
					"type":        "string",
					"description": "Trip destination; defaults to the session destination",
				},
				"anchor": map[string]any{
					"type":        "string",
					"description": "Place to search near; defaults to the session anchor",
				},
				"category": map[string]any{
					"type":        "string",
					"description": "Restrict to a category group: attraction, restaurant or cafe",
				},
			}, "query"),
		},
		{
			Name:        ToolPlanTimeline,
			Description: "Compute start/end times and transit legs for the whole itinerary. Call after the stop list is settled.",
			Parameters:  objectSchema(nil),
		},
		{
			Name:        ToolOptimizeRoute,
			Description: "Reorder each day's stops to minimize total travel time, then recompute the timeline.",
			Parameters:  objectSchema(nil),
		},
		{
			Name:        ToolGetWeather,
			Description: "Fetch a weather briefing for the destination and travel dates.",
			Parameters: objectSchema(map[string]any{
				"destination": map[string]any{
					"type":        "string",
					"description": "City or region; defaults to the session destination",
				},
				"dates": map[string]any{
					"type":        "string",
					"description": "Travel dates, free form",
				},
			}),
		},
		{
			Name:        ToolDeletePlace,
			Description: "Remove a place from the itinerary by name. Fuzzy-matched against current stops.",
			Parameters: objectSchema(map[string]any{
				"name": map[string]any{
					"type":        "string",
					"description": "Name of the place to remove",
				},
			}, "name"),
		},
		{
			Name:        ToolReplacePlace,
			Description: "Replace a place with a new one found by query. Removes the old place and searches for a successor near it.",
			Parameters: objectSchema(map[string]any{
				"old_name": map[string]any{
					"type":        "string",
					"description": "Name of the place to replace",
				},
				"new_query": map[string]any{
					"type":        "string",
					"description": "Search query for the replacement",
				},
				"destination": map[string]any{
					"type":        "string",
					"description": "Trip destination; defaults to the session destination",
				},
			}, "old_name", "new_query"),
		},
		{
			Name:        ToolConfirmDownload,
			Description: "Signal that the itinerary is final and ready for export.",
			Parameters:  objectSchema(nil),
		},
	}
}

// objectSchema builds a JSON-schema object with the given properties and
// required field names.
func objectSchema(props map[string]any, required ...string) map[string]any {
	schema := map[string]any{"type": "object"}
	if len(props) > 0 {
		schema["properties"] = props
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}
