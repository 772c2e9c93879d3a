package llm

import "encoding/json"

// ToolDefinition describes a callable tool advertised to the model.
// Parameters is a JSON-schema object.
type ToolDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// ToolCall is a structured function-call request emitted by the model.
type ToolCall struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// ToolChoice values accepted in a Request.
const (
	ToolChoiceAuto = "auto"
	ToolChoiceNone = "none"
)
