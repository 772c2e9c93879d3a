package providers

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tripkit-ai/tripkit/llm"
)

func TestAnthropicProvider_BuildURL(t *testing.T) {
	p := &AnthropicProvider{}

	assert.Equal(t, "https://api.anthropic.com/v1/messages", p.BuildURL(""))
	assert.Equal(t, "http://proxy:8080/v1/messages", p.BuildURL("http://proxy:8080/"))
}

func TestAnthropicProvider_BuildRequestBody(t *testing.T) {
	p := &AnthropicProvider{}

	body, err := p.BuildRequestBody("claude-sonnet",
		[]llm.Message{
			{Role: "system", Content: "You plan trips."},
			{Role: "user", Content: "add a cafe to day 2"},
			{Role: "tool", Content: `{"name":"Momos Coffee"}`, ToolCallID: "call_1"},
		},
		nil, 0,
		[]llm.ToolDefinition{{
			Name:        "find_place",
			Description: "Search for one best place",
			Parameters:  map[string]any{"type": "object"},
		}}, "")
	require.NoError(t, err)

	var req map[string]any
	require.NoError(t, json.Unmarshal(body, &req))

	// System message moves to the dedicated field.
	assert.Equal(t, "You plan trips.", req["system"])
	assert.EqualValues(t, 4096, req["max_tokens"])

	msgs := req["messages"].([]any)
	require.Len(t, msgs, 2)
	// Tool results are folded into user turns.
	last := msgs[1].(map[string]any)
	assert.Equal(t, "user", last["role"])
	assert.Contains(t, last["content"], "Tool result:")

	tools := req["tools"].([]any)
	require.Len(t, tools, 1)
	assert.Equal(t, "find_place", tools[0].(map[string]any)["name"])
	assert.Contains(t, tools[0].(map[string]any), "input_schema")
}

func TestAnthropicProvider_ParseResponse_ToolUse(t *testing.T) {
	p := &AnthropicProvider{}

	body := []byte(`{
		"id": "msg_1",
		"type": "message",
		"role": "assistant",
		"model": "claude-sonnet",
		"content": [
			{"type": "text", "text": "Let me search."},
			{"type": "tool_use", "id": "tu_1", "name": "find_place", "input": {"query": "seafood restaurant"}}
		],
		"stop_reason": "tool_use",
		"usage": {"input_tokens": 20, "output_tokens": 10}
	}`)

	resp, err := p.ParseResponse(body, "claude-sonnet")
	require.NoError(t, err)
	assert.Equal(t, "Let me search.", resp.Content)
	require.True(t, resp.HasToolCalls())
	assert.Equal(t, "find_place", resp.ToolCalls[0].Name)
	assert.JSONEq(t, `{"query":"seafood restaurant"}`, string(resp.ToolCalls[0].Arguments))
	assert.Equal(t, 30, resp.Usage.TotalTokens)
}
