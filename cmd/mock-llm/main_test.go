package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func writeFixture(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
}

func postChat(t *testing.T, srv *httptest.Server, model string) chatResponse {
	t.Helper()
	body, _ := json.Marshal(map[string]any{
		"model":    model,
		"messages": []map[string]string{{"role": "user", "content": "plan a trip"}},
	})
	resp, err := http.Post(srv.URL+"/v1/chat/completions", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var cr chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return cr
}

func newTestServer(t *testing.T, dir string) *httptest.Server {
	t.Helper()
	fixtures, err := loadFixtures(dir)
	if err != nil {
		t.Fatalf("load fixtures: %v", err)
	}
	s := newServer(fixtures)

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/chat/completions", s.handleChatCompletions)
	mux.HandleFunc("/stats", s.handleStats)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestTextFixture(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "mock-planner.json", `{"content": "How about Busan?"}`)

	srv := newTestServer(t, dir)
	cr := postChat(t, srv, "mock-planner")

	if got := cr.Choices[0].Message.Content; got != "How about Busan?" {
		t.Errorf("content = %q", got)
	}
	if got := cr.Choices[0].FinishReason; got != "stop" {
		t.Errorf("finish_reason = %q", got)
	}
}

func TestToolCallFixture(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "mock-planner.json",
		`{"tool_calls": [{"name": "find_place", "arguments": {"query": "famous beach"}}]}`)

	srv := newTestServer(t, dir)
	cr := postChat(t, srv, "mock-planner")

	msg := cr.Choices[0].Message
	if len(msg.ToolCalls) != 1 {
		t.Fatalf("expected 1 tool call, got %d", len(msg.ToolCalls))
	}
	if msg.ToolCalls[0].Function.Name != "find_place" {
		t.Errorf("tool = %q", msg.ToolCalls[0].Function.Name)
	}
	if msg.ToolCalls[0].Function.Arguments != `{"query": "famous beach"}` {
		t.Errorf("arguments = %q", msg.ToolCalls[0].Function.Arguments)
	}
	if cr.Choices[0].FinishReason != "tool_calls" {
		t.Errorf("finish_reason = %q", cr.Choices[0].FinishReason)
	}
}

func TestSequentialFixtures(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "mock-planner.1.json",
		`{"tool_calls": [{"name": "find_place", "arguments": {"query": "beach"}}]}`)
	writeFixture(t, dir, "mock-planner.2.json",
		`{"tool_calls": [{"name": "plan_timeline", "arguments": {}}]}`)
	writeFixture(t, dir, "mock-planner.json", `{"content": "Day 1 is set."}`)

	srv := newTestServer(t, dir)

	first := postChat(t, srv, "mock-planner")
	if first.Choices[0].Message.ToolCalls[0].Function.Name != "find_place" {
		t.Errorf("call 1 tool = %q", first.Choices[0].Message.ToolCalls[0].Function.Name)
	}

	second := postChat(t, srv, "mock-planner")
	if second.Choices[0].Message.ToolCalls[0].Function.Name != "plan_timeline" {
		t.Errorf("call 2 tool = %q", second.Choices[0].Message.ToolCalls[0].Function.Name)
	}

	// Base fixture repeats after the numbered sequence.
	for range 2 {
		final := postChat(t, srv, "mock-planner")
		if final.Choices[0].Message.Content != "Day 1 is set." {
			t.Errorf("fallback content = %q", final.Choices[0].Message.Content)
		}
	}
}

func TestUnknownModel(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "mock-planner.json", `{"content": "hi"}`)

	srv := newTestServer(t, dir)
	body, _ := json.Marshal(map[string]any{"model": "unknown"})
	resp, err := http.Post(srv.URL+"/v1/chat/completions", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestStats(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "mock-planner.json", `{"content": "hi"}`)

	srv := newTestServer(t, dir)
	postChat(t, srv, "mock-planner")
	postChat(t, srv, "mock-planner")

	resp, err := http.Get(srv.URL + "/stats")
	if err != nil {
		t.Fatalf("get stats: %v", err)
	}
	defer resp.Body.Close()

	var stats struct {
		TotalCalls   int64            `json:"total_calls"`
		CallsByModel map[string]int64 `json:"calls_by_model"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if stats.TotalCalls != 2 {
		t.Errorf("total_calls = %d", stats.TotalCalls)
	}
	if stats.CallsByModel["mock-planner"] != 2 {
		t.Errorf("calls_by_model = %v", stats.CallsByModel)
	}
}
