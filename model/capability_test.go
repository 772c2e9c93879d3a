package model

import "testing"

func TestCapabilityIsValid(t *testing.T) {
	tests := []struct {
		cap      Capability
		expected bool
	}{
		{CapabilityPlanner, true},
		{CapabilityEditor, true},
		{CapabilitySummary, true},
		{CapabilityFast, true},
		{Capability("invalid"), false},
		{Capability(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.cap), func(t *testing.T) {
			got := tt.cap.IsValid()
			if got != tt.expected {
				t.Errorf("Capability(%q).IsValid() = %v, want %v", tt.cap, got, tt.expected)
			}
		})
	}
}

func TestParseCapability(t *testing.T) {
	tests := []struct {
		input    string
		expected Capability
	}{
		{"planner", CapabilityPlanner},
		{"editor", CapabilityEditor},
		{"summary", CapabilitySummary},
		{"fast", CapabilityFast},
		{"invalid", Capability("")},
		{"", Capability("")},
		{"PLANNER", Capability("")}, // Case-sensitive
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := ParseCapability(tt.input)
			if got != tt.expected {
				t.Errorf("ParseCapability(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestCapabilityString(t *testing.T) {
	if got := CapabilityEditor.String(); got != "editor" {
		t.Errorf("String() = %q, want %q", got, "editor")
	}
}
