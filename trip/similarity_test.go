package trip_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tripkit-ai/tripkit/trip"
)

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{name: "identical", a: "Haeundae Beach", b: "Haeundae Beach", want: 1.0},
		{name: "case and punctuation ignored", a: "Haeundae Beach!", b: "haeundae beach", want: 1.0},
		{name: "substring is perfect match", a: "Gwangalli", b: "Gwangalli Beach", want: 1.0},
		{name: "substring other direction", a: "Gwangalli Beach", b: "Gwangalli", want: 1.0},
		{name: "empty input", a: "", b: "anything", want: 0},
		{name: "both empty", a: "", b: "", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, trip.Similarity(tt.a, tt.b), 0.001)
		})
	}
}

func TestSimilarity_Ratio(t *testing.T) {
	// Disjoint names score low, related names score above the default
	// threshold.
	low := trip.Similarity("Jagalchi Market", "BIFF Square")
	assert.Less(t, low, trip.DefaultMatchThreshold)

	high := trip.Similarity("Gamcheon Culture Village", "Gamcheon Cultural Vilage")
	assert.GreaterOrEqual(t, high, trip.DefaultMatchThreshold)
}

func TestMatchStop(t *testing.T) {
	stops := []trip.Stop{
		{Day: 1, Name: "Jagalchi Market", Type: "attraction"},
		{Day: 1, Name: "Haeundae Beach", Type: "attraction"},
		{Day: 2, Name: "Gamcheon Culture Village", Type: "attraction"},
	}

	t.Run("best match wins", func(t *testing.T) {
		idx, ok := trip.MatchStop(stops, "haeundae", trip.DefaultMatchThreshold)
		require.True(t, ok)
		assert.Equal(t, 1, idx)
	})

	t.Run("below threshold rejected", func(t *testing.T) {
		_, ok := trip.MatchStop(stops, "Seomyeon Underground Mall", trip.DefaultMatchThreshold)
		assert.False(t, ok)
	})

	t.Run("empty list", func(t *testing.T) {
		_, ok := trip.MatchStop(nil, "anything", trip.DefaultMatchThreshold)
		assert.False(t, ok)
	})
}
