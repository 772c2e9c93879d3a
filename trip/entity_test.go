package trip_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tripkit-ai/tripkit/trip"
)

func TestCategoryGroup(t *testing.T) {
	tests := []struct {
		category string
		want     string
	}{
		{"restaurant", trip.CategoryRestaurant},
		{"Korean Food", trip.CategoryRestaurant},
		{"fine dining", trip.CategoryRestaurant},
		{"cafe", trip.CategoryCafe},
		{"Coffee Shop", trip.CategoryCafe},
		{"bakery", trip.CategoryCafe},
		{"attraction", trip.CategoryAttraction},
		{"theme park", trip.CategoryAttraction},
		{"", trip.CategoryAttraction},
		{"museum", trip.CategoryAttraction},
	}
	for _, tt := range tests {
		t.Run(tt.category, func(t *testing.T) {
			assert.Equal(t, tt.want, trip.CategoryGroup(tt.category))
		})
	}
}

func TestItinerary_StopsFiltersTransit(t *testing.T) {
	it := trip.Itinerary{
		trip.StopEntry(trip.Stop{Day: 1, Name: "A", Type: "attraction"}),
		trip.TransitEntry(1, trip.TransitLeg{From: "A", To: "B", DurationMin: 20}),
		trip.StopEntry(trip.Stop{Day: 1, Name: "B", Type: "cafe"}),
	}

	stops := it.Stops()
	assert.Len(t, stops, 2)
	assert.Equal(t, "A", stops[0].Name)
	assert.Equal(t, "B", stops[1].Name)
}

func TestItinerary_Days(t *testing.T) {
	it := trip.FromStops([]trip.Stop{
		{Day: 3, Name: "C"},
		{Day: 1, Name: "A"},
		{Day: 3, Name: "D"},
		{Day: 2, Name: "B"},
	})

	assert.Equal(t, []int{1, 2, 3}, it.Days())
	assert.Equal(t, 3, it.LastDay())
}

func TestItinerary_LastDayEmpty(t *testing.T) {
	assert.Equal(t, 0, trip.Itinerary{}.LastDay())
}

func TestItinerary_SameStops(t *testing.T) {
	a := trip.FromStops([]trip.Stop{{Day: 1, Name: "A", Type: "attraction"}})

	t.Run("transit legs ignored", func(t *testing.T) {
		b := trip.Itinerary{
			trip.StopEntry(trip.Stop{Day: 1, Name: "A", Type: "attraction", Start: "12:00"}),
			trip.TransitEntry(1, trip.TransitLeg{From: "A", To: "B"}),
		}
		assert.True(t, a.SameStops(b))
	})

	t.Run("renamed stop detected", func(t *testing.T) {
		b := trip.FromStops([]trip.Stop{{Day: 1, Name: "B", Type: "attraction"}})
		assert.False(t, a.SameStops(b))
	})

	t.Run("moved day detected", func(t *testing.T) {
		b := trip.FromStops([]trip.Stop{{Day: 2, Name: "A", Type: "attraction"}})
		assert.False(t, a.SameStops(b))
	})
}
