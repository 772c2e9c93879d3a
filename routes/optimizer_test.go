package routes_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tripkit-ai/tripkit/routes"
)

// matrixResolver prices pairs from a fixed duration table.
type matrixResolver struct {
	durations map[string]int
	calls     int
}

func (r *matrixResolver) Resolve(_ context.Context, origin, destination string) (routes.Route, error) {
	r.calls++
	min, ok := r.durations[origin+"->"+destination]
	if !ok {
		return routes.Route{}, fmt.Errorf("no route %s -> %s", origin, destination)
	}
	return routes.Route{
		Origin:      origin,
		Destination: destination,
		DurationMin: min,
	}, nil
}

func TestOptimizer_ExhaustiveSmallInput(t *testing.T) {
	resolver := &matrixResolver{durations: map[string]int{
		"A->B": 10, "B->A": 10,
		"A->C": 50, "C->A": 50,
		"B->C": 10, "C->B": 10,
	}}
	opt := routes.NewOptimizer(resolver, nil)

	order, err := opt.Optimize(context.Background(), []string{"C", "A", "B"}, "")
	require.NoError(t, err)
	// Cheapest open path visits the middle stop between the outer two.
	assert.True(t,
		equalSlices(order, []string{"A", "B", "C"}) || equalSlices(order, []string{"C", "B", "A"}),
		"got %v", order)
}

func TestOptimizer_FixedStart(t *testing.T) {
	resolver := &matrixResolver{durations: map[string]int{
		"Hotel->A": 5, "A->Hotel": 5,
		"Hotel->B": 60, "B->Hotel": 60,
		"A->B": 5, "B->A": 5,
	}}
	opt := routes.NewOptimizer(resolver, nil)

	order, err := opt.Optimize(context.Background(), []string{"B", "A"}, "Hotel")
	require.NoError(t, err)
	// Start is pinned and excluded from the returned order.
	assert.Equal(t, []string{"A", "B"}, order)
}

func TestOptimizer_UnpricedPairsDoNotFail(t *testing.T) {
	resolver := &matrixResolver{durations: map[string]int{
		"A->B": 10, "B->A": 10,
		// A<->C and B<->C unreachable.
	}}
	opt := routes.NewOptimizer(resolver, nil)

	order, err := opt.Optimize(context.Background(), []string{"A", "B", "C"}, "")
	require.NoError(t, err)
	assert.Len(t, order, 3)
}

func TestOptimizer_FewPlacesPassThrough(t *testing.T) {
	resolver := &matrixResolver{}
	opt := routes.NewOptimizer(resolver, nil)

	order, err := opt.Optimize(context.Background(), []string{"A"}, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, order)
	assert.Zero(t, resolver.calls)
}

func equalSlices(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
