package routes

import (
	"context"
	"fmt"
	"log/slog"
	"math"
)

// exhaustiveLimit is the largest free-stop count solved by full
// permutation search; larger inputs switch to nearest-neighbor greedy.
const exhaustiveLimit = 8

// unreachableCost stands in for pairs the resolver could not price.
const unreachableCost = 99999

// Optimizer reorders a list of places to minimize total travel time.
type Optimizer struct {
	resolver Resolver
	logger   *slog.Logger
}

// NewOptimizer creates an optimizer over the given resolver.
func NewOptimizer(resolver Resolver, logger *slog.Logger) *Optimizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Optimizer{resolver: resolver, logger: logger}
}

// Optimize returns the places in minimal-travel-time visiting order.
// When start is non-empty it is pinned as the first position and the
// returned order excludes it. Fewer than two places are returned as-is.
func (o *Optimizer) Optimize(ctx context.Context, places []string, start string) ([]string, error) {
	all := places
	startFixed := start != ""
	if startFixed {
		all = append([]string{start}, places...)
	}
	if len(all) < 2 {
		return places, nil
	}

	matrix, err := o.durationMatrix(ctx, all)
	if err != nil {
		return nil, err
	}

	order, cost := solve(matrix, startFixed)
	o.logger.Debug("route order optimized",
		"places", len(all),
		"total_min", cost)

	out := make([]string, 0, len(places))
	for _, idx := range order {
		if startFixed && idx == 0 {
			continue
		}
		out = append(out, all[idx])
	}
	return out, nil
}

// durationMatrix prices every ordered pair via the resolver. Failed
// pairs get a prohibitive cost instead of failing the optimization.
func (o *Optimizer) durationMatrix(ctx context.Context, places []string) ([][]int, error) {
	n := len(places)
	matrix := make([][]int, n)
	for i := range matrix {
		matrix[i] = make([]int, n)
		for j := range matrix[i] {
			if i == j {
				continue
			}
			route, err := o.resolver.Resolve(ctx, places[i], places[j])
			if err != nil {
				if ctx.Err() != nil {
					return nil, fmt.Errorf("duration matrix: %w", ctx.Err())
				}
				matrix[i][j] = unreachableCost
				continue
			}
			matrix[i][j] = route.DurationMin
		}
	}
	return matrix, nil
}

// solve picks exhaustive permutation search for small inputs and
// nearest-neighbor greedy from position 0 for larger ones.
func solve(matrix [][]int, startFixed bool) ([]int, int) {
	n := len(matrix)

	free := make([]int, 0, n)
	first := 0
	if startFixed {
		first = 1
	}
	for i := first; i < n; i++ {
		free = append(free, i)
	}

	if len(free) > exhaustiveLimit {
		return greedy(matrix)
	}

	bestCost := math.MaxInt
	var best []int
	permute(free, 0, func(p []int) {
		order := p
		if startFixed {
			order = append([]int{0}, p...)
		}
		cost := pathCost(matrix, order)
		if cost < bestCost {
			bestCost = cost
			best = append([]int(nil), order...)
		}
	})
	return best, bestCost
}

// greedy builds a tour from position 0 by always visiting the nearest
// unvisited place next.
func greedy(matrix [][]int) ([]int, int) {
	n := len(matrix)
	visited := make([]bool, n)
	path := []int{0}
	visited[0] = true
	cost := 0
	current := 0

	for len(path) < n {
		next, nextCost := -1, math.MaxInt
		for i := 0; i < n; i++ {
			if !visited[i] && matrix[current][i] < nextCost {
				next, nextCost = i, matrix[current][i]
			}
		}
		visited[next] = true
		path = append(path, next)
		cost += nextCost
		current = next
	}
	return path, cost
}

func pathCost(matrix [][]int, order []int) int {
	cost := 0
	for i := 0; i < len(order)-1; i++ {
		cost += matrix[order[i]][order[i+1]]
	}
	return cost
}

// permute enumerates permutations of items in place, invoking fn for
// each arrangement.
func permute(items []int, k int, fn func([]int)) {
	if k == len(items) {
		fn(items)
		return
	}
	for i := k; i < len(items); i++ {
		items[k], items[i] = items[i], items[k]
		permute(items, k+1, fn)
		items[k], items[i] = items[i], items[k]
	}
}
