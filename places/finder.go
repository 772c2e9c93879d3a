// Package places selects one best place candidate for a free-text query
// scoped to an administrative region.
package places

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/samber/lo"
	"github.com/tripkit-ai/tripkit/trip"
)

// ErrNotFound reports that no candidate survived every relaxation step.
// Callers check for this sentinel instead of assuming non-empty results.
var ErrNotFound = errors.New("places: no eligible candidate")

// overFetch is how many candidates are requested per search so that
// downstream filtering has room to reject.
const overFetch = 20

// relaxedTopN is how many raw results survive when strict filtering
// rejects everything.
const relaxedTopN = 3

// RegionResolver turns an informal place reference into an
// administrative region string.
type RegionResolver interface {
	Region(ctx context.Context, query, destination string) (string, error)
}

// ReviewSource distills a review page URL into text snippets.
type ReviewSource interface {
	Snippets(ctx context.Context, pageURL string) ([]string, error)
}

// Query is one place-search request.
type Query struct {
	// Text is the free-text want ("ocean view cafe").
	Text string
	// Destination is the trip's overall destination.
	Destination string
	// Anchor, when set, scopes the search near a known place.
	Anchor string
	// Category restricts candidates to one category group.
	Category string
	// Exclude lists names that must never be suggested.
	Exclude []string
}

// Finder resolves queries to a single best candidate.
type Finder struct {
	search  SearchClient
	regions RegionResolver
	reviews ReviewSource
	logger  *slog.Logger
}

// FinderOption configures a Finder.
type FinderOption func(*Finder)

// WithReviewSource enriches chosen candidates with review snippets when
// the search backend provides a review page URL.
func WithReviewSource(src ReviewSource) FinderOption {
	return func(f *Finder) { f.reviews = src }
}

// NewFinder creates a finder over the given search and region clients.
func NewFinder(search SearchClient, regions RegionResolver, logger *slog.Logger, opts ...FinderOption) *Finder {
	if logger == nil {
		logger = slog.Default()
	}
	f := &Finder{search: search, regions: regions, logger: logger}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Find resolves the query region, over-fetches candidates, filters by
// region, category, and exclusions, relaxes on empty results, and
// returns the best surviving candidate. Returns ErrNotFound when even
// relaxation yields nothing.
func (f *Finder) Find(ctx context.Context, q Query) (trip.PlaceResult, error) {
	region := f.resolveRegion(ctx, q)
	tokens := RegionTokens(region)

	candidates, err := f.search.Search(ctx, region+" "+q.Text, overFetch)
	if err != nil {
		return trip.PlaceResult{}, err
	}

	eligible := lo.Filter(candidates, func(c Candidate, _ int) bool {
		return !excluded(c.Name, q.Exclude)
	})

	best := filterCandidates(eligible, tokens, q.Category)
	if len(best) == 0 && q.Category != "" {
		// First relaxation: drop the category constraint.
		best = filterCandidates(eligible, tokens, "")
	}
	if len(best) == 0 {
		// Last relaxation: raw top results, exclusions still honored.
		f.logger.Debug("strict region match failed, using raw top results",
			"query", q.Text,
			"region", region)
		best = eligible
		if len(best) > relaxedTopN {
			best = best[:relaxedTopN]
		}
	}
	if len(best) == 0 {
		return trip.PlaceResult{}, ErrNotFound
	}

	chosen := best[0]
	f.logger.Info("place selected",
		"query", q.Text,
		"region", region,
		"name", chosen.Name)

	return trip.PlaceResult{
		Name:        chosen.Name,
		Type:        chosen.Category,
		Description: chosen.Description,
		Address:     chosen.Location,
		Reviews:     f.reviewSnippets(ctx, chosen),
	}, nil
}

// reviewSnippets pulls review snippets for the chosen candidate. Review
// failures never fail the find.
func (f *Finder) reviewSnippets(ctx context.Context, c Candidate) []string {
	if f.reviews == nil || c.ReviewURL == "" {
		return nil
	}
	snippets, err := f.reviews.Snippets(ctx, c.ReviewURL)
	if err != nil {
		f.logger.Warn("review ingestion failed",
			"name", c.Name,
			"url", c.ReviewURL,
			"error", err)
		return nil
	}
	return snippets
}

// resolveRegion prefers the anchor, then the query plus destination,
// and degrades to text normalization of the destination when the
// geocoding collaborator is unavailable.
func (f *Finder) resolveRegion(ctx context.Context, q Query) string {
	ref := q.Anchor
	if ref == "" {
		ref = q.Text
	}

	region, err := f.regions.Region(ctx, ref, q.Destination)
	if err != nil {
		f.logger.Warn("region resolution failed, normalizing destination",
			"reference", ref,
			"error", err)
		return NormalizeRegion(q.Destination)
	}
	return region
}

// filterCandidates keeps candidates whose stored location matches the
// region tokens (all tokens, or at least the most specific one) and
// whose category matches the filter group when one is given.
func filterCandidates(candidates []Candidate, tokens []string, category string) []Candidate {
	var out []Candidate
	for _, c := range candidates {
		if !regionMatch(c.Location, tokens) {
			continue
		}
		if category != "" && trip.CategoryGroup(c.Category) != trip.CategoryGroup(category) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func regionMatch(location string, tokens []string) bool {
	if len(tokens) == 0 {
		return true
	}
	all := true
	for _, tok := range tokens {
		if !strings.Contains(location, tok) {
			all = false
			break
		}
	}
	if all {
		return true
	}
	// The last token is the most specific administrative level.
	return strings.Contains(location, tokens[len(tokens)-1])
}

func excluded(name string, exclude []string) bool {
	return lo.Contains(exclude, name)
}
