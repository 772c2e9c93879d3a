package places_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tripkit-ai/tripkit/places"
)

type stubSearch struct {
	results []places.Candidate
	err     error
	queries []string
}

func (s *stubSearch) Search(_ context.Context, query string, _ int) ([]places.Candidate, error) {
	s.queries = append(s.queries, query)
	return s.results, s.err
}

type stubRegions struct {
	region string
	err    error
}

func (s stubRegions) Region(context.Context, string, string) (string, error) {
	return s.region, s.err
}

func busanCandidates() []places.Candidate {
	return []places.Candidate{
		{Name: "Songdo Beach", Category: "attraction", Location: "Busan Seo-gu"},
		{Name: "Momos Coffee", Category: "cafe", Location: "Busan Suyeong-gu"},
		{Name: "Gwangalli Beach", Category: "attraction", Location: "Busan Suyeong-gu"},
		{Name: "Seoul Tower", Category: "attraction", Location: "Seoul Yongsan-gu"},
	}
}

func TestFinder_FiltersByRegionAndCategory(t *testing.T) {
	search := &stubSearch{results: busanCandidates()}
	f := places.NewFinder(search, stubRegions{region: "Busan Suyeong-gu"}, nil)

	got, err := f.Find(context.Background(), places.Query{
		Text:        "ocean view cafe",
		Destination: "Busan",
		Category:    "cafe",
	})
	require.NoError(t, err)
	assert.Equal(t, "Momos Coffee", got.Name)

	// The search query is scoped to the resolved region.
	require.Len(t, search.queries, 1)
	assert.Contains(t, search.queries[0], "Busan Suyeong-gu")
}

func TestFinder_ExcludesBannedNames(t *testing.T) {
	search := &stubSearch{results: busanCandidates()}
	f := places.NewFinder(search, stubRegions{region: "Busan Suyeong-gu"}, nil)

	got, err := f.Find(context.Background(), places.Query{
		Text:        "beach",
		Destination: "Busan",
		Category:    "attraction",
		Exclude:     []string{"Gwangalli Beach"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Songdo Beach", got.Name)
}

func TestFinder_RelaxesCategoryThenRegion(t *testing.T) {
	t.Run("category dropped", func(t *testing.T) {
		search := &stubSearch{results: []places.Candidate{
			{Name: "Gwangalli Beach", Category: "attraction", Location: "Busan Suyeong-gu"},
		}}
		f := places.NewFinder(search, stubRegions{region: "Busan Suyeong-gu"}, nil)

		got, err := f.Find(context.Background(), places.Query{
			Text: "cafe", Destination: "Busan", Category: "cafe",
		})
		require.NoError(t, err)
		assert.Equal(t, "Gwangalli Beach", got.Name)
	})

	t.Run("raw top results when region never matches", func(t *testing.T) {
		search := &stubSearch{results: []places.Candidate{
			{Name: "Seoul Tower", Category: "attraction", Location: "Seoul Yongsan-gu"},
		}}
		f := places.NewFinder(search, stubRegions{region: "Busan Suyeong-gu"}, nil)

		got, err := f.Find(context.Background(), places.Query{
			Text: "tower", Destination: "Busan",
		})
		require.NoError(t, err)
		assert.Equal(t, "Seoul Tower", got.Name)
	})
}

func TestFinder_NotFoundSentinel(t *testing.T) {
	search := &stubSearch{results: []places.Candidate{
		{Name: "Gwangalli Beach", Category: "attraction", Location: "Busan Suyeong-gu"},
	}}
	f := places.NewFinder(search, stubRegions{region: "Busan Suyeong-gu"}, nil)

	_, err := f.Find(context.Background(), places.Query{
		Text:        "beach",
		Destination: "Busan",
		Exclude:     []string{"Gwangalli Beach"},
	})
	assert.ErrorIs(t, err, places.ErrNotFound)
}

func TestFinder_GeocodeFailureNormalizesDestination(t *testing.T) {
	search := &stubSearch{results: busanCandidates()}
	f := places.NewFinder(search, stubRegions{err: errors.New("geocoder down")}, nil)

	got, err := f.Find(context.Background(), places.Query{
		Text:        "beach",
		Destination: "Busan Metropolitan City",
		Category:    "attraction",
	})
	require.NoError(t, err)
	assert.Equal(t, "Songdo Beach", got.Name)
	assert.Contains(t, search.queries[0], "Busan beach")
}

type stubReviews struct {
	snippets []string
	err      error
	urls     []string
}

func (s *stubReviews) Snippets(_ context.Context, pageURL string) ([]string, error) {
	s.urls = append(s.urls, pageURL)
	return s.snippets, s.err
}

func TestFinder_AttachesReviewSnippets(t *testing.T) {
	search := &stubSearch{results: []places.Candidate{
		{
			Name:      "Momos Coffee",
			Category:  "cafe",
			Location:  "Busan Suyeong-gu",
			ReviewURL: "https://reviews.example.com/momos",
		},
	}}
	src := &stubReviews{snippets: []string{"Best hand drip in Busan.", "Gets crowded on weekends."}}
	f := places.NewFinder(search, stubRegions{region: "Busan Suyeong-gu"}, nil,
		places.WithReviewSource(src))

	got, err := f.Find(context.Background(), places.Query{
		Text: "coffee", Destination: "Busan", Category: "cafe",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Best hand drip in Busan.", "Gets crowded on weekends."}, got.Reviews)
	assert.Equal(t, []string{"https://reviews.example.com/momos"}, src.urls)
}

func TestFinder_ReviewFailureDoesNotFailFind(t *testing.T) {
	search := &stubSearch{results: []places.Candidate{
		{
			Name:      "Momos Coffee",
			Category:  "cafe",
			Location:  "Busan Suyeong-gu",
			ReviewURL: "https://reviews.example.com/momos",
		},
	}}
	src := &stubReviews{err: errors.New("fetch blocked")}
	f := places.NewFinder(search, stubRegions{region: "Busan Suyeong-gu"}, nil,
		places.WithReviewSource(src))

	got, err := f.Find(context.Background(), places.Query{
		Text: "coffee", Destination: "Busan",
	})
	require.NoError(t, err)
	assert.Equal(t, "Momos Coffee", got.Name)
	assert.Empty(t, got.Reviews)
}

func TestRegionTokens(t *testing.T) {
	assert.Equal(t, []string{"Busan", "Suyeong"}, places.RegionTokens("Busan Suyeong-gu"))
	assert.Equal(t, []string{"Busan"}, places.RegionTokens("Busan Metropolitan City"))
}

func TestNormalizeRegion(t *testing.T) {
	assert.Equal(t, "Busan", places.NormalizeRegion("Busan Metropolitan City"))
	assert.Equal(t, "Jeju", places.NormalizeRegion("Jeju-do"))
	assert.Equal(t, "Busan", places.NormalizeRegion("  Busan  "))
}
