package services

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"Reelpick/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCatalog struct {
	searchFn    func(ctx context.Context, query, language string) ([]models.CatalogMovie, error)
	detailsFn   func(ctx context.Context, movieID int) (*MovieDetails, error)
	providersFn func(ctx context.Context, movieID int) ([]models.WatchProvider, error)

	searchCalls int32
}

func (f *fakeCatalog) Search(ctx context.Context, query, language string) ([]models.CatalogMovie, error) {
	atomic.AddInt32(&f.searchCalls, 1)
	if f.searchFn != nil {
		return f.searchFn(ctx, query, language)
	}
	return nil, nil
}

func (f *fakeCatalog) Details(ctx context.Context, movieID int) (*MovieDetails, error) {
	if f.detailsFn != nil {
		return f.detailsFn(ctx, movieID)
	}
	return &MovieDetails{ID: movieID}, nil
}

func (f *fakeCatalog) WatchProviders(ctx context.Context, movieID int) ([]models.WatchProvider, error) {
	if f.providersFn != nil {
		return f.providersFn(ctx, movieID)
	}
	return nil, nil
}

type fakeOracle struct {
	response string
	err      error
}

func (f *fakeOracle) Complete(ctx context.Context, prompt string) (string, error) {
	return f.response, f.err
}

func newTestRecommender(catalog CatalogClient, oracle Oracle, strategy string) *Recommender {
	return &Recommender{
		catalog:  catalog,
		oracle:   oracle,
		enricher: NewEnricher(catalog, nil, "US"),
		strategy: strategy,
		// No stagger or pacing in tests.
		resolveStagger: 0,
		enrichPace:     0,
	}
}

func TestExtractTitleArray_CodeFences(t *testing.T) {
	raw := "Here you go:\n```json\n[\"Inception\",\"Arrival\"]\n```"

	titles, err := ExtractTitleArray(raw)
	require.NoError(t, err)
	assert.Equal(t, []string{"Inception", "Arrival"}, titles)
}

func TestExtractTitleArray_BareArray(t *testing.T) {
	titles, err := ExtractTitleArray(`["The Matrix", "Blade Runner", "Dune"]`)
	require.NoError(t, err)
	assert.Equal(t, []string{"The Matrix", "Blade Runner", "Dune"}, titles)
}

func TestExtractTitleArray_NoArray(t *testing.T) {
	raw := "I'm sorry, I can't produce a list right now."

	_, err := ExtractTitleArray(raw)
	var parseErr *GenerationParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, raw, parseErr.RawText)
}

func TestExtractTitleArray_EmptyArray(t *testing.T) {
	_, err := ExtractTitleArray("[]")
	var parseErr *GenerationParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestExtractTitleArray_BlankTitlesDropped(t *testing.T) {
	titles, err := ExtractTitleArray(`["  ", "Heat", ""]`)
	require.NoError(t, err)
	assert.Equal(t, []string{"Heat"}, titles)
}

func TestPickMatch_CaseInsensitiveExact(t *testing.T) {
	results := []models.CatalogMovie{
		{ID: 1, Title: "The Matrix Reloaded"},
		{ID: 2, Title: "the matrix"},
	}

	match := pickMatch("The Matrix", results)
	require.NotNil(t, match)
	assert.Equal(t, 2, match.ID)
}

func TestPickMatch_FallsBackToFirst(t *testing.T) {
	results := []models.CatalogMovie{
		{ID: 7, Title: "Interstellar: Beyond"},
	}

	match := pickMatch("Interstellar", results)
	require.NotNil(t, match)
	assert.Equal(t, 7, match.ID)
}

func TestPickMatch_NoResults(t *testing.T) {
	assert.Nil(t, pickMatch("Anything", nil))
}

func TestRecommendOracle_EndToEnd(t *testing.T) {
	catalog := &fakeCatalog{
		searchFn: func(ctx context.Context, query, language string) ([]models.CatalogMovie, error) {
			return []models.CatalogMovie{{ID: 157336, Title: "Interstellar", Overview: "Space."}}, nil
		},
		detailsFn: func(ctx context.Context, movieID int) (*MovieDetails, error) {
			return &MovieDetails{
				ID:      movieID,
				Runtime: 169,
				Status:  "Released",
				Genres:  []models.Genre{{ID: 878, Name: "Science Fiction"}},
			}, nil
		},
	}
	oracle := &fakeOracle{response: `["Interstellar"]`}
	r := newTestRecommender(catalog, oracle, StrategyOracle)

	movies, err := r.Recommend(context.Background(), RecommendRequest{Genre: "Sci-Fi", Language: "en"}, 0)
	require.NoError(t, err)
	require.Len(t, movies, 1)
	assert.Equal(t, "Interstellar", movies[0].Title)
	assert.Equal(t, 169, movies[0].Runtime)
	assert.NotEmpty(t, movies[0].Genres)
}

func TestRecommendOracle_DropsUnresolvedTitles(t *testing.T) {
	catalog := &fakeCatalog{
		searchFn: func(ctx context.Context, query, language string) ([]models.CatalogMovie, error) {
			if query == "the matrix" {
				return []models.CatalogMovie{{ID: 603, Title: "The Matrix"}}, nil
			}
			return nil, nil
		},
	}
	oracle := &fakeOracle{response: `["the matrix", "Some Movie Nobody Knows"]`}
	r := newTestRecommender(catalog, oracle, StrategyOracle)

	movies, err := r.Recommend(context.Background(), RecommendRequest{Genre: "Action"}, 0)
	require.NoError(t, err)
	require.Len(t, movies, 1)
	assert.Equal(t, "The Matrix", movies[0].Title)
}

func TestRecommendOracle_AllDropped(t *testing.T) {
	catalog := &fakeCatalog{
		searchFn: func(ctx context.Context, query, language string) ([]models.CatalogMovie, error) {
			return nil, fmt.Errorf("boom")
		},
	}
	oracle := &fakeOracle{response: `["A", "B"]`}
	r := newTestRecommender(catalog, oracle, StrategyOracle)

	_, err := r.Recommend(context.Background(), RecommendRequest{Genre: "Drama"}, 0)
	var noResults *NoResultsError
	require.ErrorAs(t, err, &noResults)
}

func TestRecommendOracle_ParseErrorShortCircuits(t *testing.T) {
	catalog := &fakeCatalog{}
	oracle := &fakeOracle{response: "no array here"}
	r := newTestRecommender(catalog, oracle, StrategyOracle)

	_, err := r.Recommend(context.Background(), RecommendRequest{Genre: "Drama"}, 0)
	var parseErr *GenerationParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "no array here", parseErr.RawText)
	assert.Zero(t, atomic.LoadInt32(&catalog.searchCalls), "no catalog call should follow a parse failure")
}

func TestRecommendSearch_CombinedQuery(t *testing.T) {
	var gotQuery string
	catalog := &fakeCatalog{
		searchFn: func(ctx context.Context, query, language string) ([]models.CatalogMovie, error) {
			gotQuery = query
			return []models.CatalogMovie{
				{ID: 1, Title: "Edge of Tomorrow"},
				{ID: 2, Title: ""}, // dropped: no title
			}, nil
		},
	}
	r := newTestRecommender(catalog, nil, StrategySearch)

	movies, err := r.Recommend(context.Background(), RecommendRequest{
		Genre:             "Action",
		HeroName:          "Tom Cruise",
		AdditionalDetails: "time loops",
	}, 0)
	require.NoError(t, err)
	assert.Equal(t, "Tom Cruise Action time loops", gotQuery)
	require.Len(t, movies, 1)
	assert.Equal(t, "Edge of Tomorrow", movies[0].Title)
}

func TestRecommendSearch_SearchErrorPropagatesUnmodified(t *testing.T) {
	wantErr := &UpstreamError{Op: "tmdb search", Err: fmt.Errorf("status 500")}
	catalog := &fakeCatalog{
		searchFn: func(ctx context.Context, query, language string) ([]models.CatalogMovie, error) {
			return nil, wantErr
		},
	}
	r := newTestRecommender(catalog, nil, StrategySearch)

	_, err := r.Recommend(context.Background(), RecommendRequest{Genre: "Action"}, 0)
	assert.Same(t, wantErr, err)
}

func TestRecommendSearch_NoCandidates(t *testing.T) {
	catalog := &fakeCatalog{
		searchFn: func(ctx context.Context, query, language string) ([]models.CatalogMovie, error) {
			return []models.CatalogMovie{}, nil
		},
	}
	r := newTestRecommender(catalog, nil, StrategySearch)

	_, err := r.Recommend(context.Background(), RecommendRequest{Genre: "Western"}, 0)
	var noResults *NoResultsError
	require.ErrorAs(t, err, &noResults)
}

func TestRecommendSearch_CapsResults(t *testing.T) {
	var results []models.CatalogMovie
	for i := 1; i <= 60; i++ {
		results = append(results, models.CatalogMovie{ID: i, Title: fmt.Sprintf("Movie %d", i)})
	}
	catalog := &fakeCatalog{
		searchFn: func(ctx context.Context, query, language string) ([]models.CatalogMovie, error) {
			return results, nil
		},
	}
	r := newTestRecommender(catalog, nil, StrategySearch)

	movies, err := r.Recommend(context.Background(), RecommendRequest{Genre: "Action"}, 0)
	require.NoError(t, err)
	assert.Len(t, movies, maxDirectResults)
}

func TestBuildTitlePrompt(t *testing.T) {
	prompt := buildTitlePrompt(RecommendRequest{Genre: "Horror", Language: "en", AdditionalDetails: "slow burn"})
	assert.Contains(t, prompt, "Horror")
	assert.Contains(t, prompt, `"en"`)
	assert.Contains(t, prompt, "slow burn")
	assert.Contains(t, prompt, "JSON array")
}
