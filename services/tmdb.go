package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"Reelpick/config"
	"Reelpick/logger"
	"Reelpick/models"
)

const (
	searchPageSize     = 20
	searchAttempts     = 3
	defaultSearchDelay = 500 * time.Millisecond
	tmdbTimeout        = 10 * time.Second
)

// CatalogClient is the port to the external movie catalog.
type CatalogClient interface {
	Search(ctx context.Context, query, language string) ([]models.CatalogMovie, error)
	Details(ctx context.Context, movieID int) (*MovieDetails, error)
	WatchProviders(ctx context.Context, movieID int) ([]models.WatchProvider, error)
}

// MovieDetails is the TMDB detail response with credits, videos and similar
// movies appended.
type MovieDetails struct {
	ID      int            `json:"id"`
	Runtime int            `json:"runtime"`
	Status  string         `json:"status"`
	Tagline string         `json:"tagline"`
	Genres  []models.Genre `json:"genres"`
	Credits models.Credits `json:"credits"`
	Videos  videoList      `json:"videos"`
	Similar similarList    `json:"similar"`
}

type videoList struct {
	Results []models.Video `json:"results"`
}

type similarList struct {
	Results []struct {
		ID int `json:"id"`
	} `json:"results"`
}

type tmdbSearchResponse struct {
	Results []models.CatalogMovie `json:"results"`
}

type tmdbProvidersResponse struct {
	Results map[string]struct {
		Flatrate []models.WatchProvider `json:"flatrate"`
		Rent     []models.WatchProvider `json:"rent"`
		Buy      []models.WatchProvider `json:"buy"`
	} `json:"results"`
}

// TMDBClient talks to the TMDB HTTP API. Search calls are retried with a
// fixed delay; detail and provider lookups are single-shot and callers
// degrade on failure.
type TMDBClient struct {
	apiKey     string
	baseURL    string
	region     string
	client     *http.Client
	retryDelay time.Duration
}

func NewTMDBClient(cfg *config.Config) *TMDBClient {
	return &TMDBClient{
		apiKey:     cfg.TMDBAPIKey,
		baseURL:    cfg.TMDBBaseURL,
		region:     cfg.WatchRegion,
		client:     &http.Client{Timeout: tmdbTimeout},
		retryDelay: defaultSearchDelay,
	}
}

// Search looks up movies by title. It retries up to searchAttempts times with
// a fixed delay and returns the final attempt's error unmodified.
func (c *TMDBClient) Search(ctx context.Context, query, language string) ([]models.CatalogMovie, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, &ValidationError{Field: "query", Message: "search query must not be empty"}
	}

	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("query", query)
	params.Set("page", "1")
	params.Set("include_adult", "false")
	if language != "" {
		params.Set("language", language)
	}
	searchURL := c.baseURL + "/search/movie?" + params.Encode()

	var lastErr error
	for attempt := 1; attempt <= searchAttempts; attempt++ {
		var resp tmdbSearchResponse
		err := c.get(ctx, searchURL, "tmdb search", &resp)
		if err == nil {
			results := resp.Results
			if len(results) > searchPageSize {
				results = results[:searchPageSize]
			}
			return results, nil
		}

		lastErr = err
		logger.Warn().Err(err).Int("attempt", attempt).Str("query", query).Msg("TMDB search failed")
		if attempt < searchAttempts {
			time.Sleep(c.retryDelay)
		}
	}
	return nil, lastErr
}

// Details fetches the full movie record with credits, videos and similar
// movies in one call. Not retried; enrichment degrades on failure.
func (c *TMDBClient) Details(ctx context.Context, movieID int) (*MovieDetails, error) {
	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("append_to_response", "credits,videos,similar")
	detailURL := fmt.Sprintf("%s/movie/%d?%s", c.baseURL, movieID, params.Encode())

	var details MovieDetails
	if err := c.get(ctx, detailURL, "tmdb details", &details); err != nil {
		return nil, err
	}
	return &details, nil
}

// WatchProviders returns the provider list for the configured region. A
// missing region entry is a normal empty result, not an error.
func (c *TMDBClient) WatchProviders(ctx context.Context, movieID int) ([]models.WatchProvider, error) {
	params := url.Values{}
	params.Set("api_key", c.apiKey)
	providersURL := fmt.Sprintf("%s/movie/%d/watch/providers?%s", c.baseURL, movieID, params.Encode())

	var resp tmdbProvidersResponse
	if err := c.get(ctx, providersURL, "tmdb watch providers", &resp); err != nil {
		return nil, err
	}

	entry, ok := resp.Results[c.region]
	if !ok {
		return nil, nil
	}

	seen := make(map[int]bool)
	var providers []models.WatchProvider
	for _, group := range [][]models.WatchProvider{entry.Flatrate, entry.Rent, entry.Buy} {
		for _, p := range group {
			if !seen[p.ProviderID] {
				seen[p.ProviderID] = true
				providers = append(providers, p)
			}
		}
	}
	return providers, nil
}

func (c *TMDBClient) get(ctx context.Context, reqURL, op string, dest interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return &UpstreamError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return &UpstreamError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &UpstreamError{Op: op, Err: fmt.Errorf("status %d", resp.StatusCode)}
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return &UpstreamError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
