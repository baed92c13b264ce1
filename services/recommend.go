package services

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"Reelpick/logger"
	"Reelpick/models"
)

const (
	StrategyOracle = "oracle"
	StrategySearch = "search"

	// Direct-search variant keeps at most this many results from the single
	// combined query.
	maxDirectResults = 50

	defaultResolveStagger = 200 * time.Millisecond
	defaultEnrichPace     = 100 * time.Millisecond
)

// RecommendRequest is the inbound recommendation request body.
type RecommendRequest struct {
	Genre             string `json:"genre" validate:"required"`
	Language          string `json:"language"`
	AdditionalDetails string `json:"additionalDetails"`
	HeroName          string `json:"heroName"`
	UserID            string `json:"userId"`
	SavePreferences   bool   `json:"savePreferences"`
}

// Recommender runs the candidate-generation and enrichment pipeline. Two
// strategies exist: "oracle" asks the generative model for titles and
// resolves them concurrently, "search" issues one combined TMDB query and
// enriches sequentially to stay under upstream rate limits.
type Recommender struct {
	catalog  CatalogClient
	oracle   Oracle
	enricher *Enricher
	strategy string

	// resolveStagger delays the i-th concurrent title lookup by i*stagger so
	// a 30-title batch does not burst TMDB all at once.
	resolveStagger time.Duration
	enrichPace     time.Duration
}

func NewRecommender(catalog CatalogClient, oracle Oracle, enricher *Enricher, strategy string) *Recommender {
	return &Recommender{
		catalog:        catalog,
		oracle:         oracle,
		enricher:       enricher,
		strategy:       strategy,
		resolveStagger: defaultResolveStagger,
		enrichPace:     defaultEnrichPace,
	}
}

// Recommend produces enriched movie records for the request. userID is zero
// for anonymous requests; when set, each enriched movie is also cached for
// that user best-effort.
func (r *Recommender) Recommend(ctx context.Context, req RecommendRequest, userID int64) ([]models.EnrichedMovie, error) {
	if r.strategy == StrategyOracle {
		return r.recommendFromOracle(ctx, req, userID)
	}
	return r.recommendFromSearch(ctx, req, userID)
}

func (r *Recommender) recommendFromOracle(ctx context.Context, req RecommendRequest, userID int64) ([]models.EnrichedMovie, error) {
	raw, err := r.oracle.Complete(ctx, buildTitlePrompt(req))
	if err != nil {
		return nil, err
	}

	titles, err := ExtractTitleArray(raw)
	if err != nil {
		return nil, err
	}

	resolved := r.resolveTitles(ctx, titles, req.Language)
	if len(resolved) == 0 {
		return nil, &NoResultsError{Query: req.Genre}
	}

	// All-complete concurrent enrichment: a slow or failed item never blocks
	// or fails its siblings.
	outcomes := make([]EnrichOutcome, len(resolved))
	var wg sync.WaitGroup
	for i, cm := range resolved {
		wg.Add(1)
		go func(i int, cm models.CatalogMovie) {
			defer wg.Done()
			outcomes[i] = r.enricher.Enrich(ctx, cm, userID, req.Language)
		}(i, cm)
	}
	wg.Wait()

	movies := make([]models.EnrichedMovie, 0, len(outcomes))
	for _, outcome := range outcomes {
		movies = append(movies, outcome.Movie)
	}
	return movies, nil
}

func (r *Recommender) recommendFromSearch(ctx context.Context, req RecommendRequest, userID int64) ([]models.EnrichedMovie, error) {
	var parts []string
	for _, p := range []string{req.HeroName, req.Genre, req.AdditionalDetails} {
		if s := strings.TrimSpace(p); s != "" {
			parts = append(parts, s)
		}
	}
	query := strings.Join(parts, " ")

	results, err := r.catalog.Search(ctx, query, req.Language)
	if err != nil {
		return nil, err
	}

	var candidates []models.CatalogMovie
	for _, cm := range results {
		if cm.Title == "" {
			continue
		}
		candidates = append(candidates, cm)
		if len(candidates) == maxDirectResults {
			break
		}
	}
	if len(candidates) == 0 {
		return nil, &NoResultsError{Query: query}
	}

	// Strictly sequential with a fixed pace: one enrichment in flight at a
	// time, trading latency for upstream rate-limit safety.
	movies := make([]models.EnrichedMovie, 0, len(candidates))
	for i, cm := range candidates {
		if i > 0 {
			time.Sleep(r.enrichPace)
		}
		outcome := r.enricher.Enrich(ctx, cm, userID, req.Language)
		movies = append(movies, outcome.Movie)
	}
	return movies, nil
}

// resolveTitles searches each title concurrently with a per-index launch
// stagger and joins on an all-complete barrier. Titles that yield no usable
// match are logged and skipped; input order is preserved for survivors.
func (r *Recommender) resolveTitles(ctx context.Context, titles []string, language string) []models.CatalogMovie {
	slots := make([]*models.CatalogMovie, len(titles))
	var wg sync.WaitGroup
	for i, title := range titles {
		wg.Add(1)
		go func(i int, title string) {
			defer wg.Done()
			time.Sleep(time.Duration(i) * r.resolveStagger)

			results, err := r.catalog.Search(ctx, title, language)
			if err != nil {
				logger.Warn().Err(err).Str("title", title).Msg("candidate search failed, skipping")
				return
			}

			match := pickMatch(title, results)
			if match == nil || match.Title == "" {
				logger.Debug().Str("title", title).Msg("no usable match for candidate, skipping")
				return
			}
			slots[i] = match
		}(i, title)
	}
	wg.Wait()

	var resolved []models.CatalogMovie
	for _, slot := range slots {
		if slot != nil {
			resolved = append(resolved, *slot)
		}
	}
	return resolved
}

// pickMatch prefers a case-insensitive exact title match, falling back to the
// first search result.
func pickMatch(title string, results []models.CatalogMovie) *models.CatalogMovie {
	for i := range results {
		if strings.EqualFold(results[i].Title, title) {
			return &results[i]
		}
	}
	if len(results) > 0 {
		return &results[0]
	}
	return nil
}

var bracketedArray = regexp.MustCompile(`(?s)\[.*?\]`)

// ExtractTitleArray parses the oracle's response into a list of titles. The
// model is told to return a bare JSON array but frequently wraps it in code
// fences or prose, so the parser strips fence markers and pattern-matches the
// first bracketed span before decoding.
func ExtractTitleArray(raw string) ([]string, error) {
	cleaned := strings.ReplaceAll(raw, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")

	span := bracketedArray.FindString(cleaned)
	if span == "" {
		return nil, &GenerationParseError{RawText: raw, Cause: fmt.Errorf("no JSON array found in response")}
	}

	var titles []string
	if err := json.Unmarshal([]byte(span), &titles); err != nil {
		return nil, &GenerationParseError{RawText: raw, Cause: err}
	}

	out := titles[:0]
	for _, t := range titles {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		return nil, &GenerationParseError{RawText: raw, Cause: fmt.Errorf("response array contained no titles")}
	}
	return out, nil
}

func buildTitlePrompt(req RecommendRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are a movie recommendation engine. Suggest movies in the %s genre", req.Genre)
	if req.Language != "" {
		fmt.Fprintf(&b, " with original language %q", req.Language)
	}
	b.WriteString(".")
	if details := strings.TrimSpace(req.AdditionalDetails); details != "" {
		fmt.Fprintf(&b, " The viewer adds: %s.", details)
	}
	b.WriteString(" Respond with ONLY a JSON array of 20 to 50 movie title strings. No prose, no code fences, no objects.")
	return b.String()
}
