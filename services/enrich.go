package services

import (
	"context"
	"time"

	"Reelpick/logger"
	"Reelpick/models"
)

// EnrichOutcome is the explicit result of enriching one catalog movie. A
// failed detail lookup produces a partial record, never a batch failure.
type EnrichOutcome struct {
	Movie   models.EnrichedMovie
	Partial bool
	Cause   error
}

// SavedMovieWriter is the port for the best-effort per-user movie cache.
type SavedMovieWriter interface {
	UpsertSavedMovie(ctx context.Context, userID int64, movie models.EnrichedMovie, language string) error
}

// Enricher turns resolved catalog movies into full records by fetching
// details and watch providers, degrading field by field on failure.
type Enricher struct {
	catalog CatalogClient
	saver   SavedMovieWriter
	region  string
}

func NewEnricher(catalog CatalogClient, saver SavedMovieWriter, region string) *Enricher {
	return &Enricher{catalog: catalog, saver: saver, region: region}
}

// Enrich builds the canonical record for one movie. When userID is non-zero
// the record is also written to the per-user cache on a detached goroutine;
// that write's failure is logged and never affects the returned record.
func (e *Enricher) Enrich(ctx context.Context, cm models.CatalogMovie, userID int64, language string) EnrichOutcome {
	movie := models.NewEnrichedMovie(cm)
	outcome := EnrichOutcome{}

	details, err := e.catalog.Details(ctx, cm.ID)
	if err != nil {
		logger.Warn().Err(err).Int("movie_id", cm.ID).Str("title", cm.Title).Msg("detail lookup failed, returning partial record")
		outcome.Partial = true
		outcome.Cause = err
	} else {
		mergeDetails(&movie, details)
	}

	providers, err := e.catalog.WatchProviders(ctx, cm.ID)
	if err == nil && len(providers) > 0 {
		movie.Providers = map[string][]models.WatchProvider{e.region: providers}
	}
	// Provider failures stay silent: providers remain nil.

	if userID != 0 && e.saver != nil {
		saved := movie
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := e.saver.UpsertSavedMovie(ctx, userID, saved, language); err != nil {
				logger.Warn().Err(err).Int64("user_id", userID).Int("movie_id", saved.ID).Msg("saved-movie upsert failed")
			}
		}()
	}

	outcome.Movie = movie
	return outcome
}

func mergeDetails(movie *models.EnrichedMovie, details *MovieDetails) {
	movie.Runtime = details.Runtime
	movie.Tagline = details.Tagline
	if details.Status != "" {
		movie.Status = details.Status
	}
	if len(details.Genres) > 0 {
		movie.Genres = details.Genres
	}
	if details.Credits.Cast != nil {
		movie.Credits.Cast = details.Credits.Cast
	}
	if details.Credits.Crew != nil {
		movie.Credits.Crew = details.Credits.Crew
	}
	for _, crew := range details.Credits.Crew {
		if crew.Job == "Director" {
			movie.Director = crew.Name
			break
		}
	}
	if details.Videos.Results != nil {
		movie.Videos = details.Videos.Results
	}
	for _, similar := range details.Similar.Results {
		movie.SimilarIDs = append(movie.SimilarIDs, similar.ID)
	}
}
