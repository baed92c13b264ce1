package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"Reelpick/config"
	"Reelpick/logger"
	"Reelpick/models"
	"Reelpick/services"

	"github.com/go-playground/validator/v10"
	json "github.com/goccy/go-json"
)

// RecommendService is the port to the recommendation pipeline.
type RecommendService interface {
	Recommend(ctx context.Context, req services.RecommendRequest, userID int64) ([]models.EnrichedMovie, error)
}

// PreferenceWriter is the port for fire-and-forget preference saves.
type PreferenceWriter interface {
	UpsertPreference(ctx context.Context, userID int64, genre, language, details string) error
}

type RecommendHandler struct {
	cfg      *config.Config
	service  RecommendService
	prefs    PreferenceWriter
	validate *validator.Validate

	// currentUser resolves the authenticated user; injectable for tests.
	currentUser func(*http.Request) (*models.User, error)
}

func NewRecommendHandler(cfg *config.Config, service RecommendService, prefs PreferenceWriter) *RecommendHandler {
	return &RecommendHandler{
		cfg:         cfg,
		service:     service,
		prefs:       prefs,
		validate:    validator.New(),
		currentUser: GetCurrentUser,
	}
}

// Recommend handles POST /api/recommendations. Credential checks run first,
// then input validation; no external call is made before both pass.
func (h *RecommendHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	if err := h.checkConfig(); err != nil {
		writeServiceError(w, err)
		return
	}

	var req services.RecommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON body", "")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "Genre is required", "")
		return
	}

	userID := h.resolveUserID(r, req.UserID)

	movies, err := h.service.Recommend(r.Context(), req, userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if req.SavePreferences && userID != 0 {
		// Fire-and-forget: preference save failures never affect the response.
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := h.prefs.UpsertPreference(ctx, userID, req.Genre, req.Language, req.AdditionalDetails); err != nil {
				logger.Warn().Err(err).Int64("user_id", userID).Msg("preference upsert failed")
			}
		}()
	}

	respondJSON(w, http.StatusOK, movies)
}

func (h *RecommendHandler) checkConfig() error {
	if h.cfg.TMDBAPIKey == "" {
		return &services.ConfigurationError{Missing: "TMDB_API_KEY"}
	}
	if h.cfg.RecommendStrategy == services.StrategyOracle && h.cfg.OracleAPIKey == "" {
		return &services.ConfigurationError{Missing: "ORACLE_API_KEY"}
	}
	return nil
}

// resolveUserID prefers the session user and falls back to the request's
// userId field for clients that authenticate elsewhere. Zero means anonymous.
func (h *RecommendHandler) resolveUserID(r *http.Request, requested string) int64 {
	if user, err := h.currentUser(r); err == nil && user != nil {
		return user.ID
	}
	if requested != "" {
		if id, err := strconv.ParseInt(requested, 10, 64); err == nil {
			return id
		}
		logger.Debug().Str("user_id", requested).Msg("ignoring non-numeric userId in request")
	}
	return 0
}
