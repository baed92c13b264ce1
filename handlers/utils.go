package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"Reelpick/models"
	"Reelpick/services"

	json "github.com/goccy/go-json"
)

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

func respondError(w http.ResponseWriter, status int, message, details string) {
	respondJSON(w, status, errorResponse{Error: message, Details: details})
}

// GetCurrentUser resolves the session user, or an error when the request is
// unauthenticated.
func GetCurrentUser(r *http.Request) (*models.User, error) {
	session, err := services.GetSession(r)
	if err != nil {
		return nil, fmt.Errorf("no session: %w", err)
	}

	raw, ok := session.Values["user_id"]
	if !ok {
		return nil, fmt.Errorf("not authenticated")
	}

	userID, err := parseUserID(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid user_id in session")
	}

	return services.GetUserByID(userID)
}

// parseUserID converts various session userID types to int64
func parseUserID(userID interface{}) (int64, error) {
	switch v := userID.(type) {
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	default:
		return 0, fmt.Errorf("unexpected user_id type %T", userID)
	}
}

// writeServiceError maps pipeline errors onto the HTTP error contract. Raw
// upstream text is only attached for parse failures.
func writeServiceError(w http.ResponseWriter, err error) {
	var (
		validationErr  *services.ValidationError
		configErr      *services.ConfigurationError
		parseErr       *services.GenerationParseError
		noResultsErr   *services.NoResultsError
		upstreamErr    *services.UpstreamError
		persistenceErr *services.PersistenceError
	)

	switch {
	case errors.As(err, &validationErr):
		respondError(w, http.StatusBadRequest, validationErr.Message, "")
	case errors.As(err, &configErr):
		respondError(w, http.StatusInternalServerError, "Server is not configured", configErr.Error())
	case errors.As(err, &parseErr):
		respondError(w, http.StatusBadGateway, "Failed to parse model response", parseErr.RawText)
	case errors.As(err, &noResultsErr):
		respondError(w, http.StatusNotFound, "No valid movies found", noResultsErr.Error())
	case errors.As(err, &upstreamErr):
		respondError(w, http.StatusBadGateway, "Upstream service failed", upstreamErr.Error())
	case errors.As(err, &persistenceErr):
		respondError(w, http.StatusInternalServerError, "Storage operation failed", persistenceErr.Error())
	default:
		respondError(w, http.StatusInternalServerError, "Internal server error", "")
	}
}
