package handlers

import (
	"context"
	"net/http"

	"Reelpick/models"
)

// ProfileStore is the read side of the per-user preference and movie cache.
type ProfileStore interface {
	GetPreference(ctx context.Context, userID int64) (*models.UserPreference, error)
	GetSavedMovies(ctx context.Context, userID int64) ([]models.SavedMovie, error)
}

type ProfileHandler struct {
	store ProfileStore

	// currentUser resolves the authenticated user; injectable for tests.
	currentUser func(*http.Request) (*models.User, error)
}

func NewProfileHandler(store ProfileStore) *ProfileHandler {
	return &ProfileHandler{store: store, currentUser: GetCurrentUser}
}

// GetPreference handles GET /api/preferences.
func (h *ProfileHandler) GetPreference(w http.ResponseWriter, r *http.Request) {
	user, err := h.currentUser(r)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}

	pref, err := h.store.GetPreference(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if pref == nil {
		respondError(w, http.StatusNotFound, "No saved preferences", "")
		return
	}
	respondJSON(w, http.StatusOK, pref)
}

// GetSavedMovies handles GET /api/movies.
func (h *ProfileHandler) GetSavedMovies(w http.ResponseWriter, r *http.Request) {
	user, err := h.currentUser(r)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}

	saved, err := h.store.GetSavedMovies(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, saved)
}
