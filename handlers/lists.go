package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"Reelpick/models"
	"Reelpick/services"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"
)

// ListStore is the port to movie-list persistence. Unlike the recommendation
// path's cache writes, every operation here is synchronous and errors are
// surfaced to the caller.
type ListStore interface {
	CreateList(ctx context.Context, userID int64, name string, seed *models.EnrichedMovie) (*models.MovieList, error)
	GetLists(ctx context.Context, userID int64) ([]models.MovieList, error)
	GetList(ctx context.Context, userID int64, listID string) (*models.MovieList, error)
	AddMovieToList(ctx context.Context, userID int64, listID string, movie models.EnrichedMovie) (bool, error)
	RemoveMovieFromList(ctx context.Context, userID int64, listID string, movieID int) error
	RenameList(ctx context.Context, userID int64, listID, name string) error
	DeleteList(ctx context.Context, userID int64, listID string) error
}

type ListsHandler struct {
	store ListStore

	// currentUser resolves the authenticated user; injectable for tests.
	currentUser func(*http.Request) (*models.User, error)
}

func NewListsHandler(store ListStore) *ListsHandler {
	return &ListsHandler{store: store, currentUser: GetCurrentUser}
}

type createListRequest struct {
	Name  string                `json:"name"`
	Movie *models.EnrichedMovie `json:"movie,omitempty"`
}

type renameListRequest struct {
	Name string `json:"name"`
}

// CreateList handles POST /api/lists.
func (h *ListsHandler) CreateList(w http.ResponseWriter, r *http.Request) {
	user, err := h.currentUser(r)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}

	var req createListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON body", "")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		respondError(w, http.StatusBadRequest, "List name is required", "")
		return
	}

	list, err := h.store.CreateList(r.Context(), user.ID, strings.TrimSpace(req.Name), req.Movie)
	if err != nil {
		writeListError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, list)
}

// GetLists handles GET /api/lists.
func (h *ListsHandler) GetLists(w http.ResponseWriter, r *http.Request) {
	user, err := h.currentUser(r)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}

	lists, err := h.store.GetLists(r.Context(), user.ID)
	if err != nil {
		writeListError(w, err)
		return
	}
	if lists == nil {
		lists = []models.MovieList{}
	}
	respondJSON(w, http.StatusOK, lists)
}

// GetList handles GET /api/lists/{listID}.
func (h *ListsHandler) GetList(w http.ResponseWriter, r *http.Request) {
	user, err := h.currentUser(r)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}

	list, err := h.store.GetList(r.Context(), user.ID, chi.URLParam(r, "listID"))
	if err != nil {
		writeListError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, list)
}

// AddMovie handles POST /api/lists/{listID}/movies. Re-adding a movie id is
// idempotent: the list is unchanged and the response says so.
func (h *ListsHandler) AddMovie(w http.ResponseWriter, r *http.Request) {
	user, err := h.currentUser(r)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}

	var movie models.EnrichedMovie
	if err := json.NewDecoder(r.Body).Decode(&movie); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON body", "")
		return
	}
	if movie.ID == 0 {
		respondError(w, http.StatusBadRequest, "Movie id is required", "")
		return
	}

	added, err := h.store.AddMovieToList(r.Context(), user.ID, chi.URLParam(r, "listID"), movie)
	if err != nil {
		writeListError(w, err)
		return
	}

	message := "Movie added to list"
	if !added {
		message = "Movie already in list"
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"added": added, "message": message})
}

// RemoveMovie handles DELETE /api/lists/{listID}/movies/{movieID}.
func (h *ListsHandler) RemoveMovie(w http.ResponseWriter, r *http.Request) {
	user, err := h.currentUser(r)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}

	movieID, err := strconv.Atoi(chi.URLParam(r, "movieID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid movie id", "")
		return
	}

	if err := h.store.RemoveMovieFromList(r.Context(), user.ID, chi.URLParam(r, "listID"), movieID); err != nil {
		writeListError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Movie removed from list"})
}

// RenameList handles PATCH /api/lists/{listID}.
func (h *ListsHandler) RenameList(w http.ResponseWriter, r *http.Request) {
	user, err := h.currentUser(r)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}

	var req renameListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON body", "")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		respondError(w, http.StatusBadRequest, "List name is required", "")
		return
	}

	if err := h.store.RenameList(r.Context(), user.ID, chi.URLParam(r, "listID"), strings.TrimSpace(req.Name)); err != nil {
		writeListError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "List renamed"})
}

// DeleteList handles DELETE /api/lists/{listID}.
func (h *ListsHandler) DeleteList(w http.ResponseWriter, r *http.Request) {
	user, err := h.currentUser(r)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}

	if err := h.store.DeleteList(r.Context(), user.ID, chi.URLParam(r, "listID")); err != nil {
		writeListError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "List deleted"})
}

func writeListError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrListNotFound):
		respondError(w, http.StatusNotFound, "List not found", "")
	case errors.Is(err, services.ErrMovieNotInList):
		respondError(w, http.StatusNotFound, "Movie not in list", "")
	default:
		writeServiceError(w, err)
	}
}
