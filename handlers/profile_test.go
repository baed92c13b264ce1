package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"Reelpick/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProfileStore struct {
	pref  *models.UserPreference
	saved []models.SavedMovie
}

func (f *fakeProfileStore) GetPreference(ctx context.Context, userID int64) (*models.UserPreference, error) {
	return f.pref, nil
}

func (f *fakeProfileStore) GetSavedMovies(ctx context.Context, userID int64) ([]models.SavedMovie, error) {
	return f.saved, nil
}

func newTestProfileHandler(store ProfileStore) *ProfileHandler {
	h := NewProfileHandler(store)
	h.currentUser = authedUser
	return h
}

func TestGetPreference(t *testing.T) {
	h := newTestProfileHandler(&fakeProfileStore{
		pref: &models.UserPreference{UserID: 7, Genre: "Thriller", Language: "en"},
	})

	rec := httptest.NewRecorder()
	h.GetPreference(rec, httptest.NewRequest(http.MethodGet, "/api/preferences", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var pref models.UserPreference
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pref))
	assert.Equal(t, "Thriller", pref.Genre)
}

func TestGetPreference_NoneSaved(t *testing.T) {
	h := newTestProfileHandler(&fakeProfileStore{})

	rec := httptest.NewRecorder()
	h.GetPreference(rec, httptest.NewRequest(http.MethodGet, "/api/preferences", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetSavedMovies_EmptyIsArrayNotNull(t *testing.T) {
	h := newTestProfileHandler(&fakeProfileStore{saved: []models.SavedMovie{}})

	rec := httptest.NewRecorder()
	h.GetSavedMovies(rec, httptest.NewRequest(http.MethodGet, "/api/movies", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestGetSavedMovies_Unauthorized(t *testing.T) {
	h := NewProfileHandler(&fakeProfileStore{})
	h.currentUser = anonymousUser

	rec := httptest.NewRecorder()
	h.GetSavedMovies(rec, httptest.NewRequest(http.MethodGet, "/api/movies", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
