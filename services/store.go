package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"Reelpick/models"

	"github.com/google/uuid"
)

var (
	ErrListNotFound   = errors.New("list not found")
	ErrMovieNotInList = errors.New("movie not in list")
)

// Store is the persistence facade. Preference and saved-movie upserts are
// fire-and-forget from the recommendation path; list operations are
// synchronous and their failures surface to the caller.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// UpsertPreference replaces the single preference row keyed by user id.
func (s *Store) UpsertPreference(ctx context.Context, userID int64, genre, language, details string) error {
	query := `
		INSERT INTO preferences (user_id, genre, language, details, updated_at)
		VALUES ($1, $2, $3, $4, CURRENT_TIMESTAMP)
		ON CONFLICT (user_id) DO UPDATE
		SET genre = EXCLUDED.genre, language = EXCLUDED.language, details = EXCLUDED.details, updated_at = CURRENT_TIMESTAMP
	`
	if _, err := s.db.ExecContext(ctx, query, userID, genre, language, details); err != nil {
		return &PersistenceError{Op: "upsert preference", Err: err}
	}
	return nil
}

// GetPreference returns the saved preference for a user, or nil if none.
func (s *Store) GetPreference(ctx context.Context, userID int64) (*models.UserPreference, error) {
	var pref models.UserPreference
	query := `SELECT user_id, genre, language, details, updated_at FROM preferences WHERE user_id = $1`
	err := s.db.QueryRowContext(ctx, query, userID).Scan(&pref.UserID, &pref.Genre, &pref.Language, &pref.Details, &pref.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, &PersistenceError{Op: "get preference", Err: err}
	}
	return &pref, nil
}

// UpsertSavedMovie writes a full movie snapshot into the per-user cache,
// keyed by (user, movie).
func (s *Store) UpsertSavedMovie(ctx context.Context, userID int64, movie models.EnrichedMovie, language string) error {
	payload, err := json.Marshal(movie)
	if err != nil {
		return &PersistenceError{Op: "marshal saved movie", Err: err}
	}

	query := `
		INSERT INTO saved_movies (user_id, movie_id, movie, genres, language, updated_at)
		VALUES ($1, $2, $3, $4, $5, CURRENT_TIMESTAMP)
		ON CONFLICT (user_id, movie_id) DO UPDATE
		SET movie = EXCLUDED.movie, genres = EXCLUDED.genres, language = EXCLUDED.language, updated_at = CURRENT_TIMESTAMP
	`
	if _, err := s.db.ExecContext(ctx, query, userID, movie.ID, payload, JoinGenres(movie.Genres), language); err != nil {
		return &PersistenceError{Op: "upsert saved movie", Err: err}
	}
	return nil
}

// GetSavedMovies returns the user's cached movies, most recently updated
// first.
func (s *Store) GetSavedMovies(ctx context.Context, userID int64) ([]models.SavedMovie, error) {
	query := `
		SELECT user_id, movie_id, movie, COALESCE(genres, ''), COALESCE(language, ''), updated_at
		FROM saved_movies WHERE user_id = $1 ORDER BY updated_at DESC
	`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, &PersistenceError{Op: "get saved movies", Err: err}
	}
	defer rows.Close()

	saved := []models.SavedMovie{}
	for rows.Next() {
		var sm models.SavedMovie
		var payload []byte
		if err := rows.Scan(&sm.UserID, &sm.MovieID, &payload, &sm.Genres, &sm.Language, &sm.UpdatedAt); err != nil {
			return nil, &PersistenceError{Op: "scan saved movie", Err: err}
		}
		if err := json.Unmarshal(payload, &sm.Movie); err != nil {
			return nil, &PersistenceError{Op: "decode saved movie", Err: err}
		}
		saved = append(saved, sm)
	}
	if err := rows.Err(); err != nil {
		return nil, &PersistenceError{Op: "get saved movies", Err: err}
	}
	return saved, nil
}

// CreateList creates a named list for the user, optionally seeded with one
// movie.
func (s *Store) CreateList(ctx context.Context, userID int64, name string, seed *models.EnrichedMovie) (*models.MovieList, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, &PersistenceError{Op: "create list", Err: err}
	}
	defer tx.Rollback()

	list := &models.MovieList{
		ID:     uuid.NewString(),
		UserID: userID,
		Name:   name,
		Movies: []models.EnrichedMovie{},
	}

	query := `
		INSERT INTO movie_lists (id, user_id, name, created_at, updated_at)
		VALUES ($1, $2, $3, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING created_at, updated_at
	`
	if err := tx.QueryRowContext(ctx, query, list.ID, userID, name).Scan(&list.CreatedAt, &list.UpdatedAt); err != nil {
		return nil, &PersistenceError{Op: "create list", Err: err}
	}

	if seed != nil {
		payload, err := json.Marshal(seed)
		if err != nil {
			return nil, &PersistenceError{Op: "marshal seed movie", Err: err}
		}
		itemQuery := `INSERT INTO movie_list_items (list_id, movie_id, position, movie) VALUES ($1, $2, 1, $3)`
		if _, err := tx.ExecContext(ctx, itemQuery, list.ID, seed.ID, payload); err != nil {
			return nil, &PersistenceError{Op: "seed list", Err: err}
		}
		list.Movies = append(list.Movies, *seed)
	}

	if err := tx.Commit(); err != nil {
		return nil, &PersistenceError{Op: "create list", Err: err}
	}
	return list, nil
}

// GetLists returns all lists owned by the user, movies included, newest
// first.
func (s *Store) GetLists(ctx context.Context, userID int64) ([]models.MovieList, error) {
	query := `SELECT id, user_id, name, created_at, updated_at FROM movie_lists WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, &PersistenceError{Op: "get lists", Err: err}
	}
	defer rows.Close()

	var lists []models.MovieList
	for rows.Next() {
		var list models.MovieList
		if err := rows.Scan(&list.ID, &list.UserID, &list.Name, &list.CreatedAt, &list.UpdatedAt); err != nil {
			return nil, &PersistenceError{Op: "scan list", Err: err}
		}
		lists = append(lists, list)
	}
	if err := rows.Err(); err != nil {
		return nil, &PersistenceError{Op: "get lists", Err: err}
	}

	for i := range lists {
		movies, err := s.listMovies(ctx, lists[i].ID)
		if err != nil {
			return nil, err
		}
		lists[i].Movies = movies
	}
	return lists, nil
}

// GetList returns one list owned by the user, or ErrListNotFound.
func (s *Store) GetList(ctx context.Context, userID int64, listID string) (*models.MovieList, error) {
	var list models.MovieList
	query := `SELECT id, user_id, name, created_at, updated_at FROM movie_lists WHERE id = $1 AND user_id = $2`
	err := s.db.QueryRowContext(ctx, query, listID, userID).Scan(&list.ID, &list.UserID, &list.Name, &list.CreatedAt, &list.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrListNotFound
	}
	if err != nil {
		return nil, &PersistenceError{Op: "get list", Err: err}
	}

	movies, err := s.listMovies(ctx, listID)
	if err != nil {
		return nil, err
	}
	list.Movies = movies
	return &list, nil
}

// AddMovieToList appends a movie snapshot to the list. Adding a movie id
// already present is a no-op: added is false and the list is unchanged.
func (s *Store) AddMovieToList(ctx context.Context, userID int64, listID string, movie models.EnrichedMovie) (added bool, err error) {
	if err := s.touchOwnedList(ctx, userID, listID); err != nil {
		return false, err
	}

	payload, err := json.Marshal(movie)
	if err != nil {
		return false, &PersistenceError{Op: "marshal list movie", Err: err}
	}

	query := `
		INSERT INTO movie_list_items (list_id, movie_id, position, movie)
		SELECT $1, $2, COALESCE(MAX(position), 0) + 1, $3 FROM movie_list_items WHERE list_id = $1
		ON CONFLICT (list_id, movie_id) DO NOTHING
	`
	result, err := s.db.ExecContext(ctx, query, listID, movie.ID, payload)
	if err != nil {
		return false, &PersistenceError{Op: "add movie to list", Err: err}
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, &PersistenceError{Op: "add movie to list", Err: err}
	}
	return affected > 0, nil
}

// RemoveMovieFromList deletes one movie from the list.
func (s *Store) RemoveMovieFromList(ctx context.Context, userID int64, listID string, movieID int) error {
	if err := s.touchOwnedList(ctx, userID, listID); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM movie_list_items WHERE list_id = $1 AND movie_id = $2`, listID, movieID)
	if err != nil {
		return &PersistenceError{Op: "remove movie from list", Err: err}
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return &PersistenceError{Op: "remove movie from list", Err: err}
	}
	if affected == 0 {
		return ErrMovieNotInList
	}
	return nil
}

// RenameList changes the list's name.
func (s *Store) RenameList(ctx context.Context, userID int64, listID, name string) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE movie_lists SET name = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2 AND user_id = $3`,
		name, listID, userID)
	if err != nil {
		return &PersistenceError{Op: "rename list", Err: err}
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return &PersistenceError{Op: "rename list", Err: err}
	}
	if affected == 0 {
		return ErrListNotFound
	}
	return nil
}

// DeleteList removes the list and its items.
func (s *Store) DeleteList(ctx context.Context, userID int64, listID string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM movie_lists WHERE id = $1 AND user_id = $2`, listID, userID)
	if err != nil {
		return &PersistenceError{Op: "delete list", Err: err}
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return &PersistenceError{Op: "delete list", Err: err}
	}
	if affected == 0 {
		return ErrListNotFound
	}
	return nil
}

func (s *Store) listMovies(ctx context.Context, listID string) ([]models.EnrichedMovie, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT movie FROM movie_list_items WHERE list_id = $1 ORDER BY position`, listID)
	if err != nil {
		return nil, &PersistenceError{Op: "get list movies", Err: err}
	}
	defer rows.Close()

	movies := []models.EnrichedMovie{}
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, &PersistenceError{Op: "scan list movie", Err: err}
		}
		var movie models.EnrichedMovie
		if err := json.Unmarshal(payload, &movie); err != nil {
			return nil, &PersistenceError{Op: "decode list movie", Err: err}
		}
		movies = append(movies, movie)
	}
	if err := rows.Err(); err != nil {
		return nil, &PersistenceError{Op: "get list movies", Err: err}
	}
	return movies, nil
}

// touchOwnedList verifies ownership and bumps updated_at in one statement.
func (s *Store) touchOwnedList(ctx context.Context, userID int64, listID string) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE movie_lists SET updated_at = CURRENT_TIMESTAMP WHERE id = $1 AND user_id = $2`,
		listID, userID)
	if err != nil {
		return &PersistenceError{Op: "check list ownership", Err: err}
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return &PersistenceError{Op: "check list ownership", Err: err}
	}
	if affected == 0 {
		return ErrListNotFound
	}
	return nil
}

// JoinGenres derives the comma-joined genre string stored alongside cached
// movies.
func JoinGenres(genres []models.Genre) string {
	names := make([]string, 0, len(genres))
	for _, g := range genres {
		if g.Name != "" {
			names = append(names, g.Name)
		}
	}
	return strings.Join(names, ", ")
}
