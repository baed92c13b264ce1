package models

import "time"

// UserPreference is the single saved preference row per user. Upserts fully
// replace previous values.
type UserPreference struct {
	UserID    int64     `json:"user_id"`
	Genre     string    `json:"genre"`
	Language  string    `json:"language"`
	Details   string    `json:"details"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SavedMovie is a per-user cache entry keyed by (user, movie).
type SavedMovie struct {
	UserID    int64         `json:"user_id"`
	MovieID   int           `json:"movie_id"`
	Movie     EnrichedMovie `json:"movie"`
	Genres    string        `json:"genres"` // derived comma-joined genre names
	Language  string        `json:"language"`
	UpdatedAt time.Time     `json:"updated_at"`
}
