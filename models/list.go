package models

import "time"

// MovieList is a named, ordered collection of movie snapshots owned by a
// single user. Duplicate movie ids are suppressed at add time.
type MovieList struct {
	ID        string          `json:"id"`
	UserID    int64           `json:"user_id"`
	Name      string          `json:"name"`
	Movies    []EnrichedMovie `json:"movies"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
