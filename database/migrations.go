package database

import (
	"fmt"
)

func RunMigrations() error {
	usersSQL := `
	CREATE TABLE IF NOT EXISTS users (
		id SERIAL PRIMARY KEY,
		username VARCHAR(255) UNIQUE NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		is_admin BOOLEAN DEFAULT FALSE,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	`
	if _, err := DB.Exec(usersSQL); err != nil {
		return fmt.Errorf("failed to run users migration: %w", err)
	}

	preferencesSQL := `
	CREATE TABLE IF NOT EXISTS preferences (
		user_id INTEGER PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
		genre VARCHAR(255) NOT NULL,
		language VARCHAR(50),
		details TEXT,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	`
	if _, err := DB.Exec(preferencesSQL); err != nil {
		return fmt.Errorf("failed to run preferences migration: %w", err)
	}

	savedMoviesSQL := `
	CREATE TABLE IF NOT EXISTS saved_movies (
		user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		movie_id INTEGER NOT NULL,
		movie JSONB NOT NULL,
		genres TEXT,
		language VARCHAR(50),
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (user_id, movie_id)
	);
	`
	if _, err := DB.Exec(savedMoviesSQL); err != nil {
		return fmt.Errorf("failed to run saved_movies migration: %w", err)
	}

	listsSQL := `
	CREATE TABLE IF NOT EXISTS movie_lists (
		id UUID PRIMARY KEY,
		user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		name VARCHAR(255) NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS movie_list_items (
		list_id UUID NOT NULL REFERENCES movie_lists(id) ON DELETE CASCADE,
		movie_id INTEGER NOT NULL,
		position INTEGER NOT NULL,
		movie JSONB NOT NULL,
		added_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (list_id, movie_id)
	);

	CREATE INDEX IF NOT EXISTS idx_movie_lists_user ON movie_lists(user_id);
	`
	if _, err := DB.Exec(listsSQL); err != nil {
		return fmt.Errorf("failed to run movie_lists migration: %w", err)
	}

	return nil
}
