package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ORACLE_API_KEY", "")
	t.Setenv("RECOMMEND_STRATEGY", "oracle")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "5003", cfg.ServerPort)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "https://api.themoviedb.org/3", cfg.TMDBBaseURL)
	assert.Equal(t, "US", cfg.WatchRegion)
}

func TestLoad_EnvOverridesDefaults(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("WATCH_REGION", "GB")
	t.Setenv("TMDB_API_KEY", "abc123")
	t.Setenv("RECOMMEND_STRATEGY", "search")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "GB", cfg.WatchRegion)
	assert.Equal(t, "abc123", cfg.TMDBAPIKey)
	assert.Equal(t, "search", cfg.RecommendStrategy)
}

func TestLoad_InvalidStrategy(t *testing.T) {
	t.Setenv("RECOMMEND_STRATEGY", "llm")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RECOMMEND_STRATEGY")
}

func TestLoad_OracleWithoutKeyFallsBackToSearch(t *testing.T) {
	t.Setenv("RECOMMEND_STRATEGY", "oracle")
	t.Setenv("ORACLE_API_KEY", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "search", cfg.RecommendStrategy)
}

func TestLoad_OracleWithKeyStaysOracle(t *testing.T) {
	t.Setenv("RECOMMEND_STRATEGY", "oracle")
	t.Setenv("ORACLE_API_KEY", "sk-test")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "oracle", cfg.RecommendStrategy)
}
